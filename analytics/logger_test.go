package analytics

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLogFileDataCollector(t *testing.T) {
	fileName := filepath.Join(t.TempDir(), "analytics.log")
	collector, err := NewDataCollector(DataCollectorConfig{FileName: fileName, CollectorType: LOG_FILE_DATA_COLLECTOR})
	require.NoError(t, err)

	rec := StepRecord{WorkflowId: "wf", ExecutionId: "x1", StepId: "s1", Action: "create_task"}
	collector.RecordStepSuccess(rec, map[string]any{"created_task_id": "t1"})
	collector.RecordStepFailure(rec, "boom")
	collector.RecordStepSkipped(rec)
	require.NoError(t, collector.(*LogFileDataCollector).Close())

	f, err := os.Open(fileName)
	require.NoError(t, err)
	defer f.Close()

	var entries []map[string]any
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var entry map[string]any
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &entry))
		entries = append(entries, entry)
	}
	require.Len(t, entries, 3)
	require.Equal(t, "success", entries[0]["msg"])
	require.Equal(t, "t1", entries[0]["data"].(map[string]any)["created_task_id"])
	require.Equal(t, "failure", entries[1]["msg"])
	require.Equal(t, "boom", entries[1]["reason"])
	require.Equal(t, "skipped", entries[2]["msg"])
	for _, entry := range entries {
		require.Equal(t, "wf", entry["workflow"])
		require.Equal(t, "s1", entry["step"])
	}
}

func TestNewDataCollector(t *testing.T) {
	c, err := NewDataCollector(DataCollectorConfig{CollectorType: NOOP_DATA_COLLECTOR})
	require.NoError(t, err)
	require.IsType(t, NoopDataCollector{}, c)

	c, err = NewDataCollector(DataCollectorConfig{})
	require.NoError(t, err)
	require.IsType(t, &LogDataCollector{}, c)
}
