package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hotgigs/automation/analytics"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func load(t *testing.T, args []string, configFile string) (Config, error) {
	t.Helper()
	v := viper.New()
	cmd := &cobra.Command{Use: "test"}
	require.NoError(t, SetupFlags(cmd, v))
	require.NoError(t, cmd.ParseFlags(args))
	return Load(v, configFile)
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := load(t, nil, "")
	require.NoError(t, err)
	require.Equal(t, 8080, cfg.HttpPort)
	require.Equal(t, 5, cfg.WorkerPoolSize)
	require.Equal(t, 512, cfg.QueueCapacity)
	require.Equal(t, 10000, cfg.MaxStepsPerRun)
	require.Equal(t, STORAGE_TYPE_INMEM, cfg.StorageType)
	require.Equal(t, []string{"localhost:6379"}, cfg.RedisConfig.Addrs)
	require.Equal(t, analytics.LOG_DATA_COLLECTOR, cfg.AnalyticsConfig.CollectorType)
	require.Equal(t, 3, cfg.AIRetryCount)
	require.Equal(t, time.Minute, cfg.OverdueCheckInterval)
	require.Equal(t, "info", cfg.LogLevel)
}

func TestLoadFlagsAndEnv(t *testing.T) {
	t.Setenv("HOTGIGS_WORKER_POOL_SIZE", "9")
	cfg, err := load(t, []string{"--http-port=9090", "--redis-addr=a:1,b:2", "--storage-impl=redis", "--analytics-file=/tmp/steps.log"}, "")
	require.NoError(t, err)
	require.Equal(t, 9090, cfg.HttpPort)
	require.Equal(t, 9, cfg.WorkerPoolSize)
	require.Equal(t, STORAGE_TYPE_REDIS, cfg.StorageType)
	require.Equal(t, []string{"a:1", "b:2"}, cfg.RedisConfig.Addrs)
	require.Equal(t, analytics.LOG_FILE_DATA_COLLECTOR, cfg.AnalyticsConfig.CollectorType)
	require.Equal(t, "/tmp/steps.log", cfg.AnalyticsConfig.FileName)
}

func TestLoadConfigFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "hotgigs.yaml")
	require.NoError(t, os.WriteFile(file, []byte("queue-capacity: 64\nmax-steps-per-run: 0\n"), 0644))
	cfg, err := load(t, nil, file)
	require.NoError(t, err)
	require.Equal(t, 64, cfg.QueueCapacity)
	require.Equal(t, 0, cfg.MaxStepsPerRun)

	_, err = load(t, nil, filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
}

func TestValidate(t *testing.T) {
	_, err := load(t, []string{"--storage-impl=dynamo"}, "")
	require.Error(t, err)

	_, err = load(t, []string{"--worker-pool-size=0"}, "")
	require.Error(t, err)

	_, err = load(t, []string{"--max-steps-per-run=-1"}, "")
	require.Error(t, err)
}
