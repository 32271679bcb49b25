package analytics

type DataCollectorConfig struct {
	FileName      string
	CollectorType DataCollectorType
}

type DataCollectorType string

const LOG_DATA_COLLECTOR DataCollectorType = "LOG_DATA_COLLECTOR"
const LOG_FILE_DATA_COLLECTOR DataCollectorType = "LOG_FILE_DATA_COLLECTOR"
const NOOP_DATA_COLLECTOR DataCollectorType = "NOOP_DATA_COLLECTOR"

// StepRecord identifies one step dispatch inside one execution.
type StepRecord struct {
	WorkflowId  string
	ExecutionId string
	StepId      string
	Action      string
}

type WorkflowDataCollector interface {
	RecordStepSuccess(rec StepRecord, data map[string]any)
	RecordStepFailure(rec StepRecord, reason string)
	RecordStepSkipped(rec StepRecord)
}

func NewDataCollector(config DataCollectorConfig) (WorkflowDataCollector, error) {
	switch config.CollectorType {
	case LOG_FILE_DATA_COLLECTOR:
		return NewLogFileDataCollector(config.FileName)
	case NOOP_DATA_COLLECTOR:
		return NoopDataCollector{}, nil
	}
	return NewLogDataCollector(), nil
}

var _ WorkflowDataCollector = NoopDataCollector{}

type NoopDataCollector struct{}

func (NoopDataCollector) RecordStepSuccess(StepRecord, map[string]any) {}
func (NoopDataCollector) RecordStepFailure(StepRecord, string)         {}
func (NoopDataCollector) RecordStepSkipped(StepRecord)                 {}
