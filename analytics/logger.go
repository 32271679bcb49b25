package analytics

import (
	"os"

	"github.com/hotgigs/automation/logger"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var _ WorkflowDataCollector = new(LogFileDataCollector)

type LogFileDataCollector struct {
	fileName string
	file     *os.File
	logger   *zap.Logger
}

func NewLogFileDataCollector(fileName string) (*LogFileDataCollector, error) {
	enccoderConfig := zap.NewProductionEncoderConfig()
	enccoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	enccoderConfig.StacktraceKey = "" // to hide stacktrace info
	fileEncoder := zapcore.NewJSONEncoder(enccoderConfig)
	logFile, err := os.OpenFile(fileName, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	writer := zapcore.AddSync(logFile)
	core := zapcore.NewCore(fileEncoder, writer, zapcore.InfoLevel)
	return &LogFileDataCollector{
		fileName: fileName,
		file:     logFile,
		logger:   zap.New(core),
	}, nil
}

func recordFields(rec StepRecord) []zap.Field {
	return []zap.Field{
		zap.String("workflow", rec.WorkflowId),
		zap.String("execution", rec.ExecutionId),
		zap.String("step", rec.StepId),
		zap.String("action", rec.Action),
	}
}

func (lc *LogFileDataCollector) RecordStepSuccess(rec StepRecord, data map[string]any) {
	lc.logger.Info("success", append(recordFields(rec), zap.Any("data", data))...)
}

func (lc *LogFileDataCollector) RecordStepFailure(rec StepRecord, reason string) {
	lc.logger.Info("failure", append(recordFields(rec), zap.String("reason", reason))...)
}

func (lc *LogFileDataCollector) RecordStepSkipped(rec StepRecord) {
	lc.logger.Info("skipped", recordFields(rec)...)
}

func (lc *LogFileDataCollector) Close() error {
	_ = lc.logger.Sync()
	return lc.file.Close()
}

var _ WorkflowDataCollector = new(LogDataCollector)

// LogDataCollector writes step outcomes to the process logger at debug level.
type LogDataCollector struct{}

func NewLogDataCollector() *LogDataCollector {
	return &LogDataCollector{}
}

func (*LogDataCollector) RecordStepSuccess(rec StepRecord, data map[string]any) {
	logger.Debug("step succeeded", recordFields(rec)...)
}

func (*LogDataCollector) RecordStepFailure(rec StepRecord, reason string) {
	logger.Debug("step failed", append(recordFields(rec), zap.String("reason", reason))...)
}

func (*LogDataCollector) RecordStepSkipped(rec StepRecord) {
	logger.Debug("step skipped", recordFields(rec)...)
}
