package collaborator

import (
	"context"

	"github.com/hotgigs/automation/action"
	"github.com/hotgigs/automation/logger"
	"github.com/hotgigs/automation/task"
	"go.uber.org/zap"
)

var _ action.Notifier = new(LogNotifier)
var _ task.Notifier = new(LogNotifier)

// LogNotifier delivers notifications to the process log.
type LogNotifier struct{}

func (LogNotifier) Send(ctx context.Context, recipient string, message string, notificationType string) (bool, error) {
	logger.Info("notification", zap.String("recipient", recipient), zap.String("type", notificationType), zap.String("message", message))
	return true, nil
}
