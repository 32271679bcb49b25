package task

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hotgigs/automation/logger"
	"github.com/hotgigs/automation/util"
	"go.uber.org/zap"
)

const OVERDUE_NOTIFICATION_TYPE = "task_overdue"

type Notifier interface {
	Send(ctx context.Context, recipient string, message string, notificationType string) (bool, error)
}

// OverdueMonitor periodically notifies the owner of each overdue task. A task is reported once
// per monitor; a failed notification is retried on the next tick.
type OverdueMonitor struct {
	tasks    *Manager
	notifier Notifier
	worker   *util.TickWorker
	mu       sync.Mutex
	notified map[string]struct{}
}

func NewOverdueMonitor(tasks *Manager, notifier Notifier, interval time.Duration) *OverdueMonitor {
	m := &OverdueMonitor{
		tasks:    tasks,
		notifier: notifier,
		notified: make(map[string]struct{}),
	}
	m.worker = util.NewTickWorker("overdue-task-monitor", interval, func() {
		m.Check()
	})
	return m
}

func (m *OverdueMonitor) Start() {
	m.worker.Start()
}

func (m *OverdueMonitor) Stop() {
	m.worker.Stop()
}

// Check runs one pass and returns the number of notifications sent.
func (m *OverdueMonitor) Check() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	sent := 0
	for _, t := range m.tasks.GetOverdueTasks() {
		if _, ok := m.notified[t.Id]; ok {
			continue
		}
		recipient := t.AssignedTo
		if recipient == "" {
			recipient = t.CreatedBy
		}
		message := fmt.Sprintf("Task %q is overdue (due %s)", t.Title, t.DueDate.Format(time.RFC3339))
		ok, err := m.notifier.Send(context.Background(), recipient, message, OVERDUE_NOTIFICATION_TYPE)
		if err != nil || !ok {
			logger.Warn("overdue notification not delivered", zap.String("task", t.Id), zap.String("recipient", recipient), zap.Error(err))
			continue
		}
		m.notified[t.Id] = struct{}{}
		sent++
	}
	if sent > 0 {
		logger.Info("overdue tasks notified", zap.Int("count", sent))
	}
	return sent
}
