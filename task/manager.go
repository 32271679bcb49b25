package task

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hotgigs/automation/logger"
	"github.com/hotgigs/automation/model"
	"go.uber.org/zap"
)

// Manager is the in-memory store of tasks. It is safe for concurrent use by workflow runs.
type Manager struct {
	mu    sync.RWMutex
	tasks map[string]*model.Task
	order []string
	seq   uint64
	now   func() time.Time
}

type Option func(*Manager)

func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

func NewManager(opts ...Option) *Manager {
	m := &Manager{
		tasks: make(map[string]*model.Task),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Manager) nextId() string {
	n := atomic.AddUint64(&m.seq, 1)
	return fmt.Sprintf("task_%d_%d", m.now().UnixNano(), n)
}

// CreateTask always succeeds and returns the new task id.
func (m *Manager) CreateTask(req model.TaskRequest) string {
	createdBy := req.CreatedBy
	if createdBy == "" {
		createdBy = "system"
	}
	priority := req.Priority
	if priority == "" {
		priority = model.PriorityMedium
	}
	metadata := make(map[string]any, len(req.Metadata))
	for k, v := range req.Metadata {
		metadata[k] = v
	}
	t := &model.Task{
		Id:           m.nextId(),
		Title:        req.Title,
		Description:  req.Description,
		TaskType:     req.TaskType,
		Status:       model.TaskPending,
		Priority:     priority,
		AssignedTo:   req.AssignedTo,
		CreatedBy:    createdBy,
		CreatedAt:    m.now(),
		Progress:     0,
		Metadata:     metadata,
		Dependencies: append([]string(nil), req.Dependencies...),
	}
	if req.DueDate != nil {
		d := *req.DueDate
		t.DueDate = &d
	}

	m.mu.Lock()
	m.tasks[t.Id] = t
	m.order = append(m.order, t.Id)
	m.mu.Unlock()

	logger.Info("task created", zap.String("task", t.Id), zap.String("title", t.Title), zap.String("assignedTo", t.AssignedTo))
	return t.Id
}

// UpdateTaskStatus returns false when id is unknown. A nil progress leaves progress untouched
// unless the new status is completed, which always forces 100.
func (m *Manager) UpdateTaskStatus(id string, status model.TaskStatus, progress *float64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tasks[id]
	if !ok {
		return false
	}
	t.Status = status
	if progress != nil {
		t.Progress = clamp(*progress)
	}
	if status == model.TaskCompleted {
		t.Progress = 100
		now := m.now()
		t.CompletedAt = &now
	} else {
		t.CompletedAt = nil
	}
	logger.Debug("task status updated", zap.String("task", id), zap.String("status", string(status)), zap.Float64("progress", t.Progress))
	return true
}

func clamp(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// GetTask returns a copy of the task or nil.
func (m *Manager) GetTask(id string) *model.Task {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.tasks[id]
	if !ok {
		return nil
	}
	return t.Clone()
}

func (m *Manager) GetTasksByAssignee(assignee string) []*model.Task {
	return m.filter(func(t *model.Task) bool {
		return t.AssignedTo == assignee
	})
}

func (m *Manager) GetTasksByStatus(status model.TaskStatus) []*model.Task {
	return m.filter(func(t *model.Task) bool {
		return t.Status == status
	})
}

// GetOverdueTasks is evaluated against the clock on every call.
func (m *Manager) GetOverdueTasks() []*model.Task {
	now := m.now()
	return m.filter(func(t *model.Task) bool {
		return t.DueDate != nil && t.DueDate.Before(now) && t.Status != model.TaskCompleted
	})
}

func (m *Manager) ListTasks() []*model.Task {
	return m.filter(func(*model.Task) bool { return true })
}

func (m *Manager) filter(keep func(t *model.Task) bool) []*model.Task {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*model.Task, 0)
	for _, id := range m.order {
		t := m.tasks[id]
		if keep(t) {
			out = append(out, t.Clone())
		}
	}
	return out
}
