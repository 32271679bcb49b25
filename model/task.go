package model

import "time"

type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskInProgress TaskStatus = "in_progress"
	TaskCompleted  TaskStatus = "completed"
	TaskFailed     TaskStatus = "failed"
	TaskCancelled  TaskStatus = "cancelled"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskPending, TaskInProgress, TaskCompleted, TaskFailed, TaskCancelled:
		return true
	}
	return false
}

type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
	PriorityUrgent TaskPriority = "urgent"
)

func (p TaskPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Task is an independently tracked unit of work. Dependencies are informational only.
type Task struct {
	Id           string         `json:"id"`
	Title        string         `json:"title"`
	Description  string         `json:"description"`
	TaskType     string         `json:"task_type"`
	Status       TaskStatus     `json:"status"`
	Priority     TaskPriority   `json:"priority"`
	AssignedTo   string         `json:"assigned_to,omitempty"`
	CreatedBy    string         `json:"created_by"`
	CreatedAt    time.Time      `json:"created_at"`
	DueDate      *time.Time     `json:"due_date,omitempty"`
	CompletedAt  *time.Time     `json:"completed_at,omitempty"`
	Progress     float64        `json:"progress"`
	Metadata     map[string]any `json:"metadata"`
	Dependencies []string       `json:"dependencies"`
}

// Clone returns a deep enough copy for handing out of a lock.
func (t *Task) Clone() *Task {
	c := *t
	if t.DueDate != nil {
		d := *t.DueDate
		c.DueDate = &d
	}
	if t.CompletedAt != nil {
		d := *t.CompletedAt
		c.CompletedAt = &d
	}
	c.Metadata = make(map[string]any, len(t.Metadata))
	for k, v := range t.Metadata {
		c.Metadata[k] = v
	}
	c.Dependencies = append([]string(nil), t.Dependencies...)
	return &c
}

type TaskRequest struct {
	Title        string         `json:"title"`
	Description  string         `json:"description"`
	TaskType     string         `json:"task_type"`
	AssignedTo   string         `json:"assigned_to"`
	CreatedBy    string         `json:"created_by"`
	Priority     TaskPriority   `json:"priority"`
	DueDate      *time.Time     `json:"due_date"`
	Metadata     map[string]any `json:"metadata"`
	Dependencies []string       `json:"dependencies"`
}

type TaskStatusUpdate struct {
	Status   TaskStatus `json:"status"`
	Progress *float64   `json:"progress"`
}
