package model

import "time"

type TriggerType string

const (
	TriggerManual    TriggerType = "manual"
	TriggerScheduled TriggerType = "scheduled"
	TriggerEvent     TriggerType = "event"
	TriggerCondition TriggerType = "condition"
)

type WorkflowStatus string

const (
	WorkflowActive    WorkflowStatus = "active"
	WorkflowPaused    WorkflowStatus = "paused"
	WorkflowCompleted WorkflowStatus = "completed"
	WorkflowFailed    WorkflowStatus = "failed"
)

// WorkflowStep ids are unique within their workflow only.
type WorkflowStep struct {
	Id           string         `json:"id"`
	Name         string         `json:"name"`
	Description  string         `json:"description"`
	StepType     string         `json:"step_type"`
	Action       string         `json:"action"`
	Conditions   map[string]any `json:"conditions"`
	Parameters   map[string]any `json:"parameters"`
	NextSteps    []string       `json:"next_steps"`
	FailureSteps []string       `json:"failure_steps"`
}

// Workflow owns its steps. Steps[0] is the entry point.
type Workflow struct {
	Id                string         `json:"id"`
	Name              string         `json:"name"`
	Description       string         `json:"description"`
	TriggerType       TriggerType    `json:"trigger_type"`
	TriggerConditions map[string]any `json:"trigger_conditions"`
	Steps             []WorkflowStep `json:"steps"`
	Status            WorkflowStatus `json:"status"`
	CreatedBy         string         `json:"created_by"`
	CreatedAt         time.Time      `json:"created_at"`
	LastExecuted      *time.Time     `json:"last_executed,omitempty"`
	ExecutionCount    int            `json:"execution_count"`
}

// Clone copies the bookkeeping fields. Steps are shared since they never change after creation.
func (w *Workflow) Clone() *Workflow {
	c := *w
	if w.LastExecuted != nil {
		t := *w.LastExecuted
		c.LastExecuted = &t
	}
	return &c
}

// Step looks a step up by id.
func (w *Workflow) Step(id string) (*WorkflowStep, bool) {
	for i := range w.Steps {
		if w.Steps[i].Id == id {
			return &w.Steps[i], true
		}
	}
	return nil, false
}

type WorkflowRequest struct {
	Name              string         `json:"name"`
	Description       string         `json:"description"`
	TriggerType       TriggerType    `json:"trigger_type"`
	TriggerConditions map[string]any `json:"trigger_conditions"`
	Steps             []WorkflowStep `json:"steps"`
	CreatedBy         string         `json:"created_by"`
}

type WorkflowRunRequest struct {
	Context map[string]any `json:"context"`
}
