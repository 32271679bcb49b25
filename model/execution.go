package model

import "time"

type ExecutionState string

const (
	ExecutionQueued    ExecutionState = "queued"
	ExecutionRunning   ExecutionState = "running"
	ExecutionCompleted ExecutionState = "completed"
	ExecutionCancelled ExecutionState = "cancelled"
	ExecutionTruncated ExecutionState = "truncated"
)

// ExecutionResult summarizes one graph walk once it has finished.
type ExecutionResult struct {
	ExecutionId   string         `json:"execution_id"`
	WorkflowId    string         `json:"workflow_id"`
	State         ExecutionState `json:"state"`
	StepsExecuted int            `json:"steps_executed"`
	StepsFailed   int            `json:"steps_failed"`
	StepsSkipped  int            `json:"steps_skipped"`
	ExecutedSteps []string       `json:"executed_steps"`
	Context       map[string]any `json:"context"`
	StartedAt     time.Time      `json:"started_at"`
	FinishedAt    time.Time      `json:"finished_at"`
}
