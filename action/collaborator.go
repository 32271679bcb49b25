package action

import (
	"context"

	"github.com/hotgigs/automation/model"
)

type Notifier interface {
	Send(ctx context.Context, recipient string, message string, notificationType string) (bool, error)
}

type ApplicationTracker interface {
	UpdateStatus(ctx context.Context, applicationId string, status string) (bool, error)
}

type ApplicationSubmitter interface {
	Submit(ctx context.Context, candidateId string, jobId string) (bool, error)
}

type ScreeningResult struct {
	Score float64 `json:"score"`
}

type Screener interface {
	Score(ctx context.Context, candidateId string, jobId string, criteria map[string]any) (ScreeningResult, error)
}

type Analyzer interface {
	Analyze(ctx context.Context, analysisType string, data map[string]any) (map[string]any, error)
}

type InterviewScheduler interface {
	Schedule(ctx context.Context, candidateId string, interviewerId string, interviewType string) (bool, error)
}

type TaskCreator interface {
	CreateTask(req model.TaskRequest) string
}

// Collaborators groups the external services handlers call out to. Any field may be nil, in
// which case the handler falls back to its placeholder behavior.
type Collaborators struct {
	Notifier  Notifier
	Tracker   ApplicationTracker
	Submitter ApplicationSubmitter
	Screener  Screener
	Analyzer  Analyzer
	Scheduler InterviewScheduler
}
