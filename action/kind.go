package action

import (
	"context"
	"errors"
)

// Kind is the closed set of behaviors a workflow step can dispatch to.
type Kind string

const (
	CREATE_TASK               Kind = "create_task"
	SEND_NOTIFICATION         Kind = "send_notification"
	UPDATE_APPLICATION_STATUS Kind = "update_application_status"
	AUTO_APPLY                Kind = "auto_apply"
	SCREEN_CANDIDATE          Kind = "screen_candidate"
	SCHEDULE_INTERVIEW        Kind = "schedule_interview"
	AI_ANALYSIS               Kind = "ai_analysis"
)

var KINDS = []Kind{
	CREATE_TASK,
	SEND_NOTIFICATION,
	UPDATE_APPLICATION_STATUS,
	AUTO_APPLY,
	SCREEN_CANDIDATE,
	SCHEDULE_INTERVIEW,
	AI_ANALYSIS,
}

var (
	ErrUnknownAction     = errors.New("unknown action")
	ErrMissingParameter  = errors.New("missing parameter")
	ErrCollaboratorError = errors.New("collaborator failed")
)

// ParseKind maps a step's action string onto a Kind. Matching is exact.
func ParseKind(name string) (Kind, bool) {
	for _, k := range KINDS {
		if string(k) == name {
			return k, true
		}
	}
	return "", false
}

// Handler performs one action. params are already resolved against data, and data is the
// execution context which handlers may write to. false or an error routes to failure steps.
type Handler interface {
	Kind() Kind
	Execute(ctx context.Context, params map[string]any, data map[string]any) (bool, error)
}

type baseHandler struct {
	kind Kind
}

func (b baseHandler) Kind() Kind {
	return b.kind
}
