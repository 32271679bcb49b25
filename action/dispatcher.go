package action

import (
	"context"
	"fmt"
	"sync"

	"github.com/hotgigs/automation/flow"
	"github.com/hotgigs/automation/logger"
	"go.uber.org/zap"
)

type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[Kind]Handler
}

// NewDispatcher registers the built-in handler for every Kind.
func NewDispatcher(tasks TaskCreator, c Collaborators) *Dispatcher {
	d := &Dispatcher{
		handlers: make(map[Kind]Handler, len(KINDS)),
	}
	d.Register(NewCreateTaskHandler(tasks))
	d.Register(NewSendNotificationHandler(c.Notifier))
	d.Register(NewUpdateApplicationStatusHandler(c.Tracker))
	d.Register(NewAutoApplyHandler(c.Submitter, tasks))
	d.Register(NewScreenCandidateHandler(c.Screener))
	d.Register(NewScheduleInterviewHandler(c.Scheduler, tasks))
	d.Register(NewAIAnalysisHandler(c.Analyzer))
	return d
}

// Register replaces the handler for h.Kind().
func (d *Dispatcher) Register(h Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[h.Kind()] = h
}

// Dispatch resolves params against data and runs the handler named by action. Unknown names
// return ErrUnknownAction. A handler panic is recovered and reported as an error.
func (d *Dispatcher) Dispatch(ctx context.Context, action string, params map[string]any, data map[string]any) (ok bool, err error) {
	kind, found := ParseKind(action)
	if !found {
		return false, fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}
	d.mu.RLock()
	h, found := d.handlers[kind]
	d.mu.RUnlock()
	if !found {
		return false, fmt.Errorf("%w: no handler for %q", ErrUnknownAction, action)
	}
	defer func() {
		if r := recover(); r != nil {
			logger.Error("action handler panicked", zap.String("action", action), zap.Any("panic", r))
			ok = false
			err = fmt.Errorf("action %s panicked: %v", action, r)
		}
	}()
	return h.Execute(ctx, flow.ResolveParams(params, data), data)
}
