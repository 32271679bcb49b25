package engine

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/hotgigs/automation/model"
)

// Execution is the handle for one accepted workflow run.
type Execution struct {
	Id         string
	WorkflowId string

	workflow *model.Workflow
	data     map[string]any
	ctx      context.Context
	cancel   context.CancelFunc
	done     chan struct{}

	mu     sync.RWMutex
	state  model.ExecutionState
	result model.ExecutionResult
}

func newExecution(parent context.Context, wf *model.Workflow, input map[string]any) *Execution {
	ctx, cancel := context.WithCancel(parent)
	data := make(map[string]any, len(input))
	for k, v := range input {
		data[k] = v
	}
	return &Execution{
		Id:         uuid.NewString(),
		WorkflowId: wf.Id,
		workflow:   wf,
		data:       data,
		ctx:        ctx,
		cancel:     cancel,
		done:       make(chan struct{}),
		state:      model.ExecutionQueued,
	}
}

// Done is closed when the walk has finished, whatever the outcome.
func (x *Execution) Done() <-chan struct{} {
	return x.done
}

// Cancel stops the walk before its next step. Steps already dispatching run to completion.
func (x *Execution) Cancel() {
	x.cancel()
}

func (x *Execution) State() model.ExecutionState {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.state
}

// Result reports the outcome, or false while the walk is still queued or running.
func (x *Execution) Result() (model.ExecutionResult, bool) {
	select {
	case <-x.done:
	default:
		return model.ExecutionResult{}, false
	}
	x.mu.RLock()
	defer x.mu.RUnlock()
	res := x.result
	res.Context = make(map[string]any, len(x.result.Context))
	for k, v := range x.result.Context {
		res.Context[k] = v
	}
	res.ExecutedSteps = append([]string(nil), x.result.ExecutedSteps...)
	return res, true
}

// Wait blocks until the walk finishes or ctx is done.
func (x *Execution) Wait(ctx context.Context) (model.ExecutionResult, error) {
	select {
	case <-x.done:
		res, _ := x.Result()
		return res, nil
	case <-ctx.Done():
		return model.ExecutionResult{}, ctx.Err()
	}
}

func (x *Execution) setState(state model.ExecutionState) {
	x.mu.Lock()
	x.state = state
	x.mu.Unlock()
}

func (x *Execution) finish(res model.ExecutionResult) {
	x.mu.Lock()
	x.state = res.State
	x.result = res
	x.mu.Unlock()
	x.cancel()
	close(x.done)
}
