package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/hotgigs/automation/analytics"
	"github.com/hotgigs/automation/flow"
	"github.com/hotgigs/automation/logger"
	"github.com/hotgigs/automation/model"
	"github.com/hotgigs/automation/util"
	"go.uber.org/zap"
)

func (e *Engine) handle(job util.Job) error {
	x, ok := job.(*Execution)
	if !ok {
		return fmt.Errorf("can not handle job of type %T", job)
	}
	e.persistLatest(x.WorkflowId)
	e.run(x)
	return nil
}

// run walks the step graph breadth first from the entry step. Steps whose conditions fail are
// pruned together with their successors. There is no visited set: a cyclic success path
// repeats until cancelled or until the step cap, if any, is reached.
func (e *Engine) run(x *Execution) {
	wf := x.workflow
	res := model.ExecutionResult{
		ExecutionId: x.Id,
		WorkflowId:  wf.Id,
		State:       model.ExecutionCompleted,
		StartedAt:   e.now(),
	}
	defer func() {
		res.Context = x.data
		res.FinishedAt = e.now()
		x.finish(res)
		logger.Info("workflow execution finished", zap.String("workflow", wf.Id), zap.String("execution", x.Id), zap.String("state", string(res.State)),
			zap.Int("executed", res.StepsExecuted), zap.Int("failed", res.StepsFailed), zap.Int("skipped", res.StepsSkipped))
	}()
	if len(wf.Steps) == 0 {
		return
	}
	x.setState(model.ExecutionRunning)

	index := make(map[string]*model.WorkflowStep, len(wf.Steps))
	for i := range wf.Steps {
		if _, ok := index[wf.Steps[i].Id]; !ok {
			index[wf.Steps[i].Id] = &wf.Steps[i]
		}
	}

	queue := []*model.WorkflowStep{&wf.Steps[0]}
	processed := 0
	for len(queue) > 0 {
		if x.ctx.Err() != nil {
			res.State = model.ExecutionCancelled
			return
		}
		if e.maxSteps > 0 && processed >= e.maxSteps {
			logger.Warn("workflow execution hit step cap", zap.String("workflow", wf.Id), zap.String("execution", x.Id), zap.Int("maxSteps", e.maxSteps))
			res.State = model.ExecutionTruncated
			return
		}
		step := queue[0]
		queue = queue[1:]
		processed++

		rec := analytics.StepRecord{WorkflowId: wf.Id, ExecutionId: x.Id, StepId: step.Id, Action: step.Action}
		if !flow.ConditionsMet(step.Conditions, x.data) {
			logger.Debug("step conditions not met, skipping", zap.String("workflow", wf.Id), zap.String("execution", x.Id), zap.String("step", step.Id))
			res.StepsSkipped++
			e.collector.RecordStepSkipped(rec)
			continue
		}

		res.StepsExecuted++
		res.ExecutedSteps = append(res.ExecutedSteps, step.Id)
		next := step.NextSteps
		if err := e.dispatch(x.ctx, step, x.data); err != nil {
			logger.Error("step failed", zap.String("workflow", wf.Id), zap.String("execution", x.Id), zap.String("step", step.Id), zap.String("action", step.Action), zap.Error(err))
			res.StepsFailed++
			e.collector.RecordStepFailure(rec, err.Error())
			next = step.FailureSteps
		} else {
			e.collector.RecordStepSuccess(rec, x.data)
		}
		for _, id := range next {
			if s, ok := index[id]; ok {
				queue = append(queue, s)
			}
		}
	}
}

var errActionReportedFailure = errors.New("action reported failure")

// dispatch turns every kind of step failure, including a panic, into an error.
func (e *Engine) dispatch(ctx context.Context, step *model.WorkflowStep, data map[string]any) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("action %s panicked: %v", step.Action, r)
		}
	}()
	logger.Debug("running step", zap.String("step", step.Id), zap.String("action", step.Action))
	ok, err := e.dispatcher.Dispatch(ctx, step.Action, step.Parameters, data)
	if err != nil {
		return err
	}
	if !ok {
		return errActionReportedFailure
	}
	return nil
}
