package engine

import (
	"github.com/hotgigs/automation/flow"
	"github.com/hotgigs/automation/logger"
	"github.com/hotgigs/automation/model"
	"go.uber.org/zap"
)

const (
	TRIGGER_EVENT_KEY      = "event"
	TRIGGER_CONDITIONS_KEY = "conditions"
)

// TriggerEvent submits every active event workflow listening on name and returns the
// accepted execution handles.
func (e *Engine) TriggerEvent(name string, data map[string]any) []*Execution {
	return e.triggerMatching(model.TriggerEvent, data, func(wf *model.Workflow) bool {
		event, _ := wf.TriggerConditions[TRIGGER_EVENT_KEY].(string)
		return event == name
	})
}

// EvaluateConditionTriggers submits every active condition workflow whose trigger gate
// passes against data.
func (e *Engine) EvaluateConditionTriggers(data map[string]any) []*Execution {
	return e.triggerMatching(model.TriggerCondition, data, func(wf *model.Workflow) bool {
		conditions, ok := wf.TriggerConditions[TRIGGER_CONDITIONS_KEY].(map[string]any)
		if !ok {
			return false
		}
		return flow.ConditionsMet(conditions, data)
	})
}

func (e *Engine) triggerMatching(triggerType model.TriggerType, data map[string]any, match func(wf *model.Workflow) bool) []*Execution {
	var ids []string
	for _, wf := range e.ListWorkflows() {
		if wf.TriggerType == triggerType && wf.Status == model.WorkflowActive && match(wf) {
			ids = append(ids, wf.Id)
		}
	}
	var executions []*Execution
	for _, id := range ids {
		x, err := e.Submit(id, data)
		if err != nil {
			logger.Info("triggered workflow not accepted", zap.String("workflow", id), zap.Error(err))
			continue
		}
		executions = append(executions, x)
	}
	return executions
}
