package engine

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/hotgigs/automation/action"
	"github.com/hotgigs/automation/metadata"
	"github.com/hotgigs/automation/model"
	"github.com/hotgigs/automation/persistence/memory"
	"github.com/hotgigs/automation/task"
	"github.com/stretchr/testify/require"
)

func wait(t *testing.T, x *Execution) model.ExecutionResult {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	res, err := x.Wait(ctx)
	require.NoError(t, err)
	return res
}

func createTaskStep(id string, title string, next ...string) model.WorkflowStep {
	return model.WorkflowStep{
		Id:         id,
		Action:     "create_task",
		Parameters: map[string]any{"title": title},
		NextSteps:  next,
	}
}

func taskTitles(tasks *task.Manager) []string {
	var titles []string
	for _, t := range tasks.ListTasks() {
		titles = append(titles, t.Title)
	}
	return titles
}

func TestEngine(t *testing.T) {
	for scenario, fn := range map[string]func(
		t *testing.T, e *Engine,
	){
		"empty workflow completes without effects": testEmptyWorkflow,
		"single create_task step":                  testSingleStep,
		"failed step follows failure steps":        testFailureRouting,
		"unmet condition prunes successors":        testConditionGate,
		"context written upstream gates later":     testContextPropagation,
		"walk is breadth first":                    testBreadthFirst,
		"dangling next step is dropped":            testDanglingStep,
		"execution bookkeeping":                    testBookkeeping,
		"unknown workflow is rejected":             testUnknownWorkflow,
		"paused workflow is rejected":              testPause,
		"event trigger":                            testEventTrigger,
		"condition trigger":                        testConditionTrigger,
		"stopped engine rejects work":              testStopped,
	} {
		t.Run(scenario, func(t *testing.T) {
			e := New(task.NewManager(), WithPoolSize(2))
			defer e.Stop()
			fn(t, e)
		})
	}
}

func testEmptyWorkflow(t *testing.T, e *Engine) {
	id := e.CreateWorkflow(model.WorkflowRequest{Name: "empty"})
	x, err := e.Submit(id, map[string]any{"k": "v"})
	require.NoError(t, err)
	res := wait(t, x)
	require.Equal(t, model.ExecutionCompleted, res.State)
	require.Equal(t, 0, res.StepsExecuted)
	require.Equal(t, map[string]any{"k": "v"}, res.Context)
	require.Empty(t, e.Tasks().ListTasks())
}

func testSingleStep(t *testing.T, e *Engine) {
	id := e.CreateWorkflow(model.WorkflowRequest{
		Name:  "one",
		Steps: []model.WorkflowStep{createTaskStep("s1", "T1")},
	})
	require.True(t, e.ExecuteWorkflow(id, nil))

	x, err := e.Submit(id, nil)
	require.NoError(t, err)
	res := wait(t, x)
	require.Equal(t, []string{"s1"}, res.ExecutedSteps)
	require.NotEmpty(t, res.Context["created_task_id"])
	require.Eventually(t, func() bool {
		return len(e.Tasks().ListTasks()) == 2
	}, time.Second, 10*time.Millisecond)
	require.Equal(t, []string{"T1", "T1"}, taskTitles(e.Tasks()))
}

func testFailureRouting(t *testing.T, e *Engine) {
	id := e.CreateWorkflow(model.WorkflowRequest{
		Name: "failing",
		Steps: []model.WorkflowStep{
			{Id: "bad", Action: "invalid_action", NextSteps: []string{"never"}, FailureSteps: []string{"recover"}},
			createTaskStep("never", "never"),
			createTaskStep("recover", "recovered"),
		},
	})
	x, err := e.Submit(id, nil)
	require.NoError(t, err)
	res := wait(t, x)
	require.Equal(t, model.ExecutionCompleted, res.State)
	require.Equal(t, []string{"bad", "recover"}, res.ExecutedSteps)
	require.Equal(t, 1, res.StepsFailed)
	require.Equal(t, []string{"recovered"}, taskTitles(e.Tasks()))
}

func testConditionGate(t *testing.T, e *Engine) {
	gated := createTaskStep("gated", "gated", "after")
	gated.Conditions = map[string]any{"score": map[string]any{"operator": "greater_than", "value": 10}}
	id := e.CreateWorkflow(model.WorkflowRequest{
		Name: "gated",
		Steps: []model.WorkflowStep{
			createTaskStep("start", "start", "gated"),
			gated,
			createTaskStep("after", "after"),
		},
	})

	res := wait(t, mustSubmit(t, e, id, map[string]any{"score": 10}))
	require.Equal(t, []string{"start"}, res.ExecutedSteps)
	require.Equal(t, 1, res.StepsSkipped)

	res = wait(t, mustSubmit(t, e, id, map[string]any{"score": 11}))
	require.Equal(t, []string{"start", "gated", "after"}, res.ExecutedSteps)
}

func testContextPropagation(t *testing.T, e *Engine) {
	advance := createTaskStep("advance", "Advance {candidate_id}")
	advance.Conditions = map[string]any{"screening_passed": true}
	id := e.CreateWorkflow(model.WorkflowRequest{
		Name: "screen",
		Steps: []model.WorkflowStep{
			{Id: "screen", Action: "screen_candidate", NextSteps: []string{"advance"}},
			advance,
		},
	})
	res := wait(t, mustSubmit(t, e, id, map[string]any{"candidate_id": "c1"}))
	require.Equal(t, []string{"screen", "advance"}, res.ExecutedSteps)
	require.Equal(t, 75.0, res.Context["screening_score"])
	require.Equal(t, []string{"Advance c1"}, taskTitles(e.Tasks()))
}

func testBreadthFirst(t *testing.T, e *Engine) {
	id := e.CreateWorkflow(model.WorkflowRequest{
		Name: "fan-out",
		Steps: []model.WorkflowStep{
			createTaskStep("a", "a", "b", "c"),
			createTaskStep("b", "b", "d"),
			createTaskStep("c", "c"),
			createTaskStep("d", "d"),
		},
	})
	res := wait(t, mustSubmit(t, e, id, nil))
	require.Equal(t, []string{"a", "b", "c", "d"}, res.ExecutedSteps)
}

func testDanglingStep(t *testing.T, e *Engine) {
	id := e.CreateWorkflow(model.WorkflowRequest{
		Name:  "dangling",
		Steps: []model.WorkflowStep{createTaskStep("a", "a", "missing")},
	})
	res := wait(t, mustSubmit(t, e, id, nil))
	require.Equal(t, model.ExecutionCompleted, res.State)
	require.Equal(t, []string{"a"}, res.ExecutedSteps)
}

func testBookkeeping(t *testing.T, e *Engine) {
	id := e.CreateWorkflow(model.WorkflowRequest{Name: "count"})
	wf := e.GetWorkflow(id)
	require.Equal(t, model.WorkflowActive, wf.Status)
	require.Equal(t, "system", wf.CreatedBy)
	require.Equal(t, model.TriggerManual, wf.TriggerType)
	require.Nil(t, wf.LastExecuted)

	require.True(t, e.ExecuteWorkflow(id, nil))
	require.True(t, e.ExecuteWorkflow(id, nil))
	wf = e.GetWorkflow(id)
	require.Equal(t, 2, wf.ExecutionCount)
	require.NotNil(t, wf.LastExecuted)
	require.Len(t, e.ListWorkflows(), 1)
}

func testUnknownWorkflow(t *testing.T, e *Engine) {
	require.False(t, e.ExecuteWorkflow("missing", nil))
	_, err := e.Submit("missing", nil)
	require.True(t, errors.Is(err, ErrWorkflowNotFound))
	require.Nil(t, e.GetWorkflow("missing"))
}

func testPause(t *testing.T, e *Engine) {
	id := e.CreateWorkflow(model.WorkflowRequest{Name: "pausable"})
	require.True(t, e.PauseWorkflow(id))
	_, err := e.Submit(id, nil)
	require.True(t, errors.Is(err, ErrWorkflowInactive))
	require.Equal(t, 0, e.GetWorkflow(id).ExecutionCount)

	require.True(t, e.ResumeWorkflow(id))
	require.True(t, e.ExecuteWorkflow(id, nil))
	require.False(t, e.PauseWorkflow("missing"))
}

func testEventTrigger(t *testing.T, e *Engine) {
	id := e.CreateWorkflow(model.WorkflowRequest{
		Name:              "on application",
		TriggerType:       model.TriggerEvent,
		TriggerConditions: map[string]any{"event": "application_received"},
		Steps:             []model.WorkflowStep{createTaskStep("s1", "Review {candidate_id}")},
	})
	e.CreateWorkflow(model.WorkflowRequest{Name: "manual", Steps: []model.WorkflowStep{createTaskStep("s1", "manual")}})

	require.Empty(t, e.TriggerEvent("other_event", nil))
	executions := e.TriggerEvent("application_received", map[string]any{"candidate_id": "c1"})
	require.Len(t, executions, 1)
	require.Equal(t, id, executions[0].WorkflowId)
	wait(t, executions[0])
	require.Equal(t, []string{"Review c1"}, taskTitles(e.Tasks()))
}

func testConditionTrigger(t *testing.T, e *Engine) {
	e.CreateWorkflow(model.WorkflowRequest{
		Name:        "high score",
		TriggerType: model.TriggerCondition,
		TriggerConditions: map[string]any{
			"conditions": map[string]any{"match_score": map[string]any{"operator": "greater_than", "value": 80}},
		},
		Steps: []model.WorkflowStep{createTaskStep("s1", "fast track")},
	})
	require.Empty(t, e.EvaluateConditionTriggers(map[string]any{"match_score": 80}))
	executions := e.EvaluateConditionTriggers(map[string]any{"match_score": 92})
	require.Len(t, executions, 1)
	wait(t, executions[0])
	require.Equal(t, []string{"fast track"}, taskTitles(e.Tasks()))
}

func testStopped(t *testing.T, e *Engine) {
	id := e.CreateWorkflow(model.WorkflowRequest{Name: "late"})
	e.Stop()
	_, err := e.Submit(id, nil)
	require.True(t, errors.Is(err, ErrEngineStopped))
	require.False(t, e.ExecuteWorkflow(id, nil))
}

func mustSubmit(t *testing.T, e *Engine, id string, data map[string]any) *Execution {
	t.Helper()
	x, err := e.Submit(id, data)
	require.NoError(t, err)
	return x
}

func TestStepCap(t *testing.T) {
	e := New(task.NewManager(), WithMaxSteps(5))
	defer e.Stop()
	id := e.CreateWorkflow(model.WorkflowRequest{
		Name:  "loop",
		Steps: []model.WorkflowStep{createTaskStep("a", "loop", "a")},
	})
	res := wait(t, mustSubmit(t, e, id, nil))
	require.Equal(t, model.ExecutionTruncated, res.State)
	require.Equal(t, 5, res.StepsExecuted)
	require.Len(t, e.Tasks().ListTasks(), 5)
}

type blockingDispatcher struct {
	started chan struct{}
	release chan struct{}
	mu      sync.Mutex
	calls   int
}

func (d *blockingDispatcher) Dispatch(ctx context.Context, action string, params map[string]any, data map[string]any) (bool, error) {
	d.mu.Lock()
	d.calls++
	d.mu.Unlock()
	d.started <- struct{}{}
	<-d.release
	return true, nil
}

func TestCancelExecution(t *testing.T) {
	d := &blockingDispatcher{started: make(chan struct{}, 1), release: make(chan struct{})}
	e := New(task.NewManager(), WithDispatcher(d))
	defer e.Stop()
	id := e.CreateWorkflow(model.WorkflowRequest{
		Name: "cancellable",
		Steps: []model.WorkflowStep{
			createTaskStep("a", "a", "b"),
			createTaskStep("b", "b"),
		},
	})
	x := mustSubmit(t, e, id, nil)
	<-d.started
	x.Cancel()
	close(d.release)

	res := wait(t, x)
	require.Equal(t, model.ExecutionCancelled, res.State)
	require.Equal(t, []string{"a"}, res.ExecutedSteps)
	require.Equal(t, 1, d.calls)

	got, ok := e.GetExecution(x.Id)
	require.True(t, ok)
	require.Equal(t, model.ExecutionCancelled, got.State())
}

func TestRestore(t *testing.T) {
	storage := memory.NewWorkflowStorage()
	first := New(task.NewManager(), WithStorage(storage))
	id := first.CreateWorkflow(model.WorkflowRequest{Name: "persisted", Steps: []model.WorkflowStep{createTaskStep("a", "a")}})
	require.True(t, first.PauseWorkflow(id))
	first.Stop()

	second := New(task.NewManager(), WithStorage(storage))
	defer second.Stop()
	n, err := second.Restore()
	require.NoError(t, err)
	require.Equal(t, 1, n)
	wf := second.GetWorkflow(id)
	require.NotNil(t, wf)
	require.Equal(t, model.WorkflowPaused, wf.Status)
	require.Len(t, wf.Steps, 1)

	n, err = second.Restore()
	require.NoError(t, err)
	require.Equal(t, 0, n)
}

type panickingHandler struct{}

func (panickingHandler) Kind() action.Kind {
	return action.AI_ANALYSIS
}

func (panickingHandler) Execute(ctx context.Context, params map[string]any, data map[string]any) (bool, error) {
	panic("analysis backend exploded")
}

func TestPanickingStepFollowsFailureSteps(t *testing.T) {
	tasks := task.NewManager()
	d := action.NewDispatcher(tasks, action.Collaborators{})
	d.Register(panickingHandler{})
	e := New(tasks, WithDispatcher(d))
	defer e.Stop()

	id := e.CreateWorkflow(model.WorkflowRequest{
		Name: "panicking",
		Steps: []model.WorkflowStep{
			createTaskStep("start", "start", "boom", "sibling"),
			{Id: "boom", Action: "ai_analysis", NextSteps: []string{"never"}, FailureSteps: []string{"recover"}},
			createTaskStep("sibling", "sibling"),
			createTaskStep("recover", "recovered"),
			createTaskStep("never", "never"),
		},
	})
	res := wait(t, mustSubmit(t, e, id, nil))
	require.Equal(t, model.ExecutionCompleted, res.State)
	require.Equal(t, []string{"start", "boom", "sibling", "recover"}, res.ExecutedSteps)
	require.Equal(t, 1, res.StepsFailed)
	require.Equal(t, []string{"start", "sibling", "recovered"}, taskTitles(tasks))
}

// gatedStorage holds every SaveWorkflow once block is called, until the returned gate closes.
type gatedStorage struct {
	metadata.WorkflowStorage
	mu   sync.Mutex
	gate chan struct{}
}

func (s *gatedStorage) SaveWorkflow(wf model.Workflow) error {
	s.mu.Lock()
	gate := s.gate
	s.mu.Unlock()
	if gate != nil {
		<-gate
	}
	return s.WorkflowStorage.SaveWorkflow(wf)
}

func (s *gatedStorage) block() chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gate = make(chan struct{})
	return s.gate
}

func TestSubmitDoesNotWaitOnStorage(t *testing.T) {
	storage := &gatedStorage{WorkflowStorage: memory.NewWorkflowStorage()}
	e := New(task.NewManager(), WithStorage(storage))
	id := e.CreateWorkflow(model.WorkflowRequest{Name: "slow storage"})

	gate := storage.block()
	accepted := make(chan bool, 1)
	go func() {
		accepted <- e.ExecuteWorkflow(id, nil)
	}()
	select {
	case ok := <-accepted:
		require.True(t, ok)
	case <-time.After(time.Second):
		t.Fatal("ExecuteWorkflow waited on storage")
	}
	close(gate)
	e.Stop()

	stored, err := storage.GetWorkflow(id)
	require.NoError(t, err)
	require.Equal(t, 1, stored.ExecutionCount)
}
