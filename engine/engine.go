package engine

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hotgigs/automation/action"
	"github.com/hotgigs/automation/analytics"
	"github.com/hotgigs/automation/logger"
	"github.com/hotgigs/automation/metadata"
	"github.com/hotgigs/automation/model"
	"github.com/hotgigs/automation/task"
	"github.com/hotgigs/automation/util"
	c "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

var (
	ErrWorkflowNotFound = errors.New("workflow not found")
	ErrWorkflowInactive = errors.New("workflow is not active")
	ErrEngineStopped    = errors.New("engine stopped")
)

const (
	DEFAULT_POOL_SIZE      = 5
	DEFAULT_QUEUE_CAPACITY = 512
	EXECUTION_RETENTION    = time.Hour
)

type Dispatcher interface {
	Dispatch(ctx context.Context, action string, params map[string]any, data map[string]any) (bool, error)
}

// Engine owns the workflow registry and runs graph walks on a bounded worker pool.
type Engine struct {
	mu         sync.RWMutex
	workflows  map[string]*model.Workflow
	order      []string
	stopped    bool
	tasks      *task.Manager
	dispatcher Dispatcher
	collector  analytics.WorkflowDataCollector
	storage    metadata.WorkflowStorage
	executions *c.Cache
	pool       *util.WorkerPool
	poolSize   int
	capacity   int
	maxSteps   int
	now        func() time.Time
	ctx        context.Context
	cancel     context.CancelFunc
}

type Option func(*Engine)

func WithPoolSize(n int) Option {
	return func(e *Engine) {
		e.poolSize = n
	}
}

func WithQueueCapacity(n int) Option {
	return func(e *Engine) {
		e.capacity = n
	}
}

// WithMaxSteps caps the number of steps one walk may process. 0 leaves walks unbounded.
func WithMaxSteps(n int) Option {
	return func(e *Engine) {
		e.maxSteps = n
	}
}

func WithCollector(collector analytics.WorkflowDataCollector) Option {
	return func(e *Engine) {
		e.collector = collector
	}
}

func WithStorage(storage metadata.WorkflowStorage) Option {
	return func(e *Engine) {
		e.storage = storage
	}
}

func WithDispatcher(dispatcher Dispatcher) Option {
	return func(e *Engine) {
		e.dispatcher = dispatcher
	}
}

func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// New builds and starts an engine sharing tasks with its action handlers. Without
// WithDispatcher the built-in handlers run with no external collaborators.
func New(tasks *task.Manager, opts ...Option) *Engine {
	ctx, cancel := context.WithCancel(context.Background())
	e := &Engine{
		workflows:  make(map[string]*model.Workflow),
		tasks:      tasks,
		collector:  analytics.NoopDataCollector{},
		executions: c.New(EXECUTION_RETENTION, 10*time.Minute),
		poolSize:   DEFAULT_POOL_SIZE,
		capacity:   DEFAULT_QUEUE_CAPACITY,
		now:        time.Now,
		ctx:        ctx,
		cancel:     cancel,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.dispatcher == nil {
		e.dispatcher = action.NewDispatcher(tasks, action.Collaborators{})
	}
	e.pool = util.NewWorkerPool("workflow-executor", e.poolSize, e.capacity, e.handle)
	e.pool.Start()
	return e
}

func (e *Engine) Tasks() *task.Manager {
	return e.tasks
}

// Stop cancels running walks between steps and drains queued ones as cancelled.
func (e *Engine) Stop() {
	e.mu.Lock()
	if e.stopped {
		e.mu.Unlock()
		return
	}
	e.stopped = true
	e.mu.Unlock()
	e.cancel()
	e.pool.Stop()
	logger.Info("workflow engine stopped")
}

// CreateWorkflow registers a new active workflow. It never rejects a definition; structural
// problems are logged and surface at execution time as dropped edges or failed dispatches.
func (e *Engine) CreateWorkflow(req model.WorkflowRequest) string {
	createdBy := req.CreatedBy
	if createdBy == "" {
		createdBy = "system"
	}
	triggerType := req.TriggerType
	if triggerType == "" {
		triggerType = model.TriggerManual
	}
	triggerConditions := req.TriggerConditions
	if triggerConditions == nil {
		triggerConditions = map[string]any{}
	}
	wf := &model.Workflow{
		Id:                uuid.NewString(),
		Name:              req.Name,
		Description:       req.Description,
		TriggerType:       triggerType,
		TriggerConditions: triggerConditions,
		Steps:             append([]model.WorkflowStep(nil), req.Steps...),
		Status:            model.WorkflowActive,
		CreatedBy:         createdBy,
		CreatedAt:         e.now(),
	}
	if err := metadata.ValidateWorkflow(wf); err != nil {
		logger.Warn("workflow created with structural problems", zap.String("workflow", wf.Id), zap.String("name", wf.Name), zap.Error(err))
	}

	e.mu.Lock()
	e.workflows[wf.Id] = wf
	e.order = append(e.order, wf.Id)
	snapshot := *wf
	e.mu.Unlock()

	e.persist(snapshot)
	logger.Info("workflow created", zap.String("workflow", wf.Id), zap.String("name", wf.Name), zap.String("trigger", string(wf.TriggerType)), zap.Int("steps", len(wf.Steps)))
	return wf.Id
}

// ExecuteWorkflow reports whether a run was accepted. The run itself happens later on the
// worker pool; side effects are not visible when this returns.
func (e *Engine) ExecuteWorkflow(id string, data map[string]any) bool {
	_, err := e.Submit(id, data)
	if err != nil {
		logger.Info("workflow execution rejected", zap.String("workflow", id), zap.Error(err))
		return false
	}
	return true
}

// Submit accepts a run of the workflow and returns its handle. The updated bookkeeping is
// written to storage by the worker that picks the run up, not by the caller.
func (e *Engine) Submit(id string, data map[string]any) (*Execution, error) {
	e.mu.Lock()
	if e.stopped {
		e.mu.Unlock()
		return nil, ErrEngineStopped
	}
	wf, ok := e.workflows[id]
	if !ok {
		e.mu.Unlock()
		return nil, ErrWorkflowNotFound
	}
	if wf.Status != model.WorkflowActive {
		e.mu.Unlock()
		return nil, ErrWorkflowInactive
	}
	now := e.now()
	wf.ExecutionCount++
	wf.LastExecuted = &now
	snapshot := wf.Clone()
	e.mu.Unlock()

	x := newExecution(e.ctx, snapshot, data)
	e.executions.SetDefault(x.Id, x)
	if !e.pool.Submit(x) {
		x.finish(model.ExecutionResult{
			ExecutionId: x.Id,
			WorkflowId:  x.WorkflowId,
			State:       model.ExecutionCancelled,
			Context:     x.data,
			StartedAt:   now,
			FinishedAt:  e.now(),
		})
		return nil, ErrEngineStopped
	}
	logger.Info("workflow execution scheduled", zap.String("workflow", id), zap.String("execution", x.Id), zap.Int("executionCount", snapshot.ExecutionCount))
	return x, nil
}

func (e *Engine) GetExecution(id string) (*Execution, bool) {
	v, found := e.executions.Get(id)
	if !found {
		return nil, false
	}
	return v.(*Execution), true
}

func (e *Engine) GetWorkflow(id string) *model.Workflow {
	e.mu.RLock()
	defer e.mu.RUnlock()
	wf, ok := e.workflows[id]
	if !ok {
		return nil
	}
	return wf.Clone()
}

func (e *Engine) ListWorkflows() []*model.Workflow {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]*model.Workflow, 0, len(e.order))
	for _, id := range e.order {
		out = append(out, e.workflows[id].Clone())
	}
	return out
}

// SetWorkflowStatus returns false when id is unknown.
func (e *Engine) SetWorkflowStatus(id string, status model.WorkflowStatus) bool {
	e.mu.Lock()
	wf, ok := e.workflows[id]
	if !ok {
		e.mu.Unlock()
		return false
	}
	wf.Status = status
	snapshot := *wf
	e.mu.Unlock()
	e.persist(snapshot)
	logger.Info("workflow status changed", zap.String("workflow", id), zap.String("status", string(status)))
	return true
}

func (e *Engine) PauseWorkflow(id string) bool {
	return e.SetWorkflowStatus(id, model.WorkflowPaused)
}

func (e *Engine) ResumeWorkflow(id string) bool {
	return e.SetWorkflowStatus(id, model.WorkflowActive)
}

// Restore loads every stored workflow that is not already registered.
func (e *Engine) Restore() (int, error) {
	if e.storage == nil {
		return 0, nil
	}
	wfs, err := e.storage.ListWorkflows()
	if err != nil {
		return 0, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	restored := 0
	for i := range wfs {
		wf := wfs[i]
		if _, ok := e.workflows[wf.Id]; ok {
			continue
		}
		e.workflows[wf.Id] = &wf
		e.order = append(e.order, wf.Id)
		restored++
	}
	logger.Info("workflows restored", zap.Int("count", restored))
	return restored, nil
}

// persistLatest writes the registry's current copy of the workflow, so runs picked up out of
// order never store an older execution count.
func (e *Engine) persistLatest(id string) {
	e.mu.RLock()
	wf, ok := e.workflows[id]
	if !ok {
		e.mu.RUnlock()
		return
	}
	snapshot := *wf.Clone()
	e.mu.RUnlock()
	e.persist(snapshot)
}

func (e *Engine) persist(wf model.Workflow) {
	if e.storage == nil {
		return
	}
	if err := e.storage.SaveWorkflow(wf); err != nil {
		logger.Error("error saving workflow", zap.String("workflow", wf.Id), zap.Error(err))
	}
}
