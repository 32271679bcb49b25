package scheduler

import (
	"errors"
	"fmt"
	"sync"

	"github.com/hotgigs/automation/logger"
	"github.com/hotgigs/automation/model"
	rcron "github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"golang.org/x/exp/slices"
)

const (
	CRON_KEY         = "cron"
	CONTEXT_KEY      = "context"
	DEFAULT_SCHEDULE = "@daily"
)

var ErrNotScheduled = errors.New("workflow is not a scheduled workflow")

type Runner interface {
	ExecuteWorkflow(id string, data map[string]any) bool
	ListWorkflows() []*model.Workflow
}

// Scheduler fires scheduled workflows from their trigger_conditions cron expression.
type Scheduler struct {
	mu      sync.Mutex
	cron    *rcron.Cron
	entries map[string]rcron.EntryID
	seeds   map[string]map[string]any
	runner  Runner
}

func New(runner Runner) *Scheduler {
	return &Scheduler{
		cron:    rcron.New(),
		entries: make(map[string]rcron.EntryID),
		seeds:   make(map[string]map[string]any),
		runner:  runner,
	}
}

// Schedule registers wf, replacing any earlier registration of the same id.
func (s *Scheduler) Schedule(wf *model.Workflow) error {
	if wf.TriggerType != model.TriggerScheduled {
		return ErrNotScheduled
	}
	expr, _ := wf.TriggerConditions[CRON_KEY].(string)
	if expr == "" {
		expr = DEFAULT_SCHEDULE
	}
	seed := map[string]any{}
	if c, ok := wf.TriggerConditions[CONTEXT_KEY].(map[string]any); ok {
		for k, v := range c {
			seed[k] = v
		}
	}

	id := wf.Id
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, err := s.cron.AddFunc(expr, func() {
		s.fire(id)
	})
	if err != nil {
		return fmt.Errorf("invalid schedule %q for workflow %s: %w", expr, id, err)
	}
	if old, ok := s.entries[id]; ok {
		s.cron.Remove(old)
	}
	s.entries[id] = entry
	s.seeds[id] = seed
	logger.Info("workflow scheduled", zap.String("workflow", id), zap.String("schedule", expr))
	return nil
}

func (s *Scheduler) Unschedule(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[id]
	if !ok {
		return false
	}
	s.cron.Remove(entry)
	delete(s.entries, id)
	delete(s.seeds, id)
	return true
}

// ScheduleAll registers every scheduled workflow the runner knows and returns how many were
// accepted.
func (s *Scheduler) ScheduleAll() int {
	n := 0
	for _, wf := range s.runner.ListWorkflows() {
		if wf.TriggerType != model.TriggerScheduled {
			continue
		}
		if err := s.Schedule(wf); err != nil {
			logger.Error("error scheduling workflow", zap.String("workflow", wf.Id), zap.Error(err))
			continue
		}
		n++
	}
	return n
}

func (s *Scheduler) Scheduled() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.entries))
	for id := range s.entries {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func (s *Scheduler) fire(id string) bool {
	s.mu.Lock()
	seed := make(map[string]any, len(s.seeds[id]))
	for k, v := range s.seeds[id] {
		seed[k] = v
	}
	s.mu.Unlock()
	ok := s.runner.ExecuteWorkflow(id, seed)
	if !ok {
		logger.Info("scheduled run not accepted", zap.String("workflow", id))
	}
	return ok
}

func (s *Scheduler) Start() {
	s.cron.Start()
	logger.Info("workflow scheduler started", zap.Int("workflows", len(s.Scheduled())))
}

// Stop waits for running fire callbacks.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	logger.Info("workflow scheduler stopped")
}
