package agent

import (
	"context"
	"fmt"
	"sync"

	"github.com/hotgigs/automation/action"
	"github.com/hotgigs/automation/analytics"
	"github.com/hotgigs/automation/autoapply"
	"github.com/hotgigs/automation/collaborator"
	"github.com/hotgigs/automation/config"
	"github.com/hotgigs/automation/engine"
	"github.com/hotgigs/automation/logger"
	"github.com/hotgigs/automation/metadata"
	"github.com/hotgigs/automation/persistence/memory"
	"github.com/hotgigs/automation/persistence/redis"
	"github.com/hotgigs/automation/rest"
	"github.com/hotgigs/automation/scheduler"
	"github.com/hotgigs/automation/task"
	"go.uber.org/zap"
)

type closer interface {
	Close() error
}

type Agent struct {
	Config       config.Config
	tasks        *task.Manager
	storage      metadata.WorkflowStorage
	collector    analytics.WorkflowDataCollector
	engine       *engine.Engine
	autoApply    *autoapply.Service
	scheduler    *scheduler.Scheduler
	overdue      *task.OverdueMonitor
	httpServer   *rest.Server
	closers      []closer
	shutdown     bool
	shutdownLock sync.Mutex
}

func New(config config.Config) (*Agent, error) {
	a := &Agent{
		Config: config,
		tasks:  task.NewManager(),
	}
	setup := []func() error{
		a.setupStorage,
		a.setupCollector,
		a.setupEngine,
		a.setupScheduler,
		a.setupHttpServer,
	}
	for _, fn := range setup {
		if err := fn(); err != nil {
			if a.engine != nil {
				a.engine.Stop()
			}
			a.closeAll()
			return nil, err
		}
	}
	return a, nil
}

func (a *Agent) setupStorage() error {
	switch a.Config.StorageType {
	case config.STORAGE_TYPE_REDIS:
		s := redis.NewWorkflowStorage(redis.Config{
			Addrs:     a.Config.RedisConfig.Addrs,
			Namespace: a.Config.RedisConfig.Namespace,
		})
		if err := s.Ping(context.Background()); err != nil {
			_ = s.Close()
			return fmt.Errorf("error connecting to redis: %w", err)
		}
		a.storage = s
		a.closers = append(a.closers, s)
	default:
		a.storage = memory.NewWorkflowStorage()
	}
	return nil
}

func (a *Agent) setupCollector() error {
	collector, err := analytics.NewDataCollector(a.Config.AnalyticsConfig)
	if err != nil {
		return err
	}
	a.collector = collector
	if cl, ok := collector.(closer); ok {
		a.closers = append(a.closers, cl)
	}
	return nil
}

func (a *Agent) setupEngine() error {
	collaborators := action.Collaborators{
		Notifier: collaborator.LogNotifier{},
	}
	var scorer autoapply.CompatibilityScorer
	if a.Config.AIServiceURL != "" {
		client := collaborator.NewHTTPClient(a.Config.AIServiceURL, a.Config.AIRetryCount)
		collaborators.Analyzer = client
		collaborators.Screener = client
		scorer = client
	}
	a.engine = engine.New(a.tasks,
		engine.WithPoolSize(a.Config.WorkerPoolSize),
		engine.WithQueueCapacity(a.Config.QueueCapacity),
		engine.WithMaxSteps(a.Config.MaxStepsPerRun),
		engine.WithCollector(a.collector),
		engine.WithStorage(a.storage),
		engine.WithDispatcher(action.NewDispatcher(a.tasks, collaborators)),
	)
	if _, err := a.engine.Restore(); err != nil {
		return fmt.Errorf("error restoring workflows: %w", err)
	}
	a.autoApply = autoapply.NewService(a.engine, scorer)
	a.overdue = task.NewOverdueMonitor(a.tasks, collaborators.Notifier, a.Config.OverdueCheckInterval)
	return nil
}

func (a *Agent) setupScheduler() error {
	a.scheduler = scheduler.New(a.engine)
	a.scheduler.ScheduleAll()
	return nil
}

func (a *Agent) setupHttpServer() error {
	a.httpServer = rest.NewServer(a.Config.HttpPort, a.engine, a.autoApply, a.scheduler)
	return nil
}

func (a *Agent) Start() error {
	a.scheduler.Start()
	a.overdue.Start()
	go func() {
		if err := a.httpServer.Start(); err != nil {
			logger.Error("http server failed", zap.Error(err))
			_ = a.Shutdown()
		}
	}()
	return nil
}

func (a *Agent) Shutdown() error {
	a.shutdownLock.Lock()
	defer a.shutdownLock.Unlock()
	if a.shutdown {
		return nil
	}
	a.shutdown = true
	logger.Info("shutting down server")

	shutdown := []func() error{
		a.httpServer.Stop,
		func() error {
			a.scheduler.Stop()
			a.overdue.Stop()
			a.engine.Stop()
			return nil
		},
	}
	for _, fn := range shutdown {
		if err := fn(); err != nil {
			return err
		}
	}
	a.closeAll()
	return nil
}

func (a *Agent) closeAll() {
	for _, cl := range a.closers {
		if err := cl.Close(); err != nil {
			logger.Error("error closing resource", zap.Error(err))
		}
	}
	a.closers = nil
}
