package util

import (
	"sync"

	"github.com/hotgigs/automation/logger"
	"go.uber.org/zap"
)

type Job any

// WorkerPool runs handler on a fixed number of goroutines fed from one buffered channel.
// Submit never blocks the caller: when the buffer is full the job waits on its own goroutine.
type WorkerPool struct {
	name    string
	size    int
	stop    chan struct{}
	wg      *sync.WaitGroup
	pending sync.WaitGroup
	handler func(Job) error
	jobChan chan Job
	mu      sync.RWMutex
	stopped bool
	started bool
}

func NewWorkerPool(name string, size int, capacity int, handler func(Job) error) *WorkerPool {
	if size <= 0 {
		size = 1
	}
	if capacity < 0 {
		capacity = 0
	}
	return &WorkerPool{
		name:    name,
		size:    size,
		stop:    make(chan struct{}),
		wg:      &sync.WaitGroup{},
		handler: handler,
		jobChan: make(chan Job, capacity),
	}
}

func (w *WorkerPool) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.started || w.stopped {
		return
	}
	w.started = true
	for i := 0; i < w.size; i++ {
		w.wg.Add(1)
		go func(id int) {
			defer w.wg.Done()
			for {
				select {
				case job := <-w.jobChan:
					w.handle(job)
				case <-w.stop:
					logger.Debug("stopping worker", zap.String("worker", w.name), zap.Int("id", id))
					return
				}
			}
		}(i)
	}
	logger.Info("worker pool started", zap.String("worker", w.name), zap.Int("size", w.size))
}

func (w *WorkerPool) handle(job Job) {
	err := w.handler(job)
	if err != nil {
		logger.Error("error in executing job in worker", zap.String("worker", w.name), zap.Any("job", job), zap.Error(err))
	}
}

// Submit enqueues job. It returns false once the pool is stopped.
func (w *WorkerPool) Submit(job Job) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.stopped {
		return false
	}
	select {
	case w.jobChan <- job:
		return true
	default:
	}
	logger.Warn("worker queue full, job parked", zap.String("worker", w.name))
	w.pending.Add(1)
	go func() {
		defer w.pending.Done()
		select {
		case w.jobChan <- job:
		case <-w.stop:
			w.handle(job)
		}
	}()
	return true
}

// Stop waits for running jobs, then hands every job still queued to the handler on the
// calling goroutine so that nothing submitted is silently lost.
func (w *WorkerPool) Stop() {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return
	}
	w.stopped = true
	close(w.stop)
	w.mu.Unlock()

	w.wg.Wait()
	w.pending.Wait()
	for {
		select {
		case job := <-w.jobChan:
			w.handle(job)
		default:
			logger.Info("worker pool stopped", zap.String("worker", w.name))
			return
		}
	}
}

func (w *WorkerPool) Size() int {
	return w.size
}
