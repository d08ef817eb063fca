package service

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

type task struct {
	name string
	fn   func(ctx context.Context)
}

// TaskPool implements ports.TaskQueue: a bounded queue drained by a fixed
// set of workers. Work that arrives when the queue is full is refused, not
// buffered without limit; callers treat a refusal as a dropped side effect.
type TaskPool struct {
	queue   chan task
	workers int
	log     zerolog.Logger

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup

	baseCtx    context.Context
	cancelBase context.CancelFunc
}

// NewTaskPool creates a pool with the given worker count and queue depth.
func NewTaskPool(workers, queueSize int, log zerolog.Logger) *TaskPool {
	if workers < 1 {
		workers = 1
	}
	if queueSize < 1 {
		queueSize = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &TaskPool{
		queue:      make(chan task, queueSize),
		workers:    workers,
		log:        log,
		baseCtx:    ctx,
		cancelBase: cancel,
	}
}

// Start launches the workers.
func (p *TaskPool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.run(i)
	}
	p.log.Info().Int("workers", p.workers).Int("queue_size", cap(p.queue)).Msg("task pool started")
}

func (p *TaskPool) run(id int) {
	defer p.wg.Done()
	for t := range p.queue {
		p.execute(id, t)
	}
}

func (p *TaskPool) execute(id int, t task) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Error().
				Int("worker", id).
				Str("task", t.name).
				Interface("panic", r).
				Msg("background task panicked")
		}
	}()

	start := time.Now()
	t.fn(p.baseCtx)
	p.log.Debug().
		Int("worker", id).
		Str("task", t.name).
		Dur("took", time.Since(start)).
		Msg("background task finished")
}

// Enqueue schedules fn. Returns false when the queue is full or the pool is
// shut down.
func (p *TaskPool) Enqueue(name string, fn func(ctx context.Context)) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return false
	}
	select {
	case p.queue <- task{name: name, fn: fn}:
		return true
	default:
		p.log.Warn().Str("task", name).Msg("task queue full, work refused")
		return false
	}
}

// Shutdown stops intake and waits for in-flight work, up to the context
// deadline. Queued tasks still run; their contexts are cancelled only if
// the deadline passes first.
func (p *TaskPool) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.queue)
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.cancelBase()
		return nil
	case <-ctx.Done():
		p.cancelBase()
		return ctx.Err()
	}
}
