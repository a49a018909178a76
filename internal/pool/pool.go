package pool

import (
	"errors"
	"log/slog"
	"runtime"
	"sync"

	"prism/internal/logging"
)

// ErrShutdown is returned by Enqueue once Shutdown has begun.
var ErrShutdown = errors.New("pool: shut down")

// Pool executes tasks on a fixed number of worker goroutines. The
// internal task queue is unbounded and FIFO; Enqueue never blocks.
type Pool struct {
	logger *slog.Logger

	mu       sync.Mutex
	cond     *sync.Cond
	tasks    []func()
	stopping bool

	wg sync.WaitGroup
}

// New constructs a pool with the given worker count. A count below one
// defaults to the number of CPUs.
func New(workers int, logger *slog.Logger) *Pool {
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	p := &Pool{logger: logging.NewComponentLogger(logger, "pool")}
	p.cond = sync.NewCond(&p.mu)
	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.worker()
	}
	return p
}

// NewSingleWorker constructs a pool with exactly one worker. Startup
// image loads use this so they cannot starve the wider decode pool.
func NewSingleWorker(logger *slog.Logger) *Pool {
	return New(1, logger)
}

// Enqueue appends a task to the queue. Some idle worker picks it up in
// submission order. Enqueue fails once Shutdown has been called.
func (p *Pool) Enqueue(task func()) error {
	if task == nil {
		return errors.New("pool: nil task")
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopping {
		return ErrShutdown
	}
	p.tasks = append(p.tasks, task)
	p.cond.Signal()
	return nil
}

// Shutdown stops accepting tasks, waits for every queued and in-flight
// task to finish, and joins all workers. Call at most once, as the
// last operation before the pool's captured resources are released.
func (p *Pool) Shutdown() {
	p.mu.Lock()
	p.stopping = true
	p.cond.Broadcast()
	p.mu.Unlock()
	p.wg.Wait()
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for {
		p.mu.Lock()
		for len(p.tasks) == 0 && !p.stopping {
			p.cond.Wait()
		}
		if len(p.tasks) == 0 {
			p.mu.Unlock()
			return
		}
		task := p.tasks[0]
		p.tasks[0] = nil
		p.tasks = p.tasks[1:]
		p.mu.Unlock()

		p.run(task)
	}
}

// run executes a task, containing panics so a failing task cannot kill
// its worker and silently shrink pool capacity.
func (p *Pool) run(task func()) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("task panicked",
				logging.Any("panic", r),
				logging.String(logging.FieldEventType, "pool_task_panic"))
		}
	}()
	task()
}
