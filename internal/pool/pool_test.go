package pool_test

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"prism/internal/logging"
	"prism/internal/pool"
)

func TestShutdownDrainsAllTasks(t *testing.T) {
	p := pool.New(4, logging.NewNop())

	var executed atomic.Int64
	const tasks = 200
	for i := 0; i < tasks; i++ {
		if err := p.Enqueue(func() {
			executed.Add(1)
		}); err != nil {
			t.Fatalf("enqueue %d: %v", i, err)
		}
	}

	p.Shutdown()
	if got := executed.Load(); got != tasks {
		t.Fatalf("expected %d tasks executed, got %d", tasks, got)
	}
}

func TestTasksExecuteExactlyOnce(t *testing.T) {
	p := pool.New(8, logging.NewNop())

	var mu sync.Mutex
	counts := make(map[int]int)
	const tasks = 100
	for i := 0; i < tasks; i++ {
		id := i
		if err := p.Enqueue(func() {
			mu.Lock()
			counts[id]++
			mu.Unlock()
		}); err != nil {
			t.Fatalf("enqueue %d: %v", id, err)
		}
	}
	p.Shutdown()

	for i := 0; i < tasks; i++ {
		if counts[i] != 1 {
			t.Fatalf("task %d executed %d times", i, counts[i])
		}
	}
}

func TestEnqueueAfterShutdownFails(t *testing.T) {
	p := pool.New(1, logging.NewNop())
	p.Shutdown()
	if err := p.Enqueue(func() {}); !errors.Is(err, pool.ErrShutdown) {
		t.Fatalf("expected ErrShutdown, got %v", err)
	}
}

func TestSingleWorkerRunsInSubmissionOrder(t *testing.T) {
	p := pool.NewSingleWorker(logging.NewNop())

	var mu sync.Mutex
	var order []int
	for i := 0; i < 20; i++ {
		id := i
		if err := p.Enqueue(func() {
			mu.Lock()
			order = append(order, id)
			mu.Unlock()
		}); err != nil {
			t.Fatalf("enqueue %d: %v", id, err)
		}
	}
	p.Shutdown()

	if len(order) != 20 {
		t.Fatalf("expected 20 tasks, got %d", len(order))
	}
	for i, got := range order {
		if got != i {
			t.Fatalf("expected task %d at position %d, got %d", i, i, got)
		}
	}
}

func TestPanicDoesNotKillWorker(t *testing.T) {
	p := pool.New(1, logging.NewNop())

	var executed atomic.Bool
	if err := p.Enqueue(func() { panic("decode blew up") }); err != nil {
		t.Fatalf("enqueue panicking task: %v", err)
	}
	if err := p.Enqueue(func() { executed.Store(true) }); err != nil {
		t.Fatalf("enqueue follow-up task: %v", err)
	}

	done := make(chan struct{})
	go func() {
		p.Shutdown()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("shutdown hung; worker likely died on panic")
	}

	if !executed.Load() {
		t.Fatal("task after panic never executed")
	}
}
