package queue

import "sync"

// Queue is an unbounded FIFO safe for concurrent use. Multiple
// producers may push while a single consumer pops; closing the queue
// wakes all blocked consumers.
type Queue[T any] struct {
	mu     sync.Mutex
	cond   *sync.Cond
	items  []T
	closed bool
}

// New constructs an empty queue.
func New[T any]() *Queue[T] {
	q := &Queue[T]{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Push appends item to the back of the queue and wakes one blocked
// consumer. It never blocks. Push reports whether the item was
// accepted; a closed queue rejects new items.
func (q *Queue[T]) Push(item T) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return false
	}
	q.items = append(q.items, item)
	q.cond.Signal()
	return true
}

// Pop removes and returns the front item, blocking until one is
// available. It returns false once the queue has been closed and
// drained.
func (q *Queue[T]) Pop() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for len(q.items) == 0 && !q.closed {
		q.cond.Wait()
	}
	return q.popFrontLocked()
}

// TryPop removes and returns the front item without blocking. It
// returns false when the queue is empty.
func (q *Queue[T]) TryPop() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.popFrontLocked()
}

func (q *Queue[T]) popFrontLocked() (T, bool) {
	var zero T
	if len(q.items) == 0 {
		return zero, false
	}
	item := q.items[0]
	q.items[0] = zero
	q.items = q.items[1:]
	return item, true
}

// Len returns the number of items currently queued.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Close rejects further pushes and unblocks every waiting consumer.
// Items already queued remain available to Pop and TryPop.
func (q *Queue[T]) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	q.cond.Broadcast()
}
