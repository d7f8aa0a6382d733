package engine

import "sync"

// Queue is the domain.Dispatcher of the engine: closures posted from any
// goroutine run in order on the engine loop. Post never blocks.
type Queue struct {
	mu     sync.Mutex
	items  []func()
	closed bool
	ready  chan struct{}
}

// NewQueue creates an empty queue
func NewQueue() *Queue {
	return &Queue{ready: make(chan struct{}, 1)}
}

// Post appends fn. Closures posted after Close are dropped.
func (q *Queue) Post(fn func()) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.items = append(q.items, fn)
	q.mu.Unlock()

	select {
	case q.ready <- struct{}{}:
	default:
	}
}

// Ready signals that closures are waiting
func (q *Queue) Ready() <-chan struct{} {
	return q.ready
}

// Drain runs every queued closure, including those posted while draining,
// and returns how many ran.
func (q *Queue) Drain() int {
	n := 0
	for {
		q.mu.Lock()
		items := q.items
		q.items = nil
		q.mu.Unlock()

		if len(items) == 0 {
			return n
		}
		for _, fn := range items {
			fn()
		}
		n += len(items)
	}
}

// Close refuses further posts and discards what is queued
func (q *Queue) Close() {
	q.mu.Lock()
	q.closed = true
	q.items = nil
	q.mu.Unlock()
}
