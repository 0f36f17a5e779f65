// Package mpsc implements an unbounded multi-producer single-consumer queue
// that can be closed by its consumer.
package mpsc

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/eapache/queue"
)

// ErrClosed is returned by Push after the queue has been closed.
var ErrClosed = errors.New("mpsc: queue closed")

// A Queue is an unbounded FIFO queue.
// Push is safe for concurrent use; Drain and Close belong to one consumer.
//
// A Queue never applies back pressure. If producers outrun the consumer,
// the queue grows without limit.
type Queue[T any] struct {
	mu     sync.Mutex
	items  *queue.Queue
	closed bool
	n      atomic.Int64
}

// New creates an empty [Queue].
func New[T any]() *Queue[T] {
	return &Queue[T]{items: queue.New()}
}

// Push appends v to q.
// Push returns [ErrClosed] if q has been closed; v is not queued.
func (q *Queue[T]) Push(v T) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return ErrClosed
	}

	q.items.Add(v)
	q.n.Add(1)

	return nil
}

// Drain removes every queued item, in arrival order, and passes each to f.
// Drain returns the number of items removed.
//
// f is called with no lock held, so it may push to q again; such items are
// left for the next Drain.
func (q *Queue[T]) Drain(f func(v T)) int {
	if q.n.Load() == 0 {
		return 0
	}

	q.mu.Lock()
	batch := make([]T, 0, q.items.Length())
	for q.items.Length() > 0 {
		batch = append(batch, q.items.Remove().(T))
	}
	q.n.Add(-int64(len(batch)))
	q.mu.Unlock()

	for _, v := range batch {
		f(v)
	}

	return len(batch)
}

// Close closes q and discards anything still queued.
// Close returns the number of items discarded.
// Closing a closed queue does nothing.
func (q *Queue[T]) Close() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return 0
	}

	q.closed = true

	n := q.items.Length()
	q.items = queue.New()
	q.n.Store(0)

	return n
}

// Closed reports whether q has been closed.
func (q *Queue[T]) Closed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}

// Len returns the number of queued items.
func (q *Queue[T]) Len() int {
	return int(q.n.Load())
}
