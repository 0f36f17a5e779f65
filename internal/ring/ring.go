// Package ring implements a bounded, lock-free, multi-producer multi-consumer
// FIFO ring buffer with a capacity fixed at construction.
//
// The algorithm is Dmitry Vyukov's bounded MPMC queue: every cell carries a
// sequence number that tells producers and consumers whose turn it is, so
// neither side ever takes a lock.
package ring

import (
	"sync/atomic"

	"golang.org/x/sys/cpu"
)

// A Ring is a bounded FIFO queue safe for concurrent use by any number of
// producers and consumers.
//
// Unlike many ring buffers, a Ring holds exactly the number of items it was
// created with; the capacity is not rounded up to a power of two.
type Ring[T any] struct {
	_     cpu.CacheLinePad
	head  atomic.Uint64
	_     cpu.CacheLinePad
	tail  atomic.Uint64
	_     cpu.CacheLinePad
	limit uint64
	cells []cell[T]
}

type cell[T any] struct {
	seq  atomic.Uint64
	data T
}

// New creates a [Ring] that holds up to capacity items.
// New panics if capacity is not positive.
func New[T any](capacity int) *Ring[T] {
	if capacity <= 0 {
		panic("ring: capacity must be positive")
	}

	// A single cell cannot tell full from free by its sequence number alone.
	size := max(capacity, 2)

	r := &Ring[T]{
		limit: uint64(capacity),
		cells: make([]cell[T], size),
	}

	for i := range r.cells {
		r.cells[i].seq.Store(uint64(i))
	}

	return r
}

// Push appends v to the tail of r.
// Push reports false, leaving r unchanged, if r is full.
func (r *Ring[T]) Push(v T) bool {
	size := uint64(len(r.cells))

	for {
		tail := r.tail.Load()

		if size != r.limit && tail-r.head.Load() >= r.limit {
			return false
		}

		c := &r.cells[tail%size]

		switch dif := int64(c.seq.Load()) - int64(tail); {
		case dif == 0:
			if r.tail.CompareAndSwap(tail, tail+1) {
				c.data = v
				c.seq.Store(tail + 1)
				return true
			}
		case dif < 0:
			return false
		}
	}
}

// Pop removes and returns the item at the head of r.
// Pop reports false if r is empty.
func (r *Ring[T]) Pop() (v T, ok bool) {
	size := uint64(len(r.cells))

	for {
		head := r.head.Load()
		c := &r.cells[head%size]

		switch dif := int64(c.seq.Load()) - int64(head+1); {
		case dif == 0:
			if r.head.CompareAndSwap(head, head+1) {
				var zero T
				v, c.data = c.data, zero
				c.seq.Store(head + size)
				return v, true
			}
		case dif < 0:
			return v, false
		}
	}
}

// Len returns the number of items in r.
// Under concurrent use the result is only a snapshot.
func (r *Ring[T]) Len() int {
	head := r.head.Load()
	tail := r.tail.Load()
	return int(min(tail-head, r.limit))
}

// Cap returns the capacity r was created with.
func (r *Ring[T]) Cap() int {
	return int(r.limit)
}
