package minexec

import (
	"runtime"
	"sync/atomic"
	"weak"

	"github.com/b97tsk/minexec/internal/ring"
)

// A BusyPool is a [LocalPool]-like pool built on a fixed-capacity, lock-free
// ring buffer instead of a growing set and a channel.
//
// Tasks wait in the ring in FIFO order. Each step pops a task from the head
// and polls it; a pending task goes back to the tail, so tasks are polled
// round-robin.
// Spawning is lock-free and safe from any goroutine through a [BusySpawner].
//
// The capacity is shared by the pool and all its spawners, and is fixed for
// the life of the pool. Spawning past it is a programming error: it panics
// with [ErrQueueFull] instead of blocking or growing. Size the pool for the
// largest number of tasks it will ever hold at once.
//
// A BusyPool must not be used by more than one goroutine at a time, and must
// not be copied. Only its spawners are safe for concurrent use.
type BusyPool[T any] struct {
	q *busyQueue[T]
}

type busyQueue[T any] struct {
	*ring.Ring[Task[T]]
	closed   atomic.Bool
	spawning atomic.Int64 // spawner pushes in flight
	name     string
	metrics  *poolMetrics
}

// push adds t to the tail of q, panicking if q is full.
func (q *busyQueue[T]) push(t Task[T]) {
	if !q.Push(t) {
		log.Critical("%s: queue full (capacity %d)", q.name, q.Cap())
		panic(ErrQueueFull)
	}
}

// NewBusyPool creates an empty [BusyPool] that holds up to capacity tasks.
// NewBusyPool panics with [ErrZeroCapacity] if capacity is not positive.
func NewBusyPool[T any](capacity int, opts ...Option) *BusyPool[T] {
	if capacity <= 0 {
		panic(ErrZeroCapacity)
	}
	c := newConfig("busy", opts)
	return &BusyPool[T]{
		q: &busyQueue[T]{
			Ring:    ring.New[Task[T]](capacity),
			name:    c.name,
			metrics: c.metrics.forPool(c.name),
		},
	}
}

// Spawn adds t to the tail of p.
//
// Spawn panics with [ErrQueueFull] if p is full, or with [ErrShutdown] if p
// has been closed.
func (p *BusyPool[T]) Spawn(t Task[T]) {
	if p.q.closed.Load() {
		panic(ErrShutdown)
	}
	p.q.push(t)
	p.q.metrics.spawn()
}

// Spawner returns a [BusySpawner] that feeds p from any goroutine.
//
// A BusySpawner does not keep p alive.
func (p *BusyPool[T]) Spawner() BusySpawner[T] {
	return BusySpawner[T]{
		q:       weak.Make(p.q),
		name:    p.q.name,
		metrics: p.q.metrics,
	}
}

// Len returns the number of tasks held by p.
func (p *BusyPool[T]) Len() int {
	return p.q.Len()
}

// Cap returns the capacity of p.
func (p *BusyPool[T]) Cap() int {
	return p.q.Cap()
}

// Run polls tasks in p until there is none left, and returns every result
// in completion order.
//
// Run blocks the calling goroutine, spinning, for as long as any task stays
// pending, including tasks that never complete.
// Tasks spawned while Run is running are run too.
func (p *BusyPool[T]) Run() []T {
	var results []T
	for {
		v, st := p.PollOnce()
		switch st {
		case Empty:
			return results
		case Completed:
			results = append(results, v)
		}
	}
}

// TryRunOne sweeps p once with PollThrough, and reports whether a task
// completed.
//
// TryRunOne does not tell an empty pool from one whose tasks are all
// pending; use PollThrough for that.
func (p *BusyPool[T]) TryRunOne() (T, bool) {
	v, st := p.PollThrough()
	return v, st == Completed
}

// PollOnce pops the task at the head of p and polls it once.
//
// PollOnce returns [Completed] with the result if the task completed.
// Otherwise, the task goes back to the tail and PollOnce returns
// [Suspended].
// PollOnce returns [Empty] if p holds no task.
func (p *BusyPool[T]) PollOnce() (v T, st Status) {
	t, ok := p.q.Pop()
	if !ok {
		return v, Empty
	}
	return p.poll(t, NoopWaker())
}

// PollThrough polls tasks in p, popping them from the head one at a time,
// until one completes or as many tasks as p held on entry have been polled.
// Pending tasks go back to the tail, so a sweep ends even if every task
// stays pending.
//
// PollThrough returns [Completed] with the result of the first task that
// completed, [Suspended] if none did, or [Empty] if p was empty on entry.
func (p *BusyPool[T]) PollThrough() (v T, st Status) {
	n := p.q.Len()
	if n == 0 {
		return v, Empty
	}

	w := NoopWaker()

	for range n {
		t, ok := p.q.Pop()
		if !ok {
			break
		}
		if v, st = p.poll(t, w); st == Completed {
			return v, st
		}
	}

	return v, Suspended
}

func (p *BusyPool[T]) poll(t Task[T], w Waker) (v T, st Status) {
	res := pollTask(t, w, func() {})
	p.q.metrics.poll(res.ready)

	if res.ready {
		return res.value, Completed
	}

	p.q.push(t)

	return v, Suspended
}

// Close drops every task held by p without polling them.
// Spawning through a [BusySpawner] reports [ErrShutdown] afterwards.
// A concurrent spawn either reports [ErrShutdown] or lands before the drop.
//
// Closing a closed pool does nothing.
func (p *BusyPool[T]) Close() {
	if !p.q.closed.CompareAndSwap(false, true) {
		return
	}

	// Spawners that saw the pool open may still be pushing.
	for p.q.spawning.Load() != 0 {
		runtime.Gosched()
	}

	n := 0
	for {
		if _, ok := p.q.Pop(); !ok {
			break
		}
		n++
	}

	log.Debugf("%s: closed, dropped %d task(s)", p.q.name, n)
}

// A BusySpawner adds tasks to a [BusyPool] from any goroutine.
//
// A BusySpawner refers to its pool weakly: it never keeps the pool alive.
// BusySpawners are cheap to copy; Clone is provided for clarity.
type BusySpawner[T any] struct {
	q       weak.Pointer[busyQueue[T]]
	name    string
	metrics *poolMetrics
}

// Clone returns another [BusySpawner] for the same pool.
func (s BusySpawner[T]) Clone() BusySpawner[T] {
	return s
}

// Spawn adds t to the tail of the pool.
//
// Spawn is safe for concurrent use.
// Spawn returns [ErrShutdown] if the pool has been closed or garbage
// collected.
// Like [BusyPool.Spawn], Spawn panics with [ErrQueueFull] if the pool is
// full.
func (s BusySpawner[T]) Spawn(t Task[T]) error {
	q := s.q.Value()
	if q == nil {
		return s.reject()
	}

	q.spawning.Add(1)
	defer q.spawning.Add(-1)

	if q.closed.Load() {
		return s.reject()
	}

	q.push(t)
	s.metrics.spawn()

	return nil
}

func (s BusySpawner[T]) reject() error {
	s.metrics.reject()
	log.Debugf("%s: spawn rejected: %v", s.name, ErrShutdown)
	return ErrShutdown
}
