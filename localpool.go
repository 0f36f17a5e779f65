package minexec

import (
	"weak"

	"github.com/b97tsk/minexec/internal/mpsc"
)

// A LocalPool drives an unordered set of tasks to completion on whichever
// goroutine calls its Run, TryRunOne or PollOnce method.
//
// Tasks are added either directly, with the Spawn method, or from any
// goroutine through a [Spawner], which feeds an unbounded queue that the pool
// drains into its set before each step.
// Results come out in completion order, which is not spawn order.
//
// A LocalPool polls with a no-op [Waker]. A task that returns [Pending] is
// simply polled again on the next step; nothing ever wakes it up.
//
// A LocalPool must not be used by more than one goroutine at a time, and must
// not be copied. Only its spawners are safe for concurrent use.
type LocalPool[T any] struct {
	tasks   []Task[T]
	next    int
	inbox   *mpsc.Queue[Task[T]]
	name    string
	metrics *poolMetrics
	closed  bool
}

// NewLocalPool creates an empty [LocalPool].
func NewLocalPool[T any](opts ...Option) *LocalPool[T] {
	c := newConfig("local", opts)
	return &LocalPool[T]{
		inbox:   mpsc.New[Task[T]](),
		name:    c.name,
		metrics: c.metrics.forPool(c.name),
	}
}

// Spawn adds t to p.
//
// Spawn must only be called by the goroutine that owns p.
// Spawn panics with [ErrShutdown] if p has been closed.
func (p *LocalPool[T]) Spawn(t Task[T]) {
	if p.closed {
		panic(ErrShutdown)
	}
	p.tasks = append(p.tasks, t)
	p.metrics.spawn()
}

// Spawner returns a [Spawner] that feeds p from any goroutine.
//
// A Spawner does not keep p alive.
func (p *LocalPool[T]) Spawner() Spawner[T] {
	return Spawner[T]{
		inbox:   weak.Make(p.inbox),
		name:    p.name,
		metrics: p.metrics,
	}
}

// Len returns the number of tasks held by p, including those queued by
// spawners but not yet admitted.
func (p *LocalPool[T]) Len() int {
	return len(p.tasks) + p.inbox.Len()
}

// Run polls tasks in p until there is none left, and returns every result
// in completion order.
//
// Run blocks the calling goroutine, spinning, for as long as any task stays
// pending, including tasks that never complete.
// Tasks spawned while Run is running are run too.
func (p *LocalPool[T]) Run() []T {
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

// TryRunOne polls tasks in p until one of them completes, or until every
// task has been polled once without completing.
// TryRunOne reports whether a task completed.
//
// TryRunOne does not tell an empty pool from one whose tasks are all
// pending; use PollOnce for that.
func (p *LocalPool[T]) TryRunOne() (T, bool) {
	v, st := p.PollOnce()
	return v, st == Completed
}

// PollOnce first admits every task queued by spawners, then polls tasks in
// p, each at most once, until one completes.
//
// PollOnce returns [Completed] with the result of the task that completed,
// [Suspended] if no task completed, or [Empty] if p holds no task.
func (p *LocalPool[T]) PollOnce() (v T, st Status) {
	p.admit()

	n := len(p.tasks)
	if n == 0 {
		return v, Empty
	}

	w := NoopWaker()

	for range n {
		if p.next >= len(p.tasks) {
			p.next = 0
		}

		i := p.next
		res := pollTask(p.tasks[i], w, func() { p.remove(i) })
		p.metrics.poll(res.ready)

		if res.ready {
			p.remove(i)
			return res.value, Completed
		}

		p.next++
	}

	return v, Suspended
}

// Close drops every task held by p without polling them, and shuts down
// the queue that spawners feed. Spawning through a [Spawner] reports
// [ErrShutdown] afterwards.
//
// Closing a closed pool does nothing.
func (p *LocalPool[T]) Close() {
	if p.closed {
		return
	}

	p.closed = true

	n := len(p.tasks) + p.inbox.Close()
	clear(p.tasks)
	p.tasks = nil
	p.next = 0

	log.Debugf("%s: closed, dropped %d task(s)", p.name, n)
}

func (p *LocalPool[T]) admit() {
	p.inbox.Drain(func(t Task[T]) {
		p.tasks = append(p.tasks, t)
	})
}

// remove deletes the task at index i. The set is unordered, so the last
// task takes its place.
func (p *LocalPool[T]) remove(i int) {
	last := len(p.tasks) - 1
	p.tasks[i] = p.tasks[last]
	p.tasks[last] = nil
	p.tasks = p.tasks[:last]
}

// A Spawner adds tasks to a [LocalPool] from any goroutine.
//
// A Spawner refers to its pool weakly: it never keeps the pool alive.
// Spawners are cheap to copy; Clone is provided for clarity.
type Spawner[T any] struct {
	inbox   weak.Pointer[mpsc.Queue[Task[T]]]
	name    string
	metrics *poolMetrics
}

// Clone returns another [Spawner] for the same pool.
func (s Spawner[T]) Clone() Spawner[T] {
	return s
}

// Spawn queues t for the pool.
// The pool admits t no later than its next step.
//
// Spawn is safe for concurrent use.
// Spawn returns [ErrShutdown] if the pool has been closed or garbage
// collected; t is dropped then.
func (s Spawner[T]) Spawn(t Task[T]) error {
	inbox := s.inbox.Value()
	if inbox == nil || inbox.Push(t) != nil {
		s.metrics.reject()
		log.Debugf("%s: spawn rejected: %v", s.name, ErrShutdown)
		return ErrShutdown
	}
	s.metrics.spawn()
	return nil
}
