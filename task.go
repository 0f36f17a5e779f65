package minexec

// A Task is a suspended computation that can be polled repeatedly until it
// completes with a value of type T.
//
// Each call to Poll is one non-blocking attempt to make progress.
// Poll returns [Ready] with the result when the Task completes, or
// [Pending] if the Task cannot complete yet.
// Once a Task has returned Ready, it must not be polled again.
//
// Polls are never concurrent: a Task is owned by exactly one pool, or one
// driver function, at a time.
// If a Task is handed to another goroutine through a spawner, it must be
// safe to move there.
type Task[T any] interface {
	Poll(w Waker) Poll[T]
}

// TaskFunc is an adapter to allow the use of ordinary functions as Tasks.
type TaskFunc[T any] func(w Waker) Poll[T]

// Poll calls f(w).
func (f TaskFunc[T]) Poll(w Waker) Poll[T] {
	return f(w)
}

// Poll is the outcome of polling a [Task] once.
type Poll[T any] struct {
	value T
	ready bool
}

// Ready returns a [Poll] that completes with v.
func Ready[T any](v T) Poll[T] {
	return Poll[T]{value: v, ready: true}
}

// Pending returns a [Poll] that is not complete.
func Pending[T any]() Poll[T] {
	return Poll[T]{}
}

// IsReady reports whether p is complete.
func (p Poll[T]) IsReady() bool {
	return p.ready
}

// IsPending reports whether p is not complete.
func (p Poll[T]) IsPending() bool {
	return !p.ready
}

// Value returns the result carried by p, or the zero value if p is pending.
func (p Poll[T]) Value() T {
	return p.value
}

// Get returns the result carried by p and whether p is complete.
func (p Poll[T]) Get() (T, bool) {
	return p.value, p.ready
}

// Do returns a [Task] that calls f on its first poll and completes with
// the result.
func Do[T any](f func() T) Task[T] {
	return TaskFunc[T](func(Waker) Poll[T] {
		return Ready(f())
	})
}

// Done returns a [Task] that completes with v on its first poll.
func Done[T any](v T) Task[T] {
	return TaskFunc[T](func(Waker) Poll[T] {
		return Ready(v)
	})
}

// Never returns a [Task] that never completes.
func Never[T any]() Task[T] {
	return TaskFunc[T](func(Waker) Poll[T] {
		return Pending[T]()
	})
}
