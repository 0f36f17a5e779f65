package minexec

// Status tells what a single step of a pool achieved.
type Status int

const (
	// Empty means the pool holds no task at all.
	Empty Status = iota
	// Suspended means tasks were polled but none of them completed.
	Suspended
	// Completed means one task completed; its result comes along.
	Completed
)

func (s Status) String() string {
	switch s {
	case Empty:
		return "Empty"
	case Suspended:
		return "Suspended"
	case Completed:
		return "Completed"
	default:
		return "Status(?)"
	}
}

// PollFn calls f once with a no-op [Waker] and returns its result.
func PollFn[T any](f func(w Waker) T) T {
	return f(NoopWaker())
}

// BlockFn calls f with a no-op [Waker], over and over in a tight loop,
// until it reports completion, and then returns the result.
//
// Nothing ever wakes f up: progress depends entirely on f checking again,
// on each call, whatever it waits for.
// BlockFn is therefore a busy-polling loop that keeps the calling goroutine
// spinning, and is no substitute for a blocking wait on I/O.
func BlockFn[T any](f func(w Waker) Poll[T]) T {
	w := NoopWaker()
	for {
		if res := f(w); res.ready {
			return res.value
		}
	}
}

// PollOn polls t once with a no-op [Waker].
func PollOn[T any](t Task[T]) Poll[T] {
	return PollFn(t.Poll)
}

// BlockOn polls t until it completes, and returns the result.
// See [BlockFn] for the busy-polling caveat.
func BlockOn[T any](t Task[T]) T {
	return BlockFn(t.Poll)
}
