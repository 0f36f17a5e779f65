package minexec

import "sync/atomic"

// Notifier is the interface of any value that can be woken through a [Waker].
//
// A Notifier is usually a pointer, so that every Waker made from it refers to
// the same value.
type Notifier interface {
	Wake()
}

// A Waker is a notification handle passed to every poll of a [Task].
// A Task that cannot make progress yet could use it to ask to be polled
// again.
//
// A Waker refers to a [Notifier] without owning it.
// Making, copying and dropping a Waker never allocates, and never affects the
// Notifier itself.
// A Waker must not be used after the storage of its Notifier is no longer
// valid for use; the driver functions in this package only hand out Wakers
// for the duration of a poll.
//
// The zero Waker is invalid and wakes nothing.
type Waker struct {
	n Notifier
}

// WakerRef returns a [Waker] that refers to n.
func WakerRef(n Notifier) Waker {
	return Waker{n}
}

// Clone returns another [Waker] that refers to the same [Notifier] as w.
func (w Waker) Clone() Waker {
	return w
}

// Wake wakes the [Notifier] w refers to and consumes w.
// w is invalid afterwards.
func (w *Waker) Wake() {
	n := w.n
	w.n = nil
	if n != nil {
		n.Wake()
	}
}

// WakeByRef wakes the [Notifier] w refers to without consuming w.
func (w Waker) WakeByRef() {
	if w.n != nil {
		w.n.Wake()
	}
}

// Drop releases w without waking anything.
// w is invalid afterwards.
func (w *Waker) Drop() {
	w.n = nil
}

// Valid reports whether w refers to a [Notifier].
func (w Waker) Valid() bool {
	return w.n != nil
}

// WillWake reports whether w and other refer to the same [Notifier].
func (w Waker) WillWake(other Waker) bool {
	return w.n != nil && w.n == other.n
}

// NoopNotifier is a [Notifier] whose Wake method does nothing.
//
// All pools in this package poll with a NoopNotifier: progress comes solely
// from being polled again, never from a wake-up.
type NoopNotifier struct{}

// Wake does nothing.
func (*NoopNotifier) Wake() {}

var noop NoopNotifier

// NoopWaker returns a [Waker] that refers to a shared [NoopNotifier].
func NoopWaker() Waker {
	return WakerRef(&noop)
}

// FlagNotifier is a [Notifier] that records whether it has been woken.
//
// A FlagNotifier is safe for concurrent use.
type FlagNotifier struct {
	woken atomic.Bool
}

// Wake sets the flag of f.
func (f *FlagNotifier) Wake() {
	f.woken.Store(true)
}

// ReadReset reports whether f has been woken since the last call,
// and clears the flag.
func (f *FlagNotifier) ReadReset() bool {
	return f.woken.Swap(false)
}
