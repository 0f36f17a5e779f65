package minexec

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// paniccatcher records a panic, or a runtime.Goexit, raised while polling
// a task, so that a pool can drop the task before letting it propagate.
type paniccatcher struct {
	item   *panicvalue
	goexit bool
}

func (pc *paniccatcher) TryCatch(f func()) (ok bool) {
	defer func() {
		if !ok {
			if v := recover(); v != nil {
				pc.item = &panicvalue{value: v, stack: debug.Stack()}
			} else {
				pc.goexit = true
			}
		}
	}()
	f()
	return true
}

func (pc *paniccatcher) Rethrow() {
	if pc.item != nil {
		panic(pc.item)
	}
	if pc.goexit {
		runtime.Goexit()
	}
}

// pollTask polls t once with w.
// If t panics, pollTask calls drop before re-raising the panic, wrapped with
// the stack trace at which it happened.
func pollTask[T any](t Task[T], w Waker, drop func()) (res Poll[T]) {
	var pc paniccatcher
	if !pc.TryCatch(func() { res = t.Poll(w) }) {
		drop()
		pc.Rethrow()
	}
	return res
}

type panicvalue struct {
	value any
	stack []byte
}

func (pv *panicvalue) Error() string {
	return fmt.Sprintf("minexec: task panicked: %v\n\n%s", pv.value, pv.stack)
}

func (pv *panicvalue) Unwrap() []error {
	if err, ok := pv.value.(error); ok {
		return []error{err}
	}
	return nil
}
