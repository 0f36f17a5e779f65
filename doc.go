// Package minexec is a minimal task executor.
//
// It drives many suspended computations, called tasks, to completion on a
// single goroutine, without an event loop, a timer wheel or a reactor of any
// kind.
//
// A [Task] is anything with a Poll method. Each poll is one non-blocking
// attempt to make progress; it either completes with a result, or reports
// that the task is still pending.
//
// # Pools
//
// Two pools are provided. Both share the same contract:
//   - Spawn adds a task from the goroutine that owns the pool;
//   - Spawner returns a handle that adds tasks from any goroutine;
//   - PollOnce takes one step and reports [Empty], [Suspended] or
//     [Completed];
//   - TryRunOne takes one step and reports whether a task completed;
//   - Run takes steps until the pool is empty, and returns every result in
//     completion order.
//
// [LocalPool] keeps an unordered, growing set of tasks, fed by an unbounded
// queue that spawners push to.
//
// [BusyPool] keeps its tasks in a fixed-capacity, lock-free ring buffer,
// shared with its spawners, and polls them round-robin.
// There is no back pressure: spawning past the capacity is a programming
// error and panics with [ErrQueueFull].
//
// Spawners never keep a pool alive. Once a pool is closed, or garbage
// collected, spawning through one of its spawners returns [ErrShutdown].
//
// # Busy Polling
//
// Every poll is given a [Waker], but all pools hand out a no-op one
// ([NoopWaker]). Nothing ever wakes a pending task up; a pool simply polls it
// again on a later step.
// This is deliberate. Progress comes solely from the driver calling Poll
// over and over, so a task waiting for something must check for it on every
// poll. Run, and [BlockOn], keep the calling goroutine spinning for as long
// as any task stays pending; they are not suitable for waiting on I/O
// without some reactor layered on top.
//
// # Wakers
//
// A [Waker] refers to any [Notifier] without owning it, and never allocates.
// Besides [NoopNotifier], a [FlagNotifier] records whether it has been woken,
// for use by tasks driven by something other than the pools here.
//
// # Panics
//
// If a task panics while being polled, the pool drops the task and lets the
// panic go on, wrapped in an error value carrying the stack trace of the
// panic. The wrapped value, if it is an error, can be recovered with
// [errors.Is] or [errors.As].
//
// # Logging
//
// The package logs through gopkg.in/op/go-logging.v1 under the module name
// "minexec", at WARNING level by default, so only a full [BusyPool] gets
// reported. Hosts wanting pool closes and rejected spawns call
//
//	logging.SetLevel(logging.DEBUG, "minexec")
//
// after the package has been initialized. Installing a new backend with
// logging.SetBackend resets module levels; the host then owns them.
package minexec
