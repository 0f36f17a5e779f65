package minexec

import "errors"

var (
	// ErrShutdown is returned when spawning through a spawner whose pool has
	// been closed or garbage collected.
	ErrShutdown = errors.New("minexec: pool is shut down")

	// ErrQueueFull is the panic value of spawning past the capacity of
	// a [BusyPool].
	ErrQueueFull = errors.New("minexec: queue full")

	// ErrZeroCapacity is the panic value of creating a [BusyPool] with
	// a capacity that is not positive.
	ErrZeroCapacity = errors.New("minexec: capacity must be positive")
)
