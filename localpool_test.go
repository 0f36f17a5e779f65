package minexec_test

import (
	"errors"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/b97tsk/minexec"
)

// once returns a Task that counts its polls in cnt and completes with id on
// the first one. It fails t if polled again after completing.
func once(t *testing.T, cnt *int, id int) minexec.Task[int] {
	done := false
	return minexec.TaskFunc[int](func(minexec.Waker) minexec.Poll[int] {
		if done {
			t.Errorf("task %d polled after completion", id)
		}
		done = true
		*cnt++
		return minexec.Ready(id)
	})
}

// after returns a Task that stays pending for n polls and then completes
// with id.
func after(n, id int) minexec.Task[int] {
	return minexec.TaskFunc[int](func(minexec.Waker) minexec.Poll[int] {
		if n > 0 {
			n--
			return minexec.Pending[int]()
		}
		return minexec.Ready(id)
	})
}

func TestLocalPool(t *testing.T) {
	t.Run("RunUntilSingleTask", func(t *testing.T) {
		cnt := 0

		pool := minexec.NewLocalPool[int]()
		pool.Spawn(once(t, &cnt, 1))

		v, st := pool.PollOnce()

		assert.Equal(t, minexec.Completed, st)
		assert.Equal(t, 1, v)
		assert.Equal(t, 1, cnt)
	})
	t.Run("RunReturnsIfEmpty", func(t *testing.T) {
		pool := minexec.NewLocalPool[int]()

		assert.Empty(t, pool.Run())
		assert.Empty(t, pool.Run())
	})
	t.Run("RunSpawnMany", func(t *testing.T) {
		const N = 200

		cnt := 0

		pool := minexec.NewLocalPool[int]()

		for i := range N {
			pool.Spawn(once(t, &cnt, i))
		}

		results := pool.Run()

		assert.Equal(t, N, cnt)
		assert.Len(t, results, N)
		assert.ElementsMatch(t, seq(N), results)
		assert.Zero(t, pool.Len())
		assert.Empty(t, pool.Run())
		assert.Equal(t, N, cnt)
	})
	t.Run("RunWaitsForPending", func(t *testing.T) {
		pool := minexec.NewLocalPool[int]()

		pool.Spawn(after(5, 1))
		pool.Spawn(after(0, 2))
		pool.Spawn(after(2, 3))

		assert.Equal(t, []int{2, 3, 1}, pool.Run())
	})
	t.Run("PollOnceReportsEmpty", func(t *testing.T) {
		pool := minexec.NewLocalPool[int]()

		v, st := pool.PollOnce()

		assert.Equal(t, minexec.Empty, st)
		assert.Zero(t, v)
	})
	t.Run("PollOnceReportsSuspended", func(t *testing.T) {
		pool := minexec.NewLocalPool[int]()

		pool.Spawn(minexec.Never[int]())
		pool.Spawn(after(1, 7))

		_, st := pool.PollOnce()
		assert.Equal(t, minexec.Suspended, st)

		v, st := pool.PollOnce()
		assert.Equal(t, minexec.Completed, st)
		assert.Equal(t, 7, v)

		_, st = pool.PollOnce()
		assert.Equal(t, minexec.Suspended, st)
		assert.Equal(t, 1, pool.Len())
	})
	t.Run("TryRunOneReturnsIfEmpty", func(t *testing.T) {
		pool := minexec.NewLocalPool[int]()

		_, ok := pool.TryRunOne()
		assert.False(t, ok)
	})
	t.Run("TryRunOneExecutesOneReady", func(t *testing.T) {
		const N = 200

		cnt := 0

		pool := minexec.NewLocalPool[int]()

		for i := range N {
			pool.Spawn(minexec.Never[int]())
			pool.Spawn(once(t, &cnt, i))
			pool.Spawn(minexec.Never[int]())
		}

		for i := range N {
			require.Equal(t, i, cnt)
			_, ok := pool.TryRunOne()
			require.True(t, ok)
			require.Equal(t, i+1, cnt)
		}

		_, ok := pool.TryRunOne()
		assert.False(t, ok)
		assert.Equal(t, 2*N, pool.Len())
	})
}

func TestLocalPoolSpawner(t *testing.T) {
	t.Run("Concurrent", func(t *testing.T) {
		const (
			producers = 8
			perProd   = 100
		)

		pool := minexec.NewLocalPool[int]()
		spawner := pool.Spawner()

		var g errgroup.Group

		for p := range producers {
			s := spawner.Clone()
			g.Go(func() error {
				for i := range perProd {
					if err := s.Spawn(minexec.Done(p*perProd + i)); err != nil {
						return err
					}
				}
				return nil
			})
		}

		require.NoError(t, g.Wait())

		assert.ElementsMatch(t, seq(producers*perProd), pool.Run())
	})
	t.Run("SpawnFromTask", func(t *testing.T) {
		pool := minexec.NewLocalPool[int]()
		spawner := pool.Spawner()

		pool.Spawn(minexec.Do(func() int {
			require.NoError(t, spawner.Spawn(minexec.Done(2)))
			return 1
		}))

		assert.ElementsMatch(t, []int{1, 2}, pool.Run())
	})
	t.Run("ShutdownAfterClose", func(t *testing.T) {
		cnt := 0

		pool := minexec.NewLocalPool[int]()
		spawner := pool.Spawner()

		pool.Spawn(once(t, &cnt, 1))
		require.NoError(t, spawner.Spawn(once(t, &cnt, 2)))

		pool.Close()
		pool.Close()

		assert.ErrorIs(t, spawner.Spawn(minexec.Done(3)), minexec.ErrShutdown)
		assert.Zero(t, cnt)
		assert.Zero(t, pool.Len())

		_, st := pool.PollOnce()
		assert.Equal(t, minexec.Empty, st)

		assert.PanicsWithValue(t, minexec.ErrShutdown, func() {
			pool.Spawn(minexec.Done(4))
		})
	})
	t.Run("ShutdownAfterCollected", func(t *testing.T) {
		spawner := func() minexec.Spawner[int] {
			return minexec.NewLocalPool[int]().Spawner()
		}()

		assert.True(t, eventuallyShutdown(func() error {
			return spawner.Spawn(minexec.Done(1))
		}))
	})
	t.Run("ZeroSpawner", func(t *testing.T) {
		var spawner minexec.Spawner[int]
		assert.ErrorIs(t, spawner.Spawn(minexec.Done(1)), minexec.ErrShutdown)
	})
}

func TestLocalPoolPanic(t *testing.T) {
	errBoom := errors.New("boom")

	pool := minexec.NewLocalPool[int]()

	pool.Spawn(minexec.Do(func() int { panic(errBoom) }))

	func() {
		defer func() {
			v := recover()
			require.NotNil(t, v)
			err, ok := v.(error)
			require.True(t, ok)
			assert.ErrorIs(t, err, errBoom)
			assert.Contains(t, err.Error(), "boom")
		}()
		pool.Run()
	}()

	assert.Zero(t, pool.Len())
	assert.Empty(t, pool.Run())
}

func seq(n int) []int {
	s := make([]int, n)
	for i := range s {
		s[i] = i
	}
	return s
}

// eventuallyShutdown runs garbage collections until spawn reports
// ErrShutdown, which happens once the pool behind it has been collected.
func eventuallyShutdown(spawn func() error) bool {
	for range 10 {
		runtime.GC()
		if errors.Is(spawn(), minexec.ErrShutdown) {
			return true
		}
	}
	return false
}
