package debounce

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchedule_CoalescesBurst(t *testing.T) {
	var calls atomic.Int32
	task := New(30*time.Millisecond, func() { calls.Add(1) })

	for i := 0; i < 5; i++ {
		task.Schedule()
		time.Sleep(5 * time.Millisecond)
	}

	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	// nothing else fires afterwards
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
	assert.False(t, task.Pending())
}

func TestSchedule_LastWriteWins(t *testing.T) {
	var value atomic.Value
	var current atomic.Value
	task := New(20*time.Millisecond, func() { value.Store(current.Load()) })

	current.Store("first")
	task.Schedule()
	current.Store("second")
	task.Schedule()

	require.Eventually(t, func() bool { return value.Load() != nil }, time.Second, 5*time.Millisecond)
	assert.Equal(t, "second", value.Load())
}

func TestCancel(t *testing.T) {
	var calls atomic.Int32
	task := New(20*time.Millisecond, func() { calls.Add(1) })

	assert.False(t, task.Cancel(), "nothing pending yet")

	task.Schedule()
	assert.True(t, task.Pending())
	assert.True(t, task.Cancel())

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(0), calls.Load())
}

func TestFlush(t *testing.T) {
	var calls atomic.Int32
	task := New(time.Hour, func() { calls.Add(1) })

	assert.False(t, task.Flush(), "flush without pending call")
	assert.Equal(t, int32(0), calls.Load())

	task.Schedule()
	assert.True(t, task.Flush())
	assert.Equal(t, int32(1), calls.Load())
	assert.False(t, task.Pending())
}

func TestWithExecutor(t *testing.T) {
	t.Run("executor runs the call", func(t *testing.T) {
		var viaExec, calls atomic.Int32
		exec := func(fn func()) error {
			viaExec.Add(1)
			go fn()
			return nil
		}
		task := New(5*time.Millisecond, func() { calls.Add(1) }, WithExecutor(exec))
		task.Schedule()

		require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)
		assert.Equal(t, int32(1), viaExec.Load())
	})

	t.Run("refused executor falls back inline", func(t *testing.T) {
		var calls atomic.Int32
		exec := func(func()) error { return errors.New("pool closed") }
		task := New(5*time.Millisecond, func() { calls.Add(1) }, WithExecutor(exec))
		task.Schedule()

		require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	})
}
