// Package debounce provides a trailing-edge debounced task.
package debounce

import (
	"sync"
	"time"
)

// Executor runs fn somewhere other than the timer goroutine.
// Returning an error makes the task run fn inline instead.
type Executor func(fn func()) error

// Option configures a Task.
type Option func(*Task)

// WithExecutor hands fired calls to exec, e.g. a worker pool.
func WithExecutor(exec Executor) Option {
	return func(t *Task) {
		t.exec = exec
	}
}

// Task coalesces bursts of Schedule calls into one call of fn that runs
// once delay has elapsed since the last Schedule.
type Task struct {
	delay time.Duration
	fn    func()
	exec  Executor

	mu    sync.Mutex
	timer *time.Timer
	gen   uint64
}

// New creates a Task. fn must not be nil.
func New(delay time.Duration, fn func(), opts ...Option) *Task {
	t := &Task{delay: delay, fn: fn}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Schedule (re)starts the timer. Earlier pending calls are dropped.
func (t *Task) Schedule() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.timer != nil {
		t.timer.Stop()
	}
	t.gen++
	gen := t.gen
	t.timer = time.AfterFunc(t.delay, func() { t.fire(gen) })
}

// Pending reports whether a call is waiting on the timer.
func (t *Task) Pending() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.timer != nil
}

// Cancel drops the pending call. It reports whether one was pending.
func (t *Task) Cancel() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.clearLocked()
}

// Flush runs the pending call now, on the caller's goroutine.
// It reports whether anything ran.
func (t *Task) Flush() bool {
	t.mu.Lock()
	pending := t.clearLocked()
	t.mu.Unlock()

	if pending {
		t.fn()
	}
	return pending
}

func (t *Task) clearLocked() bool {
	if t.timer == nil {
		return false
	}
	t.timer.Stop()
	t.timer = nil
	// invalidates a timer that already fired but has not taken the lock
	t.gen++
	return true
}

func (t *Task) fire(gen uint64) {
	t.mu.Lock()
	if gen != t.gen || t.timer == nil {
		t.mu.Unlock()
		return
	}
	t.timer = nil
	t.mu.Unlock()

	if t.exec != nil {
		if err := t.exec(t.fn); err == nil {
			return
		}
	}
	t.fn()
}
