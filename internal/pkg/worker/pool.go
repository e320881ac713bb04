// Package worker runs background client work (debounced settings syncs,
// the startup sequence) on a bounded goroutine pool.
package worker

import (
	"context"
	"errors"
	"time"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"
)

// ErrPoolClosed is returned when submitting to a released pool.
var ErrPoolClosed = errors.New("worker pool is closed")

// Task is a context-aware unit of work.
type Task func(ctx context.Context)

// Pool wraps an ants pool bound to a service lifecycle context.
type Pool struct {
	pool   *ants.Pool
	log    *zap.Logger
	ctx    context.Context
	cancel context.CancelFunc
}

// NewPool creates a pool of the given size. Tasks receive a context that
// is cancelled by Shutdown.
func NewPool(ctx context.Context, size int, log *zap.Logger) (*Pool, error) {
	if size <= 0 {
		size = 8
	}
	if log == nil {
		log = zap.NewNop()
	}

	panicHandler := func(p interface{}) {
		log.Error("worker panic recovered", zap.Any("panic", p), zap.Stack("stack"))
	}

	ap, err := ants.NewPool(size,
		ants.WithPanicHandler(panicHandler),
		ants.WithNonblocking(false),
		ants.WithExpiryDuration(10*time.Second),
	)
	if err != nil {
		return nil, err
	}

	serviceCtx, cancel := context.WithCancel(ctx)
	return &Pool{pool: ap, log: log, ctx: serviceCtx, cancel: cancel}, nil
}

// Submit runs task with the pool's lifecycle context. A task accepted
// while the pool is shutting down is skipped.
func (p *Pool) Submit(task Task) error {
	return p.submit(task, false)
}

// Go adapts the pool to a plain func() executor. Once accepted, fn always
// runs, even during shutdown: callers such as startup tasks count on it
// and handle their own cancellation.
func (p *Pool) Go(fn func()) error {
	return p.submit(func(context.Context) { fn() }, true)
}

func (p *Pool) submit(task Task, always bool) error {
	if p.ctx.Err() != nil {
		return ErrPoolClosed
	}
	err := p.pool.Submit(func() {
		if !always && p.ctx.Err() != nil {
			p.log.Debug("task skipped: pool shutting down")
			return
		}
		task(p.ctx)
	})
	if errors.Is(err, ants.ErrPoolClosed) {
		return ErrPoolClosed
	}
	return err
}

// Running returns the number of live workers.
func (p *Pool) Running() int {
	return p.pool.Running()
}

// Waiting returns the number of submitters blocked on a free worker.
func (p *Pool) Waiting() int {
	return p.pool.Waiting()
}

// Shutdown cancels the lifecycle context and waits up to timeout for
// running tasks.
func (p *Pool) Shutdown(timeout time.Duration) {
	p.log.Debug("worker pool shutting down", zap.Int("running", p.Running()), zap.Int("waiting", p.Waiting()))
	p.cancel()
	if err := p.pool.ReleaseTimeout(timeout); err != nil {
		p.log.Warn("worker pool shutdown timeout", zap.Error(err))
	}
}
