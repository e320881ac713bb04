// Package stores holds the client-side state containers: settings,
// project, extraction, reconstruction and coherence. Each store mirrors
// backend state, exposes typed actions and publishes its outcomes on an
// application.Bus.
package stores

import (
	"context"
	"time"

	"go.uber.org/zap"

	"renextract/internal/application"
	"renextract/internal/domain"
	"renextract/internal/pkg/debounce"
	"renextract/internal/ports"
)

// Default timings.
const (
	DefaultSyncDebounce  = 500 * time.Millisecond
	DefaultSettingsDelay = 100 * time.Millisecond
	DefaultProjectDelay  = time.Second
	DefaultOpenDelay     = 150 * time.Millisecond

	// maxRootLevels bounds the upward search for a project root.
	maxRootLevels = 10
)

// SettingsReader is the read side of the settings store.
type SettingsReader interface {
	Snapshot() domain.AppSettings
}

// SettingsWriter lets a store patch settings.
type SettingsWriter interface {
	SettingsReader
	Update(fn func(*domain.AppSettings))
}

type options struct {
	log           *zap.Logger
	bus           *application.Bus
	executor      debounce.Executor
	history       ports.RunHistory
	syncDebounce  time.Duration
	settingsDelay time.Duration
	projectDelay  time.Duration
	openDelay     time.Duration
}

// Option configures a store or the App.
type Option func(*options)

func defaultOptions() options {
	return options{
		log:           zap.NewNop(),
		syncDebounce:  DefaultSyncDebounce,
		settingsDelay: DefaultSettingsDelay,
		projectDelay:  DefaultProjectDelay,
		openDelay:     DefaultOpenDelay,
	}
}

func buildOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithLogger sets the logger. Stores log under their own name.
func WithLogger(log *zap.Logger) Option {
	return func(o *options) {
		if log != nil {
			o.log = log
		}
	}
}

// WithBus sets the bus stores publish their outcomes on.
func WithBus(bus *application.Bus) Option {
	return func(o *options) { o.bus = bus }
}

// WithExecutor runs debounced settings syncs through exec, typically a
// worker pool.
func WithExecutor(exec debounce.Executor) Option {
	return func(o *options) { o.executor = exec }
}

// WithHistory records every workflow outcome in h.
func WithHistory(h ports.RunHistory) Option {
	return func(o *options) { o.history = h }
}

// WithSyncDebounce sets the settings sync delay.
func WithSyncDebounce(d time.Duration) Option {
	return func(o *options) { o.syncDebounce = d }
}

// WithStartupDelays sets the settings wait and the project startup delay.
func WithStartupDelays(settings, project time.Duration) Option {
	return func(o *options) {
		o.settingsDelay = settings
		o.projectDelay = project
	}
}

// WithOpenDelay sets the pause between automatically opened files.
func WithOpenDelay(d time.Duration) Option {
	return func(o *options) { o.openDelay = d }
}

// sleep waits for d or until ctx is done. It reports whether the full
// delay elapsed.
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}

// publish sends an event when a bus is configured.
func publish(ctx context.Context, bus *application.Bus, log *zap.Logger, t domain.EventType, payload any) {
	if bus == nil {
		return
	}
	if err := bus.Publish(ctx, domain.NewEvent(t, payload)); err != nil {
		log.Warn("event delivery failed", zap.String("event_type", string(t)), zap.Error(err))
	}
}
