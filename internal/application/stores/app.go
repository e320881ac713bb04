package stores

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"renextract/internal/application"
	"renextract/internal/domain"
	"renextract/internal/pkg/debounce"
	"renextract/internal/ports"
)

// App wires the five stores to one backend and one bus.
type App struct {
	Backend        ports.Backend
	Bus            *application.Bus
	Settings       *SettingsStore
	Project        *ProjectStore
	Extraction     *ExtractionStore
	Reconstruction *ReconstructionStore
	Coherence      *CoherenceStore

	log           *zap.Logger
	exec          debounce.Executor
	settingsDelay time.Duration
	wg            sync.WaitGroup
}

// New builds the stores. The coherence store is subscribed to
// reconstruction completions, and the history, if any, to every
// workflow event.
func New(backend ports.Backend, opts ...Option) *App {
	o := buildOptions(opts)
	if o.bus == nil {
		o.bus = application.NewBus(o.log.Named("bus"))
	}
	opts = append(opts, WithBus(o.bus))

	a := &App{
		Backend:       backend,
		Bus:           o.bus,
		log:           o.log,
		exec:          o.executor,
		settingsDelay: o.settingsDelay,
	}
	a.Settings = NewSettingsStore(backend, opts...)
	a.Project = NewProjectStore(backend, a.Settings, opts...)
	a.Extraction = NewExtractionStore(backend, a.Settings, opts...)
	a.Reconstruction = NewReconstructionStore(backend, a.Extraction, a.Settings, opts...)
	a.Coherence = NewCoherenceStore(backend, a.Settings, opts...)

	a.Bus.Subscribe(domain.EventReconstructionCompleted, a.Coherence.HandleReconstruction)
	if o.history != nil {
		a.Bus.SubscribeAll(domain.WorkflowEventTypes(), recordRun(o.history))
	}
	return a
}

// Start runs the startup sequence in the background: settings at once,
// extraction settings and coherence options after the settings delay,
// and the project after the project delay.
func (a *App) Start(ctx context.Context) {
	a.spawn(func() {
		a.Settings.Load(ctx)
	})
	a.spawn(func() {
		if !sleep(ctx, a.settingsDelay) {
			return
		}
		a.Extraction.LoadSettings(ctx)
		a.Coherence.LoadOptions(ctx)
	})
	a.spawn(func() {
		a.Project.Startup(ctx)
	})
}

// Wait blocks until the startup sequence has finished.
func (a *App) Wait() {
	a.wg.Wait()
}

// Close sends a pending settings change and stops the debounce timer.
func (a *App) Close() {
	a.Settings.Flush()
	a.Settings.Close()
}

func (a *App) spawn(fn func()) {
	a.wg.Add(1)
	run := func() {
		defer a.wg.Done()
		fn()
	}
	if a.exec != nil {
		if err := a.exec(run); err == nil {
			return
		}
		a.log.Debug("executor refused startup task, running on a goroutine")
	}
	go run()
}

func recordRun(h ports.RunHistory) application.EventHandler {
	return func(ctx context.Context, e domain.Event) error {
		rec, ok := domain.RunRecordFromEvent(e)
		if !ok {
			return nil
		}
		return h.Record(ctx, rec)
	}
}
