// Package app is the composition root shared by the front ends.
package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"renextract/internal/adapters/httpapi"
	"renextract/internal/adapters/sqlite"
	"renextract/internal/application/stores"
	"renextract/internal/config"
	"renextract/internal/i18n"
	"renextract/internal/pkg/logger"
	"renextract/internal/pkg/worker"
	"renextract/internal/ports"
)

// Application holds the wired client.
type Application struct {
	Config  *config.Config
	Backend *httpapi.Client
	Stores  *stores.App
	History *sqlite.History // nil when disabled or unavailable
	Pool    *worker.Pool
}

// Bootstrap builds the backend client, the worker pool, the history
// database and the stores. The stores are not started. prompter answers
// file dialogs when the backend runs under WSL; it may be nil.
func Bootstrap(ctx context.Context, cfg *config.Config, prompter ports.Prompter) (*Application, error) {
	log := logger.L()
	i18n.SetLanguage(cfg.UI.Language)

	pool, err := worker.NewPool(ctx, cfg.Worker.PoolSize, log.Named("worker"))
	if err != nil {
		return nil, fmt.Errorf("init worker pool: %w", err)
	}

	clientOpts := []httpapi.Option{
		httpapi.WithTimeouts(cfg.API.Timeout, cfg.API.DialogTimeout),
		httpapi.WithLogger(log.Named("http")),
	}
	if prompter != nil {
		clientOpts = append(clientOpts, httpapi.WithPrompter(prompter))
	}
	backend := httpapi.New(cfg.API.BaseURL, clientOpts...)

	a := &Application{Config: cfg, Backend: backend, Pool: pool}

	storeOpts := []stores.Option{
		stores.WithLogger(log.Named("stores")),
		stores.WithExecutor(pool.Go),
		stores.WithSyncDebounce(cfg.Settings.SyncDebounce),
		stores.WithStartupDelays(cfg.Startup.SettingsDelay, cfg.Startup.ProjectDelay),
		stores.WithOpenDelay(cfg.Extraction.OpenDelay),
	}
	if cfg.History.Enabled {
		// a broken history file must not keep the client from starting
		h, err := sqlite.Open(cfg.History.Path)
		if err != nil {
			log.Warn("run history disabled", zap.String("path", cfg.History.Path), zap.Error(err))
		} else {
			a.History = h
			storeOpts = append(storeOpts, stores.WithHistory(h))
		}
	}
	a.Stores = stores.New(backend, storeOpts...)

	log.Debug("client bootstrapped",
		zap.String("base_url", cfg.API.BaseURL),
		zap.Bool("history", a.History != nil),
		zap.Int("pool_size", cfg.Worker.PoolSize),
	)
	return a, nil
}

// Shutdown flushes pending settings, then stops the pool and closes the
// history.
func (a *Application) Shutdown() {
	if a.Stores != nil {
		a.Stores.Close()
	}
	if a.Pool != nil {
		a.Pool.Shutdown(5 * time.Second)
	}
	if a.History != nil {
		if err := a.History.Close(); err != nil {
			logger.Warn("close run history", zap.Error(err))
		}
	}
}
