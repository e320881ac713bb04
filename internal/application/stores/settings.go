package stores

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"renextract/internal/application"
	"renextract/internal/domain"
	"renextract/internal/pkg/debounce"
	apperrors "renextract/internal/pkg/errors"
	"renextract/internal/ports"
)

// SettingsStore holds the application settings. Changes apply locally
// at once and reach the backend through a debounced sync.
type SettingsStore struct {
	api ports.SettingsAPI
	log *zap.Logger

	mu       sync.Mutex
	settings domain.AppSettings
	loaded   bool

	sync *debounce.Task
}

// NewSettingsStore creates a store holding the defaults.
func NewSettingsStore(api ports.SettingsAPI, opts ...Option) *SettingsStore {
	o := buildOptions(opts)
	s := &SettingsStore{
		api:      api,
		log:      o.log.Named("settings"),
		settings: domain.DefaultAppSettings(),
	}

	var taskOpts []debounce.Option
	if o.executor != nil {
		taskOpts = append(taskOpts, debounce.WithExecutor(o.executor))
	}
	s.sync = debounce.New(o.syncDebounce, func() {
		s.SyncNow(context.Background())
	}, taskOpts...)
	return s
}

// Load fetches the settings and overlays them on the defaults. Failures
// are logged and the defaults stay in place.
func (s *SettingsStore) Load(ctx context.Context) bool {
	data, err := s.api.GetSettings(ctx)
	if err != nil {
		s.log.Warn("settings load failed, keeping defaults", zap.String("error", apperrors.MessageOf(err)))
		return false
	}

	merged, err := domain.MergeSettingsJSON(domain.DefaultAppSettings(), data)
	if err != nil {
		s.log.Warn("settings decode failed, keeping defaults", zap.Error(err))
		return false
	}

	s.mu.Lock()
	s.settings = merged
	s.loaded = true
	s.mu.Unlock()

	s.log.Debug("settings loaded")
	return true
}

// Snapshot returns a copy of the current settings.
func (s *SettingsStore) Snapshot() domain.AppSettings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings.Clone()
}

// Loaded reports whether a load has succeeded.
func (s *SettingsStore) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

// SetSetting sets a dotted key such as "autoOpenings.files" and schedules
// a sync. It fails only when the key or the value type is wrong.
func (s *SettingsStore) SetSetting(key string, value any) error {
	if err := application.ValidateRequired("key", key); err != nil {
		return err
	}

	s.mu.Lock()
	next, err := domain.WithSetting(s.settings, key, value)
	if err != nil {
		s.mu.Unlock()
		var unknown *domain.ErrUnknownSettingKey
		if errors.As(err, &unknown) {
			return &application.SettingError{Key: key, Reason: "no such setting"}
		}
		return &application.ValidationError{Field: key, Message: err.Error()}
	}
	s.settings = next
	s.mu.Unlock()

	s.sync.Schedule()
	return nil
}

// Update applies fn to the settings and schedules a sync.
func (s *SettingsStore) Update(fn func(*domain.AppSettings)) {
	s.mu.Lock()
	next := s.settings.Clone()
	fn(&next)
	s.settings = next
	s.mu.Unlock()

	s.sync.Schedule()
}

// Reset restores the defaults and schedules a sync.
func (s *SettingsStore) Reset() {
	s.mu.Lock()
	s.settings = domain.DefaultAppSettings()
	s.mu.Unlock()

	s.sync.Schedule()
}

// SyncNow posts the full settings object and drops a pending debounced
// sync, which would only repeat it. It does nothing until a load has
// succeeded, so defaults never overwrite the user's file.
func (s *SettingsStore) SyncNow(ctx context.Context) bool {
	s.sync.Cancel()
	s.mu.Lock()
	if !s.loaded {
		s.mu.Unlock()
		s.log.Debug("settings sync skipped, not loaded")
		return false
	}
	snapshot := s.settings.Clone()
	s.mu.Unlock()

	if err := s.api.UpdateSettings(ctx, snapshot); err != nil {
		s.log.Warn("settings sync failed", zap.String("error", apperrors.MessageOf(err)))
		return false
	}
	return true
}

// SyncPending reports whether a debounced sync is waiting.
func (s *SettingsStore) SyncPending() bool {
	return s.sync.Pending()
}

// Flush runs a pending sync now.
func (s *SettingsStore) Flush() bool {
	return s.sync.Flush()
}

// Close drops a pending sync.
func (s *SettingsStore) Close() {
	s.sync.Cancel()
}
