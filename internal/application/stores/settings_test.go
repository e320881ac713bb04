package stores

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"renextract/internal/application"
	"renextract/internal/domain"
	apperrors "renextract/internal/pkg/errors"
)

func TestSettingsStore_LoadMergesOverDefaults(t *testing.T) {
	api := &fakeBackend{settingsDoc: json.RawMessage(`{"theme":"light","autoOpenings":{"reports":true}}`)}
	s := NewSettingsStore(api)

	require.True(t, s.Load(context.Background()))
	assert.True(t, s.Loaded())

	got := s.Snapshot()
	assert.Equal(t, domain.ThemeLight, got.Theme)
	assert.True(t, got.AutoOpenings.Reports)
	assert.True(t, got.AutoOpenings.Files, "absent keys keep their default")
	assert.Equal(t, domain.SaveModeNewFile, got.Reconstruction.SaveMode)
}

func TestSettingsStore_LoadFailureKeepsDefaults(t *testing.T) {
	api := &fakeBackend{settingsErr: apperrors.Wrap(errors.New("dial tcp: connection refused"), apperrors.CodeTransport, "request failed")}
	s := NewSettingsStore(api)

	assert.False(t, s.Load(context.Background()))
	assert.False(t, s.Loaded())
	assert.Equal(t, domain.DefaultAppSettings(), s.Snapshot())
}

func TestSettingsStore_NoSyncBeforeLoad(t *testing.T) {
	api := &fakeBackend{}
	s := NewSettingsStore(api, WithSyncDebounce(time.Hour))

	require.NoError(t, s.SetSetting("theme", domain.ThemeLight))
	assert.Equal(t, domain.ThemeLight, s.Snapshot().Theme, "patch applies locally at once")
	assert.True(t, s.SyncPending())

	assert.True(t, s.Flush(), "a sync was pending")
	assert.False(t, s.SyncNow(context.Background()))
	assert.Zero(t, api.count("settings.update"))
}

func TestSettingsStore_SyncNowSupersedesPendingSync(t *testing.T) {
	api := &fakeBackend{settingsDoc: json.RawMessage(`{}`)}
	s := NewSettingsStore(api, WithSyncDebounce(time.Hour))
	require.True(t, s.Load(context.Background()))

	require.NoError(t, s.SetSetting("theme", domain.ThemeLight))
	require.True(t, s.SyncPending())
	require.True(t, s.SyncNow(context.Background()))

	assert.False(t, s.SyncPending())
	assert.False(t, s.Flush(), "nothing left to send on shutdown")
	saved, n := api.lastSaved()
	assert.Equal(t, 1, n)
	assert.Equal(t, domain.ThemeLight, saved.Theme)
}

func TestSettingsStore_DebouncedSyncLastWriteWins(t *testing.T) {
	api := &fakeBackend{settingsDoc: json.RawMessage(`{}`)}
	s := NewSettingsStore(api, WithSyncDebounce(20*time.Millisecond))
	require.True(t, s.Load(context.Background()))

	require.NoError(t, s.SetSetting("theme", domain.ThemeLight))
	require.NoError(t, s.SetSetting("autoOpenings.files", false))
	require.NoError(t, s.SetSetting("theme", domain.ThemeAuto))

	require.Eventually(t, func() bool {
		_, n := api.lastSaved()
		return n >= 1
	}, time.Second, 5*time.Millisecond)
	time.Sleep(50 * time.Millisecond)

	saved, n := api.lastSaved()
	assert.Equal(t, 1, n, "a burst of changes syncs once")
	assert.Equal(t, domain.ThemeAuto, saved.Theme)
	assert.False(t, saved.AutoOpenings.Files)
}

func TestSettingsStore_SyncRunsOnExecutor(t *testing.T) {
	api := &fakeBackend{settingsDoc: json.RawMessage(`{}`)}
	ran := make(chan struct{}, 1)
	exec := func(fn func()) error {
		go func() {
			fn()
			ran <- struct{}{}
		}()
		return nil
	}
	s := NewSettingsStore(api, WithSyncDebounce(5*time.Millisecond), WithExecutor(exec))
	require.True(t, s.Load(context.Background()))

	s.Update(func(as *domain.AppSettings) { as.Paths.RenpySDK = "/opt/renpy" })

	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("sync did not run on the executor")
	}
	saved, n := api.lastSaved()
	assert.Equal(t, 1, n)
	assert.Equal(t, "/opt/renpy", saved.Paths.RenpySDK)
}

func TestSettingsStore_SetSettingErrors(t *testing.T) {
	s := NewSettingsStore(&fakeBackend{}, WithSyncDebounce(time.Hour))
	defer s.Close()

	err := s.SetSetting("paths.home", "/x")
	assert.ErrorIs(t, err, application.ErrUnknownSetting)

	err = s.SetSetting("autoOpenings.files", "yes")
	var valErr *application.ValidationError
	assert.ErrorAs(t, err, &valErr)

	err = s.SetSetting("", true)
	assert.ErrorAs(t, err, &valErr)

	assert.True(t, s.Snapshot().AutoOpenings.Files, "failed patches leave settings untouched")
}

func TestSettingsStore_SetLastProject(t *testing.T) {
	s := NewSettingsStore(&fakeBackend{}, WithSyncDebounce(time.Hour))
	defer s.Close()

	require.NoError(t, s.SetSetting("lastProject", domain.LastProject{Path: "/games/demo", Mode: domain.ModeProject}))
	require.NoError(t, s.SetSetting("lastProject.language", "french"))

	lp := s.Snapshot().LastProject
	require.NotNil(t, lp)
	assert.Equal(t, domain.LastProject{Path: "/games/demo", Language: "french", Mode: domain.ModeProject}, *lp)
}

func TestSettingsStore_ResetAndClose(t *testing.T) {
	api := &fakeBackend{settingsDoc: json.RawMessage(`{"theme":"light"}`)}
	s := NewSettingsStore(api, WithSyncDebounce(time.Hour))
	require.True(t, s.Load(context.Background()))

	s.Reset()
	assert.Equal(t, domain.ThemeDark, s.Snapshot().Theme)
	assert.True(t, s.SyncPending())

	s.Close()
	assert.False(t, s.SyncPending())
	assert.False(t, s.Flush())
	assert.Zero(t, api.count("settings.update"))
}
