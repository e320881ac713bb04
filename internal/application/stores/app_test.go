package stores

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"renextract/internal/domain"
	"renextract/internal/ports"
)

func TestApp_StartLoadsInOrder(t *testing.T) {
	api := &fakeBackend{
		settingsDoc: json.RawMessage(`{"paths":{"editor":""}}`),
		extSettings: &domain.ExtractionSettings{CodePrefix: "C"},
		optionsDoc:  json.RawMessage(`{"check_tags":false}`),
	}
	app := New(api, WithStartupDelays(5*time.Millisecond, 20*time.Millisecond), WithSyncDebounce(time.Hour))
	defer app.Close()

	app.Start(context.Background())
	app.Wait()

	assert.True(t, app.Settings.Loaded())
	assert.Equal(t, "C", app.Extraction.Snapshot().Settings.CodePrefix)
	assert.False(t, app.Coherence.Snapshot().Options.CheckTags)

	calls := api.Calls()
	require.NotEmpty(t, calls)
	assert.Equal(t, "settings.get", calls[0])
	assert.Equal(t, 1, api.count("extraction.get-settings"))
	assert.Equal(t, 1, api.count("coherence.options.get"))
}

func TestApp_StartUsesExecutor(t *testing.T) {
	api := &fakeBackend{}
	submitted := 0
	exec := func(fn func()) error {
		submitted++
		go fn()
		return nil
	}
	app := New(api, WithExecutor(exec), WithStartupDelays(0, 0), WithSyncDebounce(time.Hour))
	defer app.Close()

	app.Start(context.Background())
	app.Wait()
	assert.Equal(t, 3, submitted)
}

func TestApp_ReconstructionChainsCoherenceAndHistory(t *testing.T) {
	savePath := "/games/Demo/game/tl/french/script_translated.rpy"
	api := &fakeBackend{
		settingsDoc:    json.RawMessage(`{"autoOpenings":{"files":false}}`),
		extractResp:    &ports.ExtractResponse{Result: extractionResult(), ExtractionTime: 1250},
		validationRes:  &domain.ValidationResult{OverallValid: true},
		reconstructRes: &domain.ReconstructionResult{SavePath: savePath},
		coherenceRes:   coherenceResult(),
	}
	history := &recordingHistory{}
	app := New(api, WithHistory(history), WithSyncDebounce(time.Hour))
	defer app.Close()
	require.True(t, app.Settings.Load(context.Background()))

	ctx := context.Background()
	require.True(t, app.Extraction.ExtractTexts(ctx, []string{"x"}, demoScript, nil))
	require.True(t, app.Reconstruction.ReconstructFile(ctx, []string{"x"}, demoScript, ""))

	assert.Equal(t, 1, api.count("coherence.check"))
	assert.Equal(t, []string{savePath}, api.checked)

	recs, err := history.Recent(ctx, "", 10)
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, "extraction", recs[0].Kind)
	assert.Equal(t, "120 dialogues | 4 astérisques (1.25s)", recs[0].Detail)
	assert.Equal(t, "coherence", recs[1].Kind, "the check runs inside the reconstruction publish")
	assert.Equal(t, savePath, recs[1].Path)
	assert.Equal(t, "reconstruction", recs[2].Kind)
	for _, r := range recs {
		assert.True(t, r.Success)
	}
}

func TestApp_CloseFlushesPendingSync(t *testing.T) {
	api := &fakeBackend{settingsDoc: json.RawMessage(`{}`)}
	app := New(api, WithSyncDebounce(time.Hour))
	require.True(t, app.Settings.Load(context.Background()))

	require.NoError(t, app.Settings.SetSetting("theme", domain.ThemeLight))
	app.Close()

	saved, n := api.lastSaved()
	assert.Equal(t, 1, n)
	assert.Equal(t, domain.ThemeLight, saved.Theme)
}
