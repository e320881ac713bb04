package stores

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"renextract/internal/application"
	"renextract/internal/domain"
	apperrors "renextract/internal/pkg/errors"
)

func coherenceResult() *domain.CoherenceResult {
	return &domain.CoherenceResult{
		Stats: domain.CoherenceStats{
			TotalIssues:   3,
			FilesAnalyzed: 1,
			IssuesByType:  map[string]int{"VARIABLE": 2, "TAG": 1, "ELLIPSIS": 0},
		},
		IssuesByFile: map[string][]domain.CoherenceIssue{
			"script.rpy": {{Type: "VARIABLE", LineNumber: 12, Message: "[name] manquant"}},
		},
		RapportPath: "02_Reports/Demo/coherence.html",
	}
}

func TestCoherenceStore_RejectsBlankPath(t *testing.T) {
	api := &fakeBackend{}
	s := NewCoherenceStore(api, nil)

	assert.False(t, s.QuickCheckFile(context.Background(), "   "))
	assert.False(t, s.AnalyzeCoherence(context.Background(), ""))
	assert.Empty(t, api.Calls())
	assert.Zero(t, s.Stats().Total)
}

func TestCoherenceStore_QuickCheckSuccess(t *testing.T) {
	api := &fakeBackend{coherenceRes: coherenceResult()}
	s := NewCoherenceStore(api, newStaticSettings(nil))

	require.True(t, s.QuickCheckFile(context.Background(), demoScript))
	st := s.Snapshot()
	assert.False(t, st.IsChecking)
	assert.Equal(t, ProgressQuickCheckDone, st.Progress)
	assert.Equal(t, demoScript, st.CurrentTarget)
	require.NotNil(t, st.LastResult)
	assert.Equal(t, 2, st.LastResult.DistinctIssueTypes())
	assert.Empty(t, api.openedReports, "reports auto-open is off by default")
}

func TestCoherenceStore_AutoOpensReport(t *testing.T) {
	api := &fakeBackend{coherenceRes: coherenceResult()}
	settings := newStaticSettings(func(s *domain.AppSettings) { s.AutoOpenings.Reports = true })
	s := NewCoherenceStore(api, settings)

	require.True(t, s.AnalyzeCoherence(context.Background(), "/games/Demo/game/tl/french"))
	assert.Equal(t, ProgressAnalysisDone, s.Snapshot().Progress)
	assert.Equal(t, []string{"02_Reports/Demo/coherence.html"}, api.openedReports)
}

func TestCoherenceStore_Failures(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		wantError    string
		wantProgress string
	}{
		{
			name:         "backend rejection",
			err:          apperrors.Rejected("X"),
			wantError:    "X",
			wantProgress: ProgressQuickCheckFailed,
		},
		{
			name:         "rejection without text",
			err:          apperrors.Rejected(""),
			wantError:    apperrors.UnknownError,
			wantProgress: ProgressQuickCheckFailed,
		},
		{
			name:         "transport timeout",
			err:          apperrors.Wrap(errors.New("timeout"), apperrors.CodeTransport, "request failed"),
			wantError:    "timeout",
			wantProgress: ProgressCheckException,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeBackend{coherenceErr: tt.err}
			s := NewCoherenceStore(api, nil)

			assert.False(t, s.QuickCheckFile(context.Background(), demoScript))
			st := s.Snapshot()
			assert.Contains(t, st.LastError, tt.wantError)
			assert.Equal(t, tt.wantProgress, st.Progress)
			assert.False(t, st.IsChecking)
			assert.Nil(t, st.LastResult)
			assert.Equal(t, 1, st.Stats.Failed)
		})
	}
}

func TestCoherenceStore_FailureClearsPreviousResult(t *testing.T) {
	api := &fakeBackend{coherenceRes: &domain.CoherenceResult{TargetPath: demoScript}}
	s := NewCoherenceStore(api, noAutoOpen())
	require.True(t, s.QuickCheckFile(context.Background(), demoScript))
	require.NotNil(t, s.Snapshot().LastResult)

	api.coherenceErr = apperrors.Rejected("X")
	assert.False(t, s.QuickCheckFile(context.Background(), demoScript))

	st := s.Snapshot()
	assert.Nil(t, st.LastResult)
	assert.Equal(t, "X", st.LastError)
	assert.Equal(t, domain.RunStats{Total: 2, Successful: 1, Failed: 1, SuccessRate: 50}, st.Stats)
}

func TestCoherenceStore_Options(t *testing.T) {
	api := &fakeBackend{optionsDoc: json.RawMessage(`{"check_tags":false,"custom_exclusions":["OK"]}`)}
	s := NewCoherenceStore(api, nil)

	require.True(t, s.LoadOptions(context.Background()))
	opts := s.Snapshot().Options
	assert.False(t, opts.CheckTags)
	assert.True(t, opts.CheckVariables, "absent keys keep their value")
	assert.Equal(t, []string{"OK"}, opts.CustomExclusions)

	require.True(t, s.SaveOptions(context.Background(), map[string]any{"check_syntax": false}))
	assert.False(t, s.Snapshot().Options.CheckSyntax)
	assert.Equal(t, []map[string]any{{"check_syntax": false}}, api.savedOptions)

	assert.False(t, s.SaveOptions(context.Background(), map[string]any{"check_syntax": "no"}))
	assert.False(t, s.Snapshot().Options.CheckSyntax)
	assert.Len(t, api.savedOptions, 1, "invalid patches are not sent")
}

func TestCoherenceStore_UpdateOptionAndToggleAll(t *testing.T) {
	s := NewCoherenceStore(&fakeBackend{}, nil)

	require.NoError(t, s.UpdateOption("check_ellipsis", false))
	assert.False(t, s.Snapshot().Options.CheckEllipsis)

	require.NoError(t, s.UpdateOption("custom_exclusions", []string{"Menu"}))
	assert.Equal(t, []string{"Menu"}, s.Snapshot().Options.CustomExclusions)

	assert.ErrorIs(t, s.UpdateOption("check_spelling", true), application.ErrUnknownSetting)
	var valErr *application.ValidationError
	assert.ErrorAs(t, s.UpdateOption("check_tags", "yes"), &valErr)

	s.ToggleAll(false)
	for _, key := range domain.CheckKeys() {
		opts := s.Snapshot().Options
		assert.False(t, *opts.Check(key), key)
	}
	assert.Equal(t, []string{"Menu"}, s.Snapshot().Options.CustomExclusions)
}

func TestCoherenceStore_ReportActions(t *testing.T) {
	api := &fakeBackend{coherenceRes: coherenceResult()}
	s := NewCoherenceStore(api, nil)

	assert.False(t, s.OpenDetailedReport(context.Background()), "no report yet")
	require.True(t, s.QuickCheckFile(context.Background(), demoScript))
	assert.True(t, s.OpenDetailedReport(context.Background()))
	assert.True(t, s.OpenReportsFolder(context.Background()))
	assert.Equal(t, 1, api.count("coherence.open-folder"))

	s.ResetState()
	st := s.Snapshot()
	assert.Nil(t, st.LastResult)
	assert.Empty(t, st.CurrentTarget)
	assert.Equal(t, 1, st.Stats.Successful)
}

func TestCoherenceStore_SnapshotIsACopy(t *testing.T) {
	api := &fakeBackend{coherenceRes: coherenceResult()}
	s := NewCoherenceStore(api, nil)
	require.True(t, s.QuickCheckFile(context.Background(), demoScript))

	snap := s.Snapshot()
	snap.LastResult.Stats.IssuesByType["VARIABLE"] = 99
	snap.Options.CustomExclusions[0] = "changed"

	again := s.Snapshot()
	assert.Equal(t, 2, again.LastResult.Stats.IssuesByType["VARIABLE"])
	assert.Equal(t, "OK", again.Options.CustomExclusions[0])
}
