package stores

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"renextract/internal/application"
	"renextract/internal/domain"
	apperrors "renextract/internal/pkg/errors"
	"renextract/internal/ports"
)

// Coherence progress messages.
const (
	ProgressQuickCheck       = "Vérification rapide en cours..."
	ProgressQuickCheckDone   = "Vérification terminée"
	ProgressQuickCheckFailed = "Erreur lors de la vérification"
	ProgressAnalysis         = "Analyse de cohérence en cours..."
	ProgressAnalysisDone     = "Analyse terminée"
	ProgressAnalysisFailed   = "Erreur lors de l'analyse"
	ProgressCheckException   = "Erreur exceptionnelle"
)

// CoherenceState is a snapshot of the coherence store.
type CoherenceState struct {
	IsChecking    bool
	Progress      string
	Options       domain.CoherenceOptions
	LastResult    *domain.CoherenceResult
	LastError     string
	CurrentTarget string
	Stats         domain.RunStats
}

// CoherenceStore runs coherence checks on translated scripts.
type CoherenceStore struct {
	api      ports.CoherenceAPI
	settings SettingsReader
	bus      *application.Bus
	log      *zap.Logger

	mu         sync.Mutex
	state      CoherenceState
	successful int
	failed     int
}

// NewCoherenceStore creates a store with every check enabled.
func NewCoherenceStore(api ports.CoherenceAPI, settings SettingsReader, opts ...Option) *CoherenceStore {
	o := buildOptions(opts)
	return &CoherenceStore{
		api:      api,
		settings: settings,
		bus:      o.bus,
		log:      o.log.Named("coherence"),
		state:    CoherenceState{Options: domain.DefaultCoherenceOptions()},
	}
}

// Snapshot returns a copy of the state.
func (s *CoherenceStore) Snapshot() CoherenceState {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state
	st.Options = st.Options.Clone()
	st.LastResult = st.LastResult.Clone()
	st.Stats = domain.NewRunStats(s.successful, s.failed)
	return st
}

// Stats counts checks since the store was created.
func (s *CoherenceStore) Stats() domain.RunStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.NewRunStats(s.successful, s.failed)
}

// LoadOptions overlays the backend's options on the current ones.
func (s *CoherenceStore) LoadOptions(ctx context.Context) bool {
	raw, err := s.api.CoherenceOptions(ctx)
	if err != nil {
		s.log.Warn("coherence options load failed", zap.String("error", apperrors.MessageOf(err)))
		return false
	}

	s.mu.Lock()
	merged, err := overlayOptions(s.state.Options, raw)
	if err == nil {
		s.state.Options = merged
	}
	s.mu.Unlock()

	if err != nil {
		s.log.Warn("coherence options decode failed", zap.Error(err))
		return false
	}
	s.log.Debug("coherence options loaded")
	return true
}

// SaveOptions applies patch locally, then sends it to the backend.
func (s *CoherenceStore) SaveOptions(ctx context.Context, patch map[string]any) bool {
	raw, err := json.Marshal(patch)
	if err != nil {
		s.log.Error("coherence options encode failed", zap.Error(err))
		return false
	}

	s.mu.Lock()
	merged, err := overlayOptions(s.state.Options, raw)
	if err == nil {
		s.state.Options = merged
	}
	s.mu.Unlock()
	if err != nil {
		s.log.Error("invalid coherence options", zap.Error(err))
		return false
	}

	if err := s.api.SetCoherenceOptions(ctx, patch); err != nil {
		s.log.Warn("coherence options save failed", zap.String("error", apperrors.MessageOf(err)))
		return false
	}
	s.log.Debug("coherence options saved")
	return true
}

// UpdateOption sets one option locally. Check options take a bool,
// custom_exclusions a []string.
func (s *CoherenceStore) UpdateOption(key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if key == "custom_exclusions" {
		excl, ok := value.([]string)
		if !ok {
			return &application.ValidationError{Field: key, Message: fmt.Sprintf("expected a list of strings, got %T", value)}
		}
		s.state.Options.CustomExclusions = append([]string(nil), excl...)
		return nil
	}

	check := s.state.Options.Check(key)
	if check == nil {
		return &application.SettingError{Key: key, Reason: "no such coherence option"}
	}
	enabled, ok := value.(bool)
	if !ok {
		return &application.ValidationError{Field: key, Message: fmt.Sprintf("expected a bool, got %T", value)}
	}
	*check = enabled
	return nil
}

// ToggleAll enables or disables every check. Exclusions are kept.
func (s *CoherenceStore) ToggleAll(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Options.SetAll(enabled)
}

// QuickCheckFile checks one file, typically a freshly rebuilt script.
func (s *CoherenceStore) QuickCheckFile(ctx context.Context, path string) bool {
	return s.check(ctx, path, ProgressQuickCheck, ProgressQuickCheckDone, ProgressQuickCheckFailed)
}

// AnalyzeCoherence checks a file or folder.
func (s *CoherenceStore) AnalyzeCoherence(ctx context.Context, path string) bool {
	return s.check(ctx, path, ProgressAnalysis, ProgressAnalysisDone, ProgressAnalysisFailed)
}

func (s *CoherenceStore) check(ctx context.Context, path, running, done, failed string) bool {
	if strings.TrimSpace(path) == "" {
		s.log.Error("coherence check skipped", zap.Error(application.ErrEmptyPath))
		return false
	}

	s.mu.Lock()
	s.state.IsChecking = true
	s.state.Progress = running
	s.state.CurrentTarget = path
	s.state.LastError = ""
	s.mu.Unlock()

	s.log.Info("coherence check started", zap.String("path", path))
	result, err := s.api.CheckCoherence(ctx, path)
	if err != nil {
		msg := apperrors.MessageOf(err)
		progress := failed
		if !apperrors.HasCode(err, apperrors.CodeBackendRejected) {
			progress = ProgressCheckException
		}
		s.mu.Lock()
		s.state.IsChecking = false
		s.state.Progress = progress
		s.state.LastResult = nil
		s.state.LastError = msg
		s.failed++
		s.mu.Unlock()

		s.log.Error("coherence check failed", zap.String("path", path), zap.String("error", msg))
		publish(ctx, s.bus, s.log, domain.EventCoherenceFailed, domain.CoherenceOutcome{TargetPath: path, Error: msg})
		return false
	}

	s.mu.Lock()
	s.state.IsChecking = false
	s.state.Progress = done
	s.state.LastResult = result.Clone()
	s.state.LastError = ""
	s.successful++
	s.mu.Unlock()

	if result.Stats.TotalIssues == 0 {
		s.log.Info("coherence check clean", zap.String("path", path), zap.Int("files", result.Stats.FilesAnalyzed))
	} else {
		s.log.Info("coherence issues found",
			zap.String("path", path),
			zap.Int("files", result.Stats.FilesAnalyzed),
			zap.Int("issues", result.Stats.TotalIssues),
			zap.Int("types", result.DistinctIssueTypes()),
		)
	}

	if s.settings != nil && s.settings.Snapshot().AutoOpenings.Reports && result.RapportPath != "" {
		if err := s.api.OpenReport(ctx, result.RapportPath); err != nil {
			s.log.Warn("report auto-open failed", zap.String("path", result.RapportPath), zap.String("error", apperrors.MessageOf(err)))
		}
	}

	publish(ctx, s.bus, s.log, domain.EventCoherenceCompleted, domain.CoherenceOutcome{TargetPath: path, Result: result.Clone()})
	return true
}

// HandleReconstruction runs a quick check on a rebuilt script. It is
// subscribed to reconstruction.completed.
func (s *CoherenceStore) HandleReconstruction(ctx context.Context, e domain.Event) error {
	outcome, ok := e.Payload.(domain.ReconstructionOutcome)
	if !ok || outcome.Result == nil || outcome.Result.SavePath == "" {
		return nil
	}
	s.log.Info("checking rebuilt script", zap.String("path", outcome.Result.SavePath))
	s.QuickCheckFile(ctx, outcome.Result.SavePath)
	return nil
}

// OpenDetailedReport opens the report of the last check.
func (s *CoherenceStore) OpenDetailedReport(ctx context.Context) bool {
	s.mu.Lock()
	var report string
	if s.state.LastResult != nil {
		report = s.state.LastResult.RapportPath
	}
	s.mu.Unlock()

	if report == "" {
		return false
	}
	if err := s.api.OpenReport(ctx, report); err != nil {
		s.log.Warn("open report failed", zap.String("path", report), zap.String("error", apperrors.MessageOf(err)))
		return false
	}
	return true
}

// OpenReportsFolder opens the backend's reports folder.
func (s *CoherenceStore) OpenReportsFolder(ctx context.Context) bool {
	if err := s.api.OpenReportsFolder(ctx); err != nil {
		s.log.Warn("open reports folder failed", zap.String("error", apperrors.MessageOf(err)))
		return false
	}
	return true
}

// ResetState clears the last check. Options and statistics are kept.
func (s *CoherenceStore) ResetState() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.IsChecking = false
	s.state.Progress = ""
	s.state.LastResult = nil
	s.state.LastError = ""
	s.state.CurrentTarget = ""
}

// overlayOptions decodes raw on top of base; absent keys keep their value.
func overlayOptions(base domain.CoherenceOptions, raw []byte) (domain.CoherenceOptions, error) {
	out := base.Clone()
	if len(raw) == 0 || string(raw) == "null" {
		return out, nil
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return base, fmt.Errorf("decode coherence options: %w", err)
	}
	return out, nil
}
