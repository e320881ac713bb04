package stores

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"renextract/internal/application"
	"renextract/internal/domain"
	apperrors "renextract/internal/pkg/errors"
	"renextract/internal/ports"
)

// Reconstruction progress messages, in pipeline order.
const (
	ProgressReconstructionInit     = "Initialisation de la reconstruction..."
	ProgressReconstructionFix      = "Correction automatique des erreurs courantes..."
	ProgressReconstructionValidate = "Validation des fichiers de traduction..."
	ProgressReconstructionBuild    = "Reconstruction du fichier traduit..."
	ProgressReconstructionDone     = "Reconstruction terminée avec succès"
	ProgressReconstructionFailed   = "Erreur lors de la reconstruction"

	msgInvalidTranslationFiles = "Fichiers de traduction invalides"
)

// ReconstructionBackend is what the reconstruction store calls.
type ReconstructionBackend interface {
	ports.ReconstructionAPI
	OpenFile(ctx context.Context, filePath string, line int) error
}

// ExtractionResultSource exposes the last extraction result.
type ExtractionResultSource interface {
	LastResult() *domain.ExtractionResult
}

// ReconstructionState is a snapshot of the reconstruction store.
type ReconstructionState struct {
	IsReconstructing   bool
	Progress           string
	ReconstructionTime float64 // milliseconds
	LastResult         *domain.ReconstructionResult
	LastError          string
	LastValidation     *domain.ValidationResult
	Stats              domain.RunStats
}

// ReconstructionStore merges translated files back into scripts.
type ReconstructionStore struct {
	api        ReconstructionBackend
	extraction ExtractionResultSource
	history    ports.RunHistory
	settings   SettingsReader
	bus        *application.Bus
	log        *zap.Logger

	mu         sync.Mutex
	state      ReconstructionState
	successful int
	failed     int
}

// NewReconstructionStore creates an idle reconstruction store.
func NewReconstructionStore(api ReconstructionBackend, extraction ExtractionResultSource, settings SettingsReader, opts ...Option) *ReconstructionStore {
	o := buildOptions(opts)
	return &ReconstructionStore{
		api:        api,
		extraction: extraction,
		history:    o.history,
		settings:   settings,
		bus:        o.bus,
		log:        o.log.Named("reconstruction"),
	}
}

// Snapshot returns a copy of the state.
func (s *ReconstructionStore) Snapshot() ReconstructionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state
	if st.LastResult != nil {
		r := *st.LastResult
		st.LastResult = &r
	}
	st.LastValidation = st.LastValidation.Clone()
	st.Stats = domain.NewRunStats(s.successful, s.failed)
	return st
}

// Stats counts reconstructions since the last ResetStats.
func (s *ReconstructionStore) Stats() domain.RunStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.NewRunStats(s.successful, s.failed)
}

// FixTranslationErrors runs the automatic fixes on the translation files
// of path and returns the number of corrections. Failures count as zero.
func (s *ReconstructionStore) FixTranslationErrors(ctx context.Context, path string) int {
	total := 0
	for _, f := range domain.TranslationFiles(path) {
		n, err := s.api.FixTranslationErrors(ctx, f)
		if err != nil {
			s.log.Debug("fix-quotes skipped", zap.String("path", f), zap.String("error", apperrors.MessageOf(err)))
			continue
		}
		total += n
	}
	if total > 0 {
		s.log.Info("translation fixes applied", zap.Int("corrections", total))
	}
	return total
}

// ValidateFiles checks the translation files against the counts of the
// last extraction, falling back to the counts recorded in the history
// for path. Without either it returns false.
func (s *ReconstructionStore) ValidateFiles(ctx context.Context, path string) bool {
	last := s.lastExtraction(ctx, path)
	if last == nil {
		s.log.Error("validation skipped", zap.Error(application.ErrNoExtraction))
		return false
	}

	v, err := s.api.ValidateReconstruction(ctx, ports.ReconstructionValidationRequest{
		FilePath:       path,
		ExtractedCount: last.ExtractedCount,
		AsterixCount:   last.AsterixCount,
		TildeCount:     last.TildeCount,
	})
	if err != nil {
		s.log.Error("validation failed", zap.String("path", path), zap.String("error", apperrors.MessageOf(err)))
		return false
	}

	s.mu.Lock()
	s.state.LastValidation = v
	s.mu.Unlock()
	return v.OverallValid
}

func (s *ReconstructionStore) lastExtraction(ctx context.Context, path string) *domain.ExtractionResult {
	if s.extraction != nil {
		if last := s.extraction.LastResult(); last != nil {
			return last
		}
	}
	if s.history == nil {
		return nil
	}
	last, err := s.history.LastExtraction(ctx, path)
	if err != nil {
		s.log.Warn("recorded extraction lookup failed", zap.String("path", path), zap.Error(err))
		return nil
	}
	if last != nil {
		s.log.Debug("using recorded extraction counts", zap.String("path", path), zap.Int("extracted", last.ExtractedCount))
	}
	return last
}

// ReconstructFile fixes, validates and rebuilds the translated script.
// An empty saveMode uses the settings. Fix and validation failures are
// logged and do not stop the rebuild. On success the saved file is
// opened if enabled, then a completion event is published.
func (s *ReconstructionStore) ReconstructFile(ctx context.Context, content []string, path, saveMode string) bool {
	mode := saveMode
	if mode == "" && s.settings != nil {
		mode = s.settings.Snapshot().EffectiveSaveMode()
	}
	if mode == "" {
		mode = domain.SaveModeNewFile
	}
	s.log.Debug("reconstruction save mode", zap.String("save_mode", mode))

	s.mu.Lock()
	s.state.IsReconstructing = true
	s.state.Progress = ProgressReconstructionInit
	s.state.LastError = ""
	s.mu.Unlock()

	s.setProgress(ProgressReconstructionFix)
	s.FixTranslationErrors(ctx, path)

	s.setProgress(ProgressReconstructionValidate)
	if !s.ValidateFiles(ctx, path) {
		errs := []string{msgInvalidTranslationFiles}
		if v := s.Snapshot().LastValidation; v != nil && len(v.Summary.Errors) > 0 {
			errs = v.Summary.Errors
		}
		s.log.Warn("validation failed, rebuilding anyway", zap.Strings("errors", errs))
	}

	s.setProgress(ProgressReconstructionBuild)
	res, err := s.api.Reconstruct(ctx, content, path, mode)
	if err == nil && res.SavePath == "" {
		err = apperrors.Rejected("")
	}
	if err != nil {
		msg := apperrors.MessageOf(err)
		s.mu.Lock()
		s.state.IsReconstructing = false
		s.state.Progress = ProgressReconstructionFailed
		s.state.LastResult = nil
		s.state.LastValidation = nil
		s.state.LastError = msg
		s.failed++
		s.mu.Unlock()

		s.log.Error("reconstruction failed", zap.String("path", path), zap.String("error", msg))
		publish(ctx, s.bus, s.log, domain.EventReconstructionFailed, domain.ReconstructionOutcome{FilePath: path, Error: msg})
		return false
	}

	result := *res
	if result.SaveMode == "" {
		result.SaveMode = mode
	}
	s.mu.Lock()
	s.state.IsReconstructing = false
	s.state.Progress = ProgressReconstructionDone
	s.state.ReconstructionTime = result.ReconstructionTime
	s.state.LastResult = &result
	s.state.LastError = ""
	s.successful++
	s.mu.Unlock()

	s.log.Info("reconstruction succeeded", zap.String("save_path", result.SavePath), zap.String("save_mode", result.SaveMode))

	if s.settings != nil && s.settings.Snapshot().AutoOpenings.Files {
		s.OpenReconstructedFile(ctx)
	}

	publish(ctx, s.bus, s.log, domain.EventReconstructionCompleted, domain.ReconstructionOutcome{
		FilePath: path,
		Result:   &result,
	})
	return true
}

// OpenReconstructedFile opens the last saved file on the backend host.
func (s *ReconstructionStore) OpenReconstructedFile(ctx context.Context) bool {
	last := s.Snapshot().LastResult
	if last == nil || last.SavePath == "" {
		return false
	}
	if err := s.api.OpenFile(ctx, last.SavePath, 0); err != nil {
		s.log.Warn("open file failed", zap.String("path", last.SavePath), zap.String("error", apperrors.MessageOf(err)))
		return false
	}
	return true
}

// Reset clears the last run. Statistics are kept.
func (s *ReconstructionStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = ReconstructionState{}
}

// ResetStats zeroes the counters.
func (s *ReconstructionStore) ResetStats() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.successful = 0
	s.failed = 0
}

func (s *ReconstructionStore) setProgress(msg string) {
	s.mu.Lock()
	s.state.Progress = msg
	s.mu.Unlock()
}
