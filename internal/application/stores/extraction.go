package stores

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"renextract/internal/application"
	"renextract/internal/domain"
	apperrors "renextract/internal/pkg/errors"
	"renextract/internal/ports"
)

// Extraction progress messages, in pipeline order.
const (
	ProgressExtractionInit    = "Initialisation de l'extraction..."
	ProgressExtractionBackup  = "Création de la sauvegarde de sécurité..."
	ProgressExtractionProtect = "Protection des codes et variables..."
	ProgressExtractionDone    = "Extraction terminée avec succès"
	ProgressExtractionFailed  = "Erreur lors de l'extraction"
)

// ExtractionBackend is what the extraction store calls.
type ExtractionBackend interface {
	ports.ExtractionAPI
	ports.BackupAPI
}

// ExtractionState is a snapshot of the extraction store.
type ExtractionState struct {
	IsExtracting   bool
	Progress       string
	ExtractionTime float64 // milliseconds
	LastResult     *domain.ExtractionResult
	LastError      string
	Settings       domain.ExtractionSettings
	Stats          domain.RunStats
}

// ExtractionStore runs extractions and keeps their results.
type ExtractionStore struct {
	api       ExtractionBackend
	settings  SettingsReader
	bus       *application.Bus
	log       *zap.Logger
	openDelay time.Duration

	mu         sync.Mutex
	state      ExtractionState
	successful int
	failed     int
}

// NewExtractionStore creates an idle extraction store.
func NewExtractionStore(api ExtractionBackend, settings SettingsReader, opts ...Option) *ExtractionStore {
	o := buildOptions(opts)
	return &ExtractionStore{
		api:       api,
		settings:  settings,
		bus:       o.bus,
		log:       o.log.Named("extraction"),
		openDelay: o.openDelay,
		state:     ExtractionState{Settings: domain.DefaultExtractionSettings()},
	}
}

// Snapshot returns a copy of the state.
func (s *ExtractionStore) Snapshot() ExtractionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state
	if st.LastResult != nil {
		r := *st.LastResult
		st.LastResult = &r
	}
	st.Stats = domain.NewRunStats(s.successful, s.failed)
	return st
}

// LastResult returns the result of the last extraction, nil if it failed.
func (s *ExtractionStore) LastResult() *domain.ExtractionResult {
	return s.Snapshot().LastResult
}

// Stats counts extractions since the last ResetStats.
func (s *ExtractionStore) Stats() domain.RunStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.NewRunStats(s.successful, s.failed)
}

// LoadSettings fetches the backend's extraction settings.
func (s *ExtractionStore) LoadSettings(ctx context.Context) bool {
	settings, err := s.api.ExtractionSettings(ctx)
	if err != nil {
		s.log.Warn("extraction settings load failed", zap.String("error", apperrors.MessageOf(err)))
		return false
	}
	s.mu.Lock()
	s.state.Settings = *settings
	s.mu.Unlock()
	return true
}

// UpdateSettings sends a partial update and applies it once accepted.
func (s *ExtractionStore) UpdateSettings(ctx context.Context, patch domain.ExtractionSettingsPatch) bool {
	if err := s.api.SetExtractionSettings(ctx, patch); err != nil {
		s.log.Warn("extraction settings update failed", zap.String("error", apperrors.MessageOf(err)))
		return false
	}
	s.mu.Lock()
	s.state.Settings = patch.Apply(s.state.Settings)
	s.mu.Unlock()
	return true
}

// ValidateFile checks a script before extraction.
func (s *ExtractionStore) ValidateFile(ctx context.Context, path string) (bool, string) {
	check, err := s.api.ValidateExtractionFile(ctx, path)
	if err != nil {
		s.log.Warn("file validation failed", zap.String("path", path), zap.String("error", apperrors.MessageOf(err)))
		return false, apperrors.MessageOf(err)
	}
	return check.Valid, check.Message
}

// ExtractTexts backs the script up, then extracts its texts. A nil
// detectDuplicates uses the current settings. A failed backup does not
// stop the extraction.
func (s *ExtractionStore) ExtractTexts(ctx context.Context, content []string, path string, detectDuplicates *bool) bool {
	s.mu.Lock()
	detect := s.state.Settings.DetectDuplicates
	if detectDuplicates != nil {
		detect = *detectDuplicates
	}
	s.state.IsExtracting = true
	s.state.Progress = ProgressExtractionInit
	s.state.LastError = ""
	s.mu.Unlock()

	s.setProgress(ProgressExtractionBackup)
	backup, err := s.api.CreateBackup(ctx, path, domain.BackupSecurity, domain.PreExtractionBackupDescription)
	if err != nil {
		s.log.Warn("pre-extraction backup failed", zap.String("path", path), zap.String("error", apperrors.MessageOf(err)))
	} else {
		s.log.Info("pre-extraction backup created", zap.String("backup_path", backup.Path))
	}

	s.setProgress(ProgressExtractionProtect)
	resp, err := s.api.Extract(ctx, ports.ExtractRequest{
		FileContent:      content,
		FilePath:         path,
		DetectDuplicates: detect,
	})
	if err != nil {
		msg := apperrors.MessageOf(err)
		s.mu.Lock()
		s.state.IsExtracting = false
		s.state.Progress = ProgressExtractionFailed
		s.state.LastResult = nil
		s.state.LastError = msg
		s.failed++
		s.mu.Unlock()

		s.log.Error("extraction failed", zap.String("path", path), zap.String("error", msg))
		publish(ctx, s.bus, s.log, domain.EventExtractionFailed, domain.ExtractionOutcome{FilePath: path, Error: msg})
		return false
	}

	result := resp.Result
	s.mu.Lock()
	s.state.IsExtracting = false
	s.state.Progress = ProgressExtractionDone
	s.state.ExtractionTime = resp.ExtractionTime
	s.state.LastResult = &result
	s.state.LastError = ""
	s.successful++
	s.mu.Unlock()

	s.log.Info("extraction succeeded",
		zap.String("path", path),
		zap.String("summary", result.Summary()),
		zap.String("elapsed", domain.FormatElapsed(resp.ExtractionTime)),
	)

	if s.settings != nil && s.settings.Snapshot().AutoOpenings.Files {
		s.OpenExtractionFiles(ctx, result)
	}

	publish(ctx, s.bus, s.log, domain.EventExtractionCompleted, domain.ExtractionOutcome{
		FilePath:  path,
		Result:    &result,
		ElapsedMs: resp.ExtractionTime,
	})
	return true
}

// OpenExtractionFiles opens the files an extraction produced, one after
// the other. A file the backend refuses to open is skipped; a transport
// failure stops the sequence.
func (s *ExtractionStore) OpenExtractionFiles(ctx context.Context, result domain.ExtractionResult) {
	files := result.FilesToOpen()
	if len(files) == 0 {
		return
	}
	s.log.Info("opening extraction files", zap.Strings("files", files))
	for _, f := range files {
		if err := s.api.OpenFile(ctx, f, 0); err != nil {
			s.log.Warn("auto-open failed", zap.String("path", f), zap.String("error", apperrors.MessageOf(err)))
			if apperrors.HasCode(err, apperrors.CodeTransport) {
				return
			}
		}
		if !sleep(ctx, s.openDelay) {
			return
		}
	}
}

// OpenExtractionFile opens one file on the backend host.
func (s *ExtractionStore) OpenExtractionFile(ctx context.Context, path string) bool {
	if err := s.api.OpenFile(ctx, path, 0); err != nil {
		s.log.Warn("open file failed", zap.String("path", path), zap.String("error", apperrors.MessageOf(err)))
		return false
	}
	return true
}

// OpenOutputFolder opens the output folder of the last extraction.
func (s *ExtractionStore) OpenOutputFolder(ctx context.Context) bool {
	last := s.LastResult()
	if last == nil || last.OutputFolder == "" {
		return false
	}
	if err := s.api.OpenFolder(ctx, last.OutputFolder); err != nil {
		s.log.Warn("open folder failed", zap.String("path", last.OutputFolder), zap.String("error", apperrors.MessageOf(err)))
		return false
	}
	return true
}

// Reset clears the last run. Settings and statistics are kept.
func (s *ExtractionStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.IsExtracting = false
	s.state.Progress = ""
	s.state.LastResult = nil
	s.state.LastError = ""
	s.state.ExtractionTime = 0
}

// ResetStats zeroes the counters.
func (s *ExtractionStore) ResetStats() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.successful = 0
	s.failed = 0
}

func (s *ExtractionStore) setProgress(msg string) {
	s.mu.Lock()
	s.state.Progress = msg
	s.mu.Unlock()
}
