package stores

import (
	"context"
	"encoding/json"
	"sync"

	"renextract/internal/domain"
	apperrors "renextract/internal/pkg/errors"
	"renextract/internal/ports"
)

// fakeBackend records calls and answers from its fields. Nil funcs
// return zero values.
type fakeBackend struct {
	mu    sync.Mutex
	calls []string

	settingsDoc   json.RawMessage
	settingsErr   error
	savedSettings []domain.AppSettings

	validation  ports.ProjectValidation
	validateErr error
	rootPath    string
	rootErr     error
	summary     *domain.ProjectSummary
	languages   []domain.LanguageInfo
	files       []domain.FileInfo
	fileLines   []string
	loadErr     error
	setCurrent  []string
	projectSt   *domain.BackendProjectState

	backupErr    error
	extractResp  *ports.ExtractResponse
	extractErr   error
	extractReqs  []ports.ExtractRequest
	opened       []string
	openErrs     map[string]error
	fileCheckErr error
	extSettings  *domain.ExtractionSettings

	corrections    int
	validationRes  *domain.ValidationResult
	reconstructRes *domain.ReconstructionResult
	reconstructErr error
	validateReqs   []ports.ReconstructionValidationRequest
	saveModes      []string

	coherenceRes  *domain.CoherenceResult
	coherenceErr  error
	checked       []string
	optionsDoc    json.RawMessage
	savedOptions  []map[string]any
	openedReports []string
}

var _ ports.Backend = (*fakeBackend)(nil)

func (f *fakeBackend) record(call string) {
	f.mu.Lock()
	f.calls = append(f.calls, call)
	f.mu.Unlock()
}

func (f *fakeBackend) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeBackend) count(call string) int {
	n := 0
	for _, c := range f.Calls() {
		if c == call {
			n++
		}
	}
	return n
}

func (f *fakeBackend) GetSettings(_ context.Context) (json.RawMessage, error) {
	f.record("settings.get")
	return f.settingsDoc, f.settingsErr
}

func (f *fakeBackend) UpdateSettings(_ context.Context, s domain.AppSettings) error {
	f.record("settings.update")
	f.mu.Lock()
	f.savedSettings = append(f.savedSettings, s)
	f.mu.Unlock()
	return nil
}

func (f *fakeBackend) lastSaved() (domain.AppSettings, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.savedSettings) == 0 {
		return domain.AppSettings{}, 0
	}
	return f.savedSettings[len(f.savedSettings)-1], len(f.savedSettings)
}

func (f *fakeBackend) ValidateProject(_ context.Context, _ string) (ports.ProjectValidation, error) {
	f.record("project.validate")
	return f.validation, f.validateErr
}

func (f *fakeBackend) FindProjectRoot(_ context.Context, _ string, _ int) (string, error) {
	f.record("project.find-root")
	return f.rootPath, f.rootErr
}

func (f *fakeBackend) ProjectSummary(_ context.Context, _ string) (*domain.ProjectSummary, error) {
	f.record("project.summary")
	if f.summary == nil {
		return nil, apperrors.Rejected("no summary")
	}
	return f.summary, nil
}

func (f *fakeBackend) ScanLanguages(_ context.Context, _ string) ([]domain.LanguageInfo, error) {
	f.record("project.languages")
	return f.languages, nil
}

func (f *fakeBackend) ScanLanguageFiles(_ context.Context, _, _ string, _ []string) ([]domain.FileInfo, error) {
	f.record("project.files")
	return f.files, nil
}

func (f *fakeBackend) LoadFile(_ context.Context, path string) (*ports.FileContent, error) {
	f.record("project.load-file")
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return &ports.FileContent{Lines: f.fileLines, LineCount: len(f.fileLines), FilePath: path}, nil
}

func (f *fakeBackend) SetCurrentProject(_ context.Context, path string, mode domain.ProjectMode) error {
	f.record("project.set-current")
	f.mu.Lock()
	f.setCurrent = append(f.setCurrent, string(mode)+":"+path)
	f.mu.Unlock()
	return nil
}

func (f *fakeBackend) ProjectState(_ context.Context) (*domain.BackendProjectState, error) {
	f.record("project.state")
	if f.projectSt == nil {
		return nil, apperrors.Rejected("")
	}
	return f.projectSt, nil
}

func (f *fakeBackend) CreateBackup(_ context.Context, source string, _ domain.BackupType, _ string) (*domain.CreatedBackup, error) {
	f.record("backups.create")
	if f.backupErr != nil {
		return nil, f.backupErr
	}
	return &domain.CreatedBackup{ID: "b1", Path: source + ".bak"}, nil
}

func (f *fakeBackend) ListBackups(_ context.Context, _ domain.BackupFilter) ([]domain.Backup, error) {
	f.record("backups.list")
	return nil, nil
}

func (f *fakeBackend) RestoreBackup(_ context.Context, _ string) error {
	f.record("backups.restore")
	return nil
}

func (f *fakeBackend) RestoreBackupTo(_ context.Context, _, _ string) error {
	f.record("backups.restore-to")
	return nil
}

func (f *fakeBackend) DeleteBackup(_ context.Context, _ string) error {
	f.record("backups.delete")
	return nil
}

func (f *fakeBackend) Extract(_ context.Context, req ports.ExtractRequest) (*ports.ExtractResponse, error) {
	f.record("extraction.extract")
	f.mu.Lock()
	f.extractReqs = append(f.extractReqs, req)
	f.mu.Unlock()
	if f.extractErr != nil {
		return nil, f.extractErr
	}
	return f.extractResp, nil
}

func (f *fakeBackend) ValidateExtractionFile(_ context.Context, _ string) (ports.FileCheck, error) {
	f.record("extraction.validate-file")
	if f.fileCheckErr != nil {
		return ports.FileCheck{}, f.fileCheckErr
	}
	return ports.FileCheck{Valid: true, Message: "ok"}, nil
}

func (f *fakeBackend) ExtractionSettings(_ context.Context) (*domain.ExtractionSettings, error) {
	f.record("extraction.get-settings")
	if f.extSettings == nil {
		return nil, apperrors.Rejected("")
	}
	return f.extSettings, nil
}

func (f *fakeBackend) SetExtractionSettings(_ context.Context, _ domain.ExtractionSettingsPatch) error {
	f.record("extraction.set-settings")
	return nil
}

func (f *fakeBackend) OpenFile(_ context.Context, path string, _ int) error {
	f.record("extraction.open-file")
	f.mu.Lock()
	f.opened = append(f.opened, path)
	err := f.openErrs[path]
	f.mu.Unlock()
	return err
}

func (f *fakeBackend) OpenFolder(_ context.Context, _ string) error {
	f.record("extraction.open-folder")
	return nil
}

func (f *fakeBackend) FixTranslationErrors(_ context.Context, _ string) (int, error) {
	f.record("reconstruction.fix-quotes")
	return f.corrections, nil
}

func (f *fakeBackend) ValidateReconstruction(_ context.Context, req ports.ReconstructionValidationRequest) (*domain.ValidationResult, error) {
	f.record("reconstruction.validate")
	f.mu.Lock()
	f.validateReqs = append(f.validateReqs, req)
	f.mu.Unlock()
	if f.validationRes == nil {
		return nil, apperrors.Rejected("validation unavailable")
	}
	return f.validationRes, nil
}

func (f *fakeBackend) Reconstruct(_ context.Context, _ []string, _, saveMode string) (*domain.ReconstructionResult, error) {
	f.record("reconstruction.reconstruct")
	f.mu.Lock()
	f.saveModes = append(f.saveModes, saveMode)
	f.mu.Unlock()
	if f.reconstructErr != nil {
		return nil, f.reconstructErr
	}
	return f.reconstructRes, nil
}

func (f *fakeBackend) CheckCoherence(_ context.Context, target string) (*domain.CoherenceResult, error) {
	f.record("coherence.check")
	f.mu.Lock()
	f.checked = append(f.checked, target)
	f.mu.Unlock()
	if f.coherenceErr != nil {
		return nil, f.coherenceErr
	}
	return f.coherenceRes, nil
}

func (f *fakeBackend) CoherenceOptions(_ context.Context) (json.RawMessage, error) {
	f.record("coherence.options.get")
	return f.optionsDoc, nil
}

func (f *fakeBackend) SetCoherenceOptions(_ context.Context, patch map[string]any) error {
	f.record("coherence.options.set")
	f.mu.Lock()
	f.savedOptions = append(f.savedOptions, patch)
	f.mu.Unlock()
	return nil
}

func (f *fakeBackend) OpenReport(_ context.Context, path string) error {
	f.record("coherence.open-report")
	f.mu.Lock()
	f.openedReports = append(f.openedReports, path)
	f.mu.Unlock()
	return nil
}

func (f *fakeBackend) OpenReportsFolder(_ context.Context) error {
	f.record("coherence.open-folder")
	return nil
}

func (f *fakeBackend) OpenDialog(_ context.Context, _ ports.DialogRequest) (string, error) {
	f.record("dialog.open")
	return "", nil
}

func (f *fakeBackend) SaveDialog(_ context.Context, _ ports.DialogRequest) (string, error) {
	f.record("dialog.save")
	return "", nil
}

func (f *fakeBackend) Health(_ context.Context) (*ports.Health, error) {
	f.record("health")
	return &ports.Health{Status: "ok"}, nil
}

func (f *fakeBackend) CheckZenity(_ context.Context) (*ports.ZenityStatus, error) {
	f.record("system.check-zenity")
	return &ports.ZenityStatus{}, nil
}

func (f *fakeBackend) WSLInfo(_ context.Context) (map[string]any, error) {
	f.record("system.wsl-info")
	return map[string]any{}, nil
}

func (f *fakeBackend) Quit(_ context.Context) error {
	f.record("quit")
	return nil
}

// staticSettings is a settings reader/writer without a backend.
type staticSettings struct {
	mu sync.Mutex
	s  domain.AppSettings
}

func newStaticSettings(fn func(*domain.AppSettings)) *staticSettings {
	s := domain.DefaultAppSettings()
	if fn != nil {
		fn(&s)
	}
	return &staticSettings{s: s}
}

func (s *staticSettings) Snapshot() domain.AppSettings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.s.Clone()
}

func (s *staticSettings) Update(fn func(*domain.AppSettings)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.s)
}

// recordingHistory keeps records in memory.
type recordingHistory struct {
	mu   sync.Mutex
	recs []domain.RunRecord
}

func (h *recordingHistory) Record(_ context.Context, rec domain.RunRecord) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.recs = append(h.recs, rec)
	return nil
}

func (h *recordingHistory) Recent(_ context.Context, _ string, _ int) ([]domain.RunRecord, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]domain.RunRecord(nil), h.recs...), nil
}

func (h *recordingHistory) LastExtraction(_ context.Context, path string) (*domain.ExtractionResult, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i := len(h.recs) - 1; i >= 0; i-- {
		r := h.recs[i]
		if r.Kind == "extraction" && r.Success && r.Path == path {
			return &domain.ExtractionResult{ExtractedCount: r.ExtractedCount, AsterixCount: r.AsterixCount, TildeCount: r.TildeCount}, nil
		}
	}
	return nil, nil
}

func (h *recordingHistory) Close() error { return nil }
