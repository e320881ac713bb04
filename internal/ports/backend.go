package ports

import (
	"context"
	"encoding/json"

	"renextract/internal/domain"
)

// SettingsAPI persists the application settings document.
type SettingsAPI interface {
	// GetSettings returns the raw settings document so callers can
	// overlay it on their defaults.
	GetSettings(ctx context.Context) (json.RawMessage, error)
	UpdateSettings(ctx context.Context, settings domain.AppSettings) error
}

// ProjectValidation is the verdict on a project path.
type ProjectValidation struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message"`
}

// FileContent is a script loaded by the backend.
type FileContent struct {
	Lines     []string
	LineCount int
	FilePath  string
}

// ProjectAPI scans projects and loads scripts.
type ProjectAPI interface {
	ValidateProject(ctx context.Context, projectPath string) (ProjectValidation, error)
	FindProjectRoot(ctx context.Context, subdirPath string, maxLevels int) (string, error)
	ProjectSummary(ctx context.Context, projectPath string) (*domain.ProjectSummary, error)
	ScanLanguages(ctx context.Context, projectPath string) ([]domain.LanguageInfo, error)
	ScanLanguageFiles(ctx context.Context, projectPath, language string, exclusions []string) ([]domain.FileInfo, error)
	LoadFile(ctx context.Context, filePath string) (*FileContent, error)
	SetCurrentProject(ctx context.Context, projectPath string, mode domain.ProjectMode) error
	ProjectState(ctx context.Context) (*domain.BackendProjectState, error)
}

// BackupAPI manages backups of the user's scripts.
type BackupAPI interface {
	CreateBackup(ctx context.Context, sourcePath string, backupType domain.BackupType, description string) (*domain.CreatedBackup, error)
	ListBackups(ctx context.Context, filter domain.BackupFilter) ([]domain.Backup, error)
	RestoreBackup(ctx context.Context, id string) error
	RestoreBackupTo(ctx context.Context, id, targetPath string) error
	DeleteBackup(ctx context.Context, id string) error
}

// ExtractRequest is the input of an extraction.
type ExtractRequest struct {
	FileContent      []string `json:"file_content"`
	FilePath         string   `json:"filepath"`
	DetectDuplicates bool     `json:"detect_duplicates"`
}

// ExtractResponse is the output of an extraction.
type ExtractResponse struct {
	Result         domain.ExtractionResult
	ExtractionTime float64 // milliseconds
}

// FileCheck is the verdict on a script before extraction.
type FileCheck struct {
	Valid    bool   `json:"valid"`
	Message  string `json:"message"`
	Size     int64  `json:"size,omitempty"`
	Filename string `json:"filename,omitempty"`
}

// ExtractionAPI runs extractions and opens their outputs.
type ExtractionAPI interface {
	Extract(ctx context.Context, req ExtractRequest) (*ExtractResponse, error)
	ValidateExtractionFile(ctx context.Context, filePath string) (FileCheck, error)
	ExtractionSettings(ctx context.Context) (*domain.ExtractionSettings, error)
	SetExtractionSettings(ctx context.Context, patch domain.ExtractionSettingsPatch) error
	// OpenFile opens a file on the backend host; line <= 0 means no line.
	OpenFile(ctx context.Context, filePath string, line int) error
	OpenFolder(ctx context.Context, folderPath string) error
}

// ReconstructionValidationRequest carries the counts of the prior
// extraction.
type ReconstructionValidationRequest struct {
	FilePath       string `json:"filepath"`
	ExtractedCount int    `json:"extracted_count"`
	AsterixCount   int    `json:"asterix_count"`
	TildeCount     int    `json:"tilde_count"`
}

// ReconstructionAPI merges translations back into scripts.
type ReconstructionAPI interface {
	FixTranslationErrors(ctx context.Context, filePath string) (int, error)
	ValidateReconstruction(ctx context.Context, req ReconstructionValidationRequest) (*domain.ValidationResult, error)
	Reconstruct(ctx context.Context, content []string, filePath, saveMode string) (*domain.ReconstructionResult, error)
}

// CoherenceAPI runs coherence checks.
type CoherenceAPI interface {
	CheckCoherence(ctx context.Context, targetPath string) (*domain.CoherenceResult, error)
	// CoherenceOptions returns the raw options document; absent keys
	// keep the caller's current values.
	CoherenceOptions(ctx context.Context) (json.RawMessage, error)
	SetCoherenceOptions(ctx context.Context, patch map[string]any) error
	OpenReport(ctx context.Context, reportPath string) error
	OpenReportsFolder(ctx context.Context) error
}

// DialogType selects the native picker.
type DialogType string

const (
	DialogFile   DialogType = "file"
	DialogFolder DialogType = "folder"
	DialogSave   DialogType = "save"
)

// FileType is a (description, pattern) pair such as ("Ren'Py", "*.rpy").
type FileType [2]string

// DialogRequest asks the backend for a native file or folder picker.
type DialogRequest struct {
	DialogType       DialogType `json:"dialog_type"`
	Title            string     `json:"title,omitempty"`
	InitialDir       string     `json:"initialdir,omitempty"`
	FileTypes        []FileType `json:"filetypes,omitempty"`
	InitialFile      string     `json:"initialfile,omitempty"`
	DefaultExtension string     `json:"defaultextension,omitempty"`
	MustExist        bool       `json:"must_exist,omitempty"`

	// Validate checks a manually entered path in WSL mode.
	Validate func(path string) bool `json:"-"`
}

// DialogAPI opens native pickers, falling back to manual entry.
type DialogAPI interface {
	OpenDialog(ctx context.Context, req DialogRequest) (string, error)
	SaveDialog(ctx context.Context, req DialogRequest) (string, error)
}

// Health is the answer of GET /health.
type Health struct {
	Status    string  `json:"status"`
	Message   string  `json:"message"`
	Timestamp float64 `json:"timestamp"`
}

// ZenityStatus tells whether the backend host has a GTK dialog helper.
type ZenityStatus struct {
	Available bool   `json:"available"`
	Version   string `json:"version,omitempty"`
	Message   string `json:"message"`
}

// SystemAPI covers health and host information.
type SystemAPI interface {
	Health(ctx context.Context) (*Health, error)
	CheckZenity(ctx context.Context) (*ZenityStatus, error)
	WSLInfo(ctx context.Context) (map[string]any, error)
	Quit(ctx context.Context) error
}

// Backend is the whole backend API.
type Backend interface {
	SettingsAPI
	ProjectAPI
	BackupAPI
	ExtractionAPI
	ReconstructionAPI
	CoherenceAPI
	DialogAPI
	SystemAPI
}
