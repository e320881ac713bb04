package domain

// BackupType classifies why a backup was taken.
type BackupType string

const (
	BackupSecurity     BackupType = "security"
	BackupCleanup      BackupType = "cleanup"
	BackupRPABuild     BackupType = "rpa_build"
	BackupRealtimeEdit BackupType = "realtime_edit"
)

// PreExtractionBackupDescription labels the backup taken before every
// extraction.
const PreExtractionBackupDescription = "Sauvegarde avant extraction"

// Backup is an entry of the backend's backup list. Fields beyond these
// vary between backend versions and are kept in Extra.
type Backup struct {
	ID          string         `json:"id"`
	GameName    string         `json:"game_name"`
	FileName    string         `json:"file_name"`
	SourcePath  string         `json:"source_path"`
	BackupPath  string         `json:"backup_path"`
	Type        BackupType     `json:"type"`
	Description string         `json:"description"`
	CreatedAt   string         `json:"created"`
	Size        int64          `json:"size"`
	Extra       map[string]any `json:"-"`
}

// BackupFilter narrows GET /backup/list.
type BackupFilter struct {
	Game string
	Type BackupType
}

// CreatedBackup is the answer to a backup creation.
type CreatedBackup struct {
	ID   string `json:"backup_id"`
	Path string `json:"backup_path"`
}
