package application

import (
	"fmt"
	"strings"

	"renextract/internal/domain"
)

// ValidateRequired checks if a string field is non-empty (after trimming whitespace).
// Returns a ValidationError if the field is empty.
func ValidateRequired(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		displayName := formatFieldName(fieldName)
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("%s is required", displayName),
		}
	}
	return nil
}

// formatFieldName converts field names to readable words for error
// messages (e.g., "filePath" -> "file path")
func formatFieldName(fieldName string) string {
	replacements := map[string]string{
		"filePath":    "file path",
		"projectPath": "project path",
		"targetPath":  "target path",
		"backupID":    "backup ID",
		"language":    "language",
		"key":         "setting key",
	}

	if formatted, ok := replacements[fieldName]; ok {
		return formatted
	}

	return fieldName
}

// ValidateScriptPath checks that a path names a Ren'Py script.
func ValidateScriptPath(fieldName, path string) error {
	if err := ValidateRequired(fieldName, path); err != nil {
		return err
	}
	if !strings.HasSuffix(strings.ToLower(strings.TrimSpace(path)), ".rpy") {
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("expected a .rpy script, got: %s", path),
		}
	}
	return nil
}

// ValidateSaveMode checks a reconstruction save mode. Empty is allowed and
// means the configured default.
func ValidateSaveMode(mode string) error {
	switch mode {
	case "", domain.SaveModeNewFile, domain.SaveModeOverwrite:
		return nil
	}
	return &ValidationError{
		Field:   "saveMode",
		Message: fmt.Sprintf("expected %s or %s, got: %s", domain.SaveModeNewFile, domain.SaveModeOverwrite, mode),
	}
}

// ValidateBackupType checks a backup type filter. Empty means all types.
func ValidateBackupType(t string) error {
	switch domain.BackupType(t) {
	case "", domain.BackupSecurity, domain.BackupCleanup, domain.BackupRPABuild, domain.BackupRealtimeEdit:
		return nil
	}
	return &ValidationError{
		Field:   "type",
		Message: fmt.Sprintf("unknown backup type: %s", t),
	}
}
