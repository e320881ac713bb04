package application

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions
var (
	ErrEmptyPath      = errors.New("empty path")
	ErrNoProject      = errors.New("no project loaded")
	ErrNoExtraction   = errors.New("no extraction result")
	ErrNotLoaded      = errors.New("settings not loaded")
	ErrUnknownSetting = errors.New("unknown setting")
)

// ValidationError represents a validation failure with details
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// SettingError reports a settings patch that could not be applied
type SettingError struct {
	Key    string
	Reason string
}

func (e *SettingError) Error() string {
	return fmt.Sprintf("cannot set %s: %s", e.Key, e.Reason)
}

func (e *SettingError) Is(target error) bool {
	return target == ErrUnknownSetting
}
