package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Theme values accepted by the backend.
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
	ThemeAuto  = "auto"
)

// Save modes for reconstruction.
const (
	SaveModeNewFile   = "new_file"
	SaveModeOverwrite = "overwrite"
)

// AppSettings mirrors the settings object the backend persists.
type AppSettings struct {
	Language          string `json:"language"`
	Theme             string `json:"theme"`
	DebugActive       bool   `json:"debugActive"`
	TranslatorFeature bool   `json:"translatorFeature"`

	AutoOpenings   AutoOpenings           `json:"autoOpenings"`
	ExternalTools  ExternalTools          `json:"externalTools"`
	Paths          Paths                  `json:"paths"`
	Folders        Folders                `json:"folders"`
	Extraction     ExtractionPreferences  `json:"extraction"`
	Reconstruction ReconstructionSettings `json:"reconstruction"`
	LastProject    *LastProject           `json:"lastProject,omitempty"`
}

// AutoOpenings toggles what the backend opens after each workflow.
type AutoOpenings struct {
	Files       bool `json:"files"`
	Folders     bool `json:"folders"`
	Reports     bool `json:"reports"`
	OutputField bool `json:"outputField"`
}

// ExternalTools names the user's preferred external programs.
type ExternalTools struct {
	TextEditor string `json:"textEditor"`
	Translator string `json:"translator"`
}

// Paths holds the remembered filesystem locations.
type Paths struct {
	RenpySDK string `json:"renpySdk"`
	Editor   string `json:"editor"`
}

// Folders names the working directories the backend writes into.
type Folders struct {
	Temporary string `json:"temporary"`
	Reports   string `json:"reports"`
	Backups   string `json:"backups"`
	Configs   string `json:"configs"`
}

// ExtractionPreferences holds the placeholder format and file encoding.
type ExtractionPreferences struct {
	PlaceholderFormat string `json:"placeholderFormat"`
	Encoding          string `json:"encoding"`
}

// ReconstructionSettings holds reconstruction preferences.
type ReconstructionSettings struct {
	SaveMode string `json:"saveMode"`
}

// LastProject is what the client reopens on the next start.
type LastProject struct {
	Path     string      `json:"path"`
	Language string      `json:"language"`
	Mode     ProjectMode `json:"mode"`
}

// DefaultAppSettings returns the settings used until the backend answers.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Language: "fr",
		Theme:    ThemeDark,
		AutoOpenings: AutoOpenings{
			Files:   true,
			Folders: true,
		},
		ExternalTools: ExternalTools{TextEditor: "VS Code"},
		Folders: Folders{
			Temporary: "01_Temporary/",
			Reports:   "02_Reports/",
			Backups:   "03_Backups/",
			Configs:   "04_Configs/",
		},
		Extraction: ExtractionPreferences{
			PlaceholderFormat: "PLACEHOLDER_{n}",
			Encoding:          "UTF-8",
		},
		Reconstruction: ReconstructionSettings{SaveMode: SaveModeNewFile},
	}
}

// Clone returns a deep copy.
func (s AppSettings) Clone() AppSettings {
	if s.LastProject != nil {
		lp := *s.LastProject
		s.LastProject = &lp
	}
	return s
}

// EffectiveSaveMode returns the configured save mode, or new_file.
func (s AppSettings) EffectiveSaveMode() string {
	if s.Reconstruction.SaveMode == "" {
		return SaveModeNewFile
	}
	return s.Reconstruction.SaveMode
}

// MergeSettingsJSON overlays a backend settings document on base.
// Keys absent from data keep their base value.
func MergeSettingsJSON(base AppSettings, data []byte) (AppSettings, error) {
	merged := base.Clone()
	if len(data) == 0 || string(data) == "null" {
		return merged, nil
	}
	if err := json.Unmarshal(data, &merged); err != nil {
		return base, fmt.Errorf("decode settings: %w", err)
	}
	return merged, nil
}

// ErrUnknownSettingKey is returned by WithSetting for a path that does
// not name a settings field.
type ErrUnknownSettingKey struct {
	Key string
}

func (e *ErrUnknownSettingKey) Error() string {
	return fmt.Sprintf("unknown setting %q", e.Key)
}

// WithSetting returns a copy of s with the dotted key set to value,
// e.g. "autoOpenings.reports" or "paths". Objects are replaced, not
// merged, matching a shallow patch of that key.
func WithSetting(s AppSettings, key string, value any) (AppSettings, error) {
	parts := strings.Split(key, ".")
	for _, p := range parts {
		if p == "" {
			return s, &ErrUnknownSettingKey{Key: key}
		}
	}

	raw, err := json.Marshal(s)
	if err != nil {
		return s, err
	}
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return s, err
	}

	if !hasPath(doc, parts) && !isOptionalPath(parts) {
		return s, &ErrUnknownSettingKey{Key: key}
	}

	node := doc
	for _, p := range parts[:len(parts)-1] {
		child, ok := node[p].(map[string]any)
		if !ok {
			child = map[string]any{}
			node[p] = child
		}
		node = child
	}
	node[parts[len(parts)-1]] = value

	patched, err := json.Marshal(doc)
	if err != nil {
		return s, fmt.Errorf("encode %s: %w", key, err)
	}
	var out AppSettings
	if err := json.Unmarshal(patched, &out); err != nil {
		return s, fmt.Errorf("set %s: %w", key, err)
	}
	return out, nil
}

func hasPath(doc map[string]any, parts []string) bool {
	node := doc
	for i, p := range parts {
		v, ok := node[p]
		if !ok {
			return false
		}
		if i == len(parts)-1 {
			return true
		}
		child, ok := v.(map[string]any)
		if !ok {
			return false
		}
		node = child
	}
	return false
}

// lastProject is omitted while unset, so its keys never show up in the
// marshalled document.
func isOptionalPath(parts []string) bool {
	if parts[0] != "lastProject" {
		return false
	}
	if len(parts) == 1 {
		return true
	}
	switch parts[1] {
	case "path", "language", "mode":
		return len(parts) == 2
	}
	return false
}
