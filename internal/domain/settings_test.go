package domain

import (
	"errors"
	"testing"
)

func TestDefaultAppSettings(t *testing.T) {
	s := DefaultAppSettings()

	if s.Language != "fr" || s.Theme != ThemeDark {
		t.Errorf("language/theme = %s/%s, want fr/dark", s.Language, s.Theme)
	}
	if !s.AutoOpenings.Files || !s.AutoOpenings.Folders || s.AutoOpenings.Reports || s.AutoOpenings.OutputField {
		t.Errorf("unexpected autoOpenings defaults: %+v", s.AutoOpenings)
	}
	if s.Folders.Temporary != "01_Temporary/" || s.Folders.Configs != "04_Configs/" {
		t.Errorf("unexpected folders: %+v", s.Folders)
	}
	if s.EffectiveSaveMode() != SaveModeNewFile {
		t.Errorf("EffectiveSaveMode() = %s", s.EffectiveSaveMode())
	}
	if s.LastProject != nil {
		t.Error("lastProject should be unset")
	}
}

func TestMergeSettingsJSON(t *testing.T) {
	base := DefaultAppSettings()
	data := []byte(`{"theme":"light","autoOpenings":{"files":false,"folders":true,"reports":true,"outputField":false},
		"lastProject":{"path":"/games/vn","language":"french","mode":"project"}}`)

	got, err := MergeSettingsJSON(base, data)
	if err != nil {
		t.Fatalf("MergeSettingsJSON() error = %v", err)
	}
	if got.Theme != ThemeLight {
		t.Errorf("theme = %s", got.Theme)
	}
	if got.AutoOpenings.Files || !got.AutoOpenings.Reports {
		t.Errorf("autoOpenings = %+v", got.AutoOpenings)
	}
	if got.Language != "fr" {
		t.Errorf("absent key should keep default, got %q", got.Language)
	}
	if got.LastProject == nil || got.LastProject.Language != "french" {
		t.Errorf("lastProject = %+v", got.LastProject)
	}

	if _, err := MergeSettingsJSON(base, []byte(`{"theme":`)); err == nil {
		t.Error("expected decode error")
	}
	if same, err := MergeSettingsJSON(base, nil); err != nil || same.Theme != base.Theme {
		t.Errorf("empty data should keep base, err=%v", err)
	}
}

func TestWithSetting(t *testing.T) {
	base := DefaultAppSettings()

	tests := []struct {
		name    string
		key     string
		value   any
		check   func(AppSettings) bool
		wantErr bool
	}{
		{
			name:  "nested bool",
			key:   "autoOpenings.reports",
			value: true,
			check: func(s AppSettings) bool { return s.AutoOpenings.Reports },
		},
		{
			name:  "whole object",
			key:   "paths",
			value: Paths{RenpySDK: "/sdk", Editor: "/games/vn"},
			check: func(s AppSettings) bool { return s.Paths.Editor == "/games/vn" && s.Paths.RenpySDK == "/sdk" },
		},
		{
			name:  "unset optional object",
			key:   "lastProject",
			value: LastProject{Path: "/games/vn", Mode: ModeProject},
			check: func(s AppSettings) bool { return s.LastProject != nil && s.LastProject.Path == "/games/vn" },
		},
		{
			name:  "top-level scalar",
			key:   "theme",
			value: ThemeAuto,
			check: func(s AppSettings) bool { return s.Theme == ThemeAuto },
		},
		{name: "unknown key", key: "colour", value: "red", wantErr: true},
		{name: "unknown nested key", key: "paths.home", value: "/home", wantErr: true},
		{name: "empty segment", key: "paths.", value: "x", wantErr: true},
		{name: "wrong type", key: "autoOpenings.files", value: "yes", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := WithSetting(base, tt.key, tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("WithSetting(%q) error = %v, wantErr %v", tt.key, err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if !tt.check(got) {
				t.Errorf("WithSetting(%q) did not apply, got %+v", tt.key, got)
			}
		})
	}

	var unknown *ErrUnknownSettingKey
	_, err := WithSetting(base, "colour", 1)
	if !errors.As(err, &unknown) || unknown.Key != "colour" {
		t.Errorf("expected ErrUnknownSettingKey, got %v", err)
	}
}

func TestAppSettings_CloneIsDeep(t *testing.T) {
	s := DefaultAppSettings()
	s.LastProject = &LastProject{Path: "/a"}

	c := s.Clone()
	c.LastProject.Path = "/b"

	if s.LastProject.Path != "/a" {
		t.Error("clone shares lastProject")
	}
}
