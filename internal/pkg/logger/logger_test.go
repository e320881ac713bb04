package logger

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"go.uber.org/zap/zapcore"
)

func resetLogger() {
	global = nil
	once = sync.Once{}
}

func TestInit(t *testing.T) {
	tests := []struct {
		name      string
		opts      Options
		wantLevel zapcore.Level
		wantErr   bool
	}{
		{"json info", Options{Level: "info", Format: "json"}, zapcore.InfoLevel, false},
		{"console debug", Options{Level: "debug", Format: "console"}, zapcore.DebugLevel, false},
		{"empty level defaults to info", Options{}, zapcore.InfoLevel, false},
		{"invalid level", Options{Level: "loud"}, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetLogger()
			err := Init(tt.opts)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Init(%+v) error = %v, wantErr %v", tt.opts, err, tt.wantErr)
			}
			if !tt.wantErr && GetLevel() != tt.wantLevel {
				t.Errorf("GetLevel() = %v, want %v", GetLevel(), tt.wantLevel)
			}
		})
	}
}

func TestL_BeforeInitIsNop(t *testing.T) {
	resetLogger()
	// must not panic
	L().Info("ignored")
	Warn("ignored")
}

func TestInit_WritesToFile(t *testing.T) {
	resetLogger()
	path := filepath.Join(t.TempDir(), "renextract.log")

	if err := Init(Options{Level: "debug", Format: "json", File: path}); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	Named("settings").Info("settings synced")
	_ = Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), "settings synced") {
		t.Errorf("log file missing entry, got %q", string(data))
	}
}

func TestSetLevel(t *testing.T) {
	resetLogger()
	if err := Init(Options{Level: "info"}); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if err := SetLevel("warn"); err != nil {
		t.Fatalf("SetLevel() error = %v", err)
	}
	if GetLevel() != zapcore.WarnLevel {
		t.Errorf("GetLevel() = %v, want warn", GetLevel())
	}
	if err := SetLevel("nope"); err == nil {
		t.Error("SetLevel(nope) should fail")
	}
}
