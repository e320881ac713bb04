package editor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"renextract/internal/domain"
)

type prefs domain.AppSettings

func (p prefs) Snapshot() domain.AppSettings { return domain.AppSettings(p) }

// fakeBin puts an executable named name on an otherwise empty PATH.
func fakeBin(t *testing.T, name string) string {
	t.Helper()
	dir := t.TempDir()
	bin := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(bin, []byte("#!/bin/sh\nexit 0\n"), 0o755))
	t.Setenv("PATH", dir)
	return bin
}

func TestOpener_Command(t *testing.T) {
	t.Run("explicit editor path wins", func(t *testing.T) {
		t.Setenv("EDITOR", "nano")
		s := domain.DefaultAppSettings()
		s.Paths.Editor = "/opt/editor/bin/ed"

		cmd, err := NewOpener(prefs(s)).Command("/g/script.rpy")
		require.NoError(t, err)
		assert.Equal(t, []string{"/opt/editor/bin/ed", "/g/script.rpy"}, cmd.Args)
	})

	t.Run("named editor with wait flag", func(t *testing.T) {
		bin := fakeBin(t, "code")
		t.Setenv("EDITOR", "nano")

		cmd, err := NewOpener(prefs(domain.DefaultAppSettings())).Command("/g/script.rpy")
		require.NoError(t, err)
		assert.Equal(t, []string{bin, "--wait", "/g/script.rpy"}, cmd.Args)
	})

	t.Run("named editor missing falls back to EDITOR", func(t *testing.T) {
		t.Setenv("PATH", t.TempDir())
		t.Setenv("EDITOR", "emacs -nw")

		cmd, err := NewOpener(prefs(domain.DefaultAppSettings())).Command("/g/script.rpy")
		require.NoError(t, err)
		assert.Equal(t, []string{"emacs", "-nw", "/g/script.rpy"}, cmd.Args)
	})

	t.Run("VISUAL without EDITOR", func(t *testing.T) {
		t.Setenv("PATH", t.TempDir())
		t.Setenv("EDITOR", "")
		t.Setenv("VISUAL", "micro")

		cmd, err := NewOpener(nil).Command("a.txt")
		require.NoError(t, err)
		assert.Equal(t, []string{"micro", "a.txt"}, cmd.Args)
	})

	t.Run("terminal fallback", func(t *testing.T) {
		bin := fakeBin(t, "vi")
		t.Setenv("EDITOR", "")
		t.Setenv("VISUAL", "")

		cmd, err := NewOpener(nil).Command("a.txt")
		require.NoError(t, err)
		assert.Equal(t, []string{bin, "a.txt"}, cmd.Args)
	})

	t.Run("nothing found", func(t *testing.T) {
		t.Setenv("PATH", t.TempDir())
		t.Setenv("EDITOR", "")
		t.Setenv("VISUAL", "")

		_, err := NewOpener(nil).Command("a.txt")
		assert.Error(t, err)
	})
}

func TestOpener_OpenFile(t *testing.T) {
	fakeBin(t, "vi")
	t.Setenv("EDITOR", "")
	t.Setenv("VISUAL", "")

	assert.NoError(t, NewOpener(nil).OpenFile(filepath.Join(t.TempDir(), "a.txt")))
}
