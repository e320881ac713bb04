package editor

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"renextract/internal/domain"
	"renextract/internal/ports"
)

// Preferences exposes the user's settings.
type Preferences interface {
	Snapshot() domain.AppSettings
}

// Opener implements ports.EditorOpener
type Opener struct {
	prefs Preferences
}

var _ ports.EditorOpener = (*Opener)(nil)

// NewOpener creates a new editor opener. prefs may be nil.
func NewOpener(prefs Preferences) *Opener {
	return &Opener{prefs: prefs}
}

// knownEditors maps externalTools.textEditor names to commands and the
// flags that make them block until the file is closed.
var knownEditors = map[string][]string{
	"vs code":      {"code", "--wait"},
	"vscode":       {"code", "--wait"},
	"sublime text": {"subl", "--wait"},
	"sublime":      {"subl", "--wait"},
	"notepad++":    {"notepad++", "-multiInst", "-nosession"},
	"atom":         {"atom", "--wait"},
	"vim":          {"vim"},
	"neovim":       {"nvim"},
	"nano":         {"nano"},
}

// OpenFile opens a file in the user's preferred editor and waits
func (o *Opener) OpenFile(path string) error {
	cmd, err := o.Command(path)
	if err != nil {
		return err
	}
	return cmd.Run()
}

// Command returns an exec.Cmd for opening a file in the editor.
// This is useful for integrating with bubbletea's ExecProcess
func (o *Opener) Command(path string) (*exec.Cmd, error) {
	argv := o.findEditor()
	if len(argv) == 0 {
		return nil, fmt.Errorf("no editor found: set paths.editor, externalTools.textEditor or $EDITOR")
	}

	cmd := exec.Command(argv[0], append(argv[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	return cmd, nil
}

// findEditor resolves, in order: the explicit editor path from
// settings, the named text editor if installed, $EDITOR, $VISUAL, then
// common terminal editors.
func (o *Opener) findEditor() []string {
	if o.prefs != nil {
		s := o.prefs.Snapshot()
		if p := strings.TrimSpace(s.Paths.Editor); p != "" {
			return []string{p}
		}
		name := strings.ToLower(strings.TrimSpace(s.ExternalTools.TextEditor))
		if argv, ok := knownEditors[name]; ok {
			if resolved, err := exec.LookPath(argv[0]); err == nil {
				return append([]string{resolved}, argv[1:]...)
			}
		}
	}

	if editor := os.Getenv("EDITOR"); editor != "" {
		return strings.Fields(editor)
	}
	if visual := os.Getenv("VISUAL"); visual != "" {
		return strings.Fields(visual)
	}

	for _, editor := range []string{"nvim", "vim", "vi", "nano"} {
		if path, err := exec.LookPath(editor); err == nil {
			return []string{path}
		}
	}
	return nil
}
