package ports

import "os/exec"

// EditorOpener opens a loaded script in a local editor
type EditorOpener interface {
	// OpenFile opens the file and waits for the editor to exit
	OpenFile(path string) error

	// Command returns the editor process without starting it, for
	// bubbletea's ExecProcess
	Command(path string) (*exec.Cmd, error)
}
