package tui

import (
	"context"
	"errors"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"renextract/internal/adapters/tui/views"
	"renextract/internal/ports"
)

// ErrNotAttached is returned by Prompter before the program runs.
var ErrNotAttached = errors.New("tui: prompter not attached to a program")

// Prompter implements ports.Prompter by showing the prompt view and
// waiting for the answer.
type Prompter struct {
	mu   sync.Mutex
	send func(tea.Msg)
}

var _ ports.Prompter = (*Prompter)(nil)

// NewPrompter returns a prompter to attach once the program exists.
func NewPrompter() *Prompter {
	return &Prompter{}
}

// Attach routes prompts to p.
func (p *Prompter) Attach(prog *tea.Program) {
	p.AttachFunc(prog.Send)
}

// AttachFunc routes prompts through send.
func (p *Prompter) AttachFunc(send func(tea.Msg)) {
	p.mu.Lock()
	p.send = send
	p.mu.Unlock()
}

// PromptPath blocks until the user answers or ctx ends.
func (p *Prompter) PromptPath(ctx context.Context, message string) (string, error) {
	p.mu.Lock()
	send := p.send
	p.mu.Unlock()
	if send == nil {
		return "", ErrNotAttached
	}

	reply := make(chan string, 1)
	send(views.PromptPathMsg{Message: message, Reply: reply})

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case text := <-reply:
		return text, nil
	}
}
