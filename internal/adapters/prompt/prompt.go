// Package prompt asks for paths on a terminal when the backend host has
// no native file dialog.
package prompt

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// Line reads one line of input per prompt.
type Line struct {
	in  *bufio.Reader
	out io.Writer
}

// NewLine returns a prompter reading from in and writing prompts to out.
func NewLine(in io.Reader, out io.Writer) *Line {
	return &Line{in: bufio.NewReader(in), out: out}
}

type lineResult struct {
	text string
	err  error
}

// PromptPath prints message and returns the next line without its line
// ending. EOF with no input returns an empty string.
func (p *Line) PromptPath(ctx context.Context, message string) (string, error) {
	if _, err := fmt.Fprintf(p.out, "%s\n> ", message); err != nil {
		return "", fmt.Errorf("write prompt: %w", err)
	}

	done := make(chan lineResult, 1)
	go func() {
		text, err := p.in.ReadString('\n')
		done <- lineResult{text: text, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		if r.err != nil && r.err != io.EOF {
			return "", fmt.Errorf("read path: %w", r.err)
		}
		return strings.TrimRight(r.text, "\r\n"), nil
	}
}
