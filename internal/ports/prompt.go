package ports

import "context"

// Prompter asks the user to type a path when no native picker exists.
type Prompter interface {
	// PromptPath shows message and returns the entered text. An empty
	// string means the user gave up.
	PromptPath(ctx context.Context, message string) (string, error)
}
