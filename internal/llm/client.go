// Package llm wraps the language-model backends used by agents.
package llm

import (
	"context"
)

// Client generates a response for a prompt. Implementations must not
// block indefinitely; callers pass a context with a deadline.
type Client interface {
	// Generate returns the model's response for prompt.
	Generate(ctx context.Context, prompt string) (string, error)

	// Available reports whether the backend can actually serve requests.
	Available() bool

	// Model returns the model identifier, for status reporting.
	Model() string
}
