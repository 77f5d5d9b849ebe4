package llm

import (
	"context"
	"log/slog"
)

// FallbackClient wraps a primary client and recovers every failure with
// the mock. Agents built on it never see an LLM error: any call failure
// is logged and replaced with a canned answer.
type FallbackClient struct {
	primary Client
	mock    *MockClient
}

// WithFallback wraps primary so that failures degrade to mock answers.
// A nil primary yields a client that always answers from the mock.
func WithFallback(primary Client) *FallbackClient {
	return &FallbackClient{primary: primary, mock: NewMock()}
}

// Generate never returns an error: primary failures fall back to the mock.
func (f *FallbackClient) Generate(ctx context.Context, prompt string) (string, error) {
	if f.primary == nil || !f.primary.Available() {
		return f.mock.Generate(ctx, prompt)
	}
	resp, err := f.primary.Generate(ctx, prompt)
	if err != nil {
		slog.Warn("LLM call failed, using mock answer", "error", err)
		return f.mock.Generate(ctx, prompt)
	}
	return resp, nil
}

// Available reports whether the primary backend is usable.
func (f *FallbackClient) Available() bool {
	return f.primary != nil && f.primary.Available()
}

// Model returns the primary model id, or the mock id when degraded.
func (f *FallbackClient) Model() string {
	if f.Available() {
		return f.primary.Model()
	}
	return f.mock.Model()
}
