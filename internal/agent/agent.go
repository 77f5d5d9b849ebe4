// Package agent implements the specialized support agents and their
// composition primitives.
package agent

import (
	"context"
)

// Agent is the single capability every handler variant implements.
type Agent interface {
	// Name returns the agent's canonical name (e.g. "FAQAgent").
	Name() string

	// Handle answers a message for a session. Leaf agents recover their
	// own tool/LLM failures and return user-safe text; an error here
	// means the agent could not run at all (e.g. unknown session), and
	// it is the caller's job to convert that into user-facing text.
	Handle(ctx context.Context, sessionID, message string) (string, error)
}

// HealthReporter is implemented by agents that can report whether their
// backing services are usable. Callers must type-assert explicitly; no
// reflective probing.
type HealthReporter interface {
	Healthy() bool
}

// Call invokes another agent on behalf of the current one. It exists to
// make agent-to-agent calls explicit at call sites.
func Call(ctx context.Context, a Agent, sessionID, message string) (string, error) {
	return a.Handle(ctx, sessionID, message)
}
