package domain

// RouteDecision is the per-request outcome of routing a message.
// It is ephemeral: nothing beyond the session history it feeds survives it.
type RouteDecision struct {
	Agent        string `json:"agent"`
	Reply        string `json:"reply"`
	FallbackUsed bool   `json:"fallback_used"`
}
