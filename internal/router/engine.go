package router

import (
	"context"
	"log/slog"

	"github.com/ashureev/campus-concierge/internal/agent"
	"github.com/ashureev/campus-concierge/internal/domain"
	"github.com/ashureev/campus-concierge/internal/kb"
	"github.com/ashureev/campus-concierge/internal/memory"
)

// apologyReply covers handler failures; the user never sees internal
// error text.
const apologyReply = "I'm sorry - something went wrong while handling your request."

// finalFallbackReply guarantees the caller always gets non-empty text
// even when every upstream layer produced nothing.
const finalFallbackReply = "Sorry - I couldn't find a direct answer. Please provide more details (e.g., username, course code)."

// Options tune the fallback heuristic.
type Options struct {
	// FuzzyCutoff is forwarded to the knowledge base at construction
	// time and recorded here for status reporting.
	FuzzyCutoff float64
	// GenericMaxWords is the word-count bound of the generic heuristic.
	GenericMaxWords int
}

// Engine routes messages to agents and applies the knowledge-base
// fallback. It is constructed once at startup and injected into every
// request handler; there is no lazily-built global.
type Engine struct {
	agents map[string]agent.Agent
	kb     *kb.KnowledgeBase
	store  *memory.Store
	opts   Options
}

// NewEngine builds a routing engine over the given agents. The map key
// is the canonical agent name the classifier produces.
func NewEngine(agents map[string]agent.Agent, base *kb.KnowledgeBase, store *memory.Store, opts Options) *Engine {
	if opts.GenericMaxWords <= 0 {
		opts.GenericMaxWords = 20
	}
	return &Engine{agents: agents, kb: base, store: store, opts: opts}
}

// Agent returns the named agent, or nil.
func (e *Engine) Agent(name string) agent.Agent {
	return e.agents[name]
}

// Agents returns the agent table for status reporting.
func (e *Engine) Agents() map[string]agent.Agent {
	return e.agents
}

// Opts returns the fallback options for status reporting.
func (e *Engine) Opts() Options {
	return e.opts
}

// Route classifies the message, invokes the chosen agent, and applies the
// fallback heuristic. pinnedAgent, when non-empty and known, carries
// explicit agent attribution: the named agent handles the message and the
// knowledge-base fallback must not override its reply.
//
// Both the user message and the final reply are appended to the session
// history. An unknown session id surfaces as memory.ErrSessionNotFound.
func (e *Engine) Route(ctx context.Context, sessionID, message, pinnedAgent string) (domain.RouteDecision, error) {
	if _, err := e.store.GetSession(sessionID); err != nil {
		return domain.RouteDecision{}, err
	}

	attributed := false
	name := Classify(message)
	if pinnedAgent != "" {
		if _, ok := e.agents[pinnedAgent]; ok {
			name = pinnedAgent
			attributed = true
		}
	}

	handler, ok := e.agents[name]
	if !ok {
		// Classifier picked a KB-only bucket (ErrorAgent); fall back to
		// the default handler but keep the name for the KB lookup.
		handler = e.agents[agent.NameFAQ]
	}

	if err := e.store.AppendHistory(sessionID, domain.RoleUser, message); err != nil {
		slog.Error("Failed to append user history", "session_id", sessionID, "error", err)
	}

	reply := e.invoke(ctx, handler, sessionID, message)

	decision := domain.RouteDecision{Agent: name, Reply: reply}

	// The KB fallback never overrides an agent-attributed reply.
	if !attributed && LooksGeneric(reply, e.opts.GenericMaxWords) {
		chosen := Classify(message)
		if answer, ok := e.kb.Match(chosen, message); ok {
			slog.Info("Generic reply replaced with local KB answer",
				"session_id", sessionID, "agent", chosen)
			decision.Agent = chosen
			decision.Reply = answer
			decision.FallbackUsed = true
		}
	}

	if decision.Reply == "" {
		if answer, ok := e.kb.Match(decision.Agent, message); ok {
			decision.Reply = answer
			decision.FallbackUsed = true
		}
	}
	if decision.Reply == "" {
		decision.Reply = finalFallbackReply
	}

	if err := e.store.AppendHistory(sessionID, domain.RoleAssistant, decision.Reply); err != nil {
		slog.Error("Failed to append assistant history", "session_id", sessionID, "error", err)
	}

	return decision, nil
}

// invoke runs the handler, converting any failure or panic into the
// generic apology string.
func (e *Engine) invoke(ctx context.Context, handler agent.Agent, sessionID, message string) (reply string) {
	if handler == nil {
		return ""
	}
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Agent handler panicked", "agent", handler.Name(), "panic", r)
			reply = apologyReply
		}
	}()

	out, err := handler.Handle(ctx, sessionID, message)
	if err != nil {
		slog.Error("Agent handler failed", "agent", handler.Name(), "error", err)
		return apologyReply
	}
	return out
}
