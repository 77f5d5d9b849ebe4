package ws

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/ashureev/campus-concierge/internal/domain"
	"github.com/ashureev/campus-concierge/internal/memory"
	"github.com/ashureev/campus-concierge/internal/router"
	"github.com/ashureev/campus-concierge/internal/transcript"
	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
)

const routeTimeout = 60 * time.Second

// Handler serves the chat WebSocket: the same (sid, message) in,
// (agent, reply, fallback) out contract as the HTTP ask endpoint,
// including transcript logging for every turn.
type Handler struct {
	engine   *router.Engine
	store    *memory.Store
	registry *Registry
	log      transcript.Logger
	devMode  bool
}

// NewHandler creates the WebSocket chat handler. A nil transcript logger
// disables transcript output.
func NewHandler(engine *router.Engine, store *memory.Store, registry *Registry, log transcript.Logger, devMode bool) *Handler {
	if log == nil {
		log, _ = transcript.New(transcript.Config{}, nil)
	}
	return &Handler{engine: engine, store: store, registry: registry, log: log, devMode: devMode}
}

type inbound struct {
	SID     string `json:"sid"`
	Message string `json:"message"`
	Agent   string `json:"agent,omitempty"`
}

type outbound struct {
	OK           bool   `json:"ok"`
	Error        string `json:"error,omitempty"`
	Agent        string `json:"agent,omitempty"`
	Reply        string `json:"reply,omitempty"`
	FallbackUsed bool   `json:"fallback_used,omitempty"`
}

// logTurn records both sides of one exchange in the chat transcript.
func (h *Handler) logTurn(username, sid, message string, decision domain.RouteDecision) {
	h.log.Log(transcript.Event{
		Username:  username,
		SessionID: sid,
		Role:      domain.RoleUser,
		Content:   message,
		Meta:      map[string]any{"transport": "websocket"},
	})
	h.log.Log(transcript.Event{
		Username:  username,
		SessionID: sid,
		Role:      domain.RoleAssistant,
		Agent:     decision.Agent,
		Content:   decision.Reply,
		Meta: map[string]any{
			"transport":     "websocket",
			"fallback_used": decision.FallbackUsed,
		},
	})
}

// ServeHTTP upgrades the connection and answers chat messages until the
// peer disconnects.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	opts := &websocket.AcceptOptions{}
	if h.devMode {
		opts.InsecureSkipVerify = true
	}
	conn, err := websocket.Accept(w, r, opts)
	if err != nil {
		slog.Warn("WebSocket accept failed", "error", err)
		return
	}
	defer conn.CloseNow()

	sid := r.URL.Query().Get("sid")
	sess, err := h.store.GetSession(sid)
	if err != nil {
		_ = wsjson.Write(r.Context(), conn, outbound{Error: "unknown sid"})
		_ = conn.Close(websocket.StatusPolicyViolation, "unknown sid")
		return
	}

	h.registry.Register(sess.Username, sid, conn)
	defer h.registry.Unregister(sess.Username, sid, conn)

	for {
		var in inbound
		if err := wsjson.Read(r.Context(), conn, &in); err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
				return
			}
			if r.Context().Err() != nil {
				return
			}
			slog.Warn("WebSocket read failed", "sid", sid, "error", err)
			return
		}
		if in.SID == "" {
			in.SID = sid
		}
		if in.Message == "" {
			_ = wsjson.Write(r.Context(), conn, outbound{Error: "message required"})
			continue
		}

		ctx, cancel := context.WithTimeout(r.Context(), routeTimeout)
		decision, err := h.engine.Route(ctx, in.SID, in.Message, in.Agent)
		cancel()

		if errors.Is(err, memory.ErrSessionNotFound) {
			_ = wsjson.Write(r.Context(), conn, outbound{Error: "unknown sid"})
			continue
		}
		if err != nil {
			_ = wsjson.Write(r.Context(), conn, outbound{Error: "routing failed"})
			continue
		}

		h.logTurn(sess.Username, in.SID, in.Message, decision)

		if err := wsjson.Write(r.Context(), conn, outbound{
			OK:           true,
			Agent:        decision.Agent,
			Reply:        decision.Reply,
			FallbackUsed: decision.FallbackUsed,
		}); err != nil {
			slog.Warn("WebSocket write failed", "sid", sid, "error", err)
			return
		}
	}
}
