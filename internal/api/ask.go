package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/ashureev/campus-concierge/internal/domain"
	"github.com/ashureev/campus-concierge/internal/memory"
	"github.com/ashureev/campus-concierge/internal/router"
	"github.com/ashureev/campus-concierge/internal/transcript"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

type askRequest struct {
	SID     string `json:"sid"`
	Message string `json:"message"`
	// Agent pins the request to a named agent. A pinned reply carries
	// explicit agent attribution, so the KB fallback never overrides it.
	Agent string `json:"agent,omitempty"`
}

type askResponse struct {
	OK            bool          `json:"ok"`
	Reply         string        `json:"reply"`
	Agent         string        `json:"agent"`
	FallbackUsed  bool          `json:"fallback_used"`
	MessagesCount int           `json:"messages_count"`
	Score         *router.Score `json:"score,omitempty"`
}

// Ask routes one message through the engine and returns the decision.
func (h *Handler) Ask(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, defaultMaxRequestBodySize)

	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.SID == "" {
		Error(w, http.StatusBadRequest, "sid required")
		return
	}
	if req.Message == "" {
		Error(w, http.StatusBadRequest, "message required")
		return
	}

	reqID := chiMiddleware.GetReqID(r.Context())
	slog.Info("Ask request", "sid", req.SID, "message_length", len(req.Message), "pinned_agent", req.Agent)

	decision, err := h.engine.Route(r.Context(), req.SID, req.Message, req.Agent)
	if errors.Is(err, memory.ErrSessionNotFound) {
		Error(w, http.StatusNotFound, "unknown sid")
		return
	}
	if err != nil {
		Error(w, http.StatusInternalServerError, "routing failed")
		return
	}

	sess, err := h.store.GetSession(req.SID)
	if err != nil {
		Error(w, http.StatusInternalServerError, "failed to load session")
		return
	}

	h.logTurn(sess.Username, req.SID, req.Message, decision, reqID)

	resp := askResponse{
		OK:            true,
		Reply:         decision.Reply,
		Agent:         decision.Agent,
		FallbackUsed:  decision.FallbackUsed,
		MessagesCount: len(sess.History),
	}
	if h.cfg != nil && h.cfg.IsDevelopment() {
		score := router.Evaluate(req.Message, decision.Reply)
		resp.Score = &score
	}

	JSON(w, http.StatusOK, resp)
}

func (h *Handler) logTurn(username, sid, message string, decision domain.RouteDecision, reqID string) {
	h.log.Log(transcript.Event{
		Username:  username,
		SessionID: sid,
		Role:      domain.RoleUser,
		Content:   message,
		Meta:      map[string]any{"request_id": reqID},
	})
	h.log.Log(transcript.Event{
		Username:  username,
		SessionID: sid,
		Role:      domain.RoleAssistant,
		Agent:     decision.Agent,
		Content:   decision.Reply,
		Meta: map[string]any{
			"request_id":    reqID,
			"fallback_used": decision.FallbackUsed,
		},
	})
}
