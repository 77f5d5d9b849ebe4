package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/ashureev/campus-concierge/internal/memory"
	"github.com/go-chi/chi/v5"
)

type startSessionRequest struct {
	Username string `json:"username"`
}

type startSessionResponse struct {
	OK      bool   `json:"ok"`
	SID     string `json:"sid"`
	History []any  `json:"history"`
}

// StartSession creates a new conversation session for a username.
func (h *Handler) StartSession(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, defaultMaxRequestBodySize)

	var req startSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" {
		Error(w, http.StatusBadRequest, "username required")
		return
	}

	sid, err := h.store.CreateSession(req.Username)
	if err != nil {
		Error(w, http.StatusInternalServerError, "failed to create session")
		return
	}

	JSON(w, http.StatusOK, startSessionResponse{OK: true, SID: sid, History: []any{}})
}

// SessionInfo returns the session's username and history. A `last` query
// parameter bounds the returned history to the most recent n entries;
// the messages count always reflects the full history.
func (h *Handler) SessionInfo(w http.ResponseWriter, r *http.Request) {
	sid := chi.URLParam(r, "sid")
	sess, err := h.store.GetSession(sid)
	if errors.Is(err, memory.ErrSessionNotFound) {
		Error(w, http.StatusNotFound, "unknown sid")
		return
	}
	if err != nil {
		Error(w, http.StatusInternalServerError, "failed to load session")
		return
	}

	history := sess.History
	if last, err := strconv.Atoi(r.URL.Query().Get("last")); err == nil && last > 0 {
		history = sess.Recent(last)
	}

	JSON(w, http.StatusOK, map[string]any{
		"ok":       true,
		"username": sess.Username,
		"history":  history,
		"messages": len(sess.History),
	})
}

// ExportSession returns the full session document as a JSON download.
func (h *Handler) ExportSession(w http.ResponseWriter, r *http.Request) {
	sid := chi.URLParam(r, "sid")
	sess, err := h.store.GetSession(sid)
	if errors.Is(err, memory.ErrSessionNotFound) {
		Error(w, http.StatusNotFound, "unknown sid")
		return
	}
	if err != nil {
		Error(w, http.StatusInternalServerError, "failed to load session")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="session_%s.json"`, sid))
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(sess); err != nil {
		Error(w, http.StatusInternalServerError, "failed to encode session")
	}
}
