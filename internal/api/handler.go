// Package api provides HTTP handlers for the concierge API.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/ashureev/campus-concierge/internal/config"
	"github.com/ashureev/campus-concierge/internal/jobs"
	"github.com/ashureev/campus-concierge/internal/llm"
	"github.com/ashureev/campus-concierge/internal/memory"
	"github.com/ashureev/campus-concierge/internal/router"
	"github.com/ashureev/campus-concierge/internal/transcript"
	"github.com/go-chi/chi/v5"
)

const defaultMaxRequestBodySize = 64 * 1024

// Handler carries the dependencies shared by all API endpoints.
type Handler struct {
	engine *router.Engine
	store  *memory.Store
	jobs   *jobs.Manager
	client llm.Client
	log    transcript.Logger
	cfg    *config.Config
}

// NewHandler creates a Handler with its dependencies injected.
func NewHandler(engine *router.Engine, store *memory.Store, mgr *jobs.Manager, client llm.Client, log transcript.Logger, cfg *config.Config) *Handler {
	if log == nil {
		log = mustNoop()
	}
	return &Handler{
		engine: engine,
		store:  store,
		jobs:   mgr,
		client: client,
		log:    log,
		cfg:    cfg,
	}
}

func mustNoop() transcript.Logger {
	l, _ := transcript.New(transcript.Config{}, nil)
	return l
}

// RegisterRoutes mounts all API endpoints.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Post("/session", h.StartSession)
		r.Get("/session/{sid}", h.SessionInfo)
		r.Get("/session/{sid}/export", h.ExportSession)
		r.Post("/ask", h.Ask)
		r.Get("/agents", h.AgentsStatus)
		r.Get("/llm", h.LLMStatus)

		r.Post("/jobs", h.StartJob)
		r.Get("/jobs/{id}", h.JobStatus)
		r.Post("/jobs/{id}/pause", h.PauseJob)
		r.Post("/jobs/{id}/resume", h.ResumeJob)
	})
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}
