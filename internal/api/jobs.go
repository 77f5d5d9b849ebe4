package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/ashureev/campus-concierge/internal/jobs"
	"github.com/go-chi/chi/v5"
)

type startJobRequest struct {
	Name string `json:"name"`
	// Seconds bounds the demo job's runtime.
	Seconds int `json:"seconds"`
}

// StartJob launches a demo background job and returns its id immediately.
// The body polls its pause token once per tick, so pause/resume actually
// suspend progress rather than only flipping a status flag.
func (h *Handler) StartJob(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, defaultMaxRequestBodySize)

	var req startJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		req.Name = "demo"
	}
	if req.Seconds <= 0 || req.Seconds > 300 {
		req.Seconds = 10
	}

	id := h.jobs.Start(req.Name, pulseJob(req.Seconds))
	JSON(w, http.StatusOK, map[string]any{"ok": true, "job_id": id, "status": string(jobs.StatusRunning)})
}

// pulseJob ticks once per second for the given duration, skipping ticks
// while paused.
func pulseJob(seconds int) jobs.Fn {
	return func(ctx context.Context, tok *jobs.Token) error {
		remaining := seconds
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for remaining > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
				if tok.Paused() {
					continue
				}
				remaining--
			}
		}
		return nil
	}
}

// JobStatus returns the job's current state; unknown ids report not_found.
func (h *Handler) JobStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	status := h.jobs.GetStatus(id)
	code := http.StatusOK
	if status == jobs.StatusNotFound {
		code = http.StatusNotFound
	}
	JSON(w, code, map[string]any{"ok": status != jobs.StatusNotFound, "job_id": id, "status": string(status)})
}

// PauseJob requests a cooperative pause.
func (h *Handler) PauseJob(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !h.jobs.Pause(id) {
		Error(w, http.StatusNotFound, "unknown job id")
		return
	}
	JSON(w, http.StatusOK, map[string]any{"ok": true, "job_id": id, "status": string(jobs.StatusPaused)})
}

// ResumeJob resumes a paused job.
func (h *Handler) ResumeJob(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !h.jobs.Resume(id) {
		Error(w, http.StatusNotFound, "job not paused or unknown")
		return
	}
	JSON(w, http.StatusOK, map[string]any{"ok": true, "job_id": id, "status": string(jobs.StatusRunning)})
}
