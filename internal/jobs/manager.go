// Package jobs provides the process-lifetime background job registry and
// the periodic-check loop primitive.
package jobs

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// Status is a job's lifecycle state.
type Status string

const (
	StatusRunning  Status = "running"
	StatusPaused   Status = "paused"
	StatusDone     Status = "done"
	StatusFailed   Status = "failed"
	StatusNotFound Status = "not_found"
)

// Token carries the cooperative pause flag into a job body. Pause only
// flips the flag; it never preempts the work. Job bodies that want
// pause/resume to mean anything must poll Paused at their own checkpoints.
type Token struct {
	paused atomic.Bool
}

// Paused reports whether a pause has been requested.
func (t *Token) Paused() bool { return t.paused.Load() }

// Fn is a job body. It receives the manager's base context and its own
// pause token.
type Fn func(ctx context.Context, tok *Token) error

type job struct {
	name   string
	status Status
	token  *Token
}

// Manager registers and tracks background jobs. The job table lives for
// the process only; nothing is persisted.
type Manager struct {
	mu   sync.Mutex
	jobs map[string]*job
	ctx  context.Context
}

// NewManager creates a job manager. Jobs run under ctx; canceling it is
// the only way to reach detached jobs after start.
func NewManager(ctx context.Context) *Manager {
	return &Manager{jobs: make(map[string]*job), ctx: ctx}
}

// Start registers a job, launches it detached and returns its id
// immediately. The manager never awaits completion.
func (m *Manager) Start(name string, fn Fn) string {
	id := uuid.NewString()
	j := &job{name: name, status: StatusRunning, token: &Token{}}

	m.mu.Lock()
	m.jobs[id] = j
	m.mu.Unlock()

	go func() {
		err := fn(m.ctx, j.token)

		m.mu.Lock()
		defer m.mu.Unlock()
		if err != nil {
			j.status = StatusFailed
			slog.Warn("Job failed", "job_id", id, "name", name, "error", err)
			return
		}
		j.status = StatusDone
	}()

	return id
}

// Pause requests a cooperative pause. Returns false for unknown ids.
func (m *Manager) Pause(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	j, ok := m.jobs[id]
	if !ok {
		return false
	}
	j.status = StatusPaused
	j.token.paused.Store(true)
	return true
}

// Resume flips a paused job back to running. Only valid from paused.
func (m *Manager) Resume(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	j, ok := m.jobs[id]
	if !ok || j.status != StatusPaused {
		return false
	}
	j.status = StatusRunning
	j.token.paused.Store(false)
	return true
}

// GetStatus returns the job's current state, or StatusNotFound.
func (m *Manager) GetStatus(id string) Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	j, ok := m.jobs[id]
	if !ok {
		return StatusNotFound
	}
	return j.status
}
