package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/ashureev/campus-concierge/internal/llm"
	"github.com/ashureev/campus-concierge/internal/memory"
	"github.com/ashureev/campus-concierge/internal/tools"
)

// Canonical agent names used by the router and the knowledge base.
const (
	NameOrientation = "OrientationAgent"
	NameTechSupport = "TechSupportAgent"
	NameProgress    = "ProgressAgent"
	NameFAQ         = "FAQAgent"
)

// deps are the shared dependencies of every leaf agent.
type deps struct {
	llm   llm.Client
	tools *tools.Toolset
	store *memory.Store
}

func (d deps) Healthy() bool {
	return d.llm.Available()
}

// username resolves the session's owning username.
func (d deps) username(sessionID string) (string, error) {
	sess, err := d.store.GetSession(sessionID)
	if err != nil {
		return "", fmt.Errorf("resolve session %q: %w", sessionID, err)
	}
	return sess.Username, nil
}

// Orientation answers onboarding questions. Students who already
// completed orientation get a fixed message; everyone else gets the model.
type Orientation struct {
	deps
}

// NewOrientation builds the orientation agent.
func NewOrientation(client llm.Client, ts *tools.Toolset, store *memory.Store) *Orientation {
	return &Orientation{deps{llm: client, tools: ts, store: store}}
}

func (a *Orientation) Name() string { return NameOrientation }

func (a *Orientation) Handle(ctx context.Context, sessionID, message string) (string, error) {
	username, err := a.username(sessionID)
	if err != nil {
		return "", err
	}
	rec := a.tools.StudentLookup(username)
	if rec.OrientationComplete() {
		if err := a.store.SetSessionField(sessionID, "orientation_done", true); err != nil {
			return "", fmt.Errorf("mark orientation done: %w", err)
		}
		return "You have completed the orientation. Check the Orientation module for your certificate.", nil
	}
	prompt := fmt.Sprintf("orientation steps for user %s: %s", username, message)
	return a.llm.Generate(ctx, prompt)
}

// TechSupport handles lockdown-browser, Office 365 and login topics, in
// that priority order. First matching substring wins.
type TechSupport struct {
	deps
}

// NewTechSupport builds the tech-support agent.
func NewTechSupport(client llm.Client, ts *tools.Toolset, store *memory.Store) *TechSupport {
	return &TechSupport{deps{llm: client, tools: ts, store: store}}
}

func (a *TechSupport) Name() string { return NameTechSupport }

func (a *TechSupport) Handle(ctx context.Context, _, message string) (string, error) {
	m := strings.ToLower(message)
	switch {
	case strings.Contains(m, "lockdown"), strings.Contains(m, "respondus"):
		return a.llm.Generate(ctx, "lockdown browser steps")
	case strings.Contains(m, "ms365"), strings.Contains(m, "office"):
		return a.tools.Search("ms365"), nil
	case strings.Contains(m, "can't login"), strings.Contains(m, "forgot password"):
		return "Try resetting your password via the college portal password reset flow. If that fails, contact helpdesk@example.com.", nil
	}
	return a.llm.Generate(ctx, message)
}

// Progress answers access-code and course-status questions.
type Progress struct {
	deps
}

// NewProgress builds the progress agent.
func NewProgress(client llm.Client, ts *tools.Toolset, store *memory.Store) *Progress {
	return &Progress{deps{llm: client, tools: ts, store: store}}
}

func (a *Progress) Name() string { return NameProgress }

func (a *Progress) Handle(ctx context.Context, sessionID, message string) (string, error) {
	m := strings.ToLower(message)
	if strings.Contains(m, "access code") {
		username, err := a.username(sessionID)
		if err != nil {
			return "", err
		}
		rec := a.tools.StudentLookup(username)
		if rec.AccessCode != "" {
			return fmt.Sprintf("Your access code: %s", rec.AccessCode), nil
		}
		return "No access code on file. Please verify username.", nil
	}
	for _, tok := range []string{"activated", "activate", "course status"} {
		if strings.Contains(m, tok) {
			return "I can check your course activation status if you give me the course name.", nil
		}
	}
	return a.llm.Generate(ctx, message)
}

// FAQ always delegates to the canned search tool.
type FAQ struct {
	deps
}

// NewFAQ builds the FAQ agent.
func NewFAQ(client llm.Client, ts *tools.Toolset, store *memory.Store) *FAQ {
	return &FAQ{deps{llm: client, tools: ts, store: store}}
}

func (a *FAQ) Name() string { return NameFAQ }

func (a *FAQ) Handle(_ context.Context, _, message string) (string, error) {
	answer := a.tools.Search(message)
	if answer == tools.NoSearchHit {
		// Record the miss so unanswered questions can be reviewed.
		if err := a.tools.LogEvent("faq_miss", message); err != nil {
			return "", fmt.Errorf("record faq miss: %w", err)
		}
	}
	return answer, nil
}
