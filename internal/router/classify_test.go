package router

import (
	"testing"

	"github.com/ashureev/campus-concierge/internal/agent"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		message string
		want    string
	}{
		{"I forgot my password", agent.NameTechSupport},
		{"what is the refund policy", agent.NameFAQ},
		{"how do I do the orientation?", agent.NameOrientation},
		{"I need my access code", agent.NameProgress},
		{"is my course activated yet", agent.NameProgress},
		{"the app crashed with a traceback", "ErrorAgent"},
		{"tell me a joke", agent.NameFAQ}, // default
		{"LockDown browser won't open", agent.NameTechSupport},
	}

	for _, tt := range tests {
		if got := Classify(tt.message); got != tt.want {
			t.Errorf("Classify(%q) = %q, want %q", tt.message, got, tt.want)
		}
	}
}

func TestLooksGeneric(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  bool
	}{
		{"empty", "", true},
		{"whitespace", "   ", true},
		{"stock phrase", "Happy to assist with anything about your course enrollment and onboarding, whichever works best for your specific learning situation and overall goals", true},
		{"short and specific still counts", "Your access code: AC-111", true},
		{"long and specific", "Download the LockDown Browser installer from the LMS Help link listed under resources, run the installer with administrator rights enabled, then log in to the browser using your LMS credentials before the scheduled exam window opens", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LooksGeneric(tt.reply, 20); got != tt.want {
				t.Errorf("LooksGeneric(%q) = %v, want %v", tt.reply, got, tt.want)
			}
		})
	}
}

func TestEvaluate(t *testing.T) {
	s := Evaluate("password reset help", "You should reset your password via the portal reset flow today")
	if s.Relevance != 40 {
		t.Errorf("Relevance = %d, want 40", s.Relevance)
	}
	if s.Correctness != 25 {
		t.Errorf("Correctness = %d, want 25", s.Correctness)
	}
	if s.Clarity != 15 {
		t.Errorf("Clarity = %d, want 15", s.Clarity)
	}
	if s.Total != 80 {
		t.Errorf("Total = %d, want 80", s.Total)
	}
}
