package llm

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type flakyClient struct {
	available bool
	err       error
	reply     string
}

func (c *flakyClient) Generate(context.Context, string) (string, error) {
	return c.reply, c.err
}
func (c *flakyClient) Available() bool { return c.available }
func (c *flakyClient) Model() string   { return "flaky" }

func TestFallback_NilPrimaryUsesMock(t *testing.T) {
	c := WithFallback(nil)

	out, err := c.Generate(context.Background(), "orientation help")
	if err != nil {
		t.Fatalf("Generate must not fail: %v", err)
	}
	if !strings.Contains(out, "orientation") {
		t.Errorf("Expected canned orientation answer, got %q", out)
	}
	if c.Available() {
		t.Error("Available must be false without a primary")
	}
	if c.Model() != "mock" {
		t.Errorf("Model = %q, want mock", c.Model())
	}
}

func TestFallback_PrimaryErrorRecovered(t *testing.T) {
	c := WithFallback(&flakyClient{available: true, err: errors.New("api down")})

	out, err := c.Generate(context.Background(), "lockdown browser steps")
	if err != nil {
		t.Fatalf("Generate must recover primary failures: %v", err)
	}
	if !strings.Contains(out, "LockDown") {
		t.Errorf("Expected mock lockdown answer, got %q", out)
	}
}

func TestFallback_PrimarySuccessPassesThrough(t *testing.T) {
	c := WithFallback(&flakyClient{available: true, reply: "real answer"})

	out, err := c.Generate(context.Background(), "anything")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if out != "real answer" {
		t.Errorf("Got %q, want the primary's answer", out)
	}
	if c.Model() != "flaky" {
		t.Errorf("Model = %q, want flaky", c.Model())
	}
}

func TestMock_CannedAnswers(t *testing.T) {
	m := NewMock()

	tests := []struct {
		prompt string
		want   string
	}{
		{"orientation steps for user bob: help", "orientation"},
		{"lockdown browser steps", "LockDown"},
		{"how do I use ms365", "portal.office.com"},
		{"unrelated question", "(Mock)"},
	}
	for _, tt := range tests {
		out, err := m.Generate(context.Background(), tt.prompt)
		if err != nil {
			t.Fatalf("Generate(%q) failed: %v", tt.prompt, err)
		}
		if !strings.Contains(out, tt.want) {
			t.Errorf("Generate(%q) = %q, want substring %q", tt.prompt, out, tt.want)
		}
	}
}
