package llm

import (
	"context"
	"fmt"
	"strings"
)

// MockClient is a canned-response client used when no real backend is
// configured or as the recovery path when a real call fails.
type MockClient struct{}

// NewMock returns a mock client.
func NewMock() *MockClient { return &MockClient{} }

// Generate returns a canned answer keyed on prompt keywords.
func (m *MockClient) Generate(_ context.Context, prompt string) (string, error) {
	p := strings.ToLower(prompt)
	switch {
	case strings.Contains(p, "orientation"):
		return "Follow the LMS orientation module and complete the orientation steps.", nil
	case strings.Contains(p, "lockdown"):
		return "Install LockDown Browser and follow your course's exam instructions.", nil
	case strings.Contains(p, "ms365"), strings.Contains(p, "office"):
		return "Sign in at portal.office.com using your college email.", nil
	}
	return fmt.Sprintf("(Mock) No model is configured here. You asked: %s", prompt), nil
}

// Available always reports false: the mock is a stand-in, not a backend.
func (m *MockClient) Available() bool { return false }

// Model returns the mock identifier.
func (m *MockClient) Model() string { return "mock" }
