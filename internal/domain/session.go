// Package domain contains core domain types for the concierge application.
package domain

import (
	"time"
)

// Message roles stored in session history.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// MaxHistory is the number of history entries retained per session.
// Older entries are evicted on append.
const MaxHistory = 10

// Message is a single entry in a session's conversation history.
type Message struct {
	Role      string    `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"ts"`
}

// Session holds one user's conversation state.
// Sessions are owned by the memory store and mutated only through it.
type Session struct {
	ID        string         `json:"id"`
	Username  string         `json:"username"`
	History   []Message      `json:"history"`
	State     map[string]any `json:"state"`
	CreatedAt time.Time      `json:"created"`
	UpdatedAt time.Time      `json:"updated"`
}

// Append adds a message to the history, evicting the oldest entries
// beyond MaxHistory.
func (s *Session) Append(role, text string, ts time.Time) {
	s.History = append(s.History, Message{Role: role, Text: text, Timestamp: ts})
	if len(s.History) > MaxHistory {
		s.History = s.History[len(s.History)-MaxHistory:]
	}
	s.UpdatedAt = ts
}

// Recent returns the last n history entries.
func (s *Session) Recent(n int) []Message {
	if n <= 0 {
		return nil
	}
	if n >= len(s.History) {
		return s.History
	}
	return s.History[len(s.History)-n:]
}
