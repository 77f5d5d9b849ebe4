// Package memory provides the file-backed session and key-value store.
//
// The whole store is a single JSON document rewritten on every mutation.
// That is acceptable for demo traffic; durability is last-write-wins.
package memory

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/ashureev/campus-concierge/internal/domain"
)

// ErrSessionNotFound is returned for unknown session ids.
var ErrSessionNotFound = errors.New("session not found")

type fileData struct {
	Sessions map[string]*domain.Session `json:"sessions"`
	LongTerm map[string]any             `json:"long_term"`
	Globals  map[string]any             `json:"globals"`
}

// Store is a file-backed session store. All access is serialized by a
// single mutex so concurrent appends to the same session cannot corrupt
// its history.
type Store struct {
	mu   sync.Mutex
	path string
	data fileData
	now  func() time.Time
}

// Open loads the store from path, creating an empty document if the file
// does not exist.
func Open(path string) (*Store, error) {
	s := &Store{
		path: path,
		data: fileData{
			Sessions: make(map[string]*domain.Session),
			LongTerm: make(map[string]any),
			Globals:  make(map[string]any),
		},
		now: time.Now,
	}

	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("create memory directory: %w", err)
		}
		if err := s.flushLocked(); err != nil {
			return nil, err
		}
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read memory file: %w", err)
	}

	if err := json.Unmarshal(raw, &s.data); err != nil {
		return nil, fmt.Errorf("parse memory file: %w", err)
	}
	if s.data.Sessions == nil {
		s.data.Sessions = make(map[string]*domain.Session)
	}
	if s.data.LongTerm == nil {
		s.data.LongTerm = make(map[string]any)
	}
	if s.data.Globals == nil {
		s.data.Globals = make(map[string]any)
	}
	return s, nil
}

// flushLocked rewrites the backing file. Caller must hold mu.
// Writes go through a temp file and rename so a crash mid-write cannot
// leave a truncated document.
func (s *Store) flushLocked() error {
	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal memory: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0644); err != nil {
		return fmt.Errorf("write memory file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace memory file: %w", err)
	}
	return nil
}

// CreateSession registers a new session for username and returns its id.
func (s *Store) CreateSession(username string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	sid := fmt.Sprintf("sess_%s_%d", username, now.UnixNano())
	s.data.Sessions[sid] = &domain.Session{
		ID:        sid,
		Username:  username,
		History:   []domain.Message{},
		State:     make(map[string]any),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.flushLocked(); err != nil {
		delete(s.data.Sessions, sid)
		return "", err
	}
	return sid, nil
}

// GetSession returns a copy of the session, or ErrSessionNotFound.
func (s *Store) GetSession(sid string) (domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.data.Sessions[sid]
	if !ok {
		return domain.Session{}, ErrSessionNotFound
	}
	out := *sess
	out.History = append([]domain.Message(nil), sess.History...)
	return out, nil
}

// AppendHistory appends a message to the session history, keeping only the
// most recent entries.
func (s *Store) AppendHistory(sid, role, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.data.Sessions[sid]
	if !ok {
		return ErrSessionNotFound
	}
	sess.Append(role, text, s.now())
	return s.flushLocked()
}

// SetSessionField sets a key in the session's state mapping.
func (s *Store) SetSessionField(sid, key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.data.Sessions[sid]
	if !ok {
		return ErrSessionNotFound
	}
	sess.State[key] = value
	sess.UpdatedAt = s.now()
	return s.flushLocked()
}

// SetLongTerm stores a long-term memory entry.
func (s *Store) SetLongTerm(key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.LongTerm[key] = value
	return s.flushLocked()
}

// GetLongTerm returns a long-term memory entry, or nil if absent.
func (s *Store) GetLongTerm(key string) any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.LongTerm[key]
}

// SetGlobal stores an entry in the generic globals bag used by tools.
func (s *Store) SetGlobal(key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.Globals[key] = value
	return s.flushLocked()
}

// GetGlobal returns an entry from the globals bag, or nil if absent.
func (s *Store) GetGlobal(key string) any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.Globals[key]
}

// SweepExpired removes sessions idle longer than ttl and returns the
// dropped sessions so callers can release resources tied to them, such
// as live chat sockets.
func (s *Store) SweepExpired(ttl time.Duration) []domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	threshold := s.now().Add(-ttl)
	var removed []domain.Session
	for sid, sess := range s.data.Sessions {
		if sess.UpdatedAt.Before(threshold) {
			removed = append(removed, *sess)
			delete(s.data.Sessions, sid)
		}
	}
	if len(removed) > 0 {
		if err := s.flushLocked(); err != nil {
			slog.Warn("failed to flush after session sweep", "error", err)
		}
	}
	return removed
}

// SessionCount returns the number of live sessions.
func (s *Store) SessionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data.Sessions)
}
