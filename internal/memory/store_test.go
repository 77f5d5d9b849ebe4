package memory

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/ashureev/campus-concierge/internal/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "memory.json"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	return s
}

func TestStore_HistoryCappedToMostRecent(t *testing.T) {
	s := newTestStore(t)
	sid, err := s.CreateSession("alice")
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	const n = 25
	for i := 0; i < n; i++ {
		if err := s.AppendHistory(sid, domain.RoleUser, fmt.Sprintf("msg-%d", i)); err != nil {
			t.Fatalf("AppendHistory %d failed: %v", i, err)
		}
	}

	sess, err := s.GetSession(sid)
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if len(sess.History) != domain.MaxHistory {
		t.Fatalf("Expected %d entries, got %d", domain.MaxHistory, len(sess.History))
	}
	// Retained entries must be the most recent ones, in order.
	for i, msg := range sess.History {
		want := fmt.Sprintf("msg-%d", n-domain.MaxHistory+i)
		if msg.Text != want {
			t.Errorf("History[%d] = %q, want %q", i, msg.Text, want)
		}
	}
}

func TestStore_HistoryShorterThanCap(t *testing.T) {
	s := newTestStore(t)
	sid, _ := s.CreateSession("alice")

	for i := 0; i < 3; i++ {
		if err := s.AppendHistory(sid, domain.RoleUser, fmt.Sprintf("msg-%d", i)); err != nil {
			t.Fatalf("AppendHistory failed: %v", err)
		}
	}

	sess, _ := s.GetSession(sid)
	if len(sess.History) != 3 {
		t.Fatalf("Expected 3 entries, got %d", len(sess.History))
	}
}

func TestStore_UnknownSession(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.GetSession("nope"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("GetSession: expected ErrSessionNotFound, got %v", err)
	}
	if err := s.AppendHistory("nope", domain.RoleUser, "hi"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("AppendHistory: expected ErrSessionNotFound, got %v", err)
	}
	if err := s.SetSessionField("nope", "k", "v"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("SetSessionField: expected ErrSessionNotFound, got %v", err)
	}
}

func TestStore_ReloadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "memory.json")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	sid, _ := s.CreateSession("bob")
	if err := s.AppendHistory(sid, domain.RoleUser, "hello"); err != nil {
		t.Fatalf("AppendHistory failed: %v", err)
	}
	if err := s.SetSessionField(sid, "topic", "billing"); err != nil {
		t.Fatalf("SetSessionField failed: %v", err)
	}
	if err := s.SetGlobal("marker", "x"); err != nil {
		t.Fatalf("SetGlobal failed: %v", err)
	}

	reloaded, err := Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	sess, err := reloaded.GetSession(sid)
	if err != nil {
		t.Fatalf("GetSession after reload failed: %v", err)
	}
	if sess.Username != "bob" {
		t.Errorf("Username = %q, want bob", sess.Username)
	}
	if len(sess.History) != 1 || sess.History[0].Text != "hello" {
		t.Errorf("History not preserved: %+v", sess.History)
	}
	if sess.State["topic"] != "billing" {
		t.Errorf("State not preserved: %+v", sess.State)
	}
	if reloaded.GetGlobal("marker") != "x" {
		t.Errorf("Globals not preserved")
	}
}

func TestStore_ConcurrentAppendsSameSession(t *testing.T) {
	s := newTestStore(t)
	sid, _ := s.CreateSession("alice")

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = s.AppendHistory(sid, domain.RoleAssistant, fmt.Sprintf("r-%d", i))
		}(i)
	}
	wg.Wait()

	sess, err := s.GetSession(sid)
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if len(sess.History) != domain.MaxHistory {
		t.Fatalf("Expected capped history of %d, got %d", domain.MaxHistory, len(sess.History))
	}
}

func TestStore_SessionStateAndLongTerm(t *testing.T) {
	s := newTestStore(t)
	sid, err := s.CreateSession("alice")
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	if err := s.SetSessionField(sid, "orientation_done", true); err != nil {
		t.Fatalf("SetSessionField failed: %v", err)
	}
	sess, err := s.GetSession(sid)
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if sess.State["orientation_done"] != true {
		t.Errorf("Expected orientation_done=true, got %v", sess.State["orientation_done"])
	}

	if err := s.SetSessionField("missing", "k", "v"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound, got %v", err)
	}

	if err := s.SetLongTerm("preferred_name", "Ali"); err != nil {
		t.Fatalf("SetLongTerm failed: %v", err)
	}
	if got := s.GetLongTerm("preferred_name"); got != "Ali" {
		t.Errorf("Expected Ali, got %v", got)
	}
	if got := s.GetLongTerm("absent"); got != nil {
		t.Errorf("Expected nil for absent key, got %v", got)
	}
}

func TestStore_SweepExpired(t *testing.T) {
	s := newTestStore(t)

	old := time.Now().Add(-2 * time.Hour)
	s.now = func() time.Time { return old }
	stale, _ := s.CreateSession("stale")

	s.now = time.Now
	fresh, _ := s.CreateSession("fresh")

	removed := s.SweepExpired(time.Hour)
	if len(removed) != 1 {
		t.Fatalf("Expected 1 removed, got %d", len(removed))
	}
	if removed[0].ID != stale || removed[0].Username != "stale" {
		t.Errorf("Removed session = %q/%q, want %q/stale", removed[0].ID, removed[0].Username, stale)
	}
	if _, err := s.GetSession(stale); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Stale session should be gone, got err=%v", err)
	}
	if _, err := s.GetSession(fresh); err != nil {
		t.Errorf("Fresh session should survive, got err=%v", err)
	}
}
