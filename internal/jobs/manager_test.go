package jobs

import (
	"context"
	"errors"
	"testing"
	"time"
)

func waitForStatus(t *testing.T, m *Manager, id string, want Status) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if m.GetStatus(id) == want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("Timed out waiting for status %q, last was %q", want, m.GetStatus(id))
}

func TestManager_StartReturnsImmediately(t *testing.T) {
	m := NewManager(context.Background())

	release := make(chan struct{})
	id := m.Start("blocked", func(ctx context.Context, tok *Token) error {
		<-release
		return nil
	})

	if id == "" {
		t.Fatal("Start must return a job id")
	}
	if got := m.GetStatus(id); got != StatusRunning {
		t.Fatalf("Status before completion = %q, want running", got)
	}

	close(release)
	waitForStatus(t, m, id, StatusDone)
}

func TestManager_FailureBecomesFailed(t *testing.T) {
	m := NewManager(context.Background())
	id := m.Start("boom", func(ctx context.Context, tok *Token) error {
		return errors.New("job exploded")
	})
	waitForStatus(t, m, id, StatusFailed)
}

func TestManager_UnknownID(t *testing.T) {
	m := NewManager(context.Background())
	if got := m.GetStatus("nope"); got != StatusNotFound {
		t.Errorf("Status = %q, want not_found", got)
	}
	if m.Pause("nope") {
		t.Error("Pause on unknown id must return false")
	}
	if m.Resume("nope") {
		t.Error("Resume on unknown id must return false")
	}
}

func TestManager_PauseResume(t *testing.T) {
	m := NewManager(context.Background())

	release := make(chan struct{})
	var token *Token
	started := make(chan struct{})
	id := m.Start("pausable", func(ctx context.Context, tok *Token) error {
		token = tok
		close(started)
		<-release
		return nil
	})
	<-started

	if !m.Pause(id) {
		t.Fatal("Pause failed")
	}
	if got := m.GetStatus(id); got != StatusPaused {
		t.Fatalf("Status = %q, want paused", got)
	}
	if !token.Paused() {
		t.Error("Pause must set the cooperative token flag")
	}

	// Resume is only valid from paused.
	if !m.Resume(id) {
		t.Fatal("Resume failed")
	}
	if got := m.GetStatus(id); got != StatusRunning {
		t.Fatalf("Status = %q, want running", got)
	}
	if token.Paused() {
		t.Error("Resume must clear the cooperative token flag")
	}
	if m.Resume(id) {
		t.Error("Resume from running must return false")
	}

	close(release)
	waitForStatus(t, m, id, StatusDone)
}
