package transcript

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoggerWritesPerSessionNDJSON(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	logger, err := New(Config{
		Enabled:   true,
		Dir:       dir,
		QueueSize: 16,
	}, slog.Default())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer func() { _ = logger.Close() }()

	logger.Log(Event{
		Username:  "alice",
		SessionID: "sess-1",
		Role:      "user",
		Content:   "how can i start?",
	})

	path := filepath.Join(dir, "alice", "sess-1.ndjson")
	line := waitForLogLine(t, path)
	var got Event
	if err := json.Unmarshal([]byte(line), &got); err != nil {
		t.Fatalf("failed to unmarshal log line: %v", err)
	}
	if got.Content != "how can i start?" {
		t.Fatalf("unexpected Content: %q", got.Content)
	}
	if got.Timestamp == "" {
		t.Fatal("expected timestamp to be populated")
	}
}

func TestLoggerGlobalStream(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	global := filepath.Join(dir, "all.ndjson")
	logger, err := New(Config{
		Enabled:       true,
		Dir:           dir,
		GlobalEnabled: true,
		GlobalPath:    global,
		QueueSize:     16,
	}, slog.Default())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer func() { _ = logger.Close() }()

	logger.Log(Event{Username: "bob", SessionID: "s", Role: "assistant", Content: "hi"})

	if line := waitForLogLine(t, global); !strings.Contains(line, `"bob"`) {
		t.Fatalf("global stream missing event: %q", line)
	}
}

func TestScrubStripsControlCharacters(t *testing.T) {
	t.Parallel()

	raw := "\x1b[31merror\x1b[0m plain"
	clean := scrub(raw)
	if strings.Contains(clean, "\x1b") {
		t.Fatalf("expected escape bytes to be stripped: %q", clean)
	}
	if !strings.Contains(clean, "error") || !strings.Contains(clean, "plain") {
		t.Fatalf("expected readable text to remain: %q", clean)
	}
}

func TestDisabledLoggerIsNoop(t *testing.T) {
	t.Parallel()

	logger, err := New(Config{Enabled: false}, slog.Default())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	logger.Log(Event{SessionID: "s", Content: "ignored"})
	if err := logger.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
}

func waitForLogLine(t *testing.T, path string) string {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		data, err := os.ReadFile(path)
		if err == nil && len(data) > 0 {
			lines := strings.Split(strings.TrimSpace(string(data)), "\n")
			if len(lines) > 0 {
				return lines[len(lines)-1]
			}
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for log file %s", path)
	return ""
}
