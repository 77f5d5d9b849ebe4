// Package transcript writes NDJSON chat transcripts, one file per
// session plus an optional global stream.
package transcript

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Event is one transcript line.
type Event struct {
	Timestamp string         `json:"ts"`
	Username  string         `json:"username"`
	SessionID string         `json:"session_id"`
	Role      string         `json:"role"`
	Agent     string         `json:"agent,omitempty"`
	Content   string         `json:"content"`
	Meta      map[string]any `json:"meta,omitempty"`
}

// Logger appends events asynchronously. Events are dropped (with a log
// line) when the queue is full rather than blocking request handling.
type Logger interface {
	Log(ev Event)
	Close() error
}

// Config controls transcript logging.
type Config struct {
	Enabled       bool
	Dir           string
	GlobalEnabled bool
	GlobalPath    string
	QueueSize     int
}

// New creates a transcript logger. A disabled config returns a no-op.
func New(cfg Config, logger *slog.Logger) (Logger, error) {
	if !cfg.Enabled {
		return noopLogger{}, nil
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 1000
	}
	if err := os.MkdirAll(cfg.Dir, 0755); err != nil {
		return nil, fmt.Errorf("create transcript directory: %w", err)
	}
	if cfg.GlobalEnabled {
		if err := os.MkdirAll(filepath.Dir(cfg.GlobalPath), 0755); err != nil {
			return nil, fmt.Errorf("create global transcript directory: %w", err)
		}
	}

	l := &fileLogger{
		cfg:    cfg,
		logger: logger,
		queue:  make(chan Event, cfg.QueueSize),
		done:   make(chan struct{}),
	}
	go l.drain()
	return l, nil
}

type fileLogger struct {
	cfg    Config
	logger *slog.Logger
	queue  chan Event
	done   chan struct{}

	closeOnce sync.Once
}

// Log enqueues an event, filling in the timestamp and scrubbing control
// characters from the content.
func (l *fileLogger) Log(ev Event) {
	if ev.Timestamp == "" {
		ev.Timestamp = time.Now().UTC().Format(time.RFC3339Nano)
	}
	ev.Content = scrub(ev.Content)

	select {
	case l.queue <- ev:
	default:
		l.logger.Warn("transcript queue full, dropping event",
			"session_id", ev.SessionID)
	}
}

func (l *fileLogger) drain() {
	defer close(l.done)
	for ev := range l.queue {
		l.write(ev)
	}
}

func (l *fileLogger) write(ev Event) {
	line, err := json.Marshal(ev)
	if err != nil {
		l.logger.Warn("failed to marshal transcript event", "error", err)
		return
	}
	line = append(line, '\n')

	user := ev.Username
	if user == "" {
		user = "unknown"
	}
	dir := filepath.Join(l.cfg.Dir, user)
	if err := os.MkdirAll(dir, 0755); err != nil {
		l.logger.Warn("failed to create transcript session dir", "error", err)
		return
	}
	path := filepath.Join(dir, ev.SessionID+".ndjson")
	if err := appendFile(path, line); err != nil {
		l.logger.Warn("failed to append transcript", "path", path, "error", err)
	}

	if l.cfg.GlobalEnabled {
		if err := appendFile(l.cfg.GlobalPath, line); err != nil {
			l.logger.Warn("failed to append global transcript", "error", err)
		}
	}
}

func appendFile(path string, line []byte) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.Write(line)
	return err
}

// Close stops the writer after draining queued events.
func (l *fileLogger) Close() error {
	l.closeOnce.Do(func() {
		close(l.queue)
	})
	select {
	case <-l.done:
	case <-time.After(2 * time.Second):
		l.logger.Warn("transcript logger close timed out")
	}
	return nil
}

// scrub removes control characters that make transcripts unreadable.
func scrub(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 0x20 && r != '\n' && r != '\t' {
			return -1
		}
		return r
	}, s)
}

type noopLogger struct{}

func (noopLogger) Log(Event)    {}
func (noopLogger) Close() error { return nil }
