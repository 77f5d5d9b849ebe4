package jobs

import (
	"log/slog"
	"sync"
	"time"
)

// stopWait bounds how long Stop blocks waiting for the loop to observe
// the stop request.
const stopWait = time.Second

// Loop invokes a boolean check function at a fixed interval until the
// function returns false or panics. It backs periodic maintenance like
// the session TTL sweep.
type Loop struct {
	check    func() bool
	interval time.Duration

	mu     sync.Mutex
	stopCh chan struct{}
	doneCh chan struct{}
}

// NewLoop builds a loop over check with the given interval.
func NewLoop(check func() bool, interval time.Duration) *Loop {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &Loop{check: check, interval: interval}
}

// Start launches the loop. Calling Start while the loop is already
// running is a no-op: only one check cycle ever runs at a time.
func (l *Loop) Start() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.doneCh != nil {
		select {
		case <-l.doneCh:
			// previous cycle finished; fall through and restart
		default:
			return
		}
	}

	l.stopCh = make(chan struct{})
	l.doneCh = make(chan struct{})
	go l.run(l.stopCh, l.doneCh)
}

func (l *Loop) run(stopCh, doneCh chan struct{}) {
	defer close(doneCh)
	for {
		if !l.safeCheck() {
			return
		}
		select {
		case <-stopCh:
			return
		case <-time.After(l.interval):
		}
	}
}

// safeCheck treats a panic in the check function as a stop request.
func (l *Loop) safeCheck() (cont bool) {
	defer func() {
		if r := recover(); r != nil {
			slog.Warn("Loop check panicked, stopping", "panic", r)
			cont = false
		}
	}()
	return l.check()
}

// Stop requests termination and waits briefly for the loop to observe it.
// The wait is bounded; a check stuck past it is left to finish on its own.
func (l *Loop) Stop() {
	l.mu.Lock()
	stopCh, doneCh := l.stopCh, l.doneCh
	l.mu.Unlock()
	if stopCh == nil {
		return
	}

	select {
	case <-doneCh:
		return
	default:
	}

	// Close under the lock so concurrent Stop calls cannot double-close.
	l.mu.Lock()
	select {
	case <-stopCh:
	default:
		close(stopCh)
	}
	l.mu.Unlock()

	select {
	case <-doneCh:
	case <-time.After(stopWait):
		slog.Warn("Loop did not stop within bounded wait")
	}
}

// Running reports whether a check cycle is currently live.
func (l *Loop) Running() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.doneCh == nil {
		return false
	}
	select {
	case <-l.doneCh:
		return false
	default:
		return true
	}
}
