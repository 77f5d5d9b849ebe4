// Package ws provides the WebSocket chat transport.
package ws

import (
	"log/slog"
	"sync"

	"github.com/coder/websocket"
)

type connKey struct {
	username  string
	sessionID string
}

// Registry tracks the active chat socket per (username, session). At most
// one socket is live per key; registering a second one closes the first.
type Registry struct {
	mu    sync.RWMutex
	conns map[connKey]*websocket.Conn
}

// NewRegistry creates a connection registry.
func NewRegistry() *Registry {
	return &Registry{conns: make(map[connKey]*websocket.Conn)}
}

// GetActive returns the live socket for a username and session, or nil.
func (reg *Registry) GetActive(username, sessionID string) *websocket.Conn {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return reg.conns[connKey{username, sessionID}]
}

// Register stores conn as the live socket for the key, closing any
// previous socket it replaces.
func (reg *Registry) Register(username, sessionID string, conn *websocket.Conn) {
	key := connKey{username, sessionID}

	reg.mu.Lock()
	prev := reg.conns[key]
	reg.conns[key] = conn
	reg.mu.Unlock()

	if prev != nil && prev != conn {
		_ = prev.Close(websocket.StatusNormalClosure, "session replaced")
	}
	slog.Info("Chat socket registered", "username", username, "session_id", sessionID)
}

// Unregister drops conn from the registry. A socket that has already been
// replaced is left alone.
func (reg *Registry) Unregister(username, sessionID string, conn *websocket.Conn) {
	key := connKey{username, sessionID}

	reg.mu.Lock()
	defer reg.mu.Unlock()
	if reg.conns[key] == conn {
		delete(reg.conns, key)
		slog.Info("Chat socket unregistered", "username", username, "session_id", sessionID)
	}
}

// Close terminates and drops the live socket for a username and session.
// The session TTL sweep calls this so expired sessions do not keep a
// routable socket open.
func (reg *Registry) Close(username, sessionID string) {
	key := connKey{username, sessionID}

	reg.mu.Lock()
	conn := reg.conns[key]
	delete(reg.conns, key)
	reg.mu.Unlock()

	if conn == nil {
		return
	}
	_ = conn.Close(websocket.StatusNormalClosure, "session expired")
	slog.Info("Chat socket closed", "username", username, "session_id", sessionID)
}
