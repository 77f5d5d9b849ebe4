package ws

import (
	"strconv"
	"sync"
	"testing"

	"github.com/coder/websocket"
)

func TestRegistry(t *testing.T) {
	t.Run("register and lookup", func(t *testing.T) {
		reg := NewRegistry()
		conn := &websocket.Conn{}

		reg.Register("alice", "sess-1", conn)
		if got := reg.GetActive("alice", "sess-1"); got != conn {
			t.Errorf("GetActive = %v, want %v", got, conn)
		}
		if got := reg.GetActive("alice", "sess-2"); got != nil {
			t.Errorf("GetActive for unknown session = %v, want nil", got)
		}
	})

	t.Run("unregister removes own conn", func(t *testing.T) {
		reg := NewRegistry()
		conn := &websocket.Conn{}

		reg.Register("alice", "sess-1", conn)
		reg.Unregister("alice", "sess-1", conn)
		if got := reg.GetActive("alice", "sess-1"); got != nil {
			t.Errorf("GetActive after unregister = %v, want nil", got)
		}
	})

	t.Run("stale unregister is a no-op", func(t *testing.T) {
		reg := NewRegistry()
		current := &websocket.Conn{}
		stale := &websocket.Conn{}

		reg.Register("alice", "sess-1", current)
		reg.Unregister("alice", "sess-1", stale)
		if got := reg.GetActive("alice", "sess-1"); got != current {
			t.Errorf("GetActive = %v, want current conn %v", got, current)
		}
	})

	t.Run("sessions are independent", func(t *testing.T) {
		reg := NewRegistry()
		conn1 := &websocket.Conn{}
		conn2 := &websocket.Conn{}

		reg.Register("alice", "sess-1", conn1)
		reg.Register("alice", "sess-2", conn2)
		reg.Unregister("alice", "sess-1", conn1)
		if got := reg.GetActive("alice", "sess-2"); got != conn2 {
			t.Errorf("GetActive = %v, want %v", got, conn2)
		}
	})
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	reg := NewRegistry()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			reg.Register("concurrentUser", "sess-"+strconv.Itoa(i), &websocket.Conn{})
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			reg.GetActive("concurrentUser", "sess-"+strconv.Itoa(i))
		}
	}()
	wg.Wait()
}
