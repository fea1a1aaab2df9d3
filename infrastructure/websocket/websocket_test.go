package websocket_test

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskmanager/domain/ports"
	"taskmanager/infrastructure/websocket"
)

type fakeConn struct {
	mu       sync.Mutex
	messages []websocket.Message
	failing  bool
	closed   bool
}

func (c *fakeConn) WriteJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failing {
		return errors.New("broken pipe")
	}
	c.messages = append(c.messages, v.(websocket.Message))
	return nil
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *fakeConn) received() []websocket.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]websocket.Message(nil), c.messages...)
}

func (c *fakeConn) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func startHub(t *testing.T) *websocket.Hub {
	t.Helper()
	hub := websocket.NewHub()
	go hub.Run()
	t.Cleanup(hub.Stop)
	return hub
}

func TestHub_RoomRouting(t *testing.T) {
	hub := startHub(t)

	global := &fakeConn{}
	roomA := &fakeConn{}
	roomB := &fakeConn{}
	hub.Register(global, "")
	hub.Register(roomA, websocket.TaskRoom("a"))
	hub.Register(roomB, websocket.TaskRoom("b"))
	require.Eventually(t, func() bool { return hub.ClientCount() == 3 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 1, hub.RoomClientCount(websocket.TaskRoom("a")))

	hub.Broadcast(websocket.TaskRoom("a"), websocket.Message{Type: "task.updated"})
	hub.Broadcast("", websocket.Message{Type: "task.deleted"})

	require.Eventually(t, func() bool { return len(global.received()) == 2 }, time.Second, 5*time.Millisecond)
	require.Eventually(t, func() bool { return len(roomA.received()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, "task:a", roomA.received()[0].Room)
	assert.Empty(t, roomB.received())
}

func TestHub_DropsFailingClients(t *testing.T) {
	hub := startHub(t)

	broken := &fakeConn{failing: true}
	hub.Register(broken, "")
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	hub.Broadcast("", websocket.Message{Type: "task.created"})
	require.Eventually(t, func() bool { return hub.ClientCount() == 0 }, time.Second, 5*time.Millisecond)
	assert.True(t, broken.isClosed())

	// unregistering an unknown connection is harmless
	hub.Unregister(&fakeConn{})
}

func TestHub_StopClosesClients(t *testing.T) {
	hub := websocket.NewHub()
	done := make(chan struct{})
	go func() {
		hub.Run()
		close(done)
	}()

	conn := &fakeConn{}
	hub.Register(conn, "")
	hub.Stop()
	hub.Stop()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("hub did not stop")
	}
	assert.True(t, conn.isClosed())

	// calls after Stop return instead of blocking
	hub.Register(&fakeConn{}, "")
	hub.Broadcast("", websocket.Message{})
}

func TestEventBroadcaster(t *testing.T) {
	hub := startHub(t)
	broadcaster := websocket.NewEventBroadcaster(hub)

	watcher := &fakeConn{}
	hub.Register(watcher, websocket.TaskRoom("42"))
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	payload, err := json.Marshal(ports.TaskEvent{Type: ports.EventTaskStatusChanged, TaskID: "42", Status: "Completado"})
	require.NoError(t, err)

	broadcaster.HandleNATSMessage("tasks.events.task.status_changed", []byte("not json"))
	broadcaster.HandleNATSMessage("tasks.events.task.status_changed", payload)

	require.Eventually(t, func() bool { return len(watcher.received()) == 1 }, time.Second, 5*time.Millisecond)
	msg := watcher.received()[0]
	assert.Equal(t, string(ports.EventTaskStatusChanged), msg.Type)
	event, ok := msg.Data.(*ports.TaskEvent)
	require.True(t, ok)
	assert.Equal(t, "Completado", event.Status)
}
