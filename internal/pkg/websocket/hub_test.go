package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(hub *Hub, userID int64) *Client {
	return &Client{
		hub:    hub,
		send:   make(chan []byte, 8),
		userID: userID,
		id:     uuid.New().String(),
		logger: zerolog.Nop(),
	}
}

func TestRegisterLatestConnectionWins(t *testing.T) {
	hub := NewHub(zerolog.Nop())

	first := newTestClient(hub, 5)
	second := newTestClient(hub, 5)

	hub.registerClient(first)
	hub.registerClient(second)

	assert.True(t, hub.IsOnline(5))
	assert.Equal(t, 1, hub.OnlineCount())
	assert.Same(t, second, hub.clients[5])

	// The superseded handle's send channel is closed
	_, open := <-first.send
	assert.False(t, open)
}

func TestUnregisterSupersededHandleIsNoOp(t *testing.T) {
	hub := NewHub(zerolog.Nop())

	first := newTestClient(hub, 5)
	second := newTestClient(hub, 5)

	hub.registerClient(first)
	hub.registerClient(second)

	// The old connection's read pump fires unregister as it dies; the
	// replacement must survive it.
	hub.unregisterClient(first)

	assert.True(t, hub.IsOnline(5))
	assert.Same(t, second, hub.clients[5])
}

func TestUnregisterRemovesLiveHandle(t *testing.T) {
	hub := NewHub(zerolog.Nop())

	client := newTestClient(hub, 5)
	hub.registerClient(client)
	hub.unregisterClient(client)

	assert.False(t, hub.IsOnline(5))

	_, open := <-client.send
	assert.False(t, open)
}

func TestNotifyDeliversToLiveConnection(t *testing.T) {
	hub := NewHub(zerolog.Nop())

	client := newTestClient(hub, 5)
	hub.registerClient(client)

	hub.Notify(5, &Event{Type: "message:new", SenderID: 3, Payload: json.RawMessage(`{"id":21}`)})

	require.Len(t, client.send, 1)

	var event Event
	require.NoError(t, json.Unmarshal(<-client.send, &event))
	assert.Equal(t, "message:new", event.Type)
	assert.Equal(t, int64(5), event.ReceiverID)
	assert.Equal(t, int64(3), event.SenderID)
	assert.False(t, event.Timestamp.IsZero())
}

func TestNotifyOfflineUserIsNoOp(t *testing.T) {
	hub := NewHub(zerolog.Nop())

	// Must not block or panic
	hub.Notify(42, &Event{Type: "message:new"})

	assert.False(t, hub.IsOnline(42))
}

func TestNotifyFullBufferDropsEvent(t *testing.T) {
	hub := NewHub(zerolog.Nop())

	client := &Client{
		hub:    hub,
		send:   make(chan []byte), // no buffer, nobody reading
		userID: 5,
		id:     uuid.New().String(),
		logger: zerolog.Nop(),
	}
	hub.registerClient(client)

	// Must not block
	hub.Notify(5, &Event{Type: "notify"})

	assert.True(t, hub.IsOnline(5))
}

func TestCloseDropsAllConnections(t *testing.T) {
	hub := NewHub(zerolog.Nop())

	a := newTestClient(hub, 1)
	b := newTestClient(hub, 2)
	hub.registerClient(a)
	hub.registerClient(b)

	hub.Close()

	assert.Zero(t, hub.OnlineCount())
}

func TestRegisterAndUnregisterAfterCloseDoNotBlock(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	go hub.Run()

	client := newTestClient(hub, 5)
	hub.registerClient(client)

	hub.Close()

	// A connection dying during shutdown fires these from its pumps; with
	// the run loop stopped they must still return.
	done := make(chan struct{})
	go func() {
		hub.Unregister(client)
		hub.Register(newTestClient(hub, 6))
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("hub calls blocked after shutdown")
	}
}
