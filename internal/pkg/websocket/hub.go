package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Hub is the presence registry. It tracks at most one live connection per
// user and routes events to whoever is online. Delivery is best effort;
// offline users are simply skipped.
type Hub struct {
	// Live connection per user id. A reconnect replaces the old handle.
	clients map[int64]*Client

	// Register requests from the clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	// Mutex for concurrent access to clients map
	mu sync.RWMutex

	// Logger for Hub operations
	logger zerolog.Logger

	done chan struct{}
}

// Event represents an event sent over WebSocket
type Event struct {
	// Type of event: "message:new", "notify", "send-notification"
	Type string `json:"type"`

	// User the event is addressed to
	ReceiverID int64 `json:"receiverId,omitempty"`

	// User who produced the event
	SenderID int64 `json:"senderId,omitempty"`

	// Event payload, opaque to the hub
	Payload json.RawMessage `json:"payload,omitempty"`

	// Timestamp when the event was produced
	Timestamp time.Time `json:"timestamp"`
}

// NewHub creates a new Hub instance
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[int64]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		logger:     logger,
		done:       make(chan struct{}),
	}
}

// Run starts the hub, handling client registrations and removals
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case <-h.done:
			return
		}
	}
}

// Register queues the client as its user's live handle. After Close the
// request is discarded instead of blocking on the stopped loop.
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
	}
}

// Unregister queues the removal of the client's handle. Safe to call after
// Close; a connection dying during shutdown must not hang its read pump.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Close stops the hub loop and drops every live connection
func (h *Hub) Close() {
	close(h.done)

	h.mu.Lock()
	defer h.mu.Unlock()
	for userID, client := range h.clients {
		close(client.send)
		delete(h.clients, userID)
	}
}

// registerClient installs the client as its user's live handle. An existing
// handle for the same user is superseded and its send channel closed, which
// terminates that connection's write pump.
func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if previous, ok := h.clients[client.userID]; ok {
		close(previous.send)
		h.logger.Debug().
			Int64("userID", client.userID).
			Str("connectionID", previous.id).
			Msg("Superseded previous connection")
	}
	h.clients[client.userID] = client

	h.logger.Info().
		Int64("userID", client.userID).
		Str("connectionID", client.id).
		Msg("Client registered")
}

// unregisterClient removes the client if it is still its user's live handle.
// A handle that was already superseded by a reconnect is left alone; its
// replacement owns the map entry now.
func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	current, ok := h.clients[client.userID]
	if !ok || current.id != client.id {
		return
	}

	delete(h.clients, client.userID)
	close(client.send)

	h.logger.Info().
		Int64("userID", client.userID).
		Str("connectionID", client.id).
		Msg("Client unregistered")
}

// Notify routes an event to userID's live connection, if any. The send never
// blocks; a receiver whose buffer is full loses the event.
func (h *Hub) Notify(userID int64, event *Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	event.ReceiverID = userID

	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Error().
			Err(err).
			Int64("userID", userID).
			Str("eventType", event.Type).
			Msg("Failed to marshal event")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	client, ok := h.clients[userID]
	if !ok {
		h.logger.Debug().
			Int64("userID", userID).
			Str("eventType", event.Type).
			Msg("Receiver offline, event dropped")
		return
	}

	select {
	case client.send <- data:
	default:
		h.logger.Warn().
			Int64("userID", userID).
			Str("connectionID", client.id).
			Msg("Send buffer full, event dropped")
	}
}

// IsOnline reports whether userID has a live connection
func (h *Hub) IsOnline(userID int64) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	_, ok := h.clients[userID]
	return ok
}

// OnlineCount returns the number of connected users
func (h *Hub) OnlineCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.clients)
}
