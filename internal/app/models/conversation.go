package models

import "time"

// MaxMessageLength bounds the content of a single chat message
const MaxMessageLength = 1000

// Conversation represents the persisted message history between exactly two
// users. The pair is stored normalized (UserA < UserB) so that at most one
// conversation can exist per pair regardless of who made first contact.
type Conversation struct {
	ID            int64     `json:"id" db:"id"`
	UserA         int64     `json:"userA" db:"user_a"`
	UserB         int64     `json:"userB" db:"user_b"`
	RelatedTripID *int64    `json:"relatedTripId,omitempty" db:"related_trip_id"`
	LastActivity  time.Time `json:"lastActivity" db:"last_activity"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`

	// Related entities
	Messages []*Message `json:"messages,omitempty"`
}

// NormalizePair orders two user ids into the canonical (low, high) form
// used as the conversation's natural key.
func NormalizePair(a, b int64) (int64, int64) {
	if a > b {
		return b, a
	}
	return a, b
}

// HasParticipant reports whether userID is one of the two parties
func (c *Conversation) HasParticipant(userID int64) bool {
	return c.UserA == userID || c.UserB == userID
}

// Counterpart returns the other party's user id. The caller must be a
// participant.
func (c *Conversation) Counterpart(userID int64) int64 {
	if c.UserA == userID {
		return c.UserB
	}
	return c.UserA
}

// Message represents a single chat message. Messages are immutable once
// appended except for the Read flag, which only ever moves false -> true.
type Message struct {
	ID             int64     `json:"id" db:"id"`
	ConversationID int64     `json:"conversationId" db:"conversation_id"`
	SenderID       int64     `json:"senderId" db:"sender_id"`
	Content        string    `json:"content" db:"content"`
	Read           bool      `json:"read" db:"read"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`

	// Related entities
	Sender *User `json:"sender,omitempty"`
}

// ConversationSummary is the per-conversation digest shown in a user's inbox
type ConversationSummary struct {
	Conversation *Conversation `json:"conversation"`
	Counterpart  *User         `json:"counterpart"`
	LastMessage  *Message      `json:"lastMessage,omitempty"`
	UnreadCount  int           `json:"unreadCount"`
}
