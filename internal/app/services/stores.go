package services

import (
	"context"

	"github.com/tripmate/tripmate/internal/app/models"
	"github.com/tripmate/tripmate/internal/pkg/websocket"
)

// TripStore is the persistence surface the trip service needs. The real
// implementation runs the roster state machine inside a locking transaction.
type TripStore interface {
	Create(ctx context.Context, trip *models.Trip) error
	GetByID(ctx context.Context, id int64) (*models.Trip, error)
	List(ctx context.Context, fromCity, toCity *string, page, pageSize int) ([]*models.Trip, int64, error)
	Join(ctx context.Context, tripID, userID int64) (*models.Trip, error)
	Leave(ctx context.Context, tripID, userID int64) (*models.Trip, error)
	UpdateStatus(ctx context.Context, tripID int64, status models.TripStatus) (*models.Trip, error)
	AddComment(ctx context.Context, comment *models.TripComment) error
	GetComments(ctx context.Context, tripID int64) ([]*models.TripComment, error)
}

// RosterStore serves read-only roster lookups
type RosterStore interface {
	GetParticipantsByTripID(ctx context.Context, tripID int64) ([]*models.User, error)
	GetParticipantCountsByTripIDs(ctx context.Context, tripIDs []int64) (map[int64]int, error)
}

// UserStore reads identity directory entries
type UserStore interface {
	FindByID(ctx context.Context, id int64) (*models.User, error)
	Exists(ctx context.Context, id int64) (bool, error)
	FindByIDs(ctx context.Context, ids []int64) (map[int64]*models.User, error)
}

// ConversationStore is the persistence surface the conversation service needs
type ConversationStore interface {
	FindOrCreate(ctx context.Context, userA, userB int64, relatedTripID *int64) (*models.Conversation, error)
	GetByID(ctx context.Context, id int64) (*models.Conversation, error)
	GetMessages(ctx context.Context, conversationID int64) ([]*models.Message, error)
	AppendMessage(ctx context.Context, message *models.Message) error
	MarkRead(ctx context.Context, conversationID, readerID int64) (int64, error)
	CountUnread(ctx context.Context, conversationIDs []int64, readerID int64) (map[int64]int, error)
	ListByUser(ctx context.Context, userID int64) ([]*models.Conversation, error)
	GetLastMessages(ctx context.Context, conversationIDs []int64) (map[int64]*models.Message, error)
}

// Notifier pushes events to connected users. The websocket hub satisfies it.
type Notifier interface {
	Notify(userID int64, event *websocket.Event)
	IsOnline(userID int64) bool
}
