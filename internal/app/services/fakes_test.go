package services_test

import (
	"context"

	"github.com/tripmate/tripmate/internal/app/models"
	"github.com/tripmate/tripmate/internal/pkg/websocket"
)

// Function-field doubles for the store interfaces. A nil field means the
// test does not expect that call.

type fakeTripStore struct {
	createFn       func(ctx context.Context, trip *models.Trip) error
	getByIDFn      func(ctx context.Context, id int64) (*models.Trip, error)
	listFn         func(ctx context.Context, fromCity, toCity *string, page, pageSize int) ([]*models.Trip, int64, error)
	joinFn         func(ctx context.Context, tripID, userID int64) (*models.Trip, error)
	leaveFn        func(ctx context.Context, tripID, userID int64) (*models.Trip, error)
	updateStatusFn func(ctx context.Context, tripID int64, status models.TripStatus) (*models.Trip, error)
	addCommentFn   func(ctx context.Context, comment *models.TripComment) error
	getCommentsFn  func(ctx context.Context, tripID int64) ([]*models.TripComment, error)
}

func (f *fakeTripStore) Create(ctx context.Context, trip *models.Trip) error {
	return f.createFn(ctx, trip)
}

func (f *fakeTripStore) GetByID(ctx context.Context, id int64) (*models.Trip, error) {
	return f.getByIDFn(ctx, id)
}

func (f *fakeTripStore) List(ctx context.Context, fromCity, toCity *string, page, pageSize int) ([]*models.Trip, int64, error) {
	return f.listFn(ctx, fromCity, toCity, page, pageSize)
}

func (f *fakeTripStore) Join(ctx context.Context, tripID, userID int64) (*models.Trip, error) {
	return f.joinFn(ctx, tripID, userID)
}

func (f *fakeTripStore) Leave(ctx context.Context, tripID, userID int64) (*models.Trip, error) {
	return f.leaveFn(ctx, tripID, userID)
}

func (f *fakeTripStore) UpdateStatus(ctx context.Context, tripID int64, status models.TripStatus) (*models.Trip, error) {
	return f.updateStatusFn(ctx, tripID, status)
}

func (f *fakeTripStore) AddComment(ctx context.Context, comment *models.TripComment) error {
	return f.addCommentFn(ctx, comment)
}

func (f *fakeTripStore) GetComments(ctx context.Context, tripID int64) ([]*models.TripComment, error) {
	return f.getCommentsFn(ctx, tripID)
}

type fakeRosterStore struct {
	getParticipantsFn   func(ctx context.Context, tripID int64) ([]*models.User, error)
	participantCountsFn func(ctx context.Context, tripIDs []int64) (map[int64]int, error)
}

func (f *fakeRosterStore) GetParticipantsByTripID(ctx context.Context, tripID int64) ([]*models.User, error) {
	return f.getParticipantsFn(ctx, tripID)
}

func (f *fakeRosterStore) GetParticipantCountsByTripIDs(ctx context.Context, tripIDs []int64) (map[int64]int, error) {
	return f.participantCountsFn(ctx, tripIDs)
}

type fakeUserStore struct {
	findByIDFn  func(ctx context.Context, id int64) (*models.User, error)
	existsFn    func(ctx context.Context, id int64) (bool, error)
	findByIDsFn func(ctx context.Context, ids []int64) (map[int64]*models.User, error)
}

func (f *fakeUserStore) FindByID(ctx context.Context, id int64) (*models.User, error) {
	return f.findByIDFn(ctx, id)
}

func (f *fakeUserStore) Exists(ctx context.Context, id int64) (bool, error) {
	return f.existsFn(ctx, id)
}

func (f *fakeUserStore) FindByIDs(ctx context.Context, ids []int64) (map[int64]*models.User, error) {
	return f.findByIDsFn(ctx, ids)
}

type fakeConversationStore struct {
	findOrCreateFn    func(ctx context.Context, userA, userB int64, relatedTripID *int64) (*models.Conversation, error)
	getByIDFn         func(ctx context.Context, id int64) (*models.Conversation, error)
	getMessagesFn     func(ctx context.Context, conversationID int64) ([]*models.Message, error)
	appendMessageFn   func(ctx context.Context, message *models.Message) error
	markReadFn        func(ctx context.Context, conversationID, readerID int64) (int64, error)
	countUnreadFn     func(ctx context.Context, conversationIDs []int64, readerID int64) (map[int64]int, error)
	listByUserFn      func(ctx context.Context, userID int64) ([]*models.Conversation, error)
	getLastMessagesFn func(ctx context.Context, conversationIDs []int64) (map[int64]*models.Message, error)
}

func (f *fakeConversationStore) FindOrCreate(ctx context.Context, userA, userB int64, relatedTripID *int64) (*models.Conversation, error) {
	return f.findOrCreateFn(ctx, userA, userB, relatedTripID)
}

func (f *fakeConversationStore) GetByID(ctx context.Context, id int64) (*models.Conversation, error) {
	return f.getByIDFn(ctx, id)
}

func (f *fakeConversationStore) GetMessages(ctx context.Context, conversationID int64) ([]*models.Message, error) {
	return f.getMessagesFn(ctx, conversationID)
}

func (f *fakeConversationStore) AppendMessage(ctx context.Context, message *models.Message) error {
	return f.appendMessageFn(ctx, message)
}

func (f *fakeConversationStore) MarkRead(ctx context.Context, conversationID, readerID int64) (int64, error) {
	return f.markReadFn(ctx, conversationID, readerID)
}

func (f *fakeConversationStore) CountUnread(ctx context.Context, conversationIDs []int64, readerID int64) (map[int64]int, error) {
	return f.countUnreadFn(ctx, conversationIDs, readerID)
}

func (f *fakeConversationStore) ListByUser(ctx context.Context, userID int64) ([]*models.Conversation, error) {
	return f.listByUserFn(ctx, userID)
}

func (f *fakeConversationStore) GetLastMessages(ctx context.Context, conversationIDs []int64) (map[int64]*models.Message, error) {
	return f.getLastMessagesFn(ctx, conversationIDs)
}

// fakeNotifier records every pushed event
type fakeNotifier struct {
	events []notifiedEvent
	online map[int64]bool
}

type notifiedEvent struct {
	userID int64
	event  *websocket.Event
}

func (f *fakeNotifier) Notify(userID int64, event *websocket.Event) {
	f.events = append(f.events, notifiedEvent{userID: userID, event: event})
}

func (f *fakeNotifier) IsOnline(userID int64) bool {
	return f.online[userID]
}
