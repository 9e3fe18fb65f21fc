package services_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tripmate/tripmate/internal/app/models"
	"github.com/tripmate/tripmate/internal/app/models/dto"
	"github.com/tripmate/tripmate/internal/app/services"
	"github.com/tripmate/tripmate/internal/pkg/apperrors"
)

func newConversationService(store *fakeConversationStore, userStore *fakeUserStore, notifier *fakeNotifier) services.ConversationService {
	return services.NewConversationService(store, userStore, notifier, zerolog.Nop())
}

// normalizingStore mimics the real repository: one conversation per pair,
// looked up by the normalized (low, high) key.
func normalizingStore() *fakeConversationStore {
	created := make(map[[2]int64]*models.Conversation)
	var nextID int64
	store := &fakeConversationStore{}
	store.findOrCreateFn = func(ctx context.Context, userA, userB int64, relatedTripID *int64) (*models.Conversation, error) {
		lo, hi := models.NormalizePair(userA, userB)
		key := [2]int64{lo, hi}
		if existing, ok := created[key]; ok {
			return existing, nil
		}
		nextID++
		conversation := &models.Conversation{ID: nextID, UserA: lo, UserB: hi, RelatedTripID: relatedTripID}
		created[key] = conversation
		return conversation, nil
	}
	store.getMessagesFn = func(ctx context.Context, conversationID int64) ([]*models.Message, error) {
		return nil, nil
	}
	return store
}

func TestGetOrStartConversationOrderIndependent(t *testing.T) {
	store := normalizingStore()
	svc := newConversationService(store, existingUsers(3, 7), &fakeNotifier{})

	first, err := svc.GetOrStartConversation(context.Background(), 3, 7, nil)
	require.NoError(t, err)

	second, err := svc.GetOrStartConversation(context.Background(), 7, 3, nil)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, int64(7), first.CounterpartID)
	assert.Equal(t, int64(3), second.CounterpartID)
}

func TestGetOrStartConversationRejectsSelf(t *testing.T) {
	svc := newConversationService(normalizingStore(), existingUsers(3), &fakeNotifier{})

	_, err := svc.GetOrStartConversation(context.Background(), 3, 3, nil)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestGetOrStartConversationUnknownCounterpart(t *testing.T) {
	svc := newConversationService(normalizingStore(), existingUsers(3), &fakeNotifier{})

	_, err := svc.GetOrStartConversation(context.Background(), 3, 99, nil)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestSendMessagePersistsThenNotifies(t *testing.T) {
	appended := false
	store := &fakeConversationStore{
		getByIDFn: func(ctx context.Context, id int64) (*models.Conversation, error) {
			return &models.Conversation{ID: id, UserA: 3, UserB: 7}, nil
		},
		appendMessageFn: func(ctx context.Context, message *models.Message) error {
			appended = true
			message.ID = 21
			message.CreatedAt = time.Now()
			return nil
		},
	}
	notifier := &fakeNotifier{}
	svc := newConversationService(store, existingUsers(3, 7), notifier)

	resp, err := svc.SendMessage(context.Background(), 1, 3, &dto.SendMessageRequest{Content: "see you at the station"})
	require.NoError(t, err)
	assert.Equal(t, int64(21), resp.ID)
	assert.False(t, resp.Read)

	assert.True(t, appended)
	require.Len(t, notifier.events, 1)
	assert.Equal(t, int64(7), notifier.events[0].userID)
	assert.Equal(t, "message:new", notifier.events[0].event.Type)
	assert.Equal(t, int64(3), notifier.events[0].event.SenderID)
}

func TestSendMessageRejectsOutsider(t *testing.T) {
	store := &fakeConversationStore{
		getByIDFn: func(ctx context.Context, id int64) (*models.Conversation, error) {
			return &models.Conversation{ID: id, UserA: 3, UserB: 7}, nil
		},
	}
	notifier := &fakeNotifier{}
	svc := newConversationService(store, existingUsers(3, 7, 9), notifier)

	_, err := svc.SendMessage(context.Background(), 1, 9, &dto.SendMessageRequest{Content: "hi"})
	assert.ErrorIs(t, err, apperrors.ErrNotConversationParty)
	assert.Empty(t, notifier.events)
}

func TestSendMessageRejectsOversizedContent(t *testing.T) {
	svc := newConversationService(&fakeConversationStore{}, existingUsers(3), &fakeNotifier{})

	long := make([]byte, models.MaxMessageLength+1)
	for i := range long {
		long[i] = 'a'
	}

	_, err := svc.SendMessage(context.Background(), 1, 3, &dto.SendMessageRequest{Content: string(long)})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestSendMessageCountsCharactersNotBytes(t *testing.T) {
	store := &fakeConversationStore{
		getByIDFn: func(ctx context.Context, id int64) (*models.Conversation, error) {
			return &models.Conversation{ID: id, UserA: 3, UserB: 7}, nil
		},
		appendMessageFn: func(ctx context.Context, message *models.Message) error {
			message.ID = 21
			message.CreatedAt = time.Now()
			return nil
		},
	}
	svc := newConversationService(store, existingUsers(3, 7), &fakeNotifier{})

	// 600 characters but 1200 bytes; must pass the 1000-character limit
	content := strings.Repeat("ş", 600)
	_, err := svc.SendMessage(context.Background(), 1, 3, &dto.SendMessageRequest{Content: content})
	require.NoError(t, err)

	_, err = svc.SendMessage(context.Background(), 1, 3, &dto.SendMessageRequest{
		Content: strings.Repeat("ş", models.MaxMessageLength+1),
	})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestMarkReadIdempotent(t *testing.T) {
	unread := int64(3)
	store := &fakeConversationStore{
		getByIDFn: func(ctx context.Context, id int64) (*models.Conversation, error) {
			return &models.Conversation{ID: id, UserA: 3, UserB: 7}, nil
		},
		markReadFn: func(ctx context.Context, conversationID, readerID int64) (int64, error) {
			updated := unread
			unread = 0
			return updated, nil
		},
	}
	svc := newConversationService(store, existingUsers(3, 7), &fakeNotifier{})

	updated, err := svc.MarkRead(context.Background(), 1, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(3), updated)

	updated, err = svc.MarkRead(context.Background(), 1, 7)
	require.NoError(t, err)
	assert.Zero(t, updated)
}

func TestMarkReadRejectsOutsider(t *testing.T) {
	store := &fakeConversationStore{
		getByIDFn: func(ctx context.Context, id int64) (*models.Conversation, error) {
			return &models.Conversation{ID: id, UserA: 3, UserB: 7}, nil
		},
	}
	svc := newConversationService(store, existingUsers(3, 7, 9), &fakeNotifier{})

	_, err := svc.MarkRead(context.Background(), 1, 9)
	assert.ErrorIs(t, err, apperrors.ErrNotConversationParty)
}

func TestListConversationsBuildsInbox(t *testing.T) {
	now := time.Now()
	store := &fakeConversationStore{
		listByUserFn: func(ctx context.Context, userID int64) ([]*models.Conversation, error) {
			return []*models.Conversation{
				{ID: 1, UserA: 3, UserB: 7, LastActivity: now},
				{ID: 2, UserA: 3, UserB: 9, LastActivity: now.Add(-time.Hour)},
			}, nil
		},
		getLastMessagesFn: func(ctx context.Context, conversationIDs []int64) (map[int64]*models.Message, error) {
			return map[int64]*models.Message{
				1: {ID: 50, ConversationID: 1, SenderID: 7, Content: "ok!"},
			}, nil
		},
		countUnreadFn: func(ctx context.Context, conversationIDs []int64, readerID int64) (map[int64]int, error) {
			assert.Equal(t, int64(3), readerID)
			return map[int64]int{1: 2}, nil
		},
	}
	userStore := &fakeUserStore{
		findByIDsFn: func(ctx context.Context, ids []int64) (map[int64]*models.User, error) {
			assert.ElementsMatch(t, []int64{7, 9}, ids)
			return map[int64]*models.User{
				7: {ID: 7, FirstName: "Deniz"},
				9: {ID: 9, FirstName: "Ege"},
			}, nil
		},
	}
	svc := newConversationService(store, userStore, &fakeNotifier{})

	resp, err := svc.ListConversations(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, resp.Conversations, 2)

	assert.Equal(t, int64(7), resp.Conversations[0].Counterpart.ID)
	assert.Equal(t, 2, resp.Conversations[0].UnreadCount)
	require.NotNil(t, resp.Conversations[0].LastMessage)
	assert.Equal(t, "ok!", resp.Conversations[0].LastMessage.Content)

	assert.Equal(t, int64(9), resp.Conversations[1].Counterpart.ID)
	assert.Zero(t, resp.Conversations[1].UnreadCount)
	assert.Nil(t, resp.Conversations[1].LastMessage)
}

func TestListConversationsEmpty(t *testing.T) {
	store := &fakeConversationStore{
		listByUserFn: func(ctx context.Context, userID int64) ([]*models.Conversation, error) {
			return nil, nil
		},
	}
	svc := newConversationService(store, existingUsers(3), &fakeNotifier{})

	resp, err := svc.ListConversations(context.Background(), 3)
	require.NoError(t, err)
	assert.Empty(t, resp.Conversations)
}
