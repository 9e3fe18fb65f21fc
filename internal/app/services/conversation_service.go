package services

import (
	"context"
	"encoding/json"
	"fmt"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/tripmate/tripmate/internal/app/models"
	"github.com/tripmate/tripmate/internal/app/models/dto"
	"github.com/tripmate/tripmate/internal/pkg/apperrors"
	"github.com/tripmate/tripmate/internal/pkg/websocket"
)

// ConversationService defines the interface for direct messaging operations
type ConversationService interface {
	GetOrStartConversation(ctx context.Context, userID, counterpartID int64, relatedTripID *int64) (*dto.ConversationResponse, error)
	SendMessage(ctx context.Context, conversationID, senderID int64, req *dto.SendMessageRequest) (*dto.MessageResponse, error)
	MarkRead(ctx context.Context, conversationID, readerID int64) (int64, error)
	ListConversations(ctx context.Context, userID int64) (*dto.ConversationListResponse, error)
}

// conversationServiceImpl implements ConversationService
type conversationServiceImpl struct {
	conversationStore ConversationStore
	userStore         UserStore
	notifier          Notifier
	logger            zerolog.Logger
}

// NewConversationService creates a new ConversationService
func NewConversationService(
	conversationStore ConversationStore,
	userStore UserStore,
	notifier Notifier,
	logger zerolog.Logger,
) ConversationService {
	return &conversationServiceImpl{
		conversationStore: conversationStore,
		userStore:         userStore,
		notifier:          notifier,
		logger:            logger,
	}
}

// GetOrStartConversation returns the single conversation between the caller
// and the counterpart, creating it on first contact. The full message
// history is attached.
func (s *conversationServiceImpl) GetOrStartConversation(ctx context.Context, userID, counterpartID int64, relatedTripID *int64) (*dto.ConversationResponse, error) {
	if userID == counterpartID {
		return nil, apperrors.NewValidationError("Cannot start a conversation with yourself")
	}

	counterpart, err := s.userStore.FindByID(ctx, counterpartID)
	if err != nil {
		return nil, err
	}

	conversation, err := s.conversationStore.FindOrCreate(ctx, userID, counterpartID, relatedTripID)
	if err != nil {
		s.logger.Error().Err(err).
			Int64("userID", userID).
			Int64("counterpartID", counterpartID).
			Msg("Failed to find or create conversation")
		return nil, fmt.Errorf("error opening conversation: %w", err)
	}

	messages, err := s.conversationStore.GetMessages(ctx, conversation.ID)
	if err != nil {
		s.logger.Error().Err(err).
			Int64("conversationID", conversation.ID).
			Msg("Failed to load messages")
		return nil, fmt.Errorf("error loading messages: %w", err)
	}
	conversation.Messages = messages

	response := dto.ToConversationResponse(conversation, userID, counterpart)
	return &response, nil
}

// SendMessage appends a message and pushes it to the counterpart's live
// connection. The push happens only after the message is persisted, so a
// delivered event always refers to durable state.
func (s *conversationServiceImpl) SendMessage(ctx context.Context, conversationID, senderID int64, req *dto.SendMessageRequest) (*dto.MessageResponse, error) {
	// Length limits count characters, not bytes, to match the column width
	if req.Content == "" || utf8.RuneCountInString(req.Content) > models.MaxMessageLength {
		return nil, apperrors.NewValidationError(
			fmt.Sprintf("Message must be between 1 and %d characters", models.MaxMessageLength))
	}

	conversation, err := s.conversationStore.GetByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if !conversation.HasParticipant(senderID) {
		return nil, apperrors.ErrNotConversationParty
	}

	message := &models.Message{
		ConversationID: conversationID,
		SenderID:       senderID,
		Content:        req.Content,
	}
	if err := s.conversationStore.AppendMessage(ctx, message); err != nil {
		s.logger.Error().Err(err).
			Int64("conversationID", conversationID).
			Int64("senderID", senderID).
			Msg("Failed to append message")
		return nil, fmt.Errorf("error sending message: %w", err)
	}

	response := dto.ToMessageResponse(message)

	s.notifyCounterpart(conversation.Counterpart(senderID), senderID, &response)

	return &response, nil
}

// MarkRead flags every message addressed to the reader as read and returns
// how many changed. Repeating the call changes nothing.
func (s *conversationServiceImpl) MarkRead(ctx context.Context, conversationID, readerID int64) (int64, error) {
	conversation, err := s.conversationStore.GetByID(ctx, conversationID)
	if err != nil {
		return 0, err
	}
	if !conversation.HasParticipant(readerID) {
		return 0, apperrors.ErrNotConversationParty
	}

	updated, err := s.conversationStore.MarkRead(ctx, conversationID, readerID)
	if err != nil {
		s.logger.Error().Err(err).
			Int64("conversationID", conversationID).
			Int64("readerID", readerID).
			Msg("Failed to mark messages read")
		return 0, fmt.Errorf("error marking messages read: %w", err)
	}

	return updated, nil
}

// ListConversations builds the caller's inbox, most recently active first
func (s *conversationServiceImpl) ListConversations(ctx context.Context, userID int64) (*dto.ConversationListResponse, error) {
	conversations, err := s.conversationStore.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Int64("userID", userID).Msg("Failed to list conversations")
		return nil, fmt.Errorf("error listing conversations: %w", err)
	}

	response := &dto.ConversationListResponse{Conversations: []dto.ConversationSummaryResponse{}}
	if len(conversations) == 0 {
		return response, nil
	}

	conversationIDs := make([]int64, 0, len(conversations))
	counterpartIDs := make([]int64, 0, len(conversations))
	for _, conversation := range conversations {
		conversationIDs = append(conversationIDs, conversation.ID)
		counterpartIDs = append(counterpartIDs, conversation.Counterpart(userID))
	}

	lastMessages, err := s.conversationStore.GetLastMessages(ctx, conversationIDs)
	if err != nil {
		return nil, fmt.Errorf("error loading last messages: %w", err)
	}

	unreadCounts, err := s.conversationStore.CountUnread(ctx, conversationIDs, userID)
	if err != nil {
		return nil, fmt.Errorf("error counting unread messages: %w", err)
	}

	counterparts, err := s.userStore.FindByIDs(ctx, counterpartIDs)
	if err != nil {
		return nil, fmt.Errorf("error loading counterparts: %w", err)
	}

	for _, conversation := range conversations {
		summary := &models.ConversationSummary{
			Conversation: conversation,
			Counterpart:  counterparts[conversation.Counterpart(userID)],
			LastMessage:  lastMessages[conversation.ID],
			UnreadCount:  unreadCounts[conversation.ID],
		}
		response.Conversations = append(response.Conversations, dto.ToConversationSummaryResponse(summary))
	}

	return response, nil
}

// notifyCounterpart pushes a persisted message to the receiver if online
func (s *conversationServiceImpl) notifyCounterpart(receiverID, senderID int64, message *dto.MessageResponse) {
	if s.notifier == nil {
		return
	}

	payload, err := json.Marshal(message)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to marshal message event")
		return
	}

	s.notifier.Notify(receiverID, &websocket.Event{
		Type:     "message:new",
		SenderID: senderID,
		Payload:  payload,
	})
}
