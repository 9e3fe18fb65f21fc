package dto

import (
	"time"

	"github.com/tripmate/tripmate/internal/app/models"
)

// --- Request DTOs ---

// SendMessageRequest represents data for appending a message to a conversation
type SendMessageRequest struct {
	Content string `json:"content" binding:"required,max=1000"`
}

// --- Response DTOs ---

// MessageResponse represents a single chat message
type MessageResponse struct {
	ID             int64     `json:"id"`
	ConversationID int64     `json:"conversationId"`
	SenderID       int64     `json:"senderId"`
	Content        string    `json:"content"`
	Read           bool      `json:"read"`
	CreatedAt      time.Time `json:"createdAt"`
}

// ConversationResponse represents a conversation with its full history
type ConversationResponse struct {
	ID            int64             `json:"id"`
	CounterpartID int64             `json:"counterpartId"`
	Counterpart   UserBasicResponse `json:"counterpart"`
	RelatedTripID *int64            `json:"relatedTripId,omitempty"`
	LastActivity  time.Time         `json:"lastActivity"`
	Messages      []MessageResponse `json:"messages"`
}

// ConversationSummaryResponse represents one inbox row
type ConversationSummaryResponse struct {
	ID            int64             `json:"id"`
	Counterpart   UserBasicResponse `json:"counterpart"`
	LastMessage   *MessageResponse  `json:"lastMessage,omitempty"`
	UnreadCount   int               `json:"unreadCount"`
	LastActivity  time.Time         `json:"lastActivity"`
	RelatedTripID *int64            `json:"relatedTripId,omitempty"`
}

// ConversationListResponse represents a user's inbox
type ConversationListResponse struct {
	Conversations []ConversationSummaryResponse `json:"conversations"`
}

// ToMessageResponse converts a models.Message to MessageResponse
func ToMessageResponse(message *models.Message) MessageResponse {
	return MessageResponse{
		ID:             message.ID,
		ConversationID: message.ConversationID,
		SenderID:       message.SenderID,
		Content:        message.Content,
		Read:           message.Read,
		CreatedAt:      message.CreatedAt,
	}
}

// ToConversationResponse converts a conversation, as seen by userID, to a
// ConversationResponse with the counterpart's display info attached.
func ToConversationResponse(conversation *models.Conversation, userID int64, counterpart *models.User) ConversationResponse {
	response := ConversationResponse{
		ID:            conversation.ID,
		CounterpartID: conversation.Counterpart(userID),
		RelatedTripID: conversation.RelatedTripID,
		LastActivity:  conversation.LastActivity,
		Messages:      []MessageResponse{},
	}
	if counterpart != nil {
		response.Counterpart = ToUserBasicResponse(counterpart)
	}
	for _, message := range conversation.Messages {
		response.Messages = append(response.Messages, ToMessageResponse(message))
	}
	return response
}

// ToConversationSummaryResponse converts a models.ConversationSummary
func ToConversationSummaryResponse(summary *models.ConversationSummary) ConversationSummaryResponse {
	response := ConversationSummaryResponse{
		ID:            summary.Conversation.ID,
		UnreadCount:   summary.UnreadCount,
		LastActivity:  summary.Conversation.LastActivity,
		RelatedTripID: summary.Conversation.RelatedTripID,
	}
	if summary.Counterpart != nil {
		response.Counterpart = ToUserBasicResponse(summary.Counterpart)
	}
	if summary.LastMessage != nil {
		lastMessage := ToMessageResponse(summary.LastMessage)
		response.LastMessage = &lastMessage
	}
	return response
}
