package dto

import (
	"time"

	"github.com/tripmate/tripmate/internal/app/models"
)

// --- Request DTOs ---

// CreateTripRequest represents data for creating a new trip
type CreateTripRequest struct {
	Title           string `json:"title" binding:"required,max=200"`
	Description     string `json:"description" binding:"max=2000"`
	FromCity        string `json:"fromCity" binding:"required,max=100"`
	ToCity          string `json:"toCity" binding:"required,max=100"`
	TravelDate      string `json:"travelDate" binding:"required,datetime=2006-01-02"`
	TravelTime      string `json:"travelTime" binding:"omitempty,datetime=15:04"`
	MaxParticipants int    `json:"maxParticipants" binding:"required,gte=2,lte=10"`
}

// UpdateTripStatusRequest carries the external completion/cancellation signal
type UpdateTripStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=COMPLETED CANCELLED"`
}

// CreateTripCommentRequest represents data for appending a trip comment
type CreateTripCommentRequest struct {
	Content string `json:"content" binding:"required,max=500"`
}

// TripFilterRequest represents filter parameters for listing trips
type TripFilterRequest struct {
	FromCity *string `form:"fromCity"`
	ToCity   *string `form:"toCity"`
	Page     int     `form:"page,default=1" binding:"min=1"`
	PageSize int     `form:"pageSize,default=10" binding:"min=1,max=100"`
}

// --- Response DTOs ---

// TripResponse represents a trip with its roster
type TripResponse struct {
	ID               int64               `json:"id"`
	Title            string              `json:"title"`
	Description      string              `json:"description,omitempty"`
	FromCity         string              `json:"fromCity"`
	ToCity           string              `json:"toCity"`
	TravelDate       string              `json:"travelDate"`
	TravelTime       string              `json:"travelTime,omitempty"`
	MaxParticipants  int                 `json:"maxParticipants"`
	ParticipantCount int                 `json:"participantCount"`
	Status           string              `json:"status"`
	CreatorID        int64               `json:"creatorId"`
	Participants     []UserBasicResponse `json:"participants,omitempty"`
	CreatedAt        time.Time           `json:"createdAt"`
}

// TripListResponse represents a paginated list of trips
type TripListResponse struct {
	Trips          []TripResponse `json:"trips"`
	PaginationInfo PaginationInfo `json:"pagination"`
}

// TripCommentResponse represents a single trip comment
type TripCommentResponse struct {
	ID         int64     `json:"id"`
	TripID     int64     `json:"tripId"`
	AuthorID   int64     `json:"authorId"`
	AuthorName string    `json:"authorName,omitempty"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"createdAt"`
}

// TripCommentListResponse represents the full comment thread of a trip
type TripCommentListResponse struct {
	Comments []TripCommentResponse `json:"comments"`
}

// UserBasicResponse represents minimal user display info
type UserBasicResponse struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	City      string `json:"city,omitempty"`
}

// ToUserBasicResponse converts a models.User to UserBasicResponse
func ToUserBasicResponse(user *models.User) UserBasicResponse {
	return UserBasicResponse{
		ID:        user.ID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		City:      user.City,
	}
}

// ToTripResponse converts a models.Trip to TripResponse
func ToTripResponse(trip *models.Trip) TripResponse {
	response := TripResponse{
		ID:               trip.ID,
		Title:            trip.Title,
		Description:      trip.Description,
		FromCity:         trip.FromCity,
		ToCity:           trip.ToCity,
		TravelDate:       trip.TravelDate.Format("2006-01-02"),
		TravelTime:       trip.TravelTime,
		MaxParticipants:  trip.MaxParticipants,
		ParticipantCount: trip.ParticipantCount,
		Status:           string(trip.Status),
		CreatorID:        trip.CreatorID,
		CreatedAt:        trip.CreatedAt,
	}

	for _, participant := range trip.Participants {
		response.Participants = append(response.Participants, ToUserBasicResponse(participant))
	}

	return response
}

// ToTripCommentResponse converts a models.TripComment to TripCommentResponse
func ToTripCommentResponse(comment *models.TripComment) TripCommentResponse {
	response := TripCommentResponse{
		ID:        comment.ID,
		TripID:    comment.TripID,
		AuthorID:  comment.AuthorID,
		Content:   comment.Content,
		CreatedAt: comment.CreatedAt,
	}
	if comment.Author != nil {
		response.AuthorName = comment.Author.FullName()
	}
	return response
}
