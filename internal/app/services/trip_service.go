package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/tripmate/tripmate/internal/app/models"
	"github.com/tripmate/tripmate/internal/app/models/dto"
	"github.com/tripmate/tripmate/internal/pkg/apperrors"
	"github.com/tripmate/tripmate/internal/pkg/websocket"
)

// TripService defines the interface for trip and roster operations
type TripService interface {
	CreateTrip(ctx context.Context, creatorID int64, req *dto.CreateTripRequest) (*dto.TripResponse, error)
	GetTrip(ctx context.Context, tripID int64) (*dto.TripResponse, error)
	ListTrips(ctx context.Context, filter *dto.TripFilterRequest) (*dto.TripListResponse, error)
	JoinTrip(ctx context.Context, tripID, userID int64) (*dto.TripResponse, error)
	LeaveTrip(ctx context.Context, tripID, userID int64) (*dto.TripResponse, error)
	UpdateTripStatus(ctx context.Context, tripID, userID int64, status string) (*dto.TripResponse, error)
	AddComment(ctx context.Context, tripID, authorID int64, req *dto.CreateTripCommentRequest) (*dto.TripCommentListResponse, error)
	GetComments(ctx context.Context, tripID int64) (*dto.TripCommentListResponse, error)
}

// tripServiceImpl implements TripService
type tripServiceImpl struct {
	tripStore   TripStore
	rosterStore RosterStore
	userStore   UserStore
	notifier    Notifier
	logger      zerolog.Logger
}

// NewTripService creates a new TripService
func NewTripService(
	tripStore TripStore,
	rosterStore RosterStore,
	userStore UserStore,
	notifier Notifier,
	logger zerolog.Logger,
) TripService {
	return &tripServiceImpl{
		tripStore:   tripStore,
		rosterStore: rosterStore,
		userStore:   userStore,
		notifier:    notifier,
		logger:      logger,
	}
}

// CreateTrip creates a trip with the creator as its first participant
func (s *tripServiceImpl) CreateTrip(ctx context.Context, creatorID int64, req *dto.CreateTripRequest) (*dto.TripResponse, error) {
	travelDate, err := time.Parse("2006-01-02", req.TravelDate)
	if err != nil {
		return nil, apperrors.NewValidationError("Travel date must be in YYYY-MM-DD format")
	}

	// Date-only comparison: today is already too late
	today := time.Now().UTC().Truncate(24 * time.Hour)
	if !travelDate.After(today) {
		return nil, apperrors.NewValidationError("Travel date must be in the future")
	}

	if req.MaxParticipants < models.MinTripParticipants || req.MaxParticipants > models.MaxTripParticipants {
		return nil, apperrors.NewValidationError(
			fmt.Sprintf("Trip capacity must be between %d and %d", models.MinTripParticipants, models.MaxTripParticipants))
	}

	exists, err := s.userStore.Exists(ctx, creatorID)
	if err != nil {
		s.logger.Error().Err(err).Int64("creatorID", creatorID).Msg("Failed to check creator")
		return nil, fmt.Errorf("error checking creator: %w", err)
	}
	if !exists {
		return nil, apperrors.ErrUserNotFound
	}

	trip := &models.Trip{
		Title:           req.Title,
		Description:     req.Description,
		FromCity:        req.FromCity,
		ToCity:          req.ToCity,
		TravelDate:      travelDate,
		TravelTime:      req.TravelTime,
		MaxParticipants: req.MaxParticipants,
		Status:          models.TripStatusActive,
		CreatorID:       creatorID,
	}

	if err := s.tripStore.Create(ctx, trip); err != nil {
		s.logger.Error().Err(err).Int64("creatorID", creatorID).Msg("Failed to create trip")
		return nil, fmt.Errorf("error creating trip: %w", err)
	}

	s.logger.Info().
		Int64("tripID", trip.ID).
		Int64("creatorID", creatorID).
		Str("fromCity", trip.FromCity).
		Str("toCity", trip.ToCity).
		Msg("Trip created")

	response := dto.ToTripResponse(trip)
	return &response, nil
}

// GetTrip retrieves a trip with its full roster
func (s *tripServiceImpl) GetTrip(ctx context.Context, tripID int64) (*dto.TripResponse, error) {
	trip, err := s.tripStore.GetByID(ctx, tripID)
	if err != nil {
		return nil, err
	}

	participants, err := s.rosterStore.GetParticipantsByTripID(ctx, tripID)
	if err != nil {
		s.logger.Error().Err(err).Int64("tripID", tripID).Msg("Failed to load roster")
		return nil, fmt.Errorf("error loading roster: %w", err)
	}
	trip.Participants = participants

	response := dto.ToTripResponse(trip)
	return &response, nil
}

// ListTrips retrieves trips matching the filter, soonest first
func (s *tripServiceImpl) ListTrips(ctx context.Context, filter *dto.TripFilterRequest) (*dto.TripListResponse, error) {
	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = 10
	}

	trips, total, err := s.tripStore.List(ctx, filter.FromCity, filter.ToCity, page, pageSize)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list trips")
		return nil, fmt.Errorf("error listing trips: %w", err)
	}

	tripIDs := make([]int64, 0, len(trips))
	for _, trip := range trips {
		tripIDs = append(tripIDs, trip.ID)
	}
	counts, err := s.rosterStore.GetParticipantCountsByTripIDs(ctx, tripIDs)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to count participants")
		return nil, fmt.Errorf("error counting participants: %w", err)
	}
	for _, trip := range trips {
		trip.ParticipantCount = counts[trip.ID]
	}

	response := &dto.TripListResponse{
		Trips: []dto.TripResponse{},
		PaginationInfo: dto.PaginationInfo{
			CurrentPage: page,
			PageSize:    pageSize,
			TotalItems:  total,
			TotalPages:  int((total + int64(pageSize) - 1) / int64(pageSize)),
		},
	}
	for _, trip := range trips {
		response.Trips = append(response.Trips, dto.ToTripResponse(trip))
	}

	return response, nil
}

// JoinTrip adds userID to the trip roster
func (s *tripServiceImpl) JoinTrip(ctx context.Context, tripID, userID int64) (*dto.TripResponse, error) {
	exists, err := s.userStore.Exists(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error checking user: %w", err)
	}
	if !exists {
		return nil, apperrors.ErrUserNotFound
	}

	trip, err := s.tripStore.Join(ctx, tripID, userID)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("tripID", tripID).
		Int64("userID", userID).
		Int("participantCount", trip.ParticipantCount).
		Str("status", string(trip.Status)).
		Msg("User joined trip")

	s.notifyCreator(trip, "trip:member-joined", userID)

	response := dto.ToTripResponse(trip)
	return &response, nil
}

// LeaveTrip removes userID from the trip roster
func (s *tripServiceImpl) LeaveTrip(ctx context.Context, tripID, userID int64) (*dto.TripResponse, error) {
	trip, err := s.tripStore.Leave(ctx, tripID, userID)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("tripID", tripID).
		Int64("userID", userID).
		Int("participantCount", trip.ParticipantCount).
		Str("status", string(trip.Status)).
		Msg("User left trip")

	s.notifyCreator(trip, "trip:member-left", userID)

	response := dto.ToTripResponse(trip)
	return &response, nil
}

// UpdateTripStatus applies the external completion or cancellation signal.
// Only the trip's creator may send it.
func (s *tripServiceImpl) UpdateTripStatus(ctx context.Context, tripID, userID int64, status string) (*dto.TripResponse, error) {
	newStatus := models.TripStatus(status)
	if !newStatus.IsTerminal() {
		return nil, apperrors.NewValidationError("Status must be COMPLETED or CANCELLED")
	}

	trip, err := s.tripStore.GetByID(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if trip.CreatorID != userID {
		return nil, apperrors.NewForbiddenError("Only the trip creator can change its status")
	}

	trip, err = s.tripStore.UpdateStatus(ctx, tripID, newStatus)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("tripID", tripID).
		Str("status", string(trip.Status)).
		Msg("Trip status updated")

	response := dto.ToTripResponse(trip)
	return &response, nil
}

// AddComment appends a comment to a trip and returns the updated thread.
// Any known user may comment; roster membership is not required.
func (s *tripServiceImpl) AddComment(ctx context.Context, tripID, authorID int64, req *dto.CreateTripCommentRequest) (*dto.TripCommentListResponse, error) {
	// Length limits count characters, not bytes, to match the column width
	if req.Content == "" || utf8.RuneCountInString(req.Content) > models.MaxCommentLength {
		return nil, apperrors.NewValidationError(
			fmt.Sprintf("Comment must be between 1 and %d characters", models.MaxCommentLength))
	}

	if _, err := s.tripStore.GetByID(ctx, tripID); err != nil {
		return nil, err
	}

	if _, err := s.userStore.FindByID(ctx, authorID); err != nil {
		return nil, err
	}

	comment := &models.TripComment{
		TripID:   tripID,
		AuthorID: authorID,
		Content:  req.Content,
	}
	if err := s.tripStore.AddComment(ctx, comment); err != nil {
		s.logger.Error().Err(err).Int64("tripID", tripID).Msg("Failed to add comment")
		return nil, fmt.Errorf("error adding comment: %w", err)
	}

	comments, err := s.tripStore.GetComments(ctx, tripID)
	if err != nil {
		s.logger.Error().Err(err).Int64("tripID", tripID).Msg("Failed to load comments")
		return nil, fmt.Errorf("error loading comments: %w", err)
	}

	response := &dto.TripCommentListResponse{Comments: []dto.TripCommentResponse{}}
	for _, comment := range comments {
		response.Comments = append(response.Comments, dto.ToTripCommentResponse(comment))
	}

	return response, nil
}

// GetComments retrieves a trip's comment thread in append order
func (s *tripServiceImpl) GetComments(ctx context.Context, tripID int64) (*dto.TripCommentListResponse, error) {
	if _, err := s.tripStore.GetByID(ctx, tripID); err != nil {
		return nil, err
	}

	comments, err := s.tripStore.GetComments(ctx, tripID)
	if err != nil {
		s.logger.Error().Err(err).Int64("tripID", tripID).Msg("Failed to load comments")
		return nil, fmt.Errorf("error loading comments: %w", err)
	}

	response := &dto.TripCommentListResponse{Comments: []dto.TripCommentResponse{}}
	for _, comment := range comments {
		response.Comments = append(response.Comments, dto.ToTripCommentResponse(comment))
	}

	return response, nil
}

// notifyCreator pushes a roster change event to the trip's creator if online
func (s *tripServiceImpl) notifyCreator(trip *models.Trip, eventType string, actorID int64) {
	if s.notifier == nil || actorID == trip.CreatorID {
		return
	}

	payload, err := json.Marshal(map[string]interface{}{
		"tripId":           trip.ID,
		"userId":           actorID,
		"participantCount": trip.ParticipantCount,
		"status":           trip.Status,
	})
	if err != nil {
		return
	}

	s.notifier.Notify(trip.CreatorID, &websocket.Event{
		Type:     eventType,
		SenderID: actorID,
		Payload:  payload,
	})
}
