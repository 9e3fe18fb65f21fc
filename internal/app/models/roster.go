package models

import "github.com/tripmate/tripmate/internal/pkg/apperrors"

// The roster state machine. These checks run against the row-locked trip
// state inside the join/leave transaction, so the count they see is the
// count that will be committed.

// ValidateJoin reports why userID may not join the trip, or nil if the join
// can proceed given the current roster size and membership.
func ValidateJoin(trip *Trip, userID int64, participantCount int, isParticipant bool) error {
	if trip.Status != TripStatusActive && trip.Status != TripStatusFull {
		return apperrors.ErrTripNotJoinable
	}
	if trip.CreatorID == userID {
		return apperrors.ErrSelfJoin
	}
	if isParticipant {
		return apperrors.ErrAlreadyParticipant
	}
	if trip.Status == TripStatusFull || participantCount >= trip.MaxParticipants {
		return apperrors.ErrTripFull
	}
	return nil
}

// ValidateLeave reports why userID may not leave the trip, or nil.
func ValidateLeave(trip *Trip, userID int64, isParticipant bool) error {
	if trip.Status.IsTerminal() {
		return apperrors.ErrTripNotJoinable
	}
	if trip.CreatorID == userID {
		return apperrors.ErrCreatorCannotLeave
	}
	if !isParticipant {
		return apperrors.ErrNotParticipant
	}
	return nil
}

// StatusAfterJoin returns the status the trip should carry once the roster
// holds newCount participants.
func StatusAfterJoin(trip *Trip, newCount int) TripStatus {
	if newCount >= trip.MaxParticipants {
		return TripStatusFull
	}
	return TripStatusActive
}

// StatusAfterLeave returns the status after the roster drops to newCount.
func StatusAfterLeave(trip *Trip, newCount int) TripStatus {
	if trip.Status == TripStatusFull && newCount < trip.MaxParticipants {
		return TripStatusActive
	}
	return trip.Status
}
