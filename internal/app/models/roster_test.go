package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tripmate/tripmate/internal/app/models"
	"github.com/tripmate/tripmate/internal/pkg/apperrors"
)

func activeTrip(creatorID int64, maxParticipants int) *models.Trip {
	return &models.Trip{
		ID:              1,
		CreatorID:       creatorID,
		MaxParticipants: maxParticipants,
		Status:          models.TripStatusActive,
	}
}

func TestValidateJoin(t *testing.T) {
	tests := []struct {
		name          string
		trip          *models.Trip
		userID        int64
		count         int
		isParticipant bool
		wantErr       error
	}{
		{
			name:   "join open trip",
			trip:   activeTrip(1, 4),
			userID: 2,
			count:  1,
		},
		{
			name:    "creator cannot join own trip",
			trip:    activeTrip(1, 4),
			userID:  1,
			count:   1,
			wantErr: apperrors.ErrSelfJoin,
		},
		{
			name:          "duplicate join",
			trip:          activeTrip(1, 4),
			userID:        2,
			count:         2,
			isParticipant: true,
			wantErr:       apperrors.ErrAlreadyParticipant,
		},
		{
			name:    "full by count",
			trip:    activeTrip(1, 4),
			userID:  5,
			count:   4,
			wantErr: apperrors.ErrTripFull,
		},
		{
			name: "full by status",
			trip: &models.Trip{
				ID: 1, CreatorID: 1, MaxParticipants: 4,
				Status: models.TripStatusFull,
			},
			userID:  5,
			count:   3,
			wantErr: apperrors.ErrTripFull,
		},
		{
			name: "completed trip rejects join",
			trip: &models.Trip{
				ID: 1, CreatorID: 1, MaxParticipants: 4,
				Status: models.TripStatusCompleted,
			},
			userID:  2,
			count:   2,
			wantErr: apperrors.ErrTripNotJoinable,
		},
		{
			name: "cancelled trip rejects join",
			trip: &models.Trip{
				ID: 1, CreatorID: 1, MaxParticipants: 4,
				Status: models.TripStatusCancelled,
			},
			userID:  2,
			count:   2,
			wantErr: apperrors.ErrTripNotJoinable,
		},
		{
			name: "terminal state checked before self join",
			trip: &models.Trip{
				ID: 1, CreatorID: 1, MaxParticipants: 4,
				Status: models.TripStatusCancelled,
			},
			userID:  1,
			count:   2,
			wantErr: apperrors.ErrTripNotJoinable,
		},
		{
			name: "duplicate join reported before full",
			trip: &models.Trip{
				ID: 1, CreatorID: 1, MaxParticipants: 4,
				Status: models.TripStatusFull,
			},
			userID:        2,
			count:         4,
			isParticipant: true,
			wantErr:       apperrors.ErrAlreadyParticipant,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := models.ValidateJoin(tt.trip, tt.userID, tt.count, tt.isParticipant)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateLeave(t *testing.T) {
	tests := []struct {
		name          string
		trip          *models.Trip
		userID        int64
		isParticipant bool
		wantErr       error
	}{
		{
			name:          "participant leaves",
			trip:          activeTrip(1, 4),
			userID:        2,
			isParticipant: true,
		},
		{
			name:          "creator cannot leave",
			trip:          activeTrip(1, 4),
			userID:        1,
			isParticipant: true,
			wantErr:       apperrors.ErrCreatorCannotLeave,
		},
		{
			name:    "non participant cannot leave",
			trip:    activeTrip(1, 4),
			userID:  7,
			wantErr: apperrors.ErrNotParticipant,
		},
		{
			name: "completed trip rejects leave",
			trip: &models.Trip{
				ID: 1, CreatorID: 1, MaxParticipants: 4,
				Status: models.TripStatusCompleted,
			},
			userID:        2,
			isParticipant: true,
			wantErr:       apperrors.ErrTripNotJoinable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := models.ValidateLeave(tt.trip, tt.userID, tt.isParticipant)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestStatusTransitions(t *testing.T) {
	trip := activeTrip(1, 3)

	assert.Equal(t, models.TripStatusActive, models.StatusAfterJoin(trip, 2))
	assert.Equal(t, models.TripStatusFull, models.StatusAfterJoin(trip, 3))

	trip.Status = models.TripStatusFull
	assert.Equal(t, models.TripStatusActive, models.StatusAfterLeave(trip, 2))

	trip.Status = models.TripStatusActive
	assert.Equal(t, models.TripStatusActive, models.StatusAfterLeave(trip, 1))
}

// Walks a four-seat trip through fill-up, rejection at capacity, one leave
// reopening the roster and a different user taking the freed seat.
func TestRosterLifecycle(t *testing.T) {
	trip := activeTrip(1, 4)
	roster := map[int64]bool{1: true}

	join := func(userID int64) error {
		err := models.ValidateJoin(trip, userID, len(roster), roster[userID])
		if err != nil {
			return err
		}
		roster[userID] = true
		trip.Status = models.StatusAfterJoin(trip, len(roster))
		return nil
	}
	leave := func(userID int64) error {
		err := models.ValidateLeave(trip, userID, roster[userID])
		if err != nil {
			return err
		}
		delete(roster, userID)
		trip.Status = models.StatusAfterLeave(trip, len(roster))
		return nil
	}

	require.NoError(t, join(2))
	require.NoError(t, join(3))
	assert.Equal(t, models.TripStatusActive, trip.Status)

	require.NoError(t, join(4))
	assert.Equal(t, models.TripStatusFull, trip.Status)

	assert.ErrorIs(t, join(5), apperrors.ErrTripFull)

	require.NoError(t, leave(3))
	assert.Equal(t, models.TripStatusActive, trip.Status)

	require.NoError(t, join(5))
	assert.Equal(t, models.TripStatusFull, trip.Status)
	assert.Len(t, roster, 4)
}
