package models

import "time"

// TripStatus represents the lifecycle state of a trip
type TripStatus string

const (
	TripStatusActive    TripStatus = "ACTIVE"
	TripStatusFull      TripStatus = "FULL"
	TripStatusCompleted TripStatus = "COMPLETED"
	TripStatusCancelled TripStatus = "CANCELLED"
)

// IsTerminal reports whether the status accepts no further roster changes
func (s TripStatus) IsTerminal() bool {
	return s == TripStatusCompleted || s == TripStatusCancelled
}

// Roster bounds and content limits
const (
	MinTripParticipants = 2
	MaxTripParticipants = 10
	MaxCommentLength    = 500
)

// Trip represents a shared journey with a capacity-bounded participant roster
type Trip struct {
	ID              int64      `json:"id" db:"id"`
	Title           string     `json:"title" db:"title"`
	Description     string     `json:"description" db:"description"`
	FromCity        string     `json:"fromCity" db:"from_city"`
	ToCity          string     `json:"toCity" db:"to_city"`
	TravelDate      time.Time  `json:"travelDate" db:"travel_date"`
	TravelTime      string     `json:"travelTime" db:"travel_time"`
	MaxParticipants int        `json:"maxParticipants" db:"max_participants"`
	Status          TripStatus `json:"status" db:"status"`
	CreatorID       int64      `json:"creatorId" db:"creator_id"`
	CreatedAt       time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time  `json:"updatedAt" db:"updated_at"`

	// Related entities
	Creator          *User          `json:"creator,omitempty"`
	Participants     []*User        `json:"participants,omitempty"`
	Comments         []*TripComment `json:"comments,omitempty"`
	ParticipantCount int            `json:"participantCount"`
}

// TripParticipant represents a user joined to a trip roster
type TripParticipant struct {
	ID       int64     `json:"id" db:"id"`
	TripID   int64     `json:"tripId" db:"trip_id"`
	UserID   int64     `json:"userId" db:"user_id"`
	JoinedAt time.Time `json:"joinedAt" db:"joined_at"`

	// Related entities
	User *User `json:"user,omitempty"`
}

// TripComment represents a comment appended to a trip
type TripComment struct {
	ID        int64     `json:"id" db:"id"`
	TripID    int64     `json:"tripId" db:"trip_id"`
	AuthorID  int64     `json:"authorId" db:"author_id"`
	Content   string    `json:"content" db:"content"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	// Related entities
	Author *User `json:"author,omitempty"`
}
