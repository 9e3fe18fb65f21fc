package repositories

import "github.com/jackc/pgx/v5/pgxpool"

// Repositories is the container for all repository instances
type Repositories struct {
	UserRepository            *UserRepository
	TripRepository            *TripRepository
	TripParticipantRepository *TripParticipantRepository
	ConversationRepository    *ConversationRepository
}

// NewRepositories creates all repositories over a shared connection pool
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:            NewUserRepository(db),
		TripRepository:            NewTripRepository(db),
		TripParticipantRepository: NewTripParticipantRepository(db),
		ConversationRepository:    NewConversationRepository(db),
	}
}
