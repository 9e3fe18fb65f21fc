package services

import (
	"github.com/rs/zerolog"
	"github.com/tripmate/tripmate/internal/app/repositories"
	"github.com/tripmate/tripmate/internal/pkg/websocket"
)

// Services is the container for all service instances
type Services struct {
	TripService         TripService
	ConversationService ConversationService
}

// NewServices wires all services over the repositories and the presence hub
func NewServices(repos *repositories.Repositories, hub *websocket.Hub, logger zerolog.Logger) *Services {
	return &Services{
		TripService: NewTripService(
			repos.TripRepository,
			repos.TripParticipantRepository,
			repos.UserRepository,
			hub,
			logger,
		),
		ConversationService: NewConversationService(
			repos.ConversationRepository,
			repos.UserRepository,
			hub,
			logger,
		),
	}
}
