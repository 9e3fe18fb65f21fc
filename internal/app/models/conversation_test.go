package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tripmate/tripmate/internal/app/models"
)

func TestNormalizePair(t *testing.T) {
	lo, hi := models.NormalizePair(7, 3)
	assert.Equal(t, int64(3), lo)
	assert.Equal(t, int64(7), hi)

	lo, hi = models.NormalizePair(3, 7)
	assert.Equal(t, int64(3), lo)
	assert.Equal(t, int64(7), hi)
}

func TestConversationParticipants(t *testing.T) {
	conversation := &models.Conversation{ID: 1, UserA: 3, UserB: 7}

	assert.True(t, conversation.HasParticipant(3))
	assert.True(t, conversation.HasParticipant(7))
	assert.False(t, conversation.HasParticipant(5))

	assert.Equal(t, int64(7), conversation.Counterpart(3))
	assert.Equal(t, int64(3), conversation.Counterpart(7))
}
