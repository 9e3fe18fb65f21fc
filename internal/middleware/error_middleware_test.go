package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/tripmate/tripmate/internal/middleware"
	"github.com/tripmate/tripmate/internal/pkg/apperrors"
)

func TestHandleAPIErrorStatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"validation failed", apperrors.ErrValidationFailed, http.StatusBadRequest},
		{"bad request", apperrors.ErrBadRequest, http.StatusBadRequest},
		{"wrapped validation error", apperrors.NewValidationError("travel date must be in the future"), http.StatusBadRequest},
		{"token expired", apperrors.ErrTokenExpired, http.StatusUnauthorized},
		{"token invalid", apperrors.ErrTokenInvalid, http.StatusUnauthorized},
		{"self join", apperrors.ErrSelfJoin, http.StatusForbidden},
		{"creator cannot leave", apperrors.ErrCreatorCannotLeave, http.StatusForbidden},
		{"not conversation party", apperrors.ErrNotConversationParty, http.StatusForbidden},
		{"permission denied", apperrors.ErrPermissionDenied, http.StatusForbidden},
		{"trip not found", apperrors.ErrTripNotFound, http.StatusNotFound},
		{"conversation not found", apperrors.ErrConversationNotFound, http.StatusNotFound},
		{"user not found", apperrors.ErrUserNotFound, http.StatusNotFound},
		{"already participant", apperrors.ErrAlreadyParticipant, http.StatusConflict},
		{"not participant", apperrors.ErrNotParticipant, http.StatusConflict},
		{"trip full", apperrors.ErrTripFull, http.StatusConflict},
		{"trip not joinable", apperrors.ErrTripNotJoinable, http.StatusConflict},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			ctx, _ := gin.CreateTestContext(recorder)

			middleware.HandleAPIError(ctx, tt.err)

			assert.Equal(t, tt.wantStatus, recorder.Code)
			assert.Contains(t, recorder.Body.String(), `"error"`)
		})
	}
}
