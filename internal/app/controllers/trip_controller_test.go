package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tripmate/tripmate/internal/app/controllers"
	"github.com/tripmate/tripmate/internal/app/models/dto"
	"github.com/tripmate/tripmate/internal/pkg/apperrors"
)

// fakeTripService stubs the service layer behind the controller
type fakeTripService struct {
	createTripFn func(ctx context.Context, creatorID int64, req *dto.CreateTripRequest) (*dto.TripResponse, error)
	getTripFn    func(ctx context.Context, tripID int64) (*dto.TripResponse, error)
	listTripsFn  func(ctx context.Context, filter *dto.TripFilterRequest) (*dto.TripListResponse, error)
	joinTripFn   func(ctx context.Context, tripID, userID int64) (*dto.TripResponse, error)
	leaveTripFn  func(ctx context.Context, tripID, userID int64) (*dto.TripResponse, error)
	updateFn     func(ctx context.Context, tripID, userID int64, status string) (*dto.TripResponse, error)
	addCommentFn func(ctx context.Context, tripID, authorID int64, req *dto.CreateTripCommentRequest) (*dto.TripCommentListResponse, error)
	commentsFn   func(ctx context.Context, tripID int64) (*dto.TripCommentListResponse, error)
}

func (f *fakeTripService) CreateTrip(ctx context.Context, creatorID int64, req *dto.CreateTripRequest) (*dto.TripResponse, error) {
	return f.createTripFn(ctx, creatorID, req)
}

func (f *fakeTripService) GetTrip(ctx context.Context, tripID int64) (*dto.TripResponse, error) {
	return f.getTripFn(ctx, tripID)
}

func (f *fakeTripService) ListTrips(ctx context.Context, filter *dto.TripFilterRequest) (*dto.TripListResponse, error) {
	return f.listTripsFn(ctx, filter)
}

func (f *fakeTripService) JoinTrip(ctx context.Context, tripID, userID int64) (*dto.TripResponse, error) {
	return f.joinTripFn(ctx, tripID, userID)
}

func (f *fakeTripService) LeaveTrip(ctx context.Context, tripID, userID int64) (*dto.TripResponse, error) {
	return f.leaveTripFn(ctx, tripID, userID)
}

func (f *fakeTripService) UpdateTripStatus(ctx context.Context, tripID, userID int64, status string) (*dto.TripResponse, error) {
	return f.updateFn(ctx, tripID, userID, status)
}

func (f *fakeTripService) AddComment(ctx context.Context, tripID, authorID int64, req *dto.CreateTripCommentRequest) (*dto.TripCommentListResponse, error) {
	return f.addCommentFn(ctx, tripID, authorID, req)
}

func (f *fakeTripService) GetComments(ctx context.Context, tripID int64) (*dto.TripCommentListResponse, error) {
	return f.commentsFn(ctx, tripID)
}

// setupRouter wires the controller behind a stub auth middleware that
// injects the given user id.
func setupRouter(svc *fakeTripService, userID int64) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	controller := controllers.NewTripController(svc, zerolog.Nop())

	authed := router.Group("")
	if userID != 0 {
		authed.Use(func(c *gin.Context) {
			c.Set("userID", userID)
			c.Next()
		})
	}
	authed.POST("/trips", controller.CreateTrip)
	authed.GET("/trips/:id", controller.GetTrip)
	authed.POST("/trips/:id/join", controller.JoinTrip)
	authed.POST("/trips/:id/leave", controller.LeaveTrip)
	authed.POST("/trips/:id/comments", controller.AddComment)

	return router
}

func TestCreateTripReturns201(t *testing.T) {
	svc := &fakeTripService{
		createTripFn: func(ctx context.Context, creatorID int64, req *dto.CreateTripRequest) (*dto.TripResponse, error) {
			assert.Equal(t, int64(1), creatorID)
			return &dto.TripResponse{ID: 42, Status: "ACTIVE", CreatorID: creatorID}, nil
		},
	}
	router := setupRouter(svc, 1)

	body, _ := json.Marshal(dto.CreateTripRequest{
		Title:           "Coast drive",
		FromCity:        "Izmir",
		ToCity:          "Bodrum",
		TravelDate:      time.Now().AddDate(0, 1, 0).Format("2006-01-02"),
		MaxParticipants: 3,
	})

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodPost, "/trips", bytes.NewReader(body))
	request.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(recorder, request)

	require.Equal(t, http.StatusCreated, recorder.Code)

	var envelope dto.APIResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	assert.True(t, envelope.Success)
}

func TestCreateTripRejectsMalformedBody(t *testing.T) {
	router := setupRouter(&fakeTripService{}, 1)

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodPost, "/trips", bytes.NewBufferString(`{"title":`))
	request.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestCreateTripWithoutUserReturns401(t *testing.T) {
	router := setupRouter(&fakeTripService{}, 0)

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodPost, "/trips", bytes.NewBufferString(`{}`))
	request.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestJoinTripConflictMapsTo409(t *testing.T) {
	svc := &fakeTripService{
		joinTripFn: func(ctx context.Context, tripID, userID int64) (*dto.TripResponse, error) {
			return nil, apperrors.ErrTripFull
		},
	}
	router := setupRouter(svc, 2)

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodPost, "/trips/7/join", nil)
	router.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusConflict, recorder.Code)
}

func TestLeaveTripForbiddenForCreator(t *testing.T) {
	svc := &fakeTripService{
		leaveTripFn: func(ctx context.Context, tripID, userID int64) (*dto.TripResponse, error) {
			return nil, apperrors.ErrCreatorCannotLeave
		},
	}
	router := setupRouter(svc, 1)

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodPost, "/trips/7/leave", nil)
	router.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusForbidden, recorder.Code)
}

func TestAddCommentReturnsThreadWith200(t *testing.T) {
	svc := &fakeTripService{
		addCommentFn: func(ctx context.Context, tripID, authorID int64, req *dto.CreateTripCommentRequest) (*dto.TripCommentListResponse, error) {
			return &dto.TripCommentListResponse{Comments: []dto.TripCommentResponse{
				{ID: 10, TripID: tripID, AuthorID: 1, Content: "Leaving at dawn"},
				{ID: 11, TripID: tripID, AuthorID: authorID, Content: req.Content},
			}}, nil
		},
	}
	router := setupRouter(svc, 2)

	body, _ := json.Marshal(dto.CreateTripCommentRequest{Content: "Is there room for a dog?"})

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodPost, "/trips/7/comments", bytes.NewReader(body))
	request.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(recorder, request)

	require.Equal(t, http.StatusOK, recorder.Code)

	var envelope struct {
		Success bool                        `json:"success"`
		Data    dto.TripCommentListResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	assert.True(t, envelope.Success)
	assert.Len(t, envelope.Data.Comments, 2)
}

func TestGetTripInvalidIDReturns400(t *testing.T) {
	router := setupRouter(&fakeTripService{}, 1)

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/trips/abc", nil)
	router.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}
