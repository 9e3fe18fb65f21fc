package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/tripmate/tripmate/internal/app/models/dto"
	"github.com/tripmate/tripmate/internal/app/services"
	"github.com/tripmate/tripmate/internal/middleware"
)

// TripController handles trip and roster endpoints
type TripController struct {
	tripService services.TripService
	logger      zerolog.Logger
}

// NewTripController creates a new TripController
func NewTripController(tripService services.TripService, logger zerolog.Logger) *TripController {
	return &TripController{
		tripService: tripService,
		logger:      logger,
	}
}

// CreateTrip handles POST /trips
func (c *TripController) CreateTrip(ctx *gin.Context) {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required"),
		})
		return
	}

	var req dto.CreateTripRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	trip, err := c.tripService.CreateTrip(ctx.Request.Context(), userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(trip))
}

// GetTrip handles GET /trips/:id
func (c *TripController) GetTrip(ctx *gin.Context) {
	tripID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	trip, err := c.tripService.GetTrip(ctx.Request.Context(), tripID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(trip))
}

// ListTrips handles GET /trips
func (c *TripController) ListTrips(ctx *gin.Context) {
	var filter dto.TripFilterRequest
	if err := ctx.ShouldBindQuery(&filter); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeValidationFailed, err.Error()),
		})
		return
	}

	trips, err := c.tripService.ListTrips(ctx.Request.Context(), &filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(trips))
}

// JoinTrip handles POST /trips/:id/join
func (c *TripController) JoinTrip(ctx *gin.Context) {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required"),
		})
		return
	}

	tripID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	trip, err := c.tripService.JoinTrip(ctx.Request.Context(), tripID, userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(trip))
}

// LeaveTrip handles POST /trips/:id/leave
func (c *TripController) LeaveTrip(ctx *gin.Context) {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required"),
		})
		return
	}

	tripID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	trip, err := c.tripService.LeaveTrip(ctx.Request.Context(), tripID, userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(trip))
}

// UpdateTripStatus handles PUT /trips/:id/status
func (c *TripController) UpdateTripStatus(ctx *gin.Context) {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required"),
		})
		return
	}

	tripID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateTripStatusRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	trip, err := c.tripService.UpdateTripStatus(ctx.Request.Context(), tripID, userID, req.Status)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(trip))
}

// AddComment handles POST /trips/:id/comments, returning the updated thread
func (c *TripController) AddComment(ctx *gin.Context) {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required"),
		})
		return
	}

	tripID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.CreateTripCommentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	comments, err := c.tripService.AddComment(ctx.Request.Context(), tripID, userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(comments))
}

// GetComments handles GET /trips/:id/comments
func (c *TripController) GetComments(ctx *gin.Context) {
	tripID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	comments, err := c.tripService.GetComments(ctx.Request.Context(), tripID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(comments))
}

// parseIDParam parses a positive int64 path parameter, writing the 400
// response itself on failure.
func parseIDParam(ctx *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil || id <= 0 {
		ctx.JSON(http.StatusBadRequest, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeInvalidRequest, "Invalid id parameter"),
		})
		return 0, false
	}
	return id, true
}
