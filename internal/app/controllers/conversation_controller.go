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

// ConversationController handles direct messaging endpoints
type ConversationController struct {
	conversationService services.ConversationService
	logger              zerolog.Logger
}

// NewConversationController creates a new ConversationController
func NewConversationController(conversationService services.ConversationService, logger zerolog.Logger) *ConversationController {
	return &ConversationController{
		conversationService: conversationService,
		logger:              logger,
	}
}

// ListConversations handles GET /conversations
func (c *ConversationController) ListConversations(ctx *gin.Context) {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required"),
		})
		return
	}

	conversations, err := c.conversationService.ListConversations(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(conversations))
}

// GetOrStartConversation handles GET /conversations/with/:counterpartId.
// The conversation is created on first contact; an optional relatedTrip
// query parameter links it to the trip that prompted it.
func (c *ConversationController) GetOrStartConversation(ctx *gin.Context) {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required"),
		})
		return
	}

	counterpartID, ok := parseIDParam(ctx, "counterpartId")
	if !ok {
		return
	}

	var relatedTripID *int64
	if raw := ctx.Query("relatedTrip"); raw != "" {
		tripID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || tripID <= 0 {
			ctx.JSON(http.StatusBadRequest, dto.APIResponse{
				Error: dto.NewErrorDetail(dto.ErrorCodeInvalidRequest, "Invalid relatedTrip parameter"),
			})
			return
		}
		relatedTripID = &tripID
	}

	conversation, err := c.conversationService.GetOrStartConversation(ctx.Request.Context(), userID, counterpartID, relatedTripID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(conversation))
}

// SendMessage handles POST /conversations/:id/messages
func (c *ConversationController) SendMessage(ctx *gin.Context) {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required"),
		})
		return
	}

	conversationID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.SendMessageRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	message, err := c.conversationService.SendMessage(ctx.Request.Context(), conversationID, userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(message))
}

// MarkRead handles PUT /conversations/:id/read
func (c *ConversationController) MarkRead(ctx *gin.Context) {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required"),
		})
		return
	}

	conversationID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	updated, err := c.conversationService.MarkRead(ctx.Request.Context(), conversationID, userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{"updated": updated}))
}
