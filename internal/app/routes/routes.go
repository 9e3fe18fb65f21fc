package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/tripmate/tripmate/internal/app/controllers"
	"github.com/tripmate/tripmate/internal/app/models/dto"
	"github.com/tripmate/tripmate/internal/middleware"
	"github.com/tripmate/tripmate/internal/pkg/websocket"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	tripController *controllers.TripController,
	conversationController *controllers.ConversationController,
	wsHandler *websocket.Handler,
	authMiddleware *middleware.AuthMiddleware,
) {
	// API version group
	v1 := router.Group("/api/v1")

	// Everything except the health check requires a valid token
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		trips := authenticated.Group("/trips")
		{
			trips.GET("", tripController.ListTrips)
			trips.POST("", tripController.CreateTrip)
			trips.GET("/:id", tripController.GetTrip)
			trips.POST("/:id/join", tripController.JoinTrip)
			trips.POST("/:id/leave", tripController.LeaveTrip)
			trips.PUT("/:id/status", tripController.UpdateTripStatus)
			trips.GET("/:id/comments", tripController.GetComments)
			trips.POST("/:id/comments", tripController.AddComment)
		}

		conversations := authenticated.Group("/conversations")
		{
			conversations.GET("", conversationController.ListConversations)
			conversations.GET("/with/:counterpartId", conversationController.GetOrStartConversation)
			conversations.POST("/:id/messages", conversationController.SendMessage)
			conversations.PUT("/:id/read", conversationController.MarkRead)
		}

		// Presence and delivery channel
		authenticated.GET("/ws", wsHandler.HandleConnection)
	}

	// Health check endpoint (public)
	v1.GET("/health", func(c *gin.Context) {
		c.JSON(200, dto.APIResponse{
			Success: true,
			Data:    gin.H{"status": "ok"},
		})
	})
}
