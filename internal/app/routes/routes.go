package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/AngelaEmileJose/KNU-Link/internal/app/controllers"
	"github.com/AngelaEmileJose/KNU-Link/internal/pkg/realtime"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	profileController *controllers.ProfileController,
	postController *controllers.PostController,
	chatController *controllers.ChatController,
	realtimeHandler *realtime.Handler,
) {
	// API version group
	v1 := router.Group("/api/v1")

	// Profile routes: pseudonymous registration and student-ID lookup.
	// There is deliberately no authentication layer in front of these.
	profiles := v1.Group("/profiles")
	{
		profiles.POST("", profileController.Register)
		profiles.GET("/:studentID", profileController.Lookup)
		profiles.GET("/:studentID/joined", profileController.ListJoined)
	}

	// Post routes: the swipeable activity feed and per-post chatrooms
	posts := v1.Group("/posts")
	{
		posts.GET("", postController.List)
		posts.POST("", postController.Create)
		posts.GET("/:id", postController.Get)
		posts.POST("/:id/participations", postController.Join)
		posts.GET("/:id/messages", chatController.ListMessages)
		posts.POST("/:id/messages", chatController.SendMessage)
	}

	// Change-feed subscription endpoint (WebSocket upgrade)
	v1.GET("/realtime", realtimeHandler.HandleConnection)
}
