package main

import (
	"log"

	"github.com/gin-gonic/gin"

	"meeteasy-backend/cache"
	"meeteasy-backend/config"
	"meeteasy-backend/database"
	"meeteasy-backend/handlers"
	"meeteasy-backend/middleware"
	"meeteasy-backend/services"
	"meeteasy-backend/store"
)

func main() {
	// Load configuration
	config.Load()

	// Connect to Firebase (Firestore + FCM)
	database.ConnectFirebase()

	// Connect to Redis (optional, won't crash if unavailable)
	database.ConnectRedis()

	// Wire services
	st := store.NewFirestoreStore(database.Firestore)

	// Client state store: Redis when available, in-process otherwise
	var meetingCache cache.MeetingCache
	if database.Redis != nil {
		meetingCache = cache.NewMeetingCache(database.Redis)
	} else {
		meetingCache = cache.NewMemoryMeetingCache()
	}

	users := services.NewUserService(st)
	meetings := services.NewMeetingService(st, meetingCache)
	chat := services.NewChatService(st)
	notifications := services.NewNotificationService(users, database.FCM)

	h := handlers.New(meetings, users, chat, notifications)

	// Setup router
	r := gin.Default()
	r.Use(middleware.CORSMiddleware())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": config.AppConfig.AppName,
		})
	})

	// ==========================================
	// AUTH ROUTES (public)
	// ==========================================
	auth := r.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
	}

	// ==========================================
	// API ROUTES (authenticated)
	// ==========================================
	api := r.Group("/api")
	api.Use(middleware.AuthRequired())
	{
		// User
		api.GET("/users/me", h.GetProfile)
		api.PUT("/users/me", h.UpdateProfile)
		api.PUT("/users/me/fcm-token", h.UpdateFCMToken)
		api.DELETE("/users/me", h.DeleteAccount)

		// Meetings
		api.POST("/meetings", h.CreateMeeting)
		api.GET("/meetings", h.GetMeetings)
		api.GET("/meetings/stream", h.StreamUserMeetings)
		api.POST("/meetings/join", h.JoinMeeting)
		api.GET("/meetings/:id", h.GetMeeting)
		api.PUT("/meetings/:id", h.UpdateMeeting)
		api.DELETE("/meetings/:id", h.DeleteMeeting)
		api.GET("/meetings/:id/stream", h.StreamMeeting)
		api.POST("/meetings/:id/invite", h.InviteByEmail)

		// Participants
		api.PUT("/meetings/:id/participants/me/status", h.UpdateMyStatus)
		api.DELETE("/meetings/:id/participants/me", h.LeaveMeeting)

		// Scheduling
		api.POST("/meetings/:id/options", h.AddScheduleOption)
		api.DELETE("/meetings/:id/options/:optionId", h.RemoveScheduleOption)
		api.POST("/meetings/:id/options/:optionId/vote", h.ToggleVote)
		api.GET("/meetings/:id/best-option", h.BestOption)
		api.POST("/meetings/:id/confirm", h.ConfirmSchedule)

		// Chat
		api.POST("/meetings/:id/messages", h.SendMessage)
		api.GET("/meetings/:id/messages", h.GetMessages)
		api.GET("/meetings/:id/messages/stream", h.StreamMessages)
		api.DELETE("/meetings/:id/messages/:messageId", h.DeleteMessage)
	}

	// Start server
	port := config.AppConfig.Port
	log.Printf("🚀 %s server starting on port %s", config.AppConfig.AppName, port)

	addr := "0.0.0.0:" + port
	if err := r.Run(addr); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
