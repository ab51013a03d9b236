package handlers

import "meeteasy-backend/services"

// Handler holds the service dependencies for every route. Constructed once in
// main and passed explicitly, so tests can swap in services backed by the
// in-memory store.
type Handler struct {
	Meetings      *services.MeetingService
	Users         *services.UserService
	Chat          *services.ChatService
	Notifications *services.NotificationService
}

func New(meetings *services.MeetingService, users *services.UserService, chat *services.ChatService, notifications *services.NotificationService) *Handler {
	return &Handler{
		Meetings:      meetings,
		Users:         users,
		Chat:          chat,
		Notifications: notifications,
	}
}
