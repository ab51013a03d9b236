package handlers

import (
	"io"
	"sync"

	"github.com/gin-gonic/gin"

	"meeteasy-backend/models"
	"meeteasy-backend/utils"
)

// Realtime updates are exposed to clients as server-sent events. Each stream
// holds one store subscription for the life of the connection and releases it
// on disconnect.

// GET /api/meetings/:id/stream
func (h *Handler) StreamMeeting(c *gin.Context) {
	meetingID := c.Param("id")

	if _, ok := h.requireParticipant(c, meetingID); !ok {
		return
	}

	events := make(chan *models.Meeting, 16)
	deleted := make(chan struct{})
	var once sync.Once
	unsubscribe, err := h.Meetings.SubscribeToMeeting(c.Request.Context(), meetingID, func(m *models.Meeting) {
		// The terminal event bypasses the drop policy: a full events
		// buffer must not leave the stream open on a deleted meeting.
		if m == nil {
			once.Do(func() { close(deleted) })
			return
		}
		select {
		case events <- m:
		default: // drop when the client cannot keep up; the next event carries full state
		}
	})
	if err != nil {
		utils.ServiceError(c, err)
		return
	}
	defer unsubscribe()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-deleted:
			c.SSEvent("deleted", gin.H{"id": meetingID})
			return false
		case m := <-events:
			c.SSEvent("meeting", m)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

// GET /api/meetings/stream
func (h *Handler) StreamUserMeetings(c *gin.Context) {
	userID := utils.GetCurrentUserID(c)

	events := make(chan []*models.Meeting, 16)
	unsubscribe, err := h.Meetings.SubscribeToUserMeetings(c.Request.Context(), userID, func(meetings []*models.Meeting) {
		select {
		case events <- meetings:
		default:
		}
	})
	if err != nil {
		utils.ServiceError(c, err)
		return
	}
	defer unsubscribe()

	c.Stream(func(w io.Writer) bool {
		select {
		case meetings := <-events:
			c.SSEvent("meetings", meetings)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

// GET /api/meetings/:id/messages/stream
func (h *Handler) StreamMessages(c *gin.Context) {
	meetingID := c.Param("id")

	if _, ok := h.requireParticipant(c, meetingID); !ok {
		return
	}

	events := make(chan []*models.Message, 16)
	unsubscribe, err := h.Chat.SubscribeToMessages(c.Request.Context(), meetingID, func(messages []*models.Message) {
		select {
		case events <- messages:
		default:
		}
	})
	if err != nil {
		utils.ServiceError(c, err)
		return
	}
	defer unsubscribe()

	c.Stream(func(w io.Writer) bool {
		select {
		case messages := <-events:
			c.SSEvent("messages", messages)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
