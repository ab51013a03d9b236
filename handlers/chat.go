package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"meeteasy-backend/models"
	"meeteasy-backend/utils"
)

// POST /api/meetings/:id/messages
func (h *Handler) SendMessage(c *gin.Context) {
	userID := utils.GetCurrentUserID(c)
	meetingID := c.Param("id")

	if _, ok := h.requireParticipant(c, meetingID); !ok {
		return
	}

	var req models.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	profile, err := h.Users.GetProfile(c.Request.Context(), userID)
	if err != nil {
		utils.ServiceError(c, err)
		return
	}
	if profile == nil {
		utils.Unauthorized(c, "Profile not found")
		return
	}

	msg := models.Message{
		MeetingID:      meetingID,
		SenderID:       userID,
		SenderName:     profile.Name,
		SenderPhotoURL: profile.PhotoURL,
		Type:           req.Type,
		Content:        req.Content,
		ImageURL:       req.ImageURL,
	}

	var id string
	if req.Type == models.MessageNotice {
		id, err = h.Chat.SendNotice(c.Request.Context(), msg)
	} else {
		id, err = h.Chat.SendMessage(c.Request.Context(), msg)
	}
	if err != nil {
		utils.ServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Message sent", gin.H{"id": id})
}

// GET /api/meetings/:id/messages
func (h *Handler) GetMessages(c *gin.Context) {
	meetingID := c.Param("id")

	if _, ok := h.requireParticipant(c, meetingID); !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	messages, err := h.Chat.ListMessages(c.Request.Context(), meetingID, limit)
	if err != nil {
		utils.ServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", messages)
}

// DELETE /api/meetings/:id/messages/:messageId
func (h *Handler) DeleteMessage(c *gin.Context) {
	if _, ok := h.requireParticipant(c, c.Param("id")); !ok {
		return
	}

	if err := h.Chat.DeleteMessage(c.Request.Context(), c.Param("messageId")); err != nil {
		utils.ServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Message deleted", nil)
}
