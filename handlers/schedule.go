package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"meeteasy-backend/models"
	"meeteasy-backend/services"
	"meeteasy-backend/utils"
)

// requireParticipant loads the meeting and checks the caller belongs to it.
func (h *Handler) requireParticipant(c *gin.Context, meetingID string) (*models.Meeting, bool) {
	userID := utils.GetCurrentUserID(c)

	meeting, err := h.Meetings.Get(c.Request.Context(), meetingID)
	if err != nil {
		utils.ServiceError(c, err)
		return nil, false
	}
	if meeting == nil {
		utils.NotFound(c, "Meeting not found")
		return nil, false
	}
	if meeting.CreatorID != userID && !meeting.IsParticipant(userID) {
		utils.Forbidden(c, "You are not a participant of this meeting")
		return nil, false
	}
	return meeting, true
}

// POST /api/meetings/:id/options
func (h *Handler) AddScheduleOption(c *gin.Context) {
	meetingID := c.Param("id")

	if _, ok := h.requireParticipant(c, meetingID); !ok {
		return
	}

	var req models.AddScheduleOptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		utils.BadRequest(c, "Invalid date, expected YYYY-MM-DD")
		return
	}

	option, err := h.Meetings.AddScheduleOption(c.Request.Context(), meetingID, date, req.Time)
	if err != nil {
		utils.ServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Schedule option added", option)
}

// DELETE /api/meetings/:id/options/:optionId
func (h *Handler) RemoveScheduleOption(c *gin.Context) {
	meetingID := c.Param("id")

	if _, ok := h.requireParticipant(c, meetingID); !ok {
		return
	}

	if err := h.Meetings.RemoveScheduleOption(c.Request.Context(), meetingID, c.Param("optionId")); err != nil {
		utils.ServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Schedule option removed", nil)
}

// POST /api/meetings/:id/options/:optionId/vote
func (h *Handler) ToggleVote(c *gin.Context) {
	userID := utils.GetCurrentUserID(c)
	meetingID := c.Param("id")

	if _, ok := h.requireParticipant(c, meetingID); !ok {
		return
	}

	if err := h.Meetings.ToggleVote(c.Request.Context(), meetingID, c.Param("optionId"), userID); err != nil {
		utils.ServiceError(c, err)
		return
	}

	meeting, err := h.Meetings.Get(c.Request.Context(), meetingID)
	if err != nil {
		utils.ServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Vote recorded", meeting)
}

// GET /api/meetings/:id/best-option
func (h *Handler) BestOption(c *gin.Context) {
	meeting, ok := h.requireParticipant(c, c.Param("id"))
	if !ok {
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", services.BestOption(meeting.ScheduleOptions))
}

// POST /api/meetings/:id/confirm
func (h *Handler) ConfirmSchedule(c *gin.Context) {
	userID := utils.GetCurrentUserID(c)
	meetingID := c.Param("id")

	if _, ok := h.requireParticipant(c, meetingID); !ok {
		return
	}

	var req models.ConfirmScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	if err := h.Meetings.ConfirmSchedule(c.Request.Context(), meetingID, req.OptionID); err != nil {
		utils.ServiceError(c, err)
		return
	}

	confirmed, err := h.Meetings.Get(c.Request.Context(), meetingID)
	if err != nil {
		utils.ServiceError(c, err)
		return
	}

	go h.Notifications.NotifyScheduleConfirmed(context.Background(), confirmed, userID)

	utils.SuccessResponse(c, http.StatusOK, "Schedule confirmed", confirmed)
}
