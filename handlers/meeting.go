package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"meeteasy-backend/models"
	"meeteasy-backend/utils"
)

// POST /api/meetings
func (h *Handler) CreateMeeting(c *gin.Context) {
	userID := utils.GetCurrentUserID(c)

	var req models.CreateMeetingRequest
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

	meeting := &models.Meeting{
		Title:       req.Title,
		Description: req.Description,
		CreatorID:   userID,
		CreatorName: profile.Name,
		Status:      models.MeetingPlanning,
		Location:    req.Location,
		Participants: []models.Participant{{
			ID:           userID,
			Name:         profile.Name,
			Email:        profile.Email,
			ProfileImage: profile.PhotoURL,
			Status:       models.ParticipantConfirmed,
		}},
	}

	id, err := h.Meetings.Create(c.Request.Context(), meeting)
	if err != nil {
		utils.ServiceError(c, err)
		return
	}

	created, err := h.Meetings.Get(c.Request.Context(), id)
	if err != nil {
		utils.ServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Meeting created", created)
}

// GET /api/meetings
func (h *Handler) GetMeetings(c *gin.Context) {
	userID := utils.GetCurrentUserID(c)

	meetings, err := h.Meetings.ListUserMeetings(c.Request.Context(), userID)
	if err != nil {
		utils.ServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", meetings)
}

// GET /api/meetings/:id
func (h *Handler) GetMeeting(c *gin.Context) {
	userID := utils.GetCurrentUserID(c)

	meeting, err := h.Meetings.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.ServiceError(c, err)
		return
	}
	if meeting == nil {
		utils.NotFound(c, "Meeting not found")
		return
	}
	if meeting.CreatorID != userID && !meeting.IsParticipant(userID) {
		utils.Forbidden(c, "You are not a participant of this meeting")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", meeting)
}

// PUT /api/meetings/:id
func (h *Handler) UpdateMeeting(c *gin.Context) {
	userID := utils.GetCurrentUserID(c)
	meetingID := c.Param("id")

	meeting, err := h.Meetings.Get(c.Request.Context(), meetingID)
	if err != nil {
		utils.ServiceError(c, err)
		return
	}
	if meeting == nil {
		utils.NotFound(c, "Meeting not found")
		return
	}
	if meeting.CreatorID != userID {
		utils.Forbidden(c, "Only the creator can update the meeting")
		return
	}

	var req models.UpdateMeetingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	updates := models.MeetingUpdate{}
	if req.Title != "" {
		updates.Title = &req.Title
	}
	if req.Description != "" {
		updates.Description = &req.Description
	}
	if req.Status != "" {
		updates.Status = &req.Status
	}
	if req.Location != nil {
		updates.Location = req.Location
	}

	if err := h.Meetings.Update(c.Request.Context(), meetingID, updates); err != nil {
		utils.ServiceError(c, err)
		return
	}

	updated, err := h.Meetings.Get(c.Request.Context(), meetingID)
	if err != nil {
		utils.ServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Meeting updated", updated)
}

// DELETE /api/meetings/:id
func (h *Handler) DeleteMeeting(c *gin.Context) {
	userID := utils.GetCurrentUserID(c)
	meetingID := c.Param("id")

	meeting, err := h.Meetings.Get(c.Request.Context(), meetingID)
	if err != nil {
		utils.ServiceError(c, err)
		return
	}
	if meeting == nil {
		utils.NotFound(c, "Meeting not found")
		return
	}
	if meeting.CreatorID != userID {
		utils.Forbidden(c, "Only the creator can delete the meeting")
		return
	}

	if err := h.Meetings.Delete(c.Request.Context(), meetingID); err != nil {
		utils.ServiceError(c, err)
		return
	}

	// Meeting deletion does not cascade; the chat log is cleaned up here.
	if err := h.Chat.DeleteMeetingMessages(c.Request.Context(), meetingID); err != nil {
		utils.ServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Meeting deleted", nil)
}

// POST /api/meetings/join
func (h *Handler) JoinMeeting(c *gin.Context) {
	userID := utils.GetCurrentUserID(c)

	var req models.JoinMeetingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	meeting, err := h.Meetings.FindByInviteCode(c.Request.Context(), req.InviteCode)
	if err != nil {
		utils.ServiceError(c, err)
		return
	}
	if meeting == nil {
		utils.NotFound(c, "No meeting found for this invite code")
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

	participant := models.Participant{
		ID:           userID,
		Name:         profile.Name,
		Email:        profile.Email,
		ProfileImage: profile.PhotoURL,
		Status:       models.ParticipantPending,
	}

	if err := h.Meetings.Join(c.Request.Context(), meeting.ID, participant); err != nil {
		utils.ServiceError(c, err)
		return
	}

	go h.Notifications.NotifyParticipantJoined(context.Background(), meeting, participant)

	joined, err := h.Meetings.Get(c.Request.Context(), meeting.ID)
	if err != nil {
		utils.ServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Joined meeting", joined)
}

// PUT /api/meetings/:id/participants/me/status
func (h *Handler) UpdateMyStatus(c *gin.Context) {
	userID := utils.GetCurrentUserID(c)

	var req models.UpdateParticipantStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	if err := h.Meetings.UpdateParticipantStatus(c.Request.Context(), c.Param("id"), userID, req.Status); err != nil {
		utils.ServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Status updated", nil)
}

// DELETE /api/meetings/:id/participants/me
func (h *Handler) LeaveMeeting(c *gin.Context) {
	userID := utils.GetCurrentUserID(c)

	if err := h.Meetings.Leave(c.Request.Context(), c.Param("id"), userID); err != nil {
		utils.ServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Left meeting", nil)
}

// POST /api/meetings/:id/invite
func (h *Handler) InviteByEmail(c *gin.Context) {
	userID := utils.GetCurrentUserID(c)
	meetingID := c.Param("id")

	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	meeting, err := h.Meetings.Get(c.Request.Context(), meetingID)
	if err != nil {
		utils.ServiceError(c, err)
		return
	}
	if meeting == nil {
		utils.NotFound(c, "Meeting not found")
		return
	}
	if !meeting.IsParticipant(userID) {
		utils.Forbidden(c, "You are not a participant of this meeting")
		return
	}

	profile, err := h.Users.GetProfile(c.Request.Context(), userID)
	if err != nil {
		utils.ServiceError(c, err)
		return
	}
	inviterName := meeting.CreatorName
	if profile != nil {
		inviterName = profile.Name
	}

	go h.Notifications.NotifyInvitation(req.Email, inviterName, meeting.Title, meeting.InviteCode)

	utils.SuccessResponse(c, http.StatusOK, "Invitation sent", nil)
}
