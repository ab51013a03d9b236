package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"meeteasy-backend/models"
	"meeteasy-backend/utils"
)

// GET /api/users/me
func (h *Handler) GetProfile(c *gin.Context) {
	userID := utils.GetCurrentUserID(c)

	profile, err := h.Users.GetProfile(c.Request.Context(), userID)
	if err != nil {
		utils.ServiceError(c, err)
		return
	}
	if profile == nil {
		utils.NotFound(c, "Profile not found")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", profile)
}

// PUT /api/users/me
func (h *Handler) UpdateProfile(c *gin.Context) {
	userID := utils.GetCurrentUserID(c)

	var req models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	if err := h.Users.UpdateProfile(c.Request.Context(), userID, req); err != nil {
		utils.ServiceError(c, err)
		return
	}

	profile, err := h.Users.GetProfile(c.Request.Context(), userID)
	if err != nil {
		utils.ServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Profile updated", profile)
}

// PUT /api/users/me/fcm-token
func (h *Handler) UpdateFCMToken(c *gin.Context) {
	userID := utils.GetCurrentUserID(c)

	var req models.UpdateFCMTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	if err := h.Users.UpdateFCMToken(c.Request.Context(), userID, req.FCMToken); err != nil {
		utils.ServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Token updated", nil)
}

// DELETE /api/users/me
func (h *Handler) DeleteAccount(c *gin.Context) {
	userID := utils.GetCurrentUserID(c)

	if err := h.Users.DeleteProfile(c.Request.Context(), userID); err != nil {
		utils.ServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Account deleted", nil)
}
