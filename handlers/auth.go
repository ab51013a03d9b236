package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"meeteasy-backend/models"
	"meeteasy-backend/utils"
)

// POST /auth/register
func (h *Handler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	// Check if email already exists
	existing, err := h.Users.FindByEmail(c.Request.Context(), req.Email)
	if err != nil {
		utils.ServiceError(c, err)
		return
	}
	if existing != nil {
		utils.BadRequest(c, "Email already registered")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.InternalError(c, "Failed to hash password")
		return
	}

	profile := &models.UserProfile{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hashedPassword),
	}

	id, err := h.Users.CreateProfile(c.Request.Context(), profile)
	if err != nil {
		utils.ServiceError(c, err)
		return
	}
	profile.ID = id

	token, err := utils.GenerateToken(id, profile.Email)
	if err != nil {
		utils.InternalError(c, "Failed to generate token")
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Registration successful", models.AuthResponse{
		Token: token,
		User:  *profile,
	})
}

// POST /auth/login
func (h *Handler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	profile, err := h.Users.FindByEmail(c.Request.Context(), req.Email)
	if err != nil {
		utils.ServiceError(c, err)
		return
	}
	if profile == nil {
		utils.Unauthorized(c, "Invalid email or password")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(req.Password)); err != nil {
		utils.Unauthorized(c, "Invalid email or password")
		return
	}

	token, err := utils.GenerateToken(profile.ID, profile.Email)
	if err != nil {
		utils.InternalError(c, "Failed to generate token")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Login successful", models.AuthResponse{
		Token: token,
		User:  *profile,
	})
}
