package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"meeteasy-backend/services"
)

// Standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func SuccessResponse(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func ErrorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, APIResponse{
		Success: false,
		Message: message,
	})
}

func BadRequest(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusBadRequest, message)
}

func Unauthorized(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusUnauthorized, message)
}

func Forbidden(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusForbidden, message)
}

func NotFound(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusNotFound, message)
}

func InternalError(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusInternalServerError, message)
}

// ServiceError maps a service-layer error onto the matching HTTP status.
func ServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrValidation):
		BadRequest(c, err.Error())
	case errors.Is(err, services.ErrNotFound):
		NotFound(c, err.Error())
	case errors.Is(err, services.ErrPermissionDenied):
		Forbidden(c, err.Error())
	case errors.Is(err, services.ErrCodeGenerationExhausted):
		ErrorResponse(c, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, services.ErrBackendUnavailable):
		ErrorResponse(c, http.StatusServiceUnavailable, err.Error())
	default:
		InternalError(c, err.Error())
	}
}

// Get current user ID from context (set by auth middleware)
func GetCurrentUserID(c *gin.Context) string {
	userID, exists := c.Get("user_id")
	if !exists {
		return ""
	}
	return userID.(string)
}
