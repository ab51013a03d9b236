package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"meeteasy-backend/utils"
)

// AuthRequired rejects requests without a valid bearer token and stores the
// caller's identity on the context.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			utils.Unauthorized(c, "Authorization header required")
			c.Abort()
			return
		}

		userID, email, err := utils.ParseToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			utils.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set("user_id", userID)
		c.Set("email", email)
		c.Next()
	}
}
