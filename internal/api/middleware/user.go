package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	// USER_ID_HEADER carries the caller's user id, set by the upstream gateway after authentication
	USER_ID_HEADER = "X-User-ID"
	USER_ID_KEY    = "user_id"
)

// UserID stores the gateway-provided user id in the gin context
func UserID() gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID := strings.TrimSpace(c.GetHeader(USER_ID_HEADER)); userID != "" {
			c.Set(USER_ID_KEY, userID)
		}
		c.Next()
	}
}

// GetUserID returns the user id stored by UserID, or "" for anonymous requests
func GetUserID(c *gin.Context) string {
	return c.GetString(USER_ID_KEY)
}
