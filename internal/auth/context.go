package auth

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	CtxUserID = "user_id"
)

// UserID extracts the authenticated user's id from the Gin context.
// This is set by JWTAuthMiddleware.
func UserID(c *gin.Context) string {
	return strings.TrimSpace(c.GetString(CtxUserID))
}
