package middleware

import (
	"net/http"

	"github.com/kundanmehta01/UniNotes-sub001/domain"

	"github.com/gin-gonic/gin"
)

// AdminOnly gates moderation and taxonomy-management routes. It relies on the
// auth middleware having stored the token's role in the context.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString("role") != domain.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"message": "This action requires an admin account",
			})
			return
		}
		c.Next()
	}
}
