package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// AdminMiddleware lets through only users for whom isAdmin is true.
// It must run after AuthMiddleware.
func AdminMiddleware(isAdmin func(userID string) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. Get the session from AuthMiddleware
		session, ok := SessionFrom(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Session not found in context (AuthMiddleware must run first)"})
			return
		}

		// 2. Check permission
		if !isAdmin(session.UserID) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied: Admin role required"})
			return
		}

		c.Next()
	}
}
