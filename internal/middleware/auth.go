// Package middleware holds the gin middleware shared by every route group.
package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/versefinder/versefinder/internal/auth"
)

const sessionKey = "session"

// AuthMiddleware verifies the bearer token and stores the resulting
// auth.Session on the context. Nothing behind it runs for an
// unauthenticated request.
func AuthMiddleware(verifier auth.Verifier, log *zap.Logger) gin.HandlerFunc {
	log = log.Named("auth")

	return func(c *gin.Context) {
		// 1. --- Get Authorization Header ---
		token, err := auth.BearerToken(c.GetHeader("Authorization"))
		if errors.Is(err, auth.ErrMissingToken) {
			abortUnauthorized(c, "No authentication token provided")
			return
		}
		if err != nil {
			abortUnauthorized(c, "Authentication failed")
			return
		}

		// 2. --- Validate Token ---
		session, err := verifier.Verify(c.Request.Context(), token)
		if err != nil {
			log.Info("token rejected", zap.String("path", c.FullPath()), zap.Error(err))
			abortUnauthorized(c, "Authentication failed")
			return
		}

		// 3. --- Success ---
		c.Set(sessionKey, session)
		c.Next()
	}
}

// SessionFrom returns the session stored by AuthMiddleware.
func SessionFrom(c *gin.Context) (auth.Session, bool) {
	v, ok := c.Get(sessionKey)
	if !ok {
		return auth.Session{}, false
	}
	session, ok := v.(auth.Session)
	return session, ok
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"text": msg, "error": msg})
}
