package routes

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/versefinder/versefinder/internal/auth"
	"github.com/versefinder/versefinder/internal/handlers"
	"github.com/versefinder/versefinder/internal/middleware"
)

// Options carries what the router needs besides the handlers.
type Options struct {
	AllowedOrigins []string
	Verifier       auth.Verifier
	IsAdmin        func(userID string) bool
	Log            *zap.Logger
}

func SetupRouter(h *handlers.Handlers, opts Options) (*gin.Engine, error) {
	if err := handlers.RegisterValidators(); err != nil {
		return nil, fmt.Errorf("failed to register validators: %w", err)
	}

	router := gin.New()
	router.Use(gin.Recovery())

	// CORS must run before anything can reject the request
	router.Use(middleware.CORSMiddleware(opts.AllowedOrigins))
	router.Use(middleware.LoggerMiddleware(opts.Log))

	// Every other method or path gets the same not-found body
	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"text": "not found"})
	})

	v1 := router.Group("/v1")
	{
		// --- Ping Route (Public) ---
		v1.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"message": "pong!"})
		})

		// --- Protected Routes ---
		protected := v1.Group("/")
		protected.Use(middleware.AuthMiddleware(opts.Verifier, opts.Log))
		{
			protected.POST("/search", h.Search)

			protected.POST("/users/me", h.ProvisionUser)
			protected.GET("/credits", h.GetCredits)

			protected.GET("/history", h.ListHistory)
			protected.GET("/history/:id", h.GetHistoryEntry)

			// --- Admin Routes ---
			admin := protected.Group("/admin")
			admin.Use(middleware.AdminMiddleware(opts.IsAdmin))
			{
				admin.POST("/users/:id/credits", h.GrantCredits)
			}
		}
	}

	return router, nil
}
