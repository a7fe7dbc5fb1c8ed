package handlers

import (
	"go.uber.org/zap"

	"github.com/versefinder/versefinder/internal/config"
	"github.com/versefinder/versefinder/internal/search"
	"github.com/versefinder/versefinder/internal/store"
)

// Handlers struct holds all dependencies for our handlers.
type Handlers struct {
	Store    *store.Store         // Credit accounts and search history
	Pipeline *search.Pipeline     // One scripture search, start to finish
	Credits  config.CreditsConfig // Starting allotment and low-balance threshold
	Log      *zap.Logger
}
