package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/versefinder/versefinder/internal/middleware"
	"github.com/versefinder/versefinder/internal/models"
	"github.com/versefinder/versefinder/internal/store"
)

const (
	defaultHistoryLimit = 10
	maxHistoryLimit     = 50
)

// HistoryItem is a history entry as sent to the client.
type HistoryItem struct {
	models.HistoryEntry
	Found bool `json:"found"`
}

func historyItem(e models.HistoryEntry) HistoryItem {
	return HistoryItem{HistoryEntry: e, Found: e.Found()}
}

// ListHistory returns the user's most recent searches, newest first.
func (h *Handlers) ListHistory(c *gin.Context) {
	session, ok := middleware.SessionFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	// 1. Parse the limit
	limit := defaultHistoryLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = min(n, maxHistoryLimit)
	}

	// 2. Query
	entries, err := h.Store.List(c.Request.Context(), session.UserID, limit)
	if err != nil {
		h.Log.Error("failed to list history", zap.String("user_id", session.UserID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load history"})
		return
	}

	items := make([]HistoryItem, 0, len(entries))
	for _, e := range entries {
		items = append(items, historyItem(e))
	}
	c.JSON(http.StatusOK, gin.H{"history": items})
}

// GetHistoryEntry returns one entry, used when the user edits a story.
func (h *Handlers) GetHistoryEntry(c *gin.Context) {
	session, ok := middleware.SessionFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	entry, err := h.Store.Get(c.Request.Context(), session.UserID, c.Param("id"))
	if errors.Is(err, store.ErrEntryNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "History entry not found"})
		return
	}
	if err != nil {
		h.Log.Error("failed to read history entry", zap.String("user_id", session.UserID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load history entry"})
		return
	}

	c.JSON(http.StatusOK, historyItem(entry))
}
