package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/versefinder/versefinder/internal/middleware"
	"github.com/versefinder/versefinder/internal/search"
)

// StoryRef is the optional id of an earlier history entry to edit. The
// client sends either the id or false, so both (and null) are accepted.
type StoryRef string

func (s *StoryRef) UnmarshalJSON(b []byte) error {
	switch string(bytes.TrimSpace(b)) {
	case "null", "false":
		*s = ""
		return nil
	}

	var id string
	if err := json.Unmarshal(b, &id); err != nil {
		return errors.New("storyId must be a string or false")
	}
	*s = StoryRef(strings.TrimSpace(id))
	return nil
}

// SearchInput defines the structure of the JSON request body.
type SearchInput struct {
	Query   string   `json:"query" binding:"required,notblank"`
	StoryID StoryRef `json:"storyId"`
}

// Search resolves a story to a scripture passage and records it in the
// user's history.
func (h *Handlers) Search(c *gin.Context) {
	// 1. Get the session (set by AuthMiddleware)
	session, ok := middleware.SessionFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"text": "Authentication failed", "error": "Authentication failed"})
		return
	}

	// 2. Parse Input
	var input SearchInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"text": "Invalid search request", "error": err.Error()})
		return
	}

	// 3. Run the pipeline; it has already chosen the status for every outcome
	result := h.Pipeline.Run(c.Request.Context(), search.Request{
		Session: session,
		Query:   strings.TrimSpace(input.Query),
		StoryID: string(input.StoryID),
	})

	c.JSON(result.Status, result.Body)
}
