package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/versefinder/versefinder/internal/middleware"
	"github.com/versefinder/versefinder/internal/store"
)

// GrantCreditsInput defines the body for an administrative top-up.
type GrantCreditsInput struct {
	Amount int `json:"amount" binding:"required,gt=0"`
}

// GrantCredits adds credits to a user's account.
func (h *Handlers) GrantCredits(c *gin.Context) {
	// 1. Parse Input
	var input GrantCreditsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	userID := c.Param("id")

	// 2. Grant
	balance, err := h.Store.Grant(c.Request.Context(), userID, input.Amount)
	if errors.Is(err, store.ErrAccountNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
		return
	}
	if err != nil {
		h.Log.Error("failed to grant credits", zap.String("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to grant credits"})
		return
	}

	// 3. Audit
	admin, _ := middleware.SessionFrom(c)
	h.Log.Info("credits granted",
		zap.String("admin_id", admin.UserID),
		zap.String("user_id", userID),
		zap.Int("amount", input.Amount),
		zap.Int("balance", balance))

	c.JSON(http.StatusOK, gin.H{"userId": userID, "credits": balance})
}
