package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/versefinder/versefinder/internal/middleware"
	"github.com/versefinder/versefinder/internal/models"
	"github.com/versefinder/versefinder/internal/store"
)

// CreditsResponse is the balance shown in the client's header bar.
type CreditsResponse struct {
	Credits    int  `json:"credits"`
	LowCredits bool `json:"lowCredits"`
}

// ProvisionUser is called by the client right after sign-in. It creates the
// credit account with the starting allotment the first time and returns the
// current balance every time.
func (h *Handlers) ProvisionUser(c *gin.Context) {
	session, ok := middleware.SessionFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	acct := models.CreditAccount{
		UserID:  session.UserID,
		Credits: h.Credits.Starting,
	}
	if session.Name != "" {
		acct.Name = &session.Name
	}
	if session.Email != "" {
		acct.Email = &session.Email
	}
	if session.Picture != "" {
		acct.PhotoURL = &session.Picture
	}

	stored, err := h.Store.Provision(c.Request.Context(), acct)
	if err != nil {
		h.Log.Error("failed to provision account", zap.String("user_id", session.UserID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to set up account"})
		return
	}

	c.JSON(http.StatusOK, h.creditsResponse(stored))
}

// GetCredits returns the signed-in user's balance.
func (h *Handlers) GetCredits(c *gin.Context) {
	session, ok := middleware.SessionFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	acct, err := h.Store.Account(c.Request.Context(), session.UserID)
	if errors.Is(err, store.ErrAccountNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
		return
	}
	if err != nil {
		h.Log.Error("failed to read account", zap.String("user_id", session.UserID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read credits"})
		return
	}

	c.JSON(http.StatusOK, h.creditsResponse(acct))
}

func (h *Handlers) creditsResponse(acct models.CreditAccount) CreditsResponse {
	return CreditsResponse{
		Credits:    acct.Credits,
		LowCredits: acct.IsLow(h.Credits.LowThreshold),
	}
}
