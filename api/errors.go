package api

import (
	"errors"
	"net/http"

	"plottwist/domain/apperrors"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// respondError translates domain errors into HTTP responses. Expected
// failures map to 4xx statuses with a stable error body; anything else is
// logged and returned as a 500 without leaking internals.
func respondError(c *gin.Context, err error) {
	var limitErr *apperrors.CreatorBetLimitError
	if errors.As(err, &limitErr) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   limitErr.Error(),
			"code":    "creator_bet_limit",
			"max":     limitErr.Max,
			"current": limitErr.Current,
		})
		return
	}

	switch {
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "validation"})
	case errors.Is(err, apperrors.ErrInsufficientFunds):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "insufficient_funds"})
	case errors.Is(err, apperrors.ErrMarketExpired):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "market_expired"})
	case errors.Is(err, apperrors.ErrAlreadyResolved):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "already_resolved"})
	case errors.Is(err, apperrors.ErrAlreadyResponded):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "already_responded"})
	case errors.Is(err, apperrors.ErrBonusAlreadyClaimed):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "bonus_already_claimed"})
	case errors.Is(err, apperrors.ErrDisputeWindowClosed):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "dispute_window_closed"})
	case errors.Is(err, apperrors.ErrNotAuthorized):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error(), "code": "not_authorized"})
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found", "code": "not_found"})
	default:
		log.WithError(err).Error("Request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error", "code": "internal"})
	}
}
