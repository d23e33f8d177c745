package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"creator-studio/domain/model"
	"creator-studio/infrastructure/logger"
)

// abortWithError translates the error taxonomy into HTTP statuses:
// unauthenticated 401, bad input 400, missing connection 503, provider
// rejection 400, everything else 500.
func abortWithError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, model.ErrUnauthenticated):
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
	case errors.Is(err, model.ErrInvalidInput):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, model.ErrNotConnected):
		ctx.JSON(http.StatusServiceUnavailable, gin.H{"error": "platform not connected"})
	case errors.Is(err, model.ErrRemoteRejected):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, model.ErrNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, model.ErrNotConfigured):
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "not configured"})
	default:
		logger.GetLogger().WithField("error", err).Error("Unhandled error")
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// connectErrorCode maps a callback failure onto the query value the dashboard
// shows. Callbacks always redirect; they never render a 5xx page.
func connectErrorCode(err error) string {
	switch {
	case errors.Is(err, model.ErrUserDenied):
		return "instagram_denied"
	case errors.Is(err, model.ErrNoEligibleAccount):
		return "no_instagram_account"
	case errors.Is(err, model.ErrNotConfigured):
		return "not_configured"
	case errors.Is(err, model.ErrInvalidInput):
		return "invalid_state"
	default:
		return "connect_failed"
	}
}
