package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lalith-99/pocketchat/internal/messenger"
	"go.uber.org/zap"
)

// statusFor maps messenger errors to HTTP statuses. Anything else is a
// server-side failure.
func statusFor(err error) int {
	switch {
	case errors.Is(err, messenger.ErrDuplicateUsername):
		return http.StatusConflict
	case errors.Is(err, messenger.ErrInvalidCredentials),
		errors.Is(err, messenger.ErrNotAuthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, messenger.ErrNotParticipant):
		return http.StatusForbidden
	case errors.Is(err, messenger.ErrChatNotFound),
		errors.Is(err, messenger.ErrMessageNotFound),
		errors.Is(err, messenger.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, messenger.ErrInvalidInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err as JSON. Client errors carry the error text;
// server errors are logged and the client only sees "<action> failed".
//
// Storage and decode errors wrap driver messages (SQL, file paths, Redis
// addresses), which stay in the log and out of the response.
func respondError(c *gin.Context, logger *zap.Logger, action string, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.Error(action+" failed", zap.Error(err))
		c.JSON(status, gin.H{"error": action + " failed"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
