package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cocopets/boarding/internal/domain"
)

// respondError maps service errors onto the HTTP error taxonomy. Unknown
// errors become a generic 500 so internals never leak to clients.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(c, http.StatusNotFound, "NOT_FOUND", "resource not found")
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(c, http.StatusUnauthorized, "AUTHORIZATION_ERROR", "authentication required")
	case errors.Is(err, domain.ErrForbidden):
		writeError(c, http.StatusForbidden, "AUTHORIZATION_ERROR", "access denied")
	case errors.Is(err, domain.ErrConflict):
		writeError(c, http.StatusConflict, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, domain.ErrNoCapacity):
		writeError(c, http.StatusConflict, "VALIDATION_ERROR", "no capacity available for the requested dates")
	default:
		if logger != nil {
			logger.Error("request failed", zap.Error(err))
		}
		writeError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}

func writeError(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{"error": gin.H{"code": code, "message": message}})
}

func badRequest(c *gin.Context, message string) {
	writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", message)
}
