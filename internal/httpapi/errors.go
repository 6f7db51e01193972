package httpapi

import (
	"errors"
	"net/http"

	"lawfirm-cms/internal/apperr"
	"lawfirm-cms/internal/auth"
	"lawfirm-cms/pkg/logger"

	"github.com/gin-gonic/gin"
)

const msgInternal = "Internal server error"

// statusFor classifies err into an HTTP status and a message safe to show.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, auth.ErrRateLimited):
		return http.StatusTooManyRequests, err.Error()
	case errors.Is(err, auth.ErrForbidden):
		return http.StatusForbidden, err.Error()
	case errors.Is(err, apperr.ErrAuth):
		return http.StatusUnauthorized, err.Error()
	case errors.Is(err, apperr.ErrValidation):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound, err.Error()
	default:
		return http.StatusInternalServerError, msgInternal
	}
}

// fail writes the {status, message} envelope. Server-side failures are logged
// with the underlying error and reported with a generic message.
func fail(c *gin.Context, err error) {
	code, msg := statusFor(err)
	if code >= http.StatusInternalServerError {
		logger.FromGin(c).Error("request failed", "err", err)
		_ = c.Error(err)
	}
	c.AbortWithStatusJSON(code, gin.H{"status": "error", "message": msg})
}
