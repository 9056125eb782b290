package api

import (
	"errors"
	"net/http"

	"gfuture/internal/apperr"
	"gfuture/internal/logger"
	"gfuture/internal/money"

	"github.com/gin-gonic/gin"
)

// StatusFor maps an error kind to its HTTP status.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, apperr.ErrValidation),
		errors.Is(err, apperr.ErrInsufficientFunds),
		errors.Is(err, apperr.ErrCouponIneligible):
		return http.StatusBadRequest
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperr.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, apperr.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// RespondError writes err as a JSON error body. Errors without a known kind
// are logged and reported as a generic internal error.
func RespondError(c *gin.Context, err error) {
	status := StatusFor(err)

	var ife *apperr.InsufficientFundsError
	if errors.As(err, &ife) {
		c.JSON(status, gin.H{
			"error":     "Insufficient wallet balance",
			"required":  money.Round2(ife.Required),
			"available": money.Round2(ife.Available),
		})
		return
	}

	msg, ok := apperr.Message(err)
	if !ok || status == http.StatusInternalServerError {
		logger.Error("request failed",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"error", err,
		)
		msg = "internal error"
	}

	c.JSON(status, ErrorResponse{Error: msg})
}
