package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/L1malucas/smarted-sub000/internal/audited"
	"github.com/L1malucas/smarted-sub000/internal/httputil"
	"github.com/L1malucas/smarted-sub000/internal/metrics"
	"github.com/L1malucas/smarted-sub000/internal/models"
)

// Error code constants for standardized API responses.
const (
	ErrCodeInvalidRequest  = "invalid_request"
	ErrCodeNotFound        = "not_found"
	ErrCodeInternalError   = "internal_error"
	ErrCodeUnauthorized    = "unauthorized"
	ErrCodeRateLimited     = "rate_limited"
	ErrCodeValidationError = "validation_error"
)

// respondError writes a standardized JSON error response, pulling the request
// ID from the Gin context (set by the request ID middleware).
func respondError(c *gin.Context, status int, code, message string) {
	metrics.ErrorsTotal.WithLabelValues(code).Inc()
	httputil.RespondError(c, status, code, message)
}

// statusForCode maps an action outcome code to an HTTP status.
func statusForCode(code string) int {
	switch code {
	case models.CodeValidationFailed:
		return http.StatusBadRequest
	case models.CodeUnauthorized, models.CodePasswordRequired:
		return http.StatusUnauthorized
	case models.CodeForbidden, models.CodePasswordIncorrect:
		return http.StatusForbidden
	case models.CodeNotFound, models.CodeInactive, models.CodeExpired, models.CodeViewLimitReached:
		return http.StatusNotFound
	case models.CodeResourceGone:
		return http.StatusGone
	case models.CodeStoreUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondResult writes an action result: the data on success, the mapped
// error otherwise.
func respondResult[T any](c *gin.Context, res audited.Result[T], successStatus int) {
	if !res.Success {
		respondError(c, statusForCode(res.Code), res.Code, res.Message)
		return
	}

	c.JSON(successStatus, res.Data)
}
