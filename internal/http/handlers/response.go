// Package handlers – response utilities
//
// Error responses share a single JSON envelope with a stable machine-
// readable code, a human-readable message, and the request correlation ID.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nqAtomic/my-discord-bott/internal/http/middleware"
)

// Stable error codes used in the envelope.
const (
	ErrCodeNotFound         = "not_found"
	ErrCodeMethodNotAllowed = "method_not_allowed"
	ErrCodeInternal         = "internal_error"
	ErrCodeStoreUnavailable = "store_unavailable"
)

// ErrorResponse is the standard error envelope returned by all endpoints.
type ErrorResponse struct {
	// Correlates server logs and client errors
	RequestID string `json:"request_id,omitempty"`
	// Stable, machine-readable code
	Code string `json:"code"`
	// Human-readable message (safe to show to users)
	Message string `json:"message"`
}

// Fail aborts the request with a structured error. Server errors (>=500)
// are logged with the request-scoped logger.
func Fail(c *gin.Context, status int, code, msg string) {
	reqID := c.Writer.Header().Get("X-Request-ID")
	resp := ErrorResponse{
		RequestID: reqID,
		Code:      code,
		Message:   msg,
	}

	if status >= http.StatusInternalServerError {
		lg := middleware.LoggerFrom(c)
		lg.Error().
			Int("status", status).
			Str("code", code).
			Str("message", msg).
			Msg("http error")
	}

	c.AbortWithStatusJSON(status, resp)
}
