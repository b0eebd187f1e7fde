package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/EthanAnonymous/Skeel-Kameel/internal/domain"
	"github.com/EthanAnonymous/Skeel-Kameel/internal/http/middleware"
)

// ErrorResponse standardizes error payloads.
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	Field     string `json:"field,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

func respondError(c *gin.Context, status int, code, field, message string) {
	if code == "" {
		code = http.StatusText(status)
	}
	c.AbortWithStatusJSON(status, ErrorResponse{
		Error:     message,
		Code:      code,
		Field:     field,
		RequestID: middleware.GetRequestID(c),
	})
}

// RespondDomainError maps domain errors to HTTP responses. Unexpected errors
// are attached to the gin context for the access log and hidden from the
// client.
func RespondDomainError(c *gin.Context, err error) {
	switch {
	case domain.IsValidation(err):
		respondError(c, http.StatusBadRequest, "validation_error", domain.ValidationField(err), err.Error())
	case domain.IsNotFound(err):
		respondError(c, http.StatusNotFound, "not_found", "", err.Error())
	case domain.IsThrottled(err):
		respondError(c, http.StatusTooManyRequests, "throttled", "", err.Error())
	default:
		_ = c.Error(err)
		respondError(c, http.StatusInternalServerError, "internal_error", "", "internal server error")
	}
}
