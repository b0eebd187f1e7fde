package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/EthanAnonymous/Skeel-Kameel/internal/domain"
)

const maxBodyBytes = 64 << 10

// BindJSONOrError decodes the body into dst, answering 400 itself when the
// body is missing or malformed.
func BindJSONOrError[T any](c *gin.Context, dst *T) bool {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		RespondDomainError(c, domain.ValidationError{Msg: "request body is required"})
		return false
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)
	if err := c.ShouldBindJSON(dst); err != nil {
		RespondDomainError(c, bindError(err))
		return false
	}
	return true
}

func bindError(err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return domain.ValidationError{Field: typeErr.Field, Msg: "has the wrong type", Err: err}
	}
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return domain.ValidationError{Msg: "request body is too large", Err: err}
	}
	if errors.Is(err, io.EOF) {
		return domain.ValidationError{Msg: "request body is required", Err: err}
	}
	return domain.ValidationError{Msg: "malformed JSON body", Err: err}
}
