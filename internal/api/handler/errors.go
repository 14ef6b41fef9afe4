package handler

import (
	"net/http"

	"github.com/mcoot/wagerpong/internal/api/apierr"
)

// Re-export from apierr for convenience
type APIError = apierr.APIError
type ErrorResponse = apierr.ErrorResponse

// Re-export error codes
const (
	CodeInvalidRequest     = apierr.CodeInvalidRequest
	CodeResultNotFound     = apierr.CodeResultNotFound
	CodeNotFound           = apierr.CodeNotFound
	CodeServiceUnavailable = apierr.CodeServiceUnavailable
	CodeInternalError      = apierr.CodeInternalError
)

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	apierr.WriteError(w, err)
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return apierr.NewInvalidRequestError(message)
}

// NewNotFoundError creates a not found error
func NewNotFoundError() error {
	return apierr.NewNotFoundError()
}
