package utils

import (
	"fmt"
	"net/http"
)

// AppError pairs a client-safe message with an HTTP status and the wrapped
// underlying cause. The cause is for logs only and never reaches a response.
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap exposes the underlying cause to errors.Is/As
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// ExternalServiceError wraps a failed upstream call (geocoder, carrier,
// payment processor) as a 500. Message is what the client sees; the
// upstream detail stays in Err for logging.
func ExternalServiceError(message string, err error) *AppError {
	return NewAppError(http.StatusInternalServerError, message, err)
}
