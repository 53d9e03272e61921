package apperrors

import (
	"errors"
	"net/http"
)

// Error kinds. Every error a service returns to a handler wraps one of these.
var (
	ErrValidation      = errors.New("validation failed")
	ErrNotFound        = errors.New("resource not found")
	ErrAuthorization   = errors.New("permission denied")
	ErrUnauthenticated = errors.New("authentication required")
	ErrConflict        = errors.New("conflict")
)

// Error carries a kind plus a message that is safe to show to the caller.
type Error struct {
	Err     error
	Message string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Validation(message string) error {
	return &Error{Err: ErrValidation, Message: message}
}

func NotFound(message string) error {
	return &Error{Err: ErrNotFound, Message: message}
}

func Authorization(message string) error {
	return &Error{Err: ErrAuthorization, Message: message}
}

func Unauthenticated(message string) error {
	return &Error{Err: ErrUnauthenticated, Message: message}
}

func Conflict(message string) error {
	return &Error{Err: ErrConflict, Message: message}
}

// StatusCode maps an error to the HTTP status a handler should answer with.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrAuthorization):
		return http.StatusForbidden
	case errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the caller-facing text for err. Unclassified errors never
// leak their internals.
func Message(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Error()
	}
	return "Server error"
}
