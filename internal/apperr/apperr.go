// Package apperr defines the error taxonomy shared by all request handlers:
// validation (400), unauthorized (401), forbidden (403), not found (404),
// and server error (500). Handlers raise these locally; the single
// normalizer in internal/httpx renders them to the wire.
package apperr

import (
	"errors"
	"net/http"
	"runtime/debug"
)

// Error is a request-handling failure carrying the HTTP status it maps to.
// The stack is captured at creation and is only rendered in development mode.
type Error struct {
	Status  int
	Message string
	Stack   []byte
}

func (e *Error) Error() string { return e.Message }

func newError(status int, message string) *Error {
	return &Error{Status: status, Message: message, Stack: debug.Stack()}
}

// Validation reports malformed or missing input (400).
func Validation(message string) *Error {
	return newError(http.StatusBadRequest, message)
}

// Unauthorized reports a missing, invalid, or expired credential, or a
// failed login (401).
func Unauthorized(message string) *Error {
	return newError(http.StatusUnauthorized, message)
}

// Forbidden reports an authenticated caller acting on a record it does not
// own (403).
func Forbidden(message string) *Error {
	return newError(http.StatusForbidden, message)
}

// NotFound reports an absent resource (404).
func NotFound(message string) *Error {
	return newError(http.StatusNotFound, message)
}

// Internal reports anything unanticipated (500).
func Internal(message string) *Error {
	return newError(http.StatusInternalServerError, message)
}

// From returns err as an *Error, wrapping unrecognized errors as Internal.
func From(err error) *Error {
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return Internal(err.Error())
}
