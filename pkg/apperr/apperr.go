package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes exposed to API clients via the response envelope
const (
	CodeNotFound          = "NOT_FOUND"
	CodeValidation        = "VALIDATION_ERROR"
	CodeDatabase          = "DATABASE_ERROR"
	CodeInvalidTransition = "INVALID_STATUS_TRANSITION"
	CodeForbidden         = "FORBIDDEN"
)

// Error pairs a human-readable message with a machine-readable code.
// Services return these; the handler layer maps them onto HTTP statuses.
type Error struct {
	Code    string
	Message string
	Err     error // wrapped cause, optional
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a coded error
func New(code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap creates a coded error around a cause
func Wrap(code, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// NotFound is shorthand for a NOT_FOUND error about an entity
func NotFound(entity string) *Error {
	return &Error{Code: CodeNotFound, Message: entity + " not found"}
}

// Validation is shorthand for a VALIDATION_ERROR with a formatted message
func Validation(format string, args ...interface{}) *Error {
	return &Error{Code: CodeValidation, Message: fmt.Sprintf(format, args...)}
}

// InvalidTransition reports a disallowed status change
func InvalidTransition(entity, from, to string) *Error {
	return &Error{
		Code:    CodeInvalidTransition,
		Message: fmt.Sprintf("%s cannot move from %s to %s", entity, from, to),
	}
}

// Database wraps a storage failure
func Database(err error) *Error {
	return &Error{Code: CodeDatabase, Message: "database error", Err: err}
}

// CodeOf extracts the error code, or empty string for uncoded errors
func CodeOf(err error) string {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Code
	}
	return ""
}

// HTTPStatus maps an error code onto the HTTP status to respond with
func HTTPStatus(err error) int {
	switch CodeOf(err) {
	case CodeNotFound:
		return http.StatusNotFound
	case CodeValidation, CodeInvalidTransition:
		return http.StatusBadRequest
	case CodeForbidden:
		return http.StatusForbidden
	case CodeDatabase:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
