// Package apperror carries user-facing API errors with their HTTP status.
package apperror

import (
	"errors"
	"net/http"
)

const (
	msgBadRequest      = "Bad Request"
	msgNotFound        = "Resource not found"
	msgUnauthorized    = "Unauthenticated."
	msgForbidden       = "Unauthorized"
	msgConflict        = "Conflict"
	msgUnprocessable   = "The given data was invalid."
	msgTooManyRequests = "Too Many Attempts."
)

// Error is an error with an HTTP status code, a message and optional field errors.
type Error struct {
	cause   error
	Code    int
	Message string
	// Fields maps a request field to its validation messages; set only for 422s.
	Fields map[string][]string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

func newError(code int, message, fallback string) *Error {
	if message == "" {
		message = fallback
	}
	return &Error{Code: code, Message: message}
}

func BadRequest(message string) *Error {
	return newError(http.StatusBadRequest, message, msgBadRequest)
}

func NotFound(message string) *Error {
	return newError(http.StatusNotFound, message, msgNotFound)
}

// NotFoundWrap keeps cause reachable through errors.Is.
func NotFoundWrap(message string, cause error) *Error {
	e := NotFound(message)
	e.cause = cause
	return e
}

func Unauthorized(message string) *Error {
	return newError(http.StatusUnauthorized, message, msgUnauthorized)
}

func Forbidden(message string) *Error {
	return newError(http.StatusForbidden, message, msgForbidden)
}

func Conflict(message string) *Error {
	return newError(http.StatusConflict, message, msgConflict)
}

func TooManyRequests(message string) *Error {
	return newError(http.StatusTooManyRequests, message, msgTooManyRequests)
}

// Unprocessable is a business-rule rejection with a plain message.
func Unprocessable(message string) *Error {
	return newError(http.StatusUnprocessableEntity, message, msgUnprocessable)
}

// Validation is a 422 carrying field-keyed messages.
func Validation(fields map[string][]string) *Error {
	return &Error{
		Code:    http.StatusUnprocessableEntity,
		Message: msgUnprocessable,
		Fields:  fields,
	}
}

// FieldError is a Validation error for a single field.
func FieldError(field, message string) *Error {
	return Validation(map[string][]string{field: {message}})
}

// As extracts an *Error from err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
