// Package errors defines the application error taxonomy. Every failure a
// handler can surface is one of the predefined AppError values; the HTTP
// error middleware maps them onto status codes and response bodies.
package errors

import (
	"net/http"

	"github.com/pkg/errors"
)

// AppError defines the interface for application-specific errors
type AppError interface {
	error
	HTTPCode() int     // HTTP status code
	ErrorCode() string // Business error code
	Message() string   // User-friendly error message
}

// BaseError is a basic error structure that implements the AppError interface
type BaseError struct {
	httpCode  int
	errorCode string
	message   string
}

// NewBaseError creates a new base error
func NewBaseError(httpCode int, errorCode, message string) *BaseError {
	return &BaseError{
		httpCode:  httpCode,
		errorCode: errorCode,
		message:   message,
	}
}

// Error implements the error interface
func (e *BaseError) Error() string {
	return e.message
}

// WrapMessage wraps the error with additional context message
func (e *BaseError) WrapMessage(message string) error {
	return errors.Wrap(e, message)
}

// HTTPCode returns the HTTP status code
func (e *BaseError) HTTPCode() int {
	return e.httpCode
}

// ErrorCode returns the business error code
func (e *BaseError) ErrorCode() string {
	return e.errorCode
}

// Message returns the user-friendly error message
func (e *BaseError) Message() string {
	return e.message
}

// WithMessage returns a copy of the error carrying a caller-supplied message.
// Used for validation failures, where the message names the violated field.
func (e *BaseError) WithMessage(message string) *BaseError {
	return &BaseError{
		httpCode:  e.httpCode,
		errorCode: e.errorCode,
		message:   message,
	}
}

// Predefined error types
var (
	// Validation-related errors. The concrete message is attached per field
	// via WithMessage at the validation site.
	ErrValidationFailed = NewBaseError(
		http.StatusBadRequest,
		"VALIDATION_FAILED",
		"Invalid input.",
	)

	// Account-related errors
	ErrUsernameTaken = NewBaseError(
		http.StatusConflict,
		"USERNAME_TAKEN",
		"Username already exists.",
	)

	ErrUserNotFound = NewBaseError(
		http.StatusNotFound,
		"USER_NOT_FOUND",
		"User not found.",
	)

	// Authentication-related errors. Unknown username and wrong password are
	// deliberately indistinguishable to the caller.
	ErrInvalidCredentials = NewBaseError(
		http.StatusUnauthorized,
		"INVALID_CREDENTIALS",
		"Invalid username or password.",
	)

	ErrInvalidOldPassword = NewBaseError(
		http.StatusBadRequest,
		"INVALID_OLD_PASSWORD",
		"Invalid old password.",
	)

	// Token-related errors. Absence of credentials is a request-shape error
	// (403); presence of invalid credentials is an authentication failure (401).
	ErrTokenMissing = NewBaseError(
		http.StatusForbidden,
		"TOKEN_MISSING",
		"No token provided.",
	)

	ErrTokenInvalid = NewBaseError(
		http.StatusUnauthorized,
		"TOKEN_INVALID",
		"Failed to authenticate token.",
	)

	// Throttle-related errors
	ErrRateLimited = NewBaseError(
		http.StatusTooManyRequests,
		"RATE_LIMITED",
		"Too many requests, please try again later.",
	)

	// General errors. Storage failures are surfaced opaquely.
	ErrInternalError = NewBaseError(
		http.StatusInternalServerError,
		"INTERNAL_ERROR",
		"Internal server error.",
	)
)
