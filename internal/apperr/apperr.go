// Package apperr defines the error taxonomy for the authentication subsystem.
// Every error carries a machine-readable code for client handling and the HTTP
// status it maps to. Authentication failures are deliberately vague to the
// client to prevent account enumeration; the full cause is logged server-side.
package apperr

import (
	"context"
	"errors"
	"net"
	"net/http"
)

type Error struct {
	Code    string
	Status  int
	Message string
	// Fields holds field-path → message pairs for validation failures.
	Fields map[string]string
	cause  error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

var (
	// ErrInvalidCredentials is returned for both unknown email and wrong
	// password so the response carries no enumeration signal.
	ErrInvalidCredentials = &Error{Code: "INVALID_CREDENTIALS", Status: http.StatusUnauthorized, Message: "invalid email or password"}

	ErrAccountDeactivated = &Error{Code: "ACCOUNT_DEACTIVATED", Status: http.StatusForbidden, Message: "account has been deactivated"}
	ErrDuplicateAccount   = &Error{Code: "DUPLICATE_ACCOUNT", Status: http.StatusConflict, Message: "an account with this email already exists"}
	ErrInvalidToken       = &Error{Code: "INVALID_TOKEN", Status: http.StatusUnauthorized, Message: "invalid authentication token"}
	ErrTokenExpired       = &Error{Code: "TOKEN_EXPIRED", Status: http.StatusUnauthorized, Message: "authentication token has expired"}
	ErrSessionRevoked     = &Error{Code: "SESSION_EXPIRED", Status: http.StatusUnauthorized, Message: "session is no longer active"}
)

// Validation wraps field-level validation failures. Recovered locally and
// returned with field paths, never logged as errors.
func Validation(fields map[string]string) *Error {
	return &Error{
		Code:    "VALIDATION_ERROR",
		Status:  http.StatusBadRequest,
		Message: "request validation failed",
		Fields:  fields,
	}
}

// Unavailable marks the persistent store as unreachable or timed out. Surfaced
// as retryable 503 rather than masquerading as an authentication failure.
func Unavailable(cause error) *Error {
	return &Error{
		Code:    "SERVICE_UNAVAILABLE",
		Status:  http.StatusServiceUnavailable,
		Message: "service temporarily unavailable",
		cause:   cause,
	}
}

func Internal(cause error) *Error {
	return &Error{
		Code:    "INTERNAL_ERROR",
		Status:  http.StatusInternalServerError,
		Message: "internal server error",
		cause:   cause,
	}
}

// FromStore classifies an error returned by a repository. Timeouts and network
// failures fail closed as Unavailable; anything else is Internal.
func FromStore(err error) *Error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) || errors.As(err, &netErr) {
		return Unavailable(err)
	}
	return Internal(err)
}

// From extracts the taxonomy error from err, defaulting to Internal.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal(err)
}
