// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package apperr defines the centralized error handling framework for the Dizesi client.

Every failure a page or card can observe is expressed as an [AppError]. The
taxonomy is deliberately coarse:

  - Transport: the remote API answered with a non-2xx status, or could not be reached.
  - Validation: the input was rejected locally before any network call.
  - Authorization: the action needs a session (or an admin session) the client does not hold.

Callers decide what to show from the Code; the HTTPStatus is only populated
for transport failures and is the one piece of detail kept from the server.
*/
package apperr

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// # Error Codes

const (
	CodeTransport       = "TRANSPORT_ERROR"
	CodeTimeout         = "TIMEOUT"
	CodeUnauthenticated = "UNAUTHENTICATED"
	CodeUnauthorized    = "UNAUTHORIZED"
	CodeForbidden       = "FORBIDDEN"
	CodeNotFound        = "NOT_FOUND"
	CodeConflict        = "CONFLICT"
	CodeValidation      = "VALIDATION_ERROR"
	CodeRateLimited     = "RATE_LIMITED"
	CodeInternal        = "INTERNAL_ERROR"
)

// AppError is the canonical error type shared by the client and the fake API.
//
// # Security
//
// The Cause field is for logging only and is never rendered to the user.
type AppError struct {
	// Code is a machine-readable error identifier (e.g. "TRANSPORT_ERROR").
	Code string `json:"code"`
	// Message is a human-readable description safe to show.
	Message string `json:"error"`
	// HTTPStatus is the status code returned by the remote API, or 0.
	HTTPStatus int `json:"-"`
	// Cause is the underlying error, kept for logging only.
	Cause error `json:"-"`
	// Details holds per-field validation errors for VALIDATION_ERROR.
	Details []FieldError `json:"details,omitempty"`
}

// FieldError represents a single field-level validation failure.
type FieldError struct {
	// Field is the form field name that failed validation.
	Field string `json:"field"`
	// Message is the human-readable description of the failure.
	Message string `json:"message"`
}

// Error implements the error interface. It returns the display message.
func (e *AppError) Error() string { return e.Message }

// Unwrap allows [errors.Is] and [errors.As] to traverse the cause chain.
func (e *AppError) Unwrap() error { return e.Cause }

// # Transport Errors

// Transport creates the uniform failure for a non-2xx response.
//
// Example:
//
//	apperr.Transport(http.StatusNotFound, nil) // "API Error: 404"
func Transport(status int, cause error) *AppError {
	return &AppError{
		Code:       CodeTransport,
		Message:    fmt.Sprintf("API Error: %d", status),
		HTTPStatus: status,
		Cause:      cause,
	}
}

// Unreachable creates a transport failure for a call that never got a response.
func Unreachable(cause error) *AppError {
	return &AppError{
		Code:    CodeTransport,
		Message: "API unreachable",
		Cause:   cause,
	}
}

// Timeout creates a failure for a call that exceeded its deadline.
func Timeout(cause error) *AppError {
	return &AppError{
		Code:    CodeTimeout,
		Message: "Request timed out",
		Cause:   cause,
	}
}

// # Client Errors

// Unauthenticated is returned when an action needs a session and none is held.
func Unauthenticated() *AppError {
	return &AppError{
		Code:       CodeUnauthenticated,
		Message:    "Login required",
		HTTPStatus: http.StatusUnauthorized,
	}
}

// Unauthorized creates a 401 [AppError].
func Unauthorized(msg string) *AppError {
	return &AppError{
		Code:       CodeUnauthorized,
		Message:    msg,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// Forbidden creates a 403 [AppError].
func Forbidden(msg string) *AppError {
	return &AppError{
		Code:       CodeForbidden,
		Message:    msg,
		HTTPStatus: http.StatusForbidden,
	}
}

// NotFound creates a 404 [AppError] for a named resource.
func NotFound(resource string) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    resource + " not found",
		HTTPStatus: http.StatusNotFound,
	}
}

// Conflict creates a 409 [AppError] for duplicates.
func Conflict(msg string) *AppError {
	return &AppError{
		Code:       CodeConflict,
		Message:    msg,
		HTTPStatus: http.StatusConflict,
	}
}

// ValidationError creates a 400 [AppError] with optional per-field details.
func ValidationError(msg string, details ...FieldError) *AppError {
	return &AppError{
		Code:       CodeValidation,
		Message:    msg,
		HTTPStatus: http.StatusBadRequest,
		Details:    details,
	}
}

// RateLimited creates a 429 [AppError].
func RateLimited(retryAfterSeconds int) *AppError {
	return &AppError{
		Code:       CodeRateLimited,
		Message:    fmt.Sprintf("Too many requests. Try again in %ds.", retryAfterSeconds),
		HTTPStatus: http.StatusTooManyRequests,
	}
}

// Internal wraps an unexpected error. The cause is kept for logging.
func Internal(cause error) *AppError {
	return &AppError{
		Code:       CodeInternal,
		Message:    "An unexpected error occurred",
		HTTPStatus: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// # Helpers

// As extracts the [*AppError] from err's chain. It returns nil if not found.
func As(err error) *AppError {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae
	}
	return nil
}

// IsAppError reports whether err (or any error in its chain) is an [*AppError].
func IsAppError(err error) bool {
	return As(err) != nil
}

// HasCode reports whether err carries the given code.
func HasCode(err error, code string) bool {
	ae := As(err)
	return ae != nil && ae.Code == code
}

// Status returns the HTTP status carried by err, or 0 when there is none.
func Status(err error) int {
	if ae := As(err); ae != nil {
		return ae.HTTPStatus
	}
	return 0
}

// FromContext maps a context failure to [Timeout], or returns nil.
func FromContext(err error) *AppError {
	if errors.Is(err, context.DeadlineExceeded) {
		return Timeout(err)
	}
	return nil
}
