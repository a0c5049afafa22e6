// Package apperrors provides the standardized error kinds surfaced by the API.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an application error for HTTP mapping and client handling.
type Kind string

const (
	KindNotFound           Kind = "NOT_FOUND"
	KindInvalidTransition  Kind = "INVALID_TRANSITION"
	KindValidationFailed   Kind = "VALIDATION_FAILED"
	KindConflict           Kind = "CONFLICT"
	KindStorageUnavailable Kind = "STORAGE_UNAVAILABLE"
)

// Error is a structured application error with a stable kind and a
// human-readable message safe to return to clients.
type Error struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// E builds an Error with a formatted message.
func E(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...interface{}) *Error {
	return E(KindNotFound, format, args...)
}

func InvalidTransition(format string, args ...interface{}) *Error {
	return E(KindInvalidTransition, format, args...)
}

func ValidationFailed(format string, args ...interface{}) *Error {
	return E(KindValidationFailed, format, args...)
}

func Conflict(format string, args ...interface{}) *Error {
	return E(KindConflict, format, args...)
}

func StorageUnavailable(format string, args ...interface{}) *Error {
	return E(KindStorageUnavailable, format, args...)
}

// KindOf extracts the kind from any error. Unexpected internal errors map to
// StorageUnavailable so internals never leak to clients.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindStorageUnavailable
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// HTTPStatus maps an error kind to its HTTP status code.
func HTTPStatus(kind Kind) int {
	switch kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindInvalidTransition:
		return http.StatusConflict
	case KindValidationFailed:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
