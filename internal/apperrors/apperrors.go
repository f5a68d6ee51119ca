// Package apperrors defines the error taxonomy the service layer returns and
// the HTTP layer translates. Handlers never inspect raw store errors.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for HTTP translation.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindAuth
	KindPermission
	KindNotFound
	KindConflict
)

// Error is a domain error with an optional field-level detail map.
type Error struct {
	Kind    Kind
	Message string
	Details map[string]string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Validation reports malformed or out-of-range input. details maps field
// names to human-readable problems and may be nil.
func Validation(message string, details map[string]string) *Error {
	return &Error{Kind: KindValidation, Message: message, Details: details}
}

// Auth reports missing or bad credentials.
func Auth(message string) *Error {
	return &Error{Kind: KindAuth, Message: message}
}

// Permission reports an authenticated caller acting on an object it does not
// own.
func Permission(message string) *Error {
	return &Error{Kind: KindPermission, Message: message}
}

// NotFound reports a missing record.
func NotFound(resource string) *Error {
	return &Error{Kind: KindNotFound, Message: resource + " not found"}
}

// Conflict reports a uniqueness violation not resolved by upsert semantics.
func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

// Internal wraps an unexpected store or system failure.
func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Message: "internal server error", Err: err}
}

// KindOf extracts the Kind from err, defaulting to KindInternal.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// HTTPStatus maps an error to its response status code. Conflict maps to 400
// to match the API contract (duplicate email at registration is a client
// error, not a 409).
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation, KindConflict:
		return http.StatusBadRequest
	case KindAuth:
		return http.StatusUnauthorized
	case KindPermission:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
