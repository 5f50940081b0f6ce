package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a failure so callers can branch on it without string matching
type Kind string

const (
	KindInvalidArgument   Kind = "INVALID_ARGUMENT"
	KindNotFound          Kind = "NOT_FOUND"
	KindInvalidTransition Kind = "INVALID_TRANSITION"
	KindValidationFailed  Kind = "VALIDATION_FAILED"
	KindStorageFailure    Kind = "STORAGE_FAILURE"
)

// Error is the discriminated failure returned across the core boundary
type Error struct {
	Kind    Kind
	Message string
	// Field names the offending column for validation failures, empty otherwise
	Field string
	// Err is the wrapped cause (driver error, parse error), may be nil
	Err error
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match on kind sentinels created with New
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Kind == t.Kind && (t.Message == "" || t.Message == e.Message)
}

// New creates an error with the given kind and message
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// InvalidArgument reports a malformed identifier or missing required field
func InvalidArgument(format string, args ...any) *Error {
	return New(KindInvalidArgument, format, args...)
}

// NotFound reports a reference to a request_id that does not exist
func NotFound(format string, args ...any) *Error {
	return New(KindNotFound, format, args...)
}

// InvalidTransition reports an approve/reject on a non-pending request
func InvalidTransition(format string, args ...any) *Error {
	return New(KindInvalidTransition, format, args...)
}

// ValidationFailed reports a field value that breaks its edit-type rule
func ValidationFailed(field, format string, args ...any) *Error {
	return &Error{Kind: KindValidationFailed, Field: field, Message: fmt.Sprintf(format, args...)}
}

// Storage wraps a persistence failure; the caller sees a retryable-looking
// failure but the core never retries on its own
func Storage(err error, format string, args ...any) *Error {
	return &Error{Kind: KindStorageFailure, Message: fmt.Sprintf(format, args...), Err: err}
}

// KindOf extracts the kind from any error; unknown errors count as storage
// failures so nothing leaks across the boundary untagged
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindStorageFailure
}

// IsKind reports whether err carries the given kind
func IsKind(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
