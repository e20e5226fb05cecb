// Package domainerrors provides coded errors for the service boundary.
//
// Services translate infrastructure facts (see pkg/platform/sentinel) into
// coded errors here, so handlers can map a code to an HTTP status without
// inspecting error strings. Validation errors carry the offending field when
// one can be named.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code classifies a domain error for boundary handling.
type Code string

const (
	// CodeValidation marks missing or malformed input. Field-attributed
	// where possible. Never retried automatically.
	CodeValidation Code = "validation"

	// CodeBadRequest marks a structurally invalid request (unparseable ID,
	// unknown enum value).
	CodeBadRequest Code = "bad_request"

	// CodeNotFound marks a missing entity.
	CodeNotFound Code = "not_found"

	// CodeConflict marks a uniqueness or state conflict.
	CodeConflict Code = "conflict"

	// CodeExhausted marks a bounded retry loop that ran out of attempts.
	// The whole operation may be retried by the caller.
	CodeExhausted Code = "exhausted"

	// CodeInvariantViolation marks an illegal state transition or broken
	// aggregate invariant.
	CodeInvariantViolation Code = "invariant_violation"

	// CodeInternal marks unexpected infrastructure failures. Details stay
	// in logs, not in responses.
	CodeInternal Code = "internal"
)

// Error is a coded domain error, optionally attributed to a field and
// optionally wrapping a cause.
type Error struct {
	Code    Code
	Field   string
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

// New builds a coded error with no cause.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf builds a coded error from a format string.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// NewField builds a coded error attributed to a named input field.
func NewField(code Code, field, message string) *Error {
	return &Error{Code: code, Field: field, Message: message}
}

// Wrap attaches a code and message to an underlying cause.
func Wrap(err error, code Code, message string) *Error {
	return &Error{Code: code, Message: message, cause: err}
}

// HasCode reports whether err (or anything it wraps) carries the given code.
func HasCode(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// Is is a readability alias for HasCode.
func Is(err error, code Code) bool { return HasCode(err, code) }

// CodeOf extracts the code from err, defaulting to CodeInternal for
// un-coded errors so callers always get a usable classification.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// FieldOf extracts the attributed field from err, if any.
func FieldOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Field
	}
	return ""
}
