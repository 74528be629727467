package errors

import (
	stderrors "errors"
	"fmt"
)

// Type classifies the errors that can abort an operation
type Type string

const (
	TypeValidation  Type = "validation"
	TypeTransport   Type = "transport"
	TypeDecode      Type = "decode"
	TypePersistence Type = "persistence"
)

// Error is a typed error carrying the failure category and, for decode
// failures, the JSON field path where the mismatch occurred.
type Error struct {
	Type    Type
	Message string
	Path    string
	Err     error
}

func (e *Error) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s error at %q: %s", e.Type, e.Path, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Type, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Validation creates a validation error. These are detected before any I/O
// and are never retried.
func Validation(format string, args ...interface{}) *Error {
	return &Error{
		Type:    TypeValidation,
		Message: fmt.Sprintf(format, args...),
	}
}

// Transport wraps a network or request failure. Fatal to the current
// operation; no retry or backoff is applied anywhere.
func Transport(err error, format string, args ...interface{}) *Error {
	return &Error{
		Type:    TypeTransport,
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}

// Decode wraps a response body that does not match the expected schema.
// path is the structural location of the mismatch, when known.
func Decode(err error, path string) *Error {
	return &Error{
		Type:    TypeDecode,
		Message: fmt.Sprintf("unexpected response schema: %v", err),
		Path:    path,
		Err:     err,
	}
}

// Persistence wraps a local file that is unreadable, undecodable or
// unwritable.
func Persistence(err error, format string, args ...interface{}) *Error {
	return &Error{
		Type:    TypePersistence,
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}

// IsType reports whether err (or anything it wraps) is an Error of the
// given type.
func IsType(err error, t Type) bool {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Type == t
	}
	return false
}
