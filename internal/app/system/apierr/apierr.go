// internal/app/system/apierr/apierr.go

// Package apierr defines the error taxonomy every operation boundary maps
// into the JSON response envelope. Nothing outside this taxonomy is allowed
// to reach a client: unknown errors collapse to Unexpected with no internal
// detail leaked.
package apierr

import (
	"errors"
	"net/http"
)

// Kind classifies a failure for status-code mapping.
type Kind int

const (
	// Unauthenticated: missing or invalid credential.
	Unauthenticated Kind = iota + 1
	// Forbidden: authenticated but not authorized for this resource/action.
	// Always distinguishable from NotFound, except where a handler
	// deliberately conflates them to avoid existence leakage.
	Forbidden
	// NotFound: the addressed resource does not exist.
	NotFound
	// Conflict: duplicate application, duplicate saved job, re-registration
	// with an existing email.
	Conflict
	// IllegalTransition: a status-machine violation (e.g. mutating a
	// terminal-state record).
	IllegalTransition
	// Validation: missing or malformed request fields.
	Validation
	// Unexpected: anything else, surfaced with minimal detail.
	Unexpected
)

// HTTPStatus maps a kind to the wire status code. Conflict, transition,
// and validation failures all surface as 400, matching the API contract.
func (k Kind) HTTPStatus() int {
	switch k {
	case Unauthenticated:
		return http.StatusUnauthorized
	case Forbidden:
		return http.StatusForbidden
	case NotFound:
		return http.StatusNotFound
	case Conflict, IllegalTransition, Validation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Error is a classified failure with a human-readable message.
type Error struct {
	Kind    Kind
	Message string
	Err     error // wrapped cause, never serialized
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unexpected error"
}

func (e *Error) Unwrap() error { return e.Err }

// New builds an Error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap builds an Error of the given kind with a wrapped cause.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// From classifies an arbitrary error. Errors already carrying a kind pass
// through; everything else becomes Unexpected with a generic message so
// internal detail (driver errors, etc.) never leaks to the client.
func From(err error) *Error {
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return &Error{Kind: Unexpected, Message: "something went wrong", Err: err}
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Kind == kind
}
