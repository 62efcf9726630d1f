package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies every failure a service can report. No raw internal
// error value crosses the service boundary untagged.
type ErrorKind string

const (
	ErrorKindForbidden  ErrorKind = "FORBIDDEN"
	ErrorKindValidation ErrorKind = "VALIDATION"
	ErrorKindNotFound   ErrorKind = "NOT_FOUND"
	ErrorKindConflict   ErrorKind = "CONFLICT"
	ErrorKindInternal   ErrorKind = "INTERNAL"
)

// Error is the tagged error type returned by all services. Detail is safe to
// show to the caller; the wrapped cause is for logs only.
type Error struct {
	Kind   ErrorKind
	Detail string
	cause  error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Detail, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

func (e *Error) Unwrap() error { return e.cause }

func ErrForbidden(detail string) *Error {
	return &Error{Kind: ErrorKindForbidden, Detail: detail}
}

func ErrValidation(detail string) *Error {
	return &Error{Kind: ErrorKindValidation, Detail: detail}
}

func ErrNotFound(detail string) *Error {
	return &Error{Kind: ErrorKindNotFound, Detail: detail}
}

func ErrConflict(detail string) *Error {
	return &Error{Kind: ErrorKindConflict, Detail: detail}
}

func ErrInternal(detail string, cause error) *Error {
	return &Error{Kind: ErrorKindInternal, Detail: detail, cause: cause}
}

// KindOf extracts the kind from any error. An untagged error is an internal
// failure by definition.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ErrorKindInternal
}

// DetailOf returns the caller-safe detail of a tagged error, or a generic
// message for anything untagged.
func DetailOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Detail
	}
	return "internal server error"
}
