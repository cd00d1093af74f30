// Package apperr carries the application error taxonomy. Every error that
// crosses a service boundary is one of these kinds; the transport layer maps
// the kind to an HTTP status and callers branch on it with errors.As.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	// KindValidation: malformed input or an invalid state-transition
	// request. Rejected before any mutation; the caller can correct and
	// retry.
	KindValidation Kind = iota + 1
	// KindNotFound: unknown slot/appointment/doctor/patient id.
	KindNotFound
	// KindConflict: slot already booked, transition out of a terminal
	// state, or the losing side of a concurrent booking race.
	KindConflict
	// KindUnauthenticated: the credential could not be resolved to an
	// identity.
	KindUnauthenticated
	// KindForbidden: role mismatch or cross-identity ownership violation.
	KindForbidden
	// KindInternal: dependency failure; no partial mutation is visible.
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindForbidden:
		return "forbidden"
	default:
		return "internal"
	}
}

type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, msg string) error {
	return &Error{Kind: kind, Msg: msg}
}

func Newf(kind Kind, format string, args ...any) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap keeps the cause for logs while presenting msg to the caller.
func Wrap(err error, kind Kind, msg string) error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

func Validationf(format string, args ...any) error {
	return Newf(KindValidation, format, args...)
}

func NotFoundf(format string, args ...any) error {
	return Newf(KindNotFound, format, args...)
}

func Conflictf(format string, args ...any) error {
	return Newf(KindConflict, format, args...)
}

func Forbiddenf(format string, args ...any) error {
	return Newf(KindForbidden, format, args...)
}

func Unauthenticatedf(format string, args ...any) error {
	return Newf(KindUnauthenticated, format, args...)
}

// Internal wraps a dependency failure; the underlying cause is not shown to
// clients.
func Internal(err error, msg string) error {
	return Wrap(err, KindInternal, msg)
}

// KindOf extracts the kind; unclassified errors are internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Message returns the caller-facing message for err.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Kind == KindInternal {
			return "internal server error"
		}
		return e.Msg
	}
	return "internal server error"
}

// HTTPStatus maps the error kind to the HTTP status used by the transport
// layer.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
