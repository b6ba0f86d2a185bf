// Package serrors implements semantic error kinds. A kind is a comparable
// sentinel; an *Error pairs a kind with an optional message and cause so
// callers can branch with errors.Is on either the kind or the cause, and
// HTTP handlers can pick a status code without knowing the origin.
package serrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind is a semantic error category created with NewKind.
type Kind interface {
	error
	isKind()
}

type kind struct{ s string }

func (k kind) Error() string { return k.s }
func (k kind) isKind()       {}

// NewKind creates a new semantic error kind named name.
func NewKind(name string) Kind { return kind{s: name} }

var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = NewKind("NOT_FOUND")
	// ErrUnauthorized indicates missing, invalid or rejected credentials.
	ErrUnauthorized = NewKind("UNAUTHORIZED")
	// ErrForbidden indicates the operator may not perform the operation.
	ErrForbidden = NewKind("FORBIDDEN")
	// ErrBadRequest indicates invalid input.
	ErrBadRequest = NewKind("BAD_REQUEST")
	// ErrConflict indicates a state conflict, e.g. an occupied mount point.
	ErrConflict = NewKind("CONFLICT")
	// ErrInternal indicates an internal failure.
	ErrInternal = NewKind("INTERNAL")
	// ErrTimeout indicates the operation timed out.
	ErrTimeout = NewKind("TIMEOUT")
	// ErrUnavailable indicates a dependency is temporarily unavailable.
	ErrUnavailable = NewKind("UNAVAILABLE")
	// ErrRateLimited indicates the upstream refused because of too many requests.
	ErrRateLimited = NewKind("RATE_LIMITED")
)

// Error is a semantic error. errors.Is and errors.As match both the kind and
// the wrapped cause.
//
// Error() renders "<msg>: <cause>", "<msg>", "<cause>" or the kind name,
// depending on which parts are set.
type Error struct {
	kind Kind
	err  error
	msg  string
}

// With creates an error of kind k with a formatted message.
func With(k Kind, msgFmt string, args ...any) *Error {
	return &Error{kind: k, msg: fmt.Sprintf(msgFmt, args...)}
}

// Wrap creates an error of kind k wrapping err with a formatted message.
func Wrap(k Kind, err error, msgFmt string, args ...any) *Error {
	return &Error{kind: k, err: err, msg: fmt.Sprintf(msgFmt, args...)}
}

// KindOnly creates an error carrying only the kind.
func KindOnly(k Kind) *Error { return &Error{kind: k} }

func (e *Error) Error() string {
	switch {
	case e == nil:
		return "<nil>"
	case e.msg != "" && e.err != nil:
		return e.msg + ": " + e.err.Error()
	case e.msg != "":
		return e.msg
	case e.err != nil:
		return e.err.Error()
	case e.kind != nil:
		return e.kind.Error()
	default:
		return "unknown error"
	}
}

// Unwrap returns the wrapped cause.
func (e *Error) Unwrap() error { return e.err }

// Is matches target against the kind first and then the cause chain.
func (e *Error) Is(target error) bool {
	if e == nil || target == nil {
		return e == nil && target == nil
	}

	return (e.kind != nil && errors.Is(e.kind, target)) ||
		(e.err != nil && errors.Is(e.err, target))
}

// As assigns the kind or a matching error from the cause chain to target.
func (e *Error) As(target any) bool {
	if e == nil || target == nil {
		return false
	}

	return (e.kind != nil && errors.As(e.kind, target)) ||
		(e.err != nil && errors.As(e.err, target))
}

// Kind returns the kind of e, or nil.
func (e *Error) Kind() Kind { return e.kind }

// Message returns the message attached to e.
func (e *Error) Message() string { return e.msg }

// Cause returns the wrapped cause, or nil.
func (e *Error) Cause() error { return e.err }

// statusByKind maps semantic kinds to HTTP status codes.
var statusByKind = []struct { //nolint: gochecknoglobals
	kind   Kind
	status int
}{
	{ErrNotFound, http.StatusNotFound},
	{ErrUnauthorized, http.StatusUnauthorized},
	{ErrForbidden, http.StatusForbidden},
	{ErrBadRequest, http.StatusBadRequest},
	{ErrConflict, http.StatusConflict},
	{ErrTimeout, http.StatusGatewayTimeout},
	{ErrUnavailable, http.StatusServiceUnavailable},
	{ErrRateLimited, http.StatusTooManyRequests},
}

// HTTPStatus returns the HTTP status code for err. Errors without a known
// kind, including ErrInternal, map to 500. A nil error maps to 200.
func HTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}
	for _, m := range statusByKind {
		if errors.Is(err, m.kind) {
			return m.status
		}
	}

	return http.StatusInternalServerError
}
