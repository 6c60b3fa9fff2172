// Package apierror defines the closed set of error kinds the API can return
// and the single table mapping each kind to an HTTP status.
package apierror

import (
	"errors"
	"fmt"
	"net/http"
	"runtime"
	"strings"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindUnauthenticated
	KindInvalidCredentials
	KindForbidden
	KindNotFound
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "VALIDATION_ERROR"
	case KindUnauthenticated:
		return "UNAUTHENTICATED"
	case KindInvalidCredentials:
		return "INVALID_CREDENTIALS"
	case KindForbidden:
		return "FORBIDDEN"
	case KindNotFound:
		return "NOT_FOUND"
	case KindConflict:
		return "CONFLICT"
	default:
		return "INTERNAL_ERROR"
	}
}

// HTTPStatus is the only place a kind is translated to a status code.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindUnauthenticated, KindInvalidCredentials:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

type Error struct {
	Kind    Kind
	Message string
	Field   string
	cause   error
	pcs     []uintptr
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}

	msg := e.Kind.String() + ": " + e.Message
	if e.Field != "" {
		msg += " (" + e.Field + ")"
	}
	if e.cause != nil {
		msg += ": " + e.cause.Error()
	}

	return msg
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Is matches any *Error of the same kind, so errors.Is(err, apierror.ErrNotFound) works.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Kind == t.Kind
	}
	return false
}

// Status returns the HTTP status for the error's kind.
func (e *Error) Status() int {
	return e.Kind.HTTPStatus()
}

// Stack formats the call stack captured when the error was created.
func (e *Error) Stack() string {
	if e == nil || len(e.pcs) == 0 {
		return ""
	}

	var b strings.Builder
	frames := runtime.CallersFrames(e.pcs)
	for {
		frame, more := frames.Next()
		fmt.Fprintf(&b, "%s\n\t%s:%d\n", frame.Function, frame.File, frame.Line)
		if !more {
			break
		}
	}

	return b.String()
}

// WithCause returns a copy of e wrapping err.
func (e *Error) WithCause(err error) *Error {
	clone := *e
	clone.cause = err
	return &clone
}

// Sentinels for errors.Is comparisons by kind.
var (
	ErrValidation         = &Error{Kind: KindValidation, Message: "validation error"}
	ErrUnauthenticated    = &Error{Kind: KindUnauthenticated, Message: "unauthenticated"}
	ErrInvalidCredentials = &Error{Kind: KindInvalidCredentials, Message: "invalid credentials"}
	ErrForbidden          = &Error{Kind: KindForbidden, Message: "forbidden"}
	ErrNotFound           = &Error{Kind: KindNotFound, Message: "not found"}
	ErrConflict           = &Error{Kind: KindConflict, Message: "conflict"}
	ErrInternal           = &Error{Kind: KindInternal, Message: "internal error"}
)

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message, pcs: callers()}
}

func Validation(message string, field string) *Error {
	err := New(KindValidation, message)
	err.Field = field
	return err
}

func Unauthenticated(message string) *Error {
	return New(KindUnauthenticated, message)
}

func InvalidCredentials(message string) *Error {
	return New(KindInvalidCredentials, message)
}

func Forbidden(message string) *Error {
	return New(KindForbidden, message)
}

func NotFound(message string) *Error {
	return New(KindNotFound, message)
}

func Conflict(message string) *Error {
	return New(KindConflict, message)
}

// Internal wraps an unanticipated error under a fixed message. The cause is
// reachable through Unwrap and is never shown to clients outside development.
func Internal(err error) *Error {
	e := New(KindInternal, "internal error")
	e.cause = err
	return e
}

// From returns err as an *Error, wrapping anything else as Internal.
func From(err error) *Error {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return Internal(err)
}

// KindOf classifies any error; errors that are not *Error are Internal.
func KindOf(err error) Kind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return KindInternal
}

func callers() []uintptr {
	pcs := make([]uintptr, 32)
	n := runtime.Callers(3, pcs)
	return pcs[:n]
}
