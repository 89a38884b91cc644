// Package apperror defines the caller-facing error taxonomy shared by every module.
//
// Store layers classify persistence failures once into one of these kinds.
// Services and transports only forward them.
package apperror

import (
	"errors"
	"fmt"
)

// Kind classifies an error for callers.
type Kind string

const (
	KindValidation   Kind = "validation_error"
	KindUnauthorized Kind = "unauthorized"
	KindNotFound     Kind = "not_found"
	KindConflict     Kind = "conflict"
	KindInternal     Kind = "internal_error"
)

// Status returns the HTTP status code for the kind.
func (k Kind) Status() int {
	switch k {
	case KindValidation:
		return 400
	case KindUnauthorized:
		return 401
	case KindNotFound:
		return 404
	case KindConflict:
		return 409
	default:
		return 500
	}
}

// Error is a classified application error.
type Error struct {
	Kind    Kind
	Message string
	Details []string
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

// Is matches any *Error of the same kind, so callers can write errors.Is(err, apperror.ErrNotFound).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Message == "" && t.Kind == e.Kind
}

// Kind sentinels for errors.Is.
var (
	ErrValidation   = &Error{Kind: KindValidation}
	ErrUnauthorized = &Error{Kind: KindUnauthorized}
	ErrNotFound     = &Error{Kind: KindNotFound}
	ErrConflict     = &Error{Kind: KindConflict}
	ErrInternal     = &Error{Kind: KindInternal}
)

// Validation builds a validation error carrying one message per offending field.
func Validation(details ...string) *Error {
	return &Error{Kind: KindValidation, Message: "Bad Request", Details: details}
}

// Unauthorized builds the single unauthorized outcome.
func Unauthorized() *Error {
	return &Error{Kind: KindUnauthorized, Message: "Unauthorized"}
}

// NotFound builds a not-found error with the given message.
func NotFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// TaskNotFound is the not-found outcome for a task that is missing or owned by someone else.
func TaskNotFound(id string) *Error {
	return NotFound("Task with ID \"%s\" not found", id)
}

// UserAlreadyExists is the conflict raised on duplicate usernames.
func UserAlreadyExists() *Error {
	return &Error{Kind: KindConflict, Message: "User already exists."}
}

// Internal wraps an unexpected failure. The cause is kept for logs only.
func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Message: "Internal Server Error", Err: err}
}

// KindOf returns the kind of err, defaulting to KindInternal for unclassified errors.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// As extracts the *Error from err, classifying unknown errors as internal.
func As(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal(err)
}

// Payload is the wire form of an Error carried inside request-reply envelopes.
// The wrapped cause never crosses the wire.
type Payload struct {
	Kind    Kind     `json:"kind"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

// ToPayload converts err into its wire form. A nil error yields nil.
func ToPayload(err error) *Payload {
	if err == nil {
		return nil
	}
	appErr := As(err)
	return &Payload{
		Kind:    appErr.Kind,
		Message: appErr.Message,
		Details: appErr.Details,
	}
}

// Err rebuilds the Error from its wire form. A nil payload yields nil.
func (p *Payload) Err() error {
	if p == nil {
		return nil
	}
	return &Error{Kind: p.Kind, Message: p.Message, Details: p.Details}
}
