// Package errs defines the error taxonomy shared by use cases and transports.
package errs

import (
	"errors"
	"fmt"
)

// Kind classifies an error for the transport layer.
type Kind uint8

const (
	Internal Kind = iota
	Validation
	Conflict
	NotFound
	Upstream
	Unauthorized
)

func (k Kind) String() string {
	switch k {
	case Validation:
		return "validation"
	case Conflict:
		return "conflict"
	case NotFound:
		return "not_found"
	case Upstream:
		return "upstream"
	case Unauthorized:
		return "unauthorized"
	default:
		return "internal"
	}
}

// Error is a classified error. Message is safe to show to clients, Err is not.
type Error struct {
	Kind    Kind
	Message string
	Details interface{}
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// WithDetails attaches a client-visible payload.
func (e *Error) WithDetails(details interface{}) *Error {
	e.Details = details
	return e
}

// New creates a classified error.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap classifies err under kind with a client-facing message.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func Validationf(format string, a ...interface{}) *Error {
	return New(Validation, fmt.Sprintf(format, a...))
}

func Conflictf(format string, a ...interface{}) *Error {
	return New(Conflict, fmt.Sprintf(format, a...))
}

func NotFoundf(format string, a ...interface{}) *Error {
	return New(NotFound, fmt.Sprintf(format, a...))
}

func Unauthorizedf(format string, a ...interface{}) *Error {
	return New(Unauthorized, fmt.Sprintf(format, a...))
}

// KindOf reports the kind of the outermost classified error in the chain.
// Unclassified errors are Internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

// Is reports whether err is classified as kind.
func Is(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

// As returns the outermost classified error, if any.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// Ensure returns err unchanged when it is already classified, otherwise wraps it as kind.
func Ensure(err error, kind Kind, message string) error {
	if err == nil {
		return nil
	}
	if _, ok := As(err); ok {
		return err
	}
	return Wrap(kind, message, err)
}
