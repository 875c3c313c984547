// Package errors carries a code on every engine error so callers can tell a
// bad request from a refused move from broken content without string matching.
package errors

import (
	"errors"
	"fmt"
)

// Code categorizes an error
type Code string

const (
	// CodeUnknown is a foreign error wrapped without a code of its own
	CodeUnknown Code = "unknown"

	// CodeInvalidArgument is a malformed request: missing ids, bad squares, illegal picks
	CodeInvalidArgument Code = "invalid_argument"

	// CodeNotFound is an unknown encounter, combatant or catalog id
	CodeNotFound Code = "not_found"

	// CodeAlreadyExists is a duplicate encounter or combatant id
	CodeAlreadyExists Code = "already_exists"

	// CodeFailedPrecondition is a legal request the encounter's state refuses
	CodeFailedPrecondition Code = "failed_precondition"

	// CodeContent is malformed catalog content
	CodeContent Code = "content"
)

// Error is an engine error
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates an error with the given code
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func newf(code Code, format string, args ...any) *Error {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap adds context to err. The innermost engine code survives; foreign
// errors become CodeUnknown.
func Wrap(err error, message string) *Error {
	if err == nil {
		return nil
	}
	code := CodeUnknown
	var inner *Error
	if errors.As(err, &inner) {
		code = inner.Code
	}
	return &Error{Code: code, Message: message, Cause: err}
}

// Wrapf wraps with a formatted message
func Wrapf(err error, format string, args ...any) *Error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// WrapWithCode wraps err and replaces its code
func WrapWithCode(err error, code Code, message string) *Error {
	if err == nil {
		return nil
	}
	wrapped := Wrap(err, message)
	wrapped.Code = code
	return wrapped
}

func NotFoundf(format string, args ...any) *Error {
	return newf(CodeNotFound, format, args...)
}

func InvalidArgument(message string) *Error {
	return New(CodeInvalidArgument, message)
}

func InvalidArgumentf(format string, args ...any) *Error {
	return newf(CodeInvalidArgument, format, args...)
}

func AlreadyExistsf(format string, args ...any) *Error {
	return newf(CodeAlreadyExists, format, args...)
}

func FailedPrecondition(message string) *Error {
	return New(CodeFailedPrecondition, message)
}

func FailedPreconditionf(format string, args ...any) *Error {
	return newf(CodeFailedPrecondition, format, args...)
}

func Content(message string) *Error {
	return New(CodeContent, message)
}

func Contentf(format string, args ...any) *Error {
	return newf(CodeContent, format, args...)
}

// Is reports whether the outermost engine error in err's chain carries code
func Is(err error, code Code) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}

func IsNotFound(err error) bool           { return Is(err, CodeNotFound) }
func IsInvalidArgument(err error) bool    { return Is(err, CodeInvalidArgument) }
func IsAlreadyExists(err error) bool      { return Is(err, CodeAlreadyExists) }
func IsFailedPrecondition(err error) bool { return Is(err, CodeFailedPrecondition) }
func IsContent(err error) bool            { return Is(err, CodeContent) }
