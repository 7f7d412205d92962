/*
Package onetable – error types.

Reported translation failures carry an ErrorCode; silent non-matches (fallback,
nothing to do) are never errors.
*/
package onetable

import (
	"errors"
	"fmt"
)

// ErrorCode is a well-known error category string.
type ErrorCode string

const (
	ErrArgument     ErrorCode = "ArgumentError"
	ErrValidation   ErrorCode = "ValidationError"
	ErrMissing      ErrorCode = "MissingError"
	ErrKeyCondition ErrorCode = "KeyConditionError"
	ErrRuntime      ErrorCode = "RuntimeError"
)

// Sentinels for errors.Is. An *Error matches the sentinel of its code.
var (
	ErrArgumentSentinel     = errors.New(string(ErrArgument))
	ErrValidationSentinel   = errors.New(string(ErrValidation))
	ErrMissingSentinel      = errors.New(string(ErrMissing))
	ErrKeyConditionSentinel = errors.New(string(ErrKeyCondition))
	ErrRuntimeSentinel      = errors.New(string(ErrRuntime))
)

var sentinels = map[ErrorCode]error{
	ErrArgument:     ErrArgumentSentinel,
	ErrValidation:   ErrValidationSentinel,
	ErrMissing:      ErrMissingSentinel,
	ErrKeyCondition: ErrKeyConditionSentinel,
	ErrRuntime:      ErrRuntimeSentinel,
}

// Error is the reported failure type. It carries an optional Code and
// a free-form Context map for extra debugging data.
type Error struct {
	Message string
	Code    ErrorCode
	Context map[string]any
	Cause   error
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("[%s] %s", e.Code, e.Message)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Cause }

// Is reports whether target is the sentinel for e.Code.
func (e *Error) Is(target error) bool {
	s, ok := sentinels[e.Code]
	return ok && s == target
}

// NewError constructs an Error.
func NewError(msg string, opts ...func(*Error)) *Error {
	err := &Error{Message: msg, Code: ErrRuntime}
	for _, o := range opts {
		o(err)
	}
	return err
}

// WithCode sets the error code.
func WithCode(c ErrorCode) func(*Error) {
	return func(e *Error) { e.Code = c }
}

// WithContext attaches a context map.
func WithContext(ctx map[string]any) func(*Error) {
	return func(e *Error) { e.Context = ctx }
}

// WithCause wraps an underlying error.
func WithCause(cause error) func(*Error) {
	return func(e *Error) { e.Cause = cause }
}

// NewArgError is shorthand for an ArgumentError (or the given code).
func NewArgError(msg string, code ...ErrorCode) *Error {
	c := ErrArgument
	if len(code) > 0 {
		c = code[0]
	}
	return &Error{Message: msg, Code: c}
}

// CodeOf returns the ErrorCode of err, or "" when err is not an *Error.
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
