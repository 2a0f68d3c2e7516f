package errors

import (
	"errors"
	"fmt"
)

// Error is a typed failure of a blocking run.
type Error struct {
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is matches any *Error carrying the same code, so wrapped instances compare equal to the predefined ones.
func (e *Error) Is(target error) bool {
	var other *Error
	if !errors.As(target, &other) || e == nil || other == nil {
		return false
	}
	return e.Code == other.Code
}

func New(code string, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches context to an existing error while keeping the code of base.
func Wrap(err error, base *Error, message string) *Error {
	return &Error{Code: base.Code, Message: message, Err: err}
}

// Errorf builds an error with the code of base and a formatted message.
func Errorf(base *Error, format string, args ...any) *Error {
	return &Error{Code: base.Code, Message: fmt.Sprintf(format, args...)}
}

var (
	ErrInvalidInput    = New("INVALID_INPUT", "invalid input")
	ErrImpossible      = New("IMPOSSIBLE", "this set of choices is impossible to satisfy")
	ErrSearchExhausted = New("SEARCH_EXHAUSTED", "no feasible blocking found")
	ErrSolver          = New("SOLVER_ERROR", "sat solver failed")
	ErrInternal        = New("INTERNAL_ERROR", "internal error")
)

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal, ErrInternal.Message)
}
