package domain

import (
	"errors"
	"fmt"
	"runtime/debug"
)

// Domain errors (no external dependencies). The HTTP layer maps each one to a status code.
var (
	ErrValidation         = errors.New("validation failed")
	ErrNotFound           = errors.New("resource not found")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("access denied")
	ErrConflict           = errors.New("conflict with current state")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrStorage            = errors.New("storage operation failed")
	ErrEmailAlreadyExists = errors.New("email already registered")
)

// Validation wraps ErrValidation with a human-readable reason.
func Validation(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// NotFound wraps ErrNotFound naming the missing entity.
func NotFound(what, id string) error {
	return fmt.Errorf("%w: %s %q", ErrNotFound, what, id)
}

// Storage wraps ErrStorage keeping the driver error in the chain and the caller's stack.
func Storage(op string, err error) error {
	return traced(fmt.Errorf("%w: %s: %w", ErrStorage, op, err))
}

// Unexpected records the caller's stack on err. Nil stays nil.
func Unexpected(err error) error {
	if err == nil {
		return nil
	}
	return traced(err)
}

// StackTrace returns the stack captured where err, or an error it wraps, was created.
func StackTrace(err error) (string, bool) {
	var te *tracedError
	if errors.As(err, &te) {
		return string(te.stack), true
	}
	return "", false
}

type tracedError struct {
	err   error
	stack []byte
}

func traced(err error) error {
	return &tracedError{err: err, stack: debug.Stack()}
}

func (e *tracedError) Error() string { return e.err.Error() }
func (e *tracedError) Unwrap() error { return e.err }
