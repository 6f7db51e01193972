package apperr

import (
	"errors"
	"fmt"
)

// Error categories. Domain errors wrap exactly one of these so the HTTP layer
// can classify them with errors.Is without knowing every package's sentinels.
//
// Propagation rules:
// - Validation and Auth errors are detected before any mutation.
// - Persistence errors abort the operation; nothing is retried.
// - Notification errors are logged by the caller and never reported as failures.
var (
	ErrValidation   = errors.New("validation error")
	ErrAuth         = errors.New("auth error")
	ErrNotFound     = errors.New("not found")
	ErrPersistence  = errors.New("persistence error")
	ErrNotification = errors.New("notification error")
)

// kindError carries a user-facing message and reports its category via Is.
type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string        { return e.msg }
func (e *kindError) Is(target error) bool { return target == e.kind }

// Validation returns a validation error whose Error() is msg.
func Validation(msg string) error {
	return &kindError{kind: ErrValidation, msg: msg}
}

// Auth returns an auth error whose Error() is msg.
func Auth(msg string) error {
	return &kindError{kind: ErrAuth, msg: msg}
}

// NotFound returns a not-found error whose Error() is msg.
func NotFound(msg string) error {
	return &kindError{kind: ErrNotFound, msg: msg}
}

// Persistence wraps a store failure. op names the failing operation.
func Persistence(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", op, ErrPersistence, err)
}

// Notification wraps a notifier failure.
func Notification(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", op, ErrNotification, err)
}
