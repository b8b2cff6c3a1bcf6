// Package store holds the persistence error type shared by the result and
// security-event store adapters.
package store

import (
	"errors"
	"fmt"
)

// Error reports a persistence failure. Op names the attempted operation
// ("get latest", "upsert", "append event") and Err is the backend error.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Wrap tags err with op. A nil error stays nil and an existing *Error is
// returned unchanged so the innermost operation name is kept.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *Error
	if errors.As(err, &se) {
		return err
	}
	return &Error{Op: op, Err: err}
}

// IsStoreError reports whether err is, or wraps, a store failure.
func IsStoreError(err error) bool {
	var se *Error
	return errors.As(err, &se)
}
