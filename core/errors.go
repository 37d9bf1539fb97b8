package core

import (
	"errors"
	"fmt"
)

var (
	// ErrConstraintViolation is wrapped by any error that rejects a write
	// for violating a revision invariant. The write is rejected atomically;
	// no partial state is committed.
	ErrConstraintViolation = errors.New("constraint violation")

	// ErrIntegrity is wrapped by any error raised when a read observes more
	// than one active revision for an entity at one instant. It indicates a
	// concurrency-control failure upstream and is surfaced, never repaired.
	ErrIntegrity = errors.New("integrity violation")
)

// Constraintf builds a constraint violation error with a formatted reason.
func Constraintf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrConstraintViolation, fmt.Sprintf(format, args...))
}

// Integrityf builds an integrity error with a formatted reason.
func Integrityf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrIntegrity, fmt.Sprintf(format, args...))
}
