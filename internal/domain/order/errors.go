package order

import (
	"fmt"

	"github.com/go-faster/errors"
)

// Error classes. Every error returned by this package and by order stores
// matches exactly one of them with errors.Is.
var (
	// ErrInvalidInput means the order breaks a business rule. The caller may
	// correct the order and retry.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNoSuchOrder means the referenced key is not in the store.
	ErrNoSuchOrder = errors.New("no such order")
	// ErrDuplicateOrder means the key is already taken.
	ErrDuplicateOrder = errors.New("duplicate order")
	// ErrPersistence covers I/O failures and inconsistent reference data.
	ErrPersistence = errors.New("persistence failure")
)

// InvalidInputError names the order field that failed validation.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Is matches ErrInvalidInput.
func (e *InvalidInputError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NoSuchOrderError indicates an edit targeted a key absent from the store.
type NoSuchOrderError struct {
	Key Key
}

func (e *NoSuchOrderError) Error() string {
	return fmt.Sprintf("order %s not found", e.Key)
}

// Is matches ErrNoSuchOrder.
func (e *NoSuchOrderError) Is(target error) bool {
	return target == ErrNoSuchOrder
}

// DuplicateOrderError indicates an add targeted an occupied key.
type DuplicateOrderError struct {
	Key Key
}

func (e *DuplicateOrderError) Error() string {
	return fmt.Sprintf("order %s already exists", e.Key)
}

// Is matches ErrDuplicateOrder.
func (e *DuplicateOrderError) Is(target error) bool {
	return target == ErrDuplicateOrder
}

// PersistenceError wraps a storage or reference data failure. Path and Line
// locate the offending file and row when known.
type PersistenceError struct {
	Path string
	Line int
	Err  error
}

func (e *PersistenceError) Error() string {
	switch {
	case e.Path != "" && e.Line > 0:
		return fmt.Sprintf("persistence: %s:%d: %v", e.Path, e.Line, e.Err)
	case e.Path != "":
		return fmt.Sprintf("persistence: %s: %v", e.Path, e.Err)
	default:
		return fmt.Sprintf("persistence: %v", e.Err)
	}
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Is matches ErrPersistence.
func (e *PersistenceError) Is(target error) bool {
	return target == ErrPersistence
}
