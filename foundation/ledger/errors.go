package ledger

import (
	"errors"
	"fmt"
)

// ErrMiningCancelled is returned from mining when the context is cancelled
// or the configured attempt budget is exhausted before a solution is found.
var ErrMiningCancelled = errors.New("mining cancelled before a solution was found")

// =============================================================================

// ValidationError indicates the input for a new telemetry record was
// malformed. The chain is left unmodified.
type ValidationError struct {
	Field  string
	Reason string
}

// Error implements the error interface.
func (ve *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", ve.Field, ve.Reason)
}

// IsValidationError checks if an error of type ValidationError exists
// in the chain of wrapped errors.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// =============================================================================

// SerializationError indicates a payload could not be canonically encoded
// for hashing or persistence.
type SerializationError struct {
	Err error
}

// Error implements the error interface.
func (se *SerializationError) Error() string {
	return fmt.Sprintf("payload cannot be canonically encoded: %s", se.Err)
}

// Unwrap exposes the underlying encoding failure.
func (se *SerializationError) Unwrap() error {
	return se.Err
}

// IsSerializationError checks if an error of type SerializationError exists
// in the chain of wrapped errors.
func IsSerializationError(err error) bool {
	var se *SerializationError
	return errors.As(err, &se)
}

// =============================================================================

// PersistenceError indicates durable storage could not be read or written.
type PersistenceError struct {
	Op  string
	Err error
}

// Error implements the error interface.
func (pe *PersistenceError) Error() string {
	return fmt.Sprintf("storage %s failed: %s", pe.Op, pe.Err)
}

// Unwrap exposes the underlying storage failure.
func (pe *PersistenceError) Unwrap() error {
	return pe.Err
}

// IsPersistenceError checks if an error of type PersistenceError exists
// in the chain of wrapped errors.
func IsPersistenceError(err error) bool {
	var pe *PersistenceError
	return errors.As(err, &pe)
}
