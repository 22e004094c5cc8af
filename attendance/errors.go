/*
errors.go - Centralized error types for the attendance engine

PURPOSE:
  All domain failures in one place. Every error here is locally recoverable;
  none is fatal to the process. Persistence faults surface as a distinct
  storage error kind and are never retried inside the core.

USAGE:
  Callers branch with errors.Is:

    if errors.Is(err, attendance.ErrAlreadyOnShift) {
        // tell the user they are already checked in
    }
*/
package attendance

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrNoShiftConfigured is returned when no shift assignment is in effect
	// for the requested date. The caller should prompt shift setup first.
	ErrNoShiftConfigured = errors.New("no shift configured")

	// ErrAlreadyOnShift is returned when a check-in is attempted while an
	// open record already exists.
	ErrAlreadyOnShift = errors.New("already on shift")

	// ErrNoOpenRecord is returned when a check-out is attempted with no open
	// record to close.
	ErrNoOpenRecord = errors.New("no open record")

	// ErrDayCompleted is returned when a check-in is attempted on a date that
	// already carries data (a completed cycle or a vacation marker). A day
	// supports at most one shift cycle.
	ErrDayCompleted = errors.New("day already completed")

	// ErrInvalidRange is returned when a range's end precedes its start.
	ErrInvalidRange = errors.New("invalid range: end before start")

	// ErrStorageUnavailable wraps persistence-layer faults. Retry policy
	// belongs to the persistence collaborator, not the core.
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// InvalidRangeError reports a vacation range whose end precedes its start.
type InvalidRangeError struct {
	Start Date
	End   Date
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("invalid range: end %s before start %s", e.End, e.Start)
}

func (e *InvalidRangeError) Unwrap() error { return ErrInvalidRange }

// StorageError wraps a persistence fault with the failing operation.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return ErrStorageUnavailable }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsRecoverable returns true for domain-rule violations the caller can act
// on without operator intervention.
func IsRecoverable(err error) bool {
	return errors.Is(err, ErrNoShiftConfigured) ||
		errors.Is(err, ErrAlreadyOnShift) ||
		errors.Is(err, ErrNoOpenRecord) ||
		errors.Is(err, ErrDayCompleted) ||
		errors.Is(err, ErrInvalidRange)
}

// IsStorage returns true if the error originated in the persistence layer.
func IsStorage(err error) bool {
	return errors.Is(err, ErrStorageUnavailable)
}
