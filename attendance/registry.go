/*
registry.go - Time-versioned shift assignment registry

PURPOSE:
  Stores shift assignment versions per user and resolves "the shift in
  effect on date D". History is append-only: a shift change appends a new
  effective-dated version, so reports over past ranges keep resolving to the
  configuration that applied at the time.
*/
package attendance

import (
	"context"

	"github.com/google/uuid"
)

// ShiftRegistry resolves effective-dated shift assignments.
type ShiftRegistry struct {
	Shifts ShiftStore
}

func NewShiftRegistry(shifts ShiftStore) *ShiftRegistry {
	return &ShiftRegistry{Shifts: shifts}
}

// Assign appends a new assignment version effective from the given date.
// Prior versions are retained.
func (r *ShiftRegistry) Assign(ctx context.Context, userID UserID, kind ShiftKind, start Clock, effectiveFrom Date) (ShiftAssignment, error) {
	a := NewShiftAssignment(userID, kind, start, effectiveFrom)
	a.ID = uuid.NewString()
	if err := r.Shifts.AppendAssignment(ctx, a); err != nil {
		return ShiftAssignment{}, err
	}
	return a, nil
}

// Resolve returns the assignment with the greatest EffectiveFrom <= on.
// Returns ErrNoShiftConfigured when no version applies.
func (r *ShiftRegistry) Resolve(ctx context.Context, userID UserID, on Date) (ShiftAssignment, error) {
	assignments, err := r.Shifts.AssignmentsByUser(ctx, userID)
	if err != nil {
		return ShiftAssignment{}, err
	}

	var found *ShiftAssignment
	for i := range assignments {
		a := assignments[i]
		if a.EffectiveFrom.BeforeOrEqual(on) {
			// Ascending order: the last match is the effective version.
			found = &a
		}
	}
	if found == nil {
		return ShiftAssignment{}, ErrNoShiftConfigured
	}
	return *found, nil
}
