/*
ledger.go - Daily attendance ledger

PURPOSE:
  Owns the attendance rows: check-in opens a record, check-out closes it,
  vacation markers are inserted directly. Enforces the row invariants:

  1. At most one open record exists per user at any time.
  2. At most one row exists per (user, date); a completed cycle or a
     vacation marker locks the date.
  3. Vacation rows never carry entry/exit data.

SEE ALSO:
  - accountant.go: computes planned exit and debt deltas around this ledger
  - vacation.go: range registration with the no-overwrite rule
*/
package attendance

import (
	"context"

	"github.com/google/uuid"
)

// AttendanceLedger mediates all reads and writes of attendance rows.
type AttendanceLedger struct {
	Records RecordStore
}

func NewAttendanceLedger(records RecordStore) *AttendanceLedger {
	return &AttendanceLedger{Records: records}
}

// CheckIn opens a new attendance record at the given instant.
// Fails with ErrAlreadyOnShift while any open record exists, and with
// ErrDayCompleted when the date already carries data.
func (l *AttendanceLedger) CheckIn(ctx context.Context, userID UserID, at Date, entry Clock) (AttendanceRecord, error) {
	open, err := l.Records.OpenRecord(ctx, userID)
	if err != nil {
		return AttendanceRecord{}, err
	}
	if open != nil {
		return AttendanceRecord{}, ErrAlreadyOnShift
	}

	taken, err := l.HasAnyData(ctx, userID, at)
	if err != nil {
		return AttendanceRecord{}, err
	}
	if taken {
		return AttendanceRecord{}, ErrDayCompleted
	}

	rec := AttendanceRecord{
		ID:     uuid.NewString(),
		UserID: userID,
		Date:   at,
		Entry:  &entry,
	}
	if err := l.Records.InsertRecord(ctx, rec); err != nil {
		return AttendanceRecord{}, err
	}
	return rec, nil
}

// CheckOut closes the user's open record with the given exit time and
// returns the closed record, entry time included, so the caller can compute
// the worked span. Fails with ErrNoOpenRecord when nothing is open.
func (l *AttendanceLedger) CheckOut(ctx context.Context, userID UserID, exit Clock) (AttendanceRecord, error) {
	open, err := l.Records.OpenRecord(ctx, userID)
	if err != nil {
		return AttendanceRecord{}, err
	}
	if open == nil {
		return AttendanceRecord{}, ErrNoOpenRecord
	}

	if err := l.Records.SetExit(ctx, open.ID, exit); err != nil {
		return AttendanceRecord{}, err
	}
	closed := *open
	closed.Exit = &exit
	return closed, nil
}

// IsOnShift reports whether an open, non-vacation record exists for the
// given date.
func (l *AttendanceLedger) IsOnShift(ctx context.Context, userID UserID, on Date) (bool, error) {
	open, err := l.Records.OpenRecord(ctx, userID)
	if err != nil {
		return false, err
	}
	return open != nil && open.Date.Equal(on), nil
}

// RecordsInRange returns rows in [from, to], ascending by date.
func (l *AttendanceLedger) RecordsInRange(ctx context.Context, userID UserID, from, to Date) ([]AttendanceRecord, error) {
	return l.Records.RecordsInRange(ctx, userID, from, to)
}

// HasAnyData reports whether any row (real or vacation) exists for the date.
func (l *AttendanceLedger) HasAnyData(ctx context.Context, userID UserID, on Date) (bool, error) {
	rows, err := l.Records.RecordsInRange(ctx, userID, on, on)
	if err != nil {
		return false, err
	}
	return len(rows) > 0, nil
}

// AddVacation inserts a vacation marker for the date. The caller is
// responsible for the no-overwrite check (see VacationRegistrar).
func (l *AttendanceLedger) AddVacation(ctx context.Context, userID UserID, on Date) error {
	return l.Records.InsertRecord(ctx, AttendanceRecord{
		ID:       uuid.NewString(),
		UserID:   userID,
		Date:     on,
		Vacation: true,
	})
}
