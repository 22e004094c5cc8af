/*
store.go - Persistence contracts for the attendance engine

PURPOSE:
  Defines the three narrow repository interfaces the core depends on.
  Different implementations can use SQLite or in-memory storage; the core
  never issues ad hoc database calls.

CONTRACTS:
  ShiftStore:  append-only shift assignment history
  RecordStore: daily attendance rows (entry/exit/vacation)
  DebtStore:   per-day shortfall entries, oldest-first

APPEND-ONLY NOTE:
  ShiftStore has no update or delete: a shift change appends a new version.
  RecordStore's only mutation of an existing row is filling the exit time of
  an open record. DebtStore rows shrink or disappear only through relief.

IMPLEMENTATIONS:
  - attendance/store: in-memory, for tests and development
  - store/sqlite:     production SQLite
*/
package attendance

import "context"

// ShiftStore persists shift assignment versions.
type ShiftStore interface {
	// AppendAssignment adds a new assignment version. Never overwrites.
	AppendAssignment(ctx context.Context, a ShiftAssignment) error

	// AssignmentsByUser returns all versions for a user, ascending by
	// EffectiveFrom.
	AssignmentsByUser(ctx context.Context, userID UserID) ([]ShiftAssignment, error)
}

// RecordStore persists daily attendance rows.
type RecordStore interface {
	// InsertRecord adds a new attendance or vacation row.
	InsertRecord(ctx context.Context, rec AttendanceRecord) error

	// SetExit fills the exit time of an existing open record. This is the
	// only permitted mutation of a persisted row.
	SetExit(ctx context.Context, recordID string, exit Clock) error

	// OpenRecord returns the user's open record (entry set, exit unset), or
	// nil when none exists. At most one open record exists per user.
	OpenRecord(ctx context.Context, userID UserID) (*AttendanceRecord, error)

	// RecordsInRange returns rows with from <= date <= to, ascending by
	// date. Pure read; restartable.
	RecordsInRange(ctx context.Context, userID UserID, from, to Date) ([]AttendanceRecord, error)
}

// DebtStore persists per-day shortfall entries.
type DebtStore interface {
	// InsertDebt adds a debt entry. Minutes must be positive.
	InsertDebt(ctx context.Context, e DebtEntry) error

	// UpdateDebtMinutes sets the remaining minutes of an entry.
	UpdateDebtMinutes(ctx context.Context, entryID string, minutes int) error

	// DeleteDebt removes a fully relieved entry.
	DeleteDebt(ctx context.Context, entryID string) error

	// DebtsByUser returns all entries for a user, ascending by day. The
	// ordering is load-bearing: relief is applied oldest-day-first.
	DebtsByUser(ctx context.Context, userID UserID) ([]DebtEntry, error)
}
