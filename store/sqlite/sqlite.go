/*
Package sqlite provides a SQLite-backed implementation of the attendance
persistence contracts.

PURPOSE:
  Implements attendance.ShiftStore, attendance.RecordStore and
  attendance.DebtStore on a single SQLite database. The same schema and
  patterns apply to PostgreSQL with minor dialect changes.

KEY TABLES:
  shifts:  append-only shift assignment history (no UPDATE, no DELETE)
  records: one attendance row per (user_id, date), vacation rows included
  debts:   per-day shortfall minutes, drained oldest-first

SCHEMA RULES ENFORCED IN SQL:
  - UNIQUE(user_id, date) on records: one row per day, real or vacation
  - CHECK(minutes > 0) on debts: a drained entry is deleted, never zeroed
  - partial index on open records for the check-in hot path

WAL MODE:
  The database is opened with WAL so report reads don't block check-ins.

USAGE:
  st, err := sqlite.New("./attendance.db")
  ...
  engine := attendance.NewEngine(attendance.Stores{
      Shifts: st, Records: st, Debts: st,
  })

SEE ALSO:
  - attendance/store.go: contract definitions
  - attendance/store/memory.go: in-memory implementation for tests
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/clockwork/attendance-engine/attendance"
)

// Store implements all three attendance persistence contracts.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New opens (and migrates) a SQLite database. Use ":memory:" for tests.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	-- Shift assignment history (append-only)
	CREATE TABLE IF NOT EXISTS shifts (
		id TEXT PRIMARY KEY,
		user_id INTEGER NOT NULL,
		effective_from TEXT NOT NULL,
		kind TEXT NOT NULL,
		start_minutes INTEGER NOT NULL,
		duration_minutes INTEGER NOT NULL,
		allows_overtime INTEGER NOT NULL,
		max_overtime_minutes INTEGER NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_shifts_user_effective
		ON shifts(user_id, effective_from);

	-- Attendance rows: one per (user, date), vacation rows included
	CREATE TABLE IF NOT EXISTS records (
		id TEXT PRIMARY KEY,
		user_id INTEGER NOT NULL,
		date TEXT NOT NULL,
		entry_minutes INTEGER,
		exit_minutes INTEGER,
		vacation INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_records_user_date
		ON records(user_id, date);

	-- Check-in hot path: is there an open record for this user?
	CREATE INDEX IF NOT EXISTS idx_records_open
		ON records(user_id)
		WHERE entry_minutes IS NOT NULL AND exit_minutes IS NULL AND vacation = 0;

	-- Shortfall ledger, relieved oldest day first
	CREATE TABLE IF NOT EXISTS debts (
		id TEXT PRIMARY KEY,
		user_id INTEGER NOT NULL,
		day TEXT NOT NULL,
		minutes INTEGER NOT NULL CHECK (minutes > 0),
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_debts_user_day
		ON debts(user_id, day);
	`

	_, err := s.db.Exec(schema)
	return err
}

func storageErr(op string, err error) error {
	return &attendance.StorageError{Op: op, Err: err}
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// =============================================================================
// SHIFT STORE
// =============================================================================

func (s *Store) AppendAssignment(ctx context.Context, a attendance.ShiftAssignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	allows := 0
	if a.AllowsOvertime {
		allows = 1
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO shifts
		(id, user_id, effective_from, kind, start_minutes, duration_minutes, allows_overtime, max_overtime_minutes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.UserID, a.EffectiveFrom.String(), a.Kind, int(a.Start),
		a.DurationMinutes, allows, a.MaxOvertimeMinutes, now(),
	)
	if err != nil {
		return storageErr("append assignment", err)
	}
	return nil
}

func (s *Store) AssignmentsByUser(ctx context.Context, userID attendance.UserID) ([]attendance.ShiftAssignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, effective_from, kind, start_minutes, duration_minutes, allows_overtime, max_overtime_minutes
		FROM shifts
		WHERE user_id = ?
		ORDER BY effective_from ASC, created_at ASC`,
		userID,
	)
	if err != nil {
		return nil, storageErr("load assignments", err)
	}
	defer rows.Close()

	var result []attendance.ShiftAssignment
	for rows.Next() {
		var (
			a            attendance.ShiftAssignment
			effectiveStr string
			startMin     int
			allows       int
		)
		if err := rows.Scan(&a.ID, &a.UserID, &effectiveStr, &a.Kind, &startMin,
			&a.DurationMinutes, &allows, &a.MaxOvertimeMinutes); err != nil {
			return nil, storageErr("scan assignment", err)
		}
		a.EffectiveFrom, err = attendance.ParseDate(effectiveStr)
		if err != nil {
			return nil, storageErr("parse assignment date", err)
		}
		a.Start = attendance.Clock(startMin)
		a.AllowsOvertime = allows != 0
		result = append(result, a)
	}
	return result, rows.Err()
}

// =============================================================================
// RECORD STORE
// =============================================================================

func (s *Store) InsertRecord(ctx context.Context, rec attendance.AttendanceRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	vacation := 0
	if rec.Vacation {
		vacation = 1
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO records (id, user_id, date, entry_minutes, exit_minutes, vacation, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.UserID, rec.Date.String(),
		nullClock(rec.Entry), nullClock(rec.Exit), vacation, now(),
	)
	if err != nil {
		return storageErr("insert record", err)
	}
	return nil
}

func (s *Store) SetExit(ctx context.Context, recordID string, exit attendance.Clock) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		`UPDATE records SET exit_minutes = ? WHERE id = ? AND exit_minutes IS NULL`,
		int(exit), recordID,
	)
	if err != nil {
		return storageErr("set exit", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return storageErr("set exit", sql.ErrNoRows)
	}
	return nil
}

func (s *Store) OpenRecord(ctx context.Context, userID attendance.UserID) (*attendance.AttendanceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, date, entry_minutes, exit_minutes, vacation
		FROM records
		WHERE user_id = ? AND entry_minutes IS NOT NULL AND exit_minutes IS NULL AND vacation = 0
		LIMIT 1`,
		userID,
	)

	rec, err := scanRecord(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, storageErr("load open record", err)
	}
	return &rec, nil
}

func (s *Store) RecordsInRange(ctx context.Context, userID attendance.UserID, from, to attendance.Date) ([]attendance.AttendanceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, date, entry_minutes, exit_minutes, vacation
		FROM records
		WHERE user_id = ? AND date >= ? AND date <= ?
		ORDER BY date ASC`,
		userID, from.String(), to.String(),
	)
	if err != nil {
		return nil, storageErr("load records", err)
	}
	defer rows.Close()

	var result []attendance.AttendanceRecord
	for rows.Next() {
		rec, err := scanRecord(rows.Scan)
		if err != nil {
			return nil, storageErr("scan record", err)
		}
		result = append(result, rec)
	}
	return result, rows.Err()
}

func scanRecord(scan func(dest ...any) error) (attendance.AttendanceRecord, error) {
	var (
		rec      attendance.AttendanceRecord
		dateStr  string
		entry    sql.NullInt64
		exit     sql.NullInt64
		vacation int
	)
	if err := scan(&rec.ID, &rec.UserID, &dateStr, &entry, &exit, &vacation); err != nil {
		return attendance.AttendanceRecord{}, err
	}

	date, err := attendance.ParseDate(dateStr)
	if err != nil {
		return attendance.AttendanceRecord{}, err
	}
	rec.Date = date
	rec.Vacation = vacation != 0
	if entry.Valid {
		c := attendance.Clock(entry.Int64)
		rec.Entry = &c
	}
	if exit.Valid {
		c := attendance.Clock(exit.Int64)
		rec.Exit = &c
	}
	return rec, nil
}

func nullClock(c *attendance.Clock) any {
	if c == nil {
		return nil
	}
	return int(*c)
}

// =============================================================================
// DEBT STORE
// =============================================================================

func (s *Store) InsertDebt(ctx context.Context, e attendance.DebtEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO debts (id, user_id, day, minutes, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		e.ID, e.UserID, e.Day.String(), e.Minutes, now(),
	)
	if err != nil {
		return storageErr("insert debt", err)
	}
	return nil
}

func (s *Store) UpdateDebtMinutes(ctx context.Context, entryID string, minutes int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		`UPDATE debts SET minutes = ? WHERE id = ?`, minutes, entryID)
	if err != nil {
		return storageErr("update debt", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return storageErr("update debt", sql.ErrNoRows)
	}
	return nil
}

func (s *Store) DeleteDebt(ctx context.Context, entryID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM debts WHERE id = ?`, entryID)
	if err != nil {
		return storageErr("delete debt", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return storageErr("delete debt", sql.ErrNoRows)
	}
	return nil
}

func (s *Store) DebtsByUser(ctx context.Context, userID attendance.UserID) ([]attendance.DebtEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, day, minutes
		FROM debts
		WHERE user_id = ?
		ORDER BY day ASC, created_at ASC`,
		userID,
	)
	if err != nil {
		return nil, storageErr("load debts", err)
	}
	defer rows.Close()

	var result []attendance.DebtEntry
	for rows.Next() {
		var (
			e      attendance.DebtEntry
			dayStr string
		)
		if err := rows.Scan(&e.ID, &e.UserID, &dayStr, &e.Minutes); err != nil {
			return nil, storageErr("scan debt", err)
		}
		e.Day, err = attendance.ParseDate(dayStr)
		if err != nil {
			return nil, storageErr("parse debt day", err)
		}
		result = append(result, e)
	}
	return result, rows.Err()
}
