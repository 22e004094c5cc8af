// Package store provides in-memory implementations of the attendance
// persistence contracts, for tests and development.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/clockwork/attendance-engine/attendance"
)

// =============================================================================
// MEMORY STORE - Implements ShiftStore, RecordStore and DebtStore
// =============================================================================

type Memory struct {
	mu      sync.RWMutex
	shifts  map[attendance.UserID][]attendance.ShiftAssignment
	records map[attendance.UserID][]attendance.AttendanceRecord
	debts   map[attendance.UserID][]attendance.DebtEntry
}

func NewMemory() *Memory {
	return &Memory{
		shifts:  make(map[attendance.UserID][]attendance.ShiftAssignment),
		records: make(map[attendance.UserID][]attendance.AttendanceRecord),
		debts:   make(map[attendance.UserID][]attendance.DebtEntry),
	}
}

// -----------------------------------------------------------------------------
// ShiftStore
// -----------------------------------------------------------------------------

// AppendAssignment inserts keeping ascending EffectiveFrom order. Equal
// effective dates keep insertion order, so the later append supersedes.
func (m *Memory) AppendAssignment(_ context.Context, a attendance.ShiftAssignment) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	list := m.shifts[a.UserID]
	i := sort.Search(len(list), func(i int) bool {
		return list[i].EffectiveFrom.After(a.EffectiveFrom)
	})
	list = append(list, attendance.ShiftAssignment{})
	copy(list[i+1:], list[i:])
	list[i] = a
	m.shifts[a.UserID] = list
	return nil
}

func (m *Memory) AssignmentsByUser(_ context.Context, userID attendance.UserID) ([]attendance.ShiftAssignment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]attendance.ShiftAssignment, len(m.shifts[userID]))
	copy(result, m.shifts[userID])
	return result, nil
}

// -----------------------------------------------------------------------------
// RecordStore
// -----------------------------------------------------------------------------

func (m *Memory) InsertRecord(_ context.Context, rec attendance.AttendanceRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	list := m.records[rec.UserID]
	i := sort.Search(len(list), func(i int) bool {
		return list[i].Date.After(rec.Date)
	})
	list = append(list, attendance.AttendanceRecord{})
	copy(list[i+1:], list[i:])
	list[i] = rec
	m.records[rec.UserID] = list
	return nil
}

func (m *Memory) SetExit(_ context.Context, recordID string, exit attendance.Clock) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, list := range m.records {
		for i := range list {
			if list[i].ID == recordID {
				e := exit
				list[i].Exit = &e
				return nil
			}
		}
	}
	return &attendance.StorageError{Op: "set exit", Err: errRecordNotFound}
}

func (m *Memory) OpenRecord(_ context.Context, userID attendance.UserID) (*attendance.AttendanceRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, rec := range m.records[userID] {
		if rec.Open() {
			r := rec
			return &r, nil
		}
	}
	return nil, nil
}

func (m *Memory) RecordsInRange(_ context.Context, userID attendance.UserID, from, to attendance.Date) ([]attendance.AttendanceRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []attendance.AttendanceRecord
	for _, rec := range m.records[userID] {
		if from.BeforeOrEqual(rec.Date) && rec.Date.BeforeOrEqual(to) {
			result = append(result, rec)
		}
	}
	return result, nil
}

// -----------------------------------------------------------------------------
// DebtStore
// -----------------------------------------------------------------------------

func (m *Memory) InsertDebt(_ context.Context, e attendance.DebtEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	list := m.debts[e.UserID]
	i := sort.Search(len(list), func(i int) bool {
		return list[i].Day.After(e.Day)
	})
	list = append(list, attendance.DebtEntry{})
	copy(list[i+1:], list[i:])
	list[i] = e
	m.debts[e.UserID] = list
	return nil
}

func (m *Memory) UpdateDebtMinutes(_ context.Context, entryID string, minutes int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, list := range m.debts {
		for i := range list {
			if list[i].ID == entryID {
				list[i].Minutes = minutes
				return nil
			}
		}
	}
	return &attendance.StorageError{Op: "update debt", Err: errDebtNotFound}
}

func (m *Memory) DeleteDebt(_ context.Context, entryID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for userID, list := range m.debts {
		for i := range list {
			if list[i].ID == entryID {
				m.debts[userID] = append(list[:i], list[i+1:]...)
				return nil
			}
		}
	}
	return &attendance.StorageError{Op: "delete debt", Err: errDebtNotFound}
}

func (m *Memory) DebtsByUser(_ context.Context, userID attendance.UserID) ([]attendance.DebtEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]attendance.DebtEntry, len(m.debts[userID]))
	copy(result, m.debts[userID])
	return result, nil
}

var (
	errRecordNotFound = errNotFound("record not found")
	errDebtNotFound   = errNotFound("debt entry not found")
)

type errNotFound string

func (e errNotFound) Error() string { return string(e) }
