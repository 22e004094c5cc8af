package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clockwork/attendance-engine/attendance"
	"github.com/clockwork/attendance-engine/store/sqlite"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	st, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func july(day int) attendance.Date {
	return attendance.NewDate(2025, time.July, day)
}

func TestSQLite_ShiftStore_RoundTrip(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	a := attendance.NewShiftAssignment(7, attendance.ShiftMorning, attendance.NewClock(8, 30), july(1))
	a.ID = uuid.NewString()
	require.NoError(t, st.AppendAssignment(ctx, a))

	b := attendance.NewShiftAssignment(7, attendance.ShiftEvening, attendance.NewClock(15, 0), july(10))
	b.ID = uuid.NewString()
	require.NoError(t, st.AppendAssignment(ctx, b))

	got, err := st.AssignmentsByUser(ctx, 7)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, attendance.ShiftMorning, got[0].Kind)
	assert.Equal(t, july(1), got[0].EffectiveFrom)
	assert.Equal(t, attendance.NewClock(8, 30), got[0].Start)
	assert.True(t, got[0].AllowsOvertime)
	assert.Equal(t, attendance.ShiftEvening, got[1].Kind)
	assert.False(t, got[1].AllowsOvertime)
}

func TestSQLite_RecordStore_OpenAndClose(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	entry := attendance.NewClock(8, 30)
	rec := attendance.AttendanceRecord{
		ID:     uuid.NewString(),
		UserID: 7,
		Date:   july(14),
		Entry:  &entry,
	}
	require.NoError(t, st.InsertRecord(ctx, rec))

	open, err := st.OpenRecord(ctx, 7)
	require.NoError(t, err)
	require.NotNil(t, open)
	assert.Equal(t, rec.ID, open.ID)
	assert.Equal(t, july(14), open.Date)
	require.NotNil(t, open.Entry)
	assert.Equal(t, entry, *open.Entry)
	assert.Nil(t, open.Exit)

	require.NoError(t, st.SetExit(ctx, rec.ID, attendance.NewClock(17, 0)))

	open, err = st.OpenRecord(ctx, 7)
	require.NoError(t, err)
	assert.Nil(t, open)

	rows, err := st.RecordsInRange(ctx, 7, july(14), july(14))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.NotNil(t, rows[0].Exit)
	assert.Equal(t, attendance.NewClock(17, 0), *rows[0].Exit)
}

func TestSQLite_RecordStore_UniquePerUserAndDate(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	entry := attendance.NewClock(8, 30)
	require.NoError(t, st.InsertRecord(ctx, attendance.AttendanceRecord{
		ID: uuid.NewString(), UserID: 7, Date: july(14), Entry: &entry,
	}))

	err := st.InsertRecord(ctx, attendance.AttendanceRecord{
		ID: uuid.NewString(), UserID: 7, Date: july(14), Vacation: true,
	})
	assert.Error(t, err, "second row for the same (user, date) must be rejected")
	assert.True(t, attendance.IsStorage(err))

	// Same date for a different user is fine.
	require.NoError(t, st.InsertRecord(ctx, attendance.AttendanceRecord{
		ID: uuid.NewString(), UserID: 8, Date: july(14), Vacation: true,
	}))
}

func TestSQLite_RecordStore_RangeOrdering(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	for _, day := range []int{20, 14, 17} {
		require.NoError(t, st.InsertRecord(ctx, attendance.AttendanceRecord{
			ID: uuid.NewString(), UserID: 7, Date: july(day), Vacation: true,
		}))
	}

	rows, err := st.RecordsInRange(ctx, 7, july(1), july(31))
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, july(14), rows[0].Date)
	assert.Equal(t, july(17), rows[1].Date)
	assert.Equal(t, july(20), rows[2].Date)
}

func TestSQLite_DebtStore_RoundTrip(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	first := attendance.DebtEntry{ID: uuid.NewString(), UserID: 7, Day: july(2), Minutes: 30}
	second := attendance.DebtEntry{ID: uuid.NewString(), UserID: 7, Day: july(1), Minutes: 45}
	require.NoError(t, st.InsertDebt(ctx, first))
	require.NoError(t, st.InsertDebt(ctx, second))

	entries, err := st.DebtsByUser(ctx, 7)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, july(1), entries[0].Day, "debts must come back oldest day first")

	require.NoError(t, st.UpdateDebtMinutes(ctx, second.ID, 15))
	require.NoError(t, st.DeleteDebt(ctx, first.ID))

	entries, err = st.DebtsByUser(ctx, 7)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 15, entries[0].Minutes)
}

func TestSQLite_EngineOnSQLite_FullCycle(t *testing.T) {
	// The engine behaves identically over SQLite and the in-memory store.

	st := newTestStore(t)
	ctx := context.Background()
	e := attendance.NewEngine(attendance.Stores{Shifts: st, Records: st, Debts: st})

	_, err := e.Registry.Assign(ctx, 7, attendance.ShiftMorning, attendance.NewClock(8, 30), july(1))
	require.NoError(t, err)

	in := time.Date(2025, time.July, 14, 8, 30, 0, 0, time.UTC)
	_, err = e.Accountant.CheckIn(ctx, 7, in)
	require.NoError(t, err)

	out := time.Date(2025, time.July, 14, 16, 0, 0, 0, time.UTC)
	result, err := e.Accountant.CheckOut(ctx, 7, out)
	require.NoError(t, err)
	assert.Equal(t, 450, result.WorkedMinutes)
	assert.Equal(t, 60, result.DebtDeltaMinutes)

	total, err := e.Accountant.CurrentDebt(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, 60, total)
}
