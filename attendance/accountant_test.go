package attendance_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clockwork/attendance-engine/attendance"
)

// at builds a July 2025 timestamp for accountant tests.
func at(day, hour, minute int) time.Time {
	return time.Date(2025, time.July, day, hour, minute, 0, 0, time.UTC)
}

func assignMorning(t *testing.T, e *attendance.Engine, userID attendance.UserID) {
	t.Helper()
	_, err := e.Registry.Assign(context.Background(), userID,
		attendance.ShiftMorning, attendance.NewClock(8, 30), date(1))
	require.NoError(t, err)
}

func assignEvening(t *testing.T, e *attendance.Engine, userID attendance.UserID) {
	t.Helper()
	_, err := e.Registry.Assign(context.Background(), userID,
		attendance.ShiftEvening, attendance.NewClock(15, 0), date(1))
	require.NoError(t, err)
}

// =============================================================================
// CHECK-IN
// =============================================================================

func TestAccountant_CheckIn_NoShiftConfigured(t *testing.T) {
	e := newTestEngine()

	_, err := e.Accountant.CheckIn(context.Background(), 1, at(14, 8, 30))
	assert.ErrorIs(t, err, attendance.ErrNoShiftConfigured)
}

func TestAccountant_CheckIn_Twice_AlreadyOnShift(t *testing.T) {
	e := newTestEngine()
	ctx := context.Background()
	assignMorning(t, e, 1)

	_, err := e.Accountant.CheckIn(ctx, 1, at(14, 8, 30))
	require.NoError(t, err)

	_, err = e.Accountant.CheckIn(ctx, 1, at(14, 9, 0))
	assert.ErrorIs(t, err, attendance.ErrAlreadyOnShift)
}

func TestAccountant_CheckIn_OnTime_PlannedExitIsNominal(t *testing.T) {
	// GIVEN: morning shift 08:30, 8h30m
	// WHEN: checking in exactly at 08:30
	// THEN: planned exit is 17:00, no delay and no cap in play

	e := newTestEngine()
	assignMorning(t, e, 1)

	result, err := e.Accountant.CheckIn(context.Background(), 1, at(14, 8, 30))
	require.NoError(t, err)
	assert.Equal(t, attendance.NewClock(8, 30), result.Entry)
	assert.Equal(t, at(14, 17, 0), result.PlannedExit)
}

func TestAccountant_CheckIn_SlightlyLate_DelayDoublesBack(t *testing.T) {
	// WHEN: checking in at 09:00 (30 min late)
	// THEN: planned exit = 09:00 + 8h30m + 30m = 18:00 (under the cap)

	e := newTestEngine()
	assignMorning(t, e, 1)

	result, err := e.Accountant.CheckIn(context.Background(), 1, at(14, 9, 0))
	require.NoError(t, err)
	assert.Equal(t, at(14, 18, 0), result.PlannedExit)
}

func TestAccountant_CheckIn_VeryLate_PlannedExitCapped(t *testing.T) {
	// GIVEN: morning shift start 08:30, duration 8h30m, max overtime 4h
	// WHEN: checking in at 13:00 (4h30m late)
	// THEN: planned exit is capped at 08:30 + 8:30 + 4:00 = 21:00

	e := newTestEngine()
	assignMorning(t, e, 1)

	result, err := e.Accountant.CheckIn(context.Background(), 1, at(14, 13, 0))
	require.NoError(t, err)
	assert.Equal(t, at(14, 21, 0), result.PlannedExit)
}

func TestAccountant_CheckIn_Early_NoNegativeDelay(t *testing.T) {
	// WHEN: checking in at 08:00, before shift start
	// THEN: delay is clamped to zero; planned exit = 08:00 + 8h30m

	e := newTestEngine()
	assignMorning(t, e, 1)

	result, err := e.Accountant.CheckIn(context.Background(), 1, at(14, 8, 0))
	require.NoError(t, err)
	assert.Equal(t, at(14, 16, 30), result.PlannedExit)
}

func TestAccountant_CheckIn_EveningLate_CapForbidsOvertime(t *testing.T) {
	// GIVEN: evening shift 15:00, 7h, overtime forbidden
	// WHEN: checking in at 16:00
	// THEN: planned exit is capped at 15:00 + 7:00 = 22:00

	e := newTestEngine()
	assignEvening(t, e, 1)

	result, err := e.Accountant.CheckIn(context.Background(), 1, at(14, 16, 0))
	require.NoError(t, err)
	assert.Equal(t, at(14, 22, 0), result.PlannedExit)
}

func TestAccountant_CheckIn_ReportsOutstandingDebtWithoutResolving(t *testing.T) {
	e := newTestEngine()
	ctx := context.Background()
	assignMorning(t, e, 1)

	require.NoError(t, e.Debts.Accrue(ctx, 1, date(10), 45))

	result, err := e.Accountant.CheckIn(ctx, 1, at(14, 8, 30))
	require.NoError(t, err)
	assert.Equal(t, 45, result.OutstandingDebtMinutes)

	// Check-in only displays debt; the ledger is untouched.
	total, err := e.Debts.TotalDebt(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 45, total)
}

// =============================================================================
// CHECK-OUT
// =============================================================================

func TestAccountant_CheckOut_NothingOpen(t *testing.T) {
	e := newTestEngine()
	assignMorning(t, e, 1)

	_, err := e.Accountant.CheckOut(context.Background(), 1, at(14, 17, 0))
	assert.ErrorIs(t, err, attendance.ErrNoOpenRecord)
}

func TestAccountant_CheckOut_Shortfall_AccruesDebt(t *testing.T) {
	// GIVEN: morning shift (510 min expected), checked in at 08:30
	// WHEN: checking out at 16:00 (450 min worked)
	// THEN: 60 minutes of debt accrue for today

	e := newTestEngine()
	ctx := context.Background()
	assignMorning(t, e, 1)

	_, err := e.Accountant.CheckIn(ctx, 1, at(14, 8, 30))
	require.NoError(t, err)

	result, err := e.Accountant.CheckOut(ctx, 1, at(14, 16, 0))
	require.NoError(t, err)
	assert.Equal(t, 450, result.WorkedMinutes)
	assert.Equal(t, 60, result.DebtDeltaMinutes)

	total, err := e.Debts.TotalDebt(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 60, total)

	entries, err := e.Debts.Entries(ctx, 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, date(14), entries[0].Day)
}

func TestAccountant_CheckOut_Overtime_RelievesOldestFirst(t *testing.T) {
	// GIVEN: outstanding debts {day 1: 40, day 2: 50}
	// WHEN: working 60 minutes of overtime
	// THEN: day 1 is cleared, day 2 drops to 30

	e := newTestEngine()
	ctx := context.Background()
	assignMorning(t, e, 1)

	require.NoError(t, e.Debts.Accrue(ctx, 1, date(1), 40))
	require.NoError(t, e.Debts.Accrue(ctx, 1, date(2), 50))

	_, err := e.Accountant.CheckIn(ctx, 1, at(14, 8, 30))
	require.NoError(t, err)

	// 08:30 + 510 min + 60 min = 18:00
	result, err := e.Accountant.CheckOut(ctx, 1, at(14, 18, 0))
	require.NoError(t, err)
	assert.Equal(t, 570, result.WorkedMinutes)
	assert.Equal(t, -60, result.DebtDeltaMinutes)

	entries, err := e.Debts.Entries(ctx, 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, date(2), entries[0].Day)
	assert.Equal(t, 30, entries[0].Minutes)
}

func TestAccountant_CheckOut_ExactDuration_NoLedgerChange(t *testing.T) {
	e := newTestEngine()
	ctx := context.Background()
	assignMorning(t, e, 1)

	require.NoError(t, e.Debts.Accrue(ctx, 1, date(1), 25))

	_, err := e.Accountant.CheckIn(ctx, 1, at(14, 8, 30))
	require.NoError(t, err)

	result, err := e.Accountant.CheckOut(ctx, 1, at(14, 17, 0))
	require.NoError(t, err)
	assert.Equal(t, 510, result.WorkedMinutes)
	assert.Equal(t, 0, result.DebtDeltaMinutes)

	total, err := e.Debts.TotalDebt(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 25, total)
}

func TestAccountant_CheckOut_Evening_OvertimeClampedToZero(t *testing.T) {
	// GIVEN: evening shift (420 min, overtime forbidden) with outstanding debt
	// WHEN: working 500 minutes
	// THEN: debt delta is 0, not a relief of 80

	e := newTestEngine()
	ctx := context.Background()
	assignEvening(t, e, 1)

	require.NoError(t, e.Debts.Accrue(ctx, 1, date(1), 80))

	_, err := e.Accountant.CheckIn(ctx, 1, at(14, 15, 0))
	require.NoError(t, err)

	// 15:00 + 500 min = 23:20
	result, err := e.Accountant.CheckOut(ctx, 1, at(14, 23, 20))
	require.NoError(t, err)
	assert.Equal(t, 500, result.WorkedMinutes)
	assert.Equal(t, 0, result.DebtDeltaMinutes)

	total, err := e.Debts.TotalDebt(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 80, total)
}

func TestAccountant_CheckOut_Evening_ShortfallStillAccrues(t *testing.T) {
	e := newTestEngine()
	ctx := context.Background()
	assignEvening(t, e, 1)

	_, err := e.Accountant.CheckIn(ctx, 1, at(14, 15, 0))
	require.NoError(t, err)

	result, err := e.Accountant.CheckOut(ctx, 1, at(14, 20, 0))
	require.NoError(t, err)
	assert.Equal(t, 300, result.WorkedMinutes)
	assert.Equal(t, 120, result.DebtDeltaMinutes)
}

func TestAccountant_CheckOut_CrossesMidnight(t *testing.T) {
	// Evening check-in at 20:00, check-out at 01:00 next day: 300 minutes.

	e := newTestEngine()
	ctx := context.Background()
	assignEvening(t, e, 1)

	_, err := e.Accountant.CheckIn(ctx, 1, at(14, 20, 0))
	require.NoError(t, err)

	result, err := e.Accountant.CheckOut(ctx, 1, at(15, 1, 0))
	require.NoError(t, err)
	assert.Equal(t, 300, result.WorkedMinutes)
}

// =============================================================================
// DAY LIFECYCLE
// =============================================================================

func TestAccountant_SecondCycleSameDay_Rejected(t *testing.T) {
	// A completed cycle locks the day: re-entry is rejected.

	e := newTestEngine()
	ctx := context.Background()
	assignMorning(t, e, 1)

	_, err := e.Accountant.CheckIn(ctx, 1, at(14, 8, 30))
	require.NoError(t, err)
	_, err = e.Accountant.CheckOut(ctx, 1, at(14, 17, 0))
	require.NoError(t, err)

	_, err = e.Accountant.CheckIn(ctx, 1, at(14, 18, 0))
	assert.ErrorIs(t, err, attendance.ErrDayCompleted)
}

func TestAccountant_CheckInOnVacationDay_Rejected(t *testing.T) {
	e := newTestEngine()
	ctx := context.Background()
	assignMorning(t, e, 1)

	_, err := e.Vacations.RegisterRange(ctx, 1, date(14), date(14))
	require.NoError(t, err)

	_, err = e.Accountant.CheckIn(ctx, 1, at(14, 8, 30))
	assert.ErrorIs(t, err, attendance.ErrDayCompleted)
}

func TestAccountant_OnShift_Lifecycle(t *testing.T) {
	e := newTestEngine()
	ctx := context.Background()
	assignMorning(t, e, 1)

	on, err := e.Accountant.OnShift(ctx, 1, date(14))
	require.NoError(t, err)
	assert.False(t, on)

	_, err = e.Accountant.CheckIn(ctx, 1, at(14, 8, 30))
	require.NoError(t, err)

	on, err = e.Accountant.OnShift(ctx, 1, date(14))
	require.NoError(t, err)
	assert.True(t, on)

	_, err = e.Accountant.CheckOut(ctx, 1, at(14, 17, 0))
	require.NoError(t, err)

	on, err = e.Accountant.OnShift(ctx, 1, date(14))
	require.NoError(t, err)
	assert.False(t, on)
}
