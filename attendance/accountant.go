/*
accountant.go - Check-in/check-out orchestration

PURPOSE:
  ShiftAccountant ties the shift registry, the attendance ledger and the
  debt ledger together. Check-in resolves the effective shift, opens the
  record and computes the planned exit (with overtime capping). Check-out
  closes the record, measures the worked span and settles the debt ledger.

PLANNED EXIT:
  planned = now + duration + delay, where delay = max(0, now - shift start).
  The result is capped at shift_start + duration + max_overtime, anchored at
  the nominal shift start. Evening shifts carry max_overtime = 0, so a late
  evening check-in can never push the planned exit past the nominal span.

DEBT SETTLEMENT AT CHECK-OUT:
  overtime = worked - duration
  evening shifts clamp positive overtime to zero
  overtime < 0  accrues -overtime minutes of debt for today
  overtime > 0  relieves the debt ledger, oldest day first
  overtime == 0 leaves the ledger untouched

CONCURRENCY:
  All mutating operations for one user are serialized through a per-user
  lock; operations on different users proceed in parallel. The stores are
  additionally thread-safe on their own, but check-in and check-out are
  read-modify-write sequences that need the wider critical section.
*/
package attendance

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// PER-USER LOCKS
// =============================================================================

// userLocks hands out one mutex per user id. Locks are never removed; the
// population is bounded by the static allow-list.
type userLocks struct {
	mu    sync.Mutex
	locks map[UserID]*sync.Mutex
}

func newUserLocks() *userLocks {
	return &userLocks{locks: make(map[UserID]*sync.Mutex)}
}

func (ul *userLocks) get(id UserID) *sync.Mutex {
	ul.mu.Lock()
	defer ul.mu.Unlock()
	l, ok := ul.locks[id]
	if !ok {
		l = &sync.Mutex{}
		ul.locks[id] = l
	}
	return l
}

// =============================================================================
// RESULTS
// =============================================================================

// CheckInResult is returned to the presentation collaborator for rendering.
type CheckInResult struct {
	Entry Clock
	// PlannedExit is a full timestamp: a late check-in plus overtime cap can
	// place it past midnight.
	PlannedExit time.Time
	// OutstandingDebtMinutes is informational; debt only moves at check-out.
	OutstandingDebtMinutes int
}

// CheckOutResult summarizes a closed cycle.
type CheckOutResult struct {
	Exit          Clock
	WorkedMinutes int
	// DebtDeltaMinutes is the signed change to total debt: positive when
	// shortfall was accrued, negative when relief was applied, zero when the
	// worked span matched the shift exactly (or evening overtime was clamped).
	DebtDeltaMinutes int
}

// =============================================================================
// SHIFT ACCOUNTANT
// =============================================================================

// ShiftAccountant orchestrates the registry and the two ledgers.
type ShiftAccountant struct {
	Registry *ShiftRegistry
	Ledger   *AttendanceLedger
	Debts    *DebtLedger

	locks *userLocks
}

func NewShiftAccountant(registry *ShiftRegistry, ledger *AttendanceLedger, debts *DebtLedger, locks *userLocks) *ShiftAccountant {
	if locks == nil {
		locks = newUserLocks()
	}
	return &ShiftAccountant{Registry: registry, Ledger: ledger, Debts: debts, locks: locks}
}

// CheckIn opens today's record and reports the planned exit.
func (a *ShiftAccountant) CheckIn(ctx context.Context, userID UserID, now time.Time) (CheckInResult, error) {
	mu := a.locks.get(userID)
	mu.Lock()
	defer mu.Unlock()

	today := DateOf(now)
	entry := ClockOf(now)

	shift, err := a.Registry.Resolve(ctx, userID, today)
	if err != nil {
		return CheckInResult{}, err
	}

	if _, err := a.Ledger.CheckIn(ctx, userID, today, entry); err != nil {
		return CheckInResult{}, err
	}

	plannedExit := plannedExit(shift, today, now)

	debt, err := a.Debts.TotalDebt(ctx, userID)
	if err != nil {
		return CheckInResult{}, err
	}

	return CheckInResult{
		Entry:                  entry,
		PlannedExit:            plannedExit,
		OutstandingDebtMinutes: debt,
	}, nil
}

// plannedExit computes now + duration + delay, capped at the overtime limit
// anchored at the nominal shift start.
func plannedExit(shift ShiftAssignment, day Date, now time.Time) time.Time {
	startAt := shift.Start.On(day)

	delay := now.Sub(startAt)
	if delay < 0 {
		delay = 0
	}

	duration := time.Duration(shift.DurationMinutes) * time.Minute
	planned := now.Add(duration + delay)

	limit := startAt.Add(duration + time.Duration(shift.MaxOvertimeMinutes)*time.Minute)
	if planned.After(limit) {
		planned = limit
	}
	return planned
}

// CheckOut closes the open record and settles the debt ledger.
func (a *ShiftAccountant) CheckOut(ctx context.Context, userID UserID, now time.Time) (CheckOutResult, error) {
	mu := a.locks.get(userID)
	mu.Lock()
	defer mu.Unlock()

	exit := ClockOf(now)
	rec, err := a.Ledger.CheckOut(ctx, userID, exit)
	if err != nil {
		return CheckOutResult{}, err
	}

	shift, err := a.Registry.Resolve(ctx, userID, rec.Date)
	if err != nil {
		return CheckOutResult{}, err
	}

	worked := minutesBetween(rec.Entry.On(rec.Date), now)
	if worked < 0 {
		worked = 0
	}

	overtime := worked - shift.DurationMinutes
	if !shift.AllowsOvertime && overtime > 0 {
		overtime = 0
	}

	result := CheckOutResult{Exit: exit, WorkedMinutes: worked}
	switch {
	case overtime < 0:
		if err := a.Debts.Accrue(ctx, userID, rec.Date, -overtime); err != nil {
			return CheckOutResult{}, err
		}
		result.DebtDeltaMinutes = -overtime
	case overtime > 0:
		applied, err := a.Debts.Relieve(ctx, userID, overtime)
		if err != nil {
			return CheckOutResult{}, err
		}
		result.DebtDeltaMinutes = -applied
	}
	return result, nil
}

// OnShift reports whether the user has an open record for the given date.
func (a *ShiftAccountant) OnShift(ctx context.Context, userID UserID, on Date) (bool, error) {
	return a.Ledger.IsOnShift(ctx, userID, on)
}

// CurrentDebt returns the user's total outstanding shortfall in minutes.
func (a *ShiftAccountant) CurrentDebt(ctx context.Context, userID UserID) (int, error) {
	return a.Debts.TotalDebt(ctx, userID)
}
