/*
debt.go - Per-day shortfall ledger with FIFO relief

PURPOSE:
  Tracks the minutes by which past worked days fell short of the shift's
  expected duration, one entry per day, and pays them down with overtime
  surplus. Relief is strictly oldest-day-first: a long-standing shortfall is
  cleared before recent ones. Entries drained to zero are removed, never
  left at zero.
*/
package attendance

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// DebtLedger owns the shortfall entries for all users.
type DebtLedger struct {
	Debts DebtStore
}

func NewDebtLedger(debts DebtStore) *DebtLedger {
	return &DebtLedger{Debts: debts}
}

// Accrue appends a shortfall entry for the given day. Minutes must be
// positive; a day accrues at most once since check-out closes the single
// open record.
func (l *DebtLedger) Accrue(ctx context.Context, userID UserID, day Date, minutes int) error {
	if minutes <= 0 {
		return fmt.Errorf("accrue: minutes must be positive, got %d", minutes)
	}
	return l.Debts.InsertDebt(ctx, DebtEntry{
		ID:      uuid.NewString(),
		UserID:  userID,
		Day:     day,
		Minutes: minutes,
	})
}

// Relieve applies up to available minutes against the ledger, oldest day
// first, and returns how many minutes were actually applied.
func (l *DebtLedger) Relieve(ctx context.Context, userID UserID, available int) (int, error) {
	if available <= 0 {
		return 0, nil
	}

	entries, err := l.Debts.DebtsByUser(ctx, userID)
	if err != nil {
		return 0, err
	}

	remaining := available
	for _, e := range entries {
		if remaining == 0 {
			break
		}
		if e.Minutes <= remaining {
			if err := l.Debts.DeleteDebt(ctx, e.ID); err != nil {
				return available - remaining, err
			}
			remaining -= e.Minutes
		} else {
			if err := l.Debts.UpdateDebtMinutes(ctx, e.ID, e.Minutes-remaining); err != nil {
				return available - remaining, err
			}
			remaining = 0
		}
	}
	return available - remaining, nil
}

// TotalDebt returns the sum over all entries; zero when none exist.
func (l *DebtLedger) TotalDebt(ctx context.Context, userID UserID) (int, error) {
	entries, err := l.Debts.DebtsByUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	total := 0
	for _, e := range entries {
		total += e.Minutes
	}
	return total, nil
}

// Entries returns the outstanding entries, ascending by day.
func (l *DebtLedger) Entries(ctx context.Context, userID UserID) ([]DebtEntry, error) {
	return l.Debts.DebtsByUser(ctx, userID)
}
