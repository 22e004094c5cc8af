/*
vacation.go - Vacation range registration

PURPOSE:
  Writes vacation markers over an inclusive date range. A date that already
  carries data - a real attendance row or an earlier vacation marker - is
  skipped, never overwritten: real attendance always wins over a vacation
  request. The caller decides how to present added == 0.
*/
package attendance

import "context"

// VacationSummary reports how a range registration went.
type VacationSummary struct {
	Added   int
	Skipped int
}

// VacationRegistrar writes vacation markers through the attendance ledger.
type VacationRegistrar struct {
	Ledger *AttendanceLedger

	locks *userLocks
}

func NewVacationRegistrar(ledger *AttendanceLedger, locks *userLocks) *VacationRegistrar {
	if locks == nil {
		locks = newUserLocks()
	}
	return &VacationRegistrar{Ledger: ledger, locks: locks}
}

// RegisterRange inserts vacation markers for each date in [start, end].
// Fails with ErrInvalidRange when end precedes start.
func (r *VacationRegistrar) RegisterRange(ctx context.Context, userID UserID, start, end Date) (VacationSummary, error) {
	if end.Before(start) {
		return VacationSummary{}, &InvalidRangeError{Start: start, End: end}
	}

	mu := r.locks.get(userID)
	mu.Lock()
	defer mu.Unlock()

	var summary VacationSummary
	for d := start; d.BeforeOrEqual(end); d = d.AddDays(1) {
		taken, err := r.Ledger.HasAnyData(ctx, userID, d)
		if err != nil {
			return summary, err
		}
		if taken {
			summary.Skipped++
			continue
		}
		if err := r.Ledger.AddVacation(ctx, userID, d); err != nil {
			return summary, err
		}
		summary.Added++
	}
	return summary, nil
}
