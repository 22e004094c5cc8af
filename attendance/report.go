/*
report.go - Date-range report aggregation

PURPOSE:
  Reads the attendance ledger over a window and produces per-day entries and
  monthly summary statistics. Reports are pure reads: calling the same
  report twice with no intervening writes returns identical sequences.

ANALYTICS:
  Monthly analytics cover only completed, non-vacation days. A day counts as
  overtime when its worked span exceeds the fixed 420-minute baseline, as a
  debt day when it falls short, and as neither on an exact match. Averages
  use decimal division floored to whole minutes, and are simply absent when
  the month holds no completed day.
*/
package attendance

import (
	"context"

	"github.com/shopspring/decimal"
)

// DayEntry is one report row. WorkedMinutes is set only for completed,
// non-vacation days.
type DayEntry struct {
	Date          Date
	Entry         *Clock
	Exit          *Clock
	Vacation      bool
	WorkedMinutes *int
}

// MonthlyAnalytics summarizes completed worked days in a month. The average
// fields are nil when no completed day exists (unavailable, not zero).
type MonthlyAnalytics struct {
	ShiftCount         int
	AvgDurationMinutes *int
	AvgEntry           *Clock
	AvgExit            *Clock
	OvertimeDayCount   int
	DebtDayCount       int
}

// analyticsBaselineMinutes is the fixed 7h reference used to classify a day
// as overtime or debt, independent of the user's configured shift.
const analyticsBaselineMinutes = 420

// ReportAggregator reads the attendance ledger; it never writes.
type ReportAggregator struct {
	Ledger *AttendanceLedger
}

func NewReportAggregator(ledger *AttendanceLedger) *ReportAggregator {
	return &ReportAggregator{Ledger: ledger}
}

// Weekly returns day entries from the Monday of the reference week through
// the reference date, ascending.
func (r *ReportAggregator) Weekly(ctx context.Context, userID UserID, ref Date) ([]DayEntry, error) {
	return r.rangeEntries(ctx, userID, ref.StartOfWeek(), ref)
}

// Monthly returns day entries from the 1st of the reference month through
// the reference date, ascending.
func (r *ReportAggregator) Monthly(ctx context.Context, userID UserID, ref Date) ([]DayEntry, error) {
	return r.rangeEntries(ctx, userID, ref.StartOfMonth(), ref)
}

func (r *ReportAggregator) rangeEntries(ctx context.Context, userID UserID, from, to Date) ([]DayEntry, error) {
	records, err := r.Ledger.RecordsInRange(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	entries := make([]DayEntry, 0, len(records))
	for _, rec := range records {
		e := DayEntry{
			Date:     rec.Date,
			Entry:    rec.Entry,
			Exit:     rec.Exit,
			Vacation: rec.Vacation,
		}
		if worked, ok := rec.WorkedMinutes(); ok {
			w := worked
			e.WorkedMinutes = &w
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Analytics computes monthly statistics over completed, non-vacation days.
func (r *ReportAggregator) Analytics(ctx context.Context, userID UserID, ref Date) (MonthlyAnalytics, error) {
	records, err := r.Ledger.RecordsInRange(ctx, userID, ref.StartOfMonth(), ref)
	if err != nil {
		return MonthlyAnalytics{}, err
	}

	var out MonthlyAnalytics
	var sumWorked, sumEntry, sumExit decimal.Decimal

	for _, rec := range records {
		worked, ok := rec.WorkedMinutes()
		if !ok {
			continue
		}
		out.ShiftCount++
		sumWorked = sumWorked.Add(decimal.NewFromInt(int64(worked)))
		sumEntry = sumEntry.Add(decimal.NewFromInt(int64(*rec.Entry)))
		sumExit = sumExit.Add(decimal.NewFromInt(int64(*rec.Exit)))

		switch {
		case worked > analyticsBaselineMinutes:
			out.OvertimeDayCount++
		case worked < analyticsBaselineMinutes:
			out.DebtDayCount++
		}
	}

	if out.ShiftCount == 0 {
		return out, nil
	}

	n := decimal.NewFromInt(int64(out.ShiftCount))
	avgDuration := int(sumWorked.Div(n).IntPart())
	avgEntry := Clock(sumEntry.Div(n).IntPart())
	avgExit := Clock(sumExit.Div(n).IntPart())

	out.AvgDurationMinutes = &avgDuration
	out.AvgEntry = &avgEntry
	out.AvgExit = &avgExit
	return out, nil
}
