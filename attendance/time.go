package attendance

import (
	"fmt"
	"time"
)

// =============================================================================
// DATE - Civil date (day granularity, UTC)
// =============================================================================

// Date is a civil calendar date. The wall-clock part of the embedded time is
// always midnight UTC; all ledger keys and range queries operate on Dates.
type Date struct {
	Time time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates a timestamp to its civil date.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

func Today() Date {
	return DateOf(time.Now())
}

// ParseDate parses "2006-01-02". Intended for the collaborator boundary;
// core operations only ever receive already-constructed Dates.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// Comparison
func (d Date) Before(other Date) bool        { return d.Time.Before(other.Time) }
func (d Date) Equal(other Date) bool         { return d.Time.Equal(other.Time) }
func (d Date) After(other Date) bool         { return d.Time.After(other.Time) }
func (d Date) BeforeOrEqual(other Date) bool { return d.Before(other) || d.Equal(other) }
func (d Date) AfterOrEqual(other Date) bool  { return d.After(other) || d.Equal(other) }

// Arithmetic
func (d Date) AddDays(n int) Date   { return DateOf(d.Time.AddDate(0, 0, n)) }
func (d Date) AddMonths(n int) Date { return DateOf(d.Time.AddDate(0, n, 0)) }

// Properties
func (d Date) Year() int             { return d.Time.Year() }
func (d Date) Month() time.Month     { return d.Time.Month() }
func (d Date) Day() int              { return d.Time.Day() }
func (d Date) Weekday() time.Weekday { return d.Time.Weekday() }
func (d Date) IsZero() bool          { return d.Time.IsZero() }

func (d Date) String() string { return d.Time.Format("2006-01-02") }

// StartOfWeek returns the Monday of the week containing d.
func (d Date) StartOfWeek() Date {
	offset := int(d.Weekday()) - int(time.Monday)
	if offset < 0 {
		offset += 7 // Sunday
	}
	return d.AddDays(-offset)
}

// StartOfMonth returns the 1st of the month containing d.
func (d Date) StartOfMonth() Date {
	return NewDate(d.Year(), d.Month(), 1)
}

// =============================================================================
// CLOCK - Time of day, minute granularity
// =============================================================================

// Clock is a time of day expressed as minutes since midnight. Entry and exit
// times are recorded at minute granularity; all shift arithmetic is integral.
type Clock int

func NewClock(hour, minute int) Clock {
	return Clock(hour*60 + minute)
}

// ClockOf extracts the time of day from a timestamp, flooring to the minute.
func ClockOf(t time.Time) Clock {
	return Clock(t.Hour()*60 + t.Minute())
}

// ParseClock parses "15:04". Collaborator-boundary helper, like ParseDate.
func ParseClock(s string) (Clock, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("invalid clock time %q: %w", s, err)
	}
	return ClockOf(t), nil
}

func (c Clock) Hour() int   { return int(c) / 60 }
func (c Clock) Minute() int { return int(c) % 60 }

// On combines the clock time with a date into a full timestamp.
func (c Clock) On(d Date) time.Time {
	return d.Time.Add(time.Duration(c) * time.Minute)
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour(), c.Minute())
}

// minutesBetween floors the span between two timestamps to whole minutes.
func minutesBetween(from, to time.Time) int {
	return int(to.Sub(from) / time.Minute)
}
