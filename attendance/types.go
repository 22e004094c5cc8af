/*
Package attendance implements the attendance and shift accounting engine.

PURPOSE:
  Tracks employee check-in/check-out events against a configured work shift,
  accrues a running "debt" ledger when worked time falls short of the shift's
  expected duration, relieves that debt from overtime, registers vacation
  days, and aggregates per-day and monthly statistics.

KEY CONCEPTS IN THIS FILE (types.go):
  - ShiftAssignment: An effective-dated shift configuration version
  - AttendanceRecord: One attendance row per user per date
  - DebtEntry: Unresolved shortfall minutes for a single day

DESIGN PRINCIPLES:
  1. Append-only shift history: assignments are superseded, never mutated,
     so past reports remain reproducible
  2. Integral arithmetic: all durations are whole minutes
  3. Narrow persistence contracts: only the registry and the two ledgers
     touch persisted state (see store.go)

SEE ALSO:
  - accountant.go: check-in/check-out orchestration
  - debt.go: FIFO debt relief
  - report.go: range aggregation
*/
package attendance

// UserID identifies an employee. The core treats it as opaque; display names
// and chat identities are a presentation concern.
type UserID int64

// =============================================================================
// SHIFT ASSIGNMENT - Effective-dated shift configuration
// =============================================================================

type ShiftKind string

const (
	ShiftMorning ShiftKind = "morning"
	ShiftEvening ShiftKind = "evening"
)

// Default shift parameters. Morning matches the plant's historical schedule:
// 08:30 start, 8h30m expected, overtime capped at 4h. Evening shifts run 7h
// and never earn positive overtime.
const (
	MorningDurationMinutes    = 510
	MorningMaxOvertimeMinutes = 240
	EveningDurationMinutes    = 420
)

var DefaultMorningStart = NewClock(8, 30)

// ShiftAssignment is one version of a user's shift configuration. Multiple
// assignments may exist per user; the one in effect on date D is the one with
// the greatest EffectiveFrom <= D. Rows are appended, never rewritten.
type ShiftAssignment struct {
	ID            string
	UserID        UserID
	EffectiveFrom Date
	Kind          ShiftKind
	Start         Clock

	DurationMinutes    int
	AllowsOvertime     bool
	MaxOvertimeMinutes int
}

// NewShiftAssignment builds an assignment with the duration and overtime
// policy implied by the shift kind. Start time is caller-chosen.
func NewShiftAssignment(userID UserID, kind ShiftKind, start Clock, effectiveFrom Date) ShiftAssignment {
	a := ShiftAssignment{
		UserID:        userID,
		EffectiveFrom: effectiveFrom,
		Kind:          kind,
		Start:         start,
	}
	switch kind {
	case ShiftEvening:
		a.DurationMinutes = EveningDurationMinutes
		a.AllowsOvertime = false
		a.MaxOvertimeMinutes = 0
	default:
		a.DurationMinutes = MorningDurationMinutes
		a.AllowsOvertime = true
		a.MaxOvertimeMinutes = MorningMaxOvertimeMinutes
	}
	return a
}

// =============================================================================
// ATTENDANCE RECORD - One row per user per date
// =============================================================================

// AttendanceRecord is a single attendance day. Exactly one of these exists
// per (user, date): either a real attendance row (entry, and later exit) or a
// vacation marker, never both.
type AttendanceRecord struct {
	ID       string
	UserID   UserID
	Date     Date
	Entry    *Clock
	Exit     *Clock
	Vacation bool
}

// Open reports whether the record has an entry but no exit yet.
func (r AttendanceRecord) Open() bool {
	return !r.Vacation && r.Entry != nil && r.Exit == nil
}

// Completed reports whether the record holds a full worked cycle.
func (r AttendanceRecord) Completed() bool {
	return !r.Vacation && r.Entry != nil && r.Exit != nil
}

// WorkedMinutes returns the worked span of a completed record. An exit clock
// earlier than the entry clock means the shift crossed midnight.
func (r AttendanceRecord) WorkedMinutes() (int, bool) {
	if !r.Completed() {
		return 0, false
	}
	entry, exit := int(*r.Entry), int(*r.Exit)
	if exit < entry {
		exit += 24 * 60
	}
	return exit - entry, true
}

// =============================================================================
// DEBT ENTRY - Per-day shortfall minutes
// =============================================================================

// DebtEntry is unresolved shortfall accrued on Day. Minutes is strictly
// positive while the entry exists; an entry drained to zero is removed.
type DebtEntry struct {
	ID      string
	UserID  UserID
	Day     Date
	Minutes int
}
