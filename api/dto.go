/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  JSON structures for the presentation boundary. All date and clock text is
  parsed here; the core only ever sees constructed Date and Clock values, so
  malformed input never crosses into domain code.

FORMATS:
  dates  "2006-01-02"
  clocks "15:04"
*/
package api

// AssignShiftRequest selects or changes a user's shift.
type AssignShiftRequest struct {
	Kind          string `json:"kind"`           // "morning" or "evening"
	Start         string `json:"start"`          // "08:30"
	EffectiveFrom string `json:"effective_from"` // optional; defaults to today
}

// ShiftDTO is an assignment version in API responses.
type ShiftDTO struct {
	Kind               string `json:"kind"`
	Start              string `json:"start"`
	EffectiveFrom      string `json:"effective_from"`
	DurationMinutes    int    `json:"duration_minutes"`
	AllowsOvertime     bool   `json:"allows_overtime"`
	MaxOvertimeMinutes int    `json:"max_overtime_minutes"`
}

// CheckInDTO is the check-in success payload.
type CheckInDTO struct {
	Entry                  string `json:"entry"`
	PlannedExit            string `json:"planned_exit"` // RFC 3339; may be past midnight
	OutstandingDebtMinutes int    `json:"outstanding_debt_minutes"`
}

// CheckOutDTO is the check-out success payload.
type CheckOutDTO struct {
	Exit             string `json:"exit"`
	WorkedMinutes    int    `json:"worked_minutes"`
	DebtDeltaMinutes int    `json:"debt_delta_minutes"`
}

// StatusDTO answers "am I on shift and what do I owe".
type StatusDTO struct {
	OnShift     bool `json:"on_shift"`
	DebtMinutes int  `json:"debt_minutes"`
}

// DebtDTO lists the outstanding shortfall entries, oldest first.
type DebtDTO struct {
	TotalMinutes int            `json:"total_minutes"`
	Entries      []DebtEntryDTO `json:"entries"`
}

type DebtEntryDTO struct {
	Day     string `json:"day"`
	Minutes int    `json:"minutes"`
}

// VacationRequest registers an inclusive vacation range.
type VacationRequest struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// VacationDTO reports how the registration went.
type VacationDTO struct {
	Added   int `json:"added"`
	Skipped int `json:"skipped"`
}

// DayEntryDTO is one report row.
type DayEntryDTO struct {
	Date          string `json:"date"`
	Entry         string `json:"entry,omitempty"`
	Exit          string `json:"exit,omitempty"`
	Vacation      bool   `json:"vacation"`
	WorkedMinutes *int   `json:"worked_minutes,omitempty"`
}

// AnalyticsDTO is the monthly summary. Average fields are omitted when the
// month has no completed worked day.
type AnalyticsDTO struct {
	ShiftCount         int    `json:"shift_count"`
	AvgDurationMinutes *int   `json:"avg_duration_minutes,omitempty"`
	AvgEntry           string `json:"avg_entry,omitempty"`
	AvgExit            string `json:"avg_exit,omitempty"`
	OvertimeDayCount   int    `json:"overtime_day_count"`
	DebtDayCount       int    `json:"debt_day_count"`
}
