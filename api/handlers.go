/*
handlers.go - HTTP handlers for the attendance engine

PURPOSE:
  Exposes the core operation set over REST. Handlers parse input text into
  domain values, delegate to the engine, and map typed domain errors to
  HTTP statuses. No business rule lives here.

ENDPOINTS:
  POST /api/users/{userID}/shift              Assign or change shift
  POST /api/users/{userID}/check-in           Open today's record
  POST /api/users/{userID}/check-out          Close the open record
  GET  /api/users/{userID}/status             On-shift flag + total debt
  GET  /api/users/{userID}/debt               Outstanding debt entries
  POST /api/users/{userID}/vacations          Register a vacation range
  GET  /api/users/{userID}/reports/weekly     Monday..date entries
  GET  /api/users/{userID}/reports/monthly    1st..date entries
  GET  /api/users/{userID}/reports/analytics  Monthly summary

ERROR MAPPING:
  400  malformed input (dates, clocks, ids), invalid range
  403  user id not on the allow-list (middleware)
  409  domain-state conflicts (already on shift, no open record, ...)
  503  storage unavailable
  500  anything else
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/clockwork/attendance-engine/attendance"
)

// Handler holds the wired engine and request-scoped helpers.
type Handler struct {
	Engine *attendance.Engine
	Logger *zap.Logger

	// Now is the time source; overridable in tests.
	Now func() time.Time
}

func NewHandler(engine *attendance.Engine, logger *zap.Logger) *Handler {
	return &Handler{Engine: engine, Logger: logger, Now: time.Now}
}

// =============================================================================
// SHIFT
// =============================================================================

// AssignShift appends a new shift assignment version.
// POST /api/users/{userID}/shift
func (h *Handler) AssignShift(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}

	var req AssignShiftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body", err)
		return
	}

	kind := attendance.ShiftKind(req.Kind)
	if kind != attendance.ShiftMorning && kind != attendance.ShiftEvening {
		writeError(w, http.StatusBadRequest, "kind must be morning or evening", nil)
		return
	}

	start := attendance.DefaultMorningStart
	if req.Start != "" {
		var err error
		start, err = attendance.ParseClock(req.Start)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid start time", err)
			return
		}
	}

	effective := attendance.DateOf(h.Now())
	if req.EffectiveFrom != "" {
		var err error
		effective, err = attendance.ParseDate(req.EffectiveFrom)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid effective_from date", err)
			return
		}
	}

	a, err := h.Engine.Registry.Assign(r.Context(), userID, kind, start, effective)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, ShiftDTO{
		Kind:               string(a.Kind),
		Start:              a.Start.String(),
		EffectiveFrom:      a.EffectiveFrom.String(),
		DurationMinutes:    a.DurationMinutes,
		AllowsOvertime:     a.AllowsOvertime,
		MaxOvertimeMinutes: a.MaxOvertimeMinutes,
	})
}

// =============================================================================
// CHECK-IN / CHECK-OUT
// =============================================================================

// CheckIn opens today's attendance record.
// POST /api/users/{userID}/check-in
func (h *Handler) CheckIn(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}

	result, err := h.Engine.Accountant.CheckIn(r.Context(), userID, h.Now())
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, CheckInDTO{
		Entry:                  result.Entry.String(),
		PlannedExit:            result.PlannedExit.Format(time.RFC3339),
		OutstandingDebtMinutes: result.OutstandingDebtMinutes,
	})
}

// CheckOut closes the open record and settles debt.
// POST /api/users/{userID}/check-out
func (h *Handler) CheckOut(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}

	result, err := h.Engine.Accountant.CheckOut(r.Context(), userID, h.Now())
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, CheckOutDTO{
		Exit:             result.Exit.String(),
		WorkedMinutes:    result.WorkedMinutes,
		DebtDeltaMinutes: result.DebtDeltaMinutes,
	})
}

// =============================================================================
// STATUS / DEBT
// =============================================================================

// Status reports the on-shift flag and total debt.
// GET /api/users/{userID}/status
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}

	onShift, err := h.Engine.Accountant.OnShift(r.Context(), userID, attendance.DateOf(h.Now()))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	debt, err := h.Engine.Accountant.CurrentDebt(r.Context(), userID)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, StatusDTO{OnShift: onShift, DebtMinutes: debt})
}

// Debt lists the outstanding shortfall entries.
// GET /api/users/{userID}/debt
func (h *Handler) Debt(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}

	entries, err := h.Engine.Debts.Entries(r.Context(), userID)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	dto := DebtDTO{Entries: make([]DebtEntryDTO, 0, len(entries))}
	for _, e := range entries {
		dto.TotalMinutes += e.Minutes
		dto.Entries = append(dto.Entries, DebtEntryDTO{Day: e.Day.String(), Minutes: e.Minutes})
	}
	writeJSON(w, http.StatusOK, dto)
}

// =============================================================================
// VACATIONS
// =============================================================================

// RequestVacation registers a vacation range.
// POST /api/users/{userID}/vacations
func (h *Handler) RequestVacation(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}

	var req VacationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body", err)
		return
	}

	start, err := attendance.ParseDate(req.Start)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid start date", err)
		return
	}
	end, err := attendance.ParseDate(req.End)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid end date", err)
		return
	}

	summary, err := h.Engine.Vacations.RegisterRange(r.Context(), userID, start, end)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, VacationDTO{Added: summary.Added, Skipped: summary.Skipped})
}

// =============================================================================
// REPORTS
// =============================================================================

// WeeklyReport returns entries from Monday of the reference week.
// GET /api/users/{userID}/reports/weekly?date=2006-01-02
func (h *Handler) WeeklyReport(w http.ResponseWriter, r *http.Request) {
	h.rangeReport(w, r, h.Engine.Reports.Weekly)
}

// MonthlyReport returns entries from the 1st of the reference month.
// GET /api/users/{userID}/reports/monthly?date=2006-01-02
func (h *Handler) MonthlyReport(w http.ResponseWriter, r *http.Request) {
	h.rangeReport(w, r, h.Engine.Reports.Monthly)
}

func (h *Handler) rangeReport(w http.ResponseWriter, r *http.Request,
	report func(ctx context.Context, userID attendance.UserID, ref attendance.Date) ([]attendance.DayEntry, error)) {

	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}
	ref, ok := h.refDateParam(w, r)
	if !ok {
		return
	}

	entries, err := report(r.Context(), userID, ref)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	dtos := make([]DayEntryDTO, 0, len(entries))
	for _, e := range entries {
		dto := DayEntryDTO{
			Date:          e.Date.String(),
			Vacation:      e.Vacation,
			WorkedMinutes: e.WorkedMinutes,
		}
		if e.Entry != nil {
			dto.Entry = e.Entry.String()
		}
		if e.Exit != nil {
			dto.Exit = e.Exit.String()
		}
		dtos = append(dtos, dto)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// Analytics returns the monthly summary.
// GET /api/users/{userID}/reports/analytics?date=2006-01-02
func (h *Handler) Analytics(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}
	ref, ok := h.refDateParam(w, r)
	if !ok {
		return
	}

	a, err := h.Engine.Reports.Analytics(r.Context(), userID, ref)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	dto := AnalyticsDTO{
		ShiftCount:         a.ShiftCount,
		AvgDurationMinutes: a.AvgDurationMinutes,
		OvertimeDayCount:   a.OvertimeDayCount,
		DebtDayCount:       a.DebtDayCount,
	}
	if a.AvgEntry != nil {
		dto.AvgEntry = a.AvgEntry.String()
	}
	if a.AvgExit != nil {
		dto.AvgExit = a.AvgExit.String()
	}
	writeJSON(w, http.StatusOK, dto)
}

// =============================================================================
// HELPERS
// =============================================================================

func userIDParam(w http.ResponseWriter, r *http.Request) (attendance.UserID, bool) {
	raw := chi.URLParam(r, "userID")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id", err)
		return 0, false
	}
	return attendance.UserID(id), true
}

// refDateParam reads the optional ?date= query, defaulting to today.
func (h *Handler) refDateParam(w http.ResponseWriter, r *http.Request) (attendance.Date, bool) {
	raw := r.URL.Query().Get("date")
	if raw == "" {
		return attendance.DateOf(h.Now()), true
	}
	d, err := attendance.ParseDate(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date", err)
		return attendance.Date{}, false
	}
	return d, true
}

func (h *Handler) writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, attendance.ErrNoShiftConfigured):
		writeError(w, http.StatusConflict, "no shift configured; select a shift first", err)
	case errors.Is(err, attendance.ErrAlreadyOnShift):
		writeError(w, http.StatusConflict, "already checked in", err)
	case errors.Is(err, attendance.ErrNoOpenRecord):
		writeError(w, http.StatusConflict, "not checked in", err)
	case errors.Is(err, attendance.ErrDayCompleted):
		writeError(w, http.StatusConflict, "this day already has attendance data", err)
	case errors.Is(err, attendance.ErrInvalidRange):
		writeError(w, http.StatusBadRequest, "end date precedes start date", err)
	case attendance.IsStorage(err):
		h.Logger.Error("storage failure", zap.Error(err))
		writeError(w, http.StatusServiceUnavailable, "storage unavailable", nil)
	default:
		h.Logger.Error("unhandled error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error", nil)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string, err error) {
	body := map[string]any{"error": msg}
	if err != nil {
		body["detail"] = err.Error()
	}
	writeJSON(w, status, body)
}
