/*
handlers.go - HTTP API handlers for the reporting engine

PURPOSE:
  Exposes the temporal reporting engine via REST. Handlers parse HTTP,
  resolve the acting user from the route, and delegate to the reporting
  service and lock manager. The acting user is always explicit: there is
  no ambient security context anywhere below this layer.

ENDPOINTS:
  Time reports:
    GET    /api/users/{id}/reports/{view}           current view
    GET    /api/users/{id}/reports/{view}/previous  one unit back
    GET    /api/users/{id}/reports/{view}/next      one unit forward
    POST   /api/users/{id}/entries                  submit an entry
    DELETE /api/users/{id}/entries/{entryID}        remove an entry

  Vacations:
    GET    /api/reports/vacations                   presence grids

  Period closing (admin):
    POST   /api/admin/closings                      close a (user, month)
    DELETE /api/admin/closings                      open a (user, month)
    GET    /api/admin/closings/{userID}             list closed months

  On-call:
    GET    /api/projects/{id}/oncall                probe + day schedule
    PUT    /api/projects/{id}/oncall/windows        configure a window

ERROR HANDLING:
  Business-rule failures map to statuses:
  - 400: invalid input, hours out of range or too precise
  - 404: contributor or entry not found
  - 409: inactive contributor, period closed
  - 500: everything else

SEE ALSO:
  - dto.go: request/response shapes
  - server.go: router and middleware
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

	"github.com/clockwise/reporting-engine/calendar"
	"github.com/clockwise/reporting-engine/closing"
	"github.com/clockwise/reporting-engine/logger"
	"github.com/clockwise/reporting-engine/oncall"
	"github.com/clockwise/reporting-engine/report"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Reports  *report.Service
	Closings *closing.Manager
	OnCall   oncall.ConfigStore
	Windows  WindowSaver
	Calendar calendar.Service
}

// WindowSaver is the write side of on-call configuration.
type WindowSaver interface {
	SaveWindow(ctx context.Context, w oncall.Window) error
}

// =============================================================================
// TIME REPORT HANDLERS
// =============================================================================

// GetReport returns the report for the requested view and reference date.
// GET /api/users/{id}/reports/{view}?date=YYYY-MM-DD
func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	h.serveReport(w, r, func(view calendar.View, ref calendar.Date) calendar.Date { return ref })
}

// GetPreviousReport steps one view unit back from the reference date.
// GET /api/users/{id}/reports/{view}/previous?date=YYYY-MM-DD
func (h *Handler) GetPreviousReport(w http.ResponseWriter, r *http.Request) {
	h.serveReport(w, r, h.Reports.PreviousRef)
}

// GetNextReport steps one view unit forward from the reference date.
// GET /api/users/{id}/reports/{view}/next?date=YYYY-MM-DD
func (h *Handler) GetNextReport(w http.ResponseWriter, r *http.Request) {
	h.serveReport(w, r, h.Reports.NextRef)
}

func (h *Handler) serveReport(w http.ResponseWriter, r *http.Request, step func(calendar.View, calendar.Date) calendar.Date) {
	userID, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid user id", err)
		return
	}
	view := calendar.ParseView(chi.URLParam(r, "view"))
	ref, err := h.refDate(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date (use YYYY-MM-DD)", err)
		return
	}

	ref = step(view, ref)
	result, err := h.Reports.UserReport(r.Context(), userID, view, ref)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to build report", err)
		return
	}
	writeJSON(w, http.StatusOK, toTimeReportDTO(result))
}

// SubmitEntry accepts one day's hours for a contributor relation.
// POST /api/users/{id}/entries
func (h *Handler) SubmitEntry(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid user id", err)
		return
	}

	var req SubmitEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	date, err := calendar.ParseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date (use YYYY-MM-DD)", err)
		return
	}
	hours, err := parseHours(req.Hours)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid hours", err)
		return
	}

	entry := report.TimeEntry{
		ID:            req.ID,
		ContributorID: req.ContributorID,
		Day:           calendar.Day{Date: date, WithinMonth: true},
		Hours:         hours,
	}

	id, err := h.Reports.SubmitEntry(r.Context(), userID, entry)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	logger.GetFromContext(r.Context()).Info("entry accepted",
		"user_id", userID, "contributor_id", req.ContributorID, "date", req.Date)
	writeJSON(w, http.StatusOK, map[string]int64{"id": id})
}

// DeleteEntry removes a persisted entry.
// DELETE /api/users/{id}/entries/{entryID}
func (h *Handler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid user id", err)
		return
	}
	entryID, err := pathID(r, "entryID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid entry id", err)
		return
	}

	if err := h.Reports.DeleteEntry(r.Context(), userID, entryID); err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// VACATION HANDLERS
// =============================================================================

// GetVacations returns presence grids for all users over a view range.
// GET /api/reports/vacations?view=month&date=YYYY-MM-DD
func (h *Handler) GetVacations(w http.ResponseWriter, r *http.Request) {
	view := calendar.ParseView(r.URL.Query().Get("view"))
	ref, err := h.refDate(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date (use YYYY-MM-DD)", err)
		return
	}

	result, err := h.Reports.Vacations(r.Context(), view, ref)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to build vacation report", err)
		return
	}
	writeJSON(w, http.StatusOK, toVacationReportDTO(result))
}

// =============================================================================
// PERIOD CLOSING HANDLERS
// =============================================================================

// CloseMonth locks a user's month. Idempotent.
// POST /api/admin/closings
func (h *Handler) CloseMonth(w http.ResponseWriter, r *http.Request) {
	req, date, ok := h.parseCloseRequest(w, r)
	if !ok {
		return
	}
	if err := h.Closings.Close(r.Context(), req.UserID, date); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to close month", err)
		return
	}
	logger.GetFromContext(r.Context()).Info("month closed",
		"user_id", req.UserID, "month", closing.MonthOf(date).String())
	w.WriteHeader(http.StatusNoContent)
}

// OpenMonth unlocks a user's month. Idempotent.
// DELETE /api/admin/closings
func (h *Handler) OpenMonth(w http.ResponseWriter, r *http.Request) {
	req, date, ok := h.parseCloseRequest(w, r)
	if !ok {
		return
	}
	if err := h.Closings.Open(r.Context(), req.UserID, date); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to open month", err)
		return
	}
	logger.GetFromContext(r.Context()).Info("month opened",
		"user_id", req.UserID, "month", closing.MonthOf(date).String())
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) parseCloseRequest(w http.ResponseWriter, r *http.Request) (CloseMonthRequest, calendar.Date, bool) {
	var req CloseMonthRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return req, calendar.Date{}, false
	}
	date, err := calendar.ParseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date (use YYYY-MM-DD)", err)
		return req, calendar.Date{}, false
	}
	return req, date, true
}

// ListClosedMonths returns a user's closed months.
// GET /api/admin/closings/{userID}
func (h *Handler) ListClosedMonths(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid user id", err)
		return
	}

	records, err := h.Closings.ListClosings(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list closed months", err)
		return
	}
	writeJSON(w, http.StatusOK, toClosedMonthDTOs(records))
}

// =============================================================================
// ON-CALL HANDLERS
// =============================================================================

// GetOnCall reports whether the probe instant is inside the project's
// window and resolves the surrounding day schedule.
// GET /api/projects/{id}/oncall?at=RFC3339&view=week
func (h *Handler) GetOnCall(w http.ResponseWriter, r *http.Request) {
	projectID, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid project id", err)
		return
	}
	at, err := parseAt(r.URL.Query().Get("at"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid probe time (use RFC3339)", err)
		return
	}
	view := calendar.ParseView(r.URL.Query().Get("view"))

	onCall, err := oncall.IsOnCall(r.Context(), h.OnCall, projectID, at)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to resolve on-call state", err)
		return
	}

	days := calendar.Grid(view, calendar.DateOf(at), h.Calendar)
	schedule, err := oncall.Schedule(r.Context(), h.OnCall, projectID, days)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to resolve schedule", err)
		return
	}

	writeJSON(w, http.StatusOK, OnCallReportDTO{
		ProjectID: projectID,
		At:        at.Format(time.RFC3339),
		OnCall:    onCall,
		Schedule:  toScheduleDayDTOs(schedule, calendar.TimeOfDayOf(at)),
	})
}

// SaveWindow configures a project's window for one weekday.
// PUT /api/projects/{id}/oncall/windows
func (h *Handler) SaveWindow(w http.ResponseWriter, r *http.Request) {
	projectID, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid project id", err)
		return
	}

	var req SaveWindowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Weekday < 0 || req.Weekday > 6 {
		writeError(w, http.StatusBadRequest, "Weekday must be 0 (Sunday) through 6 (Saturday)", nil)
		return
	}

	window := oncall.Window{
		ProjectID: projectID,
		Weekday:   time.Weekday(req.Weekday),
	}
	if req.Start != "" {
		t, err := calendar.ParseTimeOfDay(req.Start)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid start time (use HH:MM or HH:MM:SS)", err)
			return
		}
		window.Start = &t
	}
	if req.End != "" {
		t, err := calendar.ParseTimeOfDay(req.End)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid end time (use HH:MM or HH:MM:SS)", err)
			return
		}
		window.End = &t
	}

	if err := h.Windows.SaveWindow(r.Context(), window); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save window", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// HELPERS
// =============================================================================

func (h *Handler) refDate(r *http.Request) (calendar.Date, error) {
	if s := r.URL.Query().Get("date"); s != "" {
		return calendar.ParseDate(s)
	}
	return h.Calendar.Now(), nil
}

func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeDomainError maps the validation taxonomy onto HTTP statuses.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case report.IsNotFound(err):
		writeError(w, http.StatusNotFound, "Not found", err)
	case errors.Is(err, report.ErrHoursOutOfRange):
		writeError(w, http.StatusBadRequest, "Invalid reported time", err)
	case errors.Is(err, report.ErrContributorInactive):
		writeError(w, http.StatusConflict, "Contributor inactive", err)
	case errors.Is(err, report.ErrPeriodClosed):
		writeError(w, http.StatusConflict, "Reporting period closed", err)
	default:
		logger.GetFromContext(r.Context()).Error("entry rejected", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal error", err)
	}
}
