/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  JSON structures for API communication, decoupled from the domain types
  so the wire contract can evolve independently.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Handlers parse and validate; DTOs are pure data carriers. Hours travel
  as strings so decimal precision survives JSON round-trips.

SEE ALSO:
  - handlers.go: uses these types
*/
package api

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/clockwise/reporting-engine/calendar"
	"github.com/clockwise/reporting-engine/closing"
	"github.com/clockwise/reporting-engine/oncall"
	"github.com/clockwise/reporting-engine/report"
)

// =============================================================================
// TIME REPORTS
// =============================================================================

// TimeEntryDTO is one day slot of a report row. Hours is omitted for
// empty slots; id 0 marks a slot that would create a new entry.
type TimeEntryDTO struct {
	ID            int64  `json:"id"`
	ContributorID int64  `json:"contributor_id"`
	Date          string `json:"date"`
	WithinMonth   bool   `json:"within_month"`
	Hours         string `json:"hours,omitempty"`
	Closed        bool   `json:"closed"`
}

type TimeReportTaskDTO struct {
	ContributorID int64          `json:"contributor_id"`
	TaskID        int64          `json:"task_id"`
	TaskName      string         `json:"task_name"`
	Entries       []TimeEntryDTO `json:"entries"`
}

type TimeReportDTO struct {
	From  string              `json:"from"`
	To    string              `json:"to"`
	Total string              `json:"total"`
	Tasks []TimeReportTaskDTO `json:"tasks"`
}

// SubmitEntryRequest submits one day's hours for a contributor relation.
// An id of 0 creates a new entry; hours empty leaves the slot untouched.
type SubmitEntryRequest struct {
	ID            int64  `json:"id"`
	ContributorID int64  `json:"contributor_id"`
	Date          string `json:"date"`
	Hours         string `json:"hours"`
}

func toTimeReportDTO(r report.TimeReport) TimeReportDTO {
	dto := TimeReportDTO{
		From:  r.From.String(),
		To:    r.To.String(),
		Total: r.Total().String(),
		Tasks: make([]TimeReportTaskDTO, 0, len(r.Tasks)),
	}
	for _, task := range r.Tasks {
		taskDTO := TimeReportTaskDTO{
			ContributorID: task.ContributorID,
			TaskID:        task.Task.ID,
			TaskName:      task.Task.Name,
			Entries:       make([]TimeEntryDTO, 0, len(task.Entries)),
		}
		for _, e := range task.Entries {
			entryDTO := TimeEntryDTO{
				ID:            e.ID,
				ContributorID: e.ContributorID,
				Date:          e.Day.Date.String(),
				WithinMonth:   e.Day.WithinMonth,
				Closed:        e.Closed,
			}
			if e.Hours != nil {
				entryDTO.Hours = e.Hours.String()
			}
			taskDTO.Entries = append(taskDTO.Entries, entryDTO)
		}
		dto.Tasks = append(dto.Tasks, taskDTO)
	}
	return dto
}

// =============================================================================
// VACATIONS
// =============================================================================

type VacationGridDTO struct {
	UserID int64  `json:"user_id"`
	Name   string `json:"name"`
	Days   []bool `json:"days"`
	Count  int    `json:"count"`
}

type VacationReportDTO struct {
	From  string            `json:"from"`
	To    string            `json:"to"`
	Dates []string          `json:"dates"`
	Users []VacationGridDTO `json:"users"`
}

func toVacationReportDTO(v report.VacationReport) VacationReportDTO {
	dto := VacationReportDTO{
		Dates: make([]string, 0, len(v.Days)),
		Users: make([]VacationGridDTO, 0, len(v.Grids)),
	}
	if len(v.Days) > 0 {
		dto.From = v.Days[0].Date.String()
		dto.To = v.Days[len(v.Days)-1].Date.String()
	}
	for _, day := range v.Days {
		dto.Dates = append(dto.Dates, day.Date.String())
	}
	for _, g := range v.Grids {
		dto.Users = append(dto.Users, VacationGridDTO{
			UserID: g.UserID,
			Name:   g.Name,
			Days:   g.Days,
			Count:  g.Count,
		})
	}
	return dto
}

// =============================================================================
// PERIOD CLOSING
// =============================================================================

// CloseMonthRequest names the (user, month) an administrator closes or
// opens. Any date in the month works; only year and month matter.
type CloseMonthRequest struct {
	UserID int64  `json:"user_id"`
	Date   string `json:"date"`
}

type ClosedMonthDTO struct {
	Year  int    `json:"year"`
	Month int    `json:"month"`
	Date  string `json:"date"`
}

func toClosedMonthDTOs(records []closing.ClosePeriod) []ClosedMonthDTO {
	dtos := make([]ClosedMonthDTO, 0, len(records))
	for _, rec := range records {
		m := rec.Month()
		dtos = append(dtos, ClosedMonthDTO{
			Year:  m.Year,
			Month: int(m.Month),
			Date:  rec.Date.String(),
		})
	}
	return dtos
}

// =============================================================================
// ON-CALL
// =============================================================================

type WindowDTO struct {
	Weekday int    `json:"weekday"`
	Start   string `json:"start,omitempty"`
	End     string `json:"end,omitempty"`
}

type ScheduleDayDTO struct {
	Date    string     `json:"date"`
	Window  *WindowDTO `json:"window,omitempty"`
	OnCall  bool       `json:"on_call"`
	Weekday int        `json:"weekday"`
}

type OnCallReportDTO struct {
	ProjectID int64            `json:"project_id"`
	At        string           `json:"at"`
	OnCall    bool             `json:"on_call"`
	Schedule  []ScheduleDayDTO `json:"schedule"`
}

func toWindowDTO(w *oncall.Window) *WindowDTO {
	if w == nil {
		return nil
	}
	dto := &WindowDTO{Weekday: int(w.Weekday)}
	if w.Start != nil {
		dto.Start = w.Start.String()
	}
	if w.End != nil {
		dto.End = w.End.String()
	}
	return dto
}

func toScheduleDayDTOs(schedule []oncall.ScheduleDay, probe calendar.TimeOfDay) []ScheduleDayDTO {
	dtos := make([]ScheduleDayDTO, 0, len(schedule))
	for _, day := range schedule {
		dtos = append(dtos, ScheduleDayDTO{
			Date:    day.Day.Date.String(),
			Weekday: int(day.Day.Date.Weekday()),
			Window:  toWindowDTO(day.Window),
			OnCall:  oncall.WithinWindow(day.Window, probe),
		})
	}
	return dtos
}

// SaveWindowRequest configures a project's window for one weekday.
// Empty start/end mean an open bound; both empty means no window.
type SaveWindowRequest struct {
	Weekday int    `json:"weekday"`
	Start   string `json:"start"`
	End     string `json:"end"`
}

// =============================================================================
// COMMON
// =============================================================================

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func parseHours(s string) (*decimal.Decimal, error) {
	if s == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func parseAt(s string) (time.Time, error) {
	if s == "" {
		return time.Now().UTC(), nil
	}
	return time.Parse(time.RFC3339, s)
}
