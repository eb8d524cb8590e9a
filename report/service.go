package report

import (
	"context"

	"github.com/clockwise/reporting-engine/calendar"
	"github.com/clockwise/reporting-engine/closing"
)

// =============================================================================
// REPORTING SERVICE - Request flow orchestration
// =============================================================================

// Service wires the grid builder, the stores and the lock manager into
// the report request flow: resolve a reference date, build the grid,
// fetch rows, assemble, annotate lock state. All dependencies are
// injected; the service holds no request state.
type Service struct {
	Entries      EntryStore
	Contributors ContributorStore
	Users        UserStore
	Closings     *closing.Manager
	Calendar     calendar.Service
	validator    *Validator
}

func NewService(entries EntryStore, contributors ContributorStore, users UserStore, closings *closing.Manager, cal calendar.Service) *Service {
	return &Service{
		Entries:      entries,
		Contributors: contributors,
		Users:        users,
		Closings:     closings,
		Calendar:     cal,
		validator:    NewValidator(contributors, closings),
	}
}

// UserReport assembles the lock-annotated report for one user, view and
// reference date.
func (s *Service) UserReport(ctx context.Context, userID int64, view calendar.View, ref calendar.Date) (TimeReport, error) {
	days := calendar.Grid(view, ref, s.Calendar)

	contributors, err := s.Contributors.ListActiveByUser(ctx, userID)
	if err != nil {
		return TimeReport{}, err
	}
	rows, err := s.Entries.ListByUser(ctx, userID, days[0].Date, days[len(days)-1].Date)
	if err != nil {
		return TimeReport{}, err
	}

	assembled := Assemble(days, contributors, rows)

	closed, err := s.Closings.ClosedMonths(ctx, userID, days)
	if err != nil {
		return TimeReport{}, err
	}
	return ApplyLockState(assembled, closed), nil
}

// PreviousRef steps the reference date back one view unit, clamped so
// navigation never leaves the system's reporting range.
func (s *Service) PreviousRef(view calendar.View, ref calendar.Date) calendar.Date {
	prev := calendar.Previous(view, ref)
	if start := s.Calendar.SystemStart(); prev.Before(start) {
		return start
	}
	return prev
}

// NextRef steps the reference date forward one view unit.
func (s *Service) NextRef(view calendar.View, ref calendar.Date) calendar.Date {
	return calendar.Next(view, ref)
}

// VacationReport holds the per-user presence grids together with the day
// range they are aligned to.
type VacationReport struct {
	Days  []calendar.Day
	Grids []VacationGrid
}

// Vacations builds presence grids for every user over the view's range.
func (s *Service) Vacations(ctx context.Context, view calendar.View, ref calendar.Date) (VacationReport, error) {
	days := calendar.Grid(view, ref, s.Calendar)

	users, err := s.Users.List(ctx)
	if err != nil {
		return VacationReport{}, err
	}

	var rows []EntryRow
	for _, u := range users {
		userRows, err := s.Entries.ListByUser(ctx, u.ID, days[0].Date, days[len(days)-1].Date)
		if err != nil {
			return VacationReport{}, err
		}
		rows = append(rows, userRows...)
	}

	return VacationReport{
		Days:  days,
		Grids: VacationGrids(users, rows, days),
	}, nil
}

// SubmitEntry validates an entry for the acting user and persists it:
// ID 0 creates a row, an existing ID updates it. A submitted slot with no
// hours and no ID is ignored (an empty slot round-tripped by a client).
// Returns the persisted row's ID.
func (s *Service) SubmitEntry(ctx context.Context, userID int64, entry TimeEntry) (int64, error) {
	if err := s.validator.Validate(ctx, userID, entry); err != nil {
		return 0, err
	}
	if entry.Hours == nil {
		return entry.ID, nil
	}

	row := EntryRow{
		ID:            entry.ID,
		ContributorID: entry.ContributorID,
		UserID:        userID,
		Date:          entry.Day.Date,
		Hours:         *entry.Hours,
	}
	if row.ID == 0 {
		return s.Entries.Create(ctx, row)
	}
	return row.ID, s.Entries.Update(ctx, row)
}

// DeleteEntry removes a persisted entry after checking that it exists,
// that it belongs to the acting user, and that the owner's month is not
// closed. Someone else's entry is reported as missing.
func (s *Service) DeleteEntry(ctx context.Context, userID, entryID int64) error {
	row, err := s.Entries.Find(ctx, entryID)
	if err != nil {
		return err
	}
	if row == nil || row.UserID != userID {
		return ErrEntryNotFound
	}

	isClosed, err := s.Closings.IsClosed(ctx, row.UserID, row.Date)
	if err != nil {
		return err
	}
	if isClosed {
		return &PeriodClosedError{UserID: row.UserID, Month: closing.MonthOf(row.Date)}
	}
	return s.Entries.Delete(ctx, entryID)
}
