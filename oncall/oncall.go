/*
Package oncall resolves configured on-call time windows.

PURPOSE:
  Each project may configure, per weekday, a time-of-day window during
  which a user is considered on call. Either bound may be absent (an
  open-ended window), and a start later than its end marks a window that
  spans midnight. The matcher decides membership for a probe time; the
  schedule resolves windows over the same calendar-day model the time
  reports use.

WINDOW SEMANTICS (all bounds inclusive):
  no bounds          -> never on call that day
  start only         -> [start, 23:59:59]
  end only           -> [00:00:00, end]
  start <= end       -> [start, end]
  start >  end       -> [start, 23:59:59] U [00:00:00, end]
*/
package oncall

import (
	"context"
	"time"

	"github.com/clockwise/reporting-engine/calendar"
)

// =============================================================================
// WINDOW - Per-project, per-weekday configuration
// =============================================================================

// Window is one project's configured on-call interval for one weekday.
// Start and End are optional; both absent means no window that day.
type Window struct {
	ID        int64
	ProjectID int64
	Weekday   time.Weekday
	Start     *calendar.TimeOfDay
	End       *calendar.TimeOfDay
}

// ConfigStore fetches window configuration.
type ConfigStore interface {
	// Find returns the window for a project and weekday, or nil when no
	// window is configured. A missing row is equivalent to an empty window.
	Find(ctx context.Context, projectID int64, weekday time.Weekday) (*Window, error)

	// ListByProject returns all configured windows for a project.
	ListByProject(ctx context.Context, projectID int64) ([]Window, error)
}

// =============================================================================
// WINDOW MATCHING
// =============================================================================

// WithinWindow decides whether probe falls inside the window. Pure and
// total: a nil window never matches. Rules are evaluated in order; all
// comparisons are inclusive at both bounds.
func WithinWindow(w *Window, probe calendar.TimeOfDay) bool {
	if w == nil || (w.Start == nil && w.End == nil) {
		return false
	}

	switch {
	case w.End == nil:
		// Open-ended to midnight.
		return probe.AfterOrEqual(*w.Start)

	case w.Start == nil:
		// Open-ended from midnight.
		return probe.BeforeOrEqual(*w.End)

	case w.Start.BeforeOrEqual(*w.End):
		// Same-day window.
		return probe.AfterOrEqual(*w.Start) && probe.BeforeOrEqual(*w.End)

	default:
		// Start after end: the window spans midnight.
		return probe.AfterOrEqual(*w.Start) || probe.BeforeOrEqual(*w.End)
	}
}

// =============================================================================
// SCHEDULE - Windows resolved over a day grid
// =============================================================================

// ScheduleDay pairs one grid day with its configured window, if any.
type ScheduleDay struct {
	Day    calendar.Day
	Window *Window
}

// Schedule resolves each grid day's window by weekday, reusing the
// calendar-day model of the time reports.
func Schedule(ctx context.Context, store ConfigStore, projectID int64, days []calendar.Day) ([]ScheduleDay, error) {
	byWeekday := make(map[time.Weekday]*Window, 7)
	windows, err := store.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	for i := range windows {
		byWeekday[windows[i].Weekday] = &windows[i]
	}

	schedule := make([]ScheduleDay, 0, len(days))
	for _, day := range days {
		schedule = append(schedule, ScheduleDay{
			Day:    day,
			Window: byWeekday[day.Date.Weekday()],
		})
	}
	return schedule, nil
}

// IsOnCall decides on-call membership for a project at an instant: the
// window is looked up by the instant's weekday and matched against its
// clock time.
func IsOnCall(ctx context.Context, store ConfigStore, projectID int64, at time.Time) (bool, error) {
	window, err := store.Find(ctx, projectID, at.Weekday())
	if err != nil {
		return false, err
	}
	return WithinWindow(window, calendar.TimeOfDayOf(at)), nil
}
