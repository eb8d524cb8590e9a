package calendar

import "time"

// =============================================================================
// VIEW - Reporting granularity
// =============================================================================

type View string

const (
	ViewDay   View = "day"
	ViewWeek  View = "week"
	ViewMonth View = "month"
	ViewYear  View = "year"
)

// ParseView returns the view for a string, defaulting to week.
func ParseView(s string) View {
	switch View(s) {
	case ViewDay, ViewWeek, ViewMonth, ViewYear:
		return View(s)
	default:
		return ViewWeek
	}
}

// =============================================================================
// DAY - One slot of a report grid
// =============================================================================

// Day is a calendar day as it appears in a report grid. WithinMonth is
// computed once at grid-build time: it records whether the day belongs to
// the reference date's month. It is never mutated afterwards.
type Day struct {
	Date        Date
	WithinMonth bool
}

func (d Day) Year() int         { return d.Date.Year() }
func (d Day) Month() time.Month { return d.Date.Month() }
func (d Day) DayOfMonth() int   { return d.Date.Day() }

// =============================================================================
// GRID CONSTRUCTION
// =============================================================================

// Grid returns the ordered, contiguous day sequence covering the view that
// contains ref. Week grids are Monday-aligned via the calendar service.
func Grid(view View, ref Date, svc Service) []Day {
	var from, to Date
	switch view {
	case ViewDay:
		from, to = ref, ref
	case ViewWeek:
		from = svc.ClosestMonday(ref)
		to = from.AddDays(6)
	case ViewMonth:
		from = StartOfMonth(ref)
		to = NewDate(ref.Year(), ref.Month(), svc.DaysInMonth(ref.Year(), ref.Month()))
	case ViewYear:
		from, to = StartOfYear(ref), EndOfYear(ref)
	default:
		from = svc.ClosestMonday(ref)
		to = from.AddDays(6)
	}

	days := make([]Day, 0, DaysBetween(from, to)+1)
	for d := from; d.BeforeOrEqual(to); d = d.AddDays(1) {
		days = append(days, Day{
			Date:        d,
			WithinMonth: d.SameMonth(ref),
		})
	}
	return days
}

// Previous steps the reference date backward by exactly one view unit.
// This is direct date arithmetic; it does not inspect any grid.
func Previous(view View, ref Date) Date {
	switch view {
	case ViewDay:
		return ref.AddDays(-1)
	case ViewWeek:
		return ref.AddDays(-7)
	case ViewMonth:
		return ref.AddMonths(-1)
	case ViewYear:
		return ref.AddYears(-1)
	default:
		return ref.AddDays(-7)
	}
}

// Next steps the reference date forward by exactly one view unit.
func Next(view View, ref Date) Date {
	switch view {
	case ViewDay:
		return ref.AddDays(1)
	case ViewWeek:
		return ref.AddDays(7)
	case ViewMonth:
		return ref.AddMonths(1)
	case ViewYear:
		return ref.AddYears(1)
	default:
		return ref.AddDays(7)
	}
}

// WithinRequestedMonth classifies a whole grid: true if ANY day in it
// belongs to the requested month. A week straddling a month boundary is
// still "within" as long as it touches the target month at all.
func WithinRequestedMonth(days []Day) bool {
	for _, d := range days {
		if d.WithinMonth {
			return true
		}
	}
	return false
}
