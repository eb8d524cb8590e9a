/*
Package calendar provides the date model for the reporting engine.

PURPOSE:
  Time reports, period locks and on-call schedules all operate on whole
  calendar days and times of day, never on raw instants. This package owns
  those value types and the grid construction that turns a requested view
  (day, week, month, year) into an ordered sequence of days.

KEY CONCEPTS:
  - Date:      a calendar day, normalized to UTC midnight
  - Day:       a Date plus its "within requested month" classification
  - View:      the reporting granularity (day/week/month/year)
  - TimeOfDay: a clock time, used by the on-call window matcher

DESIGN PRINCIPLES:
  1. Immutability: all types are value types, built once per request
  2. Day precision: Date comparisons ignore any sub-day component
  3. No side effects: grid construction is pure date arithmetic

SEE ALSO:
  - grid.go: View definitions and grid construction
  - service.go: the external calendar collaborator interface
*/
package calendar

import "time"

// =============================================================================
// DATE - A calendar day (UTC midnight)
// =============================================================================

// Date is a calendar day. Every constructor normalizes to UTC midnight,
// so two Dates for the same day are == comparable and Date works as a
// map key.
type Date struct {
	Time time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates an instant to its calendar day.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, err
	}
	return DateOf(t), nil
}

// Comparison
func (d Date) Before(other Date) bool        { return d.normalize().Before(other.normalize()) }
func (d Date) Equal(other Date) bool         { return d.normalize().Equal(other.normalize()) }
func (d Date) After(other Date) bool         { return d.normalize().After(other.normalize()) }
func (d Date) BeforeOrEqual(other Date) bool { return d.Before(other) || d.Equal(other) }
func (d Date) AfterOrEqual(other Date) bool  { return d.After(other) || d.Equal(other) }

func (d Date) normalize() time.Time {
	return time.Date(d.Time.Year(), d.Time.Month(), d.Time.Day(), 0, 0, 0, 0, time.UTC)
}

// Arithmetic
func (d Date) AddDays(n int) Date   { return DateOf(d.Time.AddDate(0, 0, n)) }
func (d Date) AddMonths(n int) Date { return DateOf(d.Time.AddDate(0, n, 0)) }
func (d Date) AddYears(n int) Date  { return DateOf(d.Time.AddDate(n, 0, 0)) }

// Properties
func (d Date) Year() int             { return d.Time.Year() }
func (d Date) Month() time.Month     { return d.Time.Month() }
func (d Date) Day() int              { return d.Time.Day() }
func (d Date) Weekday() time.Weekday { return d.Time.Weekday() }
func (d Date) IsZero() bool          { return d.Time.IsZero() }

// SameMonth reports whether both dates fall in the same calendar month.
// Only year and month are significant; the day component is ignored.
func (d Date) SameMonth(other Date) bool {
	return d.Year() == other.Year() && d.Month() == other.Month()
}

func (d Date) String() string { return d.Time.Format("2006-01-02") }

// Boundaries
func StartOfMonth(d Date) Date { return NewDate(d.Year(), d.Month(), 1) }
func EndOfMonth(d Date) Date   { return StartOfMonth(d).AddMonths(1).AddDays(-1) }
func StartOfYear(d Date) Date  { return NewDate(d.Year(), time.January, 1) }
func EndOfYear(d Date) Date    { return NewDate(d.Year(), time.December, 31) }

func DaysBetween(from, to Date) int {
	return int(to.normalize().Sub(from.normalize()).Hours() / 24)
}
