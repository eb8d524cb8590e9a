/*
Package closing implements administrative period locking.

PURPOSE:
  Once an administrator closes a user's reporting month, entries in that
  month can no longer be created or edited until the month is reopened.
  The lock is a per-(user, month) state machine with exactly two states,
  Open (the default) and Closed, transitioned only by explicit close/open
  actions. There are no automatic transitions.

KEY CONCEPTS:
  - Month:       a (year, month) pair; all lock comparisons use this
                 granularity, never exact dates
  - ClosePeriod: the persisted record meaning "this month is locked";
                 at most one per (user, month)
  - MonthSet:    the closed months relevant to one report grid

IDEMPOTENCY:
  Closing an already-closed month or opening an already-open one is a
  no-op, not an error. Administrative actions are low frequency and may
  be retried freely.

SEE ALSO:
  - manager.go: the close/open mutations over the store
  - report: applies lock state to assembled reports
*/
package closing

import (
	"fmt"
	"time"

	"github.com/clockwise/reporting-engine/calendar"
)

// =============================================================================
// MONTH - Lock granularity
// =============================================================================

type Month struct {
	Year  int
	Month time.Month
}

// MonthOf returns the enclosing month of a date. Only year and month are
// carried over; a ClosePeriod's stored date need not be the first of month.
func MonthOf(d calendar.Date) Month {
	return Month{Year: d.Year(), Month: d.Month()}
}

// First returns the first day of the month.
func (m Month) First() calendar.Date {
	return calendar.NewDate(m.Year, m.Month, 1)
}

func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// =============================================================================
// CLOSE PERIOD - Persisted lock record
// =============================================================================

// ClosePeriod marks one user's reporting month as closed. Date is stored
// as given by the administrative action; only its year and month matter.
type ClosePeriod struct {
	ID     int64
	UserID int64
	Date   calendar.Date
}

func (c ClosePeriod) Month() Month { return MonthOf(c.Date) }

// =============================================================================
// MONTH SET
// =============================================================================

type MonthSet map[Month]struct{}

func NewMonthSet(months ...Month) MonthSet {
	s := make(MonthSet, len(months))
	for _, m := range months {
		s[m] = struct{}{}
	}
	return s
}

func (s MonthSet) Add(m Month)           { s[m] = struct{}{} }
func (s MonthSet) Contains(m Month) bool { _, ok := s[m]; return ok }
func (s MonthSet) Len() int              { return len(s) }

// ContainsDate reports whether the date's enclosing month is in the set.
func (s MonthSet) ContainsDate(d calendar.Date) bool {
	return s.Contains(MonthOf(d))
}

// =============================================================================
// CLOSED MONTH RESOLUTION
// =============================================================================

// ClosedMonths returns, for the distinct months represented in the day
// grid, the subset that has a close record. Matching is by (year, month)
// equality regardless of the day stored on the record.
func ClosedMonths(days []calendar.Day, records []ClosePeriod) MonthSet {
	inGrid := make(MonthSet)
	for _, day := range days {
		inGrid.Add(MonthOf(day.Date))
	}

	closed := make(MonthSet)
	for _, rec := range records {
		if inGrid.Contains(rec.Month()) {
			closed.Add(rec.Month())
		}
	}
	return closed
}
