/*
Package report assembles time reports from persisted time entries.

PURPOSE:
  Users log hours against tasks through task-contributor relations. This
  package maps those flat, sparse records onto the dense calendar grid of
  a requested view: one row per contributor, one entry slot per day,
  index-aligned with the day sequence. It also derives per-user vacation
  grids and validates entries before they are handed to storage.

KEY CONCEPTS IN THIS FILE (types.go):
  - EntryRow:       a persisted time-entry record, as stored
  - TimeEntry:      one day's slot in an assembled report (may be empty)
  - TimeReportTask: a contributor's row across the whole grid
  - TimeReport:     the full structure returned for one view request

DESIGN PRINCIPLES:
  1. Sparse data is normal: missing entries become empty slots, not errors
  2. Precision: hours use decimal.Decimal, never raw floats
  3. Reports are built per request and never persisted

SEE ALSO:
  - assemble.go: grid alignment algorithm
  - vacation.go: per-user presence grids
  - validate.go: entry acceptance rules
  - errors.go: the failure taxonomy
*/
package report

import (
	"github.com/shopspring/decimal"

	"github.com/clockwise/reporting-engine/calendar"
)

// =============================================================================
// PERSISTED SHAPES
// =============================================================================

// User is the entity logging time.
type User struct {
	ID   int64
	Name string
}

// Task carries the task metadata shown on a report row.
type Task struct {
	ID   int64
	Name string
}

// Contributor is the relation entitling a user to log time on a task.
type Contributor struct {
	ID     int64
	UserID int64
	Task   Task
	Active bool
}

// EntryRow is a persisted time entry: hours logged by one contributor on
// one calendar date.
type EntryRow struct {
	ID            int64
	ContributorID int64
	UserID        int64
	Date          calendar.Date
	Hours         decimal.Decimal
}

// =============================================================================
// ASSEMBLED REPORT
// =============================================================================

// TimeEntry is one day slot of a report row. ID 0 with nil Hours means
// "no entry yet"; submitting such a slot creates a new record. Closed is
// derived from the period lock state, never stored.
type TimeEntry struct {
	ID            int64
	ContributorID int64
	Day           calendar.Day
	Hours         *decimal.Decimal
	Closed        bool
}

// IsEmpty reports whether this slot has no persisted entry behind it.
func (e TimeEntry) IsEmpty() bool { return e.ID == 0 && e.Hours == nil }

// TimeReportTask is one contributor's row. Entries is index-aligned with
// the day grid the report was assembled for: entry i covers day i.
type TimeReportTask struct {
	ContributorID int64
	Task          Task
	Entries       []TimeEntry
}

// TimeReport is the assembled structure for one user and one view request.
type TimeReport struct {
	From  calendar.Date
	To    calendar.Date
	Tasks []TimeReportTask
}

// Total sums all reported hours in the report.
func (r TimeReport) Total() decimal.Decimal {
	total := decimal.Zero
	for _, task := range r.Tasks {
		for _, e := range task.Entries {
			if e.Hours != nil {
				total = total.Add(*e.Hours)
			}
		}
	}
	return total
}
