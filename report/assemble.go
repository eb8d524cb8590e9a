package report

import (
	"github.com/clockwise/reporting-engine/calendar"
	"github.com/clockwise/reporting-engine/closing"
)

// =============================================================================
// REPORT ASSEMBLY - Flat rows onto the day grid
// =============================================================================

// Assemble builds one report row per contributor, in the supplied
// contributor order, with one entry slot per grid day. A persisted row is
// matched to a slot when its date equals the day and its contributor
// matches the row; days without a match get an empty slot (ID 0, nil
// Hours) so the caller can create a new entry by submitting it.
func Assemble(days []calendar.Day, contributors []Contributor, rows []EntryRow) TimeReport {
	report := TimeReport{Tasks: make([]TimeReportTask, 0, len(contributors))}
	if len(days) > 0 {
		report.From = days[0].Date
		report.To = days[len(days)-1].Date
	}

	// Index persisted rows by (contributor, date) for the slot lookup.
	type slotKey struct {
		contributorID int64
		date          calendar.Date
	}
	bySlot := make(map[slotKey]EntryRow, len(rows))
	for _, row := range rows {
		bySlot[slotKey{row.ContributorID, row.Date}] = row
	}

	for _, c := range contributors {
		task := TimeReportTask{
			ContributorID: c.ID,
			Task:          c.Task,
			Entries:       make([]TimeEntry, 0, len(days)),
		}
		for _, day := range days {
			entry := TimeEntry{ContributorID: c.ID, Day: day}
			if row, ok := bySlot[slotKey{c.ID, day.Date}]; ok {
				hours := row.Hours
				entry.ID = row.ID
				entry.Hours = &hours
			}
			task.Entries = append(task.Entries, entry)
		}
		report.Tasks = append(report.Tasks, task)
	}
	return report
}

// ApplyLockState returns a copy of the report with Closed set on every
// entry whose day falls in a closed month. Hours are never altered; the
// input report is not mutated.
func ApplyLockState(r TimeReport, closed closing.MonthSet) TimeReport {
	out := TimeReport{From: r.From, To: r.To, Tasks: make([]TimeReportTask, len(r.Tasks))}
	for i, task := range r.Tasks {
		entries := make([]TimeEntry, len(task.Entries))
		for j, e := range task.Entries {
			e.Closed = closed.ContainsDate(e.Day.Date)
			entries[j] = e
		}
		out.Tasks[i] = TimeReportTask{
			ContributorID: task.ContributorID,
			Task:          task.Task,
			Entries:       entries,
		}
	}
	return out
}
