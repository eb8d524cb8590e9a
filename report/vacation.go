package report

import "github.com/clockwise/reporting-engine/calendar"

// =============================================================================
// VACATION AGGREGATION - Per-user presence grids
// =============================================================================

// VacationGrid is one user's presence over a day range. Days is aligned
// with the grid the report was built for: day i is true iff the user has
// at least one time entry, on any task, on that date. Derived per
// request, never persisted.
type VacationGrid struct {
	UserID int64
	Name   string
	Days   []bool
	Count  int
}

// VacationGrids builds one grid per user, in the supplied user order.
// Users with no entries in the range still appear with an all-false grid
// and count 0: absence is informative, not an omission.
func VacationGrids(users []User, rows []EntryRow, days []calendar.Day) []VacationGrid {
	type presenceKey struct {
		userID int64
		date   calendar.Date
	}
	present := make(map[presenceKey]bool, len(rows))
	for _, row := range rows {
		present[presenceKey{row.UserID, row.Date}] = true
	}

	grids := make([]VacationGrid, 0, len(users))
	for _, u := range users {
		grid := VacationGrid{
			UserID: u.ID,
			Name:   u.Name,
			Days:   make([]bool, len(days)),
		}
		for i, day := range days {
			if present[presenceKey{u.ID, day.Date}] {
				grid.Days[i] = true
				grid.Count++
			}
		}
		grids = append(grids, grid)
	}
	return grids
}
