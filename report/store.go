package report

import (
	"context"

	"github.com/clockwise/reporting-engine/calendar"
)

// =============================================================================
// STORE INTERFACES - Persistence boundaries owned by the hosting layer
// =============================================================================

// EntryStore persists time-entry rows.
type EntryStore interface {
	// Find returns a row by ID, or nil if it does not exist.
	Find(ctx context.Context, id int64) (*EntryRow, error)

	// FindByContributor returns the row for one contributor and date,
	// or nil if no entry exists yet.
	FindByContributor(ctx context.Context, contributorID int64, date calendar.Date) (*EntryRow, error)

	// ListByUser returns all rows for a user in [from, to], any task.
	ListByUser(ctx context.Context, userID int64, from, to calendar.Date) ([]EntryRow, error)

	// ListByTask returns all rows for a task in [from, to], any user.
	ListByTask(ctx context.Context, taskID int64, from, to calendar.Date) ([]EntryRow, error)

	// Create inserts a row and returns its assigned ID.
	Create(ctx context.Context, row EntryRow) (int64, error)

	// Update replaces the hours of an existing row.
	Update(ctx context.Context, row EntryRow) error

	// Delete removes a row by ID.
	Delete(ctx context.Context, id int64) error
}

// ContributorStore persists task-contributor relations.
type ContributorStore interface {
	// Find returns a relation by ID, or nil if it does not exist.
	Find(ctx context.Context, id int64) (*Contributor, error)

	// ListActiveByUser returns a user's active relations, including ones
	// with no entries yet. Order is stable and carried into reports.
	ListActiveByUser(ctx context.Context, userID int64) ([]Contributor, error)

	// ListActiveByTask returns a task's active relations.
	ListActiveByTask(ctx context.Context, taskID int64) ([]Contributor, error)
}

// UserStore lists the users a vacation report covers.
type UserStore interface {
	Find(ctx context.Context, id int64) (*User, error)
	List(ctx context.Context) ([]User, error)
}
