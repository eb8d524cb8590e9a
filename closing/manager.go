package closing

import (
	"context"

	"github.com/clockwise/reporting-engine/calendar"
)

// =============================================================================
// STORE - Interface for close-period persistence
// =============================================================================

// Store persists ClosePeriod records. Find uses month-granularity
// semantics: any record whose date falls in the same (year, month)
// matches. Uniqueness per (user, month) is the store's responsibility.
type Store interface {
	// Find returns the record locking the month that contains date,
	// or nil if the month is open.
	Find(ctx context.Context, userID int64, date calendar.Date) (*ClosePeriod, error)

	// ListByUser returns all close records for a user.
	ListByUser(ctx context.Context, userID int64) ([]ClosePeriod, error)

	// Create inserts a record.
	Create(ctx context.Context, rec ClosePeriod) error

	// Delete removes a record by ID.
	Delete(ctx context.Context, id int64) error
}

// =============================================================================
// MANAGER - Open/close mutations and lock queries
// =============================================================================

// Manager drives the per-(user, month) lock state machine over a Store.
// Concurrency control is delegated to the store's transaction isolation;
// close/open are administrative, low-frequency actions.
type Manager struct {
	store Store
}

func NewManager(store Store) *Manager {
	return &Manager{store: store}
}

// Close locks the month containing date for the user. Closing an
// already-closed month is a no-op.
func (m *Manager) Close(ctx context.Context, userID int64, date calendar.Date) error {
	existing, err := m.store.Find(ctx, userID, date)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}
	return m.store.Create(ctx, ClosePeriod{
		UserID: userID,
		Date:   MonthOf(date).First(),
	})
}

// Open unlocks the month containing date for the user. Opening an
// already-open month is a no-op.
func (m *Manager) Open(ctx context.Context, userID int64, date calendar.Date) error {
	existing, err := m.store.Find(ctx, userID, date)
	if err != nil {
		return err
	}
	if existing == nil {
		return nil
	}
	return m.store.Delete(ctx, existing.ID)
}

// ClosedMonths resolves which of the grid's months are locked for the user.
func (m *Manager) ClosedMonths(ctx context.Context, userID int64, days []calendar.Day) (MonthSet, error) {
	records, err := m.store.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return ClosedMonths(days, records), nil
}

// ListClosings returns every close record for the user.
func (m *Manager) ListClosings(ctx context.Context, userID int64) ([]ClosePeriod, error) {
	return m.store.ListByUser(ctx, userID)
}

// IsClosed reports whether the month containing date is locked for the user.
func (m *Manager) IsClosed(ctx context.Context, userID int64, date calendar.Date) (bool, error) {
	rec, err := m.store.Find(ctx, userID, date)
	if err != nil {
		return false, err
	}
	return rec != nil, nil
}
