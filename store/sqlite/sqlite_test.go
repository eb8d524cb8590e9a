package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clockwise/reporting-engine/calendar"
	"github.com/clockwise/reporting-engine/closing"
	"github.com/clockwise/reporting-engine/oncall"
	"github.com/clockwise/reporting-engine/report"
	"github.com/clockwise/reporting-engine/store/sqlite"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func seedContributor(t *testing.T, store *sqlite.Store) (userID, contributorID int64) {
	t.Helper()
	ctx := context.Background()
	userID, err := store.SaveUser(ctx, report.User{Name: "Ada"})
	require.NoError(t, err)
	taskID, err := store.SaveTask(ctx, report.Task{Name: "Backend"})
	require.NoError(t, err)
	contributorID, err = store.SaveContributor(ctx, report.Contributor{
		UserID: userID,
		Task:   report.Task{ID: taskID},
		Active: true,
	})
	require.NoError(t, err)
	return userID, contributorID
}

func day(year int, month time.Month, d int) calendar.Date {
	return calendar.NewDate(year, month, d)
}

// =============================================================================
// USERS AND CONTRIBUTORS
// =============================================================================

func TestUserRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	id, err := store.SaveUser(ctx, report.User{Name: "Ada"})
	require.NoError(t, err)

	u, err := store.Users().Find(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "Ada", u.Name)

	missing, err := store.Users().Find(ctx, 999)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestContributorListing(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	userID, contributorID := seedContributor(t, store)

	// An inactive contributor on the same user stays out of the active lists
	otherTask, err := store.SaveTask(ctx, report.Task{Name: "Support"})
	require.NoError(t, err)
	_, err = store.SaveContributor(ctx, report.Contributor{
		UserID: userID,
		Task:   report.Task{ID: otherTask},
		Active: false,
	})
	require.NoError(t, err)

	active, err := store.Contributors().ListActiveByUser(ctx, userID)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, contributorID, active[0].ID)
	assert.Equal(t, "Backend", active[0].Task.Name)
}

// =============================================================================
// TIME ENTRIES
// =============================================================================

func TestEntryCRUD(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	userID, contributorID := seedContributor(t, store)

	id, err := store.Entries().Create(ctx, report.EntryRow{
		ContributorID: contributorID,
		UserID:        userID,
		Date:          day(2018, time.October, 22),
		Hours:         decimal.RequireFromString("8.25"),
	})
	require.NoError(t, err)
	require.NotZero(t, id)

	row, err := store.Entries().Find(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.True(t, row.Hours.Equal(decimal.RequireFromString("8.25")), "hours survive the round trip exactly")
	assert.True(t, row.Date.Equal(day(2018, time.October, 22)))

	row.Hours = decimal.RequireFromString("6.5")
	require.NoError(t, store.Entries().Update(ctx, *row))

	updated, err := store.Entries().Find(ctx, id)
	require.NoError(t, err)
	assert.True(t, updated.Hours.Equal(decimal.RequireFromString("6.5")))

	require.NoError(t, store.Entries().Delete(ctx, id))
	gone, err := store.Entries().Find(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestEntryListByUser_RangeIsInclusive(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	userID, contributorID := seedContributor(t, store)

	for _, d := range []calendar.Date{
		day(2018, time.September, 30),
		day(2018, time.October, 1),
		day(2018, time.October, 31),
		day(2018, time.November, 1),
	} {
		_, err := store.Entries().Create(ctx, report.EntryRow{
			ContributorID: contributorID,
			UserID:        userID,
			Date:          d,
			Hours:         decimal.RequireFromString("8"),
		})
		require.NoError(t, err)
	}

	rows, err := store.Entries().ListByUser(ctx, userID, day(2018, time.October, 1), day(2018, time.October, 31))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.True(t, rows[0].Date.Equal(day(2018, time.October, 1)))
	assert.True(t, rows[1].Date.Equal(day(2018, time.October, 31)))
}

func TestEntryFindByContributor(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	userID, contributorID := seedContributor(t, store)

	id, err := store.Entries().Create(ctx, report.EntryRow{
		ContributorID: contributorID,
		UserID:        userID,
		Date:          day(2018, time.October, 22),
		Hours:         decimal.RequireFromString("8"),
	})
	require.NoError(t, err)

	row, err := store.Entries().FindByContributor(ctx, contributorID, day(2018, time.October, 22))
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, id, row.ID)

	none, err := store.Entries().FindByContributor(ctx, contributorID, day(2018, time.October, 23))
	require.NoError(t, err)
	assert.Nil(t, none)
}

// =============================================================================
// CLOSE PERIODS
// =============================================================================

func TestClosingFind_MonthGranularity(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	userID, _ := seedContributor(t, store)

	require.NoError(t, store.Closings().Create(ctx, closing.ClosePeriod{
		UserID: userID,
		Date:   day(2018, time.October, 30),
	}))

	// Any October date finds the record, whatever day it was stored under
	rec, err := store.Closings().Find(ctx, userID, day(2018, time.October, 2))
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, userID, rec.UserID)

	none, err := store.Closings().Find(ctx, userID, day(2018, time.November, 2))
	require.NoError(t, err)
	assert.Nil(t, none)

	otherUser, err := store.Closings().Find(ctx, userID+1, day(2018, time.October, 2))
	require.NoError(t, err)
	assert.Nil(t, otherUser)
}

func TestClosingCreate_DuplicateMonthIdempotent(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	userID, _ := seedContributor(t, store)

	require.NoError(t, store.Closings().Create(ctx, closing.ClosePeriod{UserID: userID, Date: day(2018, time.October, 5)}))
	// Same month again, different day: the unique index absorbs it
	require.NoError(t, store.Closings().Create(ctx, closing.ClosePeriod{UserID: userID, Date: day(2018, time.October, 20)}))

	records, err := store.Closings().ListByUser(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestClosingDelete(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	userID, _ := seedContributor(t, store)

	require.NoError(t, store.Closings().Create(ctx, closing.ClosePeriod{UserID: userID, Date: day(2018, time.October, 5)}))
	rec, err := store.Closings().Find(ctx, userID, day(2018, time.October, 5))
	require.NoError(t, err)
	require.NotNil(t, rec)

	require.NoError(t, store.Closings().Delete(ctx, rec.ID))
	gone, err := store.Closings().Find(ctx, userID, day(2018, time.October, 5))
	require.NoError(t, err)
	assert.Nil(t, gone)
}

// =============================================================================
// ON-CALL WINDOWS
// =============================================================================

func TestWindowRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	start := calendar.NewTimeOfDay(17, 0, 0)
	end := calendar.NewTimeOfDay(7, 0, 0)
	require.NoError(t, store.SaveWindow(ctx, oncall.Window{
		ProjectID: 5,
		Weekday:   time.Friday,
		Start:     &start,
		End:       &end,
	}))

	w, err := store.Windows().Find(ctx, 5, time.Friday)
	require.NoError(t, err)
	require.NotNil(t, w)
	require.NotNil(t, w.Start)
	require.NotNil(t, w.End)
	assert.Equal(t, "17:00:00", w.Start.String())
	assert.Equal(t, "07:00:00", w.End.String())

	none, err := store.Windows().Find(ctx, 5, time.Monday)
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestWindowSave_ReplacesExistingWeekday(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	start := calendar.NewTimeOfDay(9, 0, 0)
	require.NoError(t, store.SaveWindow(ctx, oncall.Window{ProjectID: 5, Weekday: time.Monday, Start: &start}))

	later := calendar.NewTimeOfDay(10, 30, 0)
	require.NoError(t, store.SaveWindow(ctx, oncall.Window{ProjectID: 5, Weekday: time.Monday, Start: &later}))

	windows, err := store.Windows().ListByProject(ctx, 5)
	require.NoError(t, err)
	require.Len(t, windows, 1)
	assert.Equal(t, "10:30:00", windows[0].Start.String())
	assert.Nil(t, windows[0].End)
}
