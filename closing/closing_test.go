package closing_test

import (
	"context"
	"testing"
	"time"

	"github.com/clockwise/reporting-engine/calendar"
	"github.com/clockwise/reporting-engine/closing"
	"github.com/clockwise/reporting-engine/store/memory"
)

func date(year int, month time.Month, day int) calendar.Date {
	return calendar.NewDate(year, month, day)
}

// =============================================================================
// MONTH MEMBERSHIP
// =============================================================================

func TestClosedMonths_GridIntersection(t *testing.T) {
	// GIVEN: Close records dated Oct 30 and Nov 1 and a grid spanning both
	records := []closing.ClosePeriod{
		{ID: 1, UserID: 10, Date: date(2018, time.October, 30)},
		{ID: 2, UserID: 10, Date: date(2018, time.November, 1)},
	}
	days := []calendar.Day{
		{Date: date(2018, time.September, 30)},
		{Date: date(2018, time.October, 15)},
		{Date: date(2018, time.November, 20)},
		{Date: date(2018, time.December, 1)},
	}

	closed := closing.ClosedMonths(days, records)

	// THEN: Only October and November are closed, any day of those months
	if closed.Len() != 2 {
		t.Fatalf("expected 2 closed months, got %d", closed.Len())
	}
	cases := []struct {
		probe calendar.Date
		want  bool
	}{
		{date(2018, time.October, 1), true},
		{date(2018, time.October, 31), true},
		{date(2018, time.November, 30), true},
		{date(2018, time.September, 30), false},
		{date(2018, time.December, 1), false},
		{date(2017, time.October, 15), false}, // same month name, other year
	}
	for _, tc := range cases {
		if got := closed.ContainsDate(tc.probe); got != tc.want {
			t.Errorf("%s: closed = %v, want %v", tc.probe, got, tc.want)
		}
	}
}

func TestClosedMonths_RecordOutsideGridIgnored(t *testing.T) {
	records := []closing.ClosePeriod{
		{ID: 1, UserID: 10, Date: date(2018, time.October, 30)},
	}
	days := []calendar.Day{{Date: date(2018, time.December, 1)}}

	closed := closing.ClosedMonths(days, records)
	if closed.Len() != 0 {
		t.Errorf("a close record for a month outside the grid must not appear, got %d", closed.Len())
	}
}

func TestMonthOf_DayIrrelevant(t *testing.T) {
	a := closing.MonthOf(date(2018, time.October, 1))
	b := closing.MonthOf(date(2018, time.October, 31))
	if a != b {
		t.Errorf("month identity must ignore the day: %v vs %v", a, b)
	}
	if a.String() != "2018-10" {
		t.Errorf("expected 2018-10, got %s", a.String())
	}
}

// =============================================================================
// MANAGER
// =============================================================================

func TestManager_CloseOpenLifecycle(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	m := closing.NewManager(store.Closings())

	if err := m.Close(ctx, 10, date(2018, time.October, 5)); err != nil {
		t.Fatal(err)
	}

	closed, err := m.IsClosed(ctx, 10, date(2018, time.October, 22))
	if err != nil {
		t.Fatal(err)
	}
	if !closed {
		t.Error("any October date should report closed")
	}

	// A close for someone else's month does not leak
	closed, err = m.IsClosed(ctx, 11, date(2018, time.October, 22))
	if err != nil {
		t.Fatal(err)
	}
	if closed {
		t.Error("close records are per user")
	}

	if err := m.Open(ctx, 10, date(2018, time.October, 31)); err != nil {
		t.Fatal(err)
	}
	closed, err = m.IsClosed(ctx, 10, date(2018, time.October, 22))
	if err != nil {
		t.Fatal(err)
	}
	if closed {
		t.Error("month should be open after Open")
	}
}

func TestManager_CloseIdempotent(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	m := closing.NewManager(store.Closings())

	if err := m.Close(ctx, 10, date(2018, time.October, 5)); err != nil {
		t.Fatal(err)
	}
	// Second close of the same month, different day: a no-op
	if err := m.Close(ctx, 10, date(2018, time.October, 20)); err != nil {
		t.Fatal(err)
	}

	records, err := m.ListClosings(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Fatalf("expected a single close record, got %d", len(records))
	}
}

func TestManager_OpenWithoutCloseIsNoOp(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	m := closing.NewManager(store.Closings())

	if err := m.Open(ctx, 10, date(2018, time.October, 5)); err != nil {
		t.Fatalf("opening an already-open month must succeed, got %v", err)
	}
}
