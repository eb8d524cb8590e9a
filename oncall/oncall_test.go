package oncall_test

import (
	"context"
	"testing"
	"time"

	"github.com/clockwise/reporting-engine/calendar"
	"github.com/clockwise/reporting-engine/oncall"
	"github.com/clockwise/reporting-engine/store/memory"
)

func tod(hour, minute, second int) *calendar.TimeOfDay {
	t := calendar.NewTimeOfDay(hour, minute, second)
	return &t
}

func probe(s string) calendar.TimeOfDay {
	t, err := calendar.ParseTimeOfDay(s)
	if err != nil {
		panic(err)
	}
	return t
}

// =============================================================================
// WINDOW MATCHING
// =============================================================================

func TestWithinWindow_OrdinaryInterval(t *testing.T) {
	w := &oncall.Window{Weekday: time.Monday, Start: tod(9, 0, 0), End: tod(17, 0, 0)}

	cases := []struct {
		probe string
		want  bool
	}{
		{"08:59:59", false},
		{"09:00:00", true}, // inclusive start
		{"12:00:00", true},
		{"17:00:00", true}, // inclusive end
		{"17:00:01", false},
	}
	for _, tc := range cases {
		if got := oncall.WithinWindow(w, probe(tc.probe)); got != tc.want {
			t.Errorf("%s: got %v, want %v", tc.probe, got, tc.want)
		}
	}
}

func TestWithinWindow_MidnightWraparound(t *testing.T) {
	// GIVEN: An evening window running 17:00 through 07:00 the next morning
	w := &oncall.Window{Weekday: time.Friday, Start: tod(17, 0, 0), End: tod(7, 0, 0)}

	cases := []struct {
		probe string
		want  bool
	}{
		{"16:59:00", false},
		{"17:00:00", true},
		{"23:59:59", true},
		{"00:00:00", true},
		{"06:00:00", true},
		{"07:00:00", true},
		{"07:00:01", false},
		{"12:00:00", false},
	}
	for _, tc := range cases {
		if got := oncall.WithinWindow(w, probe(tc.probe)); got != tc.want {
			t.Errorf("%s: got %v, want %v", tc.probe, got, tc.want)
		}
	}
}

func TestWithinWindow_OpenEnded(t *testing.T) {
	fromFive := &oncall.Window{Weekday: time.Monday, Start: tod(17, 0, 0)}
	untilNine := &oncall.Window{Weekday: time.Monday, End: tod(9, 0, 0)}

	if oncall.WithinWindow(fromFive, probe("16:59:59")) {
		t.Error("before an open-ended start: not on call")
	}
	if !oncall.WithinWindow(fromFive, probe("17:00:00")) || !oncall.WithinWindow(fromFive, probe("23:59:59")) {
		t.Error("after an open-ended start: on call through end of day")
	}

	if !oncall.WithinWindow(untilNine, probe("00:00:00")) || !oncall.WithinWindow(untilNine, probe("09:00:00")) {
		t.Error("up to an open end: on call from start of day")
	}
	if oncall.WithinWindow(untilNine, probe("09:00:01")) {
		t.Error("past an open end: not on call")
	}
}

func TestWithinWindow_AbsentWindow(t *testing.T) {
	if oncall.WithinWindow(nil, probe("12:00:00")) {
		t.Error("nil window never matches")
	}
	empty := &oncall.Window{Weekday: time.Monday}
	if oncall.WithinWindow(empty, probe("12:00:00")) {
		t.Error("window with neither bound never matches")
	}
}

// =============================================================================
// SCHEDULE AND LIVE LOOKUP
// =============================================================================

func TestSchedule_MapsGridDaysToWindows(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	store.AddWindow(oncall.Window{ProjectID: 5, Weekday: time.Monday, Start: tod(9, 0, 0), End: tod(17, 0, 0)})
	store.AddWindow(oncall.Window{ProjectID: 5, Weekday: time.Friday, Start: tod(17, 0, 0), End: tod(7, 0, 0)})

	// Week of Mon 2018-10-22
	days := calendar.Grid(calendar.ViewWeek, calendar.NewDate(2018, time.October, 22), calendar.NewDefaultService(2015))

	schedule, err := oncall.Schedule(ctx, store.Windows(), 5, days)
	if err != nil {
		t.Fatal(err)
	}
	if len(schedule) != 7 {
		t.Fatalf("expected 7 schedule days, got %d", len(schedule))
	}
	for _, sd := range schedule {
		wantWindow := sd.Day.Date.Weekday() == time.Monday || sd.Day.Date.Weekday() == time.Friday
		if (sd.Window != nil) != wantWindow {
			t.Errorf("%s (%s): window presence = %v, want %v", sd.Day.Date, sd.Day.Date.Weekday(), sd.Window != nil, wantWindow)
		}
	}
}

func TestIsOnCall_UsesWeekdayAndClock(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	store.AddWindow(oncall.Window{ProjectID: 5, Weekday: time.Friday, Start: tod(17, 0, 0), End: tod(7, 0, 0)})

	// Friday 2018-10-26 18:30 UTC: inside the evening window
	at := time.Date(2018, time.October, 26, 18, 30, 0, 0, time.UTC)
	on, err := oncall.IsOnCall(ctx, store.Windows(), 5, at)
	if err != nil {
		t.Fatal(err)
	}
	if !on {
		t.Error("Friday evening should be on call")
	}

	// Friday noon: outside
	at = time.Date(2018, time.October, 26, 12, 0, 0, 0, time.UTC)
	on, err = oncall.IsOnCall(ctx, store.Windows(), 5, at)
	if err != nil {
		t.Fatal(err)
	}
	if on {
		t.Error("Friday noon is off the window")
	}

	// Saturday has no window at all
	at = time.Date(2018, time.October, 27, 18, 30, 0, 0, time.UTC)
	on, err = oncall.IsOnCall(ctx, store.Windows(), 5, at)
	if err != nil {
		t.Fatal(err)
	}
	if on {
		t.Error("a weekday without a window is never on call")
	}
}
