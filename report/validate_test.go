package report_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/clockwise/reporting-engine/calendar"
	"github.com/clockwise/reporting-engine/closing"
	"github.com/clockwise/reporting-engine/report"
	"github.com/clockwise/reporting-engine/store/memory"
)

// =============================================================================
// HOURS CHECKS
// =============================================================================

func TestValidateHours_AcceptsTwoDecimalPlaces(t *testing.T) {
	for _, s := range []string{"0", "8", "8.5", "8.55", "24", "0.01"} {
		if err := report.ValidateHours(decimal.RequireFromString(s)); err != nil {
			t.Errorf("%s: expected valid hours, got %v", s, err)
		}
	}
}

func TestValidateHours_RejectsOutOfRangeAndExcessPrecision(t *testing.T) {
	for _, s := range []string{"-1", "-0.01", "24.01", "25", "8.112", "0.001"} {
		err := report.ValidateHours(decimal.RequireFromString(s))
		if err == nil {
			t.Errorf("%s: expected rejection", s)
			continue
		}
		if !errors.Is(err, report.ErrHoursOutOfRange) {
			t.Errorf("%s: expected ErrHoursOutOfRange, got %v", s, err)
		}
	}
}

// =============================================================================
// FULL VALIDATION CHAIN
// =============================================================================

func newValidatorFixture(t *testing.T) (*memory.Store, *report.Validator) {
	t.Helper()
	store := memory.New()
	validator := report.NewValidator(store.Contributors(), closing.NewManager(store.Closings()))
	return store, validator
}

func entryFor(contributorID int64, d calendar.Date, h string) report.TimeEntry {
	hrs := decimal.RequireFromString(h)
	return report.TimeEntry{
		ContributorID: contributorID,
		Day:           calendar.Day{Date: d, WithinMonth: true},
		Hours:         &hrs,
	}
}

func TestValidate_AcceptsKnownActiveContributor(t *testing.T) {
	store, validator := newValidatorFixture(t)
	c := store.AddContributor(report.Contributor{UserID: 10, Task: report.Task{ID: 100, Name: "Backend"}, Active: true})

	err := validator.Validate(context.Background(), 10, entryFor(c.ID, date(2018, time.October, 22), "8"))
	if err != nil {
		t.Fatalf("expected valid entry, got %v", err)
	}
}

func TestValidate_UnknownContributor(t *testing.T) {
	_, validator := newValidatorFixture(t)

	err := validator.Validate(context.Background(), 10, entryFor(999, date(2018, time.October, 22), "8"))
	if !errors.Is(err, report.ErrContributorNotFound) {
		t.Fatalf("expected ErrContributorNotFound, got %v", err)
	}
	if !report.IsNotFound(err) {
		t.Error("not-found classifier should match")
	}
}

func TestValidate_ContributorOwnedByAnotherUser(t *testing.T) {
	// GIVEN: An active relation belonging to user 11
	store, validator := newValidatorFixture(t)
	c := store.AddContributor(report.Contributor{UserID: 11, Task: report.Task{ID: 100, Name: "Backend"}, Active: true})

	// THEN: User 10 cannot log time against it
	err := validator.Validate(context.Background(), 10, entryFor(c.ID, date(2018, time.October, 22), "8"))
	if !errors.Is(err, report.ErrContributorNotFound) {
		t.Fatalf("expected ErrContributorNotFound for a foreign relation, got %v", err)
	}

	// AND: The owner still can
	if err := validator.Validate(context.Background(), 11, entryFor(c.ID, date(2018, time.October, 22), "8")); err != nil {
		t.Fatalf("owner should pass validation, got %v", err)
	}
}

func TestValidate_InactiveContributor(t *testing.T) {
	store, validator := newValidatorFixture(t)
	c := store.AddContributor(report.Contributor{UserID: 10, Task: report.Task{ID: 100, Name: "Backend"}, Active: false})

	err := validator.Validate(context.Background(), 10, entryFor(c.ID, date(2018, time.October, 22), "8"))
	if !errors.Is(err, report.ErrContributorInactive) {
		t.Fatalf("expected ErrContributorInactive, got %v", err)
	}
}

func TestValidate_BadHoursBeforeLockCheck(t *testing.T) {
	store, validator := newValidatorFixture(t)
	c := store.AddContributor(report.Contributor{UserID: 10, Task: report.Task{ID: 100, Name: "Backend"}, Active: true})

	err := validator.Validate(context.Background(), 10, entryFor(c.ID, date(2018, time.October, 22), "8.112"))
	if !errors.Is(err, report.ErrHoursOutOfRange) {
		t.Fatalf("expected ErrHoursOutOfRange, got %v", err)
	}
	if !report.IsClientError(err) {
		t.Error("hours errors are client errors")
	}
}

func TestValidate_ClosedMonthRejected(t *testing.T) {
	// GIVEN: October 2018 is closed for the user
	store, validator := newValidatorFixture(t)
	c := store.AddContributor(report.Contributor{UserID: 10, Task: report.Task{ID: 100, Name: "Backend"}, Active: true})
	manager := closing.NewManager(store.Closings())
	if err := manager.Close(context.Background(), 10, date(2018, time.October, 5)); err != nil {
		t.Fatal(err)
	}

	// THEN: Any October date is rejected, regardless of the close record's day
	err := validator.Validate(context.Background(), 10, entryFor(c.ID, date(2018, time.October, 22), "8"))
	if !errors.Is(err, report.ErrPeriodClosed) {
		t.Fatalf("expected ErrPeriodClosed, got %v", err)
	}

	// AND: November is still open
	err = validator.Validate(context.Background(), 10, entryFor(c.ID, date(2018, time.November, 2), "8"))
	if err != nil {
		t.Fatalf("November should be open, got %v", err)
	}
}

func TestValidate_NilHoursSkipsHoursCheck(t *testing.T) {
	store, validator := newValidatorFixture(t)
	c := store.AddContributor(report.Contributor{UserID: 10, Task: report.Task{ID: 100, Name: "Backend"}, Active: true})

	entry := report.TimeEntry{ContributorID: c.ID, Day: calendar.Day{Date: date(2018, time.October, 22), WithinMonth: true}}
	if err := validator.Validate(context.Background(), 10, entry); err != nil {
		t.Fatalf("empty submission should pass validation, got %v", err)
	}
}
