/*
errors.go - Failure taxonomy for entry validation and report assembly

PURPOSE:
  All business-rule failures in one place. Every error here is synchronous,
  locally detected and non-retryable: none represents a transient or
  infrastructure failure, so callers translate them into responses instead
  of retrying.

ERROR CATEGORIES:
  1. Reference errors - contributor missing or deactivated
  2. Input errors     - hours out of range or too precise
  3. Lock errors      - edit attempted against a closed month

USAGE:
  Callers classify with errors.Is:

    if errors.Is(err, report.ErrPeriodClosed) {
        // 409 to the client
    }
*/
package report

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/clockwise/reporting-engine/closing"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrContributorNotFound is returned when the referenced task-contributor
	// relation does not exist.
	ErrContributorNotFound = errors.New("task contributor not found")

	// ErrContributorInactive is returned when the relation exists but has
	// been deactivated.
	ErrContributorInactive = errors.New("task contributor inactive")

	// ErrEntryNotFound is returned when a referenced time entry does not exist.
	ErrEntryNotFound = errors.New("time entry not found")

	// ErrHoursOutOfRange is returned when reported hours fall outside [0, 24]
	// or carry more than two decimal digits. Both cases are the same invalid
	// input class.
	ErrHoursOutOfRange = errors.New("reported time out of valid range")

	// ErrPeriodClosed is returned when the entry's month is administratively
	// closed for the user.
	ErrPeriodClosed = errors.New("reporting period closed")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// HoursError reports an invalid hours value.
type HoursError struct {
	Hours decimal.Decimal
}

func (e *HoursError) Error() string {
	return fmt.Sprintf("invalid reported time %s: must be within [0, 24] with at most two decimals", e.Hours)
}

func (e *HoursError) Unwrap() error { return ErrHoursOutOfRange }

// PeriodClosedError reports an edit against a locked month.
type PeriodClosedError struct {
	UserID int64
	Month  closing.Month
}

func (e *PeriodClosedError) Error() string {
	return fmt.Sprintf("period %s is closed for user %d", e.Month, e.UserID)
}

func (e *PeriodClosedError) Unwrap() error { return ErrPeriodClosed }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsNotFound reports whether the error indicates a missing reference.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrContributorNotFound) ||
		errors.Is(err, ErrEntryNotFound)
}

// IsClientError reports whether the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrContributorInactive) ||
		errors.Is(err, ErrHoursOutOfRange) ||
		errors.Is(err, ErrPeriodClosed)
}
