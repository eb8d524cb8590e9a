package report

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/clockwise/reporting-engine/closing"
)

// =============================================================================
// ENTRY VALIDATION - Acceptance rules for new/updated entries
// =============================================================================

var maxHours = decimal.NewFromInt(24)

// ValidateHours checks that reported hours lie in [0, 24] and carry at
// most two decimal digits. The precision rule is a fixed-point-of-100
// check done in decimal arithmetic, so binary-float artifacts cannot
// sneak through.
func ValidateHours(hours decimal.Decimal) error {
	if hours.IsNegative() || hours.GreaterThan(maxHours) {
		return &HoursError{Hours: hours}
	}
	if !hours.Equal(hours.Round(2)) {
		return &HoursError{Hours: hours}
	}
	return nil
}

// Validator accepts or rejects time entries before persistence. It
// performs no writes itself; on success the caller hands the entry to the
// entry store.
type Validator struct {
	Contributors ContributorStore
	Closings     *closing.Manager
}

func NewValidator(contributors ContributorStore, closings *closing.Manager) *Validator {
	return &Validator{Contributors: contributors, Closings: closings}
}

// Validate applies the acceptance rules in order, short-circuiting on the
// first failure:
//  1. the referenced contributor relation must exist and belong to the
//     acting user,
//  2. it must be active,
//  3. hours, when present, must be in [0, 24] with at most two decimals,
//  4. the entry's month must not be closed for the acting user.
//
// The acting user is passed explicitly; there is no ambient identity.
func (v *Validator) Validate(ctx context.Context, userID int64, entry TimeEntry) error {
	contributor, err := v.Contributors.Find(ctx, entry.ContributorID)
	if err != nil {
		return err
	}
	if contributor == nil {
		return ErrContributorNotFound
	}
	// A relation owned by another user is as good as missing: accepting it
	// would persist a row no report can reach.
	if contributor.UserID != userID {
		return ErrContributorNotFound
	}
	if !contributor.Active {
		return ErrContributorInactive
	}

	if entry.Hours != nil {
		if err := ValidateHours(*entry.Hours); err != nil {
			return err
		}
	}

	isClosed, err := v.Closings.IsClosed(ctx, userID, entry.Day.Date)
	if err != nil {
		return err
	}
	if isClosed {
		return &PeriodClosedError{UserID: userID, Month: closing.MonthOf(entry.Day.Date)}
	}
	return nil
}
