package calendar

import "time"

// =============================================================================
// CALENDAR SERVICE - External boundary-resolution collaborator
// =============================================================================

// Service resolves calendar boundaries for grid construction. It is an
// interface so the hosting application can plug in company-specific
// calendars; DefaultService covers the standard Gregorian rules.
type Service interface {
	// ClosestMonday returns the Monday on or before the given date.
	ClosestMonday(d Date) Date

	// DaysInMonth returns the number of days in a calendar month.
	DaysInMonth(year int, month time.Month) int

	// SystemStart returns the earliest date the system reports on.
	SystemStart() Date

	// Now returns the current date.
	Now() Date
}

// DefaultService implements Service with plain Gregorian arithmetic.
// SystemStart defaults to Jan 1 of the start year given at construction.
type DefaultService struct {
	StartYear int
}

func NewDefaultService(startYear int) *DefaultService {
	return &DefaultService{StartYear: startYear}
}

func (s *DefaultService) ClosestMonday(d Date) Date {
	// time.Weekday puts Sunday at 0; shift so Monday is the week anchor.
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDays(-offset)
}

func (s *DefaultService) DaysInMonth(year int, month time.Month) int {
	return NewDate(year, month, 1).AddMonths(1).AddDays(-1).Day()
}

func (s *DefaultService) SystemStart() Date {
	return NewDate(s.StartYear, time.January, 1)
}

func (s *DefaultService) Now() Date {
	return DateOf(time.Now().UTC())
}
