package calendar

import (
	"fmt"
	"time"
)

// =============================================================================
// TIME OF DAY - Clock time within a single day
// =============================================================================

// TimeOfDay is a clock time stored as seconds since midnight. It orders
// totally within one day; interval semantics (including midnight wrap)
// live in the oncall package.
type TimeOfDay struct {
	Seconds int
}

func NewTimeOfDay(hour, minute, second int) TimeOfDay {
	return TimeOfDay{Seconds: hour*3600 + minute*60 + second}
}

// TimeOfDayOf extracts the clock time from an instant.
func TimeOfDayOf(t time.Time) TimeOfDay {
	return NewTimeOfDay(t.Hour(), t.Minute(), t.Second())
}

// ParseTimeOfDay accepts HH:MM and HH:MM:SS.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return TimeOfDayOf(t), nil
		}
	}
	return TimeOfDay{}, fmt.Errorf("invalid time of day %q", s)
}

func (t TimeOfDay) Before(other TimeOfDay) bool        { return t.Seconds < other.Seconds }
func (t TimeOfDay) After(other TimeOfDay) bool         { return t.Seconds > other.Seconds }
func (t TimeOfDay) BeforeOrEqual(other TimeOfDay) bool { return t.Seconds <= other.Seconds }
func (t TimeOfDay) AfterOrEqual(other TimeOfDay) bool  { return t.Seconds >= other.Seconds }

func (t TimeOfDay) Hour() int   { return t.Seconds / 3600 }
func (t TimeOfDay) Minute() int { return (t.Seconds % 3600) / 60 }
func (t TimeOfDay) Second() int { return t.Seconds % 60 }

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour(), t.Minute(), t.Second())
}
