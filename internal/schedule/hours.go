package schedule

import (
	"fmt"
	"time"
)

// TimeOfDay is a wall-clock time expressed as minutes since
// midnight.  It carries no date or timezone; pairing it with a
// calendar day via At produces the absolute reservation timestamp.
type TimeOfDay int

// ParseTimeOfDay parses an "HH:MM" string into a TimeOfDay.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("invalid time of day %q: %w", s, err)
	}
	return TimeOfDay(t.Hour()*60 + t.Minute()), nil
}

// TimeOfDayOf extracts the wall-clock component of a timestamp.
// Seconds and finer are discarded; reservation timestamps always sit
// on whole-minute slot boundaries.
func TimeOfDayOf(ts time.Time) TimeOfDay {
	return TimeOfDay(ts.Hour()*60 + ts.Minute())
}

// String renders the time as "HH:MM".
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

// At combines the time of day with the calendar day of ts, yielding
// an absolute timestamp in the location of ts.
func (t TimeOfDay) At(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), int(t)/60, int(t)%60, 0, 0, day.Location())
}

// OperatingHours holds the restaurant's bookable window and the slot
// step.  The configuration is loaded once at startup and passed
// explicitly into the engine; nothing in this package reads ambient
// process state.
type OperatingHours struct {
	Open     TimeOfDay // first bookable time of day
	Close    TimeOfDay // closing time; no slot starts at or after Close-Interval+1
	Interval int       // slot step in minutes
}

// Validate checks the configuration.  A non-positive interval or a
// close at or before open is a ConfigurationError.
func (h OperatingHours) Validate() error {
	if h.Interval <= 0 {
		return &ConfigurationError{Reason: fmt.Sprintf("interval must be positive, got %d", h.Interval)}
	}
	if h.Close <= h.Open {
		return &ConfigurationError{Reason: fmt.Sprintf("close %s must be after open %s", h.Close, h.Open)}
	}
	return nil
}

// Slots generates the ordered bookable time-of-day sequence: every t
// with open ≤ t ≤ close−interval, stepping by the interval.  The
// last slot always leaves room for a full interval before closing.
// The result is deterministic and empty only when the window is
// shorter than one interval.
func (h OperatingHours) Slots() ([]TimeOfDay, error) {
	if err := h.Validate(); err != nil {
		return nil, err
	}
	slots := make([]TimeOfDay, 0, (int(h.Close)-int(h.Open))/h.Interval)
	for t := h.Open; t <= h.Close-TimeOfDay(h.Interval); t += TimeOfDay(h.Interval) {
		slots = append(slots, t)
	}
	return slots, nil
}

// Contains reports whether t is a member of the slot sequence: on a
// slot boundary and inside the bookable window.  The configuration
// must already have been validated.
func (h OperatingHours) Contains(t TimeOfDay) bool {
	if t < h.Open || t > h.Close-TimeOfDay(h.Interval) {
		return false
	}
	return int(t-h.Open)%h.Interval == 0
}
