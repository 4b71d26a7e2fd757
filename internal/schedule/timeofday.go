package schedule

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	maxHour   = 23
	maxMinute = 59
)

// TimeOfDay is a validated hour and minute. The zero value is 00:00.
// Values are comparable with ==.
type TimeOfDay struct {
	hour   int
	minute int
}

// NewTimeOfDay returns the time hour:minute, or an error wrapping
// ErrTimeRange if either value is out of range.
func NewTimeOfDay(hour, minute int) (TimeOfDay, error) {
	if hour < 0 || hour > maxHour {
		return TimeOfDay{}, fmt.Errorf("hour %d: %w", hour, ErrTimeRange)
	}
	if minute < 0 || minute > maxMinute {
		return TimeOfDay{}, fmt.Errorf("minute %d: %w", minute, ErrTimeRange)
	}
	return TimeOfDay{hour: hour, minute: minute}, nil
}

// MustTimeOfDay is like NewTimeOfDay but panics on an invalid value.
func MustTimeOfDay(hour, minute int) TimeOfDay {
	t, err := NewTimeOfDay(hour, minute)
	if err != nil {
		panic(err)
	}
	return t
}

// ParseReference parses a reference time of the form "H:M" or "HH:MM".
func ParseReference(s string) (TimeOfDay, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return TimeOfDay{}, fmt.Errorf("%q: %w", s, ErrInvalidTimeFormat)
	}

	hour, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("%q: hour: %w", s, ErrInvalidTimeFormat)
	}
	minute, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("%q: minute: %w", s, ErrInvalidTimeFormat)
	}

	return NewTimeOfDay(hour, minute)
}

// Hour returns the hour, 0-23.
func (t TimeOfDay) Hour() int { return t.hour }

// Minute returns the minute, 0-59.
func (t TimeOfDay) Minute() int { return t.minute }

// Compare returns -1, 0 or +1 depending on whether t is before, equal to,
// or after u.
func (t TimeOfDay) Compare(u TimeOfDay) int {
	switch {
	case t.hour < u.hour:
		return -1
	case t.hour > u.hour:
		return 1
	case t.minute < u.minute:
		return -1
	case t.minute > u.minute:
		return 1
	}
	return 0
}

// Before reports whether t is earlier in the day than u.
func (t TimeOfDay) Before(u TimeOfDay) bool { return t.Compare(u) < 0 }

// After reports whether t is later in the day than u.
func (t TimeOfDay) After(u TimeOfDay) bool { return t.Compare(u) > 0 }

// String renders t as zero-padded HH:MM.
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.hour, t.minute)
}

// MarshalText implements encoding.TextMarshaler.
func (t TimeOfDay) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler using ParseReference.
func (t *TimeOfDay) UnmarshalText(text []byte) error {
	v, err := ParseReference(string(text))
	if err != nil {
		return err
	}
	*t = v
	return nil
}
