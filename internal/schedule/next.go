package schedule

// Day says whether a next run falls on the reference day or the one after.
type Day int

const (
	Today Day = iota
	Tomorrow
)

func (d Day) String() string {
	if d == Tomorrow {
		return "tomorrow"
	}
	return "today"
}

// MarshalText implements encoding.TextMarshaler.
func (d Day) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Next returns the next run of expected relative to current.
//
// The branch is chosen on the expanded values of expected, so a literal 0
// behaves exactly like a wildcard:
//
//	h:m  -> h:m, a fixed time of day
//	0:0  -> current, every minute
//	0:m  -> minute m of the current hour, or current if m has passed
//	h:0  -> h:00 if hour h is still ahead, otherwise current
//
// Callers detect a passed target through Classify.
func Next(current, expected TimeOfDay) TimeOfDay {
	switch {
	case expected.hour != 0 && expected.minute != 0:
		return expected
	case expected.hour == 0 && expected.minute == 0:
		return current
	case expected.hour == 0:
		return TimeOfDay{hour: current.hour, minute: max(current.minute, expected.minute)}
	default:
		if current.hour < expected.hour {
			return TimeOfDay{hour: expected.hour}
		}
		return current
	}
}

// Classify returns Tomorrow if next is earlier in the day than current.
func Classify(current, next TimeOfDay) Day {
	if current.After(next) {
		return Tomorrow
	}
	return Today
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
