package schedule

import (
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// Mode selects how the next run is computed.
type Mode int

const (
	// ModeCompat branches on expanded values, treating a literal 0 like a
	// wildcard. This is the default.
	ModeCompat Mode = iota
	// ModeStandard evaluates the expression as the crontab line
	// "<minute> <hour> * * *", where only "*" means "any".
	ModeStandard
)

// ParseMode parses "compat" or "standard". The empty string is ModeCompat.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "compat":
		return ModeCompat, nil
	case "standard":
		return ModeStandard, nil
	default:
		return ModeCompat, fmt.Errorf("unknown mode %q", s)
	}
}

func (m Mode) String() string {
	if m == ModeStandard {
		return "standard"
	}
	return "compat"
}

var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// anchorDate is the arbitrary UTC day the reference time is placed on, so
// standard evaluation never meets a DST transition.
var anchorDate = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// Standard returns the first minute at or after current that matches expr
// as a daily crontab entry, and the day it falls on.
func Standard(current TimeOfDay, expr Expression) (TimeOfDay, Day, error) {
	sched, err := cronParser.Parse(expr.CronSpec())
	if err != nil {
		return TimeOfDay{}, Today, fmt.Errorf("parse cron %q: %w", expr.CronSpec(), err)
	}

	now := anchorDate.Add(time.Duration(current.hour)*time.Hour + time.Duration(current.minute)*time.Minute)
	// Next is strictly after its argument; back off a second so the
	// current minute itself is eligible.
	next := sched.Next(now.Add(-time.Second))
	if next.IsZero() {
		return TimeOfDay{}, Today, fmt.Errorf("cron %q never fires", expr.CronSpec())
	}

	day := Today
	if next.YearDay() != now.YearDay() {
		day = Tomorrow
	}
	return TimeOfDay{hour: next.Hour(), minute: next.Minute()}, day, nil
}
