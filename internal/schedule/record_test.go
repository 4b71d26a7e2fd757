package schedule

import (
	"errors"
	"testing"
)

func TestEvaluateLine(t *testing.T) {
	t.Parallel()

	rec, err := EvaluateLine("30 1 /bin/run_me_daily", "16:10")
	if err != nil {
		t.Fatalf("EvaluateLine: %v", err)
	}
	if rec.Reference != MustTimeOfDay(16, 10) {
		t.Fatalf("Reference = %s", rec.Reference)
	}
	if rec.Expression.Time() != MustTimeOfDay(1, 30) {
		t.Fatalf("Expression = %s", rec.Expression.Time())
	}
	if rec.NextRun != MustTimeOfDay(1, 30) || rec.Day != Tomorrow {
		t.Fatalf("next = %s %s, want 01:30 tomorrow", rec.NextRun, rec.Day)
	}
	if rec.Command != "/bin/run_me_daily" {
		t.Fatalf("Command = %q", rec.Command)
	}
	if got, want := rec.String(), "01:30 tomorrow - /bin/run_me_daily"; got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
}

func TestEvaluateLineRendering(t *testing.T) {
	t.Parallel()

	tests := []struct {
		line, ref, want string
	}{
		{"* * /bin/run_some_time", "10:15", "10:15 today - /bin/run_some_time"},
		{"45 * /bin/run_me_hourly", "16:10", "16:45 today - /bin/run_me_hourly"},
		{"* 19 /bin/run_me_sixty_times", "16:10", "19:00 today - /bin/run_me_sixty_times"},
		{"30 1 /bin/run_me_daily", "16:10", "01:30 tomorrow - /bin/run_me_daily"},
		{"5 3 /bin/backup", "3:4", "03:05 today - /bin/backup"},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			rec, err := EvaluateLine(tt.line, tt.ref)
			if err != nil {
				t.Fatalf("EvaluateLine: %v", err)
			}
			if got := rec.String(); got != tt.want {
				t.Fatalf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEvaluateLineIsIdempotent(t *testing.T) {
	t.Parallel()

	a, err := EvaluateLine("15 * /bin/x", "12:20")
	if err != nil {
		t.Fatalf("EvaluateLine: %v", err)
	}
	b, _ := EvaluateLine("15 * /bin/x", "12:20")
	if a != b {
		t.Fatalf("expected equal records, got %+v and %+v", a, b)
	}
}

func TestEvaluateLineErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		line, ref string
		want      error
	}{
		{"30 1 /bin/x", "16-10", ErrInvalidTimeFormat},
		{"30 1 /bin/x", "25:10", ErrTimeRange},
		{"/bin/x", "16:10", ErrInvalidExpressionFormat},
		{"* /bin/x", "16:10", ErrInvalidExpressionFormat},
		{"30 1 2 /bin/x", "16:10", ErrInvalidExpressionFormat},
		{"62 * /bin/x", "16:10", ErrTimeRange},
		{"30 24 /bin/x", "16:10", ErrTimeRange},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			_, err := EvaluateLine(tt.line, tt.ref)
			if !errors.Is(err, tt.want) {
				t.Fatalf("EvaluateLine(%q, %q) error = %v, want %v", tt.line, tt.ref, err, tt.want)
			}
		})
	}
}

func TestSplitLine(t *testing.T) {
	t.Parallel()

	expr, cmd, err := SplitLine("* 20 /usr/bin/report")
	if err != nil {
		t.Fatalf("SplitLine: %v", err)
	}
	if expr != "* 20" || cmd != "/usr/bin/report" {
		t.Fatalf("SplitLine = (%q, %q)", expr, cmd)
	}
}

func TestEvaluateStandardMode(t *testing.T) {
	t.Parallel()

	ref := MustTimeOfDay(16, 10)
	rec, err := Evaluate("0 5 /bin/x", ref, ModeStandard)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if got, want := rec.String(), "05:00 tomorrow - /bin/x"; got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}

	rec, err = Evaluate("0 5 /bin/x", ref, ModeCompat)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if got, want := rec.String(), "16:10 today - /bin/x"; got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
}
