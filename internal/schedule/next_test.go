package schedule

import "testing"

func TestNext(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name              string
		current, expected TimeOfDay
		want              TimeOfDay
		day               Day
	}{
		{"fixed time already passed", MustTimeOfDay(16, 10), MustTimeOfDay(1, 30), MustTimeOfDay(1, 30), Tomorrow},
		{"fixed time ahead", MustTimeOfDay(1, 0), MustTimeOfDay(1, 30), MustTimeOfDay(1, 30), Today},
		{"every minute", MustTimeOfDay(10, 15), MustTimeOfDay(0, 0), MustTimeOfDay(10, 15), Today},
		{"every minute afternoon", MustTimeOfDay(16, 10), MustTimeOfDay(0, 0), MustTimeOfDay(16, 10), Today},
		{"hourly minute ahead", MustTimeOfDay(16, 10), MustTimeOfDay(0, 45), MustTimeOfDay(16, 45), Today},
		{"hourly minute from top of hour", MustTimeOfDay(10, 0), MustTimeOfDay(0, 30), MustTimeOfDay(10, 30), Today},
		{"hourly minute passed", MustTimeOfDay(16, 50), MustTimeOfDay(0, 45), MustTimeOfDay(16, 50), Today},
		{"daily hour ahead", MustTimeOfDay(16, 10), MustTimeOfDay(19, 0), MustTimeOfDay(19, 0), Today},
		{"daily hour current", MustTimeOfDay(19, 10), MustTimeOfDay(19, 0), MustTimeOfDay(19, 10), Today},
		{"daily hour same hour", MustTimeOfDay(10, 11), MustTimeOfDay(10, 0), MustTimeOfDay(10, 11), Today},
		{"daily hour passed", MustTimeOfDay(22, 5), MustTimeOfDay(3, 0), MustTimeOfDay(22, 5), Today},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Next(tt.current, tt.expected)
			if got != tt.want {
				t.Fatalf("Next(%s, %s) = %s, want %s", tt.current, tt.expected, got, tt.want)
			}
			if day := Classify(tt.current, got); day != tt.day {
				t.Fatalf("Classify(%s, %s) = %s, want %s", tt.current, got, day, tt.day)
			}
		})
	}
}

func TestClassify(t *testing.T) {
	t.Parallel()

	now := MustTimeOfDay(16, 10)
	tests := []struct {
		next TimeOfDay
		want Day
	}{
		{MustTimeOfDay(1, 30), Tomorrow},
		{MustTimeOfDay(16, 9), Tomorrow},
		{MustTimeOfDay(16, 45), Today},
		{MustTimeOfDay(16, 10), Today},
		{MustTimeOfDay(19, 0), Today},
	}
	for _, tt := range tests {
		if got := Classify(now, tt.next); got != tt.want {
			t.Fatalf("Classify(%s, %s) = %s, want %s", now, tt.next, got, tt.want)
		}
	}
}

func TestNextTreatsLiteralZeroAsWildcard(t *testing.T) {
	t.Parallel()

	now := MustTimeOfDay(16, 10)
	literal, err := ParseExpression("0 5")
	if err != nil {
		t.Fatalf("ParseExpression: %v", err)
	}
	wild, err := ParseExpression("* 5")
	if err != nil {
		t.Fatalf("ParseExpression: %v", err)
	}
	if a, b := Next(now, literal.Time()), Next(now, wild.Time()); a != b {
		t.Fatalf("expected identical results, got %s and %s", a, b)
	}
}

func TestDayString(t *testing.T) {
	t.Parallel()

	if Today.String() != "today" || Tomorrow.String() != "tomorrow" {
		t.Fatalf("unexpected day names %q %q", Today, Tomorrow)
	}
}
