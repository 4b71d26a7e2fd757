package schedule

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Wildcard is the field marker meaning "any"; it expands to 0.
const Wildcard = "*"

// Field is one field of an expression, before expansion.
type Field struct {
	Wildcard bool
	Value    int
}

// String renders the field the way it is written in an expression.
func (f Field) String() string {
	if f.Wildcard {
		return Wildcard
	}
	return strconv.Itoa(f.Value)
}

// Expression is a parsed "<minute> <hour>" schedule.
type Expression struct {
	Minute Field
	Hour   Field
	time   TimeOfDay
}

// ParseExpression parses a two-field expression, minute first then hour.
// Each field is either "*" or a non-negative integer.
func ParseExpression(s string) (Expression, error) {
	tokens := strings.Fields(s)
	if len(tokens) != 2 {
		return Expression{}, fmt.Errorf("%q: want 2 fields, got %d: %w", s, len(tokens), ErrInvalidExpressionFormat)
	}

	minute, err := parseField(tokens[0])
	if err != nil {
		return Expression{}, fmt.Errorf("%q: minute: %w", s, err)
	}
	hour, err := parseField(tokens[1])
	if err != nil {
		return Expression{}, fmt.Errorf("%q: hour: %w", s, err)
	}

	t, err := NewTimeOfDay(hour.Value, minute.Value)
	if err != nil {
		return Expression{}, fmt.Errorf("%q: %w", s, err)
	}

	return Expression{Minute: minute, Hour: hour, time: t}, nil
}

func parseField(tok string) (Field, error) {
	if tok == Wildcard {
		return Field{Wildcard: true}, nil
	}
	for i := 0; i < len(tok); i++ {
		if tok[i] < '0' || tok[i] > '9' {
			return Field{}, fmt.Errorf("%q: %w", tok, ErrInvalidExpressionFormat)
		}
	}
	n, err := strconv.Atoi(tok)
	if err != nil {
		// All digits, so the only possible failure is overflow.
		if errors.Is(err, strconv.ErrRange) {
			return Field{}, fmt.Errorf("%q: %w", tok, ErrTimeRange)
		}
		return Field{}, fmt.Errorf("%q: %w", tok, ErrInvalidExpressionFormat)
	}
	return Field{Value: n}, nil
}

// Time returns the expression with wildcards expanded to 0.
func (e Expression) Time() TimeOfDay { return e.time }

// String renders the expression in canonical "<minute> <hour>" form.
func (e Expression) String() string {
	return e.Minute.String() + " " + e.Hour.String()
}

// CronSpec renders the equivalent five-field crontab spec, running every
// day of every month.
func (e Expression) CronSpec() string {
	return e.String() + " * * *"
}
