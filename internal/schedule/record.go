package schedule

import (
	"fmt"
	"strings"
)

// Record is the evaluation of one configuration line.
type Record struct {
	Command    string
	Reference  TimeOfDay
	Expression Expression
	NextRun    TimeOfDay
	Day        Day
}

// String renders the record as "HH:MM <today|tomorrow> - <command>".
func (r Record) String() string {
	return fmt.Sprintf("%s %s - %s", r.NextRun, r.Day, r.Command)
}

// SplitLine splits "<minute> <hour> <command>" once from the right into
// the expression and the command. The command cannot contain spaces.
func SplitLine(line string) (expr, command string, err error) {
	i := strings.LastIndex(line, " ")
	if i < 0 {
		return "", "", fmt.Errorf("%q: no command: %w", line, ErrInvalidExpressionFormat)
	}
	return line[:i], line[i+1:], nil
}

// Evaluate computes the next run for a configuration line.
func Evaluate(line string, reference TimeOfDay, mode Mode) (Record, error) {
	exprText, command, err := SplitLine(line)
	if err != nil {
		return Record{}, err
	}
	expr, err := ParseExpression(exprText)
	if err != nil {
		return Record{}, err
	}

	rec := Record{
		Command:    command,
		Reference:  reference,
		Expression: expr,
	}
	switch mode {
	case ModeStandard:
		rec.NextRun, rec.Day, err = Standard(reference, expr)
		if err != nil {
			return Record{}, err
		}
	default:
		rec.NextRun = Next(reference, expr.Time())
		rec.Day = Classify(reference, rec.NextRun)
	}
	return rec, nil
}

// EvaluateLine parses reference and evaluates line in compat mode.
func EvaluateLine(line, reference string) (Record, error) {
	ref, err := ParseReference(reference)
	if err != nil {
		return Record{}, err
	}
	return Evaluate(line, ref, ModeCompat)
}
