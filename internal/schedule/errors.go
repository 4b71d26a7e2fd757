package schedule

import "errors"

// Error kinds returned by the parsers. Concrete errors wrap one of these,
// so callers should test with errors.Is.
var (
	// ErrInvalidTimeFormat reports a reference time that is not two
	// colon-separated integers.
	ErrInvalidTimeFormat = errors.New("invalid time format")

	// ErrInvalidExpressionFormat reports an expression without exactly two
	// fields, or a field that is neither "*" nor a non-negative integer.
	ErrInvalidExpressionFormat = errors.New("invalid expression format")

	// ErrTimeRange reports an hour outside 0-23 or a minute outside 0-59.
	ErrTimeRange = errors.New("time out of range")
)
