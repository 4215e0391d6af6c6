package core

import (
	"errors"
	"fmt"
)

// MinLines is the smallest transcription that can hold a golfer row:
// header, hole numbers, par and at least one golfer.
const MinLines = 4

// ErrInsufficientData matches any *InsufficientDataError via errors.Is.
var ErrInsufficientData = errors.New("insufficient data")

// InsufficientDataError is returned when a transcription has fewer than
// MinLines non-empty lines. No records are produced.
type InsufficientDataError struct {
	Lines int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data: %d non-empty lines, need at least %d", e.Lines, MinLines)
}

func (e *InsufficientDataError) Is(target error) bool {
	return target == ErrInsufficientData
}

// LayoutError reports a hole-number or par row that does not match the
// expected scorecard layout. The whole transcription is rejected.
type LayoutError struct {
	Section string // "holes" or "par"
	Row     int
	Reason  string
}

func (e *LayoutError) Error() string {
	return fmt.Sprintf("invalid scorecard layout: %s row (row %d): %s", e.Section, e.Row, e.Reason)
}

// IsParseFailure reports whether err rejects the transcription as a whole,
// as opposed to an infrastructure failure.
func IsParseFailure(err error) bool {
	var layoutErr *LayoutError
	return errors.Is(err, ErrInsufficientData) || errors.As(err, &layoutErr)
}
