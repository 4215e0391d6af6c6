package core

import (
	"fmt"
	"strconv"
	"strings"
)

// Layout is the positional split of a normalized transcription.
// Row numbers are 1-based positions among non-empty lines.
type Layout struct {
	Header     string
	Holes      string
	Par        string
	GolferRows []string
}

// golferRowOffset is the index of the first golfer row.
const golferRowOffset = 3

// ClassifyRows assigns lines by position: header, hole numbers, par, then
// one line per golfer. Content is not inspected here.
func ClassifyRows(lines []string) (Layout, error) {
	if len(lines) < MinLines {
		return Layout{}, &InsufficientDataError{Lines: len(lines)}
	}
	return Layout{
		Header:     lines[0],
		Holes:      lines[1],
		Par:        lines[2],
		GolferRows: lines[golferRowOffset:],
	}, nil
}

// GolferRowNumber returns the 1-based row number of golfer row i.
func GolferRowNumber(i int) int {
	return i + golferRowOffset + 1
}

// ValidateHoles checks the hole-number row is exactly "1 2 ... 18 Total".
func (l Layout) ValidateHoles() error {
	fields := strings.Fields(l.Holes)
	if len(fields) != HoleCount+1 {
		return &LayoutError{Section: "holes", Row: 2,
			Reason: fmt.Sprintf("expected %d hole numbers and a Total label, got %d tokens", HoleCount, len(fields))}
	}
	for i := 0; i < HoleCount; i++ {
		if fields[i] != strconv.Itoa(i+1) {
			return &LayoutError{Section: "holes", Row: 2,
				Reason: fmt.Sprintf("position %d is %q, expected %d", i+1, fields[i], i+1)}
		}
	}
	if !strings.EqualFold(fields[HoleCount], "total") {
		return &LayoutError{Section: "holes", Row: 2,
			Reason: fmt.Sprintf("last token is %q, expected Total", fields[HoleCount])}
	}
	return nil
}

// CoursePar parses the par row: 18 hole pars followed by a par total, all
// digit-only. The computed Total is the sum of the hole pars.
func (l Layout) CoursePar() (*CoursePar, error) {
	fields := strings.Fields(l.Par)
	if len(fields) != HoleCount+1 {
		return nil, &LayoutError{Section: "par", Row: 3,
			Reason: fmt.Sprintf("expected %d par values and a total, got %d tokens", HoleCount, len(fields))}
	}

	par := &CoursePar{Holes: make([]int, HoleCount)}
	for i, tok := range fields {
		s := ParseScore(tok)
		if !s.Valid {
			what := fmt.Sprintf("hole %d par", i+1)
			if i == HoleCount {
				what = "par total"
			}
			return nil, &LayoutError{Section: "par", Row: 3,
				Reason: fmt.Sprintf("%s %q is not numeric", what, tok)}
		}
		if i == HoleCount {
			par.DeclaredTotal = s.Int
			continue
		}
		par.Holes[i] = s.Int
		par.Total += s.Int
	}
	return par, nil
}

// Validate runs the hole-number and par checks.
func (l Layout) Validate() (*CoursePar, error) {
	if err := l.ValidateHoles(); err != nil {
		return nil, err
	}
	return l.CoursePar()
}
