package core

import (
	"bytes"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// HoleCount is the number of holes every golfer record must carry.
const HoleCount = 18

// MissingMarker is the placeholder the transcription uses for illegible cells.
// Any non-digit token is treated as missing; this is only the rendered form.
const MissingMarker = "?"

// Score is a hole score or total that may be missing.
// The zero value is missing, which is never confused with a score of 0.
type Score struct {
	Int   int
	Valid bool
}

var (
	_ driver.Valuer = Score{}
	_ sql.Scanner   = (*Score)(nil)
)

// Missing is the marker for an illegible or absent score.
var Missing = Score{}

// Present wraps a legible score.
func Present(n int) Score {
	return Score{Int: n, Valid: true}
}

// String renders the score, or MissingMarker when missing.
func (s Score) String() string {
	if !s.Valid {
		return MissingMarker
	}
	return strconv.Itoa(s.Int)
}

// MarshalJSON renders a missing score as null.
func (s Score) MarshalJSON() ([]byte, error) {
	if !s.Valid {
		return []byte("null"), nil
	}
	return []byte(strconv.Itoa(s.Int)), nil
}

// UnmarshalJSON accepts an integer or null.
func (s *Score) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*s = Missing
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("score: %w", err)
	}
	*s = Present(n)
	return nil
}

// Value implements driver.Valuer so missing scores are stored as NULL.
func (s Score) Value() (driver.Value, error) {
	if !s.Valid {
		return nil, nil
	}
	return int64(s.Int), nil
}

// Scan implements sql.Scanner for nullable integer columns.
func (s *Score) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*s = Missing
	case int64:
		*s = Present(int(v))
	case int32:
		*s = Present(int(v))
	case int:
		*s = Present(v)
	case []byte:
		n, err := strconv.Atoi(string(v))
		if err != nil {
			return fmt.Errorf("score: scan %q: %w", v, err)
		}
		*s = Present(n)
	default:
		return fmt.Errorf("score: unsupported scan type %T", src)
	}
	return nil
}

// GolferRecord is one golfer's parsed scorecard row.
type GolferRecord struct {
	PlayerName string `json:"player_name"`
	// NameDetected is false when PlayerName is an "Unknown Golfer N" placeholder.
	NameDetected bool    `json:"name_detected"`
	Scores       []Score `json:"scores"`
	// TotalScore is the total chosen by the configured TotalPolicy.
	TotalScore Score `json:"total_score"`
	// DeclaredTotal is the total token as transcribed.
	DeclaredTotal Score `json:"declared_total"`
	// Row is the 1-based position of the source line among non-empty lines.
	Row int `json:"row"`
}

// ScoredHoles returns the number of legible hole scores.
func (r GolferRecord) ScoredHoles() int {
	n := 0
	for _, s := range r.Scores {
		if s.Valid {
			n++
		}
	}
	return n
}

// Complete reports whether every score and the total are present.
func (r GolferRecord) Complete() bool {
	return len(r.Scores) == HoleCount && r.ScoredHoles() == HoleCount && r.TotalScore.Valid
}

// StoredRecord is a persisted golfer record.
type StoredRecord struct {
	ID     int64  `json:"id"`
	ScanID string `json:"scan_id"`
	GolferRecord
	CreatedAt time.Time `json:"created_at"`
}

// CoursePar holds the par row of the scorecard.
type CoursePar struct {
	Holes []int `json:"holes"`
	Total int   `json:"total"`
	// DeclaredTotal is the par total token as transcribed.
	DeclaredTotal int `json:"declared_total"`
}

// SkipReason explains why a golfer row produced no record.
type SkipReason string

const (
	SkipEmptyRow   SkipReason = "empty_row"
	SkipNoScores   SkipReason = "no_scores"
	SkipScoreCount SkipReason = "score_count"
)

// SkippedRow describes a golfer row that was excluded from the output.
type SkippedRow struct {
	Row        int        `json:"row"`
	Text       string     `json:"text"`
	PlayerName string     `json:"player_name,omitempty"`
	Reason     SkipReason `json:"reason"`
	Detail     string     `json:"detail"`
}

// RejectedRecord is a parsed record that failed validation.
type RejectedRecord struct {
	Record  GolferRecord `json:"record"`
	Reason  RejectReason `json:"reason"`
	Message string       `json:"message"`
}

// DiagnosticKind classifies a non-fatal parse event.
type DiagnosticKind string

const (
	DiagRowSkipped       DiagnosticKind = "row_skipped"
	DiagFieldFallback    DiagnosticKind = "field_fallback"
	DiagTotalMismatch    DiagnosticKind = "total_mismatch"
	DiagRecordRejected   DiagnosticKind = "record_rejected"
	DiagParTotalMismatch DiagnosticKind = "par_total_mismatch"
)

// Diagnostic is a non-fatal event observed while parsing.
// Hole is 1-18 for a hole score and 0 for totals or whole-row events.
type Diagnostic struct {
	Kind    DiagnosticKind `json:"kind"`
	Row     int            `json:"row"`
	Player  string         `json:"player,omitempty"`
	Hole    int            `json:"hole,omitempty"`
	Token   string         `json:"token,omitempty"`
	Message string         `json:"message"`
}

// ParseResult is the structured outcome of parsing one transcription.
type ParseResult struct {
	Records     []GolferRecord   `json:"records"`
	Skipped     []SkippedRow     `json:"skipped"`
	Rejected    []RejectedRecord `json:"rejected"`
	Diagnostics []Diagnostic     `json:"diagnostics"`
	CoursePar   *CoursePar       `json:"course_par,omitempty"`
	// GolferRows is the number of lines classified as golfer rows.
	GolferRows int `json:"golfer_rows"`
}
