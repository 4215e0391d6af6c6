package core

// validation.go decides which parsed records are handed to storage.
//
// Checks, in order:
//  1. Exactly HoleCount score slots
//  2. A non-empty player name
//  3. At least one legible score, so all-unknown rows are not stored
//  4. With RequireComplete, no missing score and no missing total
//
// Store columns for scores and totals are nullable. RequireComplete exists
// for deployments whose downstream consumers cannot handle NULL.

import "fmt"

// RejectReason identifies the validation rule a record failed.
type RejectReason string

const (
	RejectScoreCount       RejectReason = "score_count"
	RejectEmptyName        RejectReason = "empty_name"
	RejectAllScoresMissing RejectReason = "all_scores_missing"
	RejectIncomplete       RejectReason = "incomplete"
)

// ValidationError describes why a record was rejected.
type ValidationError struct {
	Field   string
	Reason  RejectReason
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

// RecordValidator enforces the invariants a record needs before storage.
type RecordValidator struct {
	RequireComplete bool
}

// Validate returns nil if the record may be stored.
func (v RecordValidator) Validate(r GolferRecord) *ValidationError {
	if len(r.Scores) != HoleCount {
		return &ValidationError{
			Field:   "scores",
			Reason:  RejectScoreCount,
			Message: fmt.Sprintf("has %d scores, need %d", len(r.Scores), HoleCount),
		}
	}
	if r.PlayerName == "" {
		return &ValidationError{Field: "player_name", Reason: RejectEmptyName, Message: "is empty"}
	}
	if r.ScoredHoles() == 0 {
		return &ValidationError{Field: "scores", Reason: RejectAllScoresMissing, Message: "no hole score is legible"}
	}
	if v.RequireComplete && !r.Complete() {
		if missing := HoleCount - r.ScoredHoles(); missing > 0 {
			return &ValidationError{
				Field:   "scores",
				Reason:  RejectIncomplete,
				Message: fmt.Sprintf("%d hole scores are missing", missing),
			}
		}
		return &ValidationError{Field: "total_score", Reason: RejectIncomplete, Message: "is missing"}
	}
	return nil
}
