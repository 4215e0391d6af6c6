package core

import (
	"fmt"
	"strings"
)

// nameSequence numbers placeholder names within one parse run.
type nameSequence struct {
	issued int
}

func (n *nameSequence) next() string {
	n.issued++
	return fmt.Sprintf("Unknown Golfer %d", n.issued)
}

// rowOutcome is the result of parsing one golfer row. Exactly one of
// record and skip is set.
type rowOutcome struct {
	record      *GolferRecord
	skip        *SkippedRow
	diagnostics []Diagnostic
}

// parseGolferRow parses "<name> <18 scores> <total>".
//
// The name is resolved before the score count is checked, so a dropped
// unnamed row still consumes a placeholder number, keeping numbering tied
// to row order rather than to which rows survive.
func parseGolferRow(row int, text string, names *nameSequence, policy TotalPolicy) rowOutcome {
	parts := strings.Fields(text)
	if len(parts) == 0 {
		return rowOutcome{skip: &SkippedRow{Row: row, Text: text, Reason: SkipEmptyRow, Detail: "row has no tokens"}}
	}

	name, detected := parts[0], true
	if !IsPlayerName(name) {
		name, detected = names.next(), false
	}

	raw := parts[1:]
	if len(raw) == 0 {
		return rowOutcome{skip: &SkippedRow{
			Row: row, Text: text, PlayerName: name, Reason: SkipNoScores,
			Detail: "row has a name but no scores",
		}}
	}

	holeTokens, totalToken := raw[:len(raw)-1], raw[len(raw)-1]
	if len(holeTokens) != HoleCount {
		return rowOutcome{skip: &SkippedRow{
			Row: row, Text: text, PlayerName: name, Reason: SkipScoreCount,
			Detail: fmt.Sprintf("found %d hole scores, need %d", len(holeTokens), HoleCount),
		}}
	}

	var diags []Diagnostic
	scores := make([]Score, HoleCount)
	for i, tok := range holeTokens {
		scores[i] = ParseScore(tok)
		if !scores[i].Valid {
			diags = append(diags, Diagnostic{
				Kind: DiagFieldFallback, Row: row, Player: name, Hole: i + 1, Token: tok,
				Message: fmt.Sprintf("hole %d score %q is not numeric, marked missing", i+1, tok),
			})
		}
	}

	declared := ParseScore(totalToken)
	if !declared.Valid {
		diags = append(diags, Diagnostic{
			Kind: DiagFieldFallback, Row: row, Player: name, Token: totalToken,
			Message: fmt.Sprintf("total %q is not numeric, marked missing", totalToken),
		})
	}

	total, computed, mismatch := policy.Reconcile(scores, declared)
	if mismatch {
		diags = append(diags, Diagnostic{
			Kind: DiagTotalMismatch, Row: row, Player: name, Token: totalToken,
			Message: fmt.Sprintf("declared total %d differs from hole sum %d", declared.Int, computed.Int),
		})
	}

	return rowOutcome{
		record: &GolferRecord{
			PlayerName:    name,
			NameDetected:  detected,
			Scores:        scores,
			TotalScore:    total,
			DeclaredTotal: declared,
			Row:           row,
		},
		diagnostics: diags,
	}
}
