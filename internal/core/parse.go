package core

import (
	"fmt"

	"github.com/JonMunkholm/scorecard/internal/config"
	"github.com/JonMunkholm/scorecard/internal/metrics"
)

// ParseOptions controls parsing policy.
type ParseOptions struct {
	TotalPolicy TotalPolicy
	// StrictLayout rejects transcriptions whose hole-number or par rows do
	// not match the expected layout.
	StrictLayout    bool
	RequireComplete bool
}

// DefaultParseOptions recomputes totals, checks the layout and accepts
// records with missing cells.
func DefaultParseOptions() ParseOptions {
	return ParseOptions{TotalPolicy: TotalRecompute, StrictLayout: true}
}

// ParseOptionsFromConfig builds ParseOptions from the scan settings.
func ParseOptionsFromConfig(cfg config.ScanConfig) (ParseOptions, error) {
	policy, err := ParseTotalPolicy(cfg.TotalPolicy)
	if err != nil {
		return ParseOptions{}, err
	}
	return ParseOptions{
		TotalPolicy:     policy,
		StrictLayout:    cfg.StrictLayout,
		RequireComplete: cfg.RequireComplete,
	}, nil
}

// Parse converts a transcription into golfer records.
//
// Only blob-level problems return an error: too few lines, or a layout
// mismatch when StrictLayout is set. Row-level problems never abort; they
// are reported in the result's Skipped, Rejected and Diagnostics lists.
// Output order follows input row order, and the placeholder numbering is
// scoped to this call, so parsing the same text twice yields equal results.
func Parse(text string, opts ParseOptions) (*ParseResult, error) {
	if opts.TotalPolicy == "" {
		opts.TotalPolicy = TotalRecompute
	}

	lines, err := NormalizeLines(text)
	if err != nil {
		return nil, err
	}

	layout, err := ClassifyRows(lines)
	if err != nil {
		return nil, err
	}

	result := &ParseResult{
		Records:     []GolferRecord{},
		Skipped:     []SkippedRow{},
		Rejected:    []RejectedRecord{},
		Diagnostics: []Diagnostic{},
		GolferRows:  len(layout.GolferRows),
	}

	if opts.StrictLayout {
		par, err := layout.Validate()
		if err != nil {
			return nil, err
		}
		result.CoursePar = par
	} else if par, err := layout.CoursePar(); err == nil {
		result.CoursePar = par
	}

	if par := result.CoursePar; par != nil && par.Total != par.DeclaredTotal {
		result.Diagnostics = append(result.Diagnostics, Diagnostic{
			Kind: DiagParTotalMismatch, Row: 3,
			Message: fmt.Sprintf("declared par total %d differs from hole par sum %d", par.DeclaredTotal, par.Total),
		})
	}

	validator := RecordValidator{RequireComplete: opts.RequireComplete}
	names := &nameSequence{}

	for i, text := range layout.GolferRows {
		row := GolferRowNumber(i)
		out := parseGolferRow(row, text, names, opts.TotalPolicy)

		if out.skip != nil {
			result.Skipped = append(result.Skipped, *out.skip)
			result.Diagnostics = append(result.Diagnostics, Diagnostic{
				Kind: DiagRowSkipped, Row: row, Player: out.skip.PlayerName, Message: out.skip.Detail,
			})
			continue
		}

		result.Diagnostics = append(result.Diagnostics, out.diagnostics...)

		if verr := validator.Validate(*out.record); verr != nil {
			result.Rejected = append(result.Rejected, RejectedRecord{
				Record: *out.record, Reason: verr.Reason, Message: verr.Error(),
			})
			result.Diagnostics = append(result.Diagnostics, Diagnostic{
				Kind: DiagRecordRejected, Row: row, Player: out.record.PlayerName, Message: verr.Error(),
			})
			continue
		}

		result.Records = append(result.Records, *out.record)
	}

	return result, nil
}

// Counts summarizes the result for metrics.
func (r *ParseResult) Counts() metrics.ParseCounts {
	c := metrics.ParseCounts{
		Accepted:  len(r.Records),
		Rejected:  make(map[string]int),
		Skipped:   make(map[string]int),
		Fallbacks: make(map[string]int),
	}
	for _, rej := range r.Rejected {
		c.Rejected[string(rej.Reason)]++
	}
	for _, s := range r.Skipped {
		c.Skipped[string(s.Reason)]++
	}
	for _, d := range r.Diagnostics {
		if d.Kind != DiagFieldFallback {
			continue
		}
		if d.Hole > 0 {
			c.Fallbacks["score"]++
		} else {
			c.Fallbacks["total"]++
		}
	}
	return c
}
