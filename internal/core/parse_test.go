package core

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

const (
	testHeader  = "Golfer1"
	testHoleRow = "1 2 3 4 5 6 7 8 9 10 11 12 13 14 15 16 17 18 Total"
	testParRow  = "4 4 4 4 4 4 4 4 4 4 4 4 4 4 4 4 4 4 72"

	// Sums to 74.
	aliceRow = "Alice 4 5 3 4 5 4 3 4 5 4 5 3 4 5 4 3 4 5 74"
)

var aliceScores = []int{4, 5, 3, 4, 5, 4, 3, 4, 5, 4, 5, 3, 4, 5, 4, 3, 4, 5}

func card(golferRows ...string) string {
	lines := append([]string{testHeader, testHoleRow, testParRow}, golferRows...)
	return strings.Join(lines, "\n")
}

func mustParse(t *testing.T, text string, opts ParseOptions) *ParseResult {
	t.Helper()
	result, err := Parse(text, opts)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return result
}

func diagnosticsOfKind(r *ParseResult, kind DiagnosticKind) []Diagnostic {
	var out []Diagnostic
	for _, d := range r.Diagnostics {
		if d.Kind == kind {
			out = append(out, d)
		}
	}
	return out
}

func TestParse_SingleGolfer(t *testing.T) {
	for _, policy := range []TotalPolicy{TotalRecompute, TotalDeclared} {
		t.Run(string(policy), func(t *testing.T) {
			opts := DefaultParseOptions()
			opts.TotalPolicy = policy

			result := mustParse(t, card(aliceRow), opts)

			if len(result.Records) != 1 {
				t.Fatalf("got %d records, want 1", len(result.Records))
			}
			rec := result.Records[0]
			if rec.PlayerName != "Alice" || !rec.NameDetected {
				t.Errorf("name = %q (detected %v), want Alice", rec.PlayerName, rec.NameDetected)
			}
			if len(rec.Scores) != HoleCount {
				t.Fatalf("got %d scores, want %d", len(rec.Scores), HoleCount)
			}
			for i, want := range aliceScores {
				if rec.Scores[i] != Present(want) {
					t.Errorf("hole %d = %v, want %d", i+1, rec.Scores[i], want)
				}
			}
			if rec.TotalScore != Present(74) {
				t.Errorf("TotalScore = %v, want 74", rec.TotalScore)
			}
			if rec.Row != 4 {
				t.Errorf("Row = %d, want 4", rec.Row)
			}
			if len(result.Diagnostics) != 0 {
				t.Errorf("unexpected diagnostics: %+v", result.Diagnostics)
			}
			if result.CoursePar == nil || result.CoursePar.Total != 72 {
				t.Errorf("CoursePar = %+v, want total 72", result.CoursePar)
			}
		})
	}
}

func TestParse_ShortRowIsSkipped(t *testing.T) {
	short := "Bob 4 5 3 4 5 4 3 4 5 4 5 3 4 5 4 3 4 70" // 17 scores + total

	result := mustParse(t, card(aliceRow, short), DefaultParseOptions())

	if len(result.Records) != 1 || result.Records[0].PlayerName != "Alice" {
		t.Fatalf("records = %+v, want only Alice", result.Records)
	}
	if len(result.Skipped) != 1 {
		t.Fatalf("got %d skipped rows, want 1", len(result.Skipped))
	}
	skip := result.Skipped[0]
	if skip.Reason != SkipScoreCount || skip.PlayerName != "Bob" || skip.Row != 5 {
		t.Errorf("skipped = %+v", skip)
	}
	if got := diagnosticsOfKind(result, DiagRowSkipped); len(got) != 1 {
		t.Errorf("got %d row_skipped diagnostics, want 1", len(got))
	}
}

func TestParse_LongRowIsSkipped(t *testing.T) {
	long := "Carl 4 5 3 4 5 4 3 4 5 4 5 3 4 5 4 3 4 5 4 78"

	result := mustParse(t, card(long), DefaultParseOptions())

	if len(result.Records) != 0 {
		t.Fatalf("records = %+v, want none", result.Records)
	}
	if result.Skipped[0].Reason != SkipScoreCount {
		t.Errorf("Reason = %q, want %q", result.Skipped[0].Reason, SkipScoreCount)
	}
}

func TestParse_UnknownGolfers(t *testing.T) {
	row := "42 4 5 3 4 5 4 3 4 5 4 5 3 4 5 4 3 4 5 74"

	result := mustParse(t, card(row, aliceRow, row), DefaultParseOptions())

	want := []string{"Unknown Golfer 1", "Alice", "Unknown Golfer 2"}
	if len(result.Records) != len(want) {
		t.Fatalf("got %d records, want %d", len(result.Records), len(want))
	}
	for i, name := range want {
		if got := result.Records[i].PlayerName; got != name {
			t.Errorf("record %d name = %q, want %q", i, got, name)
		}
	}
	if result.Records[0].NameDetected {
		t.Error("placeholder name should not be marked detected")
	}
}

func TestParse_SkippedUnnamedRowConsumesNumber(t *testing.T) {
	short := "? 4 5 3 70"
	named := "- 4 5 3 4 5 4 3 4 5 4 5 3 4 5 4 3 4 5 74"

	result := mustParse(t, card(short, named), DefaultParseOptions())

	if len(result.Records) != 1 {
		t.Fatalf("got %d records, want 1", len(result.Records))
	}
	if got := result.Skipped[0].PlayerName; got != "Unknown Golfer 1" {
		t.Errorf("skipped name = %q, want Unknown Golfer 1", got)
	}
	if got := result.Records[0].PlayerName; got != "Unknown Golfer 2" {
		t.Errorf("record name = %q, want Unknown Golfer 2", got)
	}
}

func TestParse_Idempotent(t *testing.T) {
	text := card(
		"42 4 5 3 4 5 4 3 4 5 4 5 3 4 5 4 3 4 5 74",
		aliceRow,
		"7 4 ? 3 4 5 4 3 4 5 4 5 3 4 5 4 3 4 5 74",
		"Dana 4 5",
	)

	first := mustParse(t, text, DefaultParseOptions())
	second := mustParse(t, text, DefaultParseOptions())

	if !reflect.DeepEqual(first, second) {
		t.Errorf("parsing twice differs:\nfirst:  %+v\nsecond: %+v", first, second)
	}
	if got := second.Records[2].PlayerName; got != "Unknown Golfer 2" {
		t.Errorf("second placeholder = %q, want Unknown Golfer 2", got)
	}
}

func TestParse_NamePreservedVerbatim(t *testing.T) {
	names := []string{"José", "O'Brien", "mcIlroy", "J3", "Ａｌｉ"}

	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			row := strings.Replace(aliceRow, "Alice", name, 1)
			result := mustParse(t, card(row), DefaultParseOptions())

			if len(result.Records) != 1 {
				t.Fatalf("got %d records, want 1", len(result.Records))
			}
			if got := result.Records[0].PlayerName; got != name {
				t.Errorf("PlayerName = %q, want %q", got, name)
			}
		})
	}
}

func TestParse_MissingScore(t *testing.T) {
	row := "Alice 4 5 ? 4 5 4 3 4 5 4 5 3 4 5 4 3 4 5 74"

	tests := []struct {
		policy    TotalPolicy
		wantTotal Score
	}{
		{TotalRecompute, Missing},
		{TotalDeclared, Present(74)},
	}

	for _, tt := range tests {
		t.Run(string(tt.policy), func(t *testing.T) {
			opts := DefaultParseOptions()
			opts.TotalPolicy = tt.policy

			result := mustParse(t, card(row), opts)
			if len(result.Records) != 1 {
				t.Fatalf("got %d records, want 1", len(result.Records))
			}
			rec := result.Records[0]

			if rec.Scores[2].Valid {
				t.Errorf("hole 3 = %v, want missing", rec.Scores[2])
			}
			if rec.ScoredHoles() != 17 {
				t.Errorf("ScoredHoles() = %d, want 17", rec.ScoredHoles())
			}
			if rec.TotalScore != tt.wantTotal {
				t.Errorf("TotalScore = %+v, want %+v", rec.TotalScore, tt.wantTotal)
			}
			if rec.DeclaredTotal != Present(74) {
				t.Errorf("DeclaredTotal = %+v, want 74", rec.DeclaredTotal)
			}

			fallbacks := diagnosticsOfKind(result, DiagFieldFallback)
			if len(fallbacks) != 1 || fallbacks[0].Hole != 3 || fallbacks[0].Token != "?" {
				t.Errorf("fallback diagnostics = %+v, want one for hole 3", fallbacks)
			}
		})
	}
}

func TestParse_MissingScoreAtEveryPosition(t *testing.T) {
	for k := 1; k <= HoleCount; k++ {
		fields := strings.Fields(aliceRow)
		fields[k] = "x"

		result := mustParse(t, card(strings.Join(fields, " ")), DefaultParseOptions())
		rec := result.Records[0]

		for i, s := range rec.Scores {
			if i == k-1 {
				if s.Valid {
					t.Errorf("k=%d: hole %d = %v, want missing", k, i+1, s)
				}
				continue
			}
			if s != Present(aliceScores[i]) {
				t.Errorf("k=%d: hole %d = %v, want %d", k, i+1, s, aliceScores[i])
			}
		}
	}
}

func TestParse_NonNumericTotal(t *testing.T) {
	row := "Alice 4 5 3 4 5 4 3 4 5 4 5 3 4 5 4 3 4 5 ??"

	t.Run("accepted by default", func(t *testing.T) {
		result := mustParse(t, card(row), DefaultParseOptions())
		if len(result.Records) != 1 {
			t.Fatalf("got %d records, want 1", len(result.Records))
		}
		rec := result.Records[0]
		if rec.DeclaredTotal.Valid {
			t.Error("DeclaredTotal should be missing")
		}
		if rec.TotalScore != Present(74) {
			t.Errorf("recomputed TotalScore = %+v, want 74", rec.TotalScore)
		}
		if got := diagnosticsOfKind(result, DiagFieldFallback); len(got) != 1 || got[0].Hole != 0 {
			t.Errorf("fallback diagnostics = %+v, want one for the total", got)
		}
	})

	t.Run("rejected when complete records are required", func(t *testing.T) {
		opts := ParseOptions{TotalPolicy: TotalDeclared, StrictLayout: true, RequireComplete: true}
		result := mustParse(t, card(row), opts)

		if len(result.Records) != 0 {
			t.Fatalf("records = %+v, want none", result.Records)
		}
		if len(result.Rejected) != 1 || result.Rejected[0].Reason != RejectIncomplete {
			t.Errorf("rejected = %+v, want one incomplete", result.Rejected)
		}
		if got := diagnosticsOfKind(result, DiagRecordRejected); len(got) != 1 {
			t.Errorf("got %d record_rejected diagnostics, want 1", len(got))
		}
	})
}

func TestParse_TotalMismatch(t *testing.T) {
	row := strings.Replace(aliceRow, " 74", " 80", 1)

	tests := []struct {
		policy    TotalPolicy
		wantTotal int
	}{
		{TotalRecompute, 74},
		{TotalDeclared, 80},
	}

	for _, tt := range tests {
		t.Run(string(tt.policy), func(t *testing.T) {
			opts := DefaultParseOptions()
			opts.TotalPolicy = tt.policy

			result := mustParse(t, card(row), opts)
			if got := result.Records[0].TotalScore; got != Present(tt.wantTotal) {
				t.Errorf("TotalScore = %+v, want %d", got, tt.wantTotal)
			}
			if got := diagnosticsOfKind(result, DiagTotalMismatch); len(got) != 1 {
				t.Errorf("got %d total_mismatch diagnostics, want 1", len(got))
			}
		})
	}
}

func TestParse_AllScoresMissingRejected(t *testing.T) {
	row := "Ghost" + strings.Repeat(" ?", HoleCount) + " ?"

	result := mustParse(t, card(row, aliceRow), DefaultParseOptions())

	if len(result.Records) != 1 {
		t.Fatalf("got %d records, want 1", len(result.Records))
	}
	if len(result.Rejected) != 1 || result.Rejected[0].Reason != RejectAllScoresMissing {
		t.Errorf("rejected = %+v, want all_scores_missing", result.Rejected)
	}
}

func TestParse_NameOnlyRow(t *testing.T) {
	result := mustParse(t, card("Bob", aliceRow), DefaultParseOptions())

	if len(result.Skipped) != 1 || result.Skipped[0].Reason != SkipNoScores {
		t.Errorf("skipped = %+v, want one no_scores", result.Skipped)
	}
	if len(result.Records) != 1 {
		t.Errorf("got %d records, want 1", len(result.Records))
	}
}

func TestParse_InsufficientData(t *testing.T) {
	inputs := []string{
		"",
		"   \n\n",
		testHeader,
		strings.Join([]string{testHeader, testHoleRow, testParRow}, "\n"),
		"\n" + testHeader + "\n\n" + testHoleRow + "\n   \n" + testParRow + "\n\n",
	}

	for _, input := range inputs {
		result, err := Parse(input, DefaultParseOptions())
		if !errors.Is(err, ErrInsufficientData) {
			t.Errorf("Parse(%q) error = %v, want insufficient data", input, err)
		}
		if result != nil {
			t.Errorf("Parse(%q) returned a result alongside the error", input)
		}
	}
}

func TestParse_BlankLinesDoNotShiftRows(t *testing.T) {
	text := "\n\n" + testHeader + "\n\n" + testHoleRow + "\n" + testParRow + "\n\n   \n" + aliceRow + "\n"

	result := mustParse(t, text, DefaultParseOptions())
	if len(result.Records) != 1 || result.Records[0].Row != 4 {
		t.Errorf("records = %+v, want Alice at row 4", result.Records)
	}
}

func TestParse_Layout(t *testing.T) {
	tests := []struct {
		name        string
		holes       string
		par         string
		wantSection string
	}{
		{
			name:        "narrative in place of hole row",
			holes:       "Here is the transcribed scorecard:",
			par:         testParRow,
			wantSection: "holes",
		},
		{
			name:        "hole numbers out of order",
			holes:       "1 2 3 4 5 6 7 8 9 11 10 12 13 14 15 16 17 18 Total",
			par:         testParRow,
			wantSection: "holes",
		},
		{
			name:        "missing total label",
			holes:       "1 2 3 4 5 6 7 8 9 10 11 12 13 14 15 16 17 18 Out",
			par:         testParRow,
			wantSection: "holes",
		},
		{
			name:        "nine-hole par row",
			holes:       testHoleRow,
			par:         "4 4 4 4 4 4 4 4 4 36",
			wantSection: "par",
		},
		{
			name:        "illegible par",
			holes:       testHoleRow,
			par:         "4 4 ? 4 4 4 4 4 4 4 4 4 4 4 4 4 4 4 72",
			wantSection: "par",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text := strings.Join([]string{testHeader, tt.holes, tt.par, aliceRow}, "\n")

			_, err := Parse(text, DefaultParseOptions())
			var layoutErr *LayoutError
			if !errors.As(err, &layoutErr) {
				t.Fatalf("expected LayoutError, got %v", err)
			}
			if layoutErr.Section != tt.wantSection {
				t.Errorf("Section = %q, want %q", layoutErr.Section, tt.wantSection)
			}
			if !IsParseFailure(err) {
				t.Error("IsParseFailure() = false")
			}

			lenient := DefaultParseOptions()
			lenient.StrictLayout = false
			result := mustParse(t, text, lenient)
			if len(result.Records) != 1 {
				t.Errorf("lenient parse got %d records, want 1", len(result.Records))
			}
		})
	}
}

func TestParse_HoleRowCaseInsensitive(t *testing.T) {
	text := strings.Join([]string{testHeader, strings.Replace(testHoleRow, "Total", "TOTAL", 1), testParRow, aliceRow}, "\n")
	mustParse(t, text, DefaultParseOptions())
}

func TestParse_ParTotalMismatch(t *testing.T) {
	text := strings.Join([]string{testHeader, testHoleRow, strings.Replace(testParRow, " 72", " 71", 1), aliceRow}, "\n")

	result := mustParse(t, text, DefaultParseOptions())

	if got := diagnosticsOfKind(result, DiagParTotalMismatch); len(got) != 1 {
		t.Errorf("got %d par_total_mismatch diagnostics, want 1", len(got))
	}
	if result.CoursePar.DeclaredTotal != 71 || result.CoursePar.Total != 72 {
		t.Errorf("CoursePar = %+v", result.CoursePar)
	}
}

func TestParse_OutputNeverExceedsRows(t *testing.T) {
	rows := []string{
		aliceRow,
		"Bob",
		"Carl 4 5 70",
		"99 4 5 3 4 5 4 3 4 5 4 5 3 4 5 4 3 4 5 74",
		"Ghost" + strings.Repeat(" ?", HoleCount+1),
		"Dana 4 5 3 4 5 4 3 4 5 4 5 3 4 5 4 3 4 5 x",
	}

	result := mustParse(t, card(rows...), DefaultParseOptions())

	if result.GolferRows != len(rows) {
		t.Errorf("GolferRows = %d, want %d", result.GolferRows, len(rows))
	}
	if got := len(result.Records) + len(result.Skipped) + len(result.Rejected); got != len(rows) {
		t.Errorf("records+skipped+rejected = %d, want %d", got, len(rows))
	}
	for _, rec := range result.Records {
		if len(rec.Scores) != HoleCount {
			t.Errorf("%s has %d scores", rec.PlayerName, len(rec.Scores))
		}
	}
	for i := 1; i < len(result.Records); i++ {
		if result.Records[i].Row <= result.Records[i-1].Row {
			t.Errorf("records out of row order: %d then %d", result.Records[i-1].Row, result.Records[i].Row)
		}
	}
}

func TestParseResult_Counts(t *testing.T) {
	rows := []string{
		aliceRow,
		"Bob",
		"Carl 4 ? 3 4 5 4 3 4 5 4 5 3 4 5 4 3 4 5 x",
		"Ghost" + strings.Repeat(" ?", HoleCount+1),
	}

	counts := mustParse(t, card(rows...), DefaultParseOptions()).Counts()

	if counts.Accepted != 2 {
		t.Errorf("Accepted = %d, want 2", counts.Accepted)
	}
	if counts.Skipped[string(SkipNoScores)] != 1 {
		t.Errorf("Skipped = %v", counts.Skipped)
	}
	if counts.Rejected[string(RejectAllScoresMissing)] != 1 {
		t.Errorf("Rejected = %v", counts.Rejected)
	}
	// Carl: one score and the total. Ghost: 18 scores and the total.
	if counts.Fallbacks["score"] != 19 || counts.Fallbacks["total"] != 2 {
		t.Errorf("Fallbacks = %v", counts.Fallbacks)
	}
}

func TestParse_MultiWordNameRowIsSkipped(t *testing.T) {
	// Only the first token is the name slot, so extra name words are
	// counted as hole scores and the row fails the 18-score gate.
	tests := []struct {
		name     string
		row      string
		wantName string
	}{
		{name: "spelled-out placeholder", row: "Unknown Golfer 1 " + testParRow, wantName: "Unknown"},
		{name: "two-word name", row: "Mary Jane " + testParRow, wantName: "Mary"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := mustParse(t, card(tt.row), DefaultParseOptions())

			if len(result.Records) != 0 {
				t.Fatalf("records = %+v, want none", result.Records)
			}
			if len(result.Skipped) != 1 {
				t.Fatalf("got %d skipped rows, want 1", len(result.Skipped))
			}
			skip := result.Skipped[0]
			if skip.Reason != SkipScoreCount || skip.PlayerName != tt.wantName {
				t.Errorf("skipped = %+v, want %s for %q", skip, SkipScoreCount, tt.wantName)
			}
		})
	}

	result := mustParse(t, card("? "+testParRow), DefaultParseOptions())
	if len(result.Records) != 1 || result.Records[0].PlayerName != "Unknown Golfer 1" {
		t.Errorf("records = %+v, want one Unknown Golfer 1", result.Records)
	}
}

func TestParse_LenientLayoutIgnoresUnreadablePar(t *testing.T) {
	text := strings.Join([]string{
		testHeader,
		testHoleRow,
		"Par row smudged beyond reading",
		aliceRow,
		"Bob 5 5 5 5 5 5 5 5 5 5 5 5 5 5 5 5 5 5 90",
	}, "\n")

	if _, err := Parse(text, DefaultParseOptions()); !IsParseFailure(err) {
		t.Fatalf("strict Parse() error = %v, want layout failure", err)
	}

	opts := DefaultParseOptions()
	opts.StrictLayout = false
	result := mustParse(t, text, opts)

	if result.CoursePar != nil {
		t.Errorf("CoursePar = %+v, want nil for an unreadable par row", result.CoursePar)
	}
	if len(result.Records) != 2 {
		t.Fatalf("got %d records, want 2", len(result.Records))
	}
	if got := result.Records[1].TotalScore; got != Present(90) {
		t.Errorf("Bob total = %v, want 90", got)
	}
}
