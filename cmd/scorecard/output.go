package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/JonMunkholm/scorecard/internal/core"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 1, ' ', tabwriter.AlignRight)
}

func scoreCells(r core.GolferRecord) string {
	cells := make([]string, len(r.Scores))
	for i, s := range r.Scores {
		cells[i] = s.String()
	}
	return strings.Join(cells, "\t")
}

func holeHeader() string {
	cells := make([]string, core.HoleCount)
	for i := range cells {
		cells[i] = fmt.Sprint(i + 1)
	}
	return strings.Join(cells, "\t")
}

func writeRecords(w io.Writer, records []core.GolferRecord) error {
	tw := newTable(w)
	fmt.Fprintf(tw, "Row\tPlayer\t%s\tTotal\t\n", holeHeader())
	for _, r := range records {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t\n", r.Row, r.PlayerName, scoreCells(r), r.TotalScore)
	}
	return tw.Flush()
}

func writeParseResult(w io.Writer, format string, result *core.ParseResult) error {
	if format == "json" {
		return writeJSON(w, result)
	}

	if err := writeRecords(w, result.Records); err != nil {
		return err
	}
	for _, s := range result.Skipped {
		fmt.Fprintf(w, "skipped row %d (%s): %s\n", s.Row, s.Reason, s.Detail)
	}
	for _, r := range result.Rejected {
		fmt.Fprintf(w, "rejected row %d %s (%s): %s\n", r.Record.Row, r.Record.PlayerName, r.Reason, r.Message)
	}
	return nil
}

func writeScanResult(w io.Writer, format string, res *core.ScanResult) error {
	if format == "json" {
		return writeJSON(w, res)
	}

	fmt.Fprintf(w, "scan %s from %s: %s, %d records saved\n", res.ScanID, res.Source, res.Status, res.Saved)
	if res.Parse == nil {
		return nil
	}
	return writeParseResult(w, format, res.Parse)
}

func writeStoredRecords(w io.Writer, format string, records []core.StoredRecord) error {
	if format == "json" {
		return writeJSON(w, records)
	}

	tw := newTable(w)
	fmt.Fprintf(tw, "ID\tPlayer\t%s\tTotal\tCreated\t\n", holeHeader())
	for _, r := range records {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t\n",
			r.ID, r.PlayerName, scoreCells(r.GolferRecord), r.TotalScore, r.CreatedAt.Format("2006-01-02 15:04"))
	}
	return tw.Flush()
}
