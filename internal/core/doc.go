// Package core turns scorecard transcriptions into validated golfer records.
//
// The package holds the domain logic independent of any transport. It is
// used by the HTTP API, the CLI and tests without modification.
//
// # Pipeline
//
// A transcription is processed in order:
//
//  1. [NormalizeLines] trims lines and drops empty ones; fewer than
//     [MinLines] lines is an [InsufficientDataError]
//  2. [ClassifyRows] splits the lines by position into header, hole-number
//     row, par row and golfer rows
//  3. [Layout.Validate] checks the hole-number and par rows when strict
//     layout checking is on, returning a [LayoutError] otherwise
//  4. Each golfer row becomes a [GolferRecord] or a [SkippedRow]
//  5. [RecordValidator] decides which records may be stored
//
// Row-level problems never abort a parse. They are returned on the
// [ParseResult] as skipped rows, rejected records and diagnostics.
//
// # Missing Scores
//
// Illegible cells become a missing [Score], never a guessed number. A
// missing score is rendered as "?" in text, null in JSON and NULL in SQL.
//
// # Totals
//
// [TotalRecompute] sums the hole scores and propagates a missing hole into a
// missing total. [TotalDeclared] keeps the transcribed total. Either way the
// transcribed value is kept in DeclaredTotal and a disagreement is reported
// as a diagnostic.
//
// # Scans
//
// [Service] runs a scan end to end: acquire a slot from the [ScanLimiter],
// call the [Recognizer], parse, and hand accepted records to the
// [RecordStore]. Results are retained for a configurable period and can be
// fetched with [Service.GetScan].
package core
