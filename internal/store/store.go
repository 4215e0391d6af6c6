// Package store persists golfer records to SQLite or PostgreSQL.
//
// Both backends share one table layout. Hole scores and totals are
// nullable; a missing score is stored as NULL and read back as missing.
package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/JonMunkholm/scorecard/internal/config"
	"github.com/JonMunkholm/scorecard/internal/core"
)

// TableName is the table holding golfer records.
const TableName = "golf_scorecards"

const (
	DefaultListLimit = 50
	MaxListLimit     = 500
)

// Store is a record store with lifecycle methods.
type Store interface {
	core.RecordStore
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}

// Open connects to the configured backend and creates the table if needed.
func Open(ctx context.Context, cfg config.DatabaseConfig) (Store, error) {
	var (
		s   Store
		err error
	)
	switch cfg.Driver {
	case "postgres":
		s, err = OpenPostgres(ctx, cfg)
	case "sqlite", "":
		s, err = OpenSQLite(ctx, cfg.URL)
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}

	if err := s.Migrate(ctx); err != nil {
		s.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// ClampLimit applies the default and maximum page size.
func ClampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultListLimit
	case limit > MaxListLimit:
		return MaxListLimit
	default:
		return limit
	}
}

func scoreColumns() []string {
	cols := make([]string, core.HoleCount)
	for i := range cols {
		cols[i] = fmt.Sprintf("score%d", i+1)
	}
	return cols
}

// insertColumns is the column order used by both backends for writes.
func insertColumns() []string {
	cols := []string{"scan_id", "player_name", "name_detected", "source_row"}
	cols = append(cols, scoreColumns()...)
	return append(cols, "total_score", "declared_total", "created_at")
}

func selectColumns() string {
	return "id, " + strings.Join(insertColumns(), ", ")
}

// createTableSQL renders the DDL. idType and tsType differ per backend.
func createTableSQL(idType, boolType, tsType string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE IF NOT EXISTS %s (\n", TableName)
	fmt.Fprintf(&b, "\tid %s,\n", idType)
	b.WriteString("\tscan_id TEXT NOT NULL,\n")
	b.WriteString("\tplayer_name TEXT NOT NULL,\n")
	fmt.Fprintf(&b, "\tname_detected %s NOT NULL,\n", boolType)
	b.WriteString("\tsource_row INTEGER NOT NULL,\n")
	for _, col := range scoreColumns() {
		fmt.Fprintf(&b, "\t%s INTEGER,\n", col)
	}
	b.WriteString("\ttotal_score INTEGER,\n")
	b.WriteString("\tdeclared_total INTEGER,\n")
	fmt.Fprintf(&b, "\tcreated_at %s NOT NULL\n", tsType)
	b.WriteString(")")
	return b.String()
}

func createIndexSQL() string {
	return fmt.Sprintf("CREATE INDEX IF NOT EXISTS idx_%s_scan_id ON %s (scan_id)", TableName, TableName)
}

// checkRecords rejects records the table cannot hold.
func checkRecords(records []core.GolferRecord) error {
	for _, r := range records {
		if len(r.Scores) != core.HoleCount {
			return fmt.Errorf("record for %q has %d scores, need %d", r.PlayerName, len(r.Scores), core.HoleCount)
		}
		if r.PlayerName == "" {
			return fmt.Errorf("record at row %d has an empty player name", r.Row)
		}
	}
	return nil
}
