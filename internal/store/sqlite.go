package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/JonMunkholm/scorecard/internal/core"
)

// SQLiteStore keeps records in a local SQLite file.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens path, which may be ":memory:" in tests.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	dsn := path
	if !strings.Contains(dsn, "?") {
		dsn += "?_busy_timeout=5000&_foreign_keys=on"
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// A single writer avoids "database is locked" under concurrent scans,
	// and keeps an in-memory database on one connection.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite %s: %w", path, err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	ddl := createTableSQL("INTEGER PRIMARY KEY AUTOINCREMENT", "BOOLEAN", "TIMESTAMP")
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create table: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, createIndexSQL()); err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	return nil
}

// SaveRecords inserts all records in one transaction.
func (s *SQLiteStore) SaveRecords(ctx context.Context, scanID string, records []core.GolferRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}
	if err := checkRecords(records); err != nil {
		return 0, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() // No-op after commit

	cols := insertColumns()
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")
	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)", TableName, strings.Join(cols, ", "), placeholders))
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for _, r := range records {
		if _, err := stmt.ExecContext(ctx, insertArgs(scanID, r, now)...); err != nil {
			return 0, fmt.Errorf("insert %q (row %d): %w", r.PlayerName, r.Row, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return len(records), nil
}

// ListRecords returns up to limit records, newest first.
func (s *SQLiteStore) ListRecords(ctx context.Context, limit int) ([]core.StoredRecord, error) {
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(
		"SELECT %s FROM %s ORDER BY id DESC LIMIT ?", selectColumns(), TableName), ClampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	out := []core.StoredRecord{}
	for rows.Next() {
		var rec core.StoredRecord
		if err := rows.Scan(scanDest(&rec)...); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// insertArgs lists values in insertColumns order. Score implements
// driver.Valuer, so missing scores become NULL.
func insertArgs(scanID string, r core.GolferRecord, createdAt time.Time) []any {
	args := make([]any, 0, core.HoleCount+7)
	args = append(args, scanID, r.PlayerName, r.NameDetected, r.Row)
	for _, sc := range r.Scores {
		args = append(args, sc)
	}
	return append(args, r.TotalScore, r.DeclaredTotal, createdAt)
}

// scanDest lists destinations in selectColumns order.
func scanDest(rec *core.StoredRecord) []any {
	rec.Scores = make([]core.Score, core.HoleCount)
	dest := []any{&rec.ID, &rec.ScanID, &rec.PlayerName, &rec.NameDetected, &rec.Row}
	for i := range rec.Scores {
		dest = append(dest, &rec.Scores[i])
	}
	return append(dest, &rec.TotalScore, &rec.DeclaredTotal, &rec.CreatedAt)
}
