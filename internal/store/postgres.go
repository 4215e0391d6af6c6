package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JonMunkholm/scorecard/internal/config"
	"github.com/JonMunkholm/scorecard/internal/core"
)

// PostgresStore keeps records in PostgreSQL through a pgx pool.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// OpenPostgres creates a pool sized from cfg and verifies the connection.
func OpenPostgres(ctx context.Context, cfg config.DatabaseConfig) (*PostgresStore, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxConns)
	poolConfig.MinConns = int32(cfg.MinConns)
	poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return NewPostgresStore(pool), nil
}

// NewPostgresStore wraps an existing pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	ddl := createTableSQL("BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY", "BOOLEAN", "TIMESTAMPTZ")
	if _, err := s.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("create table: %w", err)
	}
	if _, err := s.pool.Exec(ctx, createIndexSQL()); err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	return nil
}

// SaveRecords bulk-loads the records with COPY inside a transaction.
func (s *PostgresStore) SaveRecords(ctx context.Context, scanID string, records []core.GolferRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}
	if err := checkRecords(records); err != nil {
		return 0, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) // No-op if already committed

	now := time.Now().UTC()
	n, err := tx.CopyFrom(ctx,
		pgx.Identifier{TableName},
		insertColumns(),
		pgx.CopyFromSlice(len(records), func(i int) ([]any, error) {
			return copyRow(scanID, records[i], now), nil
		}),
	)
	if err != nil {
		return 0, fmt.Errorf("copy records: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return int(n), nil
}

// ListRecords returns up to limit records, newest first.
func (s *PostgresStore) ListRecords(ctx context.Context, limit int) ([]core.StoredRecord, error) {
	rows, err := s.pool.Query(ctx, fmt.Sprintf(
		"SELECT %s FROM %s ORDER BY id DESC LIMIT $1", selectColumns(), TableName), ClampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	out := []core.StoredRecord{}
	for rows.Next() {
		var (
			rec      core.StoredRecord
			row      int32
			scores   = make([]pgtype.Int4, core.HoleCount)
			total    pgtype.Int4
			declared pgtype.Int4
		)
		dest := []any{&rec.ID, &rec.ScanID, &rec.PlayerName, &rec.NameDetected, &row}
		for i := range scores {
			dest = append(dest, &scores[i])
		}
		dest = append(dest, &total, &declared, &rec.CreatedAt)

		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}

		rec.Row = int(row)
		rec.Scores = make([]core.Score, core.HoleCount)
		for i, sc := range scores {
			rec.Scores[i] = fromInt4(sc)
		}
		rec.TotalScore = fromInt4(total)
		rec.DeclaredTotal = fromInt4(declared)
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

// copyRow lists values in insertColumns order for COPY.
func copyRow(scanID string, r core.GolferRecord, createdAt time.Time) []any {
	row := make([]any, 0, core.HoleCount+7)
	row = append(row, scanID, r.PlayerName, r.NameDetected, int32(r.Row))
	for _, sc := range r.Scores {
		row = append(row, toInt4(sc))
	}
	return append(row, toInt4(r.TotalScore), toInt4(r.DeclaredTotal), createdAt)
}

func toInt4(s core.Score) pgtype.Int4 {
	return pgtype.Int4{Int32: int32(s.Int), Valid: s.Valid}
}

func fromInt4(v pgtype.Int4) core.Score {
	if !v.Valid {
		return core.Missing
	}
	return core.Present(int(v.Int32))
}
