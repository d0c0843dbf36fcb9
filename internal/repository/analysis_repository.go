// Package repository persists generated analysis snapshots so past reports
// can be replayed without another model round trip.
package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// AnalysisRecord is one stored analysis snapshot. Payload holds the
// normalized JSON document exactly as it was served.
type AnalysisRecord struct {
	ID          int64           `json:"id" db:"id"`
	Symbol      string          `json:"symbol" db:"symbol"`
	Kind        string          `json:"kind" db:"kind"`
	Payload     json.RawMessage `json:"payload" db:"payload"`
	GeneratedAt time.Time       `json:"generated_at" db:"generated_at"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
}

// DatabasePool defines the interface for database pool operations.
// This interface allows for both real pool and mock pool implementations.
type DatabasePool interface {
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
}

// AnalysisRepository handles database operations for analysis snapshots.
type AnalysisRepository struct {
	pool DatabasePool
}

func NewAnalysisRepository(pool DatabasePool) *AnalysisRepository {
	return &AnalysisRepository{pool: pool}
}

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS analysis_snapshots (
		id BIGSERIAL PRIMARY KEY,
		symbol TEXT NOT NULL,
		kind TEXT NOT NULL,
		payload JSONB NOT NULL,
		generated_at TIMESTAMPTZ NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_analysis_snapshots_symbol_generated
		ON analysis_snapshots (symbol, generated_at DESC)`,
}

// EnsureSchema creates the snapshot table and its index if they do not exist
// yet. Called once at startup when persistence is enabled.
func (r *AnalysisRepository) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := r.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to ensure analysis schema: %w", err)
		}
	}
	return nil
}

// Save stores one analysis snapshot and returns the stored record.
func (r *AnalysisRepository) Save(ctx context.Context, symbol, kind string, payload interface{}, generatedAt time.Time) (*AnalysisRecord, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal analysis payload: %w", err)
	}

	query := `
		INSERT INTO analysis_snapshots (symbol, kind, payload, generated_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, symbol, kind, payload, generated_at, created_at
	`

	var record AnalysisRecord
	err = r.pool.QueryRow(ctx, query, symbol, kind, body, generatedAt).Scan(
		&record.ID,
		&record.Symbol,
		&record.Kind,
		&record.Payload,
		&record.GeneratedAt,
		&record.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to save analysis snapshot: %w", err)
	}

	return &record, nil
}

// Latest returns the most recent snapshot for a symbol and kind, or nil when
// none exists.
func (r *AnalysisRepository) Latest(ctx context.Context, symbol, kind string) (*AnalysisRecord, error) {
	query := `
		SELECT id, symbol, kind, payload, generated_at, created_at
		FROM analysis_snapshots
		WHERE symbol = $1 AND kind = $2
		ORDER BY generated_at DESC
		LIMIT 1
	`

	var record AnalysisRecord
	err := r.pool.QueryRow(ctx, query, symbol, kind).Scan(
		&record.ID,
		&record.Symbol,
		&record.Kind,
		&record.Payload,
		&record.GeneratedAt,
		&record.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load latest analysis snapshot: %w", err)
	}

	return &record, nil
}

// History lists snapshots for a symbol, newest first.
func (r *AnalysisRepository) History(ctx context.Context, symbol string, limit int) ([]AnalysisRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT id, symbol, kind, payload, generated_at, created_at
		FROM analysis_snapshots
		WHERE symbol = $1
		ORDER BY generated_at DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, symbol, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query analysis history: %w", err)
	}
	defer rows.Close()

	var records []AnalysisRecord
	for rows.Next() {
		var record AnalysisRecord
		if err := rows.Scan(
			&record.ID,
			&record.Symbol,
			&record.Kind,
			&record.Payload,
			&record.GeneratedAt,
			&record.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan analysis snapshot: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read analysis history: %w", err)
	}

	return records, nil
}

// Prune deletes snapshots older than the retention window and reports how
// many rows were removed.
func (r *AnalysisRepository) Prune(ctx context.Context, olderThan time.Duration) (int64, error) {
	query := `DELETE FROM analysis_snapshots WHERE created_at < $1`

	tag, err := r.pool.Exec(ctx, query, time.Now().Add(-olderThan))
	if err != nil {
		return 0, fmt.Errorf("failed to prune analysis snapshots: %w", err)
	}
	return tag.RowsAffected(), nil
}
