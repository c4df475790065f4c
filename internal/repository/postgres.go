package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pgvector/pgvector-go"

	"houseprice/internal/model"
)

const schema = `
CREATE EXTENSION IF NOT EXISTS vector;

CREATE TABLE IF NOT EXISTS prediction_history (
	id              UUID PRIMARY KEY,
	request_id      UUID NOT NULL,
	features        JSONB NOT NULL,
	feature_vector  vector(12) NOT NULL,
	estimated_price DOUBLE PRECISION,
	error_message   TEXT,
	created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS prediction_history_created_at_idx ON prediction_history (created_at DESC);
`

// PostgresRepository stores prediction history
type PostgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository connects and prepares the schema
func NewPostgresRepository(ctx context.Context, dsn string, maxConn, maxIdleConn int) (*PostgresRepository, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(maxConn)
	db.SetMaxIdleConns(maxIdleConn)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(2 * time.Minute)

	repo := NewPostgresRepositoryFromDB(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return repo, nil
}

// NewPostgresRepositoryFromDB wraps an existing connection
func NewPostgresRepositoryFromDB(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Close closes the database connection
func (r *PostgresRepository) Close() error {
	return r.db.Close()
}

// EnsureSchema creates the history table if it does not exist
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	for _, stmt := range strings.Split(schema, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}

// Save inserts one prediction
func (r *PostgresRepository) Save(ctx context.Context, entry *model.HistoryEntry) error {
	features, err := json.Marshal(entry.Features)
	if err != nil {
		return fmt.Errorf("failed to marshal features: %w", err)
	}

	query := `
		INSERT INTO prediction_history
			(id, request_id, features, feature_vector, estimated_price, error_message, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err = r.db.ExecContext(ctx, query,
		entry.ID,
		entry.RequestID,
		features,
		pgvector.NewVector(entry.Features.Encode()),
		entry.Price,
		entry.Error,
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save prediction: %w", err)
	}
	return nil
}

// historyRow is the scanned shape of a prediction_history row
type historyRow struct {
	ID        string    `db:"id"`
	RequestID string    `db:"request_id"`
	Features  []byte    `db:"features"`
	Price     *float64  `db:"estimated_price"`
	Error     *string   `db:"error_message"`
	Distance  *float64  `db:"distance"`
	CreatedAt time.Time `db:"created_at"`
}

func (row historyRow) toEntry() (model.HistoryEntry, error) {
	entry := model.HistoryEntry{
		ID:        row.ID,
		RequestID: row.RequestID,
		Price:     row.Price,
		Error:     row.Error,
		Distance:  row.Distance,
		CreatedAt: row.CreatedAt,
	}
	if err := json.Unmarshal(row.Features, &entry.Features); err != nil {
		return entry, fmt.Errorf("failed to decode features of %s: %w", row.ID, err)
	}
	return entry, nil
}

func toEntries(rows []historyRow) ([]model.HistoryEntry, error) {
	entries := make([]model.HistoryEntry, 0, len(rows))
	for _, row := range rows {
		entry, err := row.toEntry()
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Recent returns the newest predictions first
func (r *PostgresRepository) Recent(ctx context.Context, limit int) ([]model.HistoryEntry, error) {
	query := `
		SELECT id, request_id, features, estimated_price, error_message, NULL::double precision AS distance, created_at
		FROM prediction_history
		ORDER BY created_at DESC
		LIMIT $1
	`
	var rows []historyRow
	if err := r.db.SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, fmt.Errorf("failed to fetch recent predictions: %w", err)
	}
	return toEntries(rows)
}

// Similar returns successful predictions for the houses nearest to features by L2 distance
func (r *PostgresRepository) Similar(ctx context.Context, features model.FeatureVector, limit int) ([]model.HistoryEntry, error) {
	query := `
		SELECT id, request_id, features, estimated_price, error_message,
			feature_vector <-> $1 AS distance, created_at
		FROM prediction_history
		WHERE estimated_price IS NOT NULL
		ORDER BY feature_vector <-> $1
		LIMIT $2
	`
	var rows []historyRow
	if err := r.db.SelectContext(ctx, &rows, query, pgvector.NewVector(features.Encode()), limit); err != nil {
		return nil, fmt.Errorf("failed to fetch similar predictions: %w", err)
	}
	return toEntries(rows)
}
