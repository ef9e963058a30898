package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/bedrijfslens/kvk-intel-api/internal/models"
)

// historyRepository implements HistoryRepository
type historyRepository struct {
	db dbExecutor
}

// NewHistoryRepository creates a new lookup-history repository
func NewHistoryRepository(db dbExecutor) HistoryRepository {
	return &historyRepository{db: db}
}

// Record persists one engine invocation
func (r *historyRepository) Record(ctx context.Context, entry models.LookupRecord) error {
	query := `
		INSERT INTO lookup_history (id, request_id, query, query_type, kvk_nummer, success, duration_ms, bronnen, error_count, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	var kvkNummer interface{}
	if entry.KvkNummer != "" {
		kvkNummer = entry.KvkNummer
	}

	_, err := r.db.ExecContext(ctx, query,
		uuid.New(), entry.RequestID, entry.Query, entry.Type, kvkNummer,
		entry.Success, entry.DurationMs, pq.Array(entry.Bronnen),
		entry.ErrorCount, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record lookup: %w", err)
	}
	return nil
}

// Recent returns the most recent lookups, newest first
func (r *historyRepository) Recent(ctx context.Context, limit int) ([]models.LookupRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT request_id, query, query_type, COALESCE(kvk_nummer, ''), success, duration_ms, bronnen, error_count, created_at
		FROM lookup_history
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query lookup history: %w", err)
	}
	defer rows.Close()

	entries := make([]models.LookupRecord, 0)
	for rows.Next() {
		var entry models.LookupRecord
		err := rows.Scan(
			&entry.RequestID, &entry.Query, &entry.Type, &entry.KvkNummer,
			&entry.Success, &entry.DurationMs, pq.Array(&entry.Bronnen),
			&entry.ErrorCount, &entry.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan lookup: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate lookup history: %w", err)
	}

	return entries, nil
}

// CountSince counts lookups recorded on or after the given timestamp
func (r *historyRepository) CountSince(ctx context.Context, since time.Time) (int, error) {
	query := `SELECT COUNT(*) FROM lookup_history WHERE created_at >= $1`

	var count int
	if err := r.db.QueryRowContext(ctx, query, since).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count lookups: %w", err)
	}
	return count, nil
}
