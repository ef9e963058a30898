// Package repository implements data access for lookup history and API
// consumers on postgres.
package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/bedrijfslens/kvk-intel-api/internal/models"
)

// HistoryRepository defines the interface for lookup-history access
type HistoryRepository interface {
	Record(ctx context.Context, entry models.LookupRecord) error
	Recent(ctx context.Context, limit int) ([]models.LookupRecord, error)
	CountSince(ctx context.Context, since time.Time) (int, error)
}

// ConsumerRepository defines the interface for API-consumer access
type ConsumerRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Consumer, error)
	GetByEmail(ctx context.Context, email string) (*Consumer, error)
	Create(ctx context.Context, consumer *Consumer) error
	Update(ctx context.Context, consumer *Consumer) error
	Deactivate(ctx context.Context, id uuid.UUID) error
}

// dbExecutor is the subset of *sql.DB and *sql.Tx the repositories need
type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}
