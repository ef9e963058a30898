package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// consumerRepository implements ConsumerRepository
type consumerRepository struct {
	db dbExecutor
}

// NewConsumerRepository creates a new API-consumer repository
func NewConsumerRepository(db dbExecutor) ConsumerRepository {
	return &consumerRepository{db: db}
}

// GetByID retrieves a consumer by ID
func (r *consumerRepository) GetByID(ctx context.Context, id uuid.UUID) (*Consumer, error) {
	query := `
		SELECT id, naam, email, key_hash, role, active, created_at, updated_at
		FROM api_consumers WHERE id = $1
	`

	consumer := &Consumer{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&consumer.ID, &consumer.Naam, &consumer.Email, &consumer.KeyHash,
		&consumer.Role, &consumer.Active, &consumer.CreatedAt, &consumer.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("consumer not found")
		}
		return nil, fmt.Errorf("failed to get consumer: %w", err)
	}

	return consumer, nil
}

// GetByEmail retrieves a consumer by email
func (r *consumerRepository) GetByEmail(ctx context.Context, email string) (*Consumer, error) {
	query := `
		SELECT id, naam, email, key_hash, role, active, created_at, updated_at
		FROM api_consumers WHERE email = $1
	`

	consumer := &Consumer{}
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&consumer.ID, &consumer.Naam, &consumer.Email, &consumer.KeyHash,
		&consumer.Role, &consumer.Active, &consumer.CreatedAt, &consumer.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("consumer with email %s not found", email)
		}
		return nil, fmt.Errorf("failed to get consumer: %w", err)
	}

	return consumer, nil
}

// Create creates a new consumer
func (r *consumerRepository) Create(ctx context.Context, consumer *Consumer) error {
	if consumer.ID == uuid.Nil {
		consumer.ID = uuid.New()
	}

	now := time.Now()
	consumer.CreatedAt = now
	consumer.UpdatedAt = now

	query := `
		INSERT INTO api_consumers (id, naam, email, key_hash, role, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.ExecContext(ctx, query,
		consumer.ID, consumer.Naam, consumer.Email, consumer.KeyHash,
		consumer.Role, consumer.Active, consumer.CreatedAt, consumer.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create consumer: %w", err)
	}
	return nil
}

// Update updates an existing consumer
func (r *consumerRepository) Update(ctx context.Context, consumer *Consumer) error {
	consumer.UpdatedAt = time.Now()

	query := `
		UPDATE api_consumers
		SET naam = $2, email = $3, key_hash = $4, role = $5, active = $6, updated_at = $7
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		consumer.ID, consumer.Naam, consumer.Email, consumer.KeyHash,
		consumer.Role, consumer.Active, consumer.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update consumer: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("consumer not found")
	}
	return nil
}

// Deactivate disables a consumer without deleting its history
func (r *consumerRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE api_consumers SET active = FALSE, updated_at = $2 WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, time.Now())
	if err != nil {
		return fmt.Errorf("failed to deactivate consumer: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deactivate result: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("consumer not found")
	}
	return nil
}
