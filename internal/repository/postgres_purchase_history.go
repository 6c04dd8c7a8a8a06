package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/yourusername/keiba-ev/internal/database"
	"github.com/yourusername/keiba-ev/internal/models"
)

const uniqueViolation = "23505"

// PostgresPurchaseHistoryRepository implements PurchaseHistoryRepository for PostgreSQL
type PostgresPurchaseHistoryRepository struct {
	db *database.DB
}

// NewPostgresPurchaseHistoryRepository creates a new purchase history repository
func NewPostgresPurchaseHistoryRepository(db *database.DB) PurchaseHistoryRepository {
	return &PostgresPurchaseHistoryRepository{db: db}
}

// Save inserts a new record
func (r *PostgresPurchaseHistoryRepository) Save(ctx context.Context, record *models.PurchaseRecord) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode purchase record: %w", err)
	}

	query := `
		INSERT INTO purchase_history (id, payload, purchased_at)
		VALUES ($1, $2, $3)
	`

	_, err = r.db.GetPool().Exec(ctx, query, record.ID, payload, record.PurchasedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return models.ErrDuplicateKey
		}
		return fmt.Errorf("failed to save purchase record: %w", err)
	}

	return nil
}

// GetByID retrieves a record by ID
func (r *PostgresPurchaseHistoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.PurchaseRecord, error) {
	query := `SELECT payload FROM purchase_history WHERE id = $1`

	var payload []byte
	err := r.db.GetPool().QueryRow(ctx, query, id).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get purchase record: %w", err)
	}

	return decodeRecord(payload)
}

// List returns up to limit records, newest first. A non-positive limit returns all records.
func (r *PostgresPurchaseHistoryRepository) List(ctx context.Context, limit int) ([]*models.PurchaseRecord, error) {
	query := `
		SELECT payload FROM purchase_history
		ORDER BY purchased_at DESC
		LIMIT $1
	`

	var queryLimit *int
	if limit > 0 {
		queryLimit = &limit
	}

	rows, err := r.db.GetPool().Query(ctx, query, queryLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to query purchase history: %w", err)
	}
	defer rows.Close()

	var records []*models.PurchaseRecord
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("failed to scan purchase record: %w", err)
		}
		record, err := decodeRecord(payload)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return records, rows.Err()
}

// SetPayout settles a record with the race payout
func (r *PostgresPurchaseHistoryRepository) SetPayout(ctx context.Context, id uuid.UUID, payout int) (*models.PurchaseRecord, error) {
	tx, err := r.db.GetPool().Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var payload []byte
	err = tx.QueryRow(ctx, `SELECT payload FROM purchase_history WHERE id = $1 FOR UPDATE`, id).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock purchase record: %w", err)
	}

	record, err := decodeRecord(payload)
	if err != nil {
		return nil, err
	}
	if err := record.Settle(payout, time.Now().UTC()); err != nil {
		return nil, err
	}

	updated, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("failed to encode purchase record: %w", err)
	}
	if _, err := tx.Exec(ctx, `UPDATE purchase_history SET payload = $2 WHERE id = $1`, id, updated); err != nil {
		return nil, fmt.Errorf("failed to update purchase record: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return record, nil
}

// Delete removes a record
func (r *PostgresPurchaseHistoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.GetPool().Exec(ctx, `DELETE FROM purchase_history WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete purchase record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}
