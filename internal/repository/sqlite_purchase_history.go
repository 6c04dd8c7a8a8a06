package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/yourusername/keiba-ev/internal/database"
	"github.com/yourusername/keiba-ev/internal/models"
)

// SQLitePurchaseHistoryRepository implements PurchaseHistoryRepository on a local SQLite file
type SQLitePurchaseHistoryRepository struct {
	db *database.SQLiteDB
}

// NewSQLitePurchaseHistoryRepository creates a new file-backed purchase history repository
func NewSQLitePurchaseHistoryRepository(db *database.SQLiteDB) PurchaseHistoryRepository {
	return &SQLitePurchaseHistoryRepository{db: db}
}

// Save inserts a new record
func (r *SQLitePurchaseHistoryRepository) Save(ctx context.Context, record *models.PurchaseRecord) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode purchase record: %w", err)
	}

	query := `
		INSERT INTO purchase_history (id, payload, purchased_at)
		VALUES (?, ?, ?)
		ON CONFLICT (id) DO NOTHING
	`

	result, err := r.db.Conn().ExecContext(ctx, query, record.ID.String(), string(payload), record.PurchasedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("failed to save purchase record: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to save purchase record: %w", err)
	}
	if affected == 0 {
		return models.ErrDuplicateKey
	}

	return nil
}

// GetByID retrieves a record by ID
func (r *SQLitePurchaseHistoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.PurchaseRecord, error) {
	var payload string
	err := r.db.Conn().QueryRowContext(ctx, `SELECT payload FROM purchase_history WHERE id = ?`, id.String()).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get purchase record: %w", err)
	}

	return decodeRecord([]byte(payload))
}

// List returns up to limit records, newest first. A non-positive limit returns all records.
func (r *SQLitePurchaseHistoryRepository) List(ctx context.Context, limit int) ([]*models.PurchaseRecord, error) {
	query := `
		SELECT payload FROM purchase_history
		ORDER BY purchased_at DESC, id ASC
		LIMIT ?
	`

	// SQLite treats a negative LIMIT as unbounded
	if limit <= 0 {
		limit = -1
	}

	rows, err := r.db.Conn().QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query purchase history: %w", err)
	}
	defer rows.Close()

	records := make([]*models.PurchaseRecord, 0)
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("failed to scan purchase record: %w", err)
		}
		record, err := decodeRecord([]byte(payload))
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return records, rows.Err()
}

// SetPayout settles a record with the race payout
func (r *SQLitePurchaseHistoryRepository) SetPayout(ctx context.Context, id uuid.UUID, payout int) (*models.PurchaseRecord, error) {
	tx, err := r.db.Conn().BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var payload string
	err = tx.QueryRowContext(ctx, `SELECT payload FROM purchase_history WHERE id = ?`, id.String()).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read purchase record: %w", err)
	}

	record, err := decodeRecord([]byte(payload))
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
	if _, err := tx.ExecContext(ctx, `UPDATE purchase_history SET payload = ? WHERE id = ?`, string(updated), id.String()); err != nil {
		return nil, fmt.Errorf("failed to update purchase record: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return record, nil
}

// Delete removes a record
func (r *SQLitePurchaseHistoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Conn().ExecContext(ctx, `DELETE FROM purchase_history WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("failed to delete purchase record: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete purchase record: %w", err)
	}
	if affected == 0 {
		return models.ErrNotFound
	}
	return nil
}
