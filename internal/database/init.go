package database

import (
	"context"
	"fmt"

	"github.com/yourusername/keiba-ev/internal/config"
)

// schema holds the purchase history table. Records are opaque JSON payloads
// keyed by purchase ID.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS purchase_history (
		id           UUID PRIMARY KEY,
		payload      JSONB NOT NULL,
		purchased_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS purchase_history_purchased_at_idx ON purchase_history (purchased_at DESC)`,
}

// Initialize creates a database connection pool and ensures the history schema exists
func Initialize(ctx context.Context, cfg *config.Config) (*DB, error) {
	db, err := NewDB(ctx, &cfg.Database)
	if err != nil {
		return nil, err
	}

	if err := EnsureSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// EnsureSchema creates the purchase history table when missing
func EnsureSchema(ctx context.Context, db *DB) error {
	for _, stmt := range schema {
		if _, err := db.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create purchase history schema: %w", err)
		}
	}
	return nil
}
