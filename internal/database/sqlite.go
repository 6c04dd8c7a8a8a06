package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS purchase_history (
		id           TEXT PRIMARY KEY,
		payload      TEXT NOT NULL,
		purchased_at INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS purchase_history_purchased_at_idx ON purchase_history (purchased_at DESC)`,
}

// SQLiteDB wraps a local SQLite database file holding the purchase history
type SQLiteDB struct {
	conn *sql.DB
	path string
}

// NewSQLite opens (creating if needed) the SQLite file at dbPath and ensures the history schema
func NewSQLite(ctx context.Context, dbPath string) (*SQLiteDB, error) {
	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	conn, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One writer at a time keeps SQLite away from SQLITE_BUSY
	conn.SetMaxOpenConns(1)

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	for _, stmt := range sqliteSchema {
		if _, err := conn.ExecContext(ctx, stmt); err != nil {
			conn.Close()
			return nil, fmt.Errorf("failed to create purchase history schema: %w", err)
		}
	}

	return &SQLiteDB{conn: conn, path: dbPath}, nil
}

// Conn returns the underlying sql.DB connection
func (db *SQLiteDB) Conn() *sql.DB {
	return db.conn
}

// Path returns the database file location
func (db *SQLiteDB) Path() string {
	return db.path
}

// Close closes the database connection
func (db *SQLiteDB) Close() {
	if db.conn != nil {
		_ = db.conn.Close()
	}
}
