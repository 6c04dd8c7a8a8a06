// Package repository provides purchase history storage.
package repository

import (
	"fmt"

	"github.com/yourusername/keiba-ev/internal/database"
)

// Repositories holds all repository implementations
type Repositories struct {
	PurchaseHistory PurchaseHistoryRepository
}

// NewRepositories creates PostgreSQL-backed repositories
func NewRepositories(db *database.DB) (*Repositories, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	return &Repositories{
		PurchaseHistory: NewPostgresPurchaseHistoryRepository(db),
	}, nil
}

// NewSQLiteRepositories creates repositories backed by a local SQLite file
func NewSQLiteRepositories(db *database.SQLiteDB) (*Repositories, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	return &Repositories{
		PurchaseHistory: NewSQLitePurchaseHistoryRepository(db),
	}, nil
}

// NewMemoryRepositories creates process-local repositories
func NewMemoryRepositories() *Repositories {
	return &Repositories{
		PurchaseHistory: NewMemoryPurchaseHistoryRepository(),
	}
}
