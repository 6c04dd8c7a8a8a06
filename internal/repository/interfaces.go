package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/yourusername/keiba-ev/internal/models"
)

// PurchaseHistoryRepository stores finalized purchases as opaque records keyed by ID
type PurchaseHistoryRepository interface {
	Save(ctx context.Context, record *models.PurchaseRecord) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.PurchaseRecord, error)
	List(ctx context.Context, limit int) ([]*models.PurchaseRecord, error)
	SetPayout(ctx context.Context, id uuid.UUID, payout int) (*models.PurchaseRecord, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
