package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/yourusername/keiba-ev/internal/models"
)

// MemoryPurchaseHistoryRepository keeps encoded records in a map. Records are
// stored as JSON so callers never share memory with the store.
type MemoryPurchaseHistoryRepository struct {
	mu      sync.RWMutex
	records map[uuid.UUID][]byte
}

// NewMemoryPurchaseHistoryRepository creates an empty in-memory history
func NewMemoryPurchaseHistoryRepository() PurchaseHistoryRepository {
	return &MemoryPurchaseHistoryRepository{records: make(map[uuid.UUID][]byte)}
}

// Save inserts a new record
func (r *MemoryPurchaseHistoryRepository) Save(ctx context.Context, record *models.PurchaseRecord) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode purchase record: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.records[record.ID]; exists {
		return models.ErrDuplicateKey
	}
	r.records[record.ID] = payload
	return nil
}

// GetByID retrieves a record by ID
func (r *MemoryPurchaseHistoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.PurchaseRecord, error) {
	r.mu.RLock()
	payload, ok := r.records[id]
	r.mu.RUnlock()

	if !ok {
		return nil, models.ErrNotFound
	}
	return decodeRecord(payload)
}

// List returns up to limit records, newest first. A non-positive limit returns all records.
func (r *MemoryPurchaseHistoryRepository) List(ctx context.Context, limit int) ([]*models.PurchaseRecord, error) {
	r.mu.RLock()
	records := make([]*models.PurchaseRecord, 0, len(r.records))
	for _, payload := range r.records {
		record, err := decodeRecord(payload)
		if err != nil {
			r.mu.RUnlock()
			return nil, err
		}
		records = append(records, record)
	}
	r.mu.RUnlock()

	sort.Slice(records, func(i, j int) bool {
		if records[i].PurchasedAt.Equal(records[j].PurchasedAt) {
			return records[i].ID.String() < records[j].ID.String()
		}
		return records[i].PurchasedAt.After(records[j].PurchasedAt)
	})
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

// SetPayout settles a record with the race payout
func (r *MemoryPurchaseHistoryRepository) SetPayout(ctx context.Context, id uuid.UUID, payout int) (*models.PurchaseRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	payload, ok := r.records[id]
	if !ok {
		return nil, models.ErrNotFound
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
	r.records[id] = updated
	return record, nil
}

// Delete removes a record
func (r *MemoryPurchaseHistoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.records[id]; !ok {
		return models.ErrNotFound
	}
	delete(r.records, id)
	return nil
}

func decodeRecord(payload []byte) (*models.PurchaseRecord, error) {
	record := &models.PurchaseRecord{}
	if err := json.Unmarshal(payload, record); err != nil {
		return nil, fmt.Errorf("failed to decode purchase record: %w", err)
	}
	return record, nil
}
