package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/keiba-ev/internal/betting"
	"github.com/yourusername/keiba-ev/internal/database"
	"github.com/yourusername/keiba-ev/internal/models"
)

func newRecord(raceName string, amount int, purchasedAt time.Time) *models.PurchaseRecord {
	sel := betting.Selection{
		BetType: betting.BetTypeQuinella,
		Method:  betting.MethodBox,
		Columns: [][]int{{1, 2, 3}},
	}
	ticket := models.NewTicket(sel, betting.GenerateCombinations(sel), amount)
	record := models.NewPurchaseRecord(raceName, []models.Ticket{*ticket})
	record.PurchasedAt = purchasedAt
	return record
}

func exercisePurchaseHistory(t *testing.T, repo PurchaseHistoryRepository) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	base := time.Date(2026, 5, 31, 10, 0, 0, 0, time.UTC)
	older := newRecord("Tokyo 10R", 100, base)
	newer := newRecord("Tokyo 11R", 200, base.Add(time.Hour))

	require.NoError(t, repo.Save(ctx, older))
	require.NoError(t, repo.Save(ctx, newer))
	assert.ErrorIs(t, repo.Save(ctx, older), models.ErrDuplicateKey)

	got, err := repo.GetByID(ctx, older.ID)
	require.NoError(t, err)
	assert.Equal(t, "Tokyo 10R", got.RaceName)
	assert.Equal(t, 300, got.TotalAmount)
	require.Len(t, got.Tickets, 1)
	assert.Equal(t, []betting.Combination{{1, 2}, {1, 3}, {2, 3}}, got.Tickets[0].Combinations)

	list, err := repo.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, newer.ID, list[0].ID)

	limited, err := repo.List(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	settled, err := repo.SetPayout(ctx, newer.ID, 1500)
	require.NoError(t, err)
	assert.True(t, settled.IsSettled())
	assert.Equal(t, 900, settled.ProfitLoss())

	_, err = repo.SetPayout(ctx, newer.ID, 1500)
	assert.ErrorIs(t, err, models.ErrAlreadySettled)

	_, err = repo.SetPayout(ctx, uuid.New(), 100)
	assert.ErrorIs(t, err, models.ErrNotFound)

	require.NoError(t, repo.Delete(ctx, older.ID))
	assert.ErrorIs(t, repo.Delete(ctx, older.ID), models.ErrNotFound)

	_, err = repo.GetByID(ctx, older.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

// TestMemoryPurchaseHistoryRepository tests the in-memory history store
func TestMemoryPurchaseHistoryRepository(t *testing.T) {
	exercisePurchaseHistory(t, NewMemoryRepositories().PurchaseHistory)
}

// TestMemoryPurchaseHistoryIsolation tests stored records are not aliased
func TestMemoryPurchaseHistoryIsolation(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryPurchaseHistoryRepository()

	record := newRecord("Kyoto 9R", 100, time.Now().UTC())
	require.NoError(t, repo.Save(ctx, record))
	record.RaceName = "changed"

	got, err := repo.GetByID(ctx, record.ID)
	require.NoError(t, err)
	assert.Equal(t, "Kyoto 9R", got.RaceName)
}

// TestPostgresPurchaseHistoryRepository tests the PostgreSQL history store
func TestPostgresPurchaseHistoryRepository(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := database.SetupTestDB(t)
	defer database.TeardownTestDB(t, db)

	repos, err := NewRepositories(db)
	require.NoError(t, err)

	exercisePurchaseHistory(t, repos.PurchaseHistory)
}

// TestSQLitePurchaseHistoryRepository tests the file-backed history store
func TestSQLitePurchaseHistoryRepository(t *testing.T) {
	db, err := database.NewSQLite(context.Background(), filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	defer db.Close()

	repos, err := NewSQLiteRepositories(db)
	require.NoError(t, err)

	exercisePurchaseHistory(t, repos.PurchaseHistory)
}

// TestSQLitePurchaseHistoryPersists tests records survive reopening the file
func TestSQLitePurchaseHistoryPersists(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "history.db")

	db, err := database.NewSQLite(ctx, path)
	require.NoError(t, err)
	record := newRecord("Nakayama 11R", 100, time.Now().UTC())
	require.NoError(t, NewSQLitePurchaseHistoryRepository(db).Save(ctx, record))
	db.Close()

	db, err = database.NewSQLite(ctx, path)
	require.NoError(t, err)
	defer db.Close()

	got, err := NewSQLitePurchaseHistoryRepository(db).GetByID(ctx, record.ID)
	require.NoError(t, err)
	assert.Equal(t, "Nakayama 11R", got.RaceName)
	assert.Equal(t, record.TotalAmount, got.TotalAmount)
}

// TestNewRepositoriesRequiresDB tests a nil database is rejected
func TestNewRepositoriesRequiresDB(t *testing.T) {
	_, err := NewRepositories(nil)
	assert.Error(t, err)

	_, err = NewSQLiteRepositories(nil)
	assert.Error(t, err)
}

// TestSummarizeHistory tests spend, payout and rates
func TestSummarizeHistory(t *testing.T) {
	now := time.Now().UTC()
	hit := newRecord("Hanshin 11R", 100, now)
	require.NoError(t, hit.Settle(450, now))
	miss := newRecord("Hanshin 12R", 100, now)
	require.NoError(t, miss.Settle(0, now))
	open := newRecord("Tokyo 12R", 200, now)

	summary := SummarizeHistory([]*models.PurchaseRecord{hit, miss, open})

	assert.Equal(t, 3, summary.Purchases)
	assert.Equal(t, 2, summary.Settled)
	assert.Equal(t, 3, summary.Tickets)
	assert.Equal(t, 9, summary.Combinations)
	assert.Equal(t, 1200, summary.TotalSpent)
	assert.Equal(t, 600, summary.SettledSpent)
	assert.Equal(t, 450, summary.TotalPayout)
	assert.Equal(t, -150, summary.ProfitLoss)
	assert.True(t, summary.ReturnRate.Equal(decimal.NewFromInt(75)), "return rate %s", summary.ReturnRate)
	assert.True(t, summary.HitRate.Equal(decimal.NewFromInt(50)), "hit rate %s", summary.HitRate)
}

// TestSummarizeHistoryEmpty tests empty input yields zero rates
func TestSummarizeHistoryEmpty(t *testing.T) {
	summary := SummarizeHistory(nil)

	assert.Equal(t, 0, summary.Purchases)
	assert.True(t, summary.ReturnRate.IsZero())
	assert.True(t, summary.HitRate.IsZero())
}

// TestSummarizeHistoryRounding tests rates round to one decimal place
func TestSummarizeHistoryRounding(t *testing.T) {
	now := time.Now().UTC()
	record := newRecord("Nakayama 1R", 100, now)
	require.NoError(t, record.Settle(1000, now))

	summary := SummarizeHistory([]*models.PurchaseRecord{record})

	assert.Equal(t, "333.3", summary.ReturnRate.String())
}
