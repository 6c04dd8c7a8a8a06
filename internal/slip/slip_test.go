package slip

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/keiba-ev/internal/betting"
	"github.com/yourusername/keiba-ev/internal/models"
	"github.com/yourusername/keiba-ev/internal/repository"
)

// MockPurchaseHistoryRepository is a mock implementation of PurchaseHistoryRepository
type MockPurchaseHistoryRepository struct {
	mock.Mock
}

func (m *MockPurchaseHistoryRepository) Save(ctx context.Context, record *models.PurchaseRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockPurchaseHistoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.PurchaseRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PurchaseRecord), args.Error(1)
}

func (m *MockPurchaseHistoryRepository) List(ctx context.Context, limit int) ([]*models.PurchaseRecord, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.PurchaseRecord), args.Error(1)
}

func (m *MockPurchaseHistoryRepository) SetPayout(ctx context.Context, id uuid.UUID, payout int) (*models.PurchaseRecord, error) {
	args := m.Called(ctx, id, payout)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PurchaseRecord), args.Error(1)
}

func (m *MockPurchaseHistoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func createTestLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newTestSlip(history repository.PurchaseHistoryRepository) *Slip {
	return NewSlip(betting.NewEngine(), history, betting.DefaultStakeRules(), 18, createTestLogger())
}

func trioBox(horses ...int) betting.Selection {
	return betting.Selection{
		BetType: betting.BetTypeTrio,
		Method:  betting.MethodBox,
		Columns: [][]int{horses},
	}
}

func TestAddTicket(t *testing.T) {
	s := newTestSlip(repository.NewMemoryRepositories().PurchaseHistory)

	ticket, err := s.Add(trioBox(1, 2, 3, 4), 200)
	require.NoError(t, err)

	assert.Equal(t, "trio_box", ticket.Type)
	assert.Equal(t, 4, ticket.Points())
	assert.Equal(t, 800, ticket.TotalAmount)
	assert.Equal(t, Summary{Tickets: 1, Combinations: 4, TotalAmount: 800}, s.Summary())
}

func TestAddRejectsInvalidSelection(t *testing.T) {
	s := newTestSlip(repository.NewMemoryRepositories().PurchaseHistory)

	_, err := s.Add(trioBox(1, 2), 150)
	require.Error(t, err)

	var verr *betting.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.True(t, verr.Has(betting.ErrInvalidAmount))
	assert.True(t, verr.Has(betting.ErrNoCombinations))
	assert.Empty(t, s.Tickets())
}

func TestAddRejectsHorseOutsideField(t *testing.T) {
	s := newTestSlip(repository.NewMemoryRepositories().PurchaseHistory)

	_, err := s.Add(trioBox(1, 2, 19), 100)
	assert.ErrorIs(t, err, ErrHorseOutOfRange)

	axis := 20
	_, err = s.Add(betting.Selection{
		BetType:     betting.BetTypeQuinella,
		Method:      betting.MethodNagashi,
		NagashiType: betting.NagashiMulti1,
		Columns:     [][]int{{}, {1, 2}},
		Axis:        &axis,
	}, 100)
	assert.ErrorIs(t, err, ErrHorseOutOfRange)
	assert.Equal(t, 0, s.Summary().Tickets)
}

func TestFieldSizeCheckDisabled(t *testing.T) {
	s := NewSlip(betting.NewEngine(), repository.NewMemoryRepositories().PurchaseHistory,
		betting.DefaultStakeRules(), 0, createTestLogger())

	_, err := s.Add(trioBox(1, 2, 30), 100)
	assert.NoError(t, err)
}

func TestSummaryTotals(t *testing.T) {
	s := newTestSlip(repository.NewMemoryRepositories().PurchaseHistory)

	_, err := s.Add(trioBox(1, 2, 3), 100)
	require.NoError(t, err)
	_, err = s.Add(betting.Selection{
		BetType: betting.BetTypeExacta,
		Method:  betting.MethodBox,
		Columns: [][]int{{4, 5, 6}},
	}, 300)
	require.NoError(t, err)

	summary := s.Summary()
	assert.Equal(t, 2, summary.Tickets)
	assert.Equal(t, 7, summary.Combinations)
	assert.Equal(t, 100+6*300, summary.TotalAmount)

	total := 0
	for _, ticket := range s.Tickets() {
		total += ticket.Amount * ticket.Points()
	}
	assert.Equal(t, summary.TotalAmount, total)
}

func TestRemoveTicket(t *testing.T) {
	s := newTestSlip(repository.NewMemoryRepositories().PurchaseHistory)

	first, err := s.Add(trioBox(1, 2, 3), 100)
	require.NoError(t, err)
	second, err := s.Add(trioBox(4, 5, 6), 100)
	require.NoError(t, err)

	require.NoError(t, s.Remove(first.ID))
	tickets := s.Tickets()
	require.Len(t, tickets, 1)
	assert.Equal(t, second.ID, tickets[0].ID)

	assert.ErrorIs(t, s.Remove(first.ID), models.ErrNotFound)
}

func TestClear(t *testing.T) {
	s := newTestSlip(repository.NewMemoryRepositories().PurchaseHistory)

	_, err := s.Add(trioBox(1, 2, 3), 100)
	require.NoError(t, err)

	s.Clear()
	assert.Equal(t, Summary{}, s.Summary())
}

func TestPurchaseEmptySlip(t *testing.T) {
	history := new(MockPurchaseHistoryRepository)
	s := newTestSlip(history)

	_, err := s.Purchase(context.Background(), "Tokyo 11R")
	assert.ErrorIs(t, err, models.ErrEmptySlip)
	history.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestPurchaseSavesAndClears(t *testing.T) {
	ctx := context.Background()
	history := new(MockPurchaseHistoryRepository)
	s := newTestSlip(history)

	_, err := s.Add(trioBox(1, 2, 3, 4), 100)
	require.NoError(t, err)

	history.On("Save", ctx, mock.MatchedBy(func(r *models.PurchaseRecord) bool {
		return r.RaceName == "Tokyo 11R" && r.TotalAmount == 400 && len(r.Tickets) == 1
	})).Return(nil)

	record, err := s.Purchase(ctx, "Tokyo 11R")
	require.NoError(t, err)

	assert.Equal(t, 400, record.TotalAmount)
	assert.Empty(t, s.Tickets())
	history.AssertExpectations(t)
}

func TestPurchaseKeepsSlipWhenSaveFails(t *testing.T) {
	ctx := context.Background()
	history := new(MockPurchaseHistoryRepository)
	s := newTestSlip(history)

	_, err := s.Add(trioBox(1, 2, 3), 100)
	require.NoError(t, err)

	history.On("Save", ctx, mock.Anything).Return(assert.AnError)

	_, err = s.Purchase(ctx, "Kyoto 9R")
	assert.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, 1, s.Summary().Tickets)
	history.AssertExpectations(t)
}

func TestPurchaseDoesNotBlockSlipDuringSave(t *testing.T) {
	ctx := context.Background()
	history := new(MockPurchaseHistoryRepository)
	s := newTestSlip(history)

	first, err := s.Add(trioBox(1, 2, 3), 100)
	require.NoError(t, err)

	saving := make(chan struct{})
	release := make(chan struct{})
	history.On("Save", ctx, mock.Anything).Run(func(mock.Arguments) {
		close(saving)
		<-release
	}).Return(nil).Once()

	type result struct {
		record *models.PurchaseRecord
		err    error
	}
	done := make(chan result, 1)
	go func() {
		record, err := s.Purchase(ctx, "Tokyo 11R")
		done <- result{record, err}
	}()

	select {
	case <-saving:
	case <-time.After(2 * time.Second):
		t.Fatal("save was not called")
	}

	added := make(chan *models.Ticket, 1)
	go func() {
		ticket, err := s.Add(trioBox(4, 5, 6), 100)
		assert.NoError(t, err)
		added <- ticket
	}()

	var second *models.Ticket
	select {
	case second = <-added:
	case <-time.After(2 * time.Second):
		t.Fatal("add blocked while the purchase was saving")
	}

	_, err = s.Purchase(ctx, "Tokyo 11R")
	assert.ErrorIs(t, err, ErrPurchaseInProgress)

	close(release)
	res := <-done
	require.NoError(t, res.err)
	require.Len(t, res.record.Tickets, 1)
	assert.Equal(t, first.ID, res.record.Tickets[0].ID)

	remaining := s.Tickets()
	require.Len(t, remaining, 1)
	assert.Equal(t, second.ID, remaining[0].ID)
	history.AssertExpectations(t)
}

func TestPurchaseRecordedInHistory(t *testing.T) {
	ctx := context.Background()
	history := repository.NewMemoryRepositories().PurchaseHistory
	s := newTestSlip(history)

	_, err := s.Add(trioBox(1, 2, 3), 100)
	require.NoError(t, err)

	record, err := s.Purchase(ctx, "Hanshin 11R")
	require.NoError(t, err)

	stored, err := history.GetByID(ctx, record.ID)
	require.NoError(t, err)
	assert.Equal(t, record.TotalAmount, stored.TotalAmount)
}

func TestSlipWithCachedEngine(t *testing.T) {
	cached := betting.NewCachedEngine(time.Hour, 10)
	s := NewSlip(cached, repository.NewMemoryRepositories().PurchaseHistory,
		betting.DefaultStakeRules(), 18, createTestLogger())

	for i := 0; i < 2; i++ {
		_, err := s.Add(trioBox(1, 2, 3, 4, 5), 100)
		require.NoError(t, err)
	}

	assert.Equal(t, 20, s.Summary().Combinations)
	hits, _, _ := cached.Stats()
	assert.Equal(t, uint64(1), hits)
}
