// Package slip holds the tickets being assembled before purchase.
package slip

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/keiba-ev/internal/betting"
	"github.com/yourusername/keiba-ev/internal/logger"
	"github.com/yourusername/keiba-ev/internal/metrics"
	"github.com/yourusername/keiba-ev/internal/models"
	"github.com/yourusername/keiba-ev/internal/repository"
)

var (
	// ErrHorseOutOfRange is returned when a selection names a horse beyond the field size
	ErrHorseOutOfRange = errors.New("horse number exceeds field size")

	// ErrPurchaseInProgress is returned when Purchase is called while another purchase is saving
	ErrPurchaseInProgress = errors.New("purchase already in progress")
)

// Summary reports slip totals
type Summary struct {
	Tickets      int `json:"tickets"`
	Combinations int `json:"combinations"`
	TotalAmount  int `json:"total_amount"`
}

// Slip is an ordered list of validated tickets awaiting purchase
type Slip struct {
	engine     betting.Combinator
	history    repository.PurchaseHistoryRepository
	rules      betting.StakeRules
	maxHorses  int
	logger     *logger.TicketLogger
	mu         sync.RWMutex
	tickets    []*models.Ticket
	purchasing bool
}

// NewSlip creates an empty slip. A non-positive maxHorses disables the field size check.
func NewSlip(engine betting.Combinator, history repository.PurchaseHistoryRepository, rules betting.StakeRules, maxHorses int, log *logrus.Logger) *Slip {
	return &Slip{
		engine:    engine,
		history:   history,
		rules:     rules,
		maxHorses: maxHorses,
		logger:    logger.NewTicketLogger(log),
	}
}

// Add validates the selection and appends a ticket covering every combination it produces
func (s *Slip) Add(sel betting.Selection, amount int) (*models.Ticket, error) {
	if err := betting.ValidateSelection(sel, amount, s.rules); err != nil {
		s.reject(sel, err)
		return nil, err
	}
	if horse, ok := s.outOfRange(sel); ok {
		err := fmt.Errorf("%w: %d > %d", ErrHorseOutOfRange, horse, s.maxHorses)
		s.reject(sel, err)
		return nil, err
	}

	combos := s.engine.Generate(sel)
	if len(combos) == 0 {
		err := &betting.ValidationError{Reasons: []error{betting.ErrNoCombinations}}
		s.reject(sel, err)
		return nil, err
	}

	ticket := models.NewTicket(sel, combos, amount)

	s.mu.Lock()
	s.tickets = append(s.tickets, ticket)
	summary := s.summaryLocked()
	s.mu.Unlock()

	metrics.RecordTicketAdded(ticket.Type, ticket.Points())
	metrics.UpdateSlip(summary.Tickets, summary.TotalAmount)
	s.logger.LogTicketAdded(ticket.ID.String(), ticket.Type, ticket.Points(), amount, ticket.TotalAmount)

	return ticket, nil
}

// Remove deletes the ticket with the given ID
func (s *Slip) Remove(id uuid.UUID) error {
	s.mu.Lock()
	index := -1
	for i, t := range s.tickets {
		if t.ID == id {
			index = i
			break
		}
	}
	if index < 0 {
		s.mu.Unlock()
		return models.ErrNotFound
	}
	s.tickets = append(s.tickets[:index], s.tickets[index+1:]...)
	summary := s.summaryLocked()
	s.mu.Unlock()

	metrics.UpdateSlip(summary.Tickets, summary.TotalAmount)
	s.logger.LogTicketRemoved(id.String())
	return nil
}

// Clear discards every ticket
func (s *Slip) Clear() {
	s.mu.Lock()
	discarded := len(s.tickets)
	s.tickets = nil
	s.mu.Unlock()

	metrics.UpdateSlip(0, 0)
	s.logger.LogSlipCleared(discarded)
}

// Tickets returns the tickets in insertion order
func (s *Slip) Tickets() []models.Ticket {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.snapshotLocked()
}

// Summary returns ticket, combination and stake totals
func (s *Slip) Summary() Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.summaryLocked()
}

// Purchase stores the current tickets as a purchase record and removes them
// from the slip. The history save runs without holding the slip lock, so
// tickets added meanwhile stay on the slip. Nothing is removed when the
// record cannot be saved.
func (s *Slip) Purchase(ctx context.Context, raceName string) (*models.PurchaseRecord, error) {
	s.mu.Lock()
	if s.purchasing {
		s.mu.Unlock()
		return nil, ErrPurchaseInProgress
	}
	if len(s.tickets) == 0 {
		s.mu.Unlock()
		return nil, models.ErrEmptySlip
	}
	s.purchasing = true
	record := models.NewPurchaseRecord(raceName, s.snapshotLocked())
	s.mu.Unlock()

	err := s.history.Save(ctx, record)

	s.mu.Lock()
	s.purchasing = false
	if err != nil {
		s.mu.Unlock()
		return nil, fmt.Errorf("failed to save purchase: %w", err)
	}
	s.removePurchasedLocked(record.Tickets)
	summary := s.summaryLocked()
	s.mu.Unlock()

	metrics.RecordPurchase(record.TotalAmount)
	metrics.UpdateSlip(summary.Tickets, summary.TotalAmount)
	s.logger.LogPurchase(record.ID.String(), record.RaceName, len(record.Tickets), record.TotalAmount, record.PurchasedAt)

	return record, nil
}

// removePurchasedLocked drops the purchased tickets, keeping any added after the snapshot
func (s *Slip) removePurchasedLocked(purchased []models.Ticket) {
	bought := make(map[uuid.UUID]struct{}, len(purchased))
	for _, t := range purchased {
		bought[t.ID] = struct{}{}
	}

	remaining := s.tickets[:0]
	for _, t := range s.tickets {
		if _, ok := bought[t.ID]; !ok {
			remaining = append(remaining, t)
		}
	}
	if len(remaining) == 0 {
		remaining = nil
	}
	s.tickets = remaining
}

func (s *Slip) reject(sel betting.Selection, err error) {
	var reasons []string
	var verr *betting.ValidationError
	if errors.As(err, &verr) {
		for _, reason := range verr.Reasons {
			reasons = append(reasons, reason.Error())
			metrics.RecordValidationFailure(reason.Error())
		}
	} else {
		reasons = append(reasons, err.Error())
		metrics.RecordValidationFailure(ErrHorseOutOfRange.Error())
	}
	s.logger.LogTicketRejected(sel.TypeKey(), reasons)
}

// outOfRange returns the first horse above the field size
func (s *Slip) outOfRange(sel betting.Selection) (int, bool) {
	if s.maxHorses <= 0 {
		return 0, false
	}
	if axis, ok := sel.AxisHorse(); ok && axis > s.maxHorses {
		return axis, true
	}
	for i := range sel.Columns {
		for _, horse := range sel.Column(i) {
			if horse > s.maxHorses {
				return horse, true
			}
		}
	}
	return 0, false
}

func (s *Slip) snapshotLocked() []models.Ticket {
	out := make([]models.Ticket, len(s.tickets))
	for i, t := range s.tickets {
		out[i] = *t
	}
	return out
}

func (s *Slip) summaryLocked() Summary {
	summary := Summary{Tickets: len(s.tickets)}
	for _, t := range s.tickets {
		summary.Combinations += t.Points()
		summary.TotalAmount += t.TotalAmount
	}
	return summary
}
