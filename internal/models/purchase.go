package models

import (
	"time"

	"github.com/google/uuid"
)

// PurchaseRecord is a finalized slip kept in the purchase history
type PurchaseRecord struct {
	ID          uuid.UUID  `json:"id"`
	RaceName    string     `json:"race_name"`
	Tickets     []Ticket   `json:"tickets"`
	TotalAmount int        `json:"total_amount"`
	PurchasedAt time.Time  `json:"purchased_at"`
	Payout      *int       `json:"payout,omitempty"`
	SettledAt   *time.Time `json:"settled_at,omitempty"`
}

// NewPurchaseRecord snapshots tickets into a new record
func NewPurchaseRecord(raceName string, tickets []Ticket) *PurchaseRecord {
	total := 0
	for _, t := range tickets {
		total += t.TotalAmount
	}
	return &PurchaseRecord{
		ID:          uuid.New(),
		RaceName:    raceName,
		Tickets:     tickets,
		TotalAmount: total,
		PurchasedAt: time.Now().UTC(),
	}
}

// IsSettled checks if the race result has been recorded
func (p *PurchaseRecord) IsSettled() bool {
	return p.Payout != nil && p.SettledAt != nil
}

// Settle records the payout for the purchase
func (p *PurchaseRecord) Settle(payout int, at time.Time) error {
	if p.IsSettled() {
		return ErrAlreadySettled
	}
	if payout < 0 {
		return ErrNegativePayout
	}
	p.Payout = &payout
	p.SettledAt = &at
	return nil
}

// ProfitLoss returns payout minus stake, or 0 while unsettled
func (p *PurchaseRecord) ProfitLoss() int {
	if !p.IsSettled() {
		return 0
	}
	return *p.Payout - p.TotalAmount
}
