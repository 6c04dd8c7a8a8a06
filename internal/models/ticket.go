package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/yourusername/keiba-ev/internal/betting"
)

// Ticket is one validated line of a bet slip. It is immutable once created.
type Ticket struct {
	ID           uuid.UUID              `json:"id"`
	Type         string                 `json:"type"`
	BetType      betting.BetType        `json:"bet_type"`
	Method       betting.PurchaseMethod `json:"method"`
	NagashiType  betting.NagashiType    `json:"nagashi_type,omitempty"`
	Combinations []betting.Combination  `json:"combinations"`
	Amount       int                    `json:"amount"`
	TotalAmount  int                    `json:"total_amount"`
	CreatedAt    time.Time              `json:"created_at"`
}

// NewTicket builds a ticket covering combos at amount yen each
func NewTicket(sel betting.Selection, combos []betting.Combination, amount int) *Ticket {
	return &Ticket{
		ID:           uuid.New(),
		Type:         sel.TypeKey(),
		BetType:      sel.BetType,
		Method:       sel.Method,
		NagashiType:  sel.NagashiType,
		Combinations: combos,
		Amount:       amount,
		TotalAmount:  amount * len(combos),
		CreatedAt:    time.Now().UTC(),
	}
}

// Points returns the number of combinations the ticket covers
func (t *Ticket) Points() int {
	return len(t.Combinations)
}
