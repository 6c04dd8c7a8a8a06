package repository

import (
	"github.com/shopspring/decimal"
	"github.com/yourusername/keiba-ev/internal/models"
)

// HistorySummary aggregates spending and returns over purchase records
type HistorySummary struct {
	Purchases    int             `json:"purchases"`
	Settled      int             `json:"settled"`
	Tickets      int             `json:"tickets"`
	Combinations int             `json:"combinations"`
	TotalSpent   int             `json:"total_spent"`
	SettledSpent int             `json:"settled_spent"`
	TotalPayout  int             `json:"total_payout"`
	ProfitLoss   int             `json:"profit_loss"`
	ReturnRate   decimal.Decimal `json:"return_rate"`
	HitRate      decimal.Decimal `json:"hit_rate"`
}

var hundred = decimal.NewFromInt(100)

// SummarizeHistory computes totals over records. ReturnRate is payout as a
// percentage of the stake of settled purchases, and HitRate the percentage
// of settled purchases that paid out; both are rounded to one decimal place.
func SummarizeHistory(records []*models.PurchaseRecord) HistorySummary {
	var s HistorySummary
	hits := 0

	for _, record := range records {
		s.Purchases++
		s.TotalSpent += record.TotalAmount
		s.Tickets += len(record.Tickets)
		for i := range record.Tickets {
			s.Combinations += record.Tickets[i].Points()
		}

		if !record.IsSettled() {
			continue
		}
		s.Settled++
		s.SettledSpent += record.TotalAmount
		s.TotalPayout += *record.Payout
		s.ProfitLoss += record.ProfitLoss()
		if *record.Payout > 0 {
			hits++
		}
	}

	s.ReturnRate = percentage(int64(s.TotalPayout), int64(s.SettledSpent))
	s.HitRate = percentage(int64(hits), int64(s.Settled))
	return s
}

func percentage(part, whole int64) decimal.Decimal {
	if whole == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(part).Mul(hundred).Div(decimal.NewFromInt(whole)).Round(1)
}
