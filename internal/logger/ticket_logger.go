// Package logger provides ticket-slip logging.
package logger

import (
	"time"

	"github.com/sirupsen/logrus"
)

// TicketLogger provides dedicated logging for ticket slip operations.
type TicketLogger struct {
	*logrus.Entry
}

// NewTicketLogger creates a new ticket logger.
func NewTicketLogger(baseLogger *logrus.Logger) *TicketLogger {
	return &TicketLogger{
		Entry: baseLogger.WithField("component", "slip"),
	}
}

// LogTicketAdded logs a ticket added to the slip.
func (tl *TicketLogger) LogTicketAdded(ticketID, ticketType string, combinations, amount, totalAmount int) {
	tl.WithFields(logrus.Fields{
		"ticket_id":    ticketID,
		"ticket_type":  ticketType,
		"combinations": combinations,
		"amount":       amount,
		"total_amount": totalAmount,
	}).Info("Ticket added")
}

// LogTicketRejected logs a selection that failed validation.
func (tl *TicketLogger) LogTicketRejected(ticketType string, reasons []string) {
	tl.WithFields(logrus.Fields{
		"ticket_type": ticketType,
		"reasons":     reasons,
	}).Warn("Ticket rejected")
}

// LogTicketRemoved logs a ticket removed from the slip.
func (tl *TicketLogger) LogTicketRemoved(ticketID string) {
	tl.WithField("ticket_id", ticketID).Info("Ticket removed")
}

// LogSlipCleared logs the slip being discarded.
func (tl *TicketLogger) LogSlipCleared(discarded int) {
	tl.WithField("discarded_tickets", discarded).Info("Slip cleared")
}

// LogPurchase logs a finalized purchase.
func (tl *TicketLogger) LogPurchase(purchaseID, raceName string, tickets, totalAmount int, purchasedAt time.Time) {
	tl.WithFields(logrus.Fields{
		"purchase_id":  purchaseID,
		"race_name":    raceName,
		"tickets":      tickets,
		"total_amount": totalAmount,
		"timestamp":    purchasedAt.Unix(),
	}).Info("Purchase recorded")
}
