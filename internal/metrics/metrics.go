// Package metrics provides centralized Prometheus metrics registry for the ticket engine.
package metrics

import (
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	EngineRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "keiba_ev",
		Name:      "engine_requests_total",
		Help:      "Total number of combination engine calls",
	}, []string{"operation", "bet_type", "method"})
	CombinationsGeneratedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "keiba_ev",
		Name:      "combinations_generated_total",
		Help:      "Total number of combinations enumerated",
	})
	ValidationFailuresTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "keiba_ev",
		Name:      "validation_failures_total",
		Help:      "Total number of selection validation failures by reason",
	}, []string{"reason"})
	TicketsAddedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "keiba_ev",
		Name:      "tickets_added_total",
		Help:      "Total number of tickets added to the slip",
	}, []string{"type"})
	PurchasesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "keiba_ev",
		Name:      "purchases_total",
		Help:      "Total number of finalized purchases",
	})
	PurchasedAmountTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "keiba_ev",
		Name:      "purchased_amount_total",
		Help:      "Total stake of finalized purchases in yen",
	})
	CacheLookupsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "keiba_ev",
		Name:      "cache_lookups_total",
		Help:      "Combination cache lookups by result",
	}, []string{"result"})
)

// Gauge metrics
var (
	SlipTickets = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "keiba_ev",
		Name:      "slip_tickets",
		Help:      "Number of tickets currently on the slip",
	})
	SlipTotalAmount = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "keiba_ev",
		Name:      "slip_total_amount",
		Help:      "Total stake currently on the slip in yen",
	})
	CacheHitRatio = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "keiba_ev",
		Name:      "cache_hit_ratio",
		Help:      "Hit ratio of the combination cache",
	})
)

// Histogram metrics
var (
	CombinationsPerTicket = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "keiba_ev",
		Name:      "combinations_per_ticket",
		Help:      "Number of combinations covered by each added ticket",
		Buckets:   []float64{1, 2, 5, 10, 20, 50, 100, 300, 1000, 5000},
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		// Register counter metrics
		registry.MustRegister(EngineRequestsTotal)
		registry.MustRegister(CombinationsGeneratedTotal)
		registry.MustRegister(ValidationFailuresTotal)
		registry.MustRegister(TicketsAddedTotal)
		registry.MustRegister(PurchasesTotal)
		registry.MustRegister(PurchasedAmountTotal)
		registry.MustRegister(CacheLookupsTotal)

		// Register gauge metrics
		registry.MustRegister(SlipTickets)
		registry.MustRegister(SlipTotalAmount)
		registry.MustRegister(CacheHitRatio)

		// Register histogram metrics
		registry.MustRegister(CombinationsPerTicket)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// WriteTextfile writes the registry in the Prometheus text format for the
// node exporter textfile collector. The file is replaced atomically.
func WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, GetRegistry()); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}

// RecordEngineRequest records a count or generate call.
func RecordEngineRequest(operation, betType, method string) {
	EngineRequestsTotal.WithLabelValues(operation, betType, method).Inc()
}

// RecordCombinationsGenerated adds n enumerated combinations.
func RecordCombinationsGenerated(n int) {
	CombinationsGeneratedTotal.Add(float64(n))
}

// RecordValidationFailure records one failed validation reason.
func RecordValidationFailure(reason string) {
	ValidationFailuresTotal.WithLabelValues(reason).Inc()
}

// RecordTicketAdded records a ticket added to the slip.
func RecordTicketAdded(ticketType string, combinations int) {
	TicketsAddedTotal.WithLabelValues(ticketType).Inc()
	CombinationsPerTicket.Observe(float64(combinations))
}

// RecordPurchase records a finalized purchase.
func RecordPurchase(totalAmount int) {
	PurchasesTotal.Inc()
	PurchasedAmountTotal.Add(float64(totalAmount))
}

// RecordCacheLookup records a cache hit or miss.
func RecordCacheLookup(hit bool) {
	if hit {
		CacheLookupsTotal.WithLabelValues("hit").Inc()
		return
	}
	CacheLookupsTotal.WithLabelValues("miss").Inc()
}

// UpdateCacheHitRatio updates the cache hit ratio gauge.
func UpdateCacheHitRatio(ratio float64) {
	CacheHitRatio.Set(ratio)
}

// UpdateSlip updates the slip gauges.
func UpdateSlip(tickets int, totalAmount int) {
	SlipTickets.Set(float64(tickets))
	SlipTotalAmount.Set(float64(totalAmount))
}
