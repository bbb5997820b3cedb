// Package metrics holds the Prometheus collectors shared by both binaries.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "swim_http_requests_total",
		Help: "Total HTTP requests processed, labeled by status code",
	}, []string{"method", "route", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "swim_http_request_duration_seconds",
		Help:    "Latency distribution of HTTP requests",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	}, []string{"method", "route"})

	BalanceAdjustmentsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_balance_adjustments_total",
		Help: "Balance adjustments committed, labeled by transaction type",
	}, []string{"type"})

	// LedgerPartialFailuresTotal counts balance writes left without a transaction row
	LedgerPartialFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ledger_partial_failures_total",
		Help: "Balance updates whose transaction record could not be written",
	})

	LedgerAuditMismatchesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ledger_audit_mismatches_total",
		Help: "Clients whose stored balance differs from their newest transaction, per audit run",
	})

	NotificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "notifications_dispatched_total",
		Help: "Notification emails attempted, labeled by kind and delivery status",
	}, []string{"kind", "status"})

	CacheLookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "query_cache_lookups_total",
		Help: "Query cache lookups, labeled by result",
	}, []string{"result"})
)

// Handler exposes the default registry
func Handler() http.Handler {
	return promhttp.Handler()
}
