// Package metrics exposes Prometheus collectors for the aggregation path.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// BalanceFetchFailures counts per-row balance fetch failures by chain.
	BalanceFetchFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wallet_balance_fetch_failures_total",
		Help: "Number of per-asset balance fetches that failed.",
	}, []string{"chain"})

	// PriceLookupFailures counts batched price oracle failures.
	PriceLookupFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wallet_price_lookup_failures_total",
		Help: "Number of batched price oracle lookups that failed.",
	})

	// ReportDuration observes end-to-end balance report latency by chain.
	ReportDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "wallet_report_duration_seconds",
		Help:    "Time to assemble a full balance report.",
		Buckets: prometheus.DefBuckets,
	}, []string{"chain"})

	// UnlockAttempts counts unlock attempts by outcome.
	UnlockAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wallet_unlock_attempts_total",
		Help: "Number of wallet unlock attempts by outcome.",
	}, []string{"outcome"})
)

// Handler returns the HTTP handler serving the metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
