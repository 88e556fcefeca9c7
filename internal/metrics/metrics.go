// Package metrics provides Prometheus observability for the ledger
// service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all collectors registered by the service.
type Metrics struct {
	// HTTP request latency by route pattern, method and status.
	RequestDuration *prometheus.HistogramVec

	// Ledger write operations by kind ("group", "expense", "settlement").
	LedgerWrites *prometheus.CounterVec

	// Balance queries served.
	BalanceQueries prometheus.Counter
}

// New creates a Metrics instance registered on the default registry.
func New() *Metrics {
	return &Metrics{
		RequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "evenup_http_request_duration_seconds",
			Help:    "Duration of HTTP requests by route, method and status",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"route", "method", "status"}),

		LedgerWrites: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "evenup_ledger_writes_total",
			Help: "Total ledger entries appended by kind",
		}, []string{"kind"}),

		BalanceQueries: promauto.NewCounter(prometheus.CounterOpts{
			Name: "evenup_balance_queries_total",
			Help: "Total balance computations served",
		}),
	}
}

// ObserveRequest records one HTTP request.
func (m *Metrics) ObserveRequest(route, method, status string, d time.Duration) {
	if m != nil {
		m.RequestDuration.WithLabelValues(route, method, status).Observe(d.Seconds())
	}
}

// IncrementWrite records an appended ledger entry.
func (m *Metrics) IncrementWrite(kind string) {
	if m != nil {
		m.LedgerWrites.WithLabelValues(kind).Inc()
	}
}

// IncrementBalanceQuery records one served balance computation.
func (m *Metrics) IncrementBalanceQuery() {
	if m != nil {
		m.BalanceQueries.Inc()
	}
}
