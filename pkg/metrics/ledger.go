package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// LedgerMetrics records outcomes of remote ledger operations.
type LedgerMetrics struct {
	attempts *prometheus.CounterVec
	retries  *prometheus.CounterVec
	failures *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewLedgerMetrics registers the ledger metrics on the provided registerer.
func NewLedgerMetrics(reg prometheus.Registerer) *LedgerMetrics {
	if reg == nil {
		return &LedgerMetrics{}
	}
	attempts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_attempts_total",
		Help: "Remote ledger calls attempted, including retries.",
	}, []string{"op"})
	retries := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_retries_total",
		Help: "Remote ledger calls retried after a transient fault.",
	}, []string{"op"})
	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_failures_total",
		Help: "Remote ledger calls that exhausted their retry budget.",
	}, []string{"op"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ledger_op_duration_seconds",
		Help:    "Duration of remote ledger operations in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"op"})
	reg.MustRegister(attempts, retries, failures, duration)
	return &LedgerMetrics{
		attempts: attempts,
		retries:  retries,
		failures: failures,
		duration: duration,
	}
}

// IncAttempt counts one remote call for the named operation.
func (m *LedgerMetrics) IncAttempt(op string) {
	if m == nil || m.attempts == nil {
		return
	}
	m.attempts.WithLabelValues(normalizeLabel(op)).Inc()
}

// IncRetry counts one retried call for the named operation.
func (m *LedgerMetrics) IncRetry(op string) {
	if m == nil || m.retries == nil {
		return
	}
	m.retries.WithLabelValues(normalizeLabel(op)).Inc()
}

// IncFailure counts one exhausted retry budget for the named operation.
func (m *LedgerMetrics) IncFailure(op string) {
	if m == nil || m.failures == nil {
		return
	}
	m.failures.WithLabelValues(normalizeLabel(op)).Inc()
}

// ObserveDuration records how long the named operation took end to end.
func (m *LedgerMetrics) ObserveDuration(op string, duration time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(normalizeLabel(op)).Observe(duration.Seconds())
}

func normalizeLabel(op string) string {
	if op == "" {
		return "unknown"
	}
	return op
}
