package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestLedgerMetricsCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewLedgerMetrics(reg)

	m.IncAttempt("append")
	m.IncAttempt("append")
	m.IncRetry("append")
	m.IncFailure("read")
	m.ObserveDuration("read", 120*time.Millisecond)

	if got := testutil.ToFloat64(m.attempts.WithLabelValues("append")); got != 2 {
		t.Fatalf("expected 2 append attempts, got %v", got)
	}
	if got := testutil.ToFloat64(m.retries.WithLabelValues("append")); got != 1 {
		t.Fatalf("expected 1 append retry, got %v", got)
	}
	if got := testutil.ToFloat64(m.failures.WithLabelValues("read")); got != 1 {
		t.Fatalf("expected 1 read failure, got %v", got)
	}
}

func TestLedgerMetricsNilSafe(t *testing.T) {
	var m *LedgerMetrics
	m.IncAttempt("append")
	m.IncRetry("append")
	m.IncFailure("append")
	m.ObserveDuration("append", time.Second)

	unregistered := NewLedgerMetrics(nil)
	unregistered.IncAttempt("")
}
