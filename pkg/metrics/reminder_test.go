package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestReminderMetricsCounts(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := NewReminderMetrics(reg)

	m.IncCheck()
	m.IncCheck()
	m.IncDispatched()
	m.IncFailed()

	if got := testutil.ToFloat64(m.checks); got != 2 {
		t.Fatalf("expected 2 checks, got %v", got)
	}
	if got := testutil.ToFloat64(m.dispatched); got != 1 {
		t.Fatalf("expected 1 dispatched, got %v", got)
	}
	if got := testutil.ToFloat64(m.failed); got != 1 {
		t.Fatalf("expected 1 failed, got %v", got)
	}
}

func TestReminderMetricsNilSafe(t *testing.T) {
	t.Parallel()

	var m *ReminderMetrics
	m.IncCheck()
	m.IncDispatched()
	m.IncFailed()

	unregistered := NewReminderMetrics(nil)
	unregistered.IncCheck()
}
