package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// ReminderMetrics records abandonment watcher activity.
type ReminderMetrics struct {
	checks     prometheus.Counter
	dispatched prometheus.Counter
	failed     prometheus.Counter
}

// NewReminderMetrics registers the watcher metrics on the provided registerer.
func NewReminderMetrics(reg prometheus.Registerer) *ReminderMetrics {
	if reg == nil {
		return &ReminderMetrics{}
	}
	checks := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cart_reminder_checks_total",
		Help: "Abandonment threshold checks performed.",
	})
	dispatched := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cart_reminder_dispatched_total",
		Help: "Reminder emails dispatched.",
	})
	failed := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cart_reminder_failed_total",
		Help: "Reminder dispatch attempts that failed.",
	})
	reg.MustRegister(checks, dispatched, failed)
	return &ReminderMetrics{checks: checks, dispatched: dispatched, failed: failed}
}

// IncCheck counts a single poll evaluation.
func (m *ReminderMetrics) IncCheck() {
	if m == nil || m.checks == nil {
		return
	}
	m.checks.Inc()
}

// IncDispatched counts a successful reminder dispatch.
func (m *ReminderMetrics) IncDispatched() {
	if m == nil || m.dispatched == nil {
		return
	}
	m.dispatched.Inc()
}

// IncFailed counts a failed dispatch attempt.
func (m *ReminderMetrics) IncFailed() {
	if m == nil || m.failed == nil {
		return
	}
	m.failed.Inc()
}
