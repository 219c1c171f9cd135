package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registration outcomes.
const (
	OutcomeSaved     = "saved"
	OutcomeDuplicate = "duplicate"
	OutcomeFailed    = "failed"
	OutcomeCancelled = "cancelled"
)

// Metrics holds the bot-level Prometheus metrics. A nil *Metrics records nothing.
type Metrics struct {
	UpdatesProcessed *prometheus.CounterVec
	Registrations    *prometheus.CounterVec
	Reports          *prometheus.CounterVec
	ActiveSessions   prometheus.Gauge
}

// New creates and registers all bot metrics with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		UpdatesProcessed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "recruitbot_updates_processed_total",
			Help: "Total number of inbound updates handled, by kind",
		}, []string{"kind"}),
		Registrations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "recruitbot_registrations_total",
			Help: "Total number of finished registration sessions, by outcome",
		}, []string{"outcome"}),
		Reports: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "recruitbot_reports_total",
			Help: "Total number of report requests, by period and outcome",
		}, []string{"period", "outcome"}),
		ActiveSessions: factory.NewGauge(prometheus.GaugeOpts{
			Name: "recruitbot_active_sessions",
			Help: "Current number of registration sessions in progress",
		}),
	}
}

func (m *Metrics) IncrementUpdates(kind string) {
	if m == nil {
		return
	}
	m.UpdatesProcessed.WithLabelValues(kind).Inc()
}

func (m *Metrics) IncrementRegistrations(outcome string) {
	if m == nil {
		return
	}
	m.Registrations.WithLabelValues(outcome).Inc()
}

func (m *Metrics) IncrementReports(period, outcome string) {
	if m == nil {
		return
	}
	m.Reports.WithLabelValues(period, outcome).Inc()
}

func (m *Metrics) SetActiveSessions(count int) {
	if m == nil {
		return
	}
	m.ActiveSessions.Set(float64(count))
}
