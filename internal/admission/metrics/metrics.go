package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts admission decisions. A nil *Metrics is valid and records nothing.
type Metrics struct {
	MessagesDropped  prometheus.Counter
	KeyAttempts      prometheus.Counter
	Bans             *prometheus.CounterVec
	LastSweepRemoved prometheus.Gauge
}

// New registers admission metrics with reg. Tests pass prometheus.NewRegistry()
// so repeated construction does not collide on the default registerer.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		MessagesDropped: factory.NewCounter(prometheus.CounterOpts{
			Name: "recruitbot_admission_messages_dropped_total",
			Help: "Total number of messages dropped for arriving too quickly",
		}),
		KeyAttempts: factory.NewCounter(prometheus.CounterOpts{
			Name: "recruitbot_admission_key_attempts_total",
			Help: "Total number of free-text messages counted as admin key guesses",
		}),
		Bans: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "recruitbot_admission_bans_total",
			Help: "Total number of identities banned, by reason",
		}, []string{"reason"}),
		LastSweepRemoved: factory.NewGauge(prometheus.GaugeOpts{
			Name: "recruitbot_admission_last_sweep_removed",
			Help: "Identities removed by the last sweep",
		}),
	}
}

func (m *Metrics) IncrementDropped() {
	if m == nil {
		return
	}
	m.MessagesDropped.Inc()
}

func (m *Metrics) IncrementKeyAttempts() {
	if m == nil {
		return
	}
	m.KeyAttempts.Inc()
}

func (m *Metrics) IncrementBans(reason string) {
	if m == nil {
		return
	}
	m.Bans.WithLabelValues(reason).Inc()
}

func (m *Metrics) SetSwept(count int) {
	if m == nil {
		return
	}
	m.LastSweepRemoved.Set(float64(count))
}
