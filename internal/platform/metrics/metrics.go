package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds process-wide Prometheus metrics. Module specific metrics
// live next to their services.
type Metrics struct {
	UsersRegistered *prometheus.CounterVec
	SeededRecords   *prometheus.CounterVec
}

// New creates and registers the metrics on the default registry.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer registers the metrics on reg.
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		UsersRegistered: f.NewCounterVec(prometheus.CounterOpts{
			Name: "expenseai_users_registered_total",
			Help: "Total number of users registered, by role",
		}, []string{"role"}),
		SeededRecords: f.NewCounterVec(prometheus.CounterOpts{
			Name: "expenseai_seeded_records_total",
			Help: "Records inserted by startup seeding, by kind",
		}, []string{"kind"}),
	}
}

// IncrementUsersRegistered increments the registration counter for role.
func (m *Metrics) IncrementUsersRegistered(role string) {
	if m == nil {
		return
	}
	m.UsersRegistered.WithLabelValues(role).Inc()
}

// AddSeeded records n seeded rows of the given kind.
func (m *Metrics) AddSeeded(kind string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.SeededRecords.WithLabelValues(kind).Add(float64(n))
}
