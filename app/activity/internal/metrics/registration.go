// Package metrics exports registration outcomes to Prometheus.
package metrics

import (
	"time"

	"github.com/Wepsel/Ouderenapp/app/activity/registration"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// RegistrationMetrics implements registration.Metrics.
type RegistrationMetrics struct {
	outcomes *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

var _ registration.Metrics = (*RegistrationMetrics)(nil)

// NewRegistrationMetrics registers the collectors on reg; nil uses the
// default registerer, which go-zero's Prometheus endpoint serves.
func NewRegistrationMetrics(namespace string, reg prometheus.Registerer) *RegistrationMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &RegistrationMetrics{
		outcomes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "registration",
				Name:      "outcomes_total",
				Help:      "Register and unregister calls by outcome",
			},
			[]string{"outcome"},
		),
		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "registration",
				Name:      "duration_seconds",
				Help:      "Register and unregister latency in seconds",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
			},
			[]string{"operation"},
		),
	}
}

func (m *RegistrationMetrics) ObserveOutcome(outcome registration.Outcome) {
	m.outcomes.WithLabelValues(string(outcome)).Inc()
}

func (m *RegistrationMetrics) ObserveDuration(operation string, d time.Duration) {
	m.duration.WithLabelValues(operation).Observe(d.Seconds())
}
