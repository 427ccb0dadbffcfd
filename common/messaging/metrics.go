package messaging

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsCollector records publish metrics.
type MetricsCollector interface {
	RecordPublish(topic string, duration time.Duration, err error)
}

// NoOpMetricsCollector disables metrics.
type NoOpMetricsCollector struct{}

func (NoOpMetricsCollector) RecordPublish(string, time.Duration, error) {}

// PrometheusCollector exports publish counters and latency.
type PrometheusCollector struct {
	publishDuration *prometheus.HistogramVec
	publishTotal    *prometheus.CounterVec
}

// NewPrometheusCollector registers the collectors on reg. A nil reg uses the
// default registerer.
func NewPrometheusCollector(namespace string, reg prometheus.Registerer) *PrometheusCollector {
	if namespace == "" {
		namespace = "messaging"
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &PrometheusCollector{
		publishDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "publish_duration_seconds",
				Help:      "Message publish duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"topic"},
		),
		publishTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "publish_total",
				Help:      "Total number of published messages",
			},
			[]string{"topic", "status"},
		),
	}
}

func (c *PrometheusCollector) RecordPublish(topic string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	c.publishDuration.WithLabelValues(topic).Observe(duration.Seconds())
	c.publishTotal.WithLabelValues(topic, status).Inc()
}
