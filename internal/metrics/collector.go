// Package metrics exposes Prometheus collectors for the check pipeline.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector records check outcomes on its own registry.
type Collector struct {
	registry *prometheus.Registry
	checks   *prometheus.CounterVec
	failures *prometheus.CounterVec
	duration prometheus.Histogram
}

// NewCollector registers the check collectors plus Go runtime and process metrics.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		checks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "misinfo_checks_total",
			Help: "Completed checks by verdict status.",
		}, []string{"status"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "misinfo_check_errors_total",
			Help: "Failed checks by error kind.",
		}, []string{"kind"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "misinfo_check_duration_seconds",
			Help:    "Wall time of a check including search and completion.",
			Buckets: []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32},
		}),
	}

	c.registry.MustRegister(
		c.checks,
		c.failures,
		c.duration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

// ObserveVerdict counts a successful check.
func (c *Collector) ObserveVerdict(status string, elapsed time.Duration) {
	c.checks.WithLabelValues(status).Inc()
	c.duration.Observe(elapsed.Seconds())
}

// ObserveFailure counts a failed check.
func (c *Collector) ObserveFailure(kind string, elapsed time.Duration) {
	c.failures.WithLabelValues(kind).Inc()
	c.duration.Observe(elapsed.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
