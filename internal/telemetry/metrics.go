package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// BootstrapMetrics collects the observable facts of a single bootstrap
// run. The binary is short-lived, so instead of serving a scrape
// endpoint the registry is pushed to a Pushgateway at the end of the run
// when one is configured.
type BootstrapMetrics struct {
	registry *prometheus.Registry

	ProbeAttempts prometheus.Counter
	AuthReady     prometheus.Gauge
	RunSuccess    prometheus.Gauge
	StepDuration  *prometheus.HistogramVec
}

// NewBootstrapMetrics creates a self-contained registry with the
// bootstrap metric set.
func NewBootstrapMetrics() *BootstrapMetrics {
	m := &BootstrapMetrics{
		registry: prometheus.NewRegistry(),
		ProbeAttempts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "nodeboot_probe_attempts_total",
			Help: "Auth daemon readiness probes issued during the run.",
		}),
		AuthReady: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "nodeboot_auth_ready",
			Help: "Whether the auth daemon answered within the poll budget (1/0).",
		}),
		RunSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "nodeboot_run_success",
			Help: "Whether the bootstrap run completed without error (1/0).",
		}),
		StepDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "nodeboot_step_duration_seconds",
			Help:    "Wall time per bootstrap step.",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
		}, []string{"step"}),
	}
	m.registry.MustRegister(m.ProbeAttempts, m.AuthReady, m.RunSuccess, m.StepDuration)
	return m
}

// ObserveStep records one step's duration.
func (m *BootstrapMetrics) ObserveStep(step string, d time.Duration) {
	m.StepDuration.WithLabelValues(step).Observe(d.Seconds())
}

// Push sends the registry to a Pushgateway, grouped by instance so runs
// from different nodes do not clobber each other.
func (m *BootstrapMetrics) Push(gateway, job, instance string) error {
	return push.New(gateway, job).
		Grouping("instance", instance).
		Gatherer(m.registry).
		Push()
}

// Gatherer exposes the registry, mostly for tests.
func (m *BootstrapMetrics) Gatherer() prometheus.Gatherer {
	return m.registry
}
