package observability

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Metrics holds the Prometheus counters, histograms, and gauges for one
// monitor run. Each run builds its own registry; a batch job has no scrape
// endpoint, so metrics reach Prometheus through a Pushgateway (see Push).
type Metrics struct {
	registry *prometheus.Registry

	RunsTotal          *prometheus.CounterVec // label: outcome={success,error}
	FetchErrors        *prometheus.CounterVec // label: source={air_quality,temperature}
	NotificationsSent  *prometheus.CounterVec // label: direction={entered_alert,exited_alert}
	NotificationErrors prometheus.Counter
	AlertActive        prometheus.Gauge
	RunDuration        prometheus.Histogram
}

// NewMetrics creates all run metrics on a fresh registry. Using a private
// registry keeps repeated construction in tests from panicking on duplicate
// registration.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		RunsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "airmonitor",
			Name:      "runs_total",
			Help:      "Monitor runs by outcome.",
		}, []string{"outcome"}),
		FetchErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "airmonitor",
			Name:      "fetch_errors_total",
			Help:      "Reading fetch failures by source.",
		}, []string{"source"}),
		NotificationsSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "airmonitor",
			Name:      "notifications_sent_total",
			Help:      "Notifications delivered by transition direction.",
		}, []string{"direction"}),
		NotificationErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "airmonitor",
			Name:      "notification_errors_total",
			Help:      "Notification delivery failures.",
		}),
		AlertActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "airmonitor",
			Name:      "alert_active",
			Help:      "1 when the current snapshot evaluated to BAD, 0 otherwise.",
		}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "airmonitor",
			Name:      "run_duration_seconds",
			Help:      "Duration of a complete load-fetch-compare-notify-save run.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
	}

	m.registry.MustRegister(
		m.RunsTotal,
		m.FetchErrors,
		m.NotificationsSent,
		m.NotificationErrors,
		m.AlertActive,
		m.RunDuration,
	)

	return m
}

// Push delivers the run's metrics to a Pushgateway under the given job name.
func (m *Metrics) Push(ctx context.Context, gatewayURL, job string) error {
	return push.New(gatewayURL, job).Gatherer(m.registry).PushContext(ctx)
}
