package observability

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Metrics holds the Prometheus collectors for one batch run.
type Metrics struct {
	RecordsLoaded prometheus.Counter
	Projects      prometheus.Gauge
	TrendPoints   prometheus.Gauge

	// labels: chart={line,map,combined}
	FramesRendered *prometheus.CounterVec
	// labels: stage={load,normalize,aggregate,trend,...}
	StageDuration *prometheus.HistogramVec

	RunSuccess  prometheus.Gauge
	LastSuccess prometheus.Gauge

	registry *prometheus.Registry
}

// NewMetrics creates the run metrics on a private registry. Batch jobs push
// their metrics instead of being scraped, so nothing touches the default
// registry and tests can build as many instances as they like.
func NewMetrics() *Metrics {
	m := &Metrics{
		RecordsLoaded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "turbine_etl",
			Name:      "records_loaded_total",
			Help:      "Turbine records read from the dataset release.",
		}),
		Projects: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "turbine_etl",
			Name:      "projects_total",
			Help:      "Projects produced by aggregation.",
		}),
		TrendPoints: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "turbine_etl",
			Name:      "trend_points",
			Help:      "Years present in the cumulative capacity trend.",
		}),
		FramesRendered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "turbine_etl",
			Name:      "frames_rendered_total",
			Help:      "Animation frames produced by chart.",
		}, []string{"chart"}),
		StageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "turbine_etl",
			Name:      "stage_duration_seconds",
			Help:      "Wall time of each pipeline stage.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"stage"}),
		RunSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "turbine_etl",
			Name:      "run_success",
			Help:      "1 when the last run completed, 0 when it failed.",
		}),
		LastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "turbine_etl",
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last successful run.",
		}),
		registry: prometheus.NewRegistry(),
	}

	m.registry.MustRegister(
		m.RecordsLoaded,
		m.Projects,
		m.TrendPoints,
		m.FramesRendered,
		m.StageDuration,
		m.RunSuccess,
		m.LastSuccess,
	)

	return m
}

// Gatherer exposes the run registry, e.g. for tests or a textfile exporter.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}

// Push sends the run metrics to a Prometheus Pushgateway under the given job.
func (m *Metrics) Push(url, job string) error {
	if err := push.New(url, job).Gatherer(m.registry).Push(); err != nil {
		return fmt.Errorf("push metrics: %w", err)
	}
	return nil
}
