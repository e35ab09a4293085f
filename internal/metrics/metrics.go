// Package metrics provides Prometheus metrics for perfdash.
package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds every perfdash collector.
type Metrics struct {
	// HTTPRequests counts requests. Labels: method, route, status
	HTTPRequests *prometheus.CounterVec
	// HTTPDuration observes request latency. Labels: method, route
	HTTPDuration *prometheus.HistogramVec

	// DatasetLoads counts load attempts. Labels: state (ready, failed)
	DatasetLoads *prometheus.CounterVec
	// DatasetRecords is the size of the loaded dataset.
	DatasetRecords prometheus.Gauge
	// DatasetLoadDuration observes how long loads take.
	DatasetLoadDuration prometheus.Histogram

	// ComputeDuration observes dashboard computations.
	ComputeDuration prometheus.Histogram
	// AnomaliesDetected counts anomalies returned. Labels: type (Spike, Dip)
	AnomaliesDetected *prometheus.CounterVec
}

var (
	once    sync.Once
	current *Metrics
)

// Get returns the process-wide collectors, registering them on first use.
func Get() *Metrics {
	once.Do(func() {
		current = New(prometheus.DefaultRegisterer)
	})
	return current
}

// New registers a fresh set of collectors with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		HTTPRequests: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "perfdash",
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total HTTP requests by method, route and status code",
			},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "perfdash",
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		DatasetLoads: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "perfdash",
				Subsystem: "dataset",
				Name:      "loads_total",
				Help:      "Dataset load attempts by final state",
			},
			[]string{"state"},
		),
		DatasetRecords: f.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "perfdash",
				Subsystem: "dataset",
				Name:      "records",
				Help:      "Number of records in the loaded dataset",
			},
		),
		DatasetLoadDuration: f.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "perfdash",
				Subsystem: "dataset",
				Name:      "load_duration_seconds",
				Help:      "Duration of dataset loads in seconds",
				Buckets:   prometheus.DefBuckets,
			},
		),
		ComputeDuration: f.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "perfdash",
				Subsystem: "dashboard",
				Name:      "compute_duration_seconds",
				Help:      "Duration of dashboard computations in seconds",
				Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
			},
		),
		AnomaliesDetected: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "perfdash",
				Subsystem: "dashboard",
				Name:      "anomalies_total",
				Help:      "Anomalies returned by dashboard computations",
			},
			[]string{"type"},
		),
	}
}

// RecordLoad records the outcome of a dataset load.
func (m *Metrics) RecordLoad(state string, records int, d time.Duration) {
	m.DatasetLoads.WithLabelValues(state).Inc()
	m.DatasetRecords.Set(float64(records))
	m.DatasetLoadDuration.Observe(d.Seconds())
}

// ObserveRequest records one HTTP request.
func (m *Metrics) ObserveRequest(method, route string, status int, d time.Duration) {
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// ObserveCompute records one dashboard computation.
func (m *Metrics) ObserveCompute(d time.Duration, spikes, dips int) {
	m.ComputeDuration.Observe(d.Seconds())
	m.AnomaliesDetected.WithLabelValues("Spike").Add(float64(spikes))
	m.AnomaliesDetected.WithLabelValues("Dip").Add(float64(dips))
}
