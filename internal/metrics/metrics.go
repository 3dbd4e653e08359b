// Package metrics exposes collector counters in the Prometheus text format.
//
// There is no network listener: the counters are written to a file after
// every cycle, ready for a node-exporter textfile collector.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/agbru/sysoptimizer/internal/record"
)

const namespace = "sysoptimizer"

// Metrics holds the collector's Prometheus instruments on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	cycles        prometheus.Counter
	cycleDuration prometheus.Histogram
	rowsWritten   *prometheus.CounterVec
	skipped       *prometheus.CounterVec
	insertFailed  *prometheus.CounterVec
	unavailable   *prometheus.CounterVec
	usage         *prometheus.GaugeVec
}

// New creates the instruments and registers them together with the Go
// runtime and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		cycles: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cycles_total",
			Help:      "Completed collection cycles.",
		}),
		cycleDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "cycle_duration_seconds",
			Help:      "Time spent sampling and storing one cycle, pause excluded.",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 10),
		}),
		rowsWritten: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_written_total",
			Help:      "Rows appended to the store.",
		}, []string{"table"}),
		skipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "processes_skipped_total",
			Help:      "Processes skipped during a cycle, by failing step.",
		}, []string{"reason"}),
		insertFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "insert_failures_total",
			Help:      "Store appends that failed.",
		}, []string{"table"}),
		unavailable: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "unavailable_measurements_total",
			Help:      "System measurements recorded as unavailable.",
		}, []string{"metric"}),
		usage: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "system_usage_percent",
			Help:      "Latest available system measurement.",
		}, []string{"metric"}),
	}
	m.registry.MustRegister(
		m.cycles,
		m.cycleDuration,
		m.rowsWritten,
		m.skipped,
		m.insertFailed,
		m.unavailable,
		m.usage,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry returns the private registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// CycleCompleted counts one cycle and observes its duration.
func (m *Metrics) CycleCompleted(elapsed time.Duration) {
	m.cycles.Inc()
	m.cycleDuration.Observe(elapsed.Seconds())
}

// SystemSampled updates the usage gauges. Unavailable values are counted and
// leave the previous gauge value in place.
func (m *Metrics) SystemSampled(s record.SystemSample) {
	for _, v := range []struct {
		name  string
		value float64
	}{
		{"cpu", s.CPUUsage},
		{"memory", s.MemoryUsage},
		{"disk", s.DiskUsage},
	} {
		if record.IsUnavailable(v.value) {
			m.unavailable.WithLabelValues(v.name).Inc()
			continue
		}
		m.usage.WithLabelValues(v.name).Set(v.value)
	}
}

// RowWritten counts one successful append.
func (m *Metrics) RowWritten(table string) {
	m.rowsWritten.WithLabelValues(table).Inc()
}

// ProcessSkipped counts one skipped process.
func (m *Metrics) ProcessSkipped(reason string) {
	m.skipped.WithLabelValues(reason).Inc()
}

// InsertFailed counts one failed append.
func (m *Metrics) InsertFailed(table string) {
	m.insertFailed.WithLabelValues(table).Inc()
}

// WriteTextfile writes every registered metric to path atomically.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
