package analysis

import (
	"slices"
	"time"

	"github.com/agbru/sysoptimizer/internal/record"
)

// Metric selects a column of system_stats.
type Metric string

const (
	MetricCPU    Metric = "cpu"
	MetricMemory Metric = "memory"
	MetricDisk   Metric = "disk"
)

// Metrics lists every system metric in display order.
var Metrics = []Metric{MetricCPU, MetricMemory, MetricDisk}

func (m Metric) value(s record.SystemSample) float64 {
	switch m {
	case MetricMemory:
		return s.MemoryUsage
	case MetricDisk:
		return s.DiskUsage
	default:
		return s.CPUUsage
	}
}

// Point is one available measurement of a metric.
type Point struct {
	Time  time.Time
	Value float64
}

// Column returns the value of m for every row, unavailable readings included.
func Column(rows []record.SystemSample, m Metric) []float64 {
	out := make([]float64, len(rows))
	for i, r := range rows {
		out[i] = m.value(r)
	}
	return out
}

// Series extracts the available values of m in row order. Rows holding the
// sentinel or an unparsable timestamp are left out.
func Series(rows []record.SystemSample, m Metric) []Point {
	out := make([]Point, 0, len(rows))
	for _, r := range rows {
		v := m.value(r)
		if record.IsUnavailable(v) {
			continue
		}
		ts, err := record.ParseTimestamp(r.Timestamp)
		if err != nil {
			continue
		}
		out = append(out, Point{Time: ts, Value: v})
	}
	return out
}

// countUnparsable returns how many rows carry a timestamp ParseTimestamp
// rejects. Such rows take no part in time-based analyses.
func countUnparsable(system []record.SystemSample, procs []record.ProcessSample) int {
	n := 0
	for _, r := range system {
		if _, err := record.ParseTimestamp(r.Timestamp); err != nil {
			n++
		}
	}
	for _, p := range procs {
		if _, err := record.ParseTimestamp(p.Timestamp); err != nil {
			n++
		}
	}
	return n
}

// medianGap returns the median spacing between consecutive points, or 0 for
// fewer than two points.
func medianGap(series []Point) time.Duration {
	if len(series) < 2 {
		return 0
	}
	gaps := make([]time.Duration, 0, len(series)-1)
	for i := 1; i < len(series); i++ {
		gaps = append(gaps, series[i].Time.Sub(series[i-1].Time))
	}
	slices.Sort(gaps)
	return gaps[len(gaps)/2]
}
