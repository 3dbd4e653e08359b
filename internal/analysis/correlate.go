package analysis

import (
	"cmp"
	"math"
	"slices"
	"time"

	"github.com/agbru/sysoptimizer/internal/record"
)

// CorrelateCPU returns the Pearson correlation between system CPU and the sum
// of process CPU at the same timestamp, and the number of timestamps used.
// Timestamps with unavailable system CPU are skipped. The result is NaN when
// fewer than two timestamps match or either side is constant.
func CorrelateCPU(system []record.SystemSample, procs []record.ProcessSample) (float64, int) {
	totals := make(map[string]float64)
	for _, p := range procs {
		totals[p.Timestamp] += p.CPUUsagePercent
	}
	var xs, ys []float64
	for _, s := range system {
		total, ok := totals[s.Timestamp]
		if !ok || record.IsUnavailable(s.CPUUsage) {
			continue
		}
		xs = append(xs, s.CPUUsage)
		ys = append(ys, total)
	}
	return pearson(xs, ys), len(xs)
}

func pearson(xs, ys []float64) float64 {
	n := len(xs)
	if n < 2 || n != len(ys) {
		return math.NaN()
	}
	var mx, my float64
	for i := range n {
		mx += xs[i]
		my += ys[i]
	}
	mx /= float64(n)
	my /= float64(n)

	var sxy, sxx, syy float64
	for i := range n {
		dx, dy := xs[i]-mx, ys[i]-my
		sxy += dx * dy
		sxx += dx * dx
		syy += dy * dy
	}
	if sxx == 0 || syy == 0 {
		return math.NaN()
	}
	return sxy / math.Sqrt(sxx*syy)
}

// ProcessCount is how often a process was the top CPU consumer at a spike.
type ProcessCount struct {
	Name   string
	Spikes int
}

// TopSpikeProcesses finds, for every spike, the process row with the highest
// CPU within ±window of the spike, and ranks processes by how often they
// were that row. At most top entries are returned; ties are ordered by name.
func TopSpikeProcesses(spikes []Spike, procs []record.ProcessSample, window time.Duration, top int) []ProcessCount {
	type timed struct {
		at  time.Time
		row record.ProcessSample
	}
	rows := make([]timed, 0, len(procs))
	for _, p := range procs {
		at, err := record.ParseTimestamp(p.Timestamp)
		if err != nil {
			continue
		}
		rows = append(rows, timed{at: at, row: p})
	}

	counts := make(map[string]int)
	for _, s := range spikes {
		var (
			best  record.ProcessSample
			found bool
		)
		for _, r := range rows {
			if r.at.Before(s.Time.Add(-window)) || r.at.After(s.Time.Add(window)) {
				continue
			}
			if !found || r.row.CPUUsagePercent > best.CPUUsagePercent {
				best, found = r.row, true
			}
		}
		if found {
			counts[best.ProcessName]++
		}
	}

	out := make([]ProcessCount, 0, len(counts))
	for name, n := range counts {
		out = append(out, ProcessCount{Name: name, Spikes: n})
	}
	slices.SortFunc(out, func(a, b ProcessCount) int {
		if c := cmp.Compare(b.Spikes, a.Spikes); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	if top > 0 && len(out) > top {
		out = out[:top]
	}
	return out
}
