package analysis

import "time"

// Spike is a value exceeding the rolling mean of its window by more than the
// threshold.
type Spike struct {
	Time        time.Time
	Value       float64
	RollingMean float64
}

// DetectSpikes compares every point with the mean of the last window points,
// itself included. Points before the first full window are never spikes.
func DetectSpikes(series []Point, window int, threshold float64) []Spike {
	flags := spikeFlags(series, window, threshold)
	var out []Spike
	for i, f := range flags {
		if f.spike {
			out = append(out, Spike{Time: series[i].Time, Value: series[i].Value, RollingMean: f.mean})
		}
	}
	return out
}

type spikeFlag struct {
	spike bool
	mean  float64
}

func spikeFlags(series []Point, window int, threshold float64) []spikeFlag {
	flags := make([]spikeFlag, len(series))
	if window < 1 {
		return flags
	}
	var sum float64
	for i, p := range series {
		sum += p.Value
		if i >= window {
			sum -= series[i-window].Value
		}
		if i < window-1 {
			continue
		}
		mean := sum / float64(window)
		flags[i] = spikeFlag{spike: p.Value > mean+threshold, mean: mean}
	}
	return flags
}

// LongSpike is a run of consecutive spikes lasting at least the requested
// duration.
type LongSpike struct {
	Start    time.Time
	End      time.Time // timestamp of the last spike of the run
	Samples  int
	Duration time.Duration
	Peak     float64
}

// DetectLongSpikes groups consecutive spikes into runs and keeps the runs
// lasting at least minDuration. A run of n samples lasts n times the median
// sample spacing of the series.
func DetectLongSpikes(series []Point, window int, threshold float64, minDuration time.Duration) []LongSpike {
	flags := spikeFlags(series, window, threshold)
	step := medianGap(series)

	var (
		out []LongSpike
		cur *LongSpike
	)
	flush := func() {
		if cur != nil && cur.Duration >= minDuration {
			out = append(out, *cur)
		}
		cur = nil
	}
	for i, f := range flags {
		if !f.spike {
			flush()
			continue
		}
		p := series[i]
		if cur == nil {
			cur = &LongSpike{Start: p.Time, Peak: p.Value}
		}
		cur.End = p.Time
		cur.Samples++
		cur.Duration = time.Duration(cur.Samples) * step
		cur.Peak = max(cur.Peak, p.Value)
	}
	flush()
	return out
}

// SpikeStates counts CPU spikes by the activity class of their row.
func SpikeStates(spikes []Spike, threshold float64) map[State]int {
	counts := make(map[State]int, 2)
	for _, s := range spikes {
		counts[ClassifyCPU(s.Value, threshold)]++
	}
	return counts
}
