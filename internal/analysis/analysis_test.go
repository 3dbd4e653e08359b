package analysis

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agbru/sysoptimizer/internal/record"
)

var t0 = time.Date(2024, 5, 6, 10, 0, 0, 0, time.Local)

func ts(offset time.Duration) string {
	return record.FormatTimestamp(t0.Add(offset))
}

func cpuRows(values ...float64) []record.SystemSample {
	rows := make([]record.SystemSample, len(values))
	for i, v := range values {
		rows[i] = record.SystemSample{Timestamp: ts(time.Duration(i) * 2 * time.Second), CPUUsage: v, MemoryUsage: 50, DiskUsage: 50}
	}
	return rows
}

func TestClassify(t *testing.T) {
	t.Parallel()
	rows := cpuRows(5, 12, 11.9, record.Sentinel, 80)
	classified, counts := Classify(rows, 12)

	require.Len(t, classified, 5)
	assert.Equal(t, []State{StateIdle, StateActive, StateIdle, StateUnavailable, StateActive},
		[]State{classified[0].State, classified[1].State, classified[2].State, classified[3].State, classified[4].State})
	assert.Equal(t, map[State]int{StateIdle: 2, StateActive: 2, StateUnavailable: 1}, counts)
}

func TestSeries_SkipsUnavailable(t *testing.T) {
	t.Parallel()
	rows := cpuRows(1, record.Sentinel, 3)
	rows = append(rows, record.SystemSample{Timestamp: "not a time", CPUUsage: 4})

	got := Series(rows, MetricCPU)
	require.Len(t, got, 2)
	assert.Equal(t, 1.0, got[0].Value)
	assert.Equal(t, 3.0, got[1].Value)
	assert.Equal(t, t0.Add(4*time.Second), got[1].Time)
}

func TestDetectSpikes(t *testing.T) {
	t.Parallel()

	t.Run("needs a full window", func(t *testing.T) {
		t.Parallel()
		series := Series(cpuRows(0, 90, 0), MetricCPU)
		assert.Empty(t, DetectSpikes(series, 3, 10), "no full window before the third point")
	})

	t.Run("mean includes the current value", func(t *testing.T) {
		t.Parallel()
		series := Series(cpuRows(10, 10, 10, 40), MetricCPU)
		spikes := DetectSpikes(series, 4, 10)
		require.Len(t, spikes, 1)
		assert.Equal(t, 40.0, spikes[0].Value)
		assert.Equal(t, 17.5, spikes[0].RollingMean)
	})

	t.Run("at the threshold is not a spike", func(t *testing.T) {
		t.Parallel()
		// mean (10+30)/2 = 20, 30 > 20+10 is false
		series := Series(cpuRows(10, 30), MetricCPU)
		assert.Empty(t, DetectSpikes(series, 2, 10))
	})

	t.Run("sentinel rows do not drag the mean", func(t *testing.T) {
		t.Parallel()
		series := Series(cpuRows(10, record.Sentinel, record.Sentinel, 10, 40), MetricCPU)
		spikes := DetectSpikes(series, 3, 5)
		require.Len(t, spikes, 1)
		assert.Equal(t, 20.0, spikes[0].RollingMean)
	})

	t.Run("seeded plateau", func(t *testing.T) {
		t.Parallel()
		series := Series(SeedRows(t0), MetricCPU)
		assert.Empty(t, DetectSpikes(series, 10, 10), "a 10 point step never exceeds mean+10")
		spikes := DetectSpikes(series, 10, 5)
		assert.Len(t, spikes, 4)
	})
}

func TestDetectLongSpikes(t *testing.T) {
	t.Parallel()
	// 10s spacing. With a window of 2 every step up of more than 10
	// points is a spike.
	rows := make([]record.SystemSample, 0, 12)
	values := []float64{0, 0, 20, 40, 60, 80, 80, 80, 100, 0, 30, 80}
	for i, v := range values {
		rows = append(rows, record.SystemSample{Timestamp: ts(time.Duration(i) * 10 * time.Second), CPUUsage: v})
	}
	series := Series(rows, MetricCPU)

	long := DetectLongSpikes(series, 2, 5, 30*time.Second)
	require.Len(t, long, 1)
	assert.Equal(t, t0.Add(20*time.Second), long[0].Start)
	assert.Equal(t, t0.Add(50*time.Second), long[0].End)
	assert.Equal(t, 4, long[0].Samples)
	assert.Equal(t, 40*time.Second, long[0].Duration)
	assert.Equal(t, 80.0, long[0].Peak)

	assert.Len(t, DetectLongSpikes(series, 2, 5, 10*time.Second), 3)
}

func TestSpikeStates(t *testing.T) {
	t.Parallel()
	spikes := []Spike{{Value: 5}, {Value: 30}, {Value: 50}}
	assert.Equal(t, map[State]int{StateIdle: 1, StateActive: 2}, SpikeStates(spikes, 12))
}

func TestCorrelateCPU(t *testing.T) {
	t.Parallel()

	t.Run("perfect positive", func(t *testing.T) {
		t.Parallel()
		system := cpuRows(10, 20, 30, record.Sentinel)
		procs := []record.ProcessSample{
			{Timestamp: system[0].Timestamp, CPUUsagePercent: 1},
			{Timestamp: system[0].Timestamp, CPUUsagePercent: 1},
			{Timestamp: system[1].Timestamp, CPUUsagePercent: 4},
			{Timestamp: system[2].Timestamp, CPUUsagePercent: 6},
			{Timestamp: system[3].Timestamp, CPUUsagePercent: 99},
		}
		r, n := CorrelateCPU(system, procs)
		assert.Equal(t, 3, n)
		assert.InDelta(t, 1.0, r, 1e-9)
	})

	t.Run("undefined with constant input", func(t *testing.T) {
		t.Parallel()
		system := cpuRows(10, 10, 10)
		procs := []record.ProcessSample{
			{Timestamp: system[0].Timestamp, CPUUsagePercent: 1},
			{Timestamp: system[1].Timestamp, CPUUsagePercent: 2},
			{Timestamp: system[2].Timestamp, CPUUsagePercent: 3},
		}
		r, _ := CorrelateCPU(system, procs)
		assert.True(t, math.IsNaN(r))
	})

	t.Run("no overlap", func(t *testing.T) {
		t.Parallel()
		r, n := CorrelateCPU(cpuRows(1, 2), nil)
		assert.Equal(t, 0, n)
		assert.True(t, math.IsNaN(r))
	})
}

func TestTopSpikeProcesses(t *testing.T) {
	t.Parallel()
	spikes := []Spike{{Time: t0}, {Time: t0.Add(time.Minute)}, {Time: t0.Add(2 * time.Minute)}, {Time: t0.Add(time.Hour)}}
	procs := []record.ProcessSample{
		{Timestamp: ts(-2 * time.Second), ProcessName: "rustc", CPUUsagePercent: 90},
		{Timestamp: ts(0), ProcessName: "bash", CPUUsagePercent: 1},
		{Timestamp: ts(3 * time.Second), ProcessName: "ignored", CPUUsagePercent: 500},
		{Timestamp: ts(time.Minute + time.Second), ProcessName: "rustc", CPUUsagePercent: 40},
		{Timestamp: ts(time.Minute), ProcessName: "cc1", CPUUsagePercent: 10},
		{Timestamp: ts(2 * time.Minute), ProcessName: "cc1", CPUUsagePercent: 70},
	}

	got := TopSpikeProcesses(spikes, procs, 2*time.Second, 10)
	assert.Equal(t, []ProcessCount{{Name: "rustc", Spikes: 2}, {Name: "cc1", Spikes: 1}}, got)

	assert.Len(t, TopSpikeProcesses(spikes, procs, 2*time.Second, 1), 1)
}

func TestSeedRows(t *testing.T) {
	t.Parallel()
	rows := SeedRows(t0)
	require.Len(t, rows, 15)
	assert.Equal(t, record.FormatTimestamp(t0), rows[0].Timestamp)
	assert.Equal(t, ts(140*time.Second), rows[14].Timestamp)
	for i, r := range rows {
		want := 10.0
		if i >= 10 {
			want = 20
		}
		assert.Equal(t, want, r.CPUUsage, "row %d", i)
		assert.Equal(t, 10.0, r.MemoryUsage)
		assert.Equal(t, 10.0, r.DiskUsage)
	}
}

func TestAnalyze(t *testing.T) {
	t.Parallel()
	opts := DefaultOptions()
	opts.SpikeThreshold = 5
	opts.MinSpikeDuration = 30 * time.Second
	system := SeedRows(t0)
	procs := []record.ProcessSample{
		{Timestamp: system[11].Timestamp, ProcessName: "stress", CPUUsagePercent: 95},
		{Timestamp: system[11].Timestamp, ProcessName: "sshd", CPUUsagePercent: 1},
	}

	rep := Analyze(system, procs, opts)
	assert.Equal(t, 15, rep.SystemRows)
	assert.Equal(t, 2, rep.ProcessRows)
	assert.Equal(t, map[State]int{StateIdle: 10, StateActive: 5}, rep.States)
	assert.Len(t, rep.Recent, 5)
	assert.Len(t, rep.Spikes[MetricCPU], 4)
	assert.Empty(t, rep.Spikes[MetricMemory])
	require.Len(t, rep.LongSpikes, 1)
	assert.Equal(t, 40*time.Second, rep.LongSpikes[0].Duration)
	assert.Equal(t, map[State]int{StateActive: 4}, rep.SpikeStates)
	assert.Equal(t, []ProcessCount{{Name: "stress", Spikes: 1}}, rep.TopProcesses)
	assert.Equal(t, 1, rep.CorrelationPoints)
	assert.True(t, math.IsNaN(rep.Correlation))
	assert.Zero(t, rep.UnparsableRows)
}

func TestAnalyze_CountsUnparsableRows(t *testing.T) {
	t.Parallel()
	system := cpuRows(10, 20)
	system = append(system,
		record.SystemSample{Timestamp: "2024-05-06 10:00:06.125000", CPUUsage: 30},
		record.SystemSample{Timestamp: "06/05/2024 10:00", CPUUsage: 40})
	procs := []record.ProcessSample{{Timestamp: "", ProcessName: "ghost"}}

	rep := Analyze(system, procs, DefaultOptions())
	assert.Equal(t, 2, rep.UnparsableRows)
	assert.Len(t, Series(system, MetricCPU), 3, "fractional seconds are readable")
}

func TestColumn_KeepsUnavailable(t *testing.T) {
	t.Parallel()
	rows := cpuRows(1, record.Sentinel, 3)
	assert.Equal(t, []float64{1, record.Sentinel, 3}, Column(rows, MetricCPU))
	assert.Equal(t, []float64{50, 50, 50}, Column(rows, MetricDisk))
}

type fakeSource struct {
	system []record.SystemSample
	procs  []record.ProcessSample
	err    error
}

func (f fakeSource) SystemSamples(context.Context) ([]record.SystemSample, error) {
	return f.system, nil
}

func (f fakeSource) ProcessSamples(context.Context) ([]record.ProcessSample, error) {
	return f.procs, f.err
}

func TestLoad(t *testing.T) {
	t.Parallel()
	src := fakeSource{system: cpuRows(1, 2), procs: []record.ProcessSample{{ProcessName: "x"}}}
	system, procs, err := Load(context.Background(), src)
	require.NoError(t, err)
	assert.Len(t, system, 2)
	assert.Len(t, procs, 1)

	src.err = errors.New("no such table: process_stats")
	_, _, err = Load(context.Background(), src)
	assert.ErrorIs(t, err, src.err)
}
