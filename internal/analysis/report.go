package analysis

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/agbru/sysoptimizer/internal/record"
)

// Options tunes the analysis.
type Options struct {
	IdleThreshold    float64       // CPU percent below which a row is idle
	SpikeWindow      int           // rolling mean window, in samples
	SpikeThreshold   float64       // percentage points above the mean
	MinSpikeDuration time.Duration // shortest long spike reported
	MatchWindow      time.Duration // process rows within ±MatchWindow of a spike
	TopProcesses     int
	RecentRows       int // classified rows kept for display
}

// DefaultOptions returns the thresholds the collector ships with.
func DefaultOptions() Options {
	return Options{
		IdleThreshold:    12,
		SpikeWindow:      10,
		SpikeThreshold:   10,
		MinSpikeDuration: 30 * time.Second,
		MatchWindow:      2 * time.Second,
		TopProcesses:     10,
		RecentRows:       5,
	}
}

// Report is the outcome of Analyze.
type Report struct {
	SystemRows  int
	ProcessRows int

	// UnparsableRows counts rows left out of spike, correlation and process
	// analyses because their timestamp could not be read.
	UnparsableRows int

	States map[State]int
	Recent []Classified // last RecentRows classified rows

	Spikes      map[Metric][]Spike
	LongSpikes  []LongSpike // CPU only
	SpikeStates map[State]int

	Correlation       float64 // NaN when undefined
	CorrelationPoints int

	TopProcesses []ProcessCount
}

// Analyze runs every analysis over the given rows.
func Analyze(system []record.SystemSample, procs []record.ProcessSample, opts Options) Report {
	classified, states := Classify(system, opts.IdleThreshold)
	recent := classified
	if opts.RecentRows >= 0 && len(recent) > opts.RecentRows {
		recent = recent[len(recent)-opts.RecentRows:]
	}

	spikes := make(map[Metric][]Spike, len(Metrics))
	for _, m := range Metrics {
		spikes[m] = DetectSpikes(Series(system, m), opts.SpikeWindow, opts.SpikeThreshold)
	}
	cpu := Series(system, MetricCPU)
	corr, n := CorrelateCPU(system, procs)

	return Report{
		SystemRows:        len(system),
		ProcessRows:       len(procs),
		UnparsableRows:    countUnparsable(system, procs),
		States:            states,
		Recent:            recent,
		Spikes:            spikes,
		LongSpikes:        DetectLongSpikes(cpu, opts.SpikeWindow, opts.SpikeThreshold, opts.MinSpikeDuration),
		SpikeStates:       SpikeStates(spikes[MetricCPU], opts.IdleThreshold),
		Correlation:       corr,
		CorrelationPoints: n,
		TopProcesses:      TopSpikeProcesses(spikes[MetricCPU], procs, opts.MatchWindow, opts.TopProcesses),
	}
}

// Source reads stored rows. store.Store implements it.
type Source interface {
	SystemSamples(ctx context.Context) ([]record.SystemSample, error)
	ProcessSamples(ctx context.Context) ([]record.ProcessSample, error)
}

// Load reads both tables concurrently.
func Load(ctx context.Context, src Source) ([]record.SystemSample, []record.ProcessSample, error) {
	var (
		system []record.SystemSample
		procs  []record.ProcessSample
	)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		system, err = src.SystemSamples(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		procs, err = src.ProcessSamples(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return system, procs, nil
}
