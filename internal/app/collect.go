package app

import (
	"context"

	"github.com/agbru/sysoptimizer/internal/cli"
	"github.com/agbru/sysoptimizer/internal/collector"
	"github.com/agbru/sysoptimizer/internal/config"
	"github.com/agbru/sysoptimizer/internal/logging"
	"github.com/agbru/sysoptimizer/internal/metrics"
	"github.com/agbru/sysoptimizer/internal/tui"
)

// runCollect runs the collection loop until the configured duration or cycle
// count is reached, or ctx is canceled.
func (a *Application) runCollect(ctx context.Context) error {
	st, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	m := metrics.New()
	collect := func(ctx context.Context, reporter collector.CycleReporter) (collector.Summary, error) {
		if a.Config.MetricsFile != "" {
			reporter = &textfileReporter{
				CycleReporter: reporter,
				metrics:       m,
				path:          a.Config.MetricsFile,
				logger:        a.logger,
			}
		}
		c := collector.New(a.source(), st,
			collector.WithLogger(a.logger),
			collector.WithRecorder(m),
			collector.WithReporter(reporter),
			collector.WithStopCondition(stopCondition(a.Config)),
			collector.WithInterval(a.Config.Interval),
			collector.WithCPUWait(a.Config.CPUWait),
			collector.WithProcessWait(a.Config.ProcessWait),
			collector.WithProcessLimit(a.Config.ProcessLimit),
			collector.WithDiskPath(a.Config.DiskPath),
		)
		return c.Run(ctx)
	}

	var sum collector.Summary
	switch {
	case a.Config.TUI:
		sum, err = tui.Run(ctx, collect, Version, a.tuiOpts...)
	case a.Config.Quiet:
		sum, err = collect(ctx, collector.NullReporter{})
	default:
		sum, err = collect(ctx, cli.NewConsoleReporter(a.Out))
	}

	a.logger.Info("collection finished",
		logging.Int("cycles", sum.Cycles),
		logging.Int("system_rows", sum.SystemRows),
		logging.Int("process_rows", sum.ProcessRows),
		logging.Int("insert_failures", sum.InsertFailures),
		logging.Duration("elapsed", sum.Elapsed))
	// The console reporter prints its own summary; the dashboard leaves
	// nothing on screen once it exits.
	if a.Config.TUI && !a.Config.Quiet {
		cli.DisplaySummary(a.Out, sum)
	}
	return err
}

// stopCondition stops on whichever of duration and cycle count comes first.
// Zero values disable the matching bound.
func stopCondition(cfg config.AppConfig) collector.StopCondition {
	return collector.AnyOf(
		collector.StopAfter(cfg.Duration),
		collector.StopAfterCycles(cfg.MaxCycles),
	)
}

// textfileReporter rewrites the Prometheus textfile after every cycle.
type textfileReporter struct {
	collector.CycleReporter
	metrics *metrics.Metrics
	path    string
	logger  logging.Logger
}

func (r *textfileReporter) CycleCompleted(res collector.CycleResult) {
	r.CycleReporter.CycleCompleted(res)
	if err := r.metrics.WriteTextfile(r.path); err != nil {
		r.logger.Warn("cannot write metrics file",
			logging.String("path", r.path),
			logging.Err(err))
	}
}
