package app

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agbru/sysoptimizer/internal/analysis"
	"github.com/agbru/sysoptimizer/internal/cli"
	"github.com/agbru/sysoptimizer/internal/logging"
)

func (a *Application) newReportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Analyze the collected rows: idle time, spikes and correlations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runReport(cmd.Context())
		},
	}
}

// analysisOptions maps the configuration onto analysis.Options.
func (a *Application) analysisOptions() analysis.Options {
	opts := analysis.DefaultOptions()
	opts.IdleThreshold = a.Config.IdleThreshold
	opts.SpikeWindow = a.Config.SpikeWindow
	opts.SpikeThreshold = a.Config.SpikeThreshold
	opts.MinSpikeDuration = a.Config.MinSpikeDuration
	opts.MatchWindow = a.Config.SpikeMatchWindow
	opts.TopProcesses = a.Config.TopProcesses
	return opts
}

func (a *Application) runReport(ctx context.Context) error {
	st, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	system, procs, err := analysis.Load(ctx, st)
	if err != nil {
		return err
	}
	a.logger.Debug("rows loaded",
		logging.Int("system_rows", len(system)),
		logging.Int("process_rows", len(procs)))

	rep := analysis.Analyze(system, procs, a.analysisOptions())
	if rep.UnparsableRows > 0 {
		a.logger.Warn("rows with an unreadable timestamp skipped", logging.Int("rows", rep.UnparsableRows))
	}

	fmt.Fprintf(a.Out, "Report for %s\n", st.Path())
	cli.DisplayReport(a.Out, rep)
	cli.DisplayHistory(a.Out, system, cli.HistoryWidth)
	return nil
}
