// # Naming Conventions
//
// Functions in this package follow consistent naming patterns based on their behavior:
//
//   - Display* functions write formatted output to an [io.Writer].
//     Examples: [DisplaySummary], [DisplayReport], [DisplayHistory].
//
//   - Format* functions return a formatted string without performing I/O.
//     Examples: [FormatCycleLine].

package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/agbru/sysoptimizer/internal/analysis"
	"github.com/agbru/sysoptimizer/internal/collector"
	"github.com/agbru/sysoptimizer/internal/format"
	"github.com/agbru/sysoptimizer/internal/record"
	"github.com/agbru/sysoptimizer/internal/ui"
)

// DisplaySummary prints the totals of a collection run.
func DisplaySummary(out io.Writer, sum collector.Summary) {
	t := ui.Current()
	status := t.Paint(t.Good, "completed")
	if sum.Canceled {
		status = t.Paint(t.Warn, "interrupted")
	}
	fmt.Fprintf(out, "\n%sCollection %s%s after %s\n", t.Bold, status, t.Reset, format.Duration(sum.Elapsed))
	fmt.Fprintf(out, "  cycles           %d\n", sum.Cycles)
	fmt.Fprintf(out, "  system rows      %d\n", sum.SystemRows)
	fmt.Fprintf(out, "  process rows     %d\n", sum.ProcessRows)
	fmt.Fprintf(out, "  skipped          %d\n", sum.Skipped)
	if sum.InsertFailures > 0 {
		fmt.Fprintf(out, "  insert failures  %s\n", t.Paint(t.Bad, fmt.Sprint(sum.InsertFailures)))
	}
}

// DisplayReport prints the analysis of stored rows.
func DisplayReport(out io.Writer, rep analysis.Report) {
	t := ui.Current()
	heading := func(s string) { fmt.Fprintf(out, "\n%s%s%s\n", t.Bold, s, t.Reset) }

	fmt.Fprintf(out, "%d system rows, %d process rows\n", rep.SystemRows, rep.ProcessRows)
	if rep.SystemRows == 0 {
		fmt.Fprintln(out, "Nothing to analyze yet.")
		return
	}
	if rep.UnparsableRows > 0 {
		fmt.Fprintf(out, "%s\n", t.Paint(t.Warn,
			fmt.Sprintf("%d rows with an unreadable timestamp were left out of the time-based analyses", rep.UnparsableRows)))
	}

	heading("Idle/active classification")
	fmt.Fprintf(out, "idle %d, active %d, unavailable %d\n",
		rep.States[analysis.StateIdle], rep.States[analysis.StateActive], rep.States[analysis.StateUnavailable])
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TIMESTAMP\tCPU\tSTATE")
	for _, c := range rep.Recent {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", c.Timestamp, format.Percent(c.CPU), c.State)
	}
	_ = tw.Flush()

	heading("Spikes")
	for _, m := range analysis.Metrics {
		fmt.Fprintf(out, "%-7s %d\n", m, len(rep.Spikes[m]))
	}
	if spikes := rep.Spikes[analysis.MetricCPU]; len(spikes) > 0 {
		tw = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "CPU SPIKE\tVALUE\tROLLING MEAN")
		for _, s := range spikes {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", record.FormatTimestamp(s.Time), format.Percent(s.Value), format.Percent(s.RollingMean))
		}
		_ = tw.Flush()
	}
	fmt.Fprintf(out, "CPU spikes by state: idle %d, active %d\n",
		rep.SpikeStates[analysis.StateIdle], rep.SpikeStates[analysis.StateActive])

	heading("Long CPU spikes")
	if len(rep.LongSpikes) == 0 {
		fmt.Fprintln(out, "none")
	}
	for _, l := range rep.LongSpikes {
		fmt.Fprintf(out, "%s .. %s  %d samples  ~%s  peak %s\n",
			record.FormatTimestamp(l.Start), record.FormatTimestamp(l.End),
			l.Samples, format.Duration(l.Duration), format.Percent(l.Peak))
	}

	heading("Correlation")
	fmt.Fprintf(out, "system CPU vs total process CPU: %s (%d timestamps)\n",
		format.Correlation(rep.Correlation), rep.CorrelationPoints)

	heading("Processes most often on top during CPU spikes")
	if len(rep.TopProcesses) == 0 {
		fmt.Fprintln(out, "none")
		return
	}
	tw = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PROCESS\tSPIKES")
	for _, p := range rep.TopProcesses {
		fmt.Fprintf(tw, "%s\t%d\n", p.Name, p.Spikes)
	}
	_ = tw.Flush()
}

// HistoryWidth is the default number of cells of the DisplayHistory charts.
const HistoryWidth = 60

// historyChartRows is the height of the CPU chart in text rows.
const historyChartRows = 4

// DisplayHistory charts the stored system rows: a braille area chart of CPU
// and one sparkline per metric with its range. Rows are averaged into width
// buckets when there are more of them; unavailable readings are left out of
// the averages and show as gaps.
func DisplayHistory(out io.Writer, rows []record.SystemSample, width int) {
	if len(rows) == 0 || width <= 0 {
		return
	}
	t := ui.Current()
	fmt.Fprintf(out, "\n%sHistory%s (%s .. %s)\n", t.Bold, t.Reset, rows[0].Timestamp, rows[len(rows)-1].Timestamp)

	cpu := analysis.Column(rows, analysis.MetricCPU)
	for i, line := range ui.BrailleChart(ui.Downsample(cpu, width*2), width, historyChartRows) {
		axis := "    "
		switch i {
		case 0:
			axis = "100%"
		case historyChartRows - 1:
			axis = "  0%"
		}
		fmt.Fprintf(out, "%s %s\n", t.Paint(t.Dim, axis), line)
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "METRIC\tTREND\tMIN\tMEAN\tMAX\tUNAVAILABLE")
	for _, m := range analysis.Metrics {
		values := analysis.Column(rows, m)
		st := ui.Stats(values)
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\n",
			strings.ToUpper(string(m)), ui.Sparkline(ui.Downsample(values, width)),
			format.Percent(st.Min), format.Percent(st.Mean), format.Percent(st.Max), st.Unavailable)
	}
	_ = tw.Flush()
}
