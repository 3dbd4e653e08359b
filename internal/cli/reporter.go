package cli

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/agbru/sysoptimizer/internal/collector"
	"github.com/agbru/sysoptimizer/internal/format"
	"github.com/agbru/sysoptimizer/internal/ui"
)

// ConsoleReporter prints one line per cycle and animates a spinner while a
// cycle is sampling.
type ConsoleReporter struct {
	out     io.Writer
	mu      sync.Mutex
	spinner Spinner
}

var _ collector.CycleReporter = (*ConsoleReporter)(nil)

// NewConsoleReporter creates a reporter writing to out.
func NewConsoleReporter(out io.Writer) *ConsoleReporter {
	return &ConsoleReporter{out: out}
}

// CycleStarted starts the spinner.
func (r *ConsoleReporter) CycleStarted(cycle int, at time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.spinner == nil {
		r.spinner = newSpinner(r.out)
	}
	r.spinner.UpdateSuffix(fmt.Sprintf(" cycle %d sampling since %s", cycle, at.Format(time.TimeOnly)))
	r.spinner.Start()
}

// CycleCompleted stops the spinner and prints the cycle line.
func (r *ConsoleReporter) CycleCompleted(res collector.CycleResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.spinner != nil {
		r.spinner.Stop()
	}
	fmt.Fprintln(r.out, FormatCycleLine(res))
}

// Stopped prints the run summary.
func (r *ConsoleReporter) Stopped(sum collector.Summary) {
	r.mu.Lock()
	defer r.mu.Unlock()
	DisplaySummary(r.out, sum)
}

// FormatCycleLine renders a cycle as a single console line.
func FormatCycleLine(res collector.CycleResult) string {
	t := ui.Current()
	s := res.System
	line := fmt.Sprintf("%s  cpu %s  mem %s  disk %s  %d processes",
		t.Paint(t.Dim, s.Timestamp),
		t.Paint(t.UsageColor(s.CPUUsage), format.Percent(s.CPUUsage)),
		t.Paint(t.UsageColor(s.MemoryUsage), format.Percent(s.MemoryUsage)),
		t.Paint(t.UsageColor(s.DiskUsage), format.Percent(s.DiskUsage)),
		res.ProcessRows)
	if res.Skipped > 0 {
		line += fmt.Sprintf(" (%d skipped)", res.Skipped)
	}
	if res.InsertFailures > 0 {
		line += t.Paint(t.Bad, fmt.Sprintf("  %d insert failures", res.InsertFailures))
	}
	return line
}
