package collector

import (
	"time"

	"github.com/agbru/sysoptimizer/internal/record"
)

// Recorder receives counters about the loop's work. metrics.Metrics
// implements it.
type Recorder interface {
	CycleCompleted(elapsed time.Duration)
	SystemSampled(s record.SystemSample)
	RowWritten(table string)
	ProcessSkipped(reason string)
	InsertFailed(table string)
}

// CycleReporter is notified as cycles start and finish. Implementations
// render progress (console spinner, TUI) and must not block for long.
type CycleReporter interface {
	CycleStarted(cycle int, at time.Time)
	CycleCompleted(result CycleResult)
	Stopped(summary Summary)
}

// NullReporter is a no-op CycleReporter, used in quiet mode and tests.
type NullReporter struct{}

func (NullReporter) CycleStarted(int, time.Time) {}
func (NullReporter) CycleCompleted(CycleResult)  {}
func (NullReporter) Stopped(Summary)             {}

type nopRecorder struct{}

func (nopRecorder) CycleCompleted(time.Duration)      {}
func (nopRecorder) SystemSampled(record.SystemSample) {}
func (nopRecorder) RowWritten(string)                 {}
func (nopRecorder) ProcessSkipped(string)             {}
func (nopRecorder) InsertFailed(string)               {}
