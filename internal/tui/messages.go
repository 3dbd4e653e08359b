package tui

import (
	"time"

	"github.com/agbru/sysoptimizer/internal/collector"
	"github.com/agbru/sysoptimizer/internal/metrics"
)

// CycleStartedMsg is sent when the collector begins a cycle.
type CycleStartedMsg struct {
	Cycle int
	At    time.Time
}

// CycleMsg carries a completed cycle.
type CycleMsg struct {
	Result collector.CycleResult
}

// StoppedMsg is sent once the loop has ended.
type StoppedMsg struct {
	Summary collector.Summary
}

// FinishedMsg is sent when the collection function has returned.
type FinishedMsg struct {
	Err error
}

// TickMsg drives the elapsed timer and self-memory sampling.
type TickMsg time.Time

// SelfMemoryMsg carries the collector's own memory footprint.
type SelfMemoryMsg metrics.SelfMemory

// ContextCancelledMsg is sent when the parent context is done.
type ContextCancelledMsg struct {
	Err error
}
