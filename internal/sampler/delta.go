package sampler

import (
	"time"

	"github.com/agbru/sysoptimizer/internal/record"
	"github.com/agbru/sysoptimizer/internal/sysmon"
)

// DefaultWait is the pause between the two snapshots of a delta sample.
const DefaultWait = 100 * time.Millisecond

// DefaultProcessWindowTicks is the divisor that turns a per-process CPU time
// delta into a percentage for the default 100ms window: 100ms expressed in
// sysmon ticks. ProcessWindowTicks derives the divisor for other windows.
const DefaultProcessWindowTicks = 100_000

// DeltaPercent returns the share of non-idle time between two system
// snapshots, in percent.
//
// It returns record.Sentinel when no time elapsed between the snapshots
// (kernel+user delta is zero) or when a counter went backwards. The result is
// clamped to [0, 100].
func DeltaPercent(a, b sysmon.CounterSnapshot) float64 {
	if b.Kernel < a.Kernel || b.User < a.User || b.Idle < a.Idle {
		return record.Sentinel
	}
	total := (b.Kernel - a.Kernel) + (b.User - a.User)
	if total == 0 {
		return record.Sentinel
	}
	idle := b.Idle - a.Idle
	usage := (1 - float64(idle)/float64(total)) * 100
	return clampPercent(usage)
}

// ProcessPercent returns the CPU time a process consumed between two
// snapshots as a percentage of windowTicks. A process running on several
// cores can exceed 100.
func ProcessPercent(a, b sysmon.CounterSnapshot, windowTicks uint64) float64 {
	if windowTicks == 0 {
		return record.Sentinel
	}
	var used uint64
	if b.Kernel > a.Kernel {
		used += b.Kernel - a.Kernel
	}
	if b.User > a.User {
		used += b.User - a.User
	}
	return float64(used) / float64(windowTicks) * 100
}

// ProcessWindowTicks converts a sampling window to sysmon ticks.
func ProcessWindowTicks(wait time.Duration) uint64 {
	if wait <= 0 {
		return 0
	}
	return uint64(wait / time.Microsecond)
}

func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
