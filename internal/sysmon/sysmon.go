// Package sysmon reads point-in-time host counters: system CPU times, memory
// load, disk usage and per-process CPU time and memory.
package sysmon

import (
	"iter"
	"math"
)

// TicksPerSecond is the resolution of CounterSnapshot values (one tick per
// microsecond).
const TicksPerSecond = 1_000_000

// CounterSnapshot holds cumulative CPU time counters in ticks.
// For system-wide snapshots Kernel includes Idle; for processes Idle is zero.
type CounterSnapshot struct {
	Idle   uint64
	Kernel uint64
	User   uint64
}

// MemoryStatus is a single physical-memory reading.
type MemoryStatus struct {
	LoadPercent float64 // 0.0 .. 100.0
	TotalBytes  uint64
	AvailBytes  uint64
}

// DiskStatus is a single volume reading.
type DiskStatus struct {
	TotalBytes uint64
	FreeBytes  uint64
}

// ProcessRef identifies a process found during enumeration. It carries no OS
// resources; OpenProcess acquires them.
type ProcessRef struct {
	PID int32
}

// ProcessHandle is an opened process. Callers must Close it, including when a
// read fails.
type ProcessHandle interface {
	Name() string
	Times() (CounterSnapshot, error)
	MemoryBytes() (uint64, error)
	Close() error
}

// Source is the set of OS reads the collector depends on.
type Source interface {
	SystemTimes() (CounterSnapshot, error)
	MemoryStatus() (MemoryStatus, error)
	DiskStatus(path string) (DiskStatus, error)
	// Processes lists the processes running right now. The sequence is a
	// single pass over that listing; call Processes again for a fresh one.
	Processes() (iter.Seq[ProcessRef], error)
	OpenProcess(ref ProcessRef) (ProcessHandle, error)
}

// SecondsToTicks converts a CPU time in seconds to ticks.
func SecondsToTicks(s float64) uint64 {
	if s <= 0 || math.IsNaN(s) {
		return 0
	}
	return uint64(math.Round(s * TicksPerSecond))
}
