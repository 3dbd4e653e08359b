package analysis

import (
	"time"

	"github.com/agbru/sysoptimizer/internal/record"
)

// Seed layout: a steady baseline followed by a CPU plateau, one row every
// SeedSpacing.
const (
	SeedBaselineRows = 10
	SeedPlateauRows  = 5
	SeedSpacing      = 10 * time.Second
	seedBaseline     = 10.0
	seedPlateau      = 20.0
)

// SeedRows returns synthetic system rows starting at start: SeedBaselineRows
// rows at 10% on every metric, then SeedPlateauRows rows with CPU at 20%.
// They exercise the report on a fresh database.
func SeedRows(start time.Time) []record.SystemSample {
	rows := make([]record.SystemSample, 0, SeedBaselineRows+SeedPlateauRows)
	for i := range SeedBaselineRows + SeedPlateauRows {
		cpu := seedBaseline
		if i >= SeedBaselineRows {
			cpu = seedPlateau
		}
		rows = append(rows, record.SystemSample{
			Timestamp:   record.FormatTimestamp(start.Add(time.Duration(i) * SeedSpacing)),
			CPUUsage:    cpu,
			MemoryUsage: seedBaseline,
			DiskUsage:   seedBaseline,
		})
	}
	return rows
}
