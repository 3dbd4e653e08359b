// Package format renders durations, percentages and sizes for the console
// and the dashboard.
package format

import (
	"fmt"
	"math"
	"time"

	"github.com/c2h5oh/datasize"

	"github.com/agbru/sysoptimizer/internal/record"
)

// Duration formats d for display: microseconds below a millisecond,
// milliseconds below a second, whole tenths of a second below a minute and
// the default representation otherwise.
func Duration(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return fmt.Sprintf("%dµs", d.Microseconds())
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < time.Minute:
		return fmt.Sprintf("%.1fs", d.Seconds())
	default:
		return d.Round(time.Second).String()
	}
}

// Percent formats a usage percentage with one decimal. Unavailable values
// render as "n/a".
func Percent(v float64) string {
	if record.IsUnavailable(v) || math.IsNaN(v) {
		return "n/a"
	}
	return fmt.Sprintf("%.1f%%", v)
}

// Correlation formats a correlation coefficient; NaN renders as "n/a".
func Correlation(r float64) string {
	if math.IsNaN(r) {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", r)
}

// KB renders a size given in kilobytes in human-readable units.
func KB(kb uint64) string {
	return Bytes(kb * uint64(datasize.KB))
}

// Bytes renders a size in bytes in human-readable units.
func Bytes(b uint64) string {
	return datasize.ByteSize(b).HumanReadable()
}
