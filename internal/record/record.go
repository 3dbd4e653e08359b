// Package record defines the rows the collector persists: one SystemSample per
// cycle and one ProcessSample per successfully sampled process.
package record

import "time"

// Sentinel marks a measurement that could not be taken. It is distinct from a
// genuine 0% reading.
const Sentinel = -1.0

// TimestampLayout is the textual timestamp format stored in every row
// (YYYY-MM-DD HH:MM:SS, local time, second resolution). Downstream readers
// parse this exact layout.
const TimestampLayout = "2006-01-02 15:04:05"

// Table names of the two row kinds.
const (
	SystemTable  = "system_stats"
	ProcessTable = "process_stats"
)

// SystemSample is a host-wide reading taken once per cycle.
type SystemSample struct {
	Timestamp   string
	CPUUsage    float64 // percent or Sentinel
	MemoryUsage float64 // percent or Sentinel
	DiskUsage   float64 // percent or Sentinel
}

// ProcessSample is a per-process reading taken once per cycle.
type ProcessSample struct {
	Timestamp       string
	ProcessName     string
	MemoryUsageKB   uint64
	CPUUsagePercent float64
}

// FormatTimestamp renders t in local time using TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.Local().Format(TimestampLayout)
}

// isoLayout is TimestampLayout with the ISO 8601 date/time separator.
const isoLayout = "2006-01-02T15:04:05"

// ParseTimestamp parses a stored timestamp back into local time. Rows written
// by other tools may carry fractional seconds or a "T" separator; both are
// accepted.
func ParseTimestamp(s string) (time.Time, error) {
	t, err := time.ParseInLocation(TimestampLayout, s, time.Local)
	if err == nil {
		return t, nil
	}
	if t, isoErr := time.ParseInLocation(isoLayout, s, time.Local); isoErr == nil {
		return t, nil
	}
	return time.Time{}, err
}

// IsUnavailable reports whether v is the Sentinel value.
func IsUnavailable(v float64) bool {
	return v == Sentinel
}

// Percent returns used/total as a percentage, or Sentinel when total is zero.
func Percent(used, total uint64) float64 {
	if total == 0 {
		return Sentinel
	}
	return float64(used) / float64(total) * 100
}
