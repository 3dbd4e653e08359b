package analysis

import "github.com/agbru/sysoptimizer/internal/record"

// State is the activity class of a system row.
type State string

const (
	StateIdle        State = "idle"
	StateActive      State = "active"
	StateUnavailable State = "unavailable"
)

// Classified is a system row with its activity class.
type Classified struct {
	Timestamp string
	CPU       float64
	State     State
}

// ClassifyCPU returns the class of one CPU reading: idle below threshold,
// active otherwise.
func ClassifyCPU(cpu, threshold float64) State {
	switch {
	case record.IsUnavailable(cpu):
		return StateUnavailable
	case cpu < threshold:
		return StateIdle
	default:
		return StateActive
	}
}

// Classify labels every row and counts the rows per state.
func Classify(rows []record.SystemSample, threshold float64) ([]Classified, map[State]int) {
	out := make([]Classified, len(rows))
	counts := make(map[State]int, 3)
	for i, r := range rows {
		st := ClassifyCPU(r.CPUUsage, threshold)
		out[i] = Classified{Timestamp: r.Timestamp, CPU: r.CPUUsage, State: st}
		counts[st]++
	}
	return out, counts
}
