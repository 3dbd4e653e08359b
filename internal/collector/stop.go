package collector

import "time"

// Status is what a StopCondition sees at the top of each cycle.
type Status struct {
	Started time.Time
	Now     time.Time
	Cycles  int // cycles completed so far
}

// Elapsed returns the time since the loop started.
func (s Status) Elapsed() time.Duration { return s.Now.Sub(s.Started) }

// StopCondition reports whether the loop should stop before starting another
// cycle.
type StopCondition func(Status) bool

// StopAfter stops once d has elapsed since the loop started. A
// non-positive d never stops.
func StopAfter(d time.Duration) StopCondition {
	return func(s Status) bool {
		return d > 0 && s.Elapsed() >= d
	}
}

// StopAfterCycles stops once n cycles completed. A non-positive n never stops.
func StopAfterCycles(n int) StopCondition {
	return func(s Status) bool {
		return n > 0 && s.Cycles >= n
	}
}

// AnyOf stops as soon as one of conds does. Nil conditions are ignored.
func AnyOf(conds ...StopCondition) StopCondition {
	return func(s Status) bool {
		for _, c := range conds {
			if c != nil && c(s) {
				return true
			}
		}
		return false
	}
}

// Never keeps the loop running until its context is canceled.
func Never(Status) bool { return false }
