package sampler

import (
	"fmt"
	"time"

	"k8s.io/utils/clock"

	apperrors "github.com/agbru/sysoptimizer/internal/errors"
	"github.com/agbru/sysoptimizer/internal/logging"
	"github.com/agbru/sysoptimizer/internal/record"
	"github.com/agbru/sysoptimizer/internal/sysmon"
)

// Sampler takes two snapshots separated by a wait and reduces them to a
// percentage.
type Sampler struct {
	source sysmon.Source
	clock  clock.Clock
	logger logging.Logger
}

// Option configures a Sampler.
type Option func(*Sampler)

// WithClock replaces the real clock, mainly for tests.
func WithClock(c clock.Clock) Option {
	return func(s *Sampler) { s.clock = c }
}

// WithLogger sets the logger used for unavailable measurements.
func WithLogger(l logging.Logger) Option {
	return func(s *Sampler) { s.logger = l }
}

// New creates a Sampler reading from source.
func New(source sysmon.Source, opts ...Option) *Sampler {
	s := &Sampler{
		source: source,
		clock:  clock.RealClock{},
		logger: logging.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SampleCPUUsage measures system-wide CPU usage over wait. It returns
// record.Sentinel when either snapshot cannot be read or no CPU time elapsed.
func (s *Sampler) SampleCPUUsage(wait time.Duration) float64 {
	a, err := s.source.SystemTimes()
	if err != nil {
		s.unavailable(err)
		return record.Sentinel
	}
	s.clock.Sleep(wait)
	b, err := s.source.SystemTimes()
	if err != nil {
		s.unavailable(err)
		return record.Sentinel
	}
	return DeltaPercent(a, b)
}

func (s *Sampler) unavailable(err error) {
	s.logger.Debug("measurement unavailable", logging.Err(apperrors.SampleError{Metric: "cpu", Cause: err}))
}

// SampleProcessCPU measures the CPU share of an opened process over wait.
// An error means the process should be skipped for this cycle.
func (s *Sampler) SampleProcessCPU(h sysmon.ProcessHandle, wait time.Duration) (float64, error) {
	window := ProcessWindowTicks(wait)
	if window == 0 {
		return 0, fmt.Errorf("process sampling window %s is too short", wait)
	}
	a, err := h.Times()
	if err != nil {
		return 0, apperrors.WrapError(err, "process times")
	}
	s.clock.Sleep(wait)
	b, err := h.Times()
	if err != nil {
		return 0, apperrors.WrapError(err, "process times")
	}
	return ProcessPercent(a, b, window), nil
}
