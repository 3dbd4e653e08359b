package sampler

import (
	"bytes"
	"errors"
	"iter"
	"strings"
	"testing"
	"time"

	testingclock "k8s.io/utils/clock/testing"

	"github.com/agbru/sysoptimizer/internal/logging"
	"github.com/agbru/sysoptimizer/internal/record"
	"github.com/agbru/sysoptimizer/internal/sysmon"
)

// scriptedSource returns system snapshots from a fixed script.
type scriptedSource struct {
	snaps []sysmon.CounterSnapshot
	errs  []error
	calls int
}

func (s *scriptedSource) SystemTimes() (sysmon.CounterSnapshot, error) {
	i := s.calls
	s.calls++
	if i < len(s.errs) && s.errs[i] != nil {
		return sysmon.CounterSnapshot{}, s.errs[i]
	}
	return s.snaps[i], nil
}

func (s *scriptedSource) MemoryStatus() (sysmon.MemoryStatus, error) {
	return sysmon.MemoryStatus{}, nil
}

func (s *scriptedSource) DiskStatus(string) (sysmon.DiskStatus, error) {
	return sysmon.DiskStatus{}, nil
}

func (s *scriptedSource) Processes() (iter.Seq[sysmon.ProcessRef], error) {
	return func(func(sysmon.ProcessRef) bool) {}, nil
}

func (s *scriptedSource) OpenProcess(sysmon.ProcessRef) (sysmon.ProcessHandle, error) {
	return nil, errors.New("not supported")
}

// scriptedHandle returns process snapshots from a fixed script.
type scriptedHandle struct {
	snaps []sysmon.CounterSnapshot
	err   error
	calls int
}

func (h *scriptedHandle) Name() string { return "scripted" }

func (h *scriptedHandle) Times() (sysmon.CounterSnapshot, error) {
	i := h.calls
	h.calls++
	if h.err != nil && i > 0 {
		return sysmon.CounterSnapshot{}, h.err
	}
	return h.snaps[i], nil
}

func (h *scriptedHandle) MemoryBytes() (uint64, error) { return 0, nil }
func (h *scriptedHandle) Close() error                 { return nil }

func TestSampler_SampleCPUUsage(t *testing.T) {
	t.Parallel()
	start := time.Date(2024, 1, 1, 12, 0, 0, 0, time.Local)

	t.Run("computes delta and waits on the clock", func(t *testing.T) {
		t.Parallel()
		clk := testingclock.NewFakeClock(start)
		src := &scriptedSource{snaps: []sysmon.CounterSnapshot{
			{Idle: 1000, Kernel: 500, User: 300},
			{Idle: 1050, Kernel: 550, User: 350},
		}}
		s := New(src, WithClock(clk))

		got := s.SampleCPUUsage(DefaultWait)
		if got != 50.0 {
			t.Errorf("SampleCPUUsage() = %v, want 50", got)
		}
		if elapsed := clk.Since(start); elapsed != DefaultWait {
			t.Errorf("clock advanced %s, want %s", elapsed, DefaultWait)
		}
	})

	t.Run("first snapshot failure is unavailable", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		src := &scriptedSource{errs: []error{errors.New("denied")}}
		s := New(src,
			WithClock(testingclock.NewFakeClock(start)),
			WithLogger(logging.NewLogger(&buf, "sampler")))
		if got := s.SampleCPUUsage(DefaultWait); got != record.Sentinel {
			t.Errorf("SampleCPUUsage() = %v, want sentinel", got)
		}
		if !strings.Contains(buf.String(), "sample cpu: denied") {
			t.Errorf("log should name the unavailable metric, got: %s", buf.String())
		}
	})

	t.Run("second snapshot failure is unavailable", func(t *testing.T) {
		t.Parallel()
		src := &scriptedSource{
			snaps: []sysmon.CounterSnapshot{{Idle: 1, Kernel: 1, User: 1}, {}},
			errs:  []error{nil, errors.New("gone")},
		}
		s := New(src, WithClock(testingclock.NewFakeClock(start)))
		if got := s.SampleCPUUsage(DefaultWait); got != record.Sentinel {
			t.Errorf("SampleCPUUsage() = %v, want sentinel", got)
		}
	})
}

func TestSampler_SampleProcessCPU(t *testing.T) {
	t.Parallel()
	start := time.Date(2024, 1, 1, 12, 0, 0, 0, time.Local)

	t.Run("normalizes by the wait window", func(t *testing.T) {
		t.Parallel()
		h := &scriptedHandle{snaps: []sysmon.CounterSnapshot{
			{Kernel: 0, User: 0},
			{Kernel: 20_000, User: 30_000},
		}}
		s := New(&scriptedSource{}, WithClock(testingclock.NewFakeClock(start)))
		got, err := s.SampleProcessCPU(h, DefaultWait)
		if err != nil {
			t.Fatalf("SampleProcessCPU() error = %v", err)
		}
		if got != 50 {
			t.Errorf("SampleProcessCPU() = %v, want 50", got)
		}
	})

	t.Run("process exiting mid-sample is an error", func(t *testing.T) {
		t.Parallel()
		h := &scriptedHandle{
			snaps: []sysmon.CounterSnapshot{{}},
			err:   errors.New("process exited"),
		}
		s := New(&scriptedSource{}, WithClock(testingclock.NewFakeClock(start)))
		_, err := s.SampleProcessCPU(h, DefaultWait)
		if err == nil {
			t.Fatal("expected an error when the second read fails")
		}
		if !errors.Is(err, h.err) || !strings.HasPrefix(err.Error(), "process times: ") {
			t.Errorf("SampleProcessCPU() error = %v, want wrapped %v", err, h.err)
		}
	})

	t.Run("zero window is rejected", func(t *testing.T) {
		t.Parallel()
		s := New(&scriptedSource{}, WithClock(testingclock.NewFakeClock(start)))
		if _, err := s.SampleProcessCPU(&scriptedHandle{}, 0); err == nil {
			t.Error("expected an error for a zero window")
		}
	})
}
