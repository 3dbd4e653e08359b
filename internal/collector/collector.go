package collector

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"k8s.io/utils/clock"

	apperrors "github.com/agbru/sysoptimizer/internal/errors"
	"github.com/agbru/sysoptimizer/internal/logging"
	"github.com/agbru/sysoptimizer/internal/record"
	"github.com/agbru/sysoptimizer/internal/sampler"
	"github.com/agbru/sysoptimizer/internal/sysmon"
)

// Defaults of the loop cadence.
const (
	DefaultDuration = 60 * time.Second
	DefaultInterval = 2 * time.Second
)

// Reasons a process is skipped for a cycle, used as metric labels.
const (
	SkipOpen   = "open"
	SkipName   = "name"
	SkipCPU    = "cpu"
	SkipMemory = "memory"
)

// ErrAlreadyRunning is returned by Run when the collector is already running.
var ErrAlreadyRunning = errors.New("collector is already running")

// State is the lifecycle state of a Collector.
type State int32

const (
	StateStopped State = iota
	StateRunning
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// CycleResult describes one completed cycle.
type CycleResult struct {
	Cycle          int
	System         record.SystemSample
	Processes      []record.ProcessSample // rows appended this cycle
	SystemRows     int
	ProcessRows    int
	Skipped        int
	InsertFailures int
	Elapsed        time.Duration
}

// Summary aggregates a whole run.
type Summary struct {
	Cycles         int
	SystemRows     int
	ProcessRows    int
	Skipped        int
	InsertFailures int
	Elapsed        time.Duration
	Canceled       bool
}

func (s *Summary) add(r CycleResult) {
	s.Cycles++
	s.SystemRows += r.SystemRows
	s.ProcessRows += r.ProcessRows
	s.Skipped += r.Skipped
	s.InsertFailures += r.InsertFailures
}

// Collector is the two-state sampling loop.
type Collector struct {
	source  sysmon.Source
	store   Store
	sampler *sampler.Sampler

	clock    clock.Clock
	logger   logging.Logger
	recorder Recorder
	reporter CycleReporter
	tracer   trace.Tracer
	stop     StopCondition

	interval     time.Duration
	cpuWait      time.Duration
	processWait  time.Duration
	processLimit int
	diskPath     string

	state atomic.Int32
}

// Option configures a Collector.
type Option func(*Collector)

// WithClock replaces the real clock. Every wait of the loop and of the
// sampler goes through it.
func WithClock(c clock.Clock) Option { return func(col *Collector) { col.clock = c } }

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option { return func(col *Collector) { col.logger = l } }

// WithRecorder sets the metrics sink.
func WithRecorder(r Recorder) Option { return func(col *Collector) { col.recorder = r } }

// WithReporter sets the progress sink.
func WithReporter(r CycleReporter) Option { return func(col *Collector) { col.reporter = r } }

// WithTracer replaces the tracer obtained from the global otel provider.
func WithTracer(t trace.Tracer) Option { return func(col *Collector) { col.tracer = t } }

// WithStopCondition sets when the loop stops. The default stops after
// DefaultDuration.
func WithStopCondition(s StopCondition) Option { return func(col *Collector) { col.stop = s } }

// WithInterval sets the pause between cycles.
func WithInterval(d time.Duration) Option { return func(col *Collector) { col.interval = d } }

// WithCPUWait sets the window of the system CPU sample.
func WithCPUWait(d time.Duration) Option { return func(col *Collector) { col.cpuWait = d } }

// WithProcessWait sets the window of each per-process CPU sample.
func WithProcessWait(d time.Duration) Option { return func(col *Collector) { col.processWait = d } }

// WithProcessLimit caps the processes sampled per cycle. 0 samples all.
func WithProcessLimit(n int) Option { return func(col *Collector) { col.processLimit = n } }

// WithDiskPath sets the filesystem whose usage is recorded.
func WithDiskPath(p string) Option { return func(col *Collector) { col.diskPath = p } }

// New creates a stopped Collector reading from source and appending to store.
func New(source sysmon.Source, store Store, opts ...Option) *Collector {
	c := &Collector{
		source:      source,
		store:       store,
		clock:       clock.RealClock{},
		logger:      logging.NewNopLogger(),
		recorder:    nopRecorder{},
		reporter:    NullReporter{},
		tracer:      otel.Tracer("github.com/agbru/sysoptimizer/internal/collector"),
		stop:        StopAfter(DefaultDuration),
		interval:    DefaultInterval,
		cpuWait:     sampler.DefaultWait,
		processWait: sampler.DefaultWait,
		diskPath:    "/",
	}
	for _, opt := range opts {
		opt(c)
	}
	c.sampler = sampler.New(source, sampler.WithClock(c.clock), sampler.WithLogger(c.logger))
	return c
}

// State returns the current lifecycle state.
func (c *Collector) State() State { return State(c.state.Load()) }

// Run executes cycles until the stop condition holds or ctx is canceled.
// Both are checked only at the top of a cycle, so a started cycle always
// finishes. The returned error is ctx.Err() when the run was canceled.
func (c *Collector) Run(ctx context.Context) (Summary, error) {
	if !c.state.CompareAndSwap(int32(StateStopped), int32(StateRunning)) {
		return Summary{}, ErrAlreadyRunning
	}
	defer c.state.Store(int32(StateStopped))

	started := c.clock.Now()
	status := func(cycles int) Status {
		return Status{Started: started, Now: c.clock.Now(), Cycles: cycles}
	}
	c.logger.Info("collection started",
		logging.Duration("interval", c.interval),
		logging.String("disk_path", c.diskPath))

	var sum Summary
	for {
		if ctx.Err() != nil {
			sum.Canceled = true
			break
		}
		if c.stop(status(sum.Cycles)) {
			break
		}
		sum.add(c.runCycle(ctx, sum.Cycles+1))

		// A condition that already holds still holds after the pause.
		if c.stop(status(sum.Cycles)) {
			break
		}
		if !c.pause(ctx) {
			sum.Canceled = true
			break
		}
	}
	sum.Elapsed = c.clock.Since(started)

	c.logger.Info("collection stopped",
		logging.Int("cycles", sum.Cycles),
		logging.Int("system_rows", sum.SystemRows),
		logging.Int("process_rows", sum.ProcessRows),
		logging.Int("skipped", sum.Skipped),
		logging.Int("insert_failures", sum.InsertFailures),
		logging.Duration("elapsed", sum.Elapsed))
	c.reporter.Stopped(sum)

	if sum.Canceled {
		return sum, ctx.Err()
	}
	return sum, nil
}

func (c *Collector) pause(ctx context.Context) bool {
	if c.interval <= 0 {
		return ctx.Err() == nil
	}
	select {
	case <-ctx.Done():
		return false
	case <-c.clock.After(c.interval):
		return true
	}
}

func (c *Collector) runCycle(ctx context.Context, n int) CycleResult {
	ctx, span := c.tracer.Start(ctx, "collector.cycle", trace.WithAttributes(attribute.Int("cycle", n)))
	defer span.End()
	// Rows of a started cycle are written even if ctx is canceled meanwhile.
	ctx = context.WithoutCancel(ctx)

	begin := c.clock.Now()
	ts := record.FormatTimestamp(begin)
	c.reporter.CycleStarted(n, begin)

	res := CycleResult{Cycle: n}
	res.System = record.SystemSample{
		Timestamp:   ts,
		CPUUsage:    c.sampler.SampleCPUUsage(c.cpuWait),
		MemoryUsage: c.memoryUsage(),
		DiskUsage:   c.diskUsage(),
	}
	c.recorder.SystemSampled(res.System)
	if err := c.store.AppendSystemSample(ctx, res.System); err != nil {
		c.insertFailed(record.SystemTable, err, &res)
	} else {
		res.SystemRows++
		c.recorder.RowWritten(record.SystemTable)
	}

	c.sampleProcesses(ctx, ts, &res)

	res.Elapsed = c.clock.Since(begin)
	span.SetAttributes(
		attribute.Int("process_rows", res.ProcessRows),
		attribute.Int("skipped", res.Skipped),
		attribute.Int("insert_failures", res.InsertFailures),
	)
	c.recorder.CycleCompleted(res.Elapsed)
	c.reporter.CycleCompleted(res)
	c.logger.Debug("cycle completed",
		logging.Int("cycle", n),
		logging.Float64("cpu", res.System.CPUUsage),
		logging.Int("process_rows", res.ProcessRows),
		logging.Duration("elapsed", res.Elapsed))
	return res
}

func (c *Collector) memoryUsage() float64 {
	ms, err := c.source.MemoryStatus()
	if err != nil {
		c.logger.Debug("measurement unavailable", logging.Err(apperrors.SampleError{Metric: "memory", Cause: err}))
		return record.Sentinel
	}
	return ms.LoadPercent
}

func (c *Collector) diskUsage() float64 {
	ds, err := c.source.DiskStatus(c.diskPath)
	if err != nil {
		c.logger.Debug("measurement unavailable",
			logging.String("path", c.diskPath),
			logging.Err(apperrors.SampleError{Metric: "disk", Cause: err}))
		return record.Sentinel
	}
	if ds.FreeBytes > ds.TotalBytes {
		return record.Sentinel
	}
	return record.Percent(ds.TotalBytes-ds.FreeBytes, ds.TotalBytes)
}

func (c *Collector) sampleProcesses(ctx context.Context, ts string, res *CycleResult) {
	refs, err := c.source.Processes()
	if err != nil {
		c.logger.Warn("process listing unavailable", logging.Err(apperrors.SampleError{Metric: "processes", Cause: err}))
		return
	}
	attempted := 0
	for ref := range refs {
		if c.processLimit > 0 && attempted >= c.processLimit {
			break
		}
		attempted++

		row, reason, err := c.sampleProcess(ts, ref)
		if err != nil {
			res.Skipped++
			c.recorder.ProcessSkipped(reason)
			c.logger.Debug("process skipped",
				logging.Int("pid", int(ref.PID)),
				logging.String("reason", reason),
				logging.Err(err))
			continue
		}
		if err := c.store.AppendProcessSample(ctx, row); err != nil {
			c.insertFailed(record.ProcessTable, err, res)
			continue
		}
		res.ProcessRows++
		res.Processes = append(res.Processes, row)
		c.recorder.RowWritten(record.ProcessTable)
	}
}

// sampleProcess opens ref, measures it and releases it. On failure it returns
// the step that failed.
func (c *Collector) sampleProcess(ts string, ref sysmon.ProcessRef) (record.ProcessSample, string, error) {
	h, err := c.source.OpenProcess(ref)
	if err != nil {
		return record.ProcessSample{}, SkipOpen, apperrors.WrapError(err, "open pid %d", ref.PID)
	}
	defer func() {
		if err := h.Close(); err != nil {
			c.logger.Debug("close process handle", logging.Int("pid", int(ref.PID)), logging.Err(err))
		}
	}()

	name := h.Name()
	if name == "" {
		return record.ProcessSample{}, SkipName, errors.New("empty process name")
	}
	cpu, err := c.sampler.SampleProcessCPU(h, c.processWait)
	if err != nil {
		return record.ProcessSample{}, SkipCPU, err
	}
	mem, err := h.MemoryBytes()
	if err != nil {
		return record.ProcessSample{}, SkipMemory, apperrors.WrapError(err, "memory of %s", name)
	}
	return record.ProcessSample{
		Timestamp:       ts,
		ProcessName:     name,
		MemoryUsageKB:   mem / 1024,
		CPUUsagePercent: cpu,
	}, "", nil
}

func (c *Collector) insertFailed(table string, err error, res *CycleResult) {
	res.InsertFailures++
	c.recorder.InsertFailed(table)
	c.logger.Error("append failed", err, logging.String("table", table))
}
