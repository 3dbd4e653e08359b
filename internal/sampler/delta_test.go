package sampler

import (
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/agbru/sysoptimizer/internal/record"
	"github.com/agbru/sysoptimizer/internal/sysmon"
)

func TestDeltaPercent_Scenarios(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		a, b sysmon.CounterSnapshot
		want float64
	}{
		{
			name: "half busy",
			a:    sysmon.CounterSnapshot{Idle: 1000, Kernel: 500, User: 300},
			b:    sysmon.CounterSnapshot{Idle: 1050, Kernel: 550, User: 350},
			want: 50.0,
		},
		{
			name: "no time elapsed",
			a:    sysmon.CounterSnapshot{Idle: 1000, Kernel: 500, User: 300},
			b:    sysmon.CounterSnapshot{Idle: 1000, Kernel: 500, User: 300},
			want: record.Sentinel,
		},
		{
			name: "fully idle",
			a:    sysmon.CounterSnapshot{Idle: 0, Kernel: 0, User: 0},
			b:    sysmon.CounterSnapshot{Idle: 200, Kernel: 200, User: 0},
			want: 0,
		},
		{
			name: "fully busy",
			a:    sysmon.CounterSnapshot{Idle: 10, Kernel: 10, User: 10},
			b:    sysmon.CounterSnapshot{Idle: 10, Kernel: 60, User: 60},
			want: 100,
		},
		{
			name: "counter went backwards",
			a:    sysmon.CounterSnapshot{Idle: 100, Kernel: 500, User: 300},
			b:    sysmon.CounterSnapshot{Idle: 150, Kernel: 400, User: 350},
			want: record.Sentinel,
		},
		{
			name: "idle larger than total clamps to zero",
			a:    sysmon.CounterSnapshot{},
			b:    sysmon.CounterSnapshot{Idle: 300, Kernel: 100, User: 100},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := DeltaPercent(tt.a, tt.b); got != tt.want {
				t.Errorf("DeltaPercent() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestDeltaPercent_RangeProperty checks that any monotonic snapshot pair with
// elapsed CPU time yields a percentage in [0, 100].
func TestDeltaPercent_RangeProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 500
	properties := gopter.NewProperties(parameters)

	properties.Property("usage is within [0, 100] when time elapsed", prop.ForAll(
		func(base, dKernel, dUser, idleShare uint64) bool {
			if dKernel+dUser == 0 {
				dUser = 1
			}
			dIdle := (dKernel + dUser) * idleShare / 100
			a := sysmon.CounterSnapshot{Idle: base, Kernel: base, User: base}
			b := sysmon.CounterSnapshot{Idle: base + dIdle, Kernel: base + dKernel, User: base + dUser}
			got := DeltaPercent(a, b)
			return got >= 0 && got <= 100
		},
		gen.UInt64Range(0, 1<<40),
		gen.UInt64Range(0, 1<<30),
		gen.UInt64Range(0, 1<<30),
		gen.UInt64Range(0, 100),
	))

	properties.TestingRun(t)
}

// TestDeltaPercent_ZeroTotalProperty checks the divide-by-zero guard for any
// idle delta.
func TestDeltaPercent_ZeroTotalProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 500
	properties := gopter.NewProperties(parameters)

	properties.Property("zero kernel+user delta is unavailable", prop.ForAll(
		func(kernel, user, idle, dIdle uint64) bool {
			a := sysmon.CounterSnapshot{Idle: idle, Kernel: kernel, User: user}
			b := sysmon.CounterSnapshot{Idle: idle + dIdle, Kernel: kernel, User: user}
			return DeltaPercent(a, b) == record.Sentinel
		},
		gen.UInt64Range(0, 1<<40),
		gen.UInt64Range(0, 1<<40),
		gen.UInt64Range(0, 1<<40),
		gen.UInt64Range(0, 1<<20),
	))

	properties.TestingRun(t)
}

func TestProcessPercent(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		a, b   sysmon.CounterSnapshot
		window uint64
		want   float64
	}{
		{
			name:   "quarter of the default window",
			a:      sysmon.CounterSnapshot{Kernel: 1000, User: 2000},
			b:      sysmon.CounterSnapshot{Kernel: 11000, User: 17000},
			window: DefaultProcessWindowTicks,
			want:   25,
		},
		{
			name:   "idle process",
			a:      sysmon.CounterSnapshot{Kernel: 5, User: 5},
			b:      sysmon.CounterSnapshot{Kernel: 5, User: 5},
			window: DefaultProcessWindowTicks,
			want:   0,
		},
		{
			name:   "two busy cores",
			a:      sysmon.CounterSnapshot{},
			b:      sysmon.CounterSnapshot{Kernel: 100_000, User: 100_000},
			window: DefaultProcessWindowTicks,
			want:   200,
		},
		{
			name:   "backwards counter contributes nothing",
			a:      sysmon.CounterSnapshot{Kernel: 500, User: 0},
			b:      sysmon.CounterSnapshot{Kernel: 100, User: 50_000},
			window: DefaultProcessWindowTicks,
			want:   50,
		},
		{
			name:   "zero window is unavailable",
			b:      sysmon.CounterSnapshot{Kernel: 10},
			window: 0,
			want:   record.Sentinel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := ProcessPercent(tt.a, tt.b, tt.window); got != tt.want {
				t.Errorf("ProcessPercent() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestProcessWindowTicks(t *testing.T) {
	t.Parallel()
	if got := ProcessWindowTicks(DefaultWait); got != DefaultProcessWindowTicks {
		t.Errorf("ProcessWindowTicks(DefaultWait) = %d, want %d", got, DefaultProcessWindowTicks)
	}
	if got := ProcessWindowTicks(250 * time.Millisecond); got != 250_000 {
		t.Errorf("ProcessWindowTicks(250ms) = %d, want 250000", got)
	}
	if got := ProcessWindowTicks(0); got != 0 {
		t.Errorf("ProcessWindowTicks(0) = %d, want 0", got)
	}
}
