package ui

import (
	"slices"
	"testing"

	"github.com/agbru/sysoptimizer/internal/record"
)

func TestHistory_KeepsMostRecent(t *testing.T) {
	t.Parallel()
	h := NewHistory(3)
	for _, v := range []float64{1, 2, record.Sentinel, 4} {
		h.Add(v)
	}
	if got, want := h.Values(), []float64{2, record.Sentinel, 4}; !slices.Equal(got, want) {
		t.Errorf("Values() = %v, want %v", got, want)
	}
	if v, ok := h.Last(); !ok || v != 4 {
		t.Errorf("Last() = %v, %v, want 4, true", v, ok)
	}

	h.SetLimit(2)
	if got, want := h.Values(), []float64{record.Sentinel, 4}; !slices.Equal(got, want) {
		t.Errorf("after SetLimit(2) Values() = %v, want %v", got, want)
	}
	h.SetLimit(10)
	if h.Len() != 2 || h.Limit() != 10 {
		t.Errorf("growing should keep samples, got len %d limit %d", h.Len(), h.Limit())
	}
}

func TestHistory_LastOfUnavailable(t *testing.T) {
	t.Parallel()
	h := NewHistory(0)
	if h.Limit() != 1 {
		t.Errorf("Limit() = %d, want 1", h.Limit())
	}
	if _, ok := h.Last(); ok {
		t.Error("empty history should report no sample")
	}
	h.Add(record.Sentinel)
	if v, ok := h.Last(); !ok || !record.IsUnavailable(v) {
		t.Errorf("Last() = %v, %v, want the sentinel", v, ok)
	}
}

func TestHistory_ValuesIsACopy(t *testing.T) {
	t.Parallel()
	h := NewHistory(2)
	h.Add(5)
	h.Values()[0] = 99
	if v, _ := h.Last(); v != 5 {
		t.Errorf("history changed through Values(), Last() = %v", v)
	}
}

func TestSparkline(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		values []float64
		want   string
	}{
		{"empty", nil, ""},
		{"levels", []float64{0, 50, 100}, "▁▅█"},
		{"unavailable is a gap", []float64{20, record.Sentinel, record.Sentinel, 90}, "▂  ▇"},
		{"out of range is clamped", []float64{-10, 150}, "▁█"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Sparkline(tt.values); got != tt.want {
				t.Errorf("Sparkline(%v) = %q, want %q", tt.values, got, tt.want)
			}
		})
	}
}

func TestSparkline_Monotonic(t *testing.T) {
	t.Parallel()
	runes := []rune(Sparkline([]float64{0, 14, 29, 43, 57, 71, 86, 100}))
	for i := 1; i < len(runes); i++ {
		if runes[i] <= runes[i-1] {
			t.Errorf("level %d (%c) should be above level %d (%c)", i, runes[i], i-1, runes[i-1])
		}
	}
}

func TestBrailleChart(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		values []float64
		width  int
		rows   int
		want   []string
	}{
		{"full column on the right", []float64{100}, 1, 1, []string{"⢸"}},
		{"zero keeps the baseline dot", []float64{0}, 1, 1, []string{"⢀"}},
		{"unavailable column stays empty", []float64{100, record.Sentinel}, 1, 1, []string{"⡇"}},
		{"area spans rows", []float64{50}, 1, 2, []string{"⢀", "⢸"}},
		{"right aligned", []float64{100}, 3, 1, []string{"⠀⠀⢸"}},
		{"keeps the most recent samples", []float64{100, 100, 0, 0}, 1, 1, []string{"⣀"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := BrailleChart(tt.values, tt.width, tt.rows); !slices.Equal(got, tt.want) {
				t.Errorf("BrailleChart() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBrailleChart_Dimensions(t *testing.T) {
	t.Parallel()
	lines := BrailleChart([]float64{0, 50, record.Sentinel, 100}, 10, 3)
	if len(lines) != 3 {
		t.Fatalf("got %d rows, want 3", len(lines))
	}
	for i, line := range lines {
		if n := len([]rune(line)); n != 10 {
			t.Errorf("row %d has %d cells, want 10", i, n)
		}
	}
	if BrailleChart(nil, 10, 3) != nil || BrailleChart([]float64{1}, 0, 3) != nil {
		t.Error("expected nil without values or width")
	}
}

func TestDownsample(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		values []float64
		n      int
		want   []float64
	}{
		{"short series is copied", []float64{1, 2}, 5, []float64{1, 2}},
		{"bucket means", []float64{10, 20, 30, 40}, 2, []float64{15, 35}},
		{"uneven buckets", []float64{10, 20, 30, 40, 50}, 2, []float64{15, 40}},
		{"unavailable samples are ignored", []float64{record.Sentinel, 30, 50, record.Sentinel}, 2, []float64{30, 50}},
		{"all unavailable bucket", []float64{record.Sentinel, record.Sentinel, 30, 50}, 2, []float64{record.Sentinel, 40}},
		{"no buckets", []float64{1}, 0, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Downsample(tt.values, tt.n); !slices.Equal(got, tt.want) {
				t.Errorf("Downsample(%v, %d) = %v, want %v", tt.values, tt.n, got, tt.want)
			}
		})
	}
}

func TestStats(t *testing.T) {
	t.Parallel()
	got := Stats([]float64{10, record.Sentinel, 30})
	want := SeriesStats{Min: 10, Mean: 20, Max: 30, Available: 2, Unavailable: 1}
	if got != want {
		t.Errorf("Stats() = %+v, want %+v", got, want)
	}

	none := Stats([]float64{record.Sentinel})
	if !record.IsUnavailable(none.Min) || !record.IsUnavailable(none.Mean) || !record.IsUnavailable(none.Max) {
		t.Errorf("Stats() of unavailable samples = %+v, want sentinels", none)
	}
}
