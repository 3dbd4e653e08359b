package ui

import (
	"math"

	"github.com/agbru/sysoptimizer/internal/record"
)

// Gap is drawn by Sparkline where a measurement was unavailable.
const Gap = ' '

// sparkLevels are the eight block heights of a sparkline, lowest first.
var sparkLevels = []rune("▁▂▃▄▅▆▇█")

const brailleBlank = 0x2800

// brailleBits holds the dot bit of each position in a braille cell, indexed
// by dot row (top first) then dot column.
var brailleBits = [4][2]rune{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

// History keeps the most recent usage samples of one series, oldest first.
// Unavailable samples are kept so charts show them as gaps.
type History struct {
	values []float64
	limit  int
}

// NewHistory creates a history holding at most limit samples.
func NewHistory(limit int) *History {
	return &History{limit: max(limit, 1)}
}

// Add appends v, dropping the oldest sample when the history is full.
func (h *History) Add(v float64) {
	h.values = append(h.values, v)
	if over := len(h.values) - h.limit; over > 0 {
		h.values = h.values[over:]
	}
}

// SetLimit changes the capacity, keeping the most recent samples.
func (h *History) SetLimit(n int) {
	h.limit = max(n, 1)
	if over := len(h.values) - h.limit; over > 0 {
		h.values = h.values[over:]
	}
}

// Limit returns the capacity.
func (h *History) Limit() int { return h.limit }

// Len returns the number of samples held, unavailable ones included.
func (h *History) Len() int { return len(h.values) }

// Values returns a copy of the samples, oldest first.
func (h *History) Values() []float64 {
	return append([]float64(nil), h.values...)
}

// Last returns the most recent sample. ok is false when the history is empty;
// the sample itself may be record.Sentinel.
func (h *History) Last() (v float64, ok bool) {
	if len(h.values) == 0 {
		return 0, false
	}
	return h.values[len(h.values)-1], true
}

// Sparkline renders one block per value. Unavailable values become Gap.
func Sparkline(values []float64) string {
	out := make([]rune, len(values))
	for i, v := range values {
		if record.IsUnavailable(v) {
			out[i] = Gap
			continue
		}
		out[i] = sparkLevels[level(v, len(sparkLevels)-1)]
	}
	return string(out)
}

// BrailleChart renders values as a filled area chart of rows lines, each
// width braille cells wide. Every cell holds two samples; the most recent
// sample is in the right-most column. Unavailable samples leave their column
// empty.
func BrailleChart(values []float64, width, rows int) []string {
	if width <= 0 || rows <= 0 || len(values) == 0 {
		return nil
	}
	cols := width * 2
	if len(values) > cols {
		values = values[len(values)-cols:]
	}
	offset := cols - len(values)
	dots := rows * 4

	cells := make([][]rune, rows)
	for r := range cells {
		cells[r] = make([]rune, width)
		for c := range cells[r] {
			cells[r][c] = brailleBlank
		}
	}
	for i, v := range values {
		if record.IsUnavailable(v) {
			continue
		}
		x := offset + i
		for y := dots - 1 - level(v, dots-1); y < dots; y++ {
			cells[y/4][x/2] |= brailleBits[y%4][x%2]
		}
	}

	lines := make([]string, rows)
	for r, row := range cells {
		lines[r] = string(row)
	}
	return lines
}

// Downsample reduces values to at most n buckets of consecutive samples, each
// the mean of its available samples. A bucket without any available sample is
// record.Sentinel.
func Downsample(values []float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	if len(values) <= n {
		return append([]float64(nil), values...)
	}
	out := make([]float64, n)
	for i := range n {
		lo, hi := i*len(values)/n, (i+1)*len(values)/n
		sum, count := 0.0, 0
		for _, v := range values[lo:hi] {
			if !record.IsUnavailable(v) {
				sum += v
				count++
			}
		}
		out[i] = record.Sentinel
		if count > 0 {
			out[i] = sum / float64(count)
		}
	}
	return out
}

// SeriesStats summarizes the available samples of a series.
type SeriesStats struct {
	Min, Mean, Max float64
	Available      int
	Unavailable    int
}

// Stats computes SeriesStats over values. Min, Mean and Max are
// record.Sentinel when no sample is available.
func Stats(values []float64) SeriesStats {
	st := SeriesStats{Min: record.Sentinel, Mean: record.Sentinel, Max: record.Sentinel}
	sum := 0.0
	for _, v := range values {
		if record.IsUnavailable(v) {
			st.Unavailable++
			continue
		}
		if st.Available == 0 || v < st.Min {
			st.Min = v
		}
		if st.Available == 0 || v > st.Max {
			st.Max = v
		}
		sum += v
		st.Available++
	}
	if st.Available > 0 {
		st.Mean = sum / float64(st.Available)
	}
	return st
}

// level maps a percentage onto 0..steps. Values outside 0..100, such as a
// multi-threaded process above 100%, are clamped.
func level(v float64, steps int) int {
	return int(math.Round(min(max(v, 0), 100) / 100 * float64(steps)))
}
