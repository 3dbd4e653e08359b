package tui

import (
	"fmt"
	"strings"

	"github.com/agbru/sysoptimizer/internal/format"
	"github.com/agbru/sysoptimizer/internal/record"
	"github.com/agbru/sysoptimizer/internal/ui"
)

// historyCapacity is the initial number of cycles kept per series.
const historyCapacity = 60

// ChartModel plots the host usage history: a braille chart of CPU above one
// sparkline per metric. Unavailable measurements are kept and drawn as gaps.
type ChartModel struct {
	cpuHistory  *ui.History
	memHistory  *ui.History
	diskHistory *ui.History
	width       int
	height      int
}

// NewChartModel creates a new chart panel.
func NewChartModel() ChartModel {
	return ChartModel{
		cpuHistory:  ui.NewHistory(historyCapacity),
		memHistory:  ui.NewHistory(historyCapacity),
		diskHistory: ui.NewHistory(historyCapacity),
	}
}

// SetSize updates dimensions and resizes the histories to the sparkline width.
func (c *ChartModel) SetSize(w, h int) {
	c.width = w
	c.height = h
	if n := c.sparklineWidth(); n > 0 {
		c.cpuHistory.SetLimit(n * 2) // the braille chart packs two samples per cell
		c.memHistory.SetLimit(n)
		c.diskHistory.SetLimit(n)
	}
}

// AddSample appends a system sample.
func (c *ChartModel) AddSample(s record.SystemSample) {
	c.cpuHistory.Add(s.CPUUsage)
	c.memHistory.Add(s.MemoryUsage)
	c.diskHistory.Add(s.DiskUsage)
}

// sparklineWidth is the number of cells left for a sparkline after the label
// and the trailing value.
func (c ChartModel) sparklineWidth() int {
	return c.width - 2 - 2 - 6 - 8
}

// View renders the chart panel.
func (c ChartModel) View() string {
	var b strings.Builder
	b.WriteString(panelTitleStyle.Render(" History"))

	inner := max(c.height-2, 0)
	chartRows := inner - 1 - 3
	if chartRows >= 2 && c.cpuHistory.Len() > 0 {
		for _, line := range ui.BrailleChart(c.cpuHistory.Values(), c.sparklineWidth()+6, chartRows) {
			b.WriteString("\n  ")
			b.WriteString(chartStyle.Render(line))
		}
	}

	if inner >= 4 {
		b.WriteString("\n")
		b.WriteString(c.sparkline("CPU", c.cpuHistory, cpuSparklineStyle.Render))
		b.WriteString("\n")
		b.WriteString(c.sparkline("MEM", c.memHistory, memSparklineStyle.Render))
		b.WriteString("\n")
		b.WriteString(c.sparkline("DISK", c.diskHistory, diskSparklineStyle.Render))
	}

	return panelStyle.
		Width(max(c.width-2, 0)).
		Height(inner).
		Render(b.String())
}

func (c ChartModel) sparkline(label string, h *ui.History, render func(...string) string) string {
	values := h.Values()
	if n := c.sparklineWidth(); n > 0 && len(values) > n {
		values = values[len(values)-n:]
	}
	last := "n/a"
	if v, ok := h.Last(); ok {
		last = format.Percent(v)
	}
	return fmt.Sprintf("  %s %s %s",
		metricLabelStyle.Render(fmt.Sprintf("%-5s", label)),
		render(ui.Sparkline(values)),
		metricValueStyle.Render(last))
}
