package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/sysoptimizer/internal/collector"
	"github.com/agbru/sysoptimizer/internal/format"
	"github.com/agbru/sysoptimizer/internal/metrics"
	"github.com/agbru/sysoptimizer/internal/record"
)

// MetricsModel shows the latest host reading, the running totals and the
// collector's own memory use.
type MetricsModel struct {
	latest  record.SystemSample
	sampled bool
	totals  collector.Summary
	self    metrics.SelfMemory
	width   int
	height  int
}

// NewMetricsModel creates a new metrics panel.
func NewMetricsModel() MetricsModel {
	return MetricsModel{}
}

// SetSize updates dimensions.
func (m *MetricsModel) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// AddCycle records a completed cycle.
func (m *MetricsModel) AddCycle(r collector.CycleResult) {
	m.latest = r.System
	m.sampled = true
	m.totals.Cycles++
	m.totals.SystemRows += r.SystemRows
	m.totals.ProcessRows += r.ProcessRows
	m.totals.Skipped += r.Skipped
	m.totals.InsertFailures += r.InsertFailures
}

// UpdateSelfMemory stores the collector's memory footprint.
func (m *MetricsModel) UpdateSelfMemory(s metrics.SelfMemory) {
	m.self = s
}

// View renders the metrics panel.
func (m MetricsModel) View() string {
	var rows strings.Builder

	rows.WriteString(panelTitleStyle.Render(" System"))
	if m.sampled {
		rows.WriteString(metricLabelStyle.Render("  " + m.latest.Timestamp))
	}
	rows.WriteString("\n")

	pipe := metricLabelStyle.Render(" | ")
	rows.WriteString(fmt.Sprintf("  %s %s%s%s %s%s%s %s",
		metricLabelStyle.Render("CPU:"), m.usage(m.latest.CPUUsage),
		pipe,
		metricLabelStyle.Render("Mem:"), m.usage(m.latest.MemoryUsage),
		pipe,
		metricLabelStyle.Render("Disk:"), m.usage(m.latest.DiskUsage)))

	colWidth := (m.width - 6) / 2
	leftCol := []string{
		formatMetricCol("System rows:", fmt.Sprintf("%d", m.totals.SystemRows), colWidth),
		formatMetricCol("Skipped:", fmt.Sprintf("%d", m.totals.Skipped), colWidth),
	}
	rightCol := []string{
		formatMetricCol("Process rows:", fmt.Sprintf("%d", m.totals.ProcessRows), colWidth),
		formatMetricCol("Insert fails:", fmt.Sprintf("%d", m.totals.InsertFailures), colWidth),
	}
	for i := range leftCol {
		rows.WriteString("\n")
		rows.WriteString(leftCol[i])
		rows.WriteString(rightCol[i])
	}

	rows.WriteString("\n")
	rows.WriteString(fmt.Sprintf("  %s %s%s%s %s",
		metricLabelStyle.Render("Self heap:"),
		metricValueStyle.Render(format.Bytes(m.self.HeapInUse)+" / "+format.Bytes(m.self.FromOS)),
		pipe,
		metricLabelStyle.Render("GC:"),
		metricValueStyle.Render(fmt.Sprintf("%d", m.self.GCCycles))))

	return panelStyle.
		Width(max(m.width-2, 0)).
		Height(max(m.height-2, 0)).
		Render(rows.String())
}

func (m MetricsModel) usage(v float64) string {
	if !m.sampled {
		return metricLabelStyle.Render("--")
	}
	return usageStyle(v).Render(format.Percent(v))
}

func formatMetricCol(label, value string, colWidth int) string {
	cell := fmt.Sprintf(" %s %s",
		metricLabelStyle.Render(fmt.Sprintf("%-14s", label)),
		metricValueStyle.Render(value))
	// Pad to fixed column width using lipgloss-aware width
	visible := lipgloss.Width(cell)
	if visible < colWidth {
		cell += strings.Repeat(" ", colWidth-visible)
	}
	return cell
}
