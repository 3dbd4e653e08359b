package tui

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/agbru/sysoptimizer/internal/format"
	"github.com/agbru/sysoptimizer/internal/record"
)

// ProcessesModel lists the processes sampled in the latest cycle, busiest first.
type ProcessesModel struct {
	rows    []record.ProcessSample
	skipped int
	offset  int
	keymap  KeyMap
	width   int
	height  int
}

// NewProcessesModel creates an empty process table.
func NewProcessesModel() ProcessesModel {
	return ProcessesModel{keymap: DefaultKeyMap()}
}

// SetSize updates dimensions.
func (p *ProcessesModel) SetSize(w, h int) {
	p.width = w
	p.height = h
	p.clampOffset()
}

// SetRows replaces the table with the rows of a new cycle.
func (p *ProcessesModel) SetRows(rows []record.ProcessSample, skipped int) {
	p.rows = slices.Clone(rows)
	slices.SortStableFunc(p.rows, func(a, b record.ProcessSample) int {
		if c := cmp.Compare(b.CPUUsagePercent, a.CPUUsagePercent); c != 0 {
			return c
		}
		return cmp.Compare(a.ProcessName, b.ProcessName)
	})
	p.skipped = skipped
	p.clampOffset()
}

// Update handles scrolling keys.
func (p *ProcessesModel) Update(msg tea.KeyMsg) {
	page := max(p.visibleRows(), 1)
	switch {
	case key.Matches(msg, p.keymap.Up):
		p.offset--
	case key.Matches(msg, p.keymap.Down):
		p.offset++
	case key.Matches(msg, p.keymap.PageUp):
		p.offset -= page
	case key.Matches(msg, p.keymap.PageDown):
		p.offset += page
	}
	p.clampOffset()
}

// visibleRows is the number of table rows that fit: the panel minus borders,
// the title and the column header.
func (p ProcessesModel) visibleRows() int {
	return max(p.height-4, 0)
}

func (p *ProcessesModel) clampOffset() {
	p.offset = max(min(p.offset, len(p.rows)-p.visibleRows()), 0)
}

// View renders the table.
func (p ProcessesModel) View() string {
	var b strings.Builder
	title := fmt.Sprintf(" Processes (%d)", len(p.rows))
	if p.skipped > 0 {
		title = fmt.Sprintf(" Processes (%d, %d skipped)", len(p.rows), p.skipped)
	}
	b.WriteString(panelTitleStyle.Render(title))

	nameWidth := max(p.width-4-2-8-12, 8)
	b.WriteString("\n")
	b.WriteString(columnHeaderStyle.Render(fmt.Sprintf(" %-*s %8s %12s", nameWidth, "NAME", "CPU", "MEMORY")))

	end := min(p.offset+p.visibleRows(), len(p.rows))
	for _, r := range p.rows[p.offset:end] {
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf(" %-*s %s %12s",
			nameWidth, truncate(r.ProcessName, nameWidth),
			usageStyle(r.CPUUsagePercent).Render(fmt.Sprintf("%8s", format.Percent(r.CPUUsagePercent))),
			format.KB(r.MemoryUsageKB)))
	}

	return panelStyle.
		Width(max(p.width-2, 0)).
		Height(max(p.height-2, 0)).
		Render(b.String())
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
