package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/sysoptimizer/internal/format"
)

// runStatus is the state shown at the right of the header.
type runStatus int

const (
	statusCollecting runStatus = iota
	statusPaused
	statusDone
	statusInterrupted
	statusFailed
)

func (s runStatus) render() string {
	switch s {
	case statusPaused:
		return statusPausedStyle.Render("PAUSED")
	case statusDone:
		return statusDoneStyle.Render("DONE")
	case statusInterrupted:
		return statusErrorStyle.Render("INTERRUPTED")
	case statusFailed:
		return statusErrorStyle.Render("FAILED")
	default:
		return statusRunningStyle.Render("COLLECTING")
	}
}

// HeaderModel renders the top bar: title, version, elapsed time, cycle and status.
type HeaderModel struct {
	startTime time.Time
	endTime   time.Time
	version   string
	cycle     int
	status    runStatus
	width     int
}

// NewHeaderModel creates a new header.
func NewHeaderModel(version string) HeaderModel {
	return HeaderModel{
		startTime: time.Now(),
		version:   version,
	}
}

// SetCycle records the cycle currently running.
func (h *HeaderModel) SetCycle(n int) {
	h.cycle = n
}

// SetStatus updates the status. Terminal statuses freeze the elapsed timer.
func (h *HeaderModel) SetStatus(s runStatus) {
	h.status = s
	if s >= statusDone && h.endTime.IsZero() {
		h.endTime = time.Now()
	}
}

// SetWidth updates the available width.
func (h *HeaderModel) SetWidth(w int) {
	h.width = w
}

// View renders the header.
func (h HeaderModel) View() string {
	titleText := "sysoptimizer"
	if h.version != "" && h.version != "dev" {
		titleText += " " + h.version
	}
	title := titleStyle.Render(titleText)

	pipe := versionStyle.Render(" | ")

	var duration time.Duration
	if !h.endTime.IsZero() {
		duration = h.endTime.Sub(h.startTime)
	} else {
		duration = time.Since(h.startTime)
	}
	elapsed := elapsedStyle.Render(fmt.Sprintf("Elapsed: %s", format.Duration(duration)))
	cycle := elapsedStyle.Render(fmt.Sprintf("Cycle: %d", h.cycle))

	leftPart := title + pipe + elapsed + pipe + cycle
	rightPart := h.status.render()

	innerWidth := max(h.width-2, 0)
	gap := max(innerWidth-lipgloss.Width(leftPart)-lipgloss.Width(rightPart), 1)

	return headerStyle.Width(h.width).Render(leftPart + spaces(gap) + rightPart)
}

// spaces returns a string of n space characters.
func spaces(n int) string {
	if n <= 0 {
		return ""
	}
	b := make([]byte, n)
	for i := range b {
		b[i] = ' '
	}
	return string(b)
}
