package tui

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/agbru/sysoptimizer/internal/collector"
)

// programRef is a shared reference to the tea.Program.
// Because bubbletea copies the model on every Update, we need a pointer
// that survives copies so the collector goroutine can send messages.
type programRef struct {
	mu      sync.RWMutex
	program *tea.Program
}

// SetProgram sets the tea.Program reference (thread-safe).
func (r *programRef) SetProgram(p *tea.Program) {
	r.mu.Lock()
	r.program = p
	r.mu.Unlock()
}

// Send sends a message to the bubbletea program (thread-safe).
func (r *programRef) Send(msg tea.Msg) {
	r.mu.RLock()
	p := r.program
	r.mu.RUnlock()
	if p != nil {
		p.Send(msg)
	}
}

// Reporter implements collector.CycleReporter by forwarding every
// notification to the dashboard as a bubbletea message.
type Reporter struct {
	ref *programRef
}

// Verify interface compliance.
var _ collector.CycleReporter = (*Reporter)(nil)

// CycleStarted forwards the start of a cycle.
func (r *Reporter) CycleStarted(cycle int, at time.Time) {
	r.ref.Send(CycleStartedMsg{Cycle: cycle, At: at})
}

// CycleCompleted forwards a finished cycle.
func (r *Reporter) CycleCompleted(result collector.CycleResult) {
	r.ref.Send(CycleMsg{Result: result})
}

// Stopped forwards the run summary.
func (r *Reporter) Stopped(summary collector.Summary) {
	r.ref.Send(StoppedMsg{Summary: summary})
}
