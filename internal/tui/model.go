package tui

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/sysoptimizer/internal/collector"
	apperrors "github.com/agbru/sysoptimizer/internal/errors"
	"github.com/agbru/sysoptimizer/internal/metrics"
)

// CollectFunc runs a collection, reporting cycles to reporter.
type CollectFunc func(ctx context.Context, reporter collector.CycleReporter) (collector.Summary, error)

// LayoutManager holds terminal dimensions and provides layout calculations.
type LayoutManager struct {
	width  int
	height int
}

// bodyHeight returns the available height for the main body panels.
func (l LayoutManager) bodyHeight() int {
	return max(l.height-headerHeight-footerHeight, minBodyHeight)
}

// processesWidth returns the width allocated to the process table.
func (l LayoutManager) processesWidth() int {
	return l.width * ProcessesPanelWidthPercent / 100
}

// rightWidth returns the width allocated to the right column (metrics + chart).
func (l LayoutManager) rightWidth() int {
	return l.width - l.processesWidth()
}

// metricsHeight returns the height allocated to the metrics panel.
func (l LayoutManager) metricsHeight() int {
	return min(MetricsPanelHeight, l.bodyHeight()/2)
}

// chartHeight returns the height allocated to the chart panel.
func (l LayoutManager) chartHeight() int {
	return l.bodyHeight() - l.metricsHeight()
}

// Model is the root bubbletea model for the dashboard.
type Model struct {
	header    HeaderModel
	processes ProcessesModel
	metrics   MetricsModel
	chart     ChartModel
	footer    FooterModel

	keymap KeyMap

	LayoutManager

	ctx    context.Context
	cancel context.CancelFunc
	ref    *programRef
	paused bool
	done   bool
}

// NewModel creates a dashboard bound to ctx. cancel stops the collection.
func NewModel(ctx context.Context, cancel context.CancelFunc, version string) Model {
	return Model{
		header:    NewHeaderModel(version),
		processes: NewProcessesModel(),
		metrics:   NewMetricsModel(),
		chart:     NewChartModel(),
		footer:    NewFooterModel(),
		keymap:    DefaultKeyMap(),
		ctx:       ctx,
		cancel:    cancel,
		ref:       &programRef{},
	}
}

// Init returns the initial commands.
func (m Model) Init() tea.Cmd {
	return tea.Batch(tickCmd(), sampleSelfMemoryCmd(), watchContextCmd(m.ctx))
}

// Update handles all incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layoutPanels()
		return m, nil

	case CycleStartedMsg:
		m.header.SetCycle(msg.Cycle)
		return m, nil

	case CycleMsg:
		m.metrics.AddCycle(msg.Result)
		m.chart.AddSample(msg.Result.System)
		if !m.paused {
			m.processes.SetRows(msg.Result.Processes, msg.Result.Skipped)
		}
		return m, nil

	case StoppedMsg:
		m.header.SetCycle(msg.Summary.Cycles)
		return m, nil

	case FinishedMsg:
		m.done = true
		m.footer.SetDone(true)
		switch {
		case msg.Err == nil:
			m.header.SetStatus(statusDone)
		case apperrors.IsContextError(msg.Err):
			m.header.SetStatus(statusInterrupted)
		default:
			m.header.SetStatus(statusFailed)
		}
		return m, nil

	case TickMsg:
		if m.done {
			return m, nil
		}
		return m, tea.Batch(sampleSelfMemoryCmd(), tickCmd())

	case SelfMemoryMsg:
		m.metrics.UpdateSelfMemory(metrics.SelfMemory(msg))
		return m, nil

	case ContextCancelledMsg:
		m.header.SetStatus(statusInterrupted)
		m.done = true
		m.footer.SetDone(true)
		return m, tea.Quit
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		if m.cancel != nil {
			m.cancel()
		}
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Pause):
		if m.done {
			return m, nil
		}
		m.paused = !m.paused
		m.footer.SetPaused(m.paused)
		if m.paused {
			m.header.SetStatus(statusPaused)
		} else {
			m.header.SetStatus(statusCollecting)
		}
		return m, nil

	case key.Matches(msg, m.keymap.Up), key.Matches(msg, m.keymap.Down),
		key.Matches(msg, m.keymap.PageUp), key.Matches(msg, m.keymap.PageDown):
		m.processes.Update(msg)
		return m, nil
	}

	return m, nil
}

// View renders the entire dashboard.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	rightCol := lipgloss.JoinVertical(lipgloss.Left, m.metrics.View(), m.chart.View())
	body := lipgloss.JoinHorizontal(lipgloss.Top, m.processes.View(), rightCol)

	return lipgloss.JoinVertical(lipgloss.Left, m.header.View(), body, m.footer.View())
}

// Layout constants for the dashboard.
const (
	headerHeight               = 1
	footerHeight               = 1
	minBodyHeight              = 8
	ProcessesPanelWidthPercent = 50
	MetricsPanelHeight         = 8
)

func (m *Model) layoutPanels() {
	m.header.SetWidth(m.width)
	m.footer.SetWidth(m.width)
	m.processes.SetSize(m.processesWidth(), m.bodyHeight())
	m.metrics.SetSize(m.rightWidth(), m.metricsHeight())
	m.chart.SetSize(m.rightWidth(), m.chartHeight())
}

// Run shows the dashboard while collect runs. Quitting the dashboard cancels
// the collection; Run returns once collect has returned.
func Run(ctx context.Context, collect CollectFunc, version string, opts ...tea.ProgramOption) (collector.Summary, error) {
	// Rebuild styles from the current ui theme (set by the caller via InitTheme).
	initTUIStyles()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	model := NewModel(ctx, cancel, version)
	p := tea.NewProgram(model, append([]tea.ProgramOption{tea.WithAltScreen()}, opts...)...)
	// Inject the program reference before running so the collector can Send.
	model.ref.SetProgram(p)

	type outcome struct {
		summary collector.Summary
		err     error
	}
	done := make(chan outcome, 1)
	go func() {
		summary, err := collect(ctx, &Reporter{ref: model.ref})
		done <- outcome{summary, err}
		model.ref.Send(FinishedMsg{Err: err})
	}()

	_, uiErr := p.Run()
	cancel()
	res := <-done
	if uiErr != nil && !errors.Is(uiErr, tea.ErrProgramKilled) && res.err == nil {
		return res.summary, uiErr
	}
	return res.summary, res.err
}

// tickCmd returns a command that sends a TickMsg after 500ms.
func tickCmd() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// sampleSelfMemoryCmd reads the collector's memory footprint.
func sampleSelfMemoryCmd() tea.Cmd {
	return func() tea.Msg {
		return SelfMemoryMsg(metrics.ReadSelfMemory())
	}
}

// watchContextCmd waits for context cancellation and sends a message.
func watchContextCmd(ctx context.Context) tea.Cmd {
	return func() tea.Msg {
		<-ctx.Done()
		return ContextCancelledMsg{Err: ctx.Err()}
	}
}
