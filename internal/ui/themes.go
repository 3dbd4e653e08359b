package ui

import (
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Theme is a set of ANSI escape codes for console output.
type Theme struct {
	Name    string
	Primary string
	Dim     string
	Good    string // low usage, success
	Warn    string // elevated usage
	Bad     string // high usage, failures
	Bold    string
	Reset   string
}

var (
	// DarkTheme suits dark terminal backgrounds.
	DarkTheme = Theme{
		Name:    "dark",
		Primary: "\033[38;5;208m", // orange
		Dim:     "\033[38;5;245m",
		Good:    "\033[38;5;82m",
		Warn:    "\033[38;5;220m",
		Bad:     "\033[38;5;196m",
		Bold:    "\033[1m",
		Reset:   "\033[0m",
	}

	// NoColorTheme disables color output.
	NoColorTheme = Theme{Name: "none"}

	currentTheme = DarkTheme
	themeMutex   sync.RWMutex
)

// Usage thresholds used to color percentages.
const (
	WarnPercent = 60.0
	BadPercent  = 85.0
)

// TUITheme is the lipgloss palette of the dashboard.
type TUITheme struct {
	Text   lipgloss.TerminalColor
	Border lipgloss.TerminalColor
	Accent lipgloss.TerminalColor
	Good   lipgloss.TerminalColor
	Warn   lipgloss.TerminalColor
	Bad    lipgloss.TerminalColor
	Dim    lipgloss.TerminalColor
}

var (
	// DarkTUITheme is the default dashboard palette.
	DarkTUITheme = TUITheme{
		Text:   lipgloss.Color("#E0E0E0"),
		Border: lipgloss.Color("#FF6600"),
		Accent: lipgloss.Color("#FF8C00"),
		Good:   lipgloss.Color("#9ece6a"),
		Warn:   lipgloss.Color("#FFB347"),
		Bad:    lipgloss.Color("#FF4444"),
		Dim:    lipgloss.Color("#666666"),
	}

	// NoColorTUITheme renders with the terminal's default colors.
	NoColorTUITheme = TUITheme{
		Text:   lipgloss.NoColor{},
		Border: lipgloss.NoColor{},
		Accent: lipgloss.NoColor{},
		Good:   lipgloss.NoColor{},
		Warn:   lipgloss.NoColor{},
		Bad:    lipgloss.NoColor{},
		Dim:    lipgloss.NoColor{},
	}
)

// Current returns the active console theme.
func Current() Theme {
	themeMutex.RLock()
	defer themeMutex.RUnlock()
	return currentTheme
}

// CurrentTUI returns the dashboard palette matching the active theme.
func CurrentTUI() TUITheme {
	if Current().Name == NoColorTheme.Name {
		return NoColorTUITheme
	}
	return DarkTUITheme
}

// SetTheme replaces the active theme. Tests use it to restore state.
func SetTheme(t Theme) {
	themeMutex.Lock()
	defer themeMutex.Unlock()
	currentTheme = t
}

// InitTheme disables colors when noColor is set or NO_COLOR is present in
// the environment (https://no-color.org/).
func InitTheme(noColor bool) {
	if _, set := os.LookupEnv("NO_COLOR"); set {
		noColor = true
	}
	if noColor {
		SetTheme(NoColorTheme)
		return
	}
	SetTheme(DarkTheme)
}

// UsageColor returns the escape code matching a usage percentage. Negative
// values (unavailable) are dimmed.
func (t Theme) UsageColor(percent float64) string {
	switch {
	case percent < 0:
		return t.Dim
	case percent >= BadPercent:
		return t.Bad
	case percent >= WarnPercent:
		return t.Warn
	default:
		return t.Good
	}
}

// Paint wraps s in color and the reset code. With NoColorTheme it returns s.
func (t Theme) Paint(color, s string) string {
	if color == "" {
		return s
	}
	return color + s + t.Reset
}

// UsageColor returns the dashboard color for a usage percentage.
func (t TUITheme) UsageColor(percent float64) lipgloss.TerminalColor {
	switch {
	case percent < 0:
		return t.Dim
	case percent >= BadPercent:
		return t.Bad
	case percent >= WarnPercent:
		return t.Warn
	default:
		return t.Good
	}
}
