package tui

import "strings"

// FooterModel renders the key hints.
type FooterModel struct {
	keymap KeyMap
	paused bool
	done   bool
	width  int
}

// NewFooterModel creates a new footer.
func NewFooterModel() FooterModel {
	return FooterModel{keymap: DefaultKeyMap()}
}

// SetWidth updates the available width.
func (f *FooterModel) SetWidth(w int) { f.width = w }

// SetPaused toggles the pause hint.
func (f *FooterModel) SetPaused(p bool) { f.paused = p }

// SetDone switches the hints to the finished state.
func (f *FooterModel) SetDone(d bool) { f.done = d }

// View renders the footer.
func (f FooterModel) View() string {
	var hints []string
	if f.done {
		hints = append(hints, hint("q", "quit"))
	} else {
		pause := "freeze view"
		if f.paused {
			pause = "resume view"
		}
		hints = append(hints,
			hint(f.keymap.Quit.Help().Key, f.keymap.Quit.Help().Desc),
			hint(f.keymap.Pause.Help().Key, pause))
	}
	hints = append(hints, hint("↑/↓", "scroll processes"))
	return " " + strings.Join(hints, "  ")
}

func hint(k, desc string) string {
	return footerKeyStyle.Render(k) + " " + footerDescStyle.Render(desc)
}
