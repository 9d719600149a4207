package ui

import (
	"fmt"

	"github.com/rivo/tview"
)

// Menu displays keyboard shortcut hints for the current view.
type Menu struct {
	*tview.TextView
	theme *Theme
	hints []MenuHint
}

// NewMenu creates a new menu hint bar.
func NewMenu(theme *Theme) *Menu {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignLeft)
	tv.SetBackgroundColor(theme.BgColor)

	return &Menu{
		TextView: tv,
		theme:    theme,
	}
}

// ApplyTheme restyles the menu.
func (m *Menu) ApplyTheme(t *Theme) {
	m.theme = t
	m.SetBackgroundColor(t.BgColor)
	m.Update(m.hints)
}

// Update renders the hints as a single line.
func (m *Menu) Update(hints []MenuHint) {
	m.hints = hints
	m.Clear()

	keyColor := ColorTag(m.theme.MenuKeyColor)
	for _, h := range hints {
		_, _ = fmt.Fprintf(m, " [%s::b]<%s>[-:-:-] %s ", keyColor, h.Key, h.Description)
	}
}
