package views

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"chatterm/internal/tui/ui"
)

// SearchBar filters the visible thread as the query changes.
type SearchBar struct {
	*tview.InputField
	onChange func(query string)
	onDone   func()
}

// NewSearchBar creates the in-thread search input.
func NewSearchBar(theme *ui.Theme) *SearchBar {
	input := tview.NewInputField().
		SetLabel(" search: ").
		SetFieldWidth(0)

	sb := &SearchBar{InputField: input}
	sb.ApplyTheme(theme)

	input.SetChangedFunc(func(text string) {
		if sb.onChange != nil {
			sb.onChange(text)
		}
	})
	input.SetDoneFunc(func(key tcell.Key) {
		if (key == tcell.KeyEnter || key == tcell.KeyEscape) && sb.onDone != nil {
			sb.onDone()
		}
	})
	return sb
}

// ApplyTheme restyles the input.
func (sb *SearchBar) ApplyTheme(t *ui.Theme) {
	sb.SetFieldBackgroundColor(t.BgColor)
	sb.SetFieldTextColor(t.FgColor)
	sb.SetLabelColor(t.MenuKeyColor)
}

// SetOnChange sets the live-query callback.
func (sb *SearchBar) SetOnChange(fn func(query string)) {
	sb.onChange = fn
}

// SetOnDone sets the callback fired when the search input is left.
func (sb *SearchBar) SetOnDone(fn func()) {
	sb.onDone = fn
}
