package views

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"chatterm/internal/tui/ui"
)

// Composer is the text input for sending messages. Every keystroke reports
// typing activity so the counterparty indicator can be driven.
type Composer struct {
	*tview.InputField
	onSend   func(text string)
	onTyping func()
}

// NewComposer creates a new message composer.
func NewComposer(theme *ui.Theme) *Composer {
	input := tview.NewInputField().
		SetLabel(" > ").
		SetFieldWidth(0)

	c := &Composer{InputField: input}
	c.ApplyTheme(theme)

	input.SetChangedFunc(func(text string) {
		if text != "" && c.onTyping != nil {
			c.onTyping()
		}
	})
	input.SetDoneFunc(func(key tcell.Key) {
		if key == tcell.KeyEnter && c.onSend != nil {
			if text := c.GetText(); text != "" {
				c.onSend(text)
				c.SetText("")
			}
		}
	})
	return c
}

// ApplyTheme restyles the input field.
func (c *Composer) ApplyTheme(t *ui.Theme) {
	c.SetFieldBackgroundColor(t.BgColor)
	c.SetFieldTextColor(t.FgColor)
	c.SetLabelColor(t.MenuKeyColor)
}

// SetOnSend sets the callback when a message is submitted.
func (c *Composer) SetOnSend(fn func(text string)) {
	c.onSend = fn
}

// SetOnTyping sets the callback fired on each content change.
func (c *Composer) SetOnTyping(fn func()) {
	c.onTyping = fn
}
