package views

import (
	"fmt"
	"time"

	"github.com/rivo/tview"

	"chatterm/internal/chat"
	"chatterm/internal/tui/ui"
)

// StatusBar displays the profile, signed-in identity, presence and clock.
type StatusBar struct {
	*tview.TextView
	theme    *ui.Theme
	profile  string
	user     string
	status   chat.Presence
	darkMode bool
	flash    string
}

// NewStatusBar creates a new status bar.
func NewStatusBar(theme *ui.Theme, profile string) *StatusBar {
	tv := tview.NewTextView().
		SetDynamicColors(true)
	tv.SetBackgroundColor(theme.TableHeaderBg)

	return &StatusBar{TextView: tv, theme: theme, profile: profile}
}

// ApplyTheme restyles the bar.
func (sb *StatusBar) ApplyTheme(t *ui.Theme) {
	sb.theme = t
	sb.SetBackgroundColor(t.TableHeaderBg)
	sb.render()
}

// SetUser updates the signed-in user display. Empty means signed out.
func (sb *StatusBar) SetUser(name string) {
	sb.user = name
	sb.render()
}

// SetStatus updates the own-presence display.
func (sb *StatusBar) SetStatus(status chat.Presence) {
	sb.status = status
	sb.render()
}

// SetDarkMode updates the display-preference indicator.
func (sb *StatusBar) SetDarkMode(dark bool) {
	sb.darkMode = dark
	sb.render()
}

// SetFlash sets a temporary message.
func (sb *StatusBar) SetFlash(msg string) {
	sb.flash = msg
	sb.render()
}

func (sb *StatusBar) render() {
	sb.Clear()

	user := sb.user
	if user == "" {
		user = "signed out"
	}
	mode := "light"
	if sb.darkMode {
		mode = "dark"
	}
	clock := time.Now().Format("15:04")

	line := fmt.Sprintf(" [::b]%s[-:-:-] | %s %s | %s | %s", sb.profile, user, presenceIcon(sb.status), mode, clock)
	if sb.flash != "" {
		line += fmt.Sprintf(" | [yellow]%s[-]", sb.flash)
	}
	_, _ = fmt.Fprint(sb, line)
}
