package views

import (
	"github.com/rivo/tview"

	"chatterm/internal/chat"
	"chatterm/internal/tui/ui"
)

var statusOptions = []string{
	string(chat.PresenceOnline),
	string(chat.PresenceAway),
	string(chat.PresenceBusy),
	string(chat.PresenceInvisible),
}

// SettingsView exposes presence, dark mode and sign-out.
type SettingsView struct {
	*tview.Form
	onStatus   func(status chat.Presence)
	onDarkMode func()
	onSignOut  func()
}

// NewSettingsView creates the settings page.
func NewSettingsView(theme *ui.Theme, status chat.Presence, darkMode bool) *SettingsView {
	form := tview.NewForm()
	form.SetBorder(true).SetTitle(" Settings ")

	sv := &SettingsView{Form: form}
	sv.ApplyTheme(theme)

	statusIndex := 0
	for i, opt := range statusOptions {
		if opt == string(status) {
			statusIndex = i
		}
	}

	form.
		AddDropDown("Status", statusOptions, statusIndex, func(option string, index int) {
			if sv.onStatus != nil {
				sv.onStatus(chat.Presence(option))
			}
		}).
		AddCheckbox("Dark mode", darkMode, func(checked bool) {
			if sv.onDarkMode != nil {
				sv.onDarkMode()
			}
		}).
		AddButton("Sign out", func() {
			if sv.onSignOut != nil {
				sv.onSignOut()
			}
		})
	return sv
}

// Name implements Component.
func (sv *SettingsView) Name() string { return "settings" }

// Hints implements Component.
func (sv *SettingsView) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "Tab", Description: "next field"},
		{Key: "Esc", Description: "back"},
	}
}

// ApplyTheme implements Component.
func (sv *SettingsView) ApplyTheme(t *ui.Theme) {
	sv.SetBackgroundColor(t.BgColor)
	sv.SetBorderColor(t.BorderColor)
	sv.SetTitleColor(t.TitleColor)
	sv.SetFieldBackgroundColor(t.TableHeaderBg)
	sv.SetFieldTextColor(t.FgColor)
	sv.SetLabelColor(t.MenuKeyColor)
	sv.SetButtonBackgroundColor(t.BorderColor)
}

// SetOnStatus sets the presence-change callback.
func (sv *SettingsView) SetOnStatus(fn func(status chat.Presence)) {
	sv.onStatus = fn
}

// SetOnDarkMode sets the dark-mode toggle callback.
func (sv *SettingsView) SetOnDarkMode(fn func()) {
	sv.onDarkMode = fn
}

// SetOnSignOut sets the sign-out callback.
func (sv *SettingsView) SetOnSignOut(fn func()) {
	sv.onSignOut = fn
}
