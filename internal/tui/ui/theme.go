package ui

import "github.com/gdamore/tcell/v2"

// Theme holds color constants for the TUI.
type Theme struct {
	BgColor          tcell.Color
	FgColor          tcell.Color
	BorderColor      tcell.Color
	BorderFocusColor tcell.Color
	TableHeaderFg    tcell.Color
	TableHeaderBg    tcell.Color
	TableCursorFg    tcell.Color
	TableCursorBg    tcell.Color
	MenuKeyColor     tcell.Color
	TitleColor       tcell.Color
	UnreadColor      tcell.Color
	TypingColor      tcell.Color
	PinColor         tcell.Color
	FlashInfoColor   tcell.Color
	FlashWarnColor   tcell.Color
	FlashErrColor    tcell.Color
}

// DarkTheme returns the default dark theme.
func DarkTheme() *Theme {
	return &Theme{
		BgColor:          tcell.ColorBlack,
		FgColor:          tcell.ColorCadetBlue,
		BorderColor:      tcell.ColorDodgerBlue,
		BorderFocusColor: tcell.ColorLightSkyBlue,
		TableHeaderFg:    tcell.ColorWhite,
		TableHeaderBg:    tcell.ColorBlack,
		TableCursorFg:    tcell.ColorBlack,
		TableCursorBg:    tcell.ColorAqua,
		MenuKeyColor:     tcell.ColorDodgerBlue,
		TitleColor:       tcell.ColorFuchsia,
		UnreadColor:      tcell.ColorOrange,
		TypingColor:      tcell.ColorGreen,
		PinColor:         tcell.ColorGold,
		FlashInfoColor:   tcell.ColorNavajoWhite,
		FlashWarnColor:   tcell.ColorOrange,
		FlashErrColor:    tcell.ColorOrangeRed,
	}
}

// LightTheme returns the light variant used when dark mode is off.
func LightTheme() *Theme {
	return &Theme{
		BgColor:          tcell.ColorWhite,
		FgColor:          tcell.ColorBlack,
		BorderColor:      tcell.ColorSteelBlue,
		BorderFocusColor: tcell.ColorRoyalBlue,
		TableHeaderFg:    tcell.ColorBlack,
		TableHeaderBg:    tcell.ColorWhite,
		TableCursorFg:    tcell.ColorWhite,
		TableCursorBg:    tcell.ColorSteelBlue,
		MenuKeyColor:     tcell.ColorRoyalBlue,
		TitleColor:       tcell.ColorDarkMagenta,
		UnreadColor:      tcell.ColorDarkOrange,
		TypingColor:      tcell.ColorDarkGreen,
		PinColor:         tcell.ColorDarkGoldenrod,
		FlashInfoColor:   tcell.ColorDarkSlateGray,
		FlashWarnColor:   tcell.ColorDarkOrange,
		FlashErrColor:    tcell.ColorRed,
	}
}

// ForDarkMode selects the theme matching the display preference.
func ForDarkMode(dark bool) *Theme {
	if dark {
		return DarkTheme()
	}
	return LightTheme()
}

// ColorTag returns the tview color tag name for a tcell color.
func ColorTag(c tcell.Color) string {
	for name, color := range tcell.ColorNames {
		if color == c {
			return name
		}
	}
	return "white"
}
