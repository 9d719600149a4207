package views

import (
	"strings"
	"time"
	"unicode/utf8"

	"chatterm/internal/chat"
)

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	now := time.Now()
	if t.Year() == now.Year() && t.YearDay() == now.YearDay() {
		return t.Format("15:04")
	}
	return t.Format("01/02")
}

func presenceIcon(p chat.Presence) string {
	switch p {
	case chat.PresenceOnline:
		return "[green]●[-]"
	case chat.PresenceAway:
		return "[yellow]●[-]"
	case chat.PresenceBusy:
		return "[red]●[-]"
	case chat.PresenceInvisible:
		return "[gray]○[-]"
	default:
		return "[gray]●[-]"
	}
}

// sanitizeForTerminal removes Unicode codepoints that cause rendering issues
// in tcell/tview: skin tone modifiers, zero width joiners and variation
// selectors that form multi-codepoint emoji sequences.
func sanitizeForTerminal(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if !isProblematicRune(r) {
			b.WriteRune(r)
		}
		i += size
	}
	return b.String()
}

func isProblematicRune(r rune) bool {
	switch {
	case r >= 0x1F3FB && r <= 0x1F3FF: // skin tone modifiers
		return true
	case r == 0x200D: // zero width joiner
		return true
	case r >= 0xFE00 && r <= 0xFE0F: // variation selectors
		return true
	case r >= 0xE0100 && r <= 0xE01EF: // variation selectors supplement
		return true
	default:
		return false
	}
}
