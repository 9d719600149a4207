package views

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"chatterm/internal/chat"
	"chatterm/internal/tui/ui"
)

// Thread displays the messages of the active conversation as a selectable
// table so individual messages can be pinned, edited or deleted.
type Thread struct {
	*tview.Table
	theme    *ui.Theme
	selfID   string
	names    map[string]string
	messages []*chat.Message
}

// NewThread creates the conversation thread view.
func NewThread(theme *ui.Theme) *Thread {
	table := tview.NewTable().
		SetSelectable(true, false).
		SetBorders(false)
	table.SetBorder(true).SetTitle(" Messages ")

	t := &Thread{
		Table: table,
		theme: theme,
		names: make(map[string]string),
	}
	t.ApplyTheme(theme)
	return t
}

// Name implements Component.
func (t *Thread) Name() string { return "thread" }

// Hints implements Component.
func (t *Thread) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "i", Description: "compose"},
		{Key: "p", Description: "pin/unpin"},
		{Key: "e", Description: "edit"},
		{Key: "x", Description: "delete"},
		{Key: "/", Description: "search"},
	}
}

// ApplyTheme implements Component.
func (t *Thread) ApplyTheme(th *ui.Theme) {
	t.theme = th
	t.SetBackgroundColor(th.BgColor)
	t.SetBorderColor(th.BorderColor)
	t.SetTitleColor(th.TitleColor)
	t.SetSelectedStyle(tcell.StyleDefault.
		Foreground(th.TableCursorFg).
		Background(th.TableCursorBg))
}

// SetContactName updates the title with the counterparty's name.
func (t *Thread) SetContactName(name string) {
	t.SetTitle(fmt.Sprintf(" %s ", name))
}

// SetSelf sets the id whose messages render as "You".
func (t *Thread) SetSelf(id string) {
	t.selfID = id
}

// SetContacts provides the id-to-name mapping for message senders.
func (t *Thread) SetContacts(contacts []chat.Contact) {
	t.names = make(map[string]string, len(contacts))
	for _, c := range contacts {
		t.names[c.ID] = c.Name
	}
}

// Update refreshes the thread with the given messages, oldest first.
func (t *Thread) Update(msgs []*chat.Message) {
	t.messages = msgs
	t.Clear()

	pinTag := ui.ColorTag(t.theme.PinColor)
	for row, m := range msgs {
		sender := t.names[m.SenderID]
		if m.SenderID == t.selfID {
			sender = "You"
		}
		if sender == "" {
			sender = m.SenderID
		}

		marker := " "
		if m.Pinned {
			marker = fmt.Sprintf("[%s]*[-]", pinTag)
		}

		content := tview.Escape(sanitizeForTerminal(m.Content))
		if m.Kind == chat.KindAttachment || m.Kind == chat.KindImage {
			name := content
			if m.Attachment != nil && m.Attachment.Name != "" {
				name = tview.Escape(m.Attachment.Name)
			}
			content = fmt.Sprintf("[::d][%s][-:-:-]", name)
		}
		if m.Edited {
			content += " [::d](edited)[-:-:-]"
		}

		t.SetCell(row, 0, tview.NewTableCell(marker).SetMaxWidth(2).SetTextColor(t.theme.FgColor))
		t.SetCell(row, 1, tview.NewTableCell(formatTimestamp(m.Timestamp)).SetMaxWidth(6).SetTextColor(t.theme.FgColor))
		t.SetCell(row, 2, tview.NewTableCell(fmt.Sprintf("[::b]%s[-:-:-]", tview.Escape(sender))).SetMaxWidth(16).SetTextColor(t.theme.FgColor))
		t.SetCell(row, 3, tview.NewTableCell(content).SetExpansion(1).SetTextColor(t.theme.FgColor))
	}

	if len(msgs) > 0 {
		t.Select(len(msgs)-1, 0)
	}
	t.ScrollToEnd()
}

// SelectedMessage returns the id and content of the selected message.
func (t *Thread) SelectedMessage() (id, content string) {
	row, _ := t.GetSelection()
	if row >= 0 && row < len(t.messages) {
		return t.messages[row].ID, t.messages[row].Content
	}
	return "", ""
}

// SelectedPinned reports whether the selected message is pinned.
func (t *Thread) SelectedPinned() bool {
	row, _ := t.GetSelection()
	return row >= 0 && row < len(t.messages) && t.messages[row].Pinned
}
