package views

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"chatterm/internal/chat"
	"chatterm/internal/tui/ui"
)

// ContactList is the main contact table with a filter input above it.
type ContactList struct {
	*tview.Flex
	theme    *ui.Theme
	filter   *tview.InputField
	table    *tview.Table
	contacts []chat.Contact
	onOpen   func(contactID string)
	onFilter func(query string)
}

// NewContactList creates the contact list view.
func NewContactList(theme *ui.Theme) *ContactList {
	filter := tview.NewInputField().
		SetLabel(" / ").
		SetFieldWidth(0)

	table := tview.NewTable().
		SetSelectable(true, false).
		SetBorders(false).
		SetFixed(1, 0)
	table.SetBorder(true).SetTitle(" Contacts ")

	flex := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(filter, 1, 0, false).
		AddItem(table, 0, 1, true)

	cl := &ContactList{
		Flex:   flex,
		theme:  theme,
		filter: filter,
		table:  table,
	}
	cl.ApplyTheme(theme)

	filter.SetChangedFunc(func(text string) {
		if cl.onFilter != nil {
			cl.onFilter(text)
		}
	})
	table.SetSelectedFunc(func(row, col int) {
		if id := cl.selectedContact(); id != "" && cl.onOpen != nil {
			cl.onOpen(id)
		}
	})
	return cl
}

// Name implements Component.
func (cl *ContactList) Name() string { return "contacts" }

// Hints implements Component.
func (cl *ContactList) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "Enter", Description: "open conversation"},
		{Key: "/", Description: "filter"},
		{Key: "f", Description: "friends"},
		{Key: "d", Description: "discover"},
		{Key: "o", Description: "settings"},
	}
}

// ApplyTheme implements Component.
func (cl *ContactList) ApplyTheme(t *ui.Theme) {
	cl.theme = t
	cl.filter.SetFieldBackgroundColor(t.BgColor)
	cl.filter.SetFieldTextColor(t.FgColor)
	cl.filter.SetLabelColor(t.MenuKeyColor)
	cl.table.SetBackgroundColor(t.BgColor)
	cl.table.SetBorderColor(t.BorderColor)
	cl.table.SetTitleColor(t.TitleColor)
	cl.table.SetSelectedStyle(tcell.StyleDefault.
		Foreground(t.TableCursorFg).
		Background(t.TableCursorBg))
}

// SetOnOpen sets the callback when a contact's conversation is opened.
func (cl *ContactList) SetOnOpen(fn func(contactID string)) {
	cl.onOpen = fn
}

// SetOnFilter sets the callback when the filter text changes.
func (cl *ContactList) SetOnFilter(fn func(query string)) {
	cl.onFilter = fn
}

// FilterInput returns the filter input field for focus handling.
func (cl *ContactList) FilterInput() *tview.InputField {
	return cl.filter
}

// Update refreshes the table. Conversations supply the preview column and
// unread counters.
func (cl *ContactList) Update(contacts []chat.Contact, convs []chat.Conversation) {
	cl.contacts = contacts
	cl.table.Clear()

	byContact := make(map[string]*chat.Conversation, len(convs))
	for i := range convs {
		byContact[convs[i].ContactID] = &convs[i]
	}

	headers := []string{" Contact", " Last Message", " Time"}
	for col, h := range headers {
		cl.table.SetCell(0, col, tview.NewTableCell(h).
			SetSelectable(false).
			SetTextColor(cl.theme.TableHeaderFg).
			SetBackgroundColor(cl.theme.TableHeaderBg).
			SetAttributes(tcell.AttrBold))
	}

	unreadTag := ui.ColorTag(cl.theme.UnreadColor)
	typingTag := ui.ColorTag(cl.theme.TypingColor)
	for i, c := range contacts {
		row := i + 1
		name := fmt.Sprintf("%s %s", presenceIcon(c.Status), tview.Escape(c.Name))

		preview := ""
		ts := ""
		if conv := byContact[c.ID]; conv != nil {
			if conv.LastMessage != nil {
				preview = tview.Escape(sanitizeForTerminal(conv.LastMessage.Content))
				ts = formatTimestamp(conv.LastMessage.Timestamp)
			}
			if conv.UnreadCount > 0 {
				name = fmt.Sprintf("%s [%s](%d)[-]", name, unreadTag, conv.UnreadCount)
			}
		}
		if c.Typing {
			preview = fmt.Sprintf("[%s]typing...[-]", typingTag)
		}

		cl.table.SetCell(row, 0, tview.NewTableCell(" "+name).SetMaxWidth(30).SetExpansion(1).SetTextColor(cl.theme.FgColor))
		cl.table.SetCell(row, 1, tview.NewTableCell(" "+preview).SetMaxWidth(40).SetExpansion(2).SetTextColor(cl.theme.FgColor))
		cl.table.SetCell(row, 2, tview.NewTableCell(" "+ts).SetMaxWidth(12).SetTextColor(cl.theme.FgColor))
	}
}

func (cl *ContactList) selectedContact() string {
	row, _ := cl.table.GetSelection()
	idx := row - 1
	if idx >= 0 && idx < len(cl.contacts) {
		return cl.contacts[idx].ID
	}
	return ""
}
