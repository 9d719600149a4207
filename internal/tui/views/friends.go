package views

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"chatterm/internal/friend"
	"chatterm/internal/store"
	"chatterm/internal/tui/ui"
)

// FriendsView lists pending received requests above the current friends.
type FriendsView struct {
	*tview.Flex
	theme    *ui.Theme
	requests *tview.Table
	friends  *tview.Table
	pending  []friend.FriendRequest
	names    map[string]store.User
}

// NewFriendsView creates the friends page.
func NewFriendsView(theme *ui.Theme) *FriendsView {
	requests := tview.NewTable().
		SetSelectable(true, false).
		SetBorders(false).
		SetFixed(1, 0)
	requests.SetBorder(true).SetTitle(" Friend Requests ")

	friends := tview.NewTable().
		SetSelectable(false, false).
		SetBorders(false).
		SetFixed(1, 0)
	friends.SetBorder(true).SetTitle(" Friends ")

	flex := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(requests, 0, 1, true).
		AddItem(friends, 0, 2, false)

	fv := &FriendsView{
		Flex:     flex,
		theme:    theme,
		requests: requests,
		friends:  friends,
		names:    make(map[string]store.User),
	}
	fv.ApplyTheme(theme)
	return fv
}

// Name implements Component.
func (fv *FriendsView) Name() string { return "friends" }

// Hints implements Component.
func (fv *FriendsView) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "a", Description: "accept"},
		{Key: "x", Description: "reject"},
		{Key: "Esc", Description: "back"},
	}
}

// ApplyTheme implements Component.
func (fv *FriendsView) ApplyTheme(t *ui.Theme) {
	fv.theme = t
	for _, table := range []*tview.Table{fv.requests, fv.friends} {
		table.SetBackgroundColor(t.BgColor)
		table.SetBorderColor(t.BorderColor)
		table.SetTitleColor(t.TitleColor)
	}
	fv.requests.SetSelectedStyle(tcell.StyleDefault.
		Foreground(t.TableCursorFg).
		Background(t.TableCursorBg))
}

// Update refreshes both tables. The directory resolves request senders.
func (fv *FriendsView) Update(pending []friend.FriendRequest, friends []store.User, directory []store.User) {
	fv.pending = pending
	fv.names = make(map[string]store.User, len(directory))
	for _, u := range directory {
		fv.names[u.ID] = u
	}

	fv.requests.Clear()
	fv.requests.SetTitle(fmt.Sprintf(" Friend Requests (%d) ", len(pending)))
	fv.header(fv.requests, " From", " Email", " Sent")
	for i, r := range pending {
		row := i + 1
		sender := fv.names[r.SenderID]
		name := sender.Name
		if name == "" {
			name = r.SenderID
		}
		fv.requests.SetCell(row, 0, tview.NewTableCell(" "+tview.Escape(name)).SetExpansion(1).SetTextColor(fv.theme.FgColor))
		fv.requests.SetCell(row, 1, tview.NewTableCell(" "+tview.Escape(sender.Email)).SetExpansion(1).SetTextColor(fv.theme.FgColor))
		fv.requests.SetCell(row, 2, tview.NewTableCell(" "+formatTimestamp(r.Timestamp)).SetMaxWidth(12).SetTextColor(fv.theme.FgColor))
	}

	fv.friends.Clear()
	fv.friends.SetTitle(fmt.Sprintf(" Friends (%d) ", len(friends)))
	fv.header(fv.friends, " Name", " Email", " Location")
	for i, u := range friends {
		row := i + 1
		fv.friends.SetCell(row, 0, tview.NewTableCell(" "+tview.Escape(u.Name)).SetExpansion(1).SetTextColor(fv.theme.FgColor))
		fv.friends.SetCell(row, 1, tview.NewTableCell(" "+tview.Escape(u.Email)).SetExpansion(1).SetTextColor(fv.theme.FgColor))
		fv.friends.SetCell(row, 2, tview.NewTableCell(" "+tview.Escape(u.Location)).SetExpansion(1).SetTextColor(fv.theme.FgColor))
	}
}

// SelectedRequest returns the id of the selected pending request.
func (fv *FriendsView) SelectedRequest() string {
	row, _ := fv.requests.GetSelection()
	idx := row - 1
	if idx >= 0 && idx < len(fv.pending) {
		return fv.pending[idx].ID
	}
	return ""
}

func (fv *FriendsView) header(table *tview.Table, cols ...string) {
	for col, h := range cols {
		table.SetCell(0, col, tview.NewTableCell(h).
			SetSelectable(false).
			SetTextColor(fv.theme.TableHeaderFg).
			SetBackgroundColor(fv.theme.TableHeaderBg).
			SetAttributes(tcell.AttrBold))
	}
}
