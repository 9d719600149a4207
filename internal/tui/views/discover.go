package views

import (
	"fmt"
	"strconv"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"chatterm/internal/friend"
	"chatterm/internal/store"
	"chatterm/internal/tui/ui"
)

// DiscoverView combines the filter form with the discoverable-user table.
// Submitting the form replaces the filters wholesale; Enter on a row sends a
// friend request.
type DiscoverView struct {
	*tview.Flex
	theme     *ui.Theme
	form      *tview.Form
	table     *tview.Table
	users     []store.User
	onFilters func(f friend.Filters)
	onRequest func(userID string)
}

// NewDiscoverView creates the discovery page.
func NewDiscoverView(theme *ui.Theme) *DiscoverView {
	form := tview.NewForm().SetHorizontal(true)
	form.SetBorder(true).SetTitle(" Filters ")

	table := tview.NewTable().
		SetSelectable(true, false).
		SetBorders(false).
		SetFixed(1, 0)
	table.SetBorder(true).SetTitle(" Discover ")

	flex := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(form, 5, 0, false).
		AddItem(table, 0, 1, true)

	dv := &DiscoverView{
		Flex:  flex,
		theme: theme,
		form:  form,
		table: table,
	}
	dv.ApplyTheme(theme)
	dv.buildForm(friend.DefaultFilters())

	table.SetSelectedFunc(func(row, col int) {
		if id := dv.selectedUser(); id != "" && dv.onRequest != nil {
			dv.onRequest(id)
		}
	})
	return dv
}

// Name implements Component.
func (dv *DiscoverView) Name() string { return "discover" }

// Hints implements Component.
func (dv *DiscoverView) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "Enter", Description: "send request"},
		{Key: "Tab", Description: "filters"},
		{Key: "Esc", Description: "back"},
	}
}

// ApplyTheme implements Component.
func (dv *DiscoverView) ApplyTheme(t *ui.Theme) {
	dv.theme = t
	dv.form.SetBackgroundColor(t.BgColor)
	dv.form.SetBorderColor(t.BorderColor)
	dv.form.SetTitleColor(t.TitleColor)
	dv.form.SetFieldBackgroundColor(t.TableHeaderBg)
	dv.form.SetFieldTextColor(t.FgColor)
	dv.form.SetLabelColor(t.MenuKeyColor)
	dv.form.SetButtonBackgroundColor(t.BorderColor)
	dv.table.SetBackgroundColor(t.BgColor)
	dv.table.SetBorderColor(t.BorderColor)
	dv.table.SetTitleColor(t.TitleColor)
	dv.table.SetSelectedStyle(tcell.StyleDefault.
		Foreground(t.TableCursorFg).
		Background(t.TableCursorBg))
}

// SetOnFilters sets the callback fired when the filter form is applied.
func (dv *DiscoverView) SetOnFilters(fn func(f friend.Filters)) {
	dv.onFilters = fn
}

// SetOnRequest sets the callback fired when a user row is chosen.
func (dv *DiscoverView) SetOnRequest(fn func(userID string)) {
	dv.onRequest = fn
}

// Form returns the filter form for focus handling.
func (dv *DiscoverView) Form() *tview.Form {
	return dv.form
}

// Update refreshes the discoverable-user table.
func (dv *DiscoverView) Update(users []store.User) {
	dv.users = users
	dv.table.Clear()
	dv.table.SetTitle(fmt.Sprintf(" Discover (%d) ", len(users)))

	headers := []string{" Name", " Location", " Age", " Height", " Bio"}
	for col, h := range headers {
		dv.table.SetCell(0, col, tview.NewTableCell(h).
			SetSelectable(false).
			SetTextColor(dv.theme.TableHeaderFg).
			SetBackgroundColor(dv.theme.TableHeaderBg).
			SetAttributes(tcell.AttrBold))
	}

	for i, u := range users {
		row := i + 1
		dv.table.SetCell(row, 0, tview.NewTableCell(" "+tview.Escape(u.Name)).SetMaxWidth(20).SetExpansion(1).SetTextColor(dv.theme.FgColor))
		dv.table.SetCell(row, 1, tview.NewTableCell(" "+tview.Escape(u.Location)).SetMaxWidth(16).SetTextColor(dv.theme.FgColor))
		dv.table.SetCell(row, 2, tview.NewTableCell(fmt.Sprintf(" %d", u.Age)).SetMaxWidth(5).SetTextColor(dv.theme.FgColor))
		dv.table.SetCell(row, 3, tview.NewTableCell(fmt.Sprintf(" %dcm", u.HeightCM)).SetMaxWidth(7).SetTextColor(dv.theme.FgColor))
		dv.table.SetCell(row, 4, tview.NewTableCell(" "+tview.Escape(u.Bio)).SetExpansion(2).SetTextColor(dv.theme.FgColor))
	}
}

func (dv *DiscoverView) buildForm(f friend.Filters) {
	dv.form.Clear(true)
	dv.form.
		AddInputField("Location", f.Location, 14, nil, nil).
		AddInputField("Search", f.Query, 14, nil, nil).
		AddInputField("Age", rangeText(f.MinAge, f.MaxAge), 9, nil, nil).
		AddInputField("Height", rangeText(f.MinHeight, f.MaxHeight), 9, nil, nil).
		AddButton("Apply", func() {
			if dv.onFilters != nil {
				dv.onFilters(dv.readFilters())
			}
		}).
		AddButton("Clear", func() {
			defaults := friend.DefaultFilters()
			dv.buildForm(defaults)
			if dv.onFilters != nil {
				dv.onFilters(defaults)
			}
		})
}

func (dv *DiscoverView) readFilters() friend.Filters {
	f := friend.DefaultFilters()
	f.Location = dv.fieldText(0)
	f.Query = dv.fieldText(1)
	f.MinAge, f.MaxAge = parseRange(dv.fieldText(2), f.MinAge, f.MaxAge)
	f.MinHeight, f.MaxHeight = parseRange(dv.fieldText(3), f.MinHeight, f.MaxHeight)
	return f
}

func (dv *DiscoverView) fieldText(index int) string {
	if field, ok := dv.form.GetFormItem(index).(*tview.InputField); ok {
		return field.GetText()
	}
	return ""
}

func (dv *DiscoverView) selectedUser() string {
	row, _ := dv.table.GetSelection()
	idx := row - 1
	if idx >= 0 && idx < len(dv.users) {
		return dv.users[idx].ID
	}
	return ""
}

func rangeText(lo, hi int) string {
	return fmt.Sprintf("%d-%d", lo, hi)
}

// parseRange reads "lo-hi". Unparseable input keeps the provided bounds;
// inverted bounds are passed through as typed.
func parseRange(s string, lo, hi int) (int, int) {
	var a, b int
	if _, err := fmt.Sscanf(s, "%d-%d", &a, &b); err != nil {
		if n, err := strconv.Atoi(s); err == nil {
			return n, n
		}
		return lo, hi
	}
	return a, b
}
