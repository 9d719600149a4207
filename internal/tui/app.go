package tui

import (
	"context"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"go.uber.org/zap"

	"chatterm/internal/bus"
	"chatterm/internal/chat"
	"chatterm/internal/friend"
	"chatterm/internal/identity"
	"chatterm/internal/tui/keys"
	"chatterm/internal/tui/ui"
	"chatterm/internal/tui/views"
)

// App is the main TUI application shell. It mediates between the state
// managers and the views: views stay dumb, commands flow down through the
// service interfaces and refreshes flow back via bus events.
type App struct {
	app      *tview.Application
	pages    *ui.Pages
	theme    *ui.Theme
	registry *keys.Registry
	flash    *ui.FlashModel
	logger   *zap.Logger

	session  identity.Service
	chats    chat.Service
	friends  friend.Service
	eventBus *bus.Bus

	statusBar   *views.StatusBar
	menu        *ui.Menu
	contactList *views.ContactList
	thread      *views.Thread
	composer    *views.Composer
	searchBar   *views.SearchBar
	signIn      *views.SignIn
	friendsView *views.FriendsView
	discover    *views.DiscoverView
	settings    *views.SettingsView

	threadFlex *tview.Flex
	components map[string]ui.Component
	searching  bool
	editingID  string

	ctx    context.Context
	cancel context.CancelFunc
}

// NewApp creates the TUI application shell.
func NewApp(session identity.Service, chats chat.Service, friends friend.Service, eventBus *bus.Bus, logger *zap.Logger, profile string) *App {
	ctx, cancel := context.WithCancel(context.Background())
	theme := ui.ForDarkMode(chats.DarkMode())

	a := &App{
		app:      tview.NewApplication(),
		pages:    ui.NewPages(),
		theme:    theme,
		registry: keys.NewRegistry(),
		flash:    &ui.FlashModel{},
		logger:   logger,

		session:  session,
		chats:    chats,
		friends:  friends,
		eventBus: eventBus,

		statusBar:   views.NewStatusBar(theme, profile),
		menu:        ui.NewMenu(theme),
		contactList: views.NewContactList(theme),
		thread:      views.NewThread(theme),
		composer:    views.NewComposer(theme),
		searchBar:   views.NewSearchBar(theme),
		signIn:      views.NewSignIn(theme),
		friendsView: views.NewFriendsView(theme),
		discover:    views.NewDiscoverView(theme),

		ctx:    ctx,
		cancel: cancel,
	}
	a.settings = views.NewSettingsView(theme, chats.UserStatus(), chats.DarkMode())

	a.setupBindings()
	a.setupCallbacks()
	a.setupLayout()
	return a
}

func (a *App) setupBindings() {
	a.registry.AddGlobal("quit", &keys.Action{
		Rune: 'q', Key: tcell.KeyRune,
		Handler: func() { a.app.Stop() },
	})

	a.registry.AddView("contacts", "filter", &keys.Action{
		Rune: '/', Key: tcell.KeyRune,
		Handler: func() { a.app.SetFocus(a.contactList.FilterInput()) },
	})
	a.registry.AddView("contacts", "friends", &keys.Action{
		Rune: 'f', Key: tcell.KeyRune,
		Handler: func() { a.showFriends() },
	})
	a.registry.AddView("contacts", "discover", &keys.Action{
		Rune: 'd', Key: tcell.KeyRune,
		Handler: func() { a.showDiscover() },
	})
	a.registry.AddView("contacts", "settings", &keys.Action{
		Rune: 'o', Key: tcell.KeyRune,
		Handler: func() { a.showSettings() },
	})

	a.registry.AddView("thread", "compose", &keys.Action{
		Rune: 'i', Key: tcell.KeyRune,
		Handler: func() { a.app.SetFocus(a.composer.InputField) },
	})
	a.registry.AddView("thread", "pin", &keys.Action{
		Rune: 'p', Key: tcell.KeyRune,
		Handler: func() { a.togglePin() },
	})
	a.registry.AddView("thread", "edit", &keys.Action{
		Rune: 'e', Key: tcell.KeyRune,
		Handler: func() { a.beginEdit() },
	})
	a.registry.AddView("thread", "delete", &keys.Action{
		Rune: 'x', Key: tcell.KeyRune,
		Handler: func() { a.deleteSelected() },
	})
	a.registry.AddView("thread", "search", &keys.Action{
		Rune: '/', Key: tcell.KeyRune,
		Handler: func() { a.toggleSearch() },
	})

	a.registry.AddView("friends", "accept", &keys.Action{
		Rune: 'a', Key: tcell.KeyRune,
		Handler: func() {
			if id := a.friendsView.SelectedRequest(); id != "" {
				a.friends.AcceptFriendRequest(id)
				a.flash.Info("Friend request accepted")
			}
		},
	})
	a.registry.AddView("friends", "reject", &keys.Action{
		Rune: 'x', Key: tcell.KeyRune,
		Handler: func() {
			if id := a.friendsView.SelectedRequest(); id != "" {
				a.friends.RejectFriendRequest(id)
			}
		},
	})
}

func (a *App) setupCallbacks() {
	a.contactList.SetOnFilter(func(query string) {
		a.chats.SetSearchQuery(query)
		a.refreshContacts()
	})
	a.contactList.SetOnOpen(func(contactID string) {
		a.openThread(contactID)
	})

	a.composer.SetOnTyping(func() {
		if conv := a.chats.ActiveConversation(); conv != nil && a.editingID == "" {
			a.chats.StartTyping(conv.ContactID)
		}
	})
	a.composer.SetOnSend(func(text string) {
		if a.editingID != "" {
			a.chats.EditMessage(a.editingID, text)
			a.editingID = ""
			a.composer.SetLabel(" > ")
		} else {
			conv := a.chats.ActiveConversation()
			a.chats.SendMessage(text, chat.KindText)
			if conv != nil {
				a.chats.StopTyping(conv.ContactID)
			}
		}
		a.refreshThread()
		a.app.SetFocus(a.thread)
	})

	a.searchBar.SetOnChange(func(query string) {
		a.chats.SetMessageSearchQuery(query)
		a.refreshThread()
	})
	a.searchBar.SetOnDone(func() {
		a.app.SetFocus(a.thread)
	})

	a.signIn.SetOnSignIn(func(email, password string) {
		a.signIn.ShowMessage("Signing in...")
		go func() {
			ok, err := a.session.SignIn(a.ctx, email, password)
			a.app.QueueUpdateDraw(func() {
				switch {
				case err != nil:
					a.signIn.ShowMessage("Sign-in failed: " + err.Error())
				case !ok:
					a.signIn.ShowMessage("Invalid email or password")
				default:
					a.enterMain()
				}
			})
		}()
	})
	a.signIn.SetOnSignUp(func(name, email, password string) {
		a.signIn.ShowMessage("Creating account...")
		go func() {
			_, err := a.session.SignUp(a.ctx, name, email, password)
			a.app.QueueUpdateDraw(func() {
				if err != nil {
					a.signIn.ShowMessage("Sign-up failed: " + err.Error())
					return
				}
				a.enterMain()
			})
		}()
	})

	a.discover.SetOnFilters(func(f friend.Filters) {
		a.friends.SetUserFilters(f)
		a.refreshDiscover()
	})
	a.discover.SetOnRequest(func(userID string) {
		a.friends.SendFriendRequest(userID)
		a.flash.Info("Friend request sent")
	})

	a.settings.SetOnStatus(func(status chat.Presence) {
		a.chats.SetUserStatus(status)
		a.refreshStatusBar()
	})
	a.settings.SetOnDarkMode(func() {
		a.chats.ToggleDarkMode()
		a.applyTheme(ui.ForDarkMode(a.chats.DarkMode()))
	})
	a.settings.SetOnSignOut(func() {
		a.session.SignOut()
		a.pages.Reset("signin")
		a.app.SetFocus(a.signIn)
		a.refreshStatusBar()
	})
}

func (a *App) setupLayout() {
	a.threadFlex = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(a.thread, 0, 1, true).
		AddItem(a.composer, 1, 0, false)

	a.pages.AddPage("signin", a.signIn, true, false)
	a.pages.AddPage("contacts", a.contactList, true, false)
	a.pages.AddPage("thread", a.threadFlex, true, false)
	a.pages.AddPage("friends", a.friendsView, true, false)
	a.pages.AddPage("discover", a.discover, true, false)
	a.pages.AddPage("settings", a.settings, true, false)

	a.components = map[string]ui.Component{
		"signin":   a.signIn,
		"contacts": a.contactList,
		"thread":   a.thread,
		"friends":  a.friendsView,
		"discover": a.discover,
		"settings": a.settings,
	}

	a.pages.SetOnChange(func(current string) {
		a.refreshMenu(current)
	})

	root := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(a.pages, 0, 1, true).
		AddItem(a.menu, 1, 0, false).
		AddItem(a.statusBar, 1, 0, false)

	a.app.SetRoot(root, true)

	a.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		current := a.pages.Current()

		if event.Key() == tcell.KeyEscape && current != "signin" {
			if a.searching && current == "thread" {
				focused := a.app.GetFocus()
				if focused == a.searchBar.InputField {
					return event
				}
			}
			if a.pages.Depth() > 1 {
				a.pages.Pop()
				a.focusCurrent()
				return nil
			}
		}

		// Text inputs consume keys normally.
		focused := a.app.GetFocus()
		switch focused.(type) {
		case *tview.InputField, *tview.DropDown, *tview.Checkbox, *tview.Button:
			return event
		}

		if a.registry.HandleEvent(current, event) {
			return nil
		}
		return event
	})
}

// Run starts the TUI event loop and blocks until quit.
func (a *App) Run() error {
	a.logger.Info("starting tui", zap.Bool("signed_in", a.session.Current() != nil))

	if a.session.Current() == nil {
		a.pages.Reset("signin")
		a.app.SetFocus(a.signIn)
	} else {
		a.enterMain()
	}

	a.watchEvents()
	a.startClock()

	return a.app.Run()
}

// Stop gracefully shuts down the TUI.
func (a *App) Stop() {
	a.cancel()
	a.app.Stop()
}

// watchEvents refreshes views whenever a manager publishes a change.
func (a *App) watchEvents() {
	events, unsub := a.eventBus.Subscribe("", 64)
	go func() {
		defer unsub()
		for {
			select {
			case evt := <-events:
				kind := evt.Kind
				a.app.QueueUpdateDraw(func() {
					a.handleEvent(kind)
				})
			case <-a.ctx.Done():
				return
			}
		}
	}()
}

func (a *App) handleEvent(kind string) {
	switch {
	case kind == bus.KindMessageReceived:
		a.flash.Info("New message")
		a.refreshContacts()
		a.refreshThread()
	case kind == bus.KindTypingStarted, kind == bus.KindTypingStopped:
		a.refreshContacts()
	case len(kind) > 5 && kind[:5] == "chat.":
		a.refreshContacts()
		a.refreshThread()
		a.refreshStatusBar()
	case len(kind) > 7 && kind[:7] == "friend.":
		a.refreshFriends()
		a.refreshDiscover()
	default:
		a.refreshStatusBar()
	}
}

func (a *App) startClock() {
	ticker := time.NewTicker(5 * time.Second)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				a.app.QueueUpdateDraw(a.refreshStatusBar)
			case <-a.ctx.Done():
				return
			}
		}
	}()
}

// enterMain switches from the sign-in form to the contact list.
func (a *App) enterMain() {
	a.refreshAll()
	a.pages.Reset("contacts")
	a.app.SetFocus(a.contactList)
}

func (a *App) openThread(contactID string) {
	a.chats.SelectConversation(contactID)

	name := contactID
	for _, c := range a.chats.Contacts() {
		if c.ID == contactID {
			name = c.Name
			break
		}
	}
	a.thread.SetContactName(name)
	a.refreshThread()
	a.refreshContacts()
	a.pages.Push("thread")
	a.app.SetFocus(a.thread)
}

func (a *App) showFriends() {
	a.refreshFriends()
	a.pages.Push("friends")
	a.app.SetFocus(a.friendsView)
}

func (a *App) showDiscover() {
	a.refreshDiscover()
	a.pages.Push("discover")
	a.app.SetFocus(a.discover)
}

func (a *App) showSettings() {
	a.pages.Push("settings")
	a.app.SetFocus(a.settings)
}

func (a *App) togglePin() {
	id, _ := a.thread.SelectedMessage()
	if id == "" {
		return
	}
	if a.thread.SelectedPinned() {
		a.chats.UnpinMessage(id)
	} else {
		a.chats.PinMessage(id)
	}
	a.refreshThread()
}

func (a *App) beginEdit() {
	id, content := a.thread.SelectedMessage()
	if id == "" {
		return
	}
	a.editingID = id
	a.composer.SetLabel(" edit > ")
	a.composer.SetText(content)
	a.app.SetFocus(a.composer.InputField)
}

func (a *App) deleteSelected() {
	if id, _ := a.thread.SelectedMessage(); id != "" {
		a.chats.DeleteMessage(id)
		a.refreshThread()
		a.refreshContacts()
	}
}

// toggleSearch shows or hides the in-thread search bar.
func (a *App) toggleSearch() {
	if a.searching {
		a.searching = false
		a.chats.SetMessageSearchQuery("")
		a.searchBar.SetText("")
		a.threadFlex.RemoveItem(a.searchBar)
		a.refreshThread()
		a.app.SetFocus(a.thread)
		return
	}
	a.searching = true
	a.threadFlex.RemoveItem(a.composer)
	a.threadFlex.AddItem(a.searchBar, 1, 0, false)
	a.threadFlex.AddItem(a.composer, 1, 0, false)
	a.app.SetFocus(a.searchBar.InputField)
}

func (a *App) applyTheme(t *ui.Theme) {
	a.theme = t
	a.menu.ApplyTheme(t)
	a.statusBar.ApplyTheme(t)
	a.composer.ApplyTheme(t)
	a.searchBar.ApplyTheme(t)
	for _, c := range a.components {
		c.ApplyTheme(t)
	}
	a.refreshStatusBar()
}

func (a *App) refreshAll() {
	a.refreshContacts()
	a.refreshThread()
	a.refreshFriends()
	a.refreshDiscover()
	a.refreshStatusBar()
	a.refreshMenu(a.pages.Current())
}

func (a *App) refreshContacts() {
	a.contactList.Update(a.chats.FilteredContacts(), a.chats.Conversations())
}

func (a *App) refreshThread() {
	if id := a.session.Current(); id != nil {
		a.thread.SetSelf(id.ID)
	}
	a.thread.SetContacts(a.chats.Contacts())
	a.thread.Update(a.chats.FilteredMessages())
}

func (a *App) refreshFriends() {
	a.friendsView.Update(a.friends.ReceivedRequests(), a.friends.Friends(), a.friends.Directory())
}

func (a *App) refreshDiscover() {
	a.discover.Update(a.friends.Discoverable())
}

func (a *App) refreshStatusBar() {
	user := ""
	if id := a.session.Current(); id != nil {
		user = id.Name
	}
	a.statusBar.SetUser(user)
	a.statusBar.SetStatus(a.chats.UserStatus())
	a.statusBar.SetDarkMode(a.chats.DarkMode())

	flash := ""
	if msg := a.flash.Get(); msg != nil {
		flash = msg.Text
	}
	a.statusBar.SetFlash(flash)
}

func (a *App) refreshMenu(current string) {
	if c, ok := a.components[current]; ok {
		a.menu.Update(c.Hints())
		return
	}
	a.menu.Update(nil)
}

func (a *App) focusCurrent() {
	c, ok := a.components[a.pages.Current()]
	if !ok {
		return
	}
	if p, ok := c.(tview.Primitive); ok {
		a.app.SetFocus(p)
	}
}
