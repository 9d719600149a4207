package views

import (
	"github.com/rivo/tview"

	"chatterm/internal/tui/ui"
)

// SignIn is the authentication form shown until an identity exists.
type SignIn struct {
	*tview.Flex
	form     *tview.Form
	message  *tview.TextView
	onSignIn func(email, password string)
	onSignUp func(name, email, password string)
	signUp   bool
}

// NewSignIn creates the sign-in form.
func NewSignIn(theme *ui.Theme) *SignIn {
	form := tview.NewForm()
	form.SetBorder(true).SetTitle(" Sign In ")

	message := tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter)

	flex := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(form, 0, 1, true).
		AddItem(message, 1, 0, false)

	s := &SignIn{
		Flex:    flex,
		form:    form,
		message: message,
	}
	s.ApplyTheme(theme)
	s.buildForm()
	return s
}

// Name implements Component.
func (s *SignIn) Name() string { return "signin" }

// Hints implements Component.
func (s *SignIn) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "Tab", Description: "next field"},
		{Key: "Enter", Description: "submit"},
	}
}

// ApplyTheme implements Component.
func (s *SignIn) ApplyTheme(t *ui.Theme) {
	s.form.SetBackgroundColor(t.BgColor)
	s.form.SetBorderColor(t.BorderColor)
	s.form.SetTitleColor(t.TitleColor)
	s.form.SetFieldBackgroundColor(t.TableHeaderBg)
	s.form.SetFieldTextColor(t.FgColor)
	s.form.SetLabelColor(t.MenuKeyColor)
	s.form.SetButtonBackgroundColor(t.BorderColor)
	s.message.SetBackgroundColor(t.BgColor)
	s.message.SetTextColor(t.FgColor)
}

// SetOnSignIn sets the sign-in submit callback.
func (s *SignIn) SetOnSignIn(fn func(email, password string)) {
	s.onSignIn = fn
}

// SetOnSignUp sets the sign-up submit callback.
func (s *SignIn) SetOnSignUp(fn func(name, email, password string)) {
	s.onSignUp = fn
}

// ShowMessage displays a status line under the form.
func (s *SignIn) ShowMessage(msg string) {
	s.message.Clear()
	s.message.SetText(msg)
}

func (s *SignIn) buildForm() {
	s.form.Clear(true)
	s.message.Clear()

	if s.signUp {
		s.form.SetTitle(" Sign Up ")
		s.form.
			AddInputField("Name", "", 40, nil, nil).
			AddInputField("Email", "", 40, nil, nil).
			AddPasswordField("Password", "", 40, '*', nil).
			AddButton("Create account", func() {
				name := s.fieldText(0)
				email := s.fieldText(1)
				password := s.fieldText(2)
				if s.onSignUp != nil {
					s.onSignUp(name, email, password)
				}
			}).
			AddButton("Have an account? Sign in", func() {
				s.signUp = false
				s.buildForm()
			})
		return
	}

	s.form.SetTitle(" Sign In ")
	s.form.
		AddInputField("Email", "", 40, nil, nil).
		AddPasswordField("Password", "", 40, '*', nil).
		AddButton("Sign in", func() {
			email := s.fieldText(0)
			password := s.fieldText(1)
			if s.onSignIn != nil {
				s.onSignIn(email, password)
			}
		}).
		AddButton("New here? Sign up", func() {
			s.signUp = true
			s.buildForm()
		})
}

func (s *SignIn) fieldText(index int) string {
	item := s.form.GetFormItem(index)
	if field, ok := item.(*tview.InputField); ok {
		return field.GetText()
	}
	return ""
}
