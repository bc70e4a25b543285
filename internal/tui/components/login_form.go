package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kgrange/marquee/internal/tui/styles"
)

// FormMode selects between signing in and creating an account
type FormMode int

const (
	ModeLogin FormMode = iota
	ModeRegister
)

// Credentials are the submitted form values
type Credentials struct {
	Username string
	Email    string
	Password string
}

// LoginForm is the authentication screen with login and register modes.
// Client-side checks mirror the backend's rules so obvious mistakes never
// leave the terminal.
type LoginForm struct {
	mode     FormMode
	username textinput.Model
	email    textinput.Model
	password textinput.Model
	focus    int
	errText  string
	infoText string
	busy     bool
	width    int
	height   int
}

// NewLoginForm creates the form in login mode with the username focused
func NewLoginForm() LoginForm {
	username := textinput.New()
	username.Placeholder = "username"
	username.CharLimit = 64
	username.Focus()

	email := textinput.New()
	email.Placeholder = "email"
	email.CharLimit = 128

	password := textinput.New()
	password.Placeholder = "password"
	password.CharLimit = 128
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	return LoginForm{
		mode:     ModeLogin,
		username: username,
		email:    email,
		password: password,
	}
}

// Mode returns the current form mode
func (f LoginForm) Mode() FormMode {
	return f.mode
}

// ToggleMode switches between login and register, clearing transient state
func (f *LoginForm) ToggleMode() {
	if f.mode == ModeLogin {
		f.mode = ModeRegister
	} else {
		f.mode = ModeLogin
	}
	f.errText = ""
	f.infoText = ""
	f.focus = 0
	f.syncFocus()
}

// SetBusy marks a submission as in flight; input is ignored until an
// outcome arrives.
func (f *LoginForm) SetBusy(busy bool) {
	f.busy = busy
}

// Busy reports whether a submission is outstanding
func (f LoginForm) Busy() bool {
	return f.busy
}

// SetError shows a failure message and re-enables the form
func (f *LoginForm) SetError(errText string) {
	f.errText = errText
	f.infoText = ""
	f.busy = false
}

// SetInfo shows a confirmation message, e.g. after registering
func (f *LoginForm) SetInfo(infoText string) {
	f.infoText = infoText
	f.errText = ""
	f.busy = false
}

// SetSize updates the component dimensions
func (f *LoginForm) SetSize(width, height int) {
	f.width = width
	f.height = height
}

// fieldCount returns how many inputs the current mode shows
func (f LoginForm) fieldCount() int {
	if f.mode == ModeRegister {
		return 3
	}
	return 2
}

// fields returns the inputs for the current mode, in focus order
func (f *LoginForm) fields() []*textinput.Model {
	if f.mode == ModeRegister {
		return []*textinput.Model{&f.username, &f.email, &f.password}
	}
	return []*textinput.Model{&f.username, &f.password}
}

// syncFocus focuses the input at the focus index and blurs the rest
func (f *LoginForm) syncFocus() {
	for i, input := range f.fields() {
		if i == f.focus {
			input.Focus()
		} else {
			input.Blur()
		}
	}
}

// CycleFocus moves focus to the next input
func (f *LoginForm) CycleFocus() {
	f.focus = (f.focus + 1) % f.fieldCount()
	f.syncFocus()
}

// HandleKey feeds a keystroke to the focused input
func (f *LoginForm) HandleKey(msg tea.KeyMsg) tea.Cmd {
	if f.busy {
		return nil
	}
	inputs := f.fields()
	var cmd tea.Cmd
	*inputs[f.focus], cmd = inputs[f.focus].Update(msg)
	return cmd
}

// Submit validates the form. On success it returns the credentials; on
// failure the first problem is shown inline and ok is false.
func (f *LoginForm) Submit() (Credentials, bool) {
	creds := Credentials{
		Username: strings.TrimSpace(f.username.Value()),
		Email:    strings.TrimSpace(f.email.Value()),
		Password: f.password.Value(),
	}

	switch {
	case len(creds.Username) < 3:
		f.SetError("username must be at least 3 characters")
		return Credentials{}, false
	case f.mode == ModeRegister && !strings.Contains(creds.Email, "@"):
		f.SetError("enter a valid email address")
		return Credentials{}, false
	case len(creds.Password) < 6:
		f.SetError("password must be at least 6 characters")
		return Credentials{}, false
	}

	f.errText = ""
	return creds, true
}

// View renders the form centered in the available area
func (f LoginForm) View() string {
	var title string
	var action string
	if f.mode == ModeLogin {
		title = "Sign in to Marquee"
		action = "tab switch field · enter sign in · ctrl+r create account"
	} else {
		title = "Create your account"
		action = "tab switch field · enter register · ctrl+r back to sign in"
	}

	lines := []string{styles.ModalTitleStyle.Render(title), f.username.View()}
	if f.mode == ModeRegister {
		lines = append(lines, f.email.View())
	}
	lines = append(lines, f.password.View())

	switch {
	case f.busy:
		lines = append(lines, "", styles.DimStyle.Render("Working..."))
	case f.errText != "":
		lines = append(lines, "", styles.FormErrorStyle.Render(f.errText))
	case f.infoText != "":
		lines = append(lines, "", styles.SuccessStyle.Render(f.infoText))
	}

	lines = append(lines, "", styles.DimStyle.Render(action))
	box := styles.ModalStyle.Render(strings.Join(lines, "\n"))

	if f.width == 0 || f.height == 0 {
		return box
	}
	return lipgloss.Place(f.width, f.height, lipgloss.Center, lipgloss.Center, box)
}
