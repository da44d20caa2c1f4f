// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/playground-tui/internal/ui/styles"
)

// LoginSubmitMsg is emitted when the form is submitted with both a
// username and a password.
type LoginSubmitMsg struct {
	Register bool
	Email    string
	Username string
	Password string
}

const (
	loginEmail = iota
	loginUsername
	loginPassword
)

// LoginForm is the login screen. ctrl+r switches to registration, which
// adds an email field.
type LoginForm struct {
	theme    *styles.Theme
	inputs   []textinput.Model
	focus    int
	register bool
	busy     bool
	err      string
	width    int
	height   int
}

// NewLoginForm creates a login form focused on the username.
func NewLoginForm(theme *styles.Theme) *LoginForm {
	mk := func(placeholder string) textinput.Model {
		ti := textinput.New()
		ti.Placeholder = placeholder
		ti.Prompt = "> "
		ti.CharLimit = 256
		ti.Width = 32
		return ti
	}
	f := &LoginForm{
		theme:  theme,
		inputs: []textinput.Model{mk("you@example.com"), mk("username"), mk("password")},
		focus:  loginUsername,
	}
	f.inputs[loginPassword].EchoMode = textinput.EchoPassword
	f.inputs[loginPassword].EchoCharacter = '*'
	f.inputs[loginUsername].Focus()
	return f
}

// SetSize sets the area the form is centred in.
func (f *LoginForm) SetSize(w, h int) {
	f.width, f.height = w, h
}

// SetError shows a message under the form.
func (f *LoginForm) SetError(msg string) {
	f.err = msg
}

// SetBusy disables submission while a login is in flight.
func (f *LoginForm) SetBusy(b bool) { f.busy = b }

// Busy reports whether a login is in flight.
func (f *LoginForm) Busy() bool { return f.busy }

// Registering reports whether the form is in registration mode.
func (f *LoginForm) Registering() bool { return f.register }

// Reset clears the password and the error, keeping the username.
func (f *LoginForm) Reset() {
	f.inputs[loginPassword].SetValue("")
	f.err = ""
	f.busy = false
}

// Focused returns the index of the focused input.
func (f *LoginForm) Focused() int { return f.focus }

func (f *LoginForm) visible() []int {
	if f.register {
		return []int{loginEmail, loginUsername, loginPassword}
	}
	return []int{loginUsername, loginPassword}
}

func (f *LoginForm) setFocus(idx int) tea.Cmd {
	for i := range f.inputs {
		f.inputs[i].Blur()
	}
	f.focus = idx
	return f.inputs[idx].Focus()
}

func (f *LoginForm) step(delta int) tea.Cmd {
	vis := f.visible()
	pos := 0
	for i, idx := range vis {
		if idx == f.focus {
			pos = i
		}
	}
	pos = (pos + delta + len(vis)) % len(vis)
	return f.setFocus(vis[pos])
}

// Update handles form input.
func (f *LoginForm) Update(msg tea.Msg) tea.Cmd {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "tab", "down":
			return f.step(1)
		case "shift+tab", "up":
			return f.step(-1)
		case "ctrl+r":
			f.register = !f.register
			f.err = ""
			if f.register {
				return f.setFocus(loginEmail)
			}
			return f.setFocus(loginUsername)
		case "enter":
			if f.focus != loginPassword {
				return f.step(1)
			}
			return f.submit()
		}
	}
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

func (f *LoginForm) submit() tea.Cmd {
	if f.busy {
		return nil
	}
	username := strings.TrimSpace(f.inputs[loginUsername].Value())
	password := f.inputs[loginPassword].Value()
	if username == "" || password == "" {
		f.err = "Username and password are required"
		return nil
	}
	submit := LoginSubmitMsg{
		Register: f.register,
		Username: username,
		Password: password,
	}
	if f.register {
		submit.Email = strings.TrimSpace(f.inputs[loginEmail].Value())
		if submit.Email == "" {
			f.err = "Email is required to register"
			return nil
		}
	}
	f.busy = true
	f.err = ""
	return func() tea.Msg { return submit }
}

// View renders the form centred in its area.
func (f *LoginForm) View() string {
	t := f.theme

	title := "Sign in to Playground"
	if f.register {
		title = "Create an account"
	}

	labels := map[int]string{loginEmail: "Email", loginUsername: "Username", loginPassword: "Password"}
	var rows []string
	rows = append(rows, t.LoginTitle.Render(title))
	for _, idx := range f.visible() {
		rows = append(rows, t.LoginLabel.Render(labels[idx]), f.inputs[idx].View(), "")
	}
	if f.busy {
		rows = append(rows, t.Loading.Render("Signing in..."))
	} else if f.err != "" {
		rows = append(rows, t.LoginError.Render(f.err))
	}
	hint := "enter sign in  ctrl+r register  ctrl+c quit"
	if f.register {
		hint = "enter register  ctrl+r back to sign in  ctrl+c quit"
	}
	rows = append(rows, t.LoginHint.Render(hint))

	box := t.LoginBox.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
	if f.width <= 0 || f.height <= 0 {
		return box
	}
	return lipgloss.Place(f.width, f.height, lipgloss.Center, lipgloss.Center, box)
}
