package ui

import (
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	tea "github.com/charmbracelet/bubbletea"
)

// LoginModel gates the dashboard behind a username/password form.
type LoginModel struct {
	form *huh.Form
	// Form values live behind pointers: the huh inputs hold references to
	// them, and the model itself is copied on every Update.
	username *string
	password *string
	errMsg   string
	width    int
	height   int
}

// NewLoginModel builds a fresh login form, optionally showing the error
// from a failed attempt.
func NewLoginModel(errMsg string) LoginModel {
	username := new(string)
	password := new(string)
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Username").
				Value(username),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(password),
		),
	).WithShowHelp(false)

	return LoginModel{
		form:     form,
		username: username,
		password: password,
		errMsg:   errMsg,
	}
}

// Init implements tea.Model.
func (m LoginModel) Init() tea.Cmd {
	return m.form.Init()
}

// Update implements tea.Model.
func (m LoginModel) Update(msg tea.Msg) (LoginModel, tea.Cmd) {
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}
	return m, cmd
}

// View implements tea.Model.
func (m LoginModel) View() string {
	var body string
	body += TitleStyle.Render("Repetitive Defect Monitoring") + "\n"
	body += SubtextStyle.Render("Sign in to review defect analysis") + "\n\n"
	body += m.form.View()
	if m.errMsg != "" {
		body += "\n" + StatusErrStyle.Render(m.errMsg)
	}

	box := PanelStyle.Padding(1, 3).Render(body)
	if m.width == 0 {
		return box
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

// SetSize records the terminal size for centering.
func (m *LoginModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Done reports whether the form was submitted.
func (m LoginModel) Done() bool {
	return m.form.State == huh.StateCompleted
}

// Credentials returns the entered username and password.
func (m LoginModel) Credentials() (string, string) {
	return *m.username, *m.password
}
