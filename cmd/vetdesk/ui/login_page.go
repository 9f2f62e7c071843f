package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type loginModel struct {
	email    textinput.Model
	password textinput.Model
	focused  int
	busy     bool
	notice   string
	errText  string
	styles   Styles
}

func newLogin(styles Styles) loginModel {
	email := textinput.New()
	email.Placeholder = "you@clinic.example"
	email.Prompt = "email    > "
	email.CharLimit = 120

	password := textinput.New()
	password.Placeholder = "password"
	password.Prompt = "password > "
	password.EchoMode = textinput.EchoPassword
	password.CharLimit = 120

	m := loginModel{email: email, password: password, styles: styles}
	m.email.Focus()
	return m
}

func (m *loginModel) reset(notice string) {
	m.busy = false
	m.errText = ""
	m.notice = notice
	m.password.Reset()
	m.focused = 0
	m.email.Focus()
	m.password.Blur()
}

func (m loginModel) update(msg tea.Msg, deps Deps) (loginModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.busy {
			return m, nil
		}
		switch msg.String() {
		case "tab", "shift+tab", "down", "up":
			m.focused = 1 - m.focused
			if m.focused == 0 {
				cmd := m.email.Focus()
				m.password.Blur()
				return m, cmd
			}
			cmd := m.password.Focus()
			m.email.Blur()
			return m, cmd
		case "enter":
			email := strings.TrimSpace(m.email.Value())
			password := m.password.Value()
			if email == "" || password == "" {
				m.errText = "enter both email and password"
				return m, nil
			}
			m.busy = true
			m.errText = ""
			return m, deps.signInCmd(email, password)
		}
	case signInResultMsg:
		m.busy = false
		if msg.err != nil {
			m.errText = userMessage(msg.err)
			m.password.Reset()
			return m, nil
		}
	}

	var cmd tea.Cmd
	if m.focused == 0 {
		m.email, cmd = m.email.Update(msg)
	} else {
		m.password, cmd = m.password.Update(msg)
	}
	return m, cmd
}

func (m loginModel) view(width, height int) string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("vetdesk"))
	b.WriteString("\n")
	b.WriteString(m.styles.Muted.Render("clinic portal sign-in"))
	b.WriteString("\n\n")
	b.WriteString(m.email.View())
	b.WriteString("\n")
	b.WriteString(m.password.View())
	b.WriteString("\n\n")

	switch {
	case m.busy:
		b.WriteString(m.styles.Muted.Render("signing in..."))
	case m.errText != "":
		b.WriteString(m.styles.Error.Render(m.errText))
	case m.notice != "":
		b.WriteString(m.styles.Warning.Render(m.notice))
	default:
		b.WriteString(m.styles.Muted.Render("enter to sign in"))
	}

	card := m.styles.Card.Width(48).Render(b.String())
	if width <= 0 || height <= 0 {
		return card
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
}
