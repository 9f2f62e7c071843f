package ui

import (
	"fmt"
	"strings"
	"time"

	identitytransport "github.com/ivenhartford/LCH-sub002/internal/identity/transport"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Profile form field order.
const (
	fieldFirstName = iota
	fieldLastName
	fieldEmail
	fieldPhone
	profileFieldCount
)

type settingsModel struct {
	profile identitytransport.ProfileResponse
	clinic  identitytransport.ClinicSettingsResponse
	types   []identitytransport.AppointmentTypeResponse
	form    [profileFieldCount]textinput.Model
	editing bool
	saving  bool
	focus   int
	notice  string
	formErr string
	loaded  bool
	errText string
	styles  Styles
}

func newSettings(styles Styles) settingsModel {
	m := settingsModel{styles: styles}
	prompts := [profileFieldCount]string{"first > ", "last  > ", "email > ", "phone > "}
	for i := range m.form {
		m.form[i] = textinput.New()
		m.form[i].Prompt = prompts[i]
		m.form[i].CharLimit = 120
	}
	return m
}

// capturesInput reports whether the profile form owns the keyboard.
func (m settingsModel) capturesInput() bool {
	return m.editing
}

func (m settingsModel) update(msg tea.Msg, deps Deps) (settingsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case settingsLoadedMsg:
		if msg.err != nil {
			m.errText = userMessage(msg.err)
			return m, nil
		}
		m.errText = ""
		m.loaded = true
		m.profile = msg.profile
		m.clinic = msg.clinic
		m.types = msg.types
		return m, nil

	case profileSavedMsg:
		m.saving = false
		if msg.err != nil {
			m.formErr = userMessage(msg.err)
			return m, nil
		}
		m.editing = false
		m.formErr = ""
		m.notice = "profile saved"
		m.profile = msg.profile
		return m, nil

	case tea.KeyMsg:
		if !m.editing {
			if msg.String() == "e" && m.loaded {
				return m.startEdit()
			}
			return m, nil
		}
		if m.saving {
			return m, nil
		}
		switch msg.String() {
		case "esc":
			m.editing = false
			m.formErr = ""
			return m, nil
		case "tab", "down":
			return m.focusField((m.focus + 1) % profileFieldCount)
		case "shift+tab", "up":
			return m.focusField((m.focus + profileFieldCount - 1) % profileFieldCount)
		case "enter":
			return m.submit(deps)
		}
		var cmd tea.Cmd
		m.form[m.focus], cmd = m.form[m.focus].Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m settingsModel) startEdit() (settingsModel, tea.Cmd) {
	m.form[fieldFirstName].SetValue(m.profile.FirstName)
	m.form[fieldLastName].SetValue(m.profile.LastName)
	m.form[fieldEmail].SetValue(m.profile.Email)
	m.form[fieldPhone].SetValue(m.profile.Phone)
	m.editing = true
	m.notice = ""
	m.formErr = ""
	return m.focusField(fieldFirstName)
}

func (m settingsModel) focusField(target int) (settingsModel, tea.Cmd) {
	m.focus = target
	var cmd tea.Cmd
	for i := range m.form {
		if i == target {
			cmd = m.form[i].Focus()
		} else {
			m.form[i].Blur()
		}
	}
	return m, cmd
}

func (m settingsModel) submit(deps Deps) (settingsModel, tea.Cmd) {
	first := strings.TrimSpace(m.form[fieldFirstName].Value())
	last := strings.TrimSpace(m.form[fieldLastName].Value())
	email := strings.TrimSpace(m.form[fieldEmail].Value())
	phone := strings.TrimSpace(m.form[fieldPhone].Value())
	if first == "" || last == "" || email == "" {
		m.formErr = "name and email are required"
		return m, nil
	}

	// Phone is always sent so an emptied field clears the stored number.
	req := identitytransport.UpdateProfileRequest{
		FirstName: &first,
		LastName:  &last,
		Email:     &email,
		Phone:     &phone,
	}
	m.saving = true
	m.formErr = ""
	return m, deps.saveProfileCmd(req)
}

func (m settingsModel) view(width int) string {
	if m.errText != "" {
		return m.styles.Error.Render(m.errText)
	}
	if !m.loaded {
		return m.styles.Muted.Render("loading settings...")
	}

	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Settings"))
	b.WriteString("\n")

	var profile strings.Builder
	profile.WriteString(m.styles.Subtitle.Render("Your profile"))
	profile.WriteString("\n")
	if m.editing {
		for i := range m.form {
			profile.WriteString(m.form[i].View())
			profile.WriteString("\n")
		}
		switch {
		case m.saving:
			profile.WriteString(m.styles.Muted.Render("saving..."))
		case m.formErr != "":
			profile.WriteString(m.styles.Error.Render(m.formErr))
		default:
			profile.WriteString(m.styles.Muted.Render("enter save · esc cancel"))
		}
	} else {
		writeField(&profile, m.styles, "name", m.profile.FirstName+" "+m.profile.LastName)
		writeField(&profile, m.styles, "email", m.profile.Email)
		writeField(&profile, m.styles, "phone", m.profile.Phone)
		writeField(&profile, m.styles, "role", m.profile.Role)
		if m.notice != "" {
			profile.WriteString(m.styles.Warning.Render(m.notice))
		}
	}

	var clinic strings.Builder
	clinic.WriteString(m.styles.Subtitle.Render("Clinic"))
	clinic.WriteString("\n")
	writeField(&clinic, m.styles, "name", m.clinic.Name)
	address := strings.TrimSpace(m.clinic.AddressLine1 + " " + m.clinic.AddressLine2)
	writeField(&clinic, m.styles, "address", address)
	writeField(&clinic, m.styles, "city", strings.TrimSpace(m.clinic.ZipCode+" "+m.clinic.City))
	writeField(&clinic, m.styles, "phone", m.clinic.Phone)
	writeField(&clinic, m.styles, "email", m.clinic.Email)

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		m.styles.Card.Render(strings.TrimRight(profile.String(), "\n")),
		" ",
		m.styles.Card.Render(strings.TrimRight(clinic.String(), "\n")),
	))
	b.WriteString("\n\n")

	b.WriteString(m.styles.Subtitle.Render("Opening hours"))
	b.WriteString("\n")
	b.WriteString(m.renderHours())
	b.WriteString("\n")

	b.WriteString(m.styles.Subtitle.Render("Appointment types"))
	b.WriteString("\n")
	if len(m.types) == 0 {
		b.WriteString(m.styles.Muted.Render("No appointment types configured."))
		b.WriteString("\n")
	}
	for _, t := range m.types {
		line := fmt.Sprintf("%s%-20s %3d min", swatch(t.Color), t.Name, t.DurationMinutes)
		if !t.Active {
			line += "  " + m.styles.Muted.Render("inactive")
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.editing {
		b.WriteString(m.styles.Muted.Render("tab next field · enter save · esc cancel"))
	} else {
		b.WriteString(m.styles.Muted.Render("e edit profile"))
	}
	b.WriteString("\n")
	return b.String()
}

func (m settingsModel) renderHours() string {
	if len(m.clinic.OpeningHours) == 0 {
		return m.styles.Muted.Render("Not configured.") + "\n"
	}
	byDay := make(map[int]identitytransport.OpeningHours, len(m.clinic.OpeningHours))
	for _, h := range m.clinic.OpeningHours {
		byDay[h.Weekday] = h
	}
	var b strings.Builder
	for day := 0; day < 7; day++ {
		name := time.Weekday(day).String()[:3]
		h, ok := byDay[day]
		switch {
		case !ok || h.Closed:
			b.WriteString(fmt.Sprintf("%s  %s\n", name, m.styles.Muted.Render("closed")))
		default:
			b.WriteString(fmt.Sprintf("%s  %s - %s\n", name, h.Opens, h.Closes))
		}
	}
	return b.String()
}
