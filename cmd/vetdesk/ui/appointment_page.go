package ui

import (
	"strings"

	apptservice "github.com/ivenhartford/LCH-sub002/internal/appointments/service"
	appttransport "github.com/ivenhartford/LCH-sub002/internal/appointments/transport"
	"github.com/ivenhartford/LCH-sub002/internal/search"

	tea "github.com/charmbracelet/bubbletea"
)

// statusKeys maps a hotkey to the status it requests. Only keys whose status
// is currently reachable are shown and accepted.
var statusKeys = []struct {
	key    string
	status appttransport.AppointmentStatus
}{
	{"c", appttransport.AppointmentStatusConfirmed},
	{"i", appttransport.AppointmentStatusCheckedIn},
	{"s", appttransport.AppointmentStatusInProgress},
	{"d", appttransport.AppointmentStatusCompleted},
	{"x", appttransport.AppointmentStatusCancelled},
	{"m", appttransport.AppointmentStatusNoShow},
}

type appointmentModel struct {
	appt    appttransport.AppointmentResponse
	loaded  bool
	busy    bool
	errText string
	notice  string
	styles  Styles
}

func newAppointment(styles Styles) appointmentModel {
	return appointmentModel{styles: styles}
}

func (m appointmentModel) update(msg tea.Msg, deps Deps) (appointmentModel, tea.Cmd) {
	switch msg := msg.(type) {
	case appointmentLoadedMsg:
		if msg.err != nil {
			m.errText = userMessage(msg.err)
			return m, nil
		}
		m.errText = ""
		m.notice = ""
		m.loaded = true
		m.appt = msg.appt
		return m, nil

	case statusChangedMsg:
		m.busy = false
		if msg.err != nil {
			m.errText = userMessage(msg.err)
			return m, nil
		}
		m.errText = ""
		m.appt = msg.appt
		m.notice = "status updated"
		return m, nil

	case tea.KeyMsg:
		if !m.loaded || m.busy {
			return m, nil
		}
		switch msg.String() {
		case "v":
			return m, navigateCmd(search.KindPatient, m.appt.PatientID)
		default:
			for _, sk := range statusKeys {
				if msg.String() == sk.key && m.reachable(sk.status) {
					m.busy = true
					m.notice = ""
					return m, deps.changeStatusCmd(m.appt.ID, sk.status)
				}
			}
		}
	}
	return m, nil
}

func (m appointmentModel) reachable(status appttransport.AppointmentStatus) bool {
	for _, next := range apptservice.NextStatuses(m.appt.Status) {
		if next == status {
			return true
		}
	}
	return false
}

func (m appointmentModel) view(width int) string {
	if m.errText != "" && !m.loaded {
		return m.styles.Error.Render(m.errText)
	}
	if !m.loaded {
		return m.styles.Muted.Render("loading appointment...")
	}

	a := m.appt
	var b strings.Builder
	b.WriteString(m.styles.Title.Render(swatch(a.TypeColor) + a.Title))
	b.WriteString("  " + m.styles.statusStyle(string(a.Status)).Render(string(a.Status)))
	b.WriteString("\n")

	var card strings.Builder
	writeField(&card, m.styles, "when", a.StartTime.Format("Mon Jan 2, 15:04")+" to "+a.EndTime.Format("15:04"))
	writeField(&card, m.styles, "patient", a.PatientName)
	writeField(&card, m.styles, "client", a.ClientName)
	writeField(&card, m.styles, "type", a.TypeName)
	writeField(&card, m.styles, "notes", a.Description)
	b.WriteString(m.styles.Card.Render(strings.TrimRight(card.String(), "\n")))
	b.WriteString("\n\n")

	switch {
	case m.busy:
		b.WriteString(m.styles.Muted.Render("updating..."))
	case m.errText != "":
		b.WriteString(m.styles.Error.Render(m.errText))
	case m.notice != "":
		b.WriteString(m.styles.Success.Render(m.notice))
	}
	b.WriteString("\n")

	hints := []string{"v patient"}
	for _, sk := range statusKeys {
		if m.reachable(sk.status) {
			hints = append(hints, sk.key+" "+string(sk.status))
		}
	}
	b.WriteString(m.styles.Muted.Render(strings.Join(hints, " · ")))
	return b.String()
}
