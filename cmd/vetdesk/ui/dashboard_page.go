package ui

import (
	"fmt"
	"strings"

	dashservice "github.com/ivenhartford/LCH-sub002/internal/dashboard/service"
	"github.com/ivenhartford/LCH-sub002/internal/search"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type dashboardModel struct {
	overview dashservice.Overview
	loaded   bool
	errText  string
	cursor   int
	styles   Styles
}

func newDashboard(styles Styles) dashboardModel {
	return dashboardModel{styles: styles}
}

func (m dashboardModel) update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardLoadedMsg:
		if msg.err != nil {
			m.errText = userMessage(msg.err)
			return m, nil
		}
		m.errText = ""
		m.loaded = true
		m.overview = msg.overview
		if m.cursor >= len(m.overview.Today) {
			m.cursor = 0
		}
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.overview.Today)-1 {
				m.cursor++
			}
		case "enter":
			if m.cursor < len(m.overview.Today) {
				return m, navigateCmd(search.KindAppointment, m.overview.Today[m.cursor].ID)
			}
		}
	}
	return m, nil
}

func (m dashboardModel) view(width int) string {
	if m.errText != "" {
		return m.styles.Error.Render(m.errText)
	}
	if !m.loaded {
		return m.styles.Muted.Render("loading dashboard...")
	}

	stats := m.overview.Stats
	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		m.statCard("Today", fmt.Sprintf("%d", stats.AppointmentsToday)),
		m.statCard("Active patients", fmt.Sprintf("%d", stats.ActivePatients)),
		m.statCard("Open invoices", fmt.Sprintf("%d", stats.OpenInvoices)),
		m.statCard("Week revenue", formatCents(stats.WeekRevenueCents)),
	)

	var b strings.Builder
	b.WriteString(cards)
	b.WriteString("\n\n")
	b.WriteString(m.styles.Title.Render("Today at the clinic"))
	b.WriteString("\n")

	if len(m.overview.Today) == 0 {
		b.WriteString(m.styles.Muted.Render("No appointments scheduled today."))
	}
	for i, appt := range m.overview.Today {
		line := fmt.Sprintf("%s %s  %s  %s %s",
			appt.StartTime.Format("15:04"),
			swatch(appt.TypeColor),
			appt.Title,
			m.styles.Muted.Render(appt.PatientName),
			m.styles.statusStyle(appt.Status).Render(appt.Status),
		)
		if appt.Notes != "" {
			line += "  " + m.styles.Muted.Render(appt.Notes)
		}
		if i == m.cursor {
			line = m.styles.Selected.Render("> " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func (m dashboardModel) statCard(label, value string) string {
	content := m.styles.Muted.Render(label) + "\n" + m.styles.Bold.Render(value)
	return m.styles.Card.Width(18).Render(content)
}

func formatCents(cents int64) string {
	return fmt.Sprintf("$%d.%02d", cents/100, cents%100)
}
