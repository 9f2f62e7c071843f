package ui

import (
	"fmt"
	"strings"
	"time"

	patientservice "github.com/ivenhartford/LCH-sub002/internal/patients/service"
	"github.com/ivenhartford/LCH-sub002/internal/search"

	tea "github.com/charmbracelet/bubbletea"
)

type patientDetailModel struct {
	detail  patientservice.Detail
	loaded  bool
	errText string
	cursor  int
	styles  Styles
}

func newPatientDetail(styles Styles) patientDetailModel {
	return patientDetailModel{styles: styles}
}

func (m patientDetailModel) update(msg tea.Msg) (patientDetailModel, tea.Cmd) {
	switch msg := msg.(type) {
	case patientDetailLoadedMsg:
		if msg.err != nil {
			m.errText = userMessage(msg.err)
			return m, nil
		}
		m.errText = ""
		m.loaded = true
		m.detail = msg.detail
		m.cursor = 0
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.detail.UpcomingVisits)-1 {
				m.cursor++
			}
		case "enter":
			if m.cursor < len(m.detail.UpcomingVisits) {
				return m, navigateCmd(search.KindAppointment, m.detail.UpcomingVisits[m.cursor].ID)
			}
		case "o":
			if m.loaded {
				return m, navigateCmd(search.KindClient, m.detail.Owner.ID)
			}
		}
	}
	return m, nil
}

func (m patientDetailModel) view(width int) string {
	if m.errText != "" {
		return m.styles.Error.Render(m.errText)
	}
	if !m.loaded {
		return m.styles.Muted.Render("loading patient...")
	}

	p := m.detail.Patient
	var b strings.Builder
	b.WriteString(m.styles.Title.Render(p.Name))
	b.WriteString("  " + m.styles.statusStyle(string(p.Status)).Render(string(p.Status)))
	b.WriteString("\n")

	var card strings.Builder
	species := p.Species
	if p.Breed != "" {
		species += " · " + p.Breed
	}
	writeField(&card, m.styles, "species", species)
	writeField(&card, m.styles, "sex", p.Sex)
	if years, ok := p.AgeYears(time.Now()); ok {
		writeField(&card, m.styles, "age", fmt.Sprintf("%d years", years))
	}
	owner := m.detail.Owner
	writeField(&card, m.styles, "owner", owner.FirstName+" "+owner.LastName)
	writeField(&card, m.styles, "contact", owner.PhonePrimary)
	writeField(&card, m.styles, "notes", p.Notes)
	b.WriteString(m.styles.Card.Render(strings.TrimRight(card.String(), "\n")))
	b.WriteString("\n\n")

	b.WriteString(m.styles.Subtitle.Render("Upcoming visits"))
	b.WriteString("\n")
	if len(m.detail.UpcomingVisits) == 0 {
		b.WriteString(m.styles.Muted.Render("Nothing scheduled."))
	} else {
		for i, v := range m.detail.UpcomingVisits {
			line := swatch(v.TypeColor) + v.Title +
				" " + m.styles.Muted.Render(v.StartTime.Format("Jan 2 15:04")) +
				"  " + m.styles.statusStyle(v.Status).Render(v.Status)
			if i == m.cursor {
				b.WriteString(m.styles.Selected.Render("> " + line))
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")
	b.WriteString(m.styles.Muted.Render("↑/↓ select · enter open visit · o owner"))
	return b.String()
}
