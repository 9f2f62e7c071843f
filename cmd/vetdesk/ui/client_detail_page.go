package ui

import (
	"strings"

	clientservice "github.com/ivenhartford/LCH-sub002/internal/clients/service"
	"github.com/ivenhartford/LCH-sub002/internal/search"

	tea "github.com/charmbracelet/bubbletea"
)

type clientDetailModel struct {
	detail  clientservice.Detail
	loaded  bool
	errText string
	cursor  int
	styles  Styles
}

func newClientDetail(styles Styles) clientDetailModel {
	return clientDetailModel{styles: styles}
}

func (m clientDetailModel) update(msg tea.Msg) (clientDetailModel, tea.Cmd) {
	switch msg := msg.(type) {
	case clientDetailLoadedMsg:
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
			if m.cursor < len(m.detail.Patients)-1 {
				m.cursor++
			}
		case "enter":
			if m.cursor < len(m.detail.Patients) {
				return m, navigateCmd(search.KindPatient, m.detail.Patients[m.cursor].ID)
			}
		}
	}
	return m, nil
}

func (m clientDetailModel) view(width int) string {
	if m.errText != "" {
		return m.styles.Error.Render(m.errText)
	}
	if !m.loaded {
		return m.styles.Muted.Render("loading client...")
	}

	c := m.detail.Client
	var b strings.Builder
	b.WriteString(m.styles.Title.Render(c.FirstName + " " + c.LastName))
	b.WriteString("\n")

	var card strings.Builder
	writeField(&card, m.styles, "email", c.Email)
	writeField(&card, m.styles, "phone", c.PhonePrimary)
	writeField(&card, m.styles, "alt phone", c.PhoneSecondary)
	if c.Street != "" || c.City != "" {
		writeField(&card, m.styles, "address", strings.TrimSpace(c.Street+", "+c.ZipCode+" "+c.City))
	}
	writeField(&card, m.styles, "notes", c.Notes)
	b.WriteString(m.styles.Card.Render(strings.TrimRight(card.String(), "\n")))
	b.WriteString("\n\n")

	b.WriteString(m.styles.Subtitle.Render("Patients"))
	b.WriteString("\n")
	if len(m.detail.Patients) == 0 {
		b.WriteString(m.styles.Muted.Render("No patients on file."))
		return b.String()
	}
	for i, p := range m.detail.Patients {
		line := p.Name + " " + m.styles.Muted.Render(p.Species)
		if p.Breed != "" {
			line += " " + m.styles.Muted.Render("· "+p.Breed)
		}
		line += "  " + m.styles.statusStyle(p.Status).Render(p.Status)
		if i == m.cursor {
			b.WriteString(m.styles.Selected.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.styles.Muted.Render("↑/↓ select · enter open patient"))
	return b.String()
}

// writeField appends a labelled value line, skipping empty values.
func writeField(b *strings.Builder, styles Styles, label, value string) {
	if value == "" {
		return
	}
	b.WriteString(styles.Muted.Render(padLabel(label)))
	b.WriteString(value)
	b.WriteString("\n")
}

func padLabel(label string) string {
	const width = 11
	if len(label) >= width {
		return label + " "
	}
	return label + strings.Repeat(" ", width-len(label))
}
