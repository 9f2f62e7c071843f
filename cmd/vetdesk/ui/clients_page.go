package ui

import (
	"fmt"
	"strconv"
	"strings"

	clientservice "github.com/ivenhartford/LCH-sub002/internal/clients/service"
	"github.com/ivenhartford/LCH-sub002/internal/search"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
)

type clientsModel struct {
	table       table.Model
	filter      textinput.Model
	filtering   bool
	page        clientservice.Page
	ids         []uuid.UUID
	currentPage int
	searchText  string
	loaded      bool
	errText     string
	styles      Styles
}

func newClients(styles Styles) clientsModel {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Name", Width: 28},
			{Title: "Email", Width: 28},
			{Title: "Phone", Width: 16},
			{Title: "Patients", Width: 8},
		}),
		table.WithFocused(true),
		table.WithHeight(14),
	)

	filter := textinput.New()
	filter.Placeholder = "name, email or phone..."
	filter.Prompt = "filter> "
	filter.CharLimit = 100

	return clientsModel{table: t, filter: filter, currentPage: 1, styles: styles}
}

func (m clientsModel) capturesInput() bool { return m.filtering }

func (m clientsModel) update(msg tea.Msg, deps Deps) (clientsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case clientsLoadedMsg:
		if msg.err != nil {
			m.errText = userMessage(msg.err)
			return m, nil
		}
		m.errText = ""
		m.loaded = true
		m.page = msg.page
		m.currentPage = msg.page.Page
		m.applyRows()
		return m, nil

	case tea.KeyMsg:
		if m.filtering {
			switch msg.String() {
			case "enter":
				m.filtering = false
				m.filter.Blur()
				m.searchText = strings.TrimSpace(m.filter.Value())
				m.currentPage = 1
				return m, deps.loadClientsCmd(m.searchText, 1)
			case "esc":
				m.filtering = false
				m.filter.Blur()
				return m, nil
			}
			var cmd tea.Cmd
			m.filter, cmd = m.filter.Update(msg)
			return m, cmd
		}

		switch msg.String() {
		case "f":
			m.filtering = true
			cmd := m.filter.Focus()
			return m, cmd
		case "n", "right":
			if m.currentPage < m.page.TotalPages {
				return m, deps.loadClientsCmd(m.searchText, m.currentPage+1)
			}
			return m, nil
		case "p", "left":
			if m.currentPage > 1 {
				return m, deps.loadClientsCmd(m.searchText, m.currentPage-1)
			}
			return m, nil
		case "enter":
			if row := m.table.Cursor(); row >= 0 && row < len(m.ids) {
				return m, navigateCmd(search.KindClient, m.ids[row])
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *clientsModel) applyRows() {
	rows := make([]table.Row, 0, len(m.page.Clients))
	m.ids = m.ids[:0]
	for _, c := range m.page.Clients {
		rows = append(rows, table.Row{
			c.FirstName + " " + c.LastName,
			c.Email,
			c.PhonePrimary,
			strconv.Itoa(c.PatientCount),
		})
		m.ids = append(m.ids, c.ID)
	}
	m.table.SetRows(rows)
	if m.table.Cursor() >= len(rows) {
		m.table.SetCursor(0)
	}
}

func (m clientsModel) view(width int) string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Clients"))
	if m.searchText != "" {
		b.WriteString("  " + m.styles.Badge.Render(m.searchText))
	}
	b.WriteString("\n")

	if m.filtering {
		b.WriteString(m.filter.View())
		b.WriteString("\n")
	}

	switch {
	case m.errText != "":
		b.WriteString(m.styles.Error.Render(m.errText))
	case !m.loaded:
		b.WriteString(m.styles.Muted.Render("loading clients..."))
	case len(m.page.Clients) == 0:
		b.WriteString(m.styles.Muted.Render("No clients match."))
	default:
		b.WriteString(m.table.View())
		b.WriteString("\n")
		b.WriteString(m.styles.Muted.Render(fmt.Sprintf("page %d/%d · %d total · f filter · ←/→ page · enter open",
			m.currentPage, max(m.page.TotalPages, 1), m.page.Total)))
	}
	return b.String()
}
