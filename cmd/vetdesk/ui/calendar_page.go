package ui

import (
	"fmt"
	"strings"
	"time"

	apptservice "github.com/ivenhartford/LCH-sub002/internal/appointments/service"
	"github.com/ivenhartford/LCH-sub002/internal/search"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const calendarCellWidth = 14

var weekdayHeads = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

type calendarModel struct {
	year    int
	month   time.Month
	grid    apptservice.MonthView
	loaded  bool
	errText string
	row     int
	col     int
	styles  Styles
}

func newCalendar(styles Styles, now time.Time) calendarModel {
	return calendarModel{year: now.Year(), month: now.Month(), styles: styles}
}

func (m calendarModel) update(msg tea.Msg, deps Deps) (calendarModel, tea.Cmd) {
	switch msg := msg.(type) {
	case monthLoadedMsg:
		if msg.err != nil {
			m.errText = userMessage(msg.err)
			return m, nil
		}
		m.errText = ""
		m.loaded = true
		m.grid = msg.view
	case tea.KeyMsg:
		switch msg.String() {
		case "left", "h":
			if m.col > 0 {
				m.col--
			}
		case "right", "l":
			if m.col < 6 {
				m.col++
			}
		case "up", "k":
			if m.row > 0 {
				m.row--
			}
		case "down", "j":
			if m.row < 5 {
				m.row++
			}
		case "n", "pgdown":
			m.year, m.month = nextMonth(m.year, m.month)
			m.loaded = false
			return m, deps.loadMonthCmd(m.year, m.month)
		case "p", "pgup":
			m.year, m.month = prevMonth(m.year, m.month)
			m.loaded = false
			return m, deps.loadMonthCmd(m.year, m.month)
		case "t":
			now := time.Now()
			m.year, m.month = now.Year(), now.Month()
			m.loaded = false
			return m, deps.loadMonthCmd(m.year, m.month)
		case "enter":
			if cell, ok := m.selectedCell(); ok && len(cell.Appointments) > 0 {
				return m, navigateCmd(search.KindAppointment, cell.Appointments[0].ID)
			}
		}
	}
	return m, nil
}

func (m calendarModel) selectedCell() (apptservice.DayCell, bool) {
	if !m.loaded || m.row >= len(m.grid.Weeks) || m.col >= len(m.grid.Weeks[m.row]) {
		return apptservice.DayCell{}, false
	}
	return m.grid.Weeks[m.row][m.col], true
}

func (m calendarModel) view(width int) string {
	title := m.styles.Title.Render(fmt.Sprintf("%s %d", m.month, m.year))
	if !m.loaded {
		if m.errText != "" {
			return title + "\n" + m.styles.Error.Render(m.errText)
		}
		return title + "\n" + m.styles.Muted.Render("loading calendar...")
	}

	var heads []string
	for _, h := range weekdayHeads {
		heads = append(heads, m.styles.Subtitle.Width(calendarCellWidth).Render(h))
	}

	rows := []string{lipgloss.JoinHorizontal(lipgloss.Top, heads...)}
	for r, week := range m.grid.Weeks {
		var cells []string
		for c, day := range week {
			cells = append(cells, m.renderCell(day, r == m.row && c == m.col))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}

	grid := lipgloss.JoinVertical(lipgloss.Left, rows...)
	return title + "\n" + grid
}

func (m calendarModel) renderCell(day apptservice.DayCell, selected bool) string {
	num := fmt.Sprintf("%2d", day.Date.Day())
	if !day.InMonth {
		num = m.styles.Muted.Render(num)
	} else {
		num = m.styles.Bold.Render(num)
	}

	lines := []string{num}
	shown := 0
	for _, appt := range day.Appointments {
		if shown == 2 {
			lines = append(lines, m.styles.Muted.Render(fmt.Sprintf("+%d more", len(day.Appointments)-shown)))
			break
		}
		title := appt.Title
		if len(title) > calendarCellWidth-4 {
			title = title[:calendarCellWidth-4]
		}
		lines = append(lines, swatch(appt.TypeColor)+title)
		shown++
	}
	for len(lines) < 3 {
		lines = append(lines, "")
	}

	cell := strings.Join(lines, "\n")
	style := m.styles.Card.Width(calendarCellWidth)
	if selected {
		style = style.BorderForeground(colorAccent)
	}
	return style.Render(cell)
}

func nextMonth(year int, month time.Month) (int, time.Month) {
	t := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
	return t.Year(), t.Month()
}

func prevMonth(year int, month time.Month) (int, time.Month) {
	t := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0)
	return t.Year(), t.Month()
}
