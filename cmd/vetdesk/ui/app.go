package ui

import (
	"strings"
	"time"

	"github.com/ivenhartford/LCH-sub002/internal/search"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type page int

const (
	pageLogin page = iota
	pageDashboard
	pageCalendar
	pageClients
	pageClientDetail
	pagePatientDetail
	pageAppointment
	pageAnalytics
	pageSettings
)

// tabs are the pages reachable by number key, in key order.
var tabs = []struct {
	label  string
	target page
}{
	{"dashboard", pageDashboard},
	{"calendar", pageCalendar},
	{"clients", pageClients},
	{"analytics", pageAnalytics},
	{"settings", pageSettings},
}

// Model is the root of the page tree. Pages own their data and cursors; the
// root owns the active page, the search overlay, and the global keys.
type Model struct {
	deps   Deps
	styles Styles
	width  int
	height int

	page page
	back page

	login         loginModel
	dashboard     dashboardModel
	calendar      calendarModel
	clients       clientsModel
	clientDetail  clientDetailModel
	patientDetail patientDetailModel
	appointment   appointmentModel
	analytics     analyticsModel
	settings      settingsModel
	overlay       overlayModel
}

func New(deps Deps) Model {
	styles := DefaultStyles()
	m := Model{
		deps:          deps,
		styles:        styles,
		page:          pageLogin,
		back:          pageDashboard,
		login:         newLogin(styles),
		dashboard:     newDashboard(styles),
		calendar:      newCalendar(styles, time.Now()),
		clients:       newClients(styles),
		clientDetail:  newClientDetail(styles),
		patientDetail: newPatientDetail(styles),
		appointment:   newAppointment(styles),
		analytics:     newAnalytics(styles),
		settings:      newSettings(styles),
		overlay:       newOverlay(styles),
	}
	if deps.Session.SignedIn() {
		m.page = pageDashboard
	}
	return m
}

func (m Model) Init() tea.Cmd {
	if m.page == pageDashboard {
		return tea.Batch(textinput.Blink, m.deps.loadDashboardCmd())
	}
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case SearchSnapshotMsg:
		wasLoading := m.overlay.snap.Loading
		m.overlay.setSnapshot(msg.Snapshot)
		if m.overlay.active && msg.Snapshot.Loading && !wasLoading {
			return m, m.overlay.spin.Tick
		}
		return m, nil

	case spinner.TickMsg:
		// The tick chain runs only while the overlay shows a lookup.
		if m.overlay.active && m.overlay.snap.Loading {
			var cmd tea.Cmd
			m.overlay.spin, cmd = m.overlay.spin.Update(msg)
			return m, cmd
		}
		return m, nil

	case NavigateMsg:
		return m.navigate(msg.Route)

	case SessionExpiredMsg:
		m.overlay.close()
		m.page = pageLogin
		m.login.reset("Session expired, sign in again.")
		return m, textinput.Blink

	case signInResultMsg:
		var cmd tea.Cmd
		m.login, cmd = m.login.update(msg, m.deps)
		if msg.err == nil {
			m.page = pageDashboard
			return m, tea.Batch(cmd, m.deps.loadDashboardCmd())
		}
		return m, cmd

	case dashboardLoadedMsg:
		var cmd tea.Cmd
		m.dashboard, cmd = m.dashboard.update(msg)
		return m, cmd
	case monthLoadedMsg:
		var cmd tea.Cmd
		m.calendar, cmd = m.calendar.update(msg, m.deps)
		return m, cmd
	case clientsLoadedMsg:
		var cmd tea.Cmd
		m.clients, cmd = m.clients.update(msg, m.deps)
		return m, cmd
	case clientDetailLoadedMsg:
		var cmd tea.Cmd
		m.clientDetail, cmd = m.clientDetail.update(msg)
		return m, cmd
	case patientDetailLoadedMsg:
		var cmd tea.Cmd
		m.patientDetail, cmd = m.patientDetail.update(msg)
		return m, cmd
	case appointmentLoadedMsg:
		var cmd tea.Cmd
		m.appointment, cmd = m.appointment.update(msg, m.deps)
		return m, cmd
	case statusChangedMsg:
		var cmd tea.Cmd
		m.appointment, cmd = m.appointment.update(msg, m.deps)
		return m, cmd
	case analyticsLoadedMsg:
		var cmd tea.Cmd
		m.analytics, cmd = m.analytics.update(msg, m.deps)
		return m, cmd
	case settingsLoadedMsg:
		var cmd tea.Cmd
		m.settings, cmd = m.settings.update(msg, m.deps)
		return m, cmd
	case profileSavedMsg:
		var cmd tea.Cmd
		m.settings, cmd = m.settings.update(msg, m.deps)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.overlay.active {
		return m.handleOverlayKey(msg)
	}

	if m.page == pageLogin {
		var cmd tea.Cmd
		m.login, cmd = m.login.update(msg, m.deps)
		return m, cmd
	}

	if !m.capturesInput() {
		switch msg.String() {
		case "ctrl+k", "/":
			cmd := m.overlay.open()
			return m, cmd
		case "q":
			return m, tea.Quit
		case "esc":
			return m.escape()
		default:
			for i, tab := range tabs {
				if msg.String() == string(rune('1'+i)) {
					return m.switchTab(tab.target)
				}
			}
		}
	}

	return m.routeKey(msg)
}

// capturesInput reports whether the active page owns the keyboard, which
// suspends the global shortcuts.
func (m Model) capturesInput() bool {
	switch m.page {
	case pageClients:
		return m.clients.capturesInput()
	case pageSettings:
		return m.settings.capturesInput()
	default:
		return false
	}
}

func (m Model) handleOverlayKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "ctrl+k":
		m.deps.Search.OnDismiss()
		m.overlay.close()
		return m, nil
	case "up":
		m.overlay.moveCursor(-1)
		return m, nil
	case "down":
		m.overlay.moveCursor(1)
		return m, nil
	case "enter":
		if kind, id, ok := m.overlay.selected(); ok {
			// OnSelect resets the aggregator and routes a NavigateMsg
			// back through the navigator.
			m.deps.Search.OnSelect(kind, id)
			m.overlay.close()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.overlay.input, cmd = m.overlay.input.Update(msg)
	m.deps.Search.OnQueryChange(m.overlay.input.Value())
	return m, cmd
}

// routeKey hands a key to the active page.
func (m Model) routeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.page {
	case pageDashboard:
		m.dashboard, cmd = m.dashboard.update(msg)
	case pageCalendar:
		m.calendar, cmd = m.calendar.update(msg, m.deps)
	case pageClients:
		m.clients, cmd = m.clients.update(msg, m.deps)
	case pageClientDetail:
		m.clientDetail, cmd = m.clientDetail.update(msg)
	case pagePatientDetail:
		m.patientDetail, cmd = m.patientDetail.update(msg)
	case pageAppointment:
		m.appointment, cmd = m.appointment.update(msg, m.deps)
	case pageAnalytics:
		m.analytics, cmd = m.analytics.update(msg, m.deps)
	case pageSettings:
		m.settings, cmd = m.settings.update(msg, m.deps)
	}
	return m, cmd
}

// navigate opens the page behind a route. Page routes switch tabs,
// "/clients/{id}" style routes open detail pages.
func (m Model) navigate(route string) (tea.Model, tea.Cmd) {
	if target, ok := pageFor(route); ok {
		m.overlay.close()
		if target == pageLogin {
			m.page = pageLogin
			m.login.reset("")
			return m, textinput.Blink
		}
		return m.switchTab(target)
	}

	name, id, ok := parseDetailRoute(route)
	if !ok {
		m.deps.Log.Warn("ignoring unknown route", "route", route)
		return m, nil
	}

	m.overlay.close()
	if !m.isDetailPage(m.page) {
		m.back = m.page
	}

	switch name {
	case "clients":
		m.page = pageClientDetail
		m.clientDetail = newClientDetail(m.styles)
		return m, m.deps.loadClientCmd(id)
	case "patients":
		m.page = pagePatientDetail
		m.patientDetail = newPatientDetail(m.styles)
		return m, m.deps.loadPatientCmd(id)
	case "appointments":
		m.page = pageAppointment
		m.appointment = newAppointment(m.styles)
		return m, m.deps.loadAppointmentCmd(id)
	}

	m.deps.Log.Warn("ignoring unknown route", "route", route)
	return m, nil
}

func (m Model) isDetailPage(p page) bool {
	return p == pageClientDetail || p == pagePatientDetail || p == pageAppointment
}

// pageFor resolves the shared page routes to their pages.
func pageFor(route string) (page, bool) {
	switch route {
	case search.RouteLogin:
		return pageLogin, true
	case search.RouteDashboard:
		return pageDashboard, true
	case search.RouteCalendar:
		return pageCalendar, true
	case search.RouteClients:
		return pageClients, true
	case search.RouteAnalytics:
		return pageAnalytics, true
	case search.RouteSettings:
		return pageSettings, true
	default:
		return 0, false
	}
}

// escape returns from a detail page to the last list page.
func (m Model) escape() (tea.Model, tea.Cmd) {
	if !m.isDetailPage(m.page) {
		return m, nil
	}
	return m.switchTab(m.back)
}

func (m Model) switchTab(target page) (tea.Model, tea.Cmd) {
	m.page = target
	switch target {
	case pageDashboard:
		return m, m.deps.loadDashboardCmd()
	case pageCalendar:
		return m, m.deps.loadMonthCmd(m.calendar.year, m.calendar.month)
	case pageClients:
		return m, m.deps.loadClientsCmd(m.clients.searchText, m.clients.currentPage)
	case pageAnalytics:
		return m, m.deps.loadAnalyticsCmd(m.analytics.months)
	case pageSettings:
		return m, m.deps.loadSettingsCmd()
	}
	return m, nil
}

func (m Model) View() string {
	if m.page == pageLogin {
		return m.login.view(m.width, m.height)
	}

	body := m.pageView()
	if m.overlay.active {
		body = m.overlay.View()
		if m.width > 0 && m.height > 4 {
			body = lipgloss.Place(m.width, m.height-4, lipgloss.Center, lipgloss.Center, body)
		}
	}

	return m.header() + "\n" + body + "\n" + m.footer()
}

func (m Model) pageView() string {
	switch m.page {
	case pageDashboard:
		return m.dashboard.view(m.width)
	case pageCalendar:
		return m.calendar.view(m.width)
	case pageClients:
		return m.clients.view(m.width)
	case pageClientDetail:
		return m.clientDetail.view(m.width)
	case pagePatientDetail:
		return m.patientDetail.view(m.width)
	case pageAppointment:
		return m.appointment.view(m.width)
	case pageAnalytics:
		return m.analytics.view(m.width)
	case pageSettings:
		return m.settings.view(m.width)
	}
	return ""
}

func (m Model) header() string {
	parts := make([]string, 0, len(tabs)+1)
	parts = append(parts, m.styles.Bold.Render("vetdesk"))
	active := m.page
	if m.isDetailPage(active) {
		active = m.back
	}
	for i, tab := range tabs {
		label := string(rune('1'+i)) + " " + tab.label
		if tab.target == active {
			parts = append(parts, m.styles.Selected.Render(label))
		} else {
			parts = append(parts, m.styles.Muted.Render(label))
		}
	}
	if user, ok := m.deps.Session.CurrentUser(); ok {
		parts = append(parts, m.styles.Muted.Render(user.Name))
	}
	return m.styles.Header.Render(strings.Join(parts, "  "))
}

func (m Model) footer() string {
	hint := "ctrl+k search · q quit"
	if m.isDetailPage(m.page) {
		hint = "esc back · " + hint
	}
	return m.styles.Footer.Render(hint)
}
