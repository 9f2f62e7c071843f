package ui

import (
	"strings"
	"sync"

	analyticsservice "github.com/ivenhartford/LCH-sub002/internal/analytics/service"
	apptservice "github.com/ivenhartford/LCH-sub002/internal/appointments/service"
	authservice "github.com/ivenhartford/LCH-sub002/internal/auth/service"
	clientservice "github.com/ivenhartford/LCH-sub002/internal/clients/service"
	dashservice "github.com/ivenhartford/LCH-sub002/internal/dashboard/service"
	identityservice "github.com/ivenhartford/LCH-sub002/internal/identity/service"
	patientservice "github.com/ivenhartford/LCH-sub002/internal/patients/service"
	"github.com/ivenhartford/LCH-sub002/internal/search"
	"github.com/ivenhartford/LCH-sub002/platform/logger"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
)

// Deps carries the page stores and the search aggregator into the model
// tree. The composition root builds it once.
type Deps struct {
	Session   *authservice.Service
	Clients   *clientservice.Service
	Patients  *patientservice.Service
	Calendar  *apptservice.Service
	Dashboard *dashservice.Service
	Analytics *analyticsservice.Service
	Identity  *identityservice.Service
	Search    *search.Aggregator
	Log       *logger.Logger
}

// NavigateMsg asks the root model to open the page behind a route.
type NavigateMsg struct {
	Route string
}

// Navigator adapts the aggregator's select callback to the program's
// message loop. Bind must be called once the program exists; selections
// made before that are dropped.
type Navigator struct {
	mu   sync.Mutex
	send func(tea.Msg)
}

// NewNavigator creates an unbound navigator.
func NewNavigator() *Navigator {
	return &Navigator{}
}

// Bind attaches the program's Send function.
func (n *Navigator) Bind(send func(tea.Msg)) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.send = send
}

// Navigate implements search.Navigator.
func (n *Navigator) Navigate(route string) {
	n.mu.Lock()
	send := n.send
	n.mu.Unlock()
	if send == nil {
		return
	}
	// Send must not run on the loop's own goroutine while Update is
	// executing, and selections originate there.
	go send(NavigateMsg{Route: route})
}

// parseDetailRoute splits "/clients/{id}" style routes.
func parseDetailRoute(route string) (page string, id uuid.UUID, ok bool) {
	parts := strings.Split(strings.Trim(route, "/"), "/")
	if len(parts) != 2 {
		return "", uuid.Nil, false
	}
	id, err := uuid.Parse(parts[1])
	if err != nil {
		return "", uuid.Nil, false
	}
	return parts[0], id, true
}

// navigateCmd routes a page-local selection through the same detail routes
// the search overlay uses.
func navigateCmd(kind search.Kind, id uuid.UUID) tea.Cmd {
	route, ok := search.RouteFor(kind, id)
	if !ok {
		return nil
	}
	return func() tea.Msg { return NavigateMsg{Route: route} }
}
