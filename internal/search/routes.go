package search

import (
	"fmt"

	"github.com/google/uuid"
)

// Page routes shared by every presenter. Detail routes come from RouteFor;
// together these strings are the whole navigation contract.
const (
	RouteLogin     = "/login"
	RouteDashboard = "/dashboard"
	RouteCalendar  = "/calendar"
	RouteClients   = "/clients"
	RouteAnalytics = "/analytics"
	RouteSettings  = "/settings"
)

// RouteFor maps a selected hit to the detail route presenters navigate to.
func RouteFor(kind Kind, id uuid.UUID) (string, bool) {
	switch kind {
	case KindClient:
		return fmt.Sprintf("/clients/%s", id), true
	case KindPatient:
		return fmt.Sprintf("/patients/%s", id), true
	case KindAppointment:
		return fmt.Sprintf("/appointments/%s", id), true
	default:
		return "", false
	}
}
