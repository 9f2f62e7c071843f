package ui

import (
	"context"
	"strings"
	"testing"

	authservice "github.com/ivenhartford/LCH-sub002/internal/auth/service"
	identitytransport "github.com/ivenhartford/LCH-sub002/internal/identity/transport"
	"github.com/ivenhartford/LCH-sub002/internal/search"
	"github.com/ivenhartford/LCH-sub002/platform/logger"
	"github.com/ivenhartford/LCH-sub002/platform/validator"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
)

type fakeLoginGateway struct{}

func (fakeLoginGateway) Login(context.Context, string, string) (string, error) {
	return "", nil
}

type fakeSearchGateway struct{}

func (fakeSearchGateway) SearchClients(context.Context, string, int) ([]search.ClientHit, error) {
	return nil, nil
}

func (fakeSearchGateway) SearchPatients(context.Context, string, int) ([]search.PatientHit, error) {
	return nil, nil
}

func (fakeSearchGateway) SearchAppointments(context.Context, string, int) ([]search.AppointmentHit, error) {
	return nil, nil
}

func newTestModel(t *testing.T) Model {
	t.Helper()
	log := logger.New("development")
	session := authservice.New(fakeLoginGateway{}, validator.New(), "", log)
	nav := NewNavigator()
	agg := search.New(fakeSearchGateway{}, nav, search.Config{}, log)
	t.Cleanup(agg.Close)
	return New(Deps{Session: session, Search: agg, Log: log})
}

func TestNavigateSwitchesToDetailPage(t *testing.T) {
	m := newTestModel(t)
	m.page = pageDashboard

	id := uuid.New()
	next, cmd := m.Update(NavigateMsg{Route: "/patients/" + id.String()})
	got := next.(Model)
	if got.page != pagePatientDetail {
		t.Fatalf("page = %d, want patient detail", got.page)
	}
	if cmd == nil {
		t.Fatal("expected a load command")
	}
	if got.back != pageDashboard {
		t.Fatalf("back = %d, want dashboard", got.back)
	}
}

func TestNavigateOpensPageRoute(t *testing.T) {
	m := newTestModel(t)
	m.page = pageDashboard

	next, cmd := m.Update(NavigateMsg{Route: search.RouteClients})
	got := next.(Model)
	if got.page != pageClients {
		t.Fatalf("page = %d, want clients", got.page)
	}
	if cmd == nil {
		t.Fatal("expected a load command")
	}
}

func TestNavigateIgnoresUnknownRoute(t *testing.T) {
	m := newTestModel(t)
	m.page = pageDashboard

	next, cmd := m.Update(NavigateMsg{Route: "/nowhere/abc"})
	got := next.(Model)
	if got.page != pageDashboard {
		t.Fatalf("page = %d, want dashboard unchanged", got.page)
	}
	if cmd != nil {
		t.Fatal("expected no command for an unknown route")
	}
}

func TestEscapeReturnsToListPage(t *testing.T) {
	m := newTestModel(t)
	m.page = pageClients

	id := uuid.New()
	next, _ := m.Update(NavigateMsg{Route: "/clients/" + id.String()})
	got := next.(Model)
	if got.page != pageClientDetail {
		t.Fatalf("page = %d, want client detail", got.page)
	}

	next, cmd := got.Update(tea.KeyMsg{Type: tea.KeyEsc})
	got = next.(Model)
	if got.page != pageClients {
		t.Fatalf("page = %d, want clients after esc", got.page)
	}
	if cmd == nil {
		t.Fatal("expected a reload command for the list page")
	}
}

func TestSessionExpiredShowsLogin(t *testing.T) {
	m := newTestModel(t)
	m.page = pageCalendar

	next, _ := m.Update(SessionExpiredMsg{})
	got := next.(Model)
	if got.page != pageLogin {
		t.Fatalf("page = %d, want login", got.page)
	}
	if !strings.Contains(got.login.view(0, 0), "Session expired") {
		t.Fatal("expected the login page to show the expiry notice")
	}
}

func TestSettingsProfileFormSaves(t *testing.T) {
	m := newTestModel(t)
	m.page = pageSettings

	next, _ := m.Update(settingsLoadedMsg{profile: identitytransport.ProfileResponse{
		FirstName: "Rita",
		LastName:  "Alvarez",
		Email:     "rita@clinic.example",
	}})
	got := next.(Model)

	next, _ = got.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'e'}})
	got = next.(Model)
	if !got.settings.editing {
		t.Fatal("expected e to open the profile form")
	}
	if !got.capturesInput() {
		t.Fatal("expected the form to capture the keyboard")
	}

	next, cmd := got.Update(tea.KeyMsg{Type: tea.KeyEnter})
	got = next.(Model)
	if cmd == nil {
		t.Fatal("expected a save command")
	}
	if !got.settings.saving {
		t.Fatal("expected the form to report saving")
	}

	next, _ = got.Update(profileSavedMsg{profile: identitytransport.ProfileResponse{
		FirstName: "Rita",
		LastName:  "Alvarez",
		Email:     "updated@clinic.example",
	}})
	got = next.(Model)
	if got.settings.editing {
		t.Fatal("expected the form to close after saving")
	}
	if got.settings.profile.Email != "updated@clinic.example" {
		t.Fatalf("email = %q, want the saved value", got.settings.profile.Email)
	}
}

func TestOverlayOpensOnlyWhenIdle(t *testing.T) {
	m := newTestModel(t)
	m.page = pageDashboard

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlK})
	got := next.(Model)
	if !got.overlay.active {
		t.Fatal("ctrl+k should open the search overlay")
	}

	next, _ = got.Update(tea.KeyMsg{Type: tea.KeyEsc})
	got = next.(Model)
	if got.overlay.active {
		t.Fatal("esc should close the search overlay")
	}
}

func TestOverlayRendersGroupCounts(t *testing.T) {
	o := newOverlay(DefaultStyles())
	o.open()
	o.setSnapshot(search.Snapshot{
		Query: "bel",
		Phase: search.PhaseSuccess,
		Groups: search.Groups{
			Clients: []search.ClientHit{
				{ID: uuid.New(), FirstName: "Dana", LastName: "Whitfield", Email: "dana@example.test"},
			},
			Patients: []search.PatientHit{
				{ID: uuid.New(), Name: "Bella", Breed: "Labrador", OwnerName: "Dana Whitfield"},
				{ID: uuid.New(), Name: "Belka", Breed: "Husky", OwnerName: "Marcus Smith"},
			},
		},
	})

	view := o.View()
	for _, want := range []string{"Clients (1)", "Patients (2)", "Appointments (0)", "Dana Whitfield", "Bella"} {
		if !strings.Contains(view, want) {
			t.Fatalf("overlay view missing %q:\n%s", want, view)
		}
	}
}

func TestOverlayCursorWrapsAcrossGroups(t *testing.T) {
	apptID := uuid.New()
	o := newOverlay(DefaultStyles())
	o.open()
	o.setSnapshot(search.Snapshot{
		Phase: search.PhaseSuccess,
		Groups: search.Groups{
			Clients:      []search.ClientHit{{ID: uuid.New(), FirstName: "Dana"}},
			Appointments: []search.AppointmentHit{{ID: apptID, Title: "Dental"}},
		},
	})

	o.moveCursor(-1)
	kind, id, ok := o.selected()
	if !ok {
		t.Fatal("expected a selection")
	}
	if kind != search.KindAppointment || id != apptID {
		t.Fatalf("selected %s/%s, want the appointment", kind, id)
	}

	o.moveCursor(1)
	kind, _, _ = o.selected()
	if kind != search.KindClient {
		t.Fatalf("selected kind = %s, want client after wrap", kind)
	}
}

func TestOverlayShowsEmptyState(t *testing.T) {
	o := newOverlay(DefaultStyles())
	o.open()
	o.setSnapshot(search.Snapshot{Query: "zz", Phase: search.PhaseSuccess})

	if view := o.View(); !strings.Contains(view, "No results") {
		t.Fatalf("expected empty state, got:\n%s", view)
	}
}
