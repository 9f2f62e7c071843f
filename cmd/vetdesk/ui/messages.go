package ui

import (
	"context"
	"time"

	analyticsservice "github.com/ivenhartford/LCH-sub002/internal/analytics/service"
	apptservice "github.com/ivenhartford/LCH-sub002/internal/appointments/service"
	appttransport "github.com/ivenhartford/LCH-sub002/internal/appointments/transport"
	authservice "github.com/ivenhartford/LCH-sub002/internal/auth/service"
	clientservice "github.com/ivenhartford/LCH-sub002/internal/clients/service"
	dashservice "github.com/ivenhartford/LCH-sub002/internal/dashboard/service"
	identitytransport "github.com/ivenhartford/LCH-sub002/internal/identity/transport"
	patientservice "github.com/ivenhartford/LCH-sub002/internal/patients/service"
	"github.com/ivenhartford/LCH-sub002/internal/search"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
)

// SearchSnapshotMsg delivers an aggregator snapshot into the message loop.
type SearchSnapshotMsg struct {
	Snapshot search.Snapshot
}

// SessionExpiredMsg routes the UI back to the login page.
type SessionExpiredMsg struct{}

type signInResultMsg struct {
	user authservice.User
	err  error
}

type dashboardLoadedMsg struct {
	overview dashservice.Overview
	err      error
}

type monthLoadedMsg struct {
	view apptservice.MonthView
	err  error
}

type clientsLoadedMsg struct {
	page clientservice.Page
	err  error
}

type clientDetailLoadedMsg struct {
	detail clientservice.Detail
	err    error
}

type patientDetailLoadedMsg struct {
	detail patientservice.Detail
	err    error
}

type appointmentLoadedMsg struct {
	appt appttransport.AppointmentResponse
	err  error
}

type statusChangedMsg struct {
	appt appttransport.AppointmentResponse
	err  error
}

type analyticsLoadedMsg struct {
	report analyticsservice.Report
	err    error
}

type settingsLoadedMsg struct {
	profile identitytransport.ProfileResponse
	clinic  identitytransport.ClinicSettingsResponse
	types   []identitytransport.AppointmentTypeResponse
	err     error
}

type profileSavedMsg struct {
	profile identitytransport.ProfileResponse
	err     error
}

func (d Deps) signInCmd(email, password string) tea.Cmd {
	return func() tea.Msg {
		user, err := d.Session.Login(context.Background(), email, password)
		return signInResultMsg{user: user, err: err}
	}
}

func (d Deps) loadDashboardCmd() tea.Cmd {
	return func() tea.Msg {
		overview, err := d.Dashboard.Overview(context.Background())
		return dashboardLoadedMsg{overview: overview, err: err}
	}
}

func (d Deps) loadMonthCmd(year int, month time.Month) tea.Cmd {
	return func() tea.Msg {
		view, err := d.Calendar.Month(context.Background(), year, month)
		return monthLoadedMsg{view: view, err: err}
	}
}

func (d Deps) loadClientsCmd(searchText string, page int) tea.Cmd {
	return func() tea.Msg {
		result, err := d.Clients.List(context.Background(), searchText, page)
		return clientsLoadedMsg{page: result, err: err}
	}
}

func (d Deps) loadClientCmd(id uuid.UUID) tea.Cmd {
	return func() tea.Msg {
		detail, err := d.Clients.Get(context.Background(), id)
		return clientDetailLoadedMsg{detail: detail, err: err}
	}
}

func (d Deps) loadPatientCmd(id uuid.UUID) tea.Cmd {
	return func() tea.Msg {
		detail, err := d.Patients.Get(context.Background(), id)
		return patientDetailLoadedMsg{detail: detail, err: err}
	}
}

func (d Deps) loadAppointmentCmd(id uuid.UUID) tea.Cmd {
	return func() tea.Msg {
		appt, err := d.Calendar.Appointment(context.Background(), id)
		return appointmentLoadedMsg{appt: appt, err: err}
	}
}

func (d Deps) changeStatusCmd(id uuid.UUID, status appttransport.AppointmentStatus) tea.Cmd {
	return func() tea.Msg {
		appt, err := d.Calendar.UpdateStatus(context.Background(), id, status)
		return statusChangedMsg{appt: appt, err: err}
	}
}

func (d Deps) loadAnalyticsCmd(months int) tea.Cmd {
	return func() tea.Msg {
		report, err := d.Analytics.Report(context.Background(), months)
		return analyticsLoadedMsg{report: report, err: err}
	}
}

func (d Deps) loadSettingsCmd() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		profile, err := d.Identity.Profile(ctx)
		if err != nil {
			return settingsLoadedMsg{err: err}
		}
		clinic, err := d.Identity.Clinic(ctx)
		if err != nil {
			return settingsLoadedMsg{err: err}
		}
		types, err := d.Identity.AppointmentTypes(ctx)
		if err != nil {
			return settingsLoadedMsg{err: err}
		}
		return settingsLoadedMsg{profile: profile, clinic: clinic, types: types}
	}
}

func (d Deps) saveProfileCmd(req identitytransport.UpdateProfileRequest) tea.Cmd {
	return func() tea.Msg {
		profile, err := d.Identity.UpdateProfile(context.Background(), req)
		return profileSavedMsg{profile: profile, err: err}
	}
}
