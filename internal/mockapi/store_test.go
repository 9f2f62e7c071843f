package mockapi

import (
	"strings"
	"testing"
	"time"

	appttransport "github.com/ivenhartford/LCH-sub002/internal/appointments/transport"
	"github.com/ivenhartford/LCH-sub002/internal/mockapi/fixtures"
	"github.com/ivenhartford/LCH-sub002/platform/apperr"

	"github.com/google/uuid"
)

const (
	seedUserID    = "11111111-1111-1111-1111-111111111111"
	seedTypeID    = "22222222-2222-2222-2222-222222222222"
	seedClientA   = "33333333-3333-3333-3333-333333330001"
	seedClientB   = "33333333-3333-3333-3333-333333330002"
	seedClientC   = "33333333-3333-3333-3333-333333330003"
	seedPatientA  = "44444444-4444-4444-4444-444444440001"
	seedPatientB  = "44444444-4444-4444-4444-444444440002"
	seedApptToday = "55555555-5555-5555-5555-555555550001"
	seedApptCanc  = "55555555-5555-5555-5555-555555550002"
	seedApptNext  = "55555555-5555-5555-5555-555555550003"
	seedApptPast  = "55555555-5555-5555-5555-555555550004"
)

func testSeed() fixtures.Seed {
	return fixtures.Seed{
		Users: []fixtures.User{
			{
				ID:        seedUserID,
				FirstName: "Riley",
				LastName:  "Park",
				Email:     "riley@example.test",
				Password:  "secret123",
				Roles:     []string{"admin", "staff"},
			},
		},
		Clinic: fixtures.Clinic{Name: "Test Clinic"},
		AppointmentTypes: []fixtures.AppointmentType{
			{ID: seedTypeID, Name: "Checkup", Color: "#22c55e", DurationMinutes: 30, Active: true},
		},
		Clients: []fixtures.Client{
			{ID: seedClientA, FirstName: "Dana", LastName: "Whitfield", Email: "dana@example.test", PhonePrimary: "+15550100"},
			{ID: seedClientB, FirstName: "Marcus", LastName: "Smith", Email: "marcus@example.test", PhonePrimary: "+15550101"},
			{ID: seedClientC, FirstName: "Priya", LastName: "Smith", Email: "priya@example.test", PhonePrimary: "+15550102"},
		},
		Patients: []fixtures.Patient{
			{ID: seedPatientA, Name: "Bella", Species: "Dog", Breed: "Labrador", Status: "active", OwnerID: seedClientA},
			{ID: seedPatientB, Name: "Mochi", Species: "Cat", Breed: "Siamese", Status: "deceased", OwnerID: seedClientB},
		},
		Appointments: []fixtures.Appointment{
			{ID: seedApptToday, Title: "Annual Checkup", PatientID: seedPatientA, TypeID: seedTypeID, Status: "scheduled", DayOffset: 0, StartClock: "09:00"},
			{ID: seedApptCanc, Title: "Nail Trim", PatientID: seedPatientA, Status: "cancelled", DayOffset: 0, StartClock: "14:00", DurationMinutes: 15},
			{ID: seedApptNext, Title: "Dental", PatientID: seedPatientA, TypeID: seedTypeID, Status: "scheduled", DayOffset: 3, StartClock: "10:00"},
			{ID: seedApptPast, Title: "Old Visit", PatientID: seedPatientA, Status: "completed", DayOffset: -7, StartClock: "10:00", DurationMinutes: 20},
		},
		Invoices: []fixtures.Invoice{
			{ID: "66666666-6666-6666-6666-666666660001", ClientID: seedClientA, AmountCents: 5000, Status: "paid", DayOffset: 2},
			{ID: "66666666-6666-6666-6666-666666660002", ClientID: seedClientB, AmountCents: 7000, Status: "paid", DayOffset: 20},
			{ID: "66666666-6666-6666-6666-666666660003", ClientID: seedClientA, AmountCents: 9000, Status: "open", MonthOffset: 1},
		},
	}
}

func fixedNow() time.Time {
	return time.Date(2026, time.August, 25, 12, 0, 0, 0, time.Local)
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(testSeed(), fixedNow)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return store
}

func TestNewStoreRejectsUnknownOwner(t *testing.T) {
	seed := testSeed()
	seed.Patients[0].OwnerID = uuid.NewString()

	if _, err := NewStore(seed, fixedNow); err == nil {
		t.Fatal("expected error for patient with unknown owner")
	} else if !strings.Contains(err.Error(), "owner") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAppointmentTimesAreRelative(t *testing.T) {
	store := newTestStore(t)

	appt, ok := store.GetAppointment(uuid.MustParse(seedApptToday))
	if !ok {
		t.Fatal("appointment not found")
	}
	wantStart := time.Date(2026, time.August, 25, 9, 0, 0, 0, time.Local)
	if !appt.StartTime.Equal(wantStart) {
		t.Fatalf("start = %v, want %v", appt.StartTime, wantStart)
	}
	// No explicit duration, so the type default of 30 minutes applies.
	if got := appt.EndTime.Sub(appt.StartTime); got != 30*time.Minute {
		t.Fatalf("duration = %v, want 30m", got)
	}
	if appt.PatientName != "Bella" || appt.ClientName != "Dana Whitfield" {
		t.Fatalf("joins = %q / %q", appt.PatientName, appt.ClientName)
	}
	if appt.TypeColor != "#22c55e" {
		t.Fatalf("type color = %q", appt.TypeColor)
	}
}

func TestAuthenticate(t *testing.T) {
	store := newTestStore(t)

	if _, ok := store.Authenticate("riley@example.test", "wrong"); ok {
		t.Fatal("expected rejection for wrong password")
	}
	account, ok := store.Authenticate("RILEY@Example.Test", "secret123")
	if !ok {
		t.Fatal("expected case-insensitive email match")
	}
	if account.FirstName != "Riley" || len(account.Roles) != 2 {
		t.Fatalf("account = %+v", account)
	}
}

func TestSearchClientsMatchesAcrossFields(t *testing.T) {
	store := newTestStore(t)

	smiths := store.SearchClients("smith", 10)
	if len(smiths) != 2 {
		t.Fatalf("got %d clients for %q, want 2", len(smiths), "smith")
	}
	if smiths[0].FirstName != "Marcus" || smiths[1].FirstName != "Priya" {
		t.Fatalf("order = %s, %s", smiths[0].FirstName, smiths[1].FirstName)
	}

	if got := store.SearchClients("dana@", 10); len(got) != 1 {
		t.Fatalf("email match returned %d", len(got))
	}
	if got := store.SearchClients("0100", 10); len(got) != 1 {
		t.Fatalf("phone match returned %d", len(got))
	}
	if got := store.SearchClients("smith", 1); len(got) != 1 {
		t.Fatalf("limit ignored, got %d", len(got))
	}
}

func TestListClientsPaginates(t *testing.T) {
	store := newTestStore(t)

	page1 := store.ListClients("", 1, 2)
	if page1.Total != 3 || page1.TotalPages != 2 || len(page1.Clients) != 2 {
		t.Fatalf("page1 = total %d, pages %d, items %d", page1.Total, page1.TotalPages, len(page1.Clients))
	}
	page2 := store.ListClients("", 2, 2)
	if len(page2.Clients) != 1 {
		t.Fatalf("page2 items = %d", len(page2.Clients))
	}
	if page1.Clients[0].ID == page2.Clients[0].ID {
		t.Fatal("pages overlap")
	}
}

func TestGetPatientUpcomingVisits(t *testing.T) {
	store := newTestStore(t)

	detail, ok := store.GetPatient(uuid.MustParse(seedPatientA))
	if !ok {
		t.Fatal("patient not found")
	}
	if detail.Owner.FirstName != "Dana" {
		t.Fatalf("owner = %+v", detail.Owner)
	}
	// The 09:00 visit is already past noon's load time and the 14:00 one is
	// cancelled, so only the future dental visit remains.
	if len(detail.UpcomingVisits) != 1 || detail.UpcomingVisits[0].Title != "Dental" {
		t.Fatalf("upcoming = %+v", detail.UpcomingVisits)
	}
}

func TestDashboard(t *testing.T) {
	store := newTestStore(t)

	resp := store.Dashboard()
	if resp.Stats.AppointmentsToday != 1 {
		t.Fatalf("appointments today = %d, want 1", resp.Stats.AppointmentsToday)
	}
	if resp.Stats.ActivePatients != 1 {
		t.Fatalf("active patients = %d, want 1", resp.Stats.ActivePatients)
	}
	if resp.Stats.OpenInvoices != 1 {
		t.Fatalf("open invoices = %d, want 1", resp.Stats.OpenInvoices)
	}
	// Only the invoice issued two days ago falls inside the trailing week.
	if resp.Stats.WeekRevenueCents != 5000 {
		t.Fatalf("week revenue = %d, want 5000", resp.Stats.WeekRevenueCents)
	}
	if len(resp.Today) != 1 || resp.Today[0].Title != "Annual Checkup" {
		t.Fatalf("today = %+v", resp.Today)
	}
}

func TestUpdateAppointmentStatusIsUnconstrained(t *testing.T) {
	store := newTestStore(t)

	// The stub accepts any known status so developers can force states; the
	// client side is where transition rules live.
	updated, ok := store.UpdateAppointmentStatus(uuid.MustParse(seedApptPast), appttransport.AppointmentStatusScheduled)
	if !ok {
		t.Fatal("appointment not found")
	}
	if updated.Status != appttransport.AppointmentStatusScheduled {
		t.Fatalf("status = %s", updated.Status)
	}
}

func TestCreateAppointmentDefaultsEndFromType(t *testing.T) {
	store := newTestStore(t)
	typeID := uuid.MustParse(seedTypeID)
	start := time.Date(2026, time.September, 1, 10, 0, 0, 0, time.Local)

	created, err := store.CreateAppointment(appttransport.CreateAppointmentRequest{
		PatientID:         uuid.MustParse(seedPatientA),
		AppointmentTypeID: &typeID,
		Title:             "Vaccination",
		StartTime:         start,
	})
	if err != nil {
		t.Fatalf("CreateAppointment: %v", err)
	}
	if got := created.EndTime.Sub(created.StartTime); got != 30*time.Minute {
		t.Fatalf("duration = %v, want 30m", got)
	}
	if created.Status != appttransport.AppointmentStatusScheduled {
		t.Fatalf("status = %s", created.Status)
	}

	_, err = store.CreateAppointment(appttransport.CreateAppointmentRequest{
		PatientID: uuid.New(),
		Title:     "Ghost",
		StartTime: start,
	})
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not-found for unknown patient, got %v", err)
	}
}

func TestAnalyticsBucketsRevenueAndVisits(t *testing.T) {
	store := newTestStore(t)

	resp := store.Analytics(3)
	if len(resp.Monthly) != 3 {
		t.Fatalf("months = %d, want 3", len(resp.Monthly))
	}
	if resp.Monthly[0].Month != "2026-06" || resp.Monthly[2].Month != "2026-08" {
		t.Fatalf("month keys = %s .. %s", resp.Monthly[0].Month, resp.Monthly[2].Month)
	}
	// Both paid invoices land in August; the open one never counts.
	if resp.Monthly[2].RevenueCents != 12000 {
		t.Fatalf("august revenue = %d, want 12000", resp.Monthly[2].RevenueCents)
	}
	if resp.Monthly[2].Appointments != 4 {
		t.Fatalf("august visits = %d, want 4", resp.Monthly[2].Appointments)
	}
	if len(resp.SpeciesMix) != 1 || resp.SpeciesMix[0].Species != "Dog" {
		t.Fatalf("species mix = %+v", resp.SpeciesMix)
	}
}
