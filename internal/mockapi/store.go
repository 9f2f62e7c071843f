// Package mockapi is the development stand-in for the clinic backend. It
// serves the same wire contract the terminal client consumes, backed by
// seeded in-memory data, so the front end can be developed and demoed
// without the production API.
package mockapi

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	analyticstransport "github.com/ivenhartford/LCH-sub002/internal/analytics/transport"
	appttransport "github.com/ivenhartford/LCH-sub002/internal/appointments/transport"
	"github.com/ivenhartford/LCH-sub002/internal/auth/password"
	clienttransport "github.com/ivenhartford/LCH-sub002/internal/clients/transport"
	dashtransport "github.com/ivenhartford/LCH-sub002/internal/dashboard/transport"
	identitytransport "github.com/ivenhartford/LCH-sub002/internal/identity/transport"
	"github.com/ivenhartford/LCH-sub002/internal/mockapi/fixtures"
	patienttransport "github.com/ivenhartford/LCH-sub002/internal/patients/transport"
	"github.com/ivenhartford/LCH-sub002/platform/apperr"

	"github.com/google/uuid"
)

const (
	clockFormat       = "15:04"
	monthKeyFormat    = "2006-01"
	fallbackVisitTime = 30 * time.Minute
)

type userRecord struct {
	id           uuid.UUID
	firstName    string
	lastName     string
	email        string
	phone        string
	passwordHash string
	roles        []string
	createdAt    time.Time
}

type clientRecord struct {
	id             uuid.UUID
	firstName      string
	lastName       string
	email          string
	phonePrimary   string
	phoneSecondary string
	street         string
	city           string
	zipCode        string
	notes          string
	createdAt      time.Time
	updatedAt      time.Time
}

type patientRecord struct {
	id          uuid.UUID
	name        string
	species     string
	breed       string
	sex         string
	dateOfBirth *time.Time
	status      patienttransport.PatientStatus
	ownerID     uuid.UUID
	notes       string
	createdAt   time.Time
	updatedAt   time.Time
}

type appointmentRecord struct {
	id          uuid.UUID
	title       string
	description string
	start       time.Time
	end         time.Time
	status      appttransport.AppointmentStatus
	patientID   uuid.UUID
	typeID      *uuid.UUID
	createdAt   time.Time
	updatedAt   time.Time
}

type invoiceRecord struct {
	id          uuid.UUID
	clientID    uuid.UUID
	amountCents int64
	status      string
	issuedAt    time.Time
}

// Store is the seeded in-memory database.
type Store struct {
	mu           sync.RWMutex
	now          func() time.Time
	users        map[uuid.UUID]*userRecord
	clinic       identitytransport.ClinicSettingsResponse
	types        []identitytransport.AppointmentTypeResponse
	clients      map[uuid.UUID]*clientRecord
	patients     map[uuid.UUID]*patientRecord
	appointments map[uuid.UUID]*appointmentRecord
	invoices     []invoiceRecord
}

// NewStore materializes the seed: passwords are hashed, relative offsets
// become concrete times, and references are checked so a broken seed fails
// at startup instead of mid-demo.
func NewStore(seed fixtures.Seed, now func() time.Time) (*Store, error) {
	if now == nil {
		now = time.Now
	}
	s := &Store{
		now:          now,
		users:        make(map[uuid.UUID]*userRecord, len(seed.Users)),
		clients:      make(map[uuid.UUID]*clientRecord, len(seed.Clients)),
		patients:     make(map[uuid.UUID]*patientRecord, len(seed.Patients)),
		appointments: make(map[uuid.UUID]*appointmentRecord, len(seed.Appointments)),
	}
	loadedAt := now()

	for _, u := range seed.Users {
		id, err := uuid.Parse(u.ID)
		if err != nil {
			return nil, fmt.Errorf("user %q: bad id: %w", u.Email, err)
		}
		hash, err := password.Hash(u.Password)
		if err != nil {
			return nil, fmt.Errorf("user %q: %w", u.Email, err)
		}
		s.users[id] = &userRecord{
			id:           id,
			firstName:    u.FirstName,
			lastName:     u.LastName,
			email:        u.Email,
			phone:        u.Phone,
			passwordHash: hash,
			roles:        u.Roles,
			createdAt:    loadedAt,
		}
	}

	s.clinic = identitytransport.ClinicSettingsResponse{
		Name:         seed.Clinic.Name,
		AddressLine1: seed.Clinic.AddressLine1,
		AddressLine2: seed.Clinic.AddressLine2,
		City:         seed.Clinic.City,
		ZipCode:      seed.Clinic.ZipCode,
		Phone:        seed.Clinic.Phone,
		Email:        seed.Clinic.Email,
	}
	for _, h := range seed.Clinic.OpeningHours {
		s.clinic.OpeningHours = append(s.clinic.OpeningHours, identitytransport.OpeningHours{
			Weekday: h.Weekday,
			Opens:   h.Opens,
			Closes:  h.Closes,
			Closed:  h.Closed,
		})
	}

	typeDurations := make(map[uuid.UUID]int, len(seed.AppointmentTypes))
	for _, at := range seed.AppointmentTypes {
		id, err := uuid.Parse(at.ID)
		if err != nil {
			return nil, fmt.Errorf("appointment type %q: bad id: %w", at.Name, err)
		}
		s.types = append(s.types, identitytransport.AppointmentTypeResponse{
			ID:              id,
			Name:            at.Name,
			Color:           at.Color,
			DurationMinutes: at.DurationMinutes,
			Active:          at.Active,
		})
		typeDurations[id] = at.DurationMinutes
	}

	for _, c := range seed.Clients {
		id, err := uuid.Parse(c.ID)
		if err != nil {
			return nil, fmt.Errorf("client %q %q: bad id: %w", c.FirstName, c.LastName, err)
		}
		s.clients[id] = &clientRecord{
			id:             id,
			firstName:      c.FirstName,
			lastName:       c.LastName,
			email:          c.Email,
			phonePrimary:   c.PhonePrimary,
			phoneSecondary: c.PhoneSecondary,
			street:         c.Street,
			city:           c.City,
			zipCode:        c.ZipCode,
			notes:          c.Notes,
			createdAt:      loadedAt,
			updatedAt:      loadedAt,
		}
	}

	for _, p := range seed.Patients {
		id, err := uuid.Parse(p.ID)
		if err != nil {
			return nil, fmt.Errorf("patient %q: bad id: %w", p.Name, err)
		}
		ownerID, err := uuid.Parse(p.OwnerID)
		if err != nil {
			return nil, fmt.Errorf("patient %q: bad owner id: %w", p.Name, err)
		}
		if _, ok := s.clients[ownerID]; !ok {
			return nil, fmt.Errorf("patient %q: owner %s not in seed", p.Name, ownerID)
		}
		status := patienttransport.PatientStatus(p.Status)
		switch status {
		case patienttransport.PatientStatusActive, patienttransport.PatientStatusInactive, patienttransport.PatientStatusDeceased:
		default:
			return nil, fmt.Errorf("patient %q: unknown status %q", p.Name, p.Status)
		}
		s.patients[id] = &patientRecord{
			id:          id,
			name:        p.Name,
			species:     p.Species,
			breed:       p.Breed,
			sex:         p.Sex,
			dateOfBirth: p.DateOfBirth,
			status:      status,
			ownerID:     ownerID,
			notes:       p.Notes,
			createdAt:   loadedAt,
			updatedAt:   loadedAt,
		}
	}

	dayStart := time.Date(loadedAt.Year(), loadedAt.Month(), loadedAt.Day(), 0, 0, 0, 0, time.Local)
	for _, a := range seed.Appointments {
		id, err := uuid.Parse(a.ID)
		if err != nil {
			return nil, fmt.Errorf("appointment %q: bad id: %w", a.Title, err)
		}
		patientID, err := uuid.Parse(a.PatientID)
		if err != nil {
			return nil, fmt.Errorf("appointment %q: bad patient id: %w", a.Title, err)
		}
		if _, ok := s.patients[patientID]; !ok {
			return nil, fmt.Errorf("appointment %q: patient %s not in seed", a.Title, patientID)
		}
		var typeID *uuid.UUID
		duration := a.DurationMinutes
		if a.TypeID != "" {
			parsed, err := uuid.Parse(a.TypeID)
			if err != nil {
				return nil, fmt.Errorf("appointment %q: bad type id: %w", a.Title, err)
			}
			if _, ok := typeDurations[parsed]; !ok {
				return nil, fmt.Errorf("appointment %q: type %s not in seed", a.Title, parsed)
			}
			typeID = &parsed
			if duration == 0 {
				duration = typeDurations[parsed]
			}
		}
		clock, err := time.Parse(clockFormat, a.StartClock)
		if err != nil {
			return nil, fmt.Errorf("appointment %q: bad start_clock %q: %w", a.Title, a.StartClock, err)
		}
		start := dayStart.AddDate(0, 0, a.DayOffset).
			Add(time.Duration(clock.Hour())*time.Hour + time.Duration(clock.Minute())*time.Minute)
		if duration <= 0 {
			duration = int(fallbackVisitTime / time.Minute)
		}
		s.appointments[id] = &appointmentRecord{
			id:          id,
			title:       a.Title,
			description: a.Description,
			start:       start,
			end:         start.Add(time.Duration(duration) * time.Minute),
			status:      appttransport.AppointmentStatus(a.Status),
			patientID:   patientID,
			typeID:      typeID,
			createdAt:   loadedAt,
			updatedAt:   loadedAt,
		}
	}

	for _, inv := range seed.Invoices {
		id, err := uuid.Parse(inv.ID)
		if err != nil {
			return nil, fmt.Errorf("invoice %q: bad id: %w", inv.ID, err)
		}
		clientID, err := uuid.Parse(inv.ClientID)
		if err != nil {
			return nil, fmt.Errorf("invoice %s: bad client id: %w", id, err)
		}
		if _, ok := s.clients[clientID]; !ok {
			return nil, fmt.Errorf("invoice %s: client %s not in seed", id, clientID)
		}
		if inv.Status != "open" && inv.Status != "paid" {
			return nil, fmt.Errorf("invoice %s: unknown status %q", id, inv.Status)
		}
		s.invoices = append(s.invoices, invoiceRecord{
			id:          id,
			clientID:    clientID,
			amountCents: inv.AmountCents,
			status:      inv.Status,
			issuedAt:    loadedAt.AddDate(0, -inv.MonthOffset, -inv.DayOffset),
		})
	}

	return s, nil
}

// Account is the authenticated fixture user, as the login handler needs it.
type Account struct {
	ID        uuid.UUID
	FirstName string
	LastName  string
	Email     string
	Roles     []string
}

func (s *Store) Authenticate(email, plain string) (Account, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if strings.EqualFold(u.email, email) && password.Verify(u.passwordHash, plain) {
			return Account{ID: u.id, FirstName: u.firstName, LastName: u.lastName, Email: u.email, Roles: append([]string(nil), u.roles...)}, true
		}
	}
	return Account{}, false
}

func (s *Store) Profile(userID uuid.UUID) (identitytransport.ProfileResponse, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[userID]
	if !ok {
		return identitytransport.ProfileResponse{}, false
	}
	return profileResponse(u), true
}

func (s *Store) UpdateProfile(userID uuid.UUID, req identitytransport.UpdateProfileRequest) (identitytransport.ProfileResponse, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return identitytransport.ProfileResponse{}, false
	}
	if req.FirstName != nil {
		u.firstName = *req.FirstName
	}
	if req.LastName != nil {
		u.lastName = *req.LastName
	}
	if req.Email != nil {
		u.email = *req.Email
	}
	if req.Phone != nil {
		u.phone = *req.Phone
	}
	return profileResponse(u), true
}

func profileResponse(u *userRecord) identitytransport.ProfileResponse {
	role := "staff"
	if len(u.roles) > 0 {
		role = u.roles[0]
	}
	return identitytransport.ProfileResponse{
		ID:        u.id,
		FirstName: u.firstName,
		LastName:  u.lastName,
		Email:     u.email,
		Phone:     u.phone,
		Role:      role,
		CreatedAt: u.createdAt,
	}
}

func (s *Store) Clinic() identitytransport.ClinicSettingsResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.clinic
}

func (s *Store) UpdateClinic(req identitytransport.UpdateClinicSettingsRequest) identitytransport.ClinicSettingsResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	if req.Name != nil {
		s.clinic.Name = *req.Name
	}
	if req.AddressLine1 != nil {
		s.clinic.AddressLine1 = *req.AddressLine1
	}
	if req.AddressLine2 != nil {
		s.clinic.AddressLine2 = *req.AddressLine2
	}
	if req.City != nil {
		s.clinic.City = *req.City
	}
	if req.ZipCode != nil {
		s.clinic.ZipCode = *req.ZipCode
	}
	if req.Phone != nil {
		s.clinic.Phone = *req.Phone
	}
	if req.Email != nil {
		s.clinic.Email = *req.Email
	}
	if req.OpeningHours != nil {
		s.clinic.OpeningHours = req.OpeningHours
	}
	return s.clinic
}

func (s *Store) AppointmentTypes() []identitytransport.AppointmentTypeResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]identitytransport.AppointmentTypeResponse(nil), s.types...)
}

func (s *Store) CreateAppointmentType(req identitytransport.CreateAppointmentTypeRequest) identitytransport.AppointmentTypeResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	created := identitytransport.AppointmentTypeResponse{
		ID:              uuid.New(),
		Name:            req.Name,
		Color:           req.Color,
		DurationMinutes: req.DurationMinutes,
		Active:          true,
	}
	s.types = append(s.types, created)
	return created
}

func (s *Store) UpdateAppointmentType(id uuid.UUID, req identitytransport.UpdateAppointmentTypeRequest) (identitytransport.AppointmentTypeResponse, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.types {
		if s.types[i].ID != id {
			continue
		}
		if req.Name != nil {
			s.types[i].Name = *req.Name
		}
		if req.Color != nil {
			s.types[i].Color = *req.Color
		}
		if req.DurationMinutes != nil {
			s.types[i].DurationMinutes = *req.DurationMinutes
		}
		if req.Active != nil {
			s.types[i].Active = *req.Active
		}
		return s.types[i], true
	}
	return identitytransport.AppointmentTypeResponse{}, false
}

// SearchClients matches case-insensitive substrings of name, email, and
// primary phone.
func (s *Store) SearchClients(query string, limit int) []clienttransport.ClientResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()
	matched := s.matchClients(query)
	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}
	out := make([]clienttransport.ClientResponse, 0, len(matched))
	for _, c := range matched {
		out = append(out, s.clientResponse(c))
	}
	return out
}

func (s *Store) ListClients(search string, page, pageSize int) clienttransport.ClientListResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()
	matched := s.matchClients(search)
	total := len(matched)
	pageItems := paginate(matched, page, pageSize)

	resp := clienttransport.ClientListResponse{
		Clients:    make([]clienttransport.ClientResponse, 0, len(pageItems)),
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages(total, pageSize),
	}
	for _, c := range pageItems {
		resp.Clients = append(resp.Clients, s.clientResponse(c))
	}
	return resp
}

func (s *Store) GetClient(id uuid.UUID) (clienttransport.ClientDetailResponse, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.clients[id]
	if !ok {
		return clienttransport.ClientDetailResponse{}, false
	}
	detail := clienttransport.ClientDetailResponse{Client: s.clientResponse(c)}
	for _, p := range s.patients {
		if p.ownerID == id {
			detail.Patients = append(detail.Patients, clienttransport.ClientPatientSummary{
				ID:      p.id,
				Name:    p.name,
				Species: p.species,
				Breed:   p.breed,
				Status:  string(p.status),
			})
		}
	}
	sort.Slice(detail.Patients, func(i, j int) bool { return detail.Patients[i].Name < detail.Patients[j].Name })
	return detail, true
}

func (s *Store) CreateClient(req clienttransport.CreateClientRequest) clienttransport.ClientResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	c := &clientRecord{
		id:             uuid.New(),
		firstName:      req.FirstName,
		lastName:       req.LastName,
		email:          req.Email,
		phonePrimary:   req.PhonePrimary,
		phoneSecondary: req.PhoneSecondary,
		street:         req.Street,
		city:           req.City,
		zipCode:        req.ZipCode,
		notes:          req.Notes,
		createdAt:      now,
		updatedAt:      now,
	}
	s.clients[c.id] = c
	return s.clientResponse(c)
}

func (s *Store) UpdateClient(id uuid.UUID, req clienttransport.UpdateClientRequest) (clienttransport.ClientResponse, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.clients[id]
	if !ok {
		return clienttransport.ClientResponse{}, false
	}
	if req.FirstName != nil {
		c.firstName = *req.FirstName
	}
	if req.LastName != nil {
		c.lastName = *req.LastName
	}
	if req.Email != nil {
		c.email = *req.Email
	}
	if req.PhonePrimary != nil {
		c.phonePrimary = *req.PhonePrimary
	}
	if req.PhoneSecondary != nil {
		c.phoneSecondary = *req.PhoneSecondary
	}
	if req.Street != nil {
		c.street = *req.Street
	}
	if req.City != nil {
		c.city = *req.City
	}
	if req.ZipCode != nil {
		c.zipCode = *req.ZipCode
	}
	if req.Notes != nil {
		c.notes = *req.Notes
	}
	c.updatedAt = s.now()
	return s.clientResponse(c), true
}

func (s *Store) matchClients(query string) []*clientRecord {
	q := strings.ToLower(strings.TrimSpace(query))
	var matched []*clientRecord
	for _, c := range s.clients {
		if q == "" || containsFold(q, c.firstName, c.lastName, c.firstName+" "+c.lastName, c.email, c.phonePrimary) {
			matched = append(matched, c)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].lastName != matched[j].lastName {
			return matched[i].lastName < matched[j].lastName
		}
		return matched[i].firstName < matched[j].firstName
	})
	return matched
}

func (s *Store) clientResponse(c *clientRecord) clienttransport.ClientResponse {
	count := 0
	for _, p := range s.patients {
		if p.ownerID == c.id {
			count++
		}
	}
	return clienttransport.ClientResponse{
		ID:             c.id,
		FirstName:      c.firstName,
		LastName:       c.lastName,
		Email:          c.email,
		PhonePrimary:   c.phonePrimary,
		PhoneSecondary: c.phoneSecondary,
		Street:         c.street,
		City:           c.city,
		ZipCode:        c.zipCode,
		Notes:          c.notes,
		PatientCount:   count,
		CreatedAt:      c.createdAt,
		UpdatedAt:      c.updatedAt,
	}
}

// SearchPatients matches case-insensitive substrings of name, breed, and
// owner name.
func (s *Store) SearchPatients(query string, limit int) []patienttransport.PatientResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()
	matched := s.matchPatients(query, nil)
	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}
	out := make([]patienttransport.PatientResponse, 0, len(matched))
	for _, p := range matched {
		out = append(out, s.patientResponse(p))
	}
	return out
}

func (s *Store) ListPatients(search string, status *patienttransport.PatientStatus, page, pageSize int) patienttransport.PatientListResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()
	matched := s.matchPatients(search, status)
	total := len(matched)
	pageItems := paginate(matched, page, pageSize)

	resp := patienttransport.PatientListResponse{
		Patients:   make([]patienttransport.PatientResponse, 0, len(pageItems)),
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages(total, pageSize),
	}
	for _, p := range pageItems {
		resp.Patients = append(resp.Patients, s.patientResponse(p))
	}
	return resp
}

func (s *Store) GetPatient(id uuid.UUID) (patienttransport.PatientDetailResponse, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.patients[id]
	if !ok {
		return patienttransport.PatientDetailResponse{}, false
	}
	detail := patienttransport.PatientDetailResponse{Patient: s.patientResponse(p)}
	if owner, ok := s.clients[p.ownerID]; ok {
		detail.Owner = patienttransport.PatientOwnerSummary{
			ID:           owner.id,
			FirstName:    owner.firstName,
			LastName:     owner.lastName,
			Email:        owner.email,
			PhonePrimary: owner.phonePrimary,
		}
	}
	now := s.now()
	for _, a := range s.appointments {
		if a.patientID != id || a.start.Before(now) {
			continue
		}
		if a.status == appttransport.AppointmentStatusCancelled || a.status == appttransport.AppointmentStatusNoShow {
			continue
		}
		detail.UpcomingVisits = append(detail.UpcomingVisits, patienttransport.PatientVisitSummary{
			ID:        a.id,
			Title:     a.title,
			StartTime: a.start,
			Status:    string(a.status),
			TypeColor: s.typeColor(a.typeID),
		})
	}
	sort.Slice(detail.UpcomingVisits, func(i, j int) bool {
		return detail.UpcomingVisits[i].StartTime.Before(detail.UpcomingVisits[j].StartTime)
	})
	return detail, true
}

func (s *Store) matchPatients(query string, status *patienttransport.PatientStatus) []*patientRecord {
	q := strings.ToLower(strings.TrimSpace(query))
	var matched []*patientRecord
	for _, p := range s.patients {
		if status != nil && p.status != *status {
			continue
		}
		if q == "" || containsFold(q, p.name, p.breed, s.ownerName(p.ownerID)) {
			matched = append(matched, p)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].name < matched[j].name })
	return matched
}

func (s *Store) patientResponse(p *patientRecord) patienttransport.PatientResponse {
	return patienttransport.PatientResponse{
		ID:          p.id,
		Name:        p.name,
		Species:     p.species,
		Breed:       p.breed,
		Sex:         p.sex,
		DateOfBirth: p.dateOfBirth,
		Status:      p.status,
		OwnerID:     p.ownerID,
		OwnerName:   s.ownerName(p.ownerID),
		Notes:       p.notes,
		CreatedAt:   p.createdAt,
		UpdatedAt:   p.updatedAt,
	}
}

func (s *Store) ownerName(clientID uuid.UUID) string {
	if c, ok := s.clients[clientID]; ok {
		return c.firstName + " " + c.lastName
	}
	return ""
}

// SearchAppointments matches case-insensitive substrings of title and
// patient name.
func (s *Store) SearchAppointments(query string, limit int) []appttransport.AppointmentResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()
	q := strings.ToLower(strings.TrimSpace(query))
	var matched []*appointmentRecord
	for _, a := range s.appointments {
		if q == "" || containsFold(q, a.title, s.patientName(a.patientID)) {
			matched = append(matched, a)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].start.Before(matched[j].start) })
	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}
	out := make([]appttransport.AppointmentResponse, 0, len(matched))
	for _, a := range matched {
		out = append(out, s.appointmentResponse(a))
	}
	return out
}

// RangeAppointments returns appointments starting on any day in [from, to].
func (s *Store) RangeAppointments(from, to time.Time) []appttransport.AppointmentResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()
	end := to.AddDate(0, 0, 1)
	var matched []*appointmentRecord
	for _, a := range s.appointments {
		if !a.start.Before(from) && a.start.Before(end) {
			matched = append(matched, a)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].start.Before(matched[j].start) })
	out := make([]appttransport.AppointmentResponse, 0, len(matched))
	for _, a := range matched {
		out = append(out, s.appointmentResponse(a))
	}
	return out
}

func (s *Store) GetAppointment(id uuid.UUID) (appttransport.AppointmentResponse, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.appointments[id]
	if !ok {
		return appttransport.AppointmentResponse{}, false
	}
	return s.appointmentResponse(a), true
}

func (s *Store) CreateAppointment(req appttransport.CreateAppointmentRequest) (appttransport.AppointmentResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.patients[req.PatientID]; !ok {
		return appttransport.AppointmentResponse{}, apperr.NotFound("patient not found")
	}
	end := req.EndTime
	if end.IsZero() {
		end = req.StartTime.Add(s.typeDuration(req.AppointmentTypeID))
	}
	now := s.now()
	a := &appointmentRecord{
		id:          uuid.New(),
		title:       req.Title,
		description: req.Description,
		start:       req.StartTime,
		end:         end,
		status:      appttransport.AppointmentStatusScheduled,
		patientID:   req.PatientID,
		typeID:      req.AppointmentTypeID,
		createdAt:   now,
		updatedAt:   now,
	}
	s.appointments[a.id] = a
	return s.appointmentResponse(a), nil
}

// UpdateAppointmentStatus stores any known status without workflow checks;
// the client enforces transitions, and an unconstrained stub lets
// developers force arbitrary states.
func (s *Store) UpdateAppointmentStatus(id uuid.UUID, status appttransport.AppointmentStatus) (appttransport.AppointmentResponse, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.appointments[id]
	if !ok {
		return appttransport.AppointmentResponse{}, false
	}
	a.status = status
	a.updatedAt = s.now()
	return s.appointmentResponse(a), true
}

func (s *Store) patientName(patientID uuid.UUID) string {
	if p, ok := s.patients[patientID]; ok {
		return p.name
	}
	return ""
}

func (s *Store) typeColor(typeID *uuid.UUID) string {
	if typeID == nil {
		return ""
	}
	for _, t := range s.types {
		if t.ID == *typeID {
			return t.Color
		}
	}
	return ""
}

func (s *Store) typeDuration(typeID *uuid.UUID) time.Duration {
	if typeID != nil {
		for _, t := range s.types {
			if t.ID == *typeID {
				return time.Duration(t.DurationMinutes) * time.Minute
			}
		}
	}
	return fallbackVisitTime
}

func (s *Store) appointmentResponse(a *appointmentRecord) appttransport.AppointmentResponse {
	resp := appttransport.AppointmentResponse{
		ID:          a.id,
		Title:       a.title,
		Description: a.description,
		StartTime:   a.start,
		EndTime:     a.end,
		Status:      a.status,
		PatientID:   a.patientID,
		PatientName: s.patientName(a.patientID),
		TypeID:      a.typeID,
		TypeColor:   s.typeColor(a.typeID),
		CreatedAt:   a.createdAt,
		UpdatedAt:   a.updatedAt,
	}
	if p, ok := s.patients[a.patientID]; ok {
		resp.ClientName = s.ownerName(p.ownerID)
	}
	if a.typeID != nil {
		for _, t := range s.types {
			if t.ID == *a.typeID {
				resp.TypeName = t.Name
			}
		}
	}
	return resp
}

func (s *Store) Dashboard() dashtransport.DashboardResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()
	now := s.now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
	dayEnd := dayStart.AddDate(0, 0, 1)
	weekStart := now.AddDate(0, 0, -7)

	var resp dashtransport.DashboardResponse
	for _, a := range s.appointments {
		if a.start.Before(dayStart) || !a.start.Before(dayEnd) {
			continue
		}
		if a.status == appttransport.AppointmentStatusCancelled || a.status == appttransport.AppointmentStatusNoShow {
			continue
		}
		resp.Stats.AppointmentsToday++
		resp.Today = append(resp.Today, dashtransport.TodayAppointment{
			ID:          a.id,
			Title:       a.title,
			StartTime:   a.start,
			PatientName: s.patientName(a.patientID),
			Status:      string(a.status),
			TypeColor:   s.typeColor(a.typeID),
			Notes:       a.description,
		})
	}
	sort.Slice(resp.Today, func(i, j int) bool { return resp.Today[i].StartTime.Before(resp.Today[j].StartTime) })

	for _, p := range s.patients {
		if p.status == patienttransport.PatientStatusActive {
			resp.Stats.ActivePatients++
		}
	}
	for _, inv := range s.invoices {
		if inv.status == "open" {
			resp.Stats.OpenInvoices++
		}
		if inv.status == "paid" && inv.issuedAt.After(weekStart) {
			resp.Stats.WeekRevenueCents += inv.amountCents
		}
	}
	return resp
}

func (s *Store) Analytics(months int) analyticstransport.AnalyticsResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()
	now := s.now()

	type bucket struct {
		revenue int64
		visits  int
	}
	buckets := make(map[string]*bucket, months)
	keys := make([]string, 0, months)
	for i := months - 1; i >= 0; i-- {
		key := now.AddDate(0, -i, 0).Format(monthKeyFormat)
		if _, ok := buckets[key]; !ok {
			buckets[key] = &bucket{}
			keys = append(keys, key)
		}
	}

	for _, inv := range s.invoices {
		if inv.status != "paid" {
			continue
		}
		if b, ok := buckets[inv.issuedAt.Format(monthKeyFormat)]; ok {
			b.revenue += inv.amountCents
		}
	}
	for _, a := range s.appointments {
		if b, ok := buckets[a.start.Format(monthKeyFormat)]; ok {
			b.visits++
		}
	}

	var resp analyticstransport.AnalyticsResponse
	for _, key := range keys {
		resp.Monthly = append(resp.Monthly, analyticstransport.MonthlyPoint{
			Month:        key,
			RevenueCents: buckets[key].revenue,
			Appointments: buckets[key].visits,
		})
	}

	bySpecies := make(map[string]int)
	for _, p := range s.patients {
		if p.status == patienttransport.PatientStatusActive {
			bySpecies[p.species]++
		}
	}
	for species, count := range bySpecies {
		resp.SpeciesMix = append(resp.SpeciesMix, analyticstransport.SpeciesCount{Species: species, Count: count})
	}
	sort.Slice(resp.SpeciesMix, func(i, j int) bool {
		if resp.SpeciesMix[i].Count != resp.SpeciesMix[j].Count {
			return resp.SpeciesMix[i].Count > resp.SpeciesMix[j].Count
		}
		return resp.SpeciesMix[i].Species < resp.SpeciesMix[j].Species
	})
	return resp
}

func containsFold(needle string, haystacks ...string) bool {
	for _, h := range haystacks {
		if h != "" && strings.Contains(strings.ToLower(h), needle) {
			return true
		}
	}
	return false
}

func paginate[T any](items []T, page, pageSize int) []T {
	if pageSize <= 0 {
		return items
	}
	start := (page - 1) * pageSize
	if start >= len(items) || start < 0 {
		return nil
	}
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

func totalPages(total, pageSize int) int {
	if pageSize <= 0 {
		return 1
	}
	return (total + pageSize - 1) / pageSize
}
