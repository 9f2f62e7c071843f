// Package search implements the portal's global search box: a debounced,
// token-guarded fan-out across clients, patients, and appointments with
// grouped results and navigation on select.
package search

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Kind identifies which entity group a search hit belongs to.
type Kind string

const (
	KindClient      Kind = "client"
	KindPatient     Kind = "patient"
	KindAppointment Kind = "appointment"
)

// ClientHit is one client row returned by the backend search.
type ClientHit struct {
	ID           uuid.UUID `json:"id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Email        string    `json:"email"`
	PhonePrimary string    `json:"phone_primary"`
}

// DisplayName returns the client's full name for list rendering.
func (c ClientHit) DisplayName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// PatientHit is one patient row returned by the backend search.
type PatientHit struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Breed     string    `json:"breed"`
	OwnerName string    `json:"owner_name"`
	Status    string    `json:"status"`
}

// AppointmentHit is one appointment row returned by the backend search.
type AppointmentHit struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	StartTime   time.Time `json:"start_time"`
	PatientName string    `json:"patient_name"`
	Status      string    `json:"status"`
	TypeColor   string    `json:"appointment_type_color"`
}

// Groups holds the three result groups in their fixed display order.
// A completed lookup replaces the whole value; groups are never merged
// across lookups.
type Groups struct {
	Clients      []ClientHit
	Patients     []PatientHit
	Appointments []AppointmentHit
}

// Total returns the number of hits across all groups.
func (g Groups) Total() int {
	return len(g.Clients) + len(g.Patients) + len(g.Appointments)
}

// Phase is the lifecycle state of the search box.
type Phase int

const (
	// PhaseIdle means no active query and nothing pending.
	PhaseIdle Phase = iota
	// PhaseDebouncing means a valid query is waiting out the quiet period.
	PhaseDebouncing
	// PhaseLoading means the three lookups are in flight.
	PhaseLoading
	// PhaseSuccess means the last lookup completed, possibly with zero hits.
	PhaseSuccess
	// PhaseError means the last lookup failed; no partial results are kept.
	PhaseError
)

// Snapshot is the view of the search state handed to presenters.
type Snapshot struct {
	Query   string
	Groups  Groups
	Loading bool
	Err     error
	Phase   Phase
}

// Empty reports whether a completed lookup matched nothing. Presenters render
// this as a distinct "no results" state rather than a blank panel.
func (s Snapshot) Empty() bool {
	return s.Phase == PhaseSuccess && s.Groups.Total() == 0
}
