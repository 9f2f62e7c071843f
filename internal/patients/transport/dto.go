package transport

import (
	"time"

	"github.com/google/uuid"
)

// PatientStatus is the lifecycle state of a patient record.
type PatientStatus string

const (
	PatientStatusActive   PatientStatus = "active"
	PatientStatusInactive PatientStatus = "inactive"
	PatientStatusDeceased PatientStatus = "deceased"
)

type ListPatientsRequest struct {
	Search   string         `form:"search" validate:"max=100"`
	Status   *PatientStatus `form:"status" validate:"omitempty,oneof=active inactive deceased"`
	Page     int            `form:"page" validate:"min=1"`
	PageSize int            `form:"page_size" validate:"min=1,max=100"`
}

// Response DTOs
type PatientResponse struct {
	ID          uuid.UUID     `json:"id"`
	Name        string        `json:"name"`
	Species     string        `json:"species"`
	Breed       string        `json:"breed,omitempty"`
	Sex         string        `json:"sex,omitempty"`
	DateOfBirth *time.Time    `json:"date_of_birth,omitempty"`
	Status      PatientStatus `json:"status"`
	OwnerID     uuid.UUID     `json:"owner_id"`
	OwnerName   string        `json:"owner_name"`
	Notes       string        `json:"notes,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// AgeYears returns the patient's age in whole years, when a birth date is on
// file.
func (p PatientResponse) AgeYears(now time.Time) (int, bool) {
	if p.DateOfBirth == nil {
		return 0, false
	}
	years := now.Year() - p.DateOfBirth.Year()
	anniversary := p.DateOfBirth.AddDate(years, 0, 0)
	if anniversary.After(now) {
		years--
	}
	if years < 0 {
		return 0, false
	}
	return years, true
}

// PatientOwnerSummary is embedded owner info for the patient detail view.
type PatientOwnerSummary struct {
	ID           uuid.UUID `json:"id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Email        string    `json:"email,omitempty"`
	PhonePrimary string    `json:"phone_primary"`
}

// PatientVisitSummary is embedded appointment info for the patient detail view.
type PatientVisitSummary struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	StartTime time.Time `json:"start_time"`
	Status    string    `json:"status"`
	TypeColor string    `json:"appointment_type_color,omitempty"`
}

type PatientDetailResponse struct {
	Patient        PatientResponse       `json:"patient"`
	Owner          PatientOwnerSummary   `json:"owner"`
	UpcomingVisits []PatientVisitSummary `json:"upcoming_appointments"`
}

type PatientListResponse struct {
	Patients   []PatientResponse `json:"patients"`
	Total      int               `json:"total"`
	Page       int               `json:"page"`
	PageSize   int               `json:"page_size"`
	TotalPages int               `json:"total_pages"`
}
