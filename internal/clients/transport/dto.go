package transport

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs
type CreateClientRequest struct {
	FirstName      string `json:"first_name" validate:"required,min=1,max=100"`
	LastName       string `json:"last_name" validate:"required,min=1,max=100"`
	Email          string `json:"email,omitempty" validate:"omitempty,email"`
	PhonePrimary   string `json:"phone_primary" validate:"required,min=5,max=20"`
	PhoneSecondary string `json:"phone_secondary,omitempty" validate:"omitempty,min=5,max=20"`
	Street         string `json:"street,omitempty" validate:"max=200"`
	City           string `json:"city,omitempty" validate:"max=100"`
	ZipCode        string `json:"zip_code,omitempty" validate:"max=20"`
	Notes          string `json:"notes,omitempty" validate:"max=2000"`
}

type UpdateClientRequest struct {
	FirstName      *string `json:"first_name,omitempty" validate:"omitempty,min=1,max=100"`
	LastName       *string `json:"last_name,omitempty" validate:"omitempty,min=1,max=100"`
	Email          *string `json:"email,omitempty" validate:"omitempty,email"`
	PhonePrimary   *string `json:"phone_primary,omitempty" validate:"omitempty,min=5,max=20"`
	PhoneSecondary *string `json:"phone_secondary,omitempty" validate:"omitempty,min=5,max=20"`
	Street         *string `json:"street,omitempty" validate:"omitempty,max=200"`
	City           *string `json:"city,omitempty" validate:"omitempty,max=100"`
	ZipCode        *string `json:"zip_code,omitempty" validate:"omitempty,max=20"`
	Notes          *string `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

type ListClientsRequest struct {
	Search   string `form:"search" validate:"max=100"`
	Page     int    `form:"page" validate:"min=1"`
	PageSize int    `form:"page_size" validate:"min=1,max=100"`
}

// Response DTOs
type ClientResponse struct {
	ID             uuid.UUID `json:"id"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	Email          string    `json:"email,omitempty"`
	PhonePrimary   string    `json:"phone_primary"`
	PhoneSecondary string    `json:"phone_secondary,omitempty"`
	Street         string    `json:"street,omitempty"`
	City           string    `json:"city,omitempty"`
	ZipCode        string    `json:"zip_code,omitempty"`
	Notes          string    `json:"notes,omitempty"`
	PatientCount   int       `json:"patient_count"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ClientPatientSummary is embedded patient info for the client detail view.
type ClientPatientSummary struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Species string    `json:"species"`
	Breed   string    `json:"breed,omitempty"`
	Status  string    `json:"status"`
}

type ClientDetailResponse struct {
	Client   ClientResponse         `json:"client"`
	Patients []ClientPatientSummary `json:"patients"`
}

type ClientListResponse struct {
	Clients    []ClientResponse `json:"clients"`
	Total      int              `json:"total"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
	TotalPages int              `json:"total_pages"`
}
