package transport

import (
	"time"

	"github.com/google/uuid"
)

// Profile DTOs
type ProfileResponse struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type UpdateProfileRequest struct {
	FirstName *string `json:"first_name,omitempty" validate:"omitempty,min=1,max=100"`
	LastName  *string `json:"last_name,omitempty" validate:"omitempty,min=1,max=100"`
	Email     *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone     *string `json:"phone,omitempty" validate:"omitempty,min=5,max=20"`
}

// Clinic settings DTOs
type OpeningHours struct {
	Weekday int    `json:"weekday" validate:"min=0,max=6"`
	Opens   string `json:"opens,omitempty" validate:"omitempty,datetime=15:04"`
	Closes  string `json:"closes,omitempty" validate:"omitempty,datetime=15:04"`
	Closed  bool   `json:"closed"`
}

type ClinicSettingsResponse struct {
	Name         string         `json:"name"`
	AddressLine1 string         `json:"address_line1,omitempty"`
	AddressLine2 string         `json:"address_line2,omitempty"`
	City         string         `json:"city,omitempty"`
	ZipCode      string         `json:"zip_code,omitempty"`
	Phone        string         `json:"phone,omitempty"`
	Email        string         `json:"email,omitempty"`
	OpeningHours []OpeningHours `json:"opening_hours,omitempty"`
}

type UpdateClinicSettingsRequest struct {
	Name         *string        `json:"name,omitempty" validate:"omitempty,min=1,max=120"`
	AddressLine1 *string        `json:"address_line1,omitempty" validate:"omitempty,max=200"`
	AddressLine2 *string        `json:"address_line2,omitempty" validate:"omitempty,max=200"`
	City         *string        `json:"city,omitempty" validate:"omitempty,max=120"`
	ZipCode      *string        `json:"zip_code,omitempty" validate:"omitempty,max=20"`
	Phone        *string        `json:"phone,omitempty" validate:"omitempty,min=5,max=20"`
	Email        *string        `json:"email,omitempty" validate:"omitempty,email"`
	OpeningHours []OpeningHours `json:"opening_hours,omitempty" validate:"omitempty,max=7,dive"`
}

// Appointment type DTOs. Colors are the calendar swatches, always the
// seven-character #rrggbb form.
type AppointmentTypeResponse struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Color           string    `json:"color"`
	DurationMinutes int       `json:"default_duration_minutes"`
	Active          bool      `json:"active"`
}

type AppointmentTypesResponse struct {
	AppointmentTypes []AppointmentTypeResponse `json:"appointment_types"`
}

type CreateAppointmentTypeRequest struct {
	Name            string `json:"name" validate:"required,min=1,max=100"`
	Color           string `json:"color" validate:"required,hexcolor,len=7"`
	DurationMinutes int    `json:"default_duration_minutes" validate:"required,min=5,max=480"`
}

type UpdateAppointmentTypeRequest struct {
	Name            *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Color           *string `json:"color,omitempty" validate:"omitempty,hexcolor,len=7"`
	DurationMinutes *int    `json:"default_duration_minutes,omitempty" validate:"omitempty,min=5,max=480"`
	Active          *bool   `json:"active,omitempty"`
}
