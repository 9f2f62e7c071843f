package transport

import (
	"time"

	"github.com/google/uuid"
)

// AppointmentStatus is the lifecycle state of an appointment.
type AppointmentStatus string

const (
	AppointmentStatusScheduled  AppointmentStatus = "scheduled"
	AppointmentStatusConfirmed  AppointmentStatus = "confirmed"
	AppointmentStatusCheckedIn  AppointmentStatus = "checked_in"
	AppointmentStatusInProgress AppointmentStatus = "in_progress"
	AppointmentStatusCompleted  AppointmentStatus = "completed"
	AppointmentStatusCancelled  AppointmentStatus = "cancelled"
	AppointmentStatusNoShow     AppointmentStatus = "no_show"
)

// CreateAppointmentRequest is the request body for booking an appointment.
// EndTime may be zero; the service then applies the appointment type's
// default duration.
type CreateAppointmentRequest struct {
	PatientID         uuid.UUID  `json:"patient_id" validate:"required"`
	AppointmentTypeID *uuid.UUID `json:"appointment_type_id,omitempty"`
	Title             string     `json:"title" validate:"required,min=1,max=200"`
	Description       string     `json:"description,omitempty" validate:"max=2000"`
	StartTime         time.Time  `json:"start_time" validate:"required"`
	EndTime           time.Time  `json:"end_time,omitempty"`
}

// UpdateAppointmentStatusRequest is the request body for a status change.
type UpdateAppointmentStatusRequest struct {
	Status AppointmentStatus `json:"status" validate:"required,oneof=scheduled confirmed checked_in in_progress completed cancelled no_show"`
}

// ListAppointmentsRequest is the query for a date-range listing.
type ListAppointmentsRequest struct {
	StartFrom string `form:"start_from" validate:"required,datetime=2006-01-02"`
	StartTo   string `form:"start_to" validate:"required,datetime=2006-01-02"`
}

// AppointmentResponse is the response body for an appointment.
type AppointmentResponse struct {
	ID          uuid.UUID         `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	StartTime   time.Time         `json:"start_time"`
	EndTime     time.Time         `json:"end_time"`
	Status      AppointmentStatus `json:"status"`
	PatientID   uuid.UUID         `json:"patient_id"`
	PatientName string            `json:"patient_name"`
	ClientName  string            `json:"client_name,omitempty"`
	TypeID      *uuid.UUID        `json:"appointment_type_id,omitempty"`
	TypeName    string            `json:"appointment_type_name,omitempty"`
	TypeColor   string            `json:"appointment_type_color,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// AppointmentListResponse is the envelope for the range listing.
type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
}
