package transport

import (
	"time"

	"github.com/google/uuid"
)

// DashboardStats are the stat card values for the landing screen.
type DashboardStats struct {
	AppointmentsToday int   `json:"appointments_today"`
	ActivePatients    int   `json:"active_patients"`
	OpenInvoices      int   `json:"open_invoices"`
	WeekRevenueCents  int64 `json:"week_revenue_cents"`
}

// TodayAppointment is one row of the today-at-the-clinic schedule.
type TodayAppointment struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	StartTime   time.Time `json:"start_time"`
	PatientName string    `json:"patient_name"`
	Status      string    `json:"status"`
	TypeColor   string    `json:"appointment_type_color,omitempty"`
	Notes       string    `json:"notes,omitempty"`
}

type DashboardResponse struct {
	Stats DashboardStats     `json:"stats"`
	Today []TodayAppointment `json:"today"`
}
