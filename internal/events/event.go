// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"time"

	"github.com/ivenhartford/LCH-sub002/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Appointment Domain Events
// =============================================================================

// AppointmentCreated is published after the backend accepts a new appointment.
type AppointmentCreated struct {
	BaseEvent
	AppointmentID uuid.UUID `json:"appointment_id"`
	Title         string    `json:"title"`
	StartTime     time.Time `json:"start_time"`
}

func (e AppointmentCreated) EventName() string { return "appointments.created" }

// AppointmentStatusChanged is published after an appointment status update.
type AppointmentStatusChanged struct {
	BaseEvent
	AppointmentID uuid.UUID `json:"appointment_id"`
	OldStatus     string    `json:"old_status"`
	NewStatus     string    `json:"new_status"`
}

func (e AppointmentStatusChanged) EventName() string { return "appointments.status_changed" }

// =============================================================================
// Identity Domain Events
// =============================================================================

// ProfileUpdated is published after the signed-in user's profile changes.
type ProfileUpdated struct {
	BaseEvent
	UserID uuid.UUID `json:"user_id"`
}

func (e ProfileUpdated) EventName() string { return "identity.profile_updated" }

// =============================================================================
// Auth Domain Events
// =============================================================================

// SessionExpired is published when the backend rejects the session token.
// The UI reacts by returning to the login screen.
type SessionExpired struct {
	BaseEvent
}

func (e SessionExpired) EventName() string { return "auth.session_expired" }

// =============================================================================
// Client Domain Events
// =============================================================================

// ClientSaved is published after a client record is created or updated.
type ClientSaved struct {
	BaseEvent
	ClientID uuid.UUID `json:"client_id"`
}

func (e ClientSaved) EventName() string { return "clients.saved" }
