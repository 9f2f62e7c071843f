// Package service implements the calendar screens: a month grid of
// appointments, a detail view, booking, and status changes with the
// clinic's workflow rules.
package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/ivenhartford/LCH-sub002/internal/appointments/transport"
	"github.com/ivenhartford/LCH-sub002/internal/events"
	"github.com/ivenhartford/LCH-sub002/platform/apperr"
	"github.com/ivenhartford/LCH-sub002/platform/logger"
	"github.com/ivenhartford/LCH-sub002/platform/sanitize"
	"github.com/ivenhartford/LCH-sub002/platform/validator"

	"github.com/google/uuid"
)

// Date format and grid size constants. The grid is always six weeks of
// seven days so the calendar never changes height while paging months.
const (
	dateFormat     = "2006-01-02"
	gridWeeks      = 6
	gridDays       = 7
	monthGridCells = gridWeeks * gridDays
)

const defaultVisitDuration = 30 * time.Minute

// legalTransitions encodes the clinic's appointment workflow:
// scheduled -> confirmed -> checked_in -> in_progress -> completed, with
// cancellation possible until treatment starts and no-shows recorded for
// patients that never arrived.
var legalTransitions = map[transport.AppointmentStatus][]transport.AppointmentStatus{
	transport.AppointmentStatusScheduled: {
		transport.AppointmentStatusConfirmed,
		transport.AppointmentStatusCancelled,
		transport.AppointmentStatusNoShow,
	},
	transport.AppointmentStatusConfirmed: {
		transport.AppointmentStatusCheckedIn,
		transport.AppointmentStatusCancelled,
		transport.AppointmentStatusNoShow,
	},
	transport.AppointmentStatusCheckedIn: {
		transport.AppointmentStatusInProgress,
		transport.AppointmentStatusCancelled,
	},
	transport.AppointmentStatusInProgress: {
		transport.AppointmentStatusCompleted,
	},
}

// Gateway is the REST surface this service needs.
type Gateway interface {
	Range(ctx context.Context, req transport.ListAppointmentsRequest) (transport.AppointmentListResponse, error)
	Get(ctx context.Context, id uuid.UUID) (transport.AppointmentResponse, error)
	Create(ctx context.Context, req transport.CreateAppointmentRequest) (transport.AppointmentResponse, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, req transport.UpdateAppointmentStatusRequest) (transport.AppointmentResponse, error)
}

// TypeDirectory resolves appointment type defaults. The identity feature
// implements it; a nil directory falls back to defaultVisitDuration.
type TypeDirectory interface {
	DefaultDuration(ctx context.Context, typeID uuid.UUID) (time.Duration, bool)
}

type Service struct {
	gw    Gateway
	val   *validator.Validator
	bus   events.Bus
	types TypeDirectory
	loc   *time.Location
	log   *logger.Logger
}

func New(gw Gateway, val *validator.Validator, bus events.Bus, types TypeDirectory, loc *time.Location, log *logger.Logger) *Service {
	if loc == nil {
		loc = time.Local
	}
	return &Service{gw: gw, val: val, bus: bus, types: types, loc: loc, log: log}
}

// DayCell is one cell of the month grid.
type DayCell struct {
	Date         time.Time
	InMonth      bool
	Appointments []transport.AppointmentResponse
}

// MonthView is the calendar view model: six rows of seven day cells, with
// leading and trailing days of the adjacent months filling the grid.
type MonthView struct {
	Year  int
	Month time.Month
	Weeks [][]DayCell
}

// Month builds the grid for one month. Appointments are bucketed by their
// start day in the clinic's time zone and sorted by start time within a day.
func (s *Service) Month(ctx context.Context, year int, month time.Month) (MonthView, error) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, s.loc)
	gridStart := first.AddDate(0, 0, -int(first.Weekday()))
	gridEnd := gridStart.AddDate(0, 0, monthGridCells-1)

	resp, err := s.gw.Range(ctx, transport.ListAppointmentsRequest{
		StartFrom: gridStart.Format(dateFormat),
		StartTo:   gridEnd.Format(dateFormat),
	})
	if err != nil {
		return MonthView{}, err
	}

	byDay := make(map[string][]transport.AppointmentResponse, len(resp.Appointments))
	for _, appt := range resp.Appointments {
		key := appt.StartTime.In(s.loc).Format(dateFormat)
		byDay[key] = append(byDay[key], appt)
	}
	for key := range byDay {
		day := byDay[key]
		sort.Slice(day, func(i, j int) bool { return day[i].StartTime.Before(day[j].StartTime) })
	}

	view := MonthView{Year: year, Month: month, Weeks: make([][]DayCell, 0, gridWeeks)}
	for week := 0; week < gridWeeks; week++ {
		row := make([]DayCell, 0, gridDays)
		for weekday := 0; weekday < gridDays; weekday++ {
			day := gridStart.AddDate(0, 0, week*gridDays+weekday)
			row = append(row, DayCell{
				Date:         day,
				InMonth:      day.Month() == month,
				Appointments: byDay[day.Format(dateFormat)],
			})
		}
		view.Weeks = append(view.Weeks, row)
	}
	return view, nil
}

func (s *Service) Appointment(ctx context.Context, id uuid.UUID) (transport.AppointmentResponse, error) {
	appt, err := s.gw.Get(ctx, id)
	if err != nil {
		return transport.AppointmentResponse{}, err
	}
	appt.Description = sanitize.Text(appt.Description)
	return appt, nil
}

// Create books an appointment. A zero end time gets the appointment type's
// default duration, then the booking must still end after it starts.
func (s *Service) Create(ctx context.Context, req transport.CreateAppointmentRequest) (transport.AppointmentResponse, error) {
	req.Title = strings.TrimSpace(req.Title)

	if req.EndTime.IsZero() && !req.StartTime.IsZero() {
		req.EndTime = req.StartTime.Add(s.visitDuration(ctx, req.AppointmentTypeID))
	}

	if err := s.val.Struct(req); err != nil {
		return transport.AppointmentResponse{}, apperr.Wrap(apperr.KindValidation, "check the appointment form for errors", err)
	}
	if !req.EndTime.After(req.StartTime) {
		return transport.AppointmentResponse{}, apperr.Validation("end time must be after start time")
	}

	appt, err := s.gw.Create(ctx, req)
	if err != nil {
		return transport.AppointmentResponse{}, err
	}

	if s.bus != nil {
		s.bus.Publish(ctx, events.AppointmentCreated{
			BaseEvent:     events.NewBaseEvent(),
			AppointmentID: appt.ID,
			Title:         appt.Title,
			StartTime:     appt.StartTime,
		})
	}
	return appt, nil
}

// UpdateStatus applies a workflow transition. Setting the current status
// again is a no-op; anything outside legalTransitions is rejected before
// the backend is called.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status transport.AppointmentStatus) (transport.AppointmentResponse, error) {
	req := transport.UpdateAppointmentStatusRequest{Status: status}
	if err := s.val.Struct(req); err != nil {
		return transport.AppointmentResponse{}, apperr.Validation("unknown appointment status")
	}

	appt, err := s.gw.Get(ctx, id)
	if err != nil {
		return transport.AppointmentResponse{}, err
	}

	oldStatus := appt.Status
	if status == oldStatus {
		return appt, nil
	}
	if !transitionAllowed(oldStatus, status) {
		return transport.AppointmentResponse{}, apperr.Conflict("cannot move appointment from " + string(oldStatus) + " to " + string(status))
	}

	updated, err := s.gw.UpdateStatus(ctx, id, req)
	if err != nil {
		return transport.AppointmentResponse{}, err
	}

	if s.bus != nil {
		s.bus.Publish(ctx, events.AppointmentStatusChanged{
			BaseEvent:     events.NewBaseEvent(),
			AppointmentID: updated.ID,
			OldStatus:     string(oldStatus),
			NewStatus:     string(updated.Status),
		})
	}
	return updated, nil
}

func (s *Service) visitDuration(ctx context.Context, typeID *uuid.UUID) time.Duration {
	if s.types == nil || typeID == nil {
		return defaultVisitDuration
	}
	if d, ok := s.types.DefaultDuration(ctx, *typeID); ok && d > 0 {
		return d
	}
	return defaultVisitDuration
}

func transitionAllowed(from, to transport.AppointmentStatus) bool {
	for _, allowed := range legalTransitions[from] {
		if to == allowed {
			return true
		}
	}
	return false
}

// NextStatuses lists the statuses an appointment in the given state may move
// to, in workflow order. Terminal states return nil.
func NextStatuses(from transport.AppointmentStatus) []transport.AppointmentStatus {
	return append([]transport.AppointmentStatus(nil), legalTransitions[from]...)
}
