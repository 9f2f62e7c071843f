// Package service implements the settings screens: the signed-in user's
// profile, the clinic record, and the appointment type catalog.
package service

import (
	"context"
	"strings"
	"time"

	"github.com/ivenhartford/LCH-sub002/internal/events"
	"github.com/ivenhartford/LCH-sub002/internal/identity/transport"
	"github.com/ivenhartford/LCH-sub002/platform/apperr"
	"github.com/ivenhartford/LCH-sub002/platform/logger"
	"github.com/ivenhartford/LCH-sub002/platform/phone"
	"github.com/ivenhartford/LCH-sub002/platform/validator"

	"github.com/google/uuid"
)

// Gateway is the REST surface this service needs.
type Gateway interface {
	Profile(ctx context.Context) (transport.ProfileResponse, error)
	UpdateProfile(ctx context.Context, req transport.UpdateProfileRequest) (transport.ProfileResponse, error)
	ClinicSettings(ctx context.Context) (transport.ClinicSettingsResponse, error)
	UpdateClinicSettings(ctx context.Context, req transport.UpdateClinicSettingsRequest) (transport.ClinicSettingsResponse, error)
	AppointmentTypes(ctx context.Context) (transport.AppointmentTypesResponse, error)
	CreateAppointmentType(ctx context.Context, req transport.CreateAppointmentTypeRequest) (transport.AppointmentTypeResponse, error)
	UpdateAppointmentType(ctx context.Context, id uuid.UUID, req transport.UpdateAppointmentTypeRequest) (transport.AppointmentTypeResponse, error)
}

type Service struct {
	gw  Gateway
	val *validator.Validator
	bus events.Bus
	log *logger.Logger
}

func New(gw Gateway, val *validator.Validator, bus events.Bus, log *logger.Logger) *Service {
	return &Service{gw: gw, val: val, bus: bus, log: log}
}

func (s *Service) Profile(ctx context.Context) (transport.ProfileResponse, error) {
	return s.gw.Profile(ctx)
}

// UpdateProfile saves the signed-in user's details and announces the change
// so cached views refresh.
func (s *Service) UpdateProfile(ctx context.Context, req transport.UpdateProfileRequest) (transport.ProfileResponse, error) {
	if req.FirstName != nil {
		trimmed := strings.TrimSpace(*req.FirstName)
		req.FirstName = &trimmed
	}
	if req.LastName != nil {
		trimmed := strings.TrimSpace(*req.LastName)
		req.LastName = &trimmed
	}
	if req.Phone != nil {
		normalized := phone.NormalizeE164(*req.Phone)
		req.Phone = &normalized
	}

	if err := s.val.Struct(req); err != nil {
		return transport.ProfileResponse{}, apperr.Wrap(apperr.KindValidation, "check the profile form for errors", err)
	}

	profile, err := s.gw.UpdateProfile(ctx, req)
	if err != nil {
		return transport.ProfileResponse{}, err
	}

	if s.bus != nil {
		s.bus.Publish(ctx, events.ProfileUpdated{
			BaseEvent: events.NewBaseEvent(),
			UserID:    profile.ID,
		})
	}
	return profile, nil
}

func (s *Service) Clinic(ctx context.Context) (transport.ClinicSettingsResponse, error) {
	return s.gw.ClinicSettings(ctx)
}

func (s *Service) UpdateClinic(ctx context.Context, req transport.UpdateClinicSettingsRequest) (transport.ClinicSettingsResponse, error) {
	if req.Phone != nil {
		normalized := phone.NormalizeE164(*req.Phone)
		req.Phone = &normalized
	}
	if err := s.val.Struct(req); err != nil {
		return transport.ClinicSettingsResponse{}, apperr.Wrap(apperr.KindValidation, "check the clinic form for errors", err)
	}
	return s.gw.UpdateClinicSettings(ctx, req)
}

func (s *Service) AppointmentTypes(ctx context.Context) ([]transport.AppointmentTypeResponse, error) {
	resp, err := s.gw.AppointmentTypes(ctx)
	if err != nil {
		return nil, err
	}
	return resp.AppointmentTypes, nil
}

func (s *Service) CreateAppointmentType(ctx context.Context, req transport.CreateAppointmentTypeRequest) (transport.AppointmentTypeResponse, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Color = strings.ToLower(strings.TrimSpace(req.Color))
	if err := s.val.Struct(req); err != nil {
		return transport.AppointmentTypeResponse{}, apperr.Wrap(apperr.KindValidation, "appointment types need a name and a #rrggbb color", err)
	}
	return s.gw.CreateAppointmentType(ctx, req)
}

func (s *Service) UpdateAppointmentType(ctx context.Context, id uuid.UUID, req transport.UpdateAppointmentTypeRequest) (transport.AppointmentTypeResponse, error) {
	if req.Color != nil {
		color := strings.ToLower(strings.TrimSpace(*req.Color))
		req.Color = &color
	}
	if err := s.val.Struct(req); err != nil {
		return transport.AppointmentTypeResponse{}, apperr.Wrap(apperr.KindValidation, "appointment types need a name and a #rrggbb color", err)
	}
	return s.gw.UpdateAppointmentType(ctx, id, req)
}

// DefaultDuration implements the calendar's type lookup. Durations come
// from the cached type listing, so booking forms do not refetch per keypress.
func (s *Service) DefaultDuration(ctx context.Context, typeID uuid.UUID) (time.Duration, bool) {
	types, err := s.AppointmentTypes(ctx)
	if err != nil {
		s.log.Warn("appointment type lookup failed", "error", err.Error())
		return 0, false
	}
	for _, t := range types {
		if t.ID == typeID {
			return time.Duration(t.DurationMinutes) * time.Minute, true
		}
	}
	return 0, false
}
