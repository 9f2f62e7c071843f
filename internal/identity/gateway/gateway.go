// Package gateway binds the identity feature to the clinic REST API.
package gateway

import (
	"context"
	"fmt"

	"github.com/ivenhartford/LCH-sub002/internal/identity/transport"
	"github.com/ivenhartford/LCH-sub002/platform/rest"

	"github.com/google/uuid"
)

type Gateway struct {
	rest *rest.Client
}

func New(restClient *rest.Client) *Gateway {
	return &Gateway{rest: restClient}
}

func (g *Gateway) Profile(ctx context.Context) (transport.ProfileResponse, error) {
	var out transport.ProfileResponse
	if err := g.rest.GetCached(ctx, "/api/profile", nil, &out); err != nil {
		return transport.ProfileResponse{}, fmt.Errorf("get profile: %w", err)
	}
	return out, nil
}

func (g *Gateway) UpdateProfile(ctx context.Context, req transport.UpdateProfileRequest) (transport.ProfileResponse, error) {
	var out transport.ProfileResponse
	if err := g.rest.Put(ctx, "/api/profile", req, &out); err != nil {
		return transport.ProfileResponse{}, fmt.Errorf("update profile: %w", err)
	}
	return out, nil
}

func (g *Gateway) ClinicSettings(ctx context.Context) (transport.ClinicSettingsResponse, error) {
	var out transport.ClinicSettingsResponse
	if err := g.rest.GetCached(ctx, "/api/settings/clinic", nil, &out); err != nil {
		return transport.ClinicSettingsResponse{}, fmt.Errorf("get clinic settings: %w", err)
	}
	return out, nil
}

func (g *Gateway) UpdateClinicSettings(ctx context.Context, req transport.UpdateClinicSettingsRequest) (transport.ClinicSettingsResponse, error) {
	var out transport.ClinicSettingsResponse
	if err := g.rest.Put(ctx, "/api/settings/clinic", req, &out); err != nil {
		return transport.ClinicSettingsResponse{}, fmt.Errorf("update clinic settings: %w", err)
	}
	return out, nil
}

func (g *Gateway) AppointmentTypes(ctx context.Context) (transport.AppointmentTypesResponse, error) {
	var out transport.AppointmentTypesResponse
	if err := g.rest.GetCached(ctx, "/api/settings/appointment-types", nil, &out); err != nil {
		return transport.AppointmentTypesResponse{}, fmt.Errorf("list appointment types: %w", err)
	}
	return out, nil
}

func (g *Gateway) CreateAppointmentType(ctx context.Context, req transport.CreateAppointmentTypeRequest) (transport.AppointmentTypeResponse, error) {
	var out transport.AppointmentTypeResponse
	if err := g.rest.Post(ctx, "/api/settings/appointment-types", req, &out); err != nil {
		return transport.AppointmentTypeResponse{}, fmt.Errorf("create appointment type: %w", err)
	}
	return out, nil
}

func (g *Gateway) UpdateAppointmentType(ctx context.Context, id uuid.UUID, req transport.UpdateAppointmentTypeRequest) (transport.AppointmentTypeResponse, error) {
	var out transport.AppointmentTypeResponse
	if err := g.rest.Put(ctx, "/api/settings/appointment-types/"+id.String(), req, &out); err != nil {
		return transport.AppointmentTypeResponse{}, fmt.Errorf("update appointment type %s: %w", id, err)
	}
	return out, nil
}
