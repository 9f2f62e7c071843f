// Package gateway binds the appointments feature to the clinic REST API.
package gateway

import (
	"context"
	"fmt"
	"net/url"

	"github.com/ivenhartford/LCH-sub002/internal/appointments/transport"
	"github.com/ivenhartford/LCH-sub002/platform/rest"

	"github.com/google/uuid"
)

type Gateway struct {
	rest *rest.Client
}

func New(restClient *rest.Client) *Gateway {
	return &Gateway{rest: restClient}
}

// Range lists appointments whose start date falls inside [startFrom, startTo],
// both formatted as 2006-01-02.
func (g *Gateway) Range(ctx context.Context, req transport.ListAppointmentsRequest) (transport.AppointmentListResponse, error) {
	params := url.Values{}
	params.Set("start_from", req.StartFrom)
	params.Set("start_to", req.StartTo)

	var out transport.AppointmentListResponse
	if err := g.rest.GetCached(ctx, "/api/appointments", params, &out); err != nil {
		return transport.AppointmentListResponse{}, fmt.Errorf("list appointments: %w", err)
	}
	return out, nil
}

func (g *Gateway) Get(ctx context.Context, id uuid.UUID) (transport.AppointmentResponse, error) {
	var out transport.AppointmentResponse
	if err := g.rest.GetCached(ctx, "/api/appointments/"+id.String(), nil, &out); err != nil {
		return transport.AppointmentResponse{}, fmt.Errorf("get appointment %s: %w", id, err)
	}
	return out, nil
}

func (g *Gateway) Create(ctx context.Context, req transport.CreateAppointmentRequest) (transport.AppointmentResponse, error) {
	var out transport.AppointmentResponse
	if err := g.rest.Post(ctx, "/api/appointments", req, &out); err != nil {
		return transport.AppointmentResponse{}, fmt.Errorf("create appointment: %w", err)
	}
	return out, nil
}

func (g *Gateway) UpdateStatus(ctx context.Context, id uuid.UUID, req transport.UpdateAppointmentStatusRequest) (transport.AppointmentResponse, error) {
	var out transport.AppointmentResponse
	if err := g.rest.Patch(ctx, "/api/appointments/"+id.String()+"/status", req, &out); err != nil {
		return transport.AppointmentResponse{}, fmt.Errorf("update appointment %s status: %w", id, err)
	}
	return out, nil
}
