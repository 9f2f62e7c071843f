// Package gateway binds the global search lookups to the clinic backend API.
package gateway

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/ivenhartford/LCH-sub002/internal/search"
	"github.com/ivenhartford/LCH-sub002/platform/rest"
)

// Gateway performs the three search calls. It bypasses the response cache:
// staleness in the search box is governed by the aggregator's tokens, not
// by TTLs.
type Gateway struct {
	rest *rest.Client
}

// New creates a search gateway.
func New(restClient *rest.Client) *Gateway {
	return &Gateway{rest: restClient}
}

var _ search.Gateway = (*Gateway)(nil)

// SearchClients looks up clients matching query. A response without the
// clients key decodes as an empty group.
func (g *Gateway) SearchClients(ctx context.Context, query string, limit int) ([]search.ClientHit, error) {
	var envelope struct {
		Clients []search.ClientHit `json:"clients"`
	}
	if err := g.rest.Get(ctx, "/api/clients", searchParams(query, limit), &envelope); err != nil {
		return nil, fmt.Errorf("search clients: %w", err)
	}
	return envelope.Clients, nil
}

// SearchPatients looks up patients matching query.
func (g *Gateway) SearchPatients(ctx context.Context, query string, limit int) ([]search.PatientHit, error) {
	var envelope struct {
		Patients []search.PatientHit `json:"patients"`
	}
	if err := g.rest.Get(ctx, "/api/patients", searchParams(query, limit), &envelope); err != nil {
		return nil, fmt.Errorf("search patients: %w", err)
	}
	return envelope.Patients, nil
}

// SearchAppointments looks up appointments matching query.
func (g *Gateway) SearchAppointments(ctx context.Context, query string, limit int) ([]search.AppointmentHit, error) {
	var envelope struct {
		Appointments []search.AppointmentHit `json:"appointments"`
	}
	if err := g.rest.Get(ctx, "/api/appointments", searchParams(query, limit), &envelope); err != nil {
		return nil, fmt.Errorf("search appointments: %w", err)
	}
	return envelope.Appointments, nil
}

func searchParams(query string, limit int) url.Values {
	params := url.Values{}
	params.Set("search", query)
	params.Set("limit", strconv.Itoa(limit))
	return params
}
