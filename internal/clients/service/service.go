// Package service implements the client roster screens: a paged searchable
// list, a detail view with the patient roster, and create/update forms.
package service

import (
	"context"
	"strings"

	"github.com/ivenhartford/LCH-sub002/internal/clients/transport"
	"github.com/ivenhartford/LCH-sub002/internal/events"
	"github.com/ivenhartford/LCH-sub002/platform/apperr"
	"github.com/ivenhartford/LCH-sub002/platform/logger"
	"github.com/ivenhartford/LCH-sub002/platform/phone"
	"github.com/ivenhartford/LCH-sub002/platform/sanitize"
	"github.com/ivenhartford/LCH-sub002/platform/validator"

	"github.com/google/uuid"
)

const defaultPageSize = 25

// Gateway is the REST surface this service needs.
type Gateway interface {
	List(ctx context.Context, req transport.ListClientsRequest) (transport.ClientListResponse, error)
	Get(ctx context.Context, id uuid.UUID) (transport.ClientDetailResponse, error)
	Create(ctx context.Context, req transport.CreateClientRequest) (transport.ClientResponse, error)
	Update(ctx context.Context, id uuid.UUID, req transport.UpdateClientRequest) (transport.ClientResponse, error)
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

// Page is the list view model.
type Page struct {
	Clients    []transport.ClientResponse
	Total      int
	Page       int
	TotalPages int
}

// Detail is the detail view model: the client plus their patients.
type Detail struct {
	Client   transport.ClientResponse
	Patients []transport.ClientPatientSummary
}

// List returns one page of the roster. The search text is passed through to
// the backend unchanged, so the list matches what the global search returns.
func (s *Service) List(ctx context.Context, search string, page int) (Page, error) {
	if page < 1 {
		page = 1
	}
	req := transport.ListClientsRequest{
		Search:   strings.TrimSpace(search),
		Page:     page,
		PageSize: defaultPageSize,
	}
	if err := s.val.Struct(req); err != nil {
		return Page{}, apperr.Validation("invalid client list filters")
	}

	resp, err := s.gw.List(ctx, req)
	if err != nil {
		return Page{}, err
	}
	return Page{
		Clients:    resp.Clients,
		Total:      resp.Total,
		Page:       resp.Page,
		TotalPages: resp.TotalPages,
	}, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (Detail, error) {
	resp, err := s.gw.Get(ctx, id)
	if err != nil {
		return Detail{}, err
	}
	resp.Client.Notes = sanitize.Text(resp.Client.Notes)
	return Detail{Client: resp.Client, Patients: resp.Patients}, nil
}

func (s *Service) Create(ctx context.Context, req transport.CreateClientRequest) (transport.ClientResponse, error) {
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.Email = strings.TrimSpace(req.Email)
	req.PhonePrimary = phone.NormalizeE164(req.PhonePrimary)
	if req.PhoneSecondary != "" {
		req.PhoneSecondary = phone.NormalizeE164(req.PhoneSecondary)
	}

	if err := s.val.Struct(req); err != nil {
		return transport.ClientResponse{}, apperr.Wrap(apperr.KindValidation, "check the client form for errors", err)
	}

	resp, err := s.gw.Create(ctx, req)
	if err != nil {
		return transport.ClientResponse{}, err
	}

	s.publishSaved(resp.ID)
	return resp, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req transport.UpdateClientRequest) (transport.ClientResponse, error) {
	if req.PhonePrimary != nil {
		normalized := phone.NormalizeE164(*req.PhonePrimary)
		req.PhonePrimary = &normalized
	}
	if req.PhoneSecondary != nil && *req.PhoneSecondary != "" {
		normalized := phone.NormalizeE164(*req.PhoneSecondary)
		req.PhoneSecondary = &normalized
	}

	if err := s.val.Struct(req); err != nil {
		return transport.ClientResponse{}, apperr.Wrap(apperr.KindValidation, "check the client form for errors", err)
	}

	resp, err := s.gw.Update(ctx, id, req)
	if err != nil {
		return transport.ClientResponse{}, err
	}

	s.publishSaved(resp.ID)
	return resp, nil
}

func (s *Service) publishSaved(id uuid.UUID) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(context.Background(), events.ClientSaved{
		BaseEvent: events.NewBaseEvent(),
		ClientID:  id,
	})
}
