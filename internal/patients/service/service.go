// Package service implements the patient screens: a paged filtered list and
// a detail view with the owner and upcoming visits.
package service

import (
	"context"
	"sort"
	"strings"

	"github.com/ivenhartford/LCH-sub002/internal/patients/transport"
	"github.com/ivenhartford/LCH-sub002/platform/apperr"
	"github.com/ivenhartford/LCH-sub002/platform/logger"
	"github.com/ivenhartford/LCH-sub002/platform/sanitize"
	"github.com/ivenhartford/LCH-sub002/platform/validator"

	"github.com/google/uuid"
)

const defaultPageSize = 25

// Gateway is the REST surface this service needs.
type Gateway interface {
	List(ctx context.Context, req transport.ListPatientsRequest) (transport.PatientListResponse, error)
	Get(ctx context.Context, id uuid.UUID) (transport.PatientDetailResponse, error)
}

type Service struct {
	gw  Gateway
	val *validator.Validator
	log *logger.Logger
}

func New(gw Gateway, val *validator.Validator, log *logger.Logger) *Service {
	return &Service{gw: gw, val: val, log: log}
}

// Page is the list view model.
type Page struct {
	Patients   []transport.PatientResponse
	Total      int
	Page       int
	TotalPages int
}

// Detail is the detail view model.
type Detail struct {
	Patient        transport.PatientResponse
	Owner          transport.PatientOwnerSummary
	UpcomingVisits []transport.PatientVisitSummary
}

func (s *Service) List(ctx context.Context, search, status string, page int) (Page, error) {
	if page < 1 {
		page = 1
	}
	req := transport.ListPatientsRequest{
		Search:   strings.TrimSpace(search),
		Page:     page,
		PageSize: defaultPageSize,
	}
	if status != "" {
		st := transport.PatientStatus(status)
		req.Status = &st
	}
	if err := s.val.Struct(req); err != nil {
		return Page{}, apperr.Validation("invalid patient list filters")
	}

	resp, err := s.gw.List(ctx, req)
	if err != nil {
		return Page{}, err
	}
	return Page{
		Patients:   resp.Patients,
		Total:      resp.Total,
		Page:       resp.Page,
		TotalPages: resp.TotalPages,
	}, nil
}

// Get returns the detail view. Upcoming visits are sorted by start time so
// the next visit renders first regardless of backend ordering.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (Detail, error) {
	resp, err := s.gw.Get(ctx, id)
	if err != nil {
		return Detail{}, err
	}

	resp.Patient.Notes = sanitize.Text(resp.Patient.Notes)
	sort.Slice(resp.UpcomingVisits, func(i, j int) bool {
		return resp.UpcomingVisits[i].StartTime.Before(resp.UpcomingVisits[j].StartTime)
	})

	return Detail{
		Patient:        resp.Patient,
		Owner:          resp.Owner,
		UpcomingVisits: resp.UpcomingVisits,
	}, nil
}
