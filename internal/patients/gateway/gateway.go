// Package gateway binds the patients feature to the clinic REST API.
package gateway

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/ivenhartford/LCH-sub002/internal/patients/transport"
	"github.com/ivenhartford/LCH-sub002/platform/rest"

	"github.com/google/uuid"
)

type Gateway struct {
	rest *rest.Client
}

func New(restClient *rest.Client) *Gateway {
	return &Gateway{rest: restClient}
}

func (g *Gateway) List(ctx context.Context, req transport.ListPatientsRequest) (transport.PatientListResponse, error) {
	params := url.Values{}
	if req.Search != "" {
		params.Set("search", req.Search)
	}
	if req.Status != nil {
		params.Set("status", string(*req.Status))
	}
	params.Set("page", strconv.Itoa(req.Page))
	params.Set("page_size", strconv.Itoa(req.PageSize))

	var out transport.PatientListResponse
	if err := g.rest.GetCached(ctx, "/api/patients", params, &out); err != nil {
		return transport.PatientListResponse{}, fmt.Errorf("list patients: %w", err)
	}
	return out, nil
}

func (g *Gateway) Get(ctx context.Context, id uuid.UUID) (transport.PatientDetailResponse, error) {
	var out transport.PatientDetailResponse
	if err := g.rest.GetCached(ctx, "/api/patients/"+id.String(), nil, &out); err != nil {
		return transport.PatientDetailResponse{}, fmt.Errorf("get patient %s: %w", id, err)
	}
	return out, nil
}
