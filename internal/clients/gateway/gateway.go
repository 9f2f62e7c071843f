// Package gateway binds the clients feature to the clinic REST API.
package gateway

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/ivenhartford/LCH-sub002/internal/clients/transport"
	"github.com/ivenhartford/LCH-sub002/platform/rest"

	"github.com/google/uuid"
)

type Gateway struct {
	rest *rest.Client
}

func New(restClient *rest.Client) *Gateway {
	return &Gateway{rest: restClient}
}

func (g *Gateway) List(ctx context.Context, req transport.ListClientsRequest) (transport.ClientListResponse, error) {
	params := url.Values{}
	if req.Search != "" {
		params.Set("search", req.Search)
	}
	params.Set("page", strconv.Itoa(req.Page))
	params.Set("page_size", strconv.Itoa(req.PageSize))

	var out transport.ClientListResponse
	if err := g.rest.GetCached(ctx, "/api/clients", params, &out); err != nil {
		return transport.ClientListResponse{}, fmt.Errorf("list clients: %w", err)
	}
	return out, nil
}

func (g *Gateway) Get(ctx context.Context, id uuid.UUID) (transport.ClientDetailResponse, error) {
	var out transport.ClientDetailResponse
	if err := g.rest.GetCached(ctx, "/api/clients/"+id.String(), nil, &out); err != nil {
		return transport.ClientDetailResponse{}, fmt.Errorf("get client %s: %w", id, err)
	}
	return out, nil
}

func (g *Gateway) Create(ctx context.Context, req transport.CreateClientRequest) (transport.ClientResponse, error) {
	var out transport.ClientResponse
	if err := g.rest.Post(ctx, "/api/clients", req, &out); err != nil {
		return transport.ClientResponse{}, fmt.Errorf("create client: %w", err)
	}
	return out, nil
}

func (g *Gateway) Update(ctx context.Context, id uuid.UUID, req transport.UpdateClientRequest) (transport.ClientResponse, error) {
	var out transport.ClientResponse
	if err := g.rest.Put(ctx, "/api/clients/"+id.String(), req, &out); err != nil {
		return transport.ClientResponse{}, fmt.Errorf("update client %s: %w", id, err)
	}
	return out, nil
}
