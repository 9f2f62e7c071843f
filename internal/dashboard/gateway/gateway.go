// Package gateway binds the dashboard feature to the clinic REST API.
package gateway

import (
	"context"
	"fmt"

	"github.com/ivenhartford/LCH-sub002/internal/dashboard/transport"
	"github.com/ivenhartford/LCH-sub002/platform/rest"
)

type Gateway struct {
	rest *rest.Client
}

func New(restClient *rest.Client) *Gateway {
	return &Gateway{rest: restClient}
}

func (g *Gateway) Overview(ctx context.Context) (transport.DashboardResponse, error) {
	var out transport.DashboardResponse
	if err := g.rest.GetCached(ctx, "/api/dashboard", nil, &out); err != nil {
		return transport.DashboardResponse{}, fmt.Errorf("load dashboard: %w", err)
	}
	return out, nil
}
