// Package gateway binds the analytics feature to the clinic REST API.
package gateway

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/ivenhartford/LCH-sub002/internal/analytics/transport"
	"github.com/ivenhartford/LCH-sub002/platform/rest"
)

type Gateway struct {
	rest *rest.Client
}

func New(restClient *rest.Client) *Gateway {
	return &Gateway{rest: restClient}
}

func (g *Gateway) Report(ctx context.Context, months int) (transport.AnalyticsResponse, error) {
	params := url.Values{}
	params.Set("months", strconv.Itoa(months))

	var out transport.AnalyticsResponse
	if err := g.rest.GetCached(ctx, "/api/analytics", params, &out); err != nil {
		return transport.AnalyticsResponse{}, fmt.Errorf("load analytics: %w", err)
	}
	return out, nil
}
