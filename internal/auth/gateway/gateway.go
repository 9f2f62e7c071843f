// Package gateway binds authentication calls to the clinic backend API.
package gateway

import (
	"context"
	"fmt"

	"github.com/ivenhartford/LCH-sub002/internal/auth/transport"
	"github.com/ivenhartford/LCH-sub002/platform/rest"
)

// Gateway performs authentication calls.
type Gateway struct {
	rest *rest.Client
}

// New creates an auth gateway.
func New(restClient *rest.Client) *Gateway {
	return &Gateway{rest: restClient}
}

// Login exchanges credentials for an access token.
func (g *Gateway) Login(ctx context.Context, email, password string) (string, error) {
	req := transport.SignInRequest{Email: email, Password: password}
	var resp transport.AuthResponse
	if err := g.rest.Post(ctx, "/api/auth/login", req, &resp); err != nil {
		return "", fmt.Errorf("sign in: %w", err)
	}
	return resp.AccessToken, nil
}
