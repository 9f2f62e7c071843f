// Package rest provides the HTTP client shared by all clinic backend gateways.
// This is part of the platform layer and contains no business logic.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ivenhartford/LCH-sub002/platform/apperr"
	"github.com/ivenhartford/LCH-sub002/platform/logger"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

const (
	// requestsPerSecond throttles outbound calls so bursty UI code
	// cannot hammer the backend.
	requestsPerSecond = 20
	requestBurst      = 40

	// maxResponseBytes caps response bodies read into memory.
	maxResponseBytes = 4 << 20

	cacheCleanupInterval = 5 * time.Minute
)

// TokenSource supplies the bearer token for authenticated requests.
// An empty token means the request goes out unauthenticated.
type TokenSource interface {
	AccessToken() (string, bool)
}

// Config supplies the client settings.
type Config interface {
	GetAPIBaseURL() string
	GetAPITimeout() time.Duration
	GetCacheTTL() time.Duration
}

// errorEnvelope is the backend's error response format.
type errorEnvelope struct {
	Error   string      `json:"error"`
	Details interface{} `json:"details,omitempty"`
}

// Client is the HTTP client for the clinic backend API.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	tokens         TokenSource
	limiter        *rate.Limiter
	cache          *gocache.Cache
	cacheTTL       time.Duration
	log            *logger.Logger
	onUnauthorized func()
}

// New creates a new backend client. tokens may be nil for unauthenticated use.
func New(cfg Config, tokens TokenSource, log *logger.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.GetAPITimeout()},
		baseURL:    strings.TrimRight(cfg.GetAPIBaseURL(), "/"),
		tokens:     tokens,
		limiter:    rate.NewLimiter(rate.Limit(requestsPerSecond), requestBurst),
		cache:      gocache.New(cfg.GetCacheTTL(), cacheCleanupInterval),
		cacheTTL:   cfg.GetCacheTTL(),
		log:        log,
	}
}

// SetUnauthorizedHook registers a callback invoked whenever the backend
// answers 401. The composition root uses it to flag an expired session.
func (c *Client) SetUnauthorizedHook(fn func()) {
	c.onUnauthorized = fn
}

// Get performs a GET request, bypassing the response cache.
func (c *Client) Get(ctx context.Context, path string, params url.Values, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, params, nil, out)
}

// GetCached performs a GET request through the response cache. Cached bodies
// are stored raw and re-decoded per call so callers never share pointers.
func (c *Client) GetCached(ctx context.Context, path string, params url.Values, out interface{}) error {
	key := cacheKey(path, params)
	if raw, ok := c.cache.Get(key); ok {
		return json.Unmarshal(raw.([]byte), out)
	}

	var body json.RawMessage
	if err := c.do(ctx, http.MethodGet, path, params, nil, &body); err != nil {
		return err
	}
	c.cache.Set(key, []byte(body), gocache.DefaultExpiration)
	if out != nil {
		return json.Unmarshal(body, out)
	}
	return nil
}

// Post performs a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out)
}

// Put performs a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPut, path, nil, body, out)
}

// Patch performs a PATCH request with a JSON body.
func (c *Client) Patch(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPatch, path, nil, body, out)
}

// Invalidate drops every cached response whose path starts with prefix.
// Mutation paths call this so stale reads never outlive a write.
func (c *Client) Invalidate(prefix string) {
	for key := range c.cache.Items() {
		if strings.HasPrefix(key, prefix) {
			c.cache.Delete(key)
		}
	}
}

func cacheKey(path string, params url.Values) string {
	if len(params) == 0 {
		return path
	}
	return path + "?" + params.Encode()
}

func (c *Client) do(ctx context.Context, method, path string, params url.Values, body, out interface{}) error {
	op := method + " " + path

	if err := c.limiter.Wait(ctx); err != nil {
		return apperr.Wrap(apperr.KindUnavailable, "request throttled", err).WithOp(op)
	}

	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return apperr.Wrap(apperr.KindInternal, "encode request", err).WithOp(op)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "create request", err).WithOp(op)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if token, ok := c.tokens.AccessToken(); ok {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.APICallError(method, path, err)
		return apperr.Wrap(apperr.KindUnavailable, "backend unreachable", err).WithOp(op)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		c.log.APICallError(method, path, err)
		return apperr.Wrap(apperr.KindUnavailable, "read response", err).WithOp(op)
	}

	c.log.APICall(method, path, resp.StatusCode, float64(time.Since(start).Milliseconds()))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if resp.StatusCode == http.StatusUnauthorized && c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		var envelope errorEnvelope
		_ = json.Unmarshal(raw, &envelope)
		return apperr.FromStatus(op, resp.StatusCode, envelope.Error)
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return apperr.Wrap(apperr.KindInternal, "decode response", err).WithOp(op)
	}
	return nil
}
