package rest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ivenhartford/LCH-sub002/platform/apperr"
	"github.com/ivenhartford/LCH-sub002/platform/logger"
)

type testRestConfig struct {
	baseURL string
}

func (c testRestConfig) GetAPIBaseURL() string        { return c.baseURL }
func (c testRestConfig) GetAPITimeout() time.Duration { return 2 * time.Second }
func (c testRestConfig) GetCacheTTL() time.Duration   { return time.Minute }

type staticToken string

func (s staticToken) AccessToken() (string, bool) { return string(s), s != "" }

func newTestClient(t *testing.T, handler http.Handler, tokens TokenSource) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(testRestConfig{baseURL: srv.URL}, tokens, logger.New("development")), srv
}

func TestGetSendsBearerToken(t *testing.T) {
	var gotAuth string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"ok":true}`))
	}), staticToken("tok-123"))

	var out struct {
		OK bool `json:"ok"`
	}
	if err := client.Get(context.Background(), "/api/ping", nil, &out); err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if gotAuth != "Bearer tok-123" {
		t.Fatalf("expected bearer header, got %q", gotAuth)
	}
	if !out.OK {
		t.Fatal("expected decoded response body")
	}
}

func TestErrorEnvelopeMapsToKind(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"patient not found"}`))
	}), nil)

	err := client.Get(context.Background(), "/api/patients/xyz", nil, nil)
	if err == nil {
		t.Fatal("expected error for 404")
	}
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected KindNotFound, got %v", apperr.GetKind(err))
	}
	if got := err.(*apperr.Error).Message; got != "patient not found" {
		t.Fatalf("expected server message preserved, got %q", got)
	}
}

func TestServerErrorIsUnavailable(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}), nil)

	err := client.Get(context.Background(), "/api/clients", nil, nil)
	if !apperr.Is(err, apperr.KindUnavailable) {
		t.Fatalf("expected KindUnavailable for 500, got %v", err)
	}
}

func TestUnauthorizedInvokesHook(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}), nil)

	var fired atomic.Bool
	client.SetUnauthorizedHook(func() { fired.Store(true) })

	err := client.Get(context.Background(), "/api/profile", nil, nil)
	if !apperr.Is(err, apperr.KindUnauthorized) {
		t.Fatalf("expected KindUnauthorized, got %v", err)
	}
	if !fired.Load() {
		t.Fatal("expected unauthorized hook to fire")
	}
}

func TestTransportFailureIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	client := New(testRestConfig{baseURL: srv.URL}, nil, logger.New("development"))
	srv.Close()

	err := client.Get(context.Background(), "/api/clients", nil, nil)
	if !apperr.Is(err, apperr.KindUnavailable) {
		t.Fatalf("expected KindUnavailable for closed server, got %v", err)
	}
}

func TestGetCachedServesFromCache(t *testing.T) {
	var hits atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(`{"value":42}`))
	}), nil)

	var out struct {
		Value int `json:"value"`
	}
	for i := 0; i < 3; i++ {
		if err := client.GetCached(context.Background(), "/api/dashboard", nil, &out); err != nil {
			t.Fatalf("GetCached returned error: %v", err)
		}
		if out.Value != 42 {
			t.Fatalf("expected decoded value 42, got %d", out.Value)
		}
	}
	if hits.Load() != 1 {
		t.Fatalf("expected 1 backend hit, got %d", hits.Load())
	}

	client.Invalidate("/api/dashboard")
	if err := client.GetCached(context.Background(), "/api/dashboard", nil, &out); err != nil {
		t.Fatalf("GetCached after invalidate returned error: %v", err)
	}
	if hits.Load() != 2 {
		t.Fatalf("expected refetch after invalidate, got %d hits", hits.Load())
	}
}

func TestInvalidateIsPrefixScoped(t *testing.T) {
	var hits atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(`{}`))
	}), nil)

	ctx := context.Background()
	var out struct{}
	client.GetCached(ctx, "/api/appointments", nil, &out)
	client.GetCached(ctx, "/api/clients", nil, &out)
	if hits.Load() != 2 {
		t.Fatalf("expected 2 initial hits, got %d", hits.Load())
	}

	client.Invalidate("/api/appointments")
	client.GetCached(ctx, "/api/appointments", nil, &out)
	client.GetCached(ctx, "/api/clients", nil, &out)
	if hits.Load() != 3 {
		t.Fatalf("expected only appointments to refetch, got %d hits", hits.Load())
	}
}
