package service

import (
	"context"
	"sync"
	"testing"

	"github.com/ivenhartford/LCH-sub002/internal/clients/transport"
	"github.com/ivenhartford/LCH-sub002/internal/events"
	"github.com/ivenhartford/LCH-sub002/platform/apperr"
	"github.com/ivenhartford/LCH-sub002/platform/logger"
	"github.com/ivenhartford/LCH-sub002/platform/validator"

	"github.com/google/uuid"
)

type fakeGateway struct {
	listReq   transport.ListClientsRequest
	createReq transport.CreateClientRequest
	updateReq transport.UpdateClientRequest
	detail    transport.ClientDetailResponse
	calls     int
}

func (f *fakeGateway) List(ctx context.Context, req transport.ListClientsRequest) (transport.ClientListResponse, error) {
	f.calls++
	f.listReq = req
	return transport.ClientListResponse{Page: req.Page, PageSize: req.PageSize}, nil
}

func (f *fakeGateway) Get(ctx context.Context, id uuid.UUID) (transport.ClientDetailResponse, error) {
	f.calls++
	return f.detail, nil
}

func (f *fakeGateway) Create(ctx context.Context, req transport.CreateClientRequest) (transport.ClientResponse, error) {
	f.calls++
	f.createReq = req
	return transport.ClientResponse{ID: uuid.New(), FirstName: req.FirstName, LastName: req.LastName}, nil
}

func (f *fakeGateway) Update(ctx context.Context, id uuid.UUID, req transport.UpdateClientRequest) (transport.ClientResponse, error) {
	f.calls++
	f.updateReq = req
	return transport.ClientResponse{ID: id}, nil
}

type recordingBus struct {
	mu    sync.Mutex
	names []string
}

func (b *recordingBus) Publish(ctx context.Context, event events.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.names = append(b.names, event.EventName())
}

func (b *recordingBus) PublishSync(ctx context.Context, event events.Event) error {
	b.Publish(ctx, event)
	return nil
}

func (b *recordingBus) Subscribe(eventName string, handler events.Handler) {}

func (b *recordingBus) published() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.names...)
}

func newClientService(gw Gateway, bus events.Bus) *Service {
	return New(gw, validator.New(), bus, logger.New("development"))
}

func TestListPassesSearchThrough(t *testing.T) {
	gw := &fakeGateway{}
	svc := newClientService(gw, nil)

	page, err := svc.List(context.Background(), "  smith ", 0)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if gw.listReq.Search != "smith" {
		t.Fatalf("expected trimmed search text, got %q", gw.listReq.Search)
	}
	if gw.listReq.Page != 1 || gw.listReq.PageSize != defaultPageSize {
		t.Fatalf("expected page defaults, got page=%d size=%d", gw.listReq.Page, gw.listReq.PageSize)
	}
	if page.Page != 1 {
		t.Fatalf("expected page 1 in view model, got %d", page.Page)
	}
}

func TestCreateNormalizesPhone(t *testing.T) {
	gw := &fakeGateway{}
	bus := &recordingBus{}
	svc := newClientService(gw, bus)

	req := transport.CreateClientRequest{
		FirstName:    " Dana ",
		LastName:     "Whitfield",
		PhonePrimary: "(202) 456-1111",
	}
	if _, err := svc.Create(context.Background(), req); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if gw.createReq.PhonePrimary != "+12024561111" {
		t.Fatalf("expected E.164 phone, got %q", gw.createReq.PhonePrimary)
	}
	if gw.createReq.FirstName != "Dana" {
		t.Fatalf("expected trimmed first name, got %q", gw.createReq.FirstName)
	}
	if names := bus.published(); len(names) != 1 || names[0] != "clients.saved" {
		t.Fatalf("expected clients.saved event, got %v", names)
	}
}

func TestCreateRejectsMissingName(t *testing.T) {
	gw := &fakeGateway{}
	svc := newClientService(gw, nil)

	_, err := svc.Create(context.Background(), transport.CreateClientRequest{PhonePrimary: "(202) 456-1111"})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if gw.calls != 0 {
		t.Fatalf("expected no backend call for invalid input, got %d", gw.calls)
	}
}

func TestGetStripsNoteMarkup(t *testing.T) {
	gw := &fakeGateway{detail: transport.ClientDetailResponse{
		Client: transport.ClientResponse{Notes: "<b>Prefers</b> morning visits"},
	}}
	svc := newClientService(gw, nil)

	detail, err := svc.Get(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if detail.Client.Notes != "Prefers morning visits" {
		t.Fatalf("expected stripped notes, got %q", detail.Client.Notes)
	}
}

func TestUpdatePublishesClientSaved(t *testing.T) {
	gw := &fakeGateway{}
	bus := &recordingBus{}
	svc := newClientService(gw, bus)

	email := "dana@lakeside.example"
	if _, err := svc.Update(context.Background(), uuid.New(), transport.UpdateClientRequest{Email: &email}); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if names := bus.published(); len(names) != 1 || names[0] != "clients.saved" {
		t.Fatalf("expected clients.saved event, got %v", names)
	}
}
