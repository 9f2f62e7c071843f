package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/ivenhartford/LCH-sub002/internal/events"
	"github.com/ivenhartford/LCH-sub002/internal/identity/transport"
	"github.com/ivenhartford/LCH-sub002/platform/apperr"
	"github.com/ivenhartford/LCH-sub002/platform/logger"
	"github.com/ivenhartford/LCH-sub002/platform/validator"

	"github.com/google/uuid"
)

type fakeGateway struct {
	profileReq transport.UpdateProfileRequest
	typeReq    transport.CreateAppointmentTypeRequest
	types      []transport.AppointmentTypeResponse
	calls      int
}

func (f *fakeGateway) Profile(ctx context.Context) (transport.ProfileResponse, error) {
	f.calls++
	return transport.ProfileResponse{}, nil
}

func (f *fakeGateway) UpdateProfile(ctx context.Context, req transport.UpdateProfileRequest) (transport.ProfileResponse, error) {
	f.calls++
	f.profileReq = req
	return transport.ProfileResponse{ID: uuid.New()}, nil
}

func (f *fakeGateway) ClinicSettings(ctx context.Context) (transport.ClinicSettingsResponse, error) {
	f.calls++
	return transport.ClinicSettingsResponse{}, nil
}

func (f *fakeGateway) UpdateClinicSettings(ctx context.Context, req transport.UpdateClinicSettingsRequest) (transport.ClinicSettingsResponse, error) {
	f.calls++
	return transport.ClinicSettingsResponse{}, nil
}

func (f *fakeGateway) AppointmentTypes(ctx context.Context) (transport.AppointmentTypesResponse, error) {
	f.calls++
	return transport.AppointmentTypesResponse{AppointmentTypes: f.types}, nil
}

func (f *fakeGateway) CreateAppointmentType(ctx context.Context, req transport.CreateAppointmentTypeRequest) (transport.AppointmentTypeResponse, error) {
	f.calls++
	f.typeReq = req
	return transport.AppointmentTypeResponse{ID: uuid.New(), Name: req.Name, Color: req.Color}, nil
}

func (f *fakeGateway) UpdateAppointmentType(ctx context.Context, id uuid.UUID, req transport.UpdateAppointmentTypeRequest) (transport.AppointmentTypeResponse, error) {
	f.calls++
	return transport.AppointmentTypeResponse{ID: id}, nil
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

func newIdentityService(gw Gateway, bus events.Bus) *Service {
	return New(gw, validator.New(), bus, logger.New("development"))
}

func TestUpdateProfileNormalizesAndPublishes(t *testing.T) {
	gw := &fakeGateway{}
	bus := &recordingBus{}
	svc := newIdentityService(gw, bus)

	name := "  Sam "
	phoneNumber := "(202) 456-1111"
	_, err := svc.UpdateProfile(context.Background(), transport.UpdateProfileRequest{
		FirstName: &name,
		Phone:     &phoneNumber,
	})
	if err != nil {
		t.Fatalf("UpdateProfile returned error: %v", err)
	}
	if *gw.profileReq.FirstName != "Sam" {
		t.Fatalf("expected trimmed name, got %q", *gw.profileReq.FirstName)
	}
	if *gw.profileReq.Phone != "+12024561111" {
		t.Fatalf("expected E.164 phone, got %q", *gw.profileReq.Phone)
	}
	if names := bus.published(); len(names) != 1 || names[0] != "identity.profile_updated" {
		t.Fatalf("expected identity.profile_updated event, got %v", names)
	}
}

func TestUpdateProfileRejectsBadEmail(t *testing.T) {
	gw := &fakeGateway{}
	svc := newIdentityService(gw, nil)

	email := "not-an-email"
	_, err := svc.UpdateProfile(context.Background(), transport.UpdateProfileRequest{Email: &email})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if gw.calls != 0 {
		t.Fatalf("expected no backend call for invalid input, got %d", gw.calls)
	}
}

func TestCreateAppointmentTypeValidatesColor(t *testing.T) {
	gw := &fakeGateway{}
	svc := newIdentityService(gw, nil)

	cases := []struct {
		name  string
		color string
		ok    bool
	}{
		{"six digit hex", "#3B82F6", true},
		{"short form rejected", "#fff", false},
		{"missing hash", "3b82f6", false},
		{"not hex", "#12fg00", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateAppointmentType(context.Background(), transport.CreateAppointmentTypeRequest{
				Name:            "Surgery",
				Color:           tc.color,
				DurationMinutes: 60,
			})
			if tc.ok && err != nil {
				t.Fatalf("expected %q accepted, got %v", tc.color, err)
			}
			if !tc.ok && !apperr.Is(err, apperr.KindValidation) {
				t.Fatalf("expected %q rejected with validation error, got %v", tc.color, err)
			}
		})
	}
}

func TestCreateAppointmentTypeLowercasesColor(t *testing.T) {
	gw := &fakeGateway{}
	svc := newIdentityService(gw, nil)

	_, err := svc.CreateAppointmentType(context.Background(), transport.CreateAppointmentTypeRequest{
		Name:            "Dental",
		Color:           "#3B82F6",
		DurationMinutes: 45,
	})
	if err != nil {
		t.Fatalf("CreateAppointmentType returned error: %v", err)
	}
	if gw.typeReq.Color != "#3b82f6" {
		t.Fatalf("expected lowercased color, got %q", gw.typeReq.Color)
	}
}

func TestDefaultDurationFindsType(t *testing.T) {
	typeID := uuid.New()
	gw := &fakeGateway{types: []transport.AppointmentTypeResponse{
		{ID: uuid.New(), Name: "Checkup", DurationMinutes: 20},
		{ID: typeID, Name: "Surgery", DurationMinutes: 90},
	}}
	svc := newIdentityService(gw, nil)

	d, ok := svc.DefaultDuration(context.Background(), typeID)
	if !ok || d != 90*time.Minute {
		t.Fatalf("DefaultDuration = (%v, %v), want (90m, true)", d, ok)
	}

	if _, ok := svc.DefaultDuration(context.Background(), uuid.New()); ok {
		t.Fatal("expected unknown type to report not found")
	}
}
