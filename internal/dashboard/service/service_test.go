package service

import (
	"context"
	"testing"
	"time"

	"github.com/ivenhartford/LCH-sub002/internal/dashboard/transport"
	"github.com/ivenhartford/LCH-sub002/platform/logger"
)

type fakeGateway struct {
	resp transport.DashboardResponse
}

func (f *fakeGateway) Overview(ctx context.Context) (transport.DashboardResponse, error) {
	return f.resp, nil
}

func TestOverviewSortsTodaySchedule(t *testing.T) {
	day := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)
	gw := &fakeGateway{resp: transport.DashboardResponse{
		Stats: transport.DashboardStats{AppointmentsToday: 3},
		Today: []transport.TodayAppointment{
			{Title: "Surgery", StartTime: day.Add(14 * time.Hour), Notes: "<p>fasting since 8pm</p>"},
			{Title: "Checkup", StartTime: day.Add(9 * time.Hour)},
			{Title: "Vaccination", StartTime: day.Add(11 * time.Hour)},
		},
	}}
	svc := New(gw, logger.New("development"))

	overview, err := svc.Overview(context.Background())
	if err != nil {
		t.Fatalf("Overview returned error: %v", err)
	}
	if overview.Stats.AppointmentsToday != 3 {
		t.Fatalf("expected stat cards passed through, got %+v", overview.Stats)
	}

	want := []string{"Checkup", "Vaccination", "Surgery"}
	for i, title := range want {
		if overview.Today[i].Title != title {
			t.Fatalf("expected schedule order %v, got %q at %d", want, overview.Today[i].Title, i)
		}
	}
	if overview.Today[2].Notes != "fasting since 8pm" {
		t.Fatalf("expected stripped notes, got %q", overview.Today[2].Notes)
	}
}
