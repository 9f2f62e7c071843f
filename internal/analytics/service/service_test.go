package service

import (
	"context"
	"testing"

	"github.com/ivenhartford/LCH-sub002/internal/analytics/transport"
	"github.com/ivenhartford/LCH-sub002/platform/apperr"
	"github.com/ivenhartford/LCH-sub002/platform/logger"
)

type fakeGateway struct {
	months int
	resp   transport.AnalyticsResponse
}

func (f *fakeGateway) Report(ctx context.Context, months int) (transport.AnalyticsResponse, error) {
	f.months = months
	return f.resp, nil
}

func newAnalyticsService(gw Gateway) *Service {
	return New(gw, logger.New("development"))
}

func TestReportBuildsChartSeries(t *testing.T) {
	gw := &fakeGateway{resp: transport.AnalyticsResponse{
		Monthly: []transport.MonthlyPoint{
			{Month: "2025-11", RevenueCents: 120000, Appointments: 40},
			{Month: "2025-12", RevenueCents: 180000, Appointments: 55},
			{Month: "2026-01", RevenueCents: 90000, Appointments: 31},
		},
	}}
	svc := newAnalyticsService(gw)

	report, err := svc.Report(context.Background(), 0)
	if err != nil {
		t.Fatalf("Report returned error: %v", err)
	}
	if gw.months != defaultMonths {
		t.Fatalf("expected default window of %d months, got %d", defaultMonths, gw.months)
	}
	if report.Revenue.Max != 180000 {
		t.Fatalf("expected revenue max 180000, got %d", report.Revenue.Max)
	}
	if report.Appointments.Max != 55 {
		t.Fatalf("expected appointment max 55, got %d", report.Appointments.Max)
	}
	if report.Revenue.Labels[0] != "Nov 25" || report.Revenue.Labels[2] != "Jan 26" {
		t.Fatalf("unexpected labels: %v", report.Revenue.Labels)
	}
}

func TestReportRejectsOversizedWindow(t *testing.T) {
	svc := newAnalyticsService(&fakeGateway{})

	_, err := svc.Report(context.Background(), maxMonths+1)
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSpeciesSharesSumToExactly100(t *testing.T) {
	gw := &fakeGateway{resp: transport.AnalyticsResponse{
		SpeciesMix: []transport.SpeciesCount{
			{Species: "Dog", Count: 1},
			{Species: "Cat", Count: 1},
			{Species: "Bird", Count: 1},
		},
	}}
	svc := newAnalyticsService(gw)

	report, err := svc.Report(context.Background(), 6)
	if err != nil {
		t.Fatalf("Report returned error: %v", err)
	}

	sum := 0
	for _, share := range report.SpeciesMix {
		sum += share.Percent
	}
	if sum != 100 {
		t.Fatalf("expected shares to sum to 100, got %d (%v)", sum, report.SpeciesMix)
	}
}

func TestSpeciesSharesOrderedByCount(t *testing.T) {
	gw := &fakeGateway{resp: transport.AnalyticsResponse{
		SpeciesMix: []transport.SpeciesCount{
			{Species: "Rabbit", Count: 5},
			{Species: "Dog", Count: 120},
			{Species: "Cat", Count: 75},
		},
	}}
	svc := newAnalyticsService(gw)

	report, err := svc.Report(context.Background(), 6)
	if err != nil {
		t.Fatalf("Report returned error: %v", err)
	}
	want := []string{"Dog", "Cat", "Rabbit"}
	for i, species := range want {
		if report.SpeciesMix[i].Species != species {
			t.Fatalf("expected order %v, got %+v", want, report.SpeciesMix)
		}
	}
}

func TestEmptySpeciesMix(t *testing.T) {
	svc := newAnalyticsService(&fakeGateway{})

	report, err := svc.Report(context.Background(), 6)
	if err != nil {
		t.Fatalf("Report returned error: %v", err)
	}
	if len(report.SpeciesMix) != 0 {
		t.Fatalf("expected empty mix, got %+v", report.SpeciesMix)
	}
}
