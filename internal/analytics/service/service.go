// Package service implements the analytics screen: monthly revenue and
// appointment volume normalized for terminal bar charts, and the species
// mix of the active caseload.
package service

import (
	"context"
	"sort"
	"time"

	"github.com/ivenhartford/LCH-sub002/internal/analytics/transport"
	"github.com/ivenhartford/LCH-sub002/platform/apperr"
	"github.com/ivenhartford/LCH-sub002/platform/logger"
)

const (
	defaultMonths = 6
	maxMonths     = 24

	monthFormat = "2006-01"
	labelFormat = "Jan 06"
)

// Gateway is the REST surface this service needs.
type Gateway interface {
	Report(ctx context.Context, months int) (transport.AnalyticsResponse, error)
}

type Service struct {
	gw  Gateway
	log *logger.Logger
}

func New(gw Gateway, log *logger.Logger) *Service {
	return &Service{gw: gw, log: log}
}

// Series is a bar-chart-ready sequence: one label and value per month, plus
// the max for scaling.
type Series struct {
	Labels []string
	Values []int64
	Max    int64
}

// SpeciesShare is one slice of the species mix.
type SpeciesShare struct {
	Species string
	Count   int
	Percent int
}

// Report is the analytics view model.
type Report struct {
	Revenue      Series
	Appointments Series
	SpeciesMix   []SpeciesShare
}

// Report loads the analytics for the trailing window. A months value of
// zero or less means the default window.
func (s *Service) Report(ctx context.Context, months int) (Report, error) {
	if months <= 0 {
		months = defaultMonths
	}
	if months > maxMonths {
		return Report{}, apperr.Validation("analytics window is limited to two years")
	}

	resp, err := s.gw.Report(ctx, months)
	if err != nil {
		return Report{}, err
	}

	report := Report{
		Revenue:      Series{Labels: make([]string, 0, len(resp.Monthly)), Values: make([]int64, 0, len(resp.Monthly))},
		Appointments: Series{Labels: make([]string, 0, len(resp.Monthly)), Values: make([]int64, 0, len(resp.Monthly))},
		SpeciesMix:   speciesShares(resp.SpeciesMix),
	}
	for _, point := range resp.Monthly {
		label := monthLabel(point.Month)
		report.Revenue.Labels = append(report.Revenue.Labels, label)
		report.Revenue.Values = append(report.Revenue.Values, point.RevenueCents)
		if point.RevenueCents > report.Revenue.Max {
			report.Revenue.Max = point.RevenueCents
		}
		report.Appointments.Labels = append(report.Appointments.Labels, label)
		report.Appointments.Values = append(report.Appointments.Values, int64(point.Appointments))
		if int64(point.Appointments) > report.Appointments.Max {
			report.Appointments.Max = int64(point.Appointments)
		}
	}
	return report, nil
}

func monthLabel(month string) string {
	parsed, err := time.Parse(monthFormat, month)
	if err != nil {
		return month
	}
	return parsed.Format(labelFormat)
}

// speciesShares converts counts to whole percentages that sum to exactly
// 100, assigning the rounding leftovers to the species with the largest
// remainders. Output is ordered by count descending.
func speciesShares(counts []transport.SpeciesCount) []SpeciesShare {
	total := 0
	for _, c := range counts {
		total += c.Count
	}
	if total == 0 {
		return nil
	}

	sorted := append([]transport.SpeciesCount(nil), counts...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Count > sorted[j].Count })

	shares := make([]SpeciesShare, len(sorted))
	remainders := make([]int, len(sorted))
	assigned := 0
	for i, c := range sorted {
		scaled := c.Count * 100
		shares[i] = SpeciesShare{Species: c.Species, Count: c.Count, Percent: scaled / total}
		remainders[i] = scaled % total
		assigned += shares[i].Percent
	}

	for assigned < 100 {
		best := 0
		for i := 1; i < len(remainders); i++ {
			if remainders[i] > remainders[best] {
				best = i
			}
		}
		shares[best].Percent++
		remainders[best] = -1
		assigned++
	}
	return shares
}
