// Package service implements the landing screen: stat cards plus today's
// schedule.
package service

import (
	"context"
	"sort"

	"github.com/ivenhartford/LCH-sub002/internal/dashboard/transport"
	"github.com/ivenhartford/LCH-sub002/platform/logger"
	"github.com/ivenhartford/LCH-sub002/platform/sanitize"
)

// Gateway is the REST surface this service needs.
type Gateway interface {
	Overview(ctx context.Context) (transport.DashboardResponse, error)
}

type Service struct {
	gw  Gateway
	log *logger.Logger
}

func New(gw Gateway, log *logger.Logger) *Service {
	return &Service{gw: gw, log: log}
}

// Overview is the landing view model.
type Overview struct {
	Stats transport.DashboardStats
	Today []transport.TodayAppointment
}

// Overview returns the stat cards and today's schedule sorted by start time,
// with note markup stripped for terminal display.
func (s *Service) Overview(ctx context.Context) (Overview, error) {
	resp, err := s.gw.Overview(ctx)
	if err != nil {
		return Overview{}, err
	}

	sort.Slice(resp.Today, func(i, j int) bool {
		return resp.Today[i].StartTime.Before(resp.Today[j].StartTime)
	})
	for i := range resp.Today {
		resp.Today[i].Notes = sanitize.Text(resp.Today[i].Notes)
	}

	return Overview{Stats: resp.Stats, Today: resp.Today}, nil
}
