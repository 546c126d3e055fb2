package services

import (
	"context"

	"hotel-backoffice/models"
	"hotel-backoffice/repository"
)

type StatsService struct {
	store repository.Store
	opts  Options
}

func NewStatsService(store repository.Store, opts Options) *StatsService {
	return &StatsService{store: store, opts: opts.normalize()}
}

func (s *StatsService) Dashboard(ctx context.Context) (models.DashboardStats, error) {
	ctx, cancel := s.opts.withTimeout(ctx)
	defer cancel()
	stats, err := s.store.DashboardStats(ctx)
	if err != nil {
		return stats, storeErr("load dashboard stats", "stats", err)
	}
	return stats, nil
}
