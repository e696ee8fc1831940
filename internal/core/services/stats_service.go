package services

import (
	"context"

	"josenian-borrowease/internal/adapters/persistence/repositories"
)

// StatsService produces the dashboard summary counters.
type StatsService struct {
	itemRepo    *repositories.ItemRepository
	requestRepo *repositories.RequestRepository
}

// NewStatsService creates a new stats service
func NewStatsService(itemRepo *repositories.ItemRepository, requestRepo *repositories.RequestRepository) *StatsService {
	return &StatsService{itemRepo: itemRepo, requestRepo: requestRepo}
}

// Summary represents per-status counts for both collections
type Summary struct {
	Items    map[string]int64 `json:"items"`
	Requests map[string]int64 `json:"requests"`
}

// Summary returns item and request counts grouped by status
func (s *StatsService) Summary(ctx context.Context) (*Summary, error) {
	items, err := s.itemRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	requests, err := s.requestRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	return &Summary{Items: items, Requests: requests}, nil
}
