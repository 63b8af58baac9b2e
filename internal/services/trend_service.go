package services

import (
	"context"

	"github.com/egresswatch/egresswatch/internal/domain/trend"
	"github.com/egresswatch/egresswatch/internal/pkg/logger"
)

// TrendService implements trend.Service
type TrendService struct {
	repo   trend.Repository
	logger *logger.Logger
}

// NewTrendService creates a new trend service
func NewTrendService(repo trend.Repository, log *logger.Logger) trend.Service {
	return &TrendService{repo: repo, logger: log}
}

// GetByID retrieves a trend result by ID
func (s *TrendService) GetByID(ctx context.Context, id int64) (*trend.Result, error) {
	return s.repo.GetByID(ctx, id)
}

// List retrieves trend results with filters and pagination
func (s *TrendService) List(ctx context.Context, filter trend.Filter, limit, offset int) ([]*trend.Result, int64, error) {
	return s.repo.ListWithPagination(ctx, filter, limit, offset)
}

// GetSummary gets trend counts by direction for a run
func (s *TrendService) GetSummary(ctx context.Context, runID string) (map[string]int, error) {
	return s.repo.CountByDirection(ctx, runID)
}
