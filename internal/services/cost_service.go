package services

import (
	"context"

	"github.com/egresswatch/egresswatch/internal/domain/cost"
	"github.com/egresswatch/egresswatch/internal/pkg/logger"
)

// CostService implements cost.Service
type CostService struct {
	repo   cost.Repository
	logger *logger.Logger
}

// NewCostService creates a new cost service
func NewCostService(repo cost.Repository, log *logger.Logger) cost.Service {
	return &CostService{repo: repo, logger: log}
}

// GetByID retrieves a cost estimate by ID
func (s *CostService) GetByID(ctx context.Context, id int64) (*cost.Estimate, error) {
	return s.repo.GetByID(ctx, id)
}

// List retrieves cost estimates with filters and pagination
func (s *CostService) List(ctx context.Context, filter cost.Filter, limit, offset int) ([]*cost.Estimate, int64, error) {
	return s.repo.ListWithPagination(ctx, filter, limit, offset)
}

// GetTotalProjected sums projected monthly cost across a run
func (s *CostService) GetTotalProjected(ctx context.Context, runID string) (float64, error) {
	return s.repo.TotalProjected(ctx, runID)
}
