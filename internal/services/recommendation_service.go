package services

import (
	"context"

	"github.com/egresswatch/egresswatch/internal/domain/recommendation"
	"github.com/egresswatch/egresswatch/internal/pkg/logger"
)

// RecommendationService implements recommendation.Service
type RecommendationService struct {
	repo   recommendation.Repository
	logger *logger.Logger
}

// NewRecommendationService creates a new recommendation service
func NewRecommendationService(repo recommendation.Repository, log *logger.Logger) recommendation.Service {
	return &RecommendationService{repo: repo, logger: log}
}

// GetByID retrieves a recommendation by ID within a run
func (s *RecommendationService) GetByID(ctx context.Context, runID, id string) (*recommendation.Recommendation, error) {
	return s.repo.GetByID(ctx, runID, id)
}

// List retrieves recommendations with filters and pagination
func (s *RecommendationService) List(ctx context.Context, filter recommendation.Filter, limit, offset int) ([]*recommendation.Recommendation, int64, error) {
	return s.repo.ListWithPagination(ctx, filter, limit, offset)
}

// GetSummary gets recommendation counts by category for a run
func (s *RecommendationService) GetSummary(ctx context.Context, runID string) (map[string]int, error) {
	return s.repo.CountByCategory(ctx, runID)
}
