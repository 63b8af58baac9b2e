package services

import (
	"context"

	"github.com/egresswatch/egresswatch/internal/domain/anomaly"
	"github.com/egresswatch/egresswatch/internal/pkg/logger"
)

// AnomalyService implements anomaly.Service
type AnomalyService struct {
	repo   anomaly.Repository
	logger *logger.Logger
}

// NewAnomalyService creates a new anomaly service
func NewAnomalyService(repo anomaly.Repository, log *logger.Logger) anomaly.Service {
	return &AnomalyService{repo: repo, logger: log}
}

// GetByID retrieves an anomaly by ID
func (s *AnomalyService) GetByID(ctx context.Context, id int64) (*anomaly.Anomaly, error) {
	return s.repo.GetByID(ctx, id)
}

// List retrieves anomalies with filters and pagination
func (s *AnomalyService) List(ctx context.Context, filter anomaly.Filter, limit, offset int) ([]*anomaly.Anomaly, int64, error) {
	return s.repo.ListWithPagination(ctx, filter, limit, offset)
}

// GetSummary gets anomaly counts by severity for a run
func (s *AnomalyService) GetSummary(ctx context.Context, runID string) (map[string]int, error) {
	return s.repo.CountBySeverity(ctx, runID)
}
