package services

import (
	"context"

	"github.com/egresswatch/egresswatch/internal/domain/run"
	"github.com/egresswatch/egresswatch/internal/pkg/logger"
)

// RunService implements run.Service
type RunService struct {
	repo    run.Repository
	monitor *MonitorService
	logger  *logger.Logger
}

// NewRunService creates a new run service
func NewRunService(repo run.Repository, monitor *MonitorService, log *logger.Logger) run.Service {
	return &RunService{repo: repo, monitor: monitor, logger: log}
}

// Trigger starts a new collect+analyze run
func (s *RunService) Trigger(ctx context.Context, trigger string) (*run.Run, error) {
	record, err := s.monitor.RunOnce(ctx, trigger)
	if err != nil {
		s.logger.ErrorWithErr(err, "Triggered run failed")
		return record, err
	}
	return record, nil
}

// GetByID retrieves a run by ID
func (s *RunService) GetByID(ctx context.Context, id string) (*run.Run, error) {
	return s.repo.GetByID(ctx, id)
}

// List retrieves runs newest first
func (s *RunService) List(ctx context.Context, limit, offset int) ([]*run.Run, int64, error) {
	return s.repo.ListWithPagination(ctx, limit, offset)
}

// Latest returns the most recently started run
func (s *RunService) Latest(ctx context.Context) (*run.Run, error) {
	return s.repo.Latest(ctx)
}
