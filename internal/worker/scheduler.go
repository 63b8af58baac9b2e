package worker

import (
	"context"

	"github.com/robfig/cron/v3"

	"github.com/egresswatch/egresswatch/internal/config"
	"github.com/egresswatch/egresswatch/internal/domain/run"
	"github.com/egresswatch/egresswatch/internal/pkg/logger"
	"github.com/egresswatch/egresswatch/internal/services"
)

// Scheduler triggers analysis runs on a cron schedule. Overlapping runs
// are skipped rather than queued.
type Scheduler struct {
	monitor *services.MonitorService
	cfg     config.SchedulerConfig
	cron    *cron.Cron
	logger  *logger.Logger

	running chan struct{}
}

// NewScheduler creates a scheduler worker
func NewScheduler(monitor *services.MonitorService, cfg config.SchedulerConfig, log *logger.Logger) *Scheduler {
	return &Scheduler{
		monitor: monitor,
		cfg:     cfg,
		cron:    cron.New(),
		logger:  log,
		running: make(chan struct{}, 1),
	}
}

// Start registers the schedule and begins firing runs until ctx is done
func (s *Scheduler) Start(ctx context.Context) error {
	if !s.cfg.Enabled {
		s.logger.Info("Scheduler disabled, skipping")
		return nil
	}

	_, err := s.cron.AddFunc(s.cfg.CronSpec, func() {
		s.runOnce(ctx)
	})
	if err != nil {
		return err
	}

	s.logger.WithFields(map[string]interface{}{
		"schedule": s.cfg.CronSpec,
	}).Info("Starting scheduler worker")
	s.cron.Start()

	go func() {
		<-ctx.Done()
		stopCtx := s.cron.Stop()
		<-stopCtx.Done()
		s.logger.Info("Scheduler worker stopped")
	}()

	return nil
}

func (s *Scheduler) runOnce(ctx context.Context) {
	select {
	case s.running <- struct{}{}:
		defer func() { <-s.running }()
	default:
		s.logger.Warn("Previous scheduled run still in progress, skipping")
		return
	}

	record, err := s.monitor.RunOnce(ctx, run.TriggerScheduled)
	if err != nil {
		s.logger.ErrorWithErr(err, "Scheduled run failed")
		return
	}
	s.logger.WithFields(map[string]interface{}{
		"run_id":          record.ID,
		"anomalies":       record.AnomalyCount,
		"recommendations": record.RecommendationCount,
	}).Info("Scheduled run completed")
}
