package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/egresswatch/egresswatch/internal/analysis"
	"github.com/egresswatch/egresswatch/internal/collector"
	"github.com/egresswatch/egresswatch/internal/config"
	"github.com/egresswatch/egresswatch/internal/domain/anomaly"
	"github.com/egresswatch/egresswatch/internal/domain/cost"
	"github.com/egresswatch/egresswatch/internal/domain/recommendation"
	"github.com/egresswatch/egresswatch/internal/domain/run"
	"github.com/egresswatch/egresswatch/internal/domain/trend"
	"github.com/egresswatch/egresswatch/internal/integrations"
	"github.com/egresswatch/egresswatch/internal/pkg/logger"
	"github.com/egresswatch/egresswatch/internal/pkg/metrics"
)

// MonitorService drives a full collect-analyze-persist pass. Each pass
// is recorded as a run; per-series failures are counted on the run
// record but never abort it.
type MonitorService struct {
	collectors []collector.Collector
	runner     *analysis.Runner
	explainer  *integrations.Explainer

	runs      run.Repository
	trends    trend.Repository
	costs     cost.Repository
	anomalies anomaly.Repository
	recs      recommendation.Repository

	cfg    *config.Config
	logger *logger.Logger
}

// NewMonitorService creates a monitor service
func NewMonitorService(
	collectors []collector.Collector,
	runner *analysis.Runner,
	explainer *integrations.Explainer,
	runs run.Repository,
	trends trend.Repository,
	costs cost.Repository,
	anomalies anomaly.Repository,
	recs recommendation.Repository,
	cfg *config.Config,
	log *logger.Logger,
) *MonitorService {
	return &MonitorService{
		collectors: collectors,
		runner:     runner,
		explainer:  explainer,
		runs:       runs,
		trends:     trends,
		costs:      costs,
		anomalies:  anomalies,
		recs:       recs,
		cfg:        cfg,
		logger:     log,
	}
}

// RunOnce executes one full pass and returns the completed run record
func (s *MonitorService) RunOnce(ctx context.Context, trigger string) (*run.Run, error) {
	started := time.Now().UTC()
	window := collector.Window{
		Start: started.AddDate(0, 0, -s.cfg.Collector.WindowDays),
		End:   started,
	}

	record := &run.Run{
		ID:          uuid.NewString(),
		Trigger:     trigger,
		Status:      run.StatusRunning,
		WindowStart: window.Start,
		WindowEnd:   window.End,
		StartedAt:   started,
	}
	if err := s.runs.Create(ctx, record); err != nil {
		return nil, err
	}

	s.logger.WithFields(map[string]interface{}{
		"run_id":  record.ID,
		"trigger": trigger,
	}).Info("Starting analysis run")

	batch := collector.Gather(ctx, s.collectors, window, s.logger)
	result := s.runner.Run(record.ID, analysis.Input(batch.Series), batch.Regions)

	if err := s.persist(ctx, result); err != nil {
		record.Status = run.StatusFailed
		record.Error = err.Error()
		record.CompletedAt = time.Now().UTC()
		if uerr := s.runs.Update(ctx, record); uerr != nil {
			s.logger.ErrorWithErr(uerr, "Failed to mark run as failed")
		}
		metrics.RecordRun(trigger, run.StatusFailed, time.Since(started))
		return record, err
	}

	record.Status = run.StatusCompleted
	record.CompletedAt = time.Now().UTC()
	record.SeriesTotal = len(batch.Series)
	record.SeriesFailed = len(result.Errors)
	record.AnomalyCount = len(result.Anomalies)
	record.RecommendationCount = len(result.Report.Recommendations)
	record.Suppressed = result.Report.Suppressed
	for _, est := range result.Costs {
		record.TotalProjectedCost += est.ProjectedMonthly
	}
	if err := s.runs.Update(ctx, record); err != nil {
		return record, err
	}

	metrics.RecordRun(trigger, run.StatusCompleted, time.Since(started))
	metrics.RecordSuppressed(result.Report.Suppressed)
	for range result.Errors {
		metrics.RecordSeriesAnalyzed("failed")
	}
	for range result.Trends {
		metrics.RecordSeriesAnalyzed("ok")
	}

	s.logger.WithFields(map[string]interface{}{
		"run_id":          record.ID,
		"series_total":    record.SeriesTotal,
		"series_failed":   record.SeriesFailed,
		"anomalies":       record.AnomalyCount,
		"recommendations": record.RecommendationCount,
		"suppressed":      record.Suppressed,
	}).Info("Analysis run completed")

	return record, nil
}

func (s *MonitorService) persist(ctx context.Context, result *analysis.Result) error {
	for _, tr := range result.Trends {
		if _, err := s.trends.Create(ctx, tr); err != nil {
			return err
		}
	}
	for _, est := range result.Costs {
		if _, err := s.costs.Create(ctx, est); err != nil {
			return err
		}
		metrics.SetProjectedMonthlyCost(est.ResourceID, est.ProjectedMonthly)
	}
	for _, a := range result.Anomalies {
		if _, err := s.anomalies.Create(ctx, a); err != nil {
			return err
		}
		metrics.RecordAnomaly(a.Method, a.Severity)
	}

	recs := result.Report.Recommendations
	if s.explainer != nil {
		recs = s.explainer.Annotate(ctx, recs)
	}
	for i := range recs {
		if err := s.recs.Upsert(ctx, &recs[i]); err != nil {
			return err
		}
		metrics.RecordRecommendation(recs[i].Category)
	}
	return nil
}
