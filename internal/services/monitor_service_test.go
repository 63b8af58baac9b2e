package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/egresswatch/egresswatch/internal/analysis"
	"github.com/egresswatch/egresswatch/internal/collector"
	"github.com/egresswatch/egresswatch/internal/config"
	"github.com/egresswatch/egresswatch/internal/domain/run"
	"github.com/egresswatch/egresswatch/internal/domain/timeseries"
	"github.com/egresswatch/egresswatch/internal/pkg/logger"
	"github.com/egresswatch/egresswatch/internal/testutil"
)

// fakeCollector returns a fixed batch or error
type fakeCollector struct {
	name  string
	batch *collector.Batch
	err   error
}

func (f *fakeCollector) Name() string { return f.name }

func (f *fakeCollector) Collect(ctx context.Context, window collector.Window) (*collector.Batch, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.batch, nil
}

func testServiceConfig() *config.Config {
	return &config.Config{
		Analysis: config.AnalysisConfig{
			ZScoreThreshold:     3.0,
			MADThreshold:        3.5,
			MinSeriesLength:     5,
			FlatSlopeRatio:      0.01,
			PatternCVThreshold:  0.15,
			TierSpilloverMargin: 0.05,
			MaxPerCategory:      10,
			MaxRecommendations:  25,
			DedupTolerance:      2 * time.Minute,
			Workers:             2,
		},
		Pricing: config.PricingConfig{
			DefaultRegion:  "default",
			WarningUSD:     100,
			CriticalUSD:    500,
			ProjectionDays: 30,
		},
		Collector: config.CollectorConfig{WindowDays: 30},
	}
}

type monitorFixture struct {
	svc       *MonitorService
	runs      *testutil.MockRunRepository
	trends    *testutil.MockTrendRepository
	costs     *testutil.MockCostRepository
	anomalies *testutil.MockAnomalyRepository
	recs      *testutil.MockRecommendationRepository
}

func newMonitorFixture(t *testing.T, collectors []collector.Collector) *monitorFixture {
	t.Helper()
	cfg := testServiceConfig()
	log := logger.New(logger.Config{Level: "error", Format: "json"})
	runner, err := analysis.NewRunner(cfg, analysis.DefaultPricingTable(), log)
	if err != nil {
		t.Fatalf("NewRunner() error = %v", err)
	}

	f := &monitorFixture{
		runs:      testutil.NewMockRunRepository(),
		trends:    testutil.NewMockTrendRepository(),
		costs:     testutil.NewMockCostRepository(),
		anomalies: testutil.NewMockAnomalyRepository(),
		recs:      testutil.NewMockRecommendationRepository(),
	}
	f.svc = NewMonitorService(collectors, runner, nil, f.runs, f.trends, f.costs, f.anomalies, f.recs, cfg, log)
	return f
}

// risingBatch builds a batch with one steadily growing daily series
func risingBatch(resourceID string) *collector.Batch {
	batch := collector.NewBatch()
	ts := timeseries.New(resourceID, "network_out_total", "bytes")
	start := time.Now().UTC().AddDate(0, 0, -29)
	for i := 0; i < 30; i++ {
		_ = ts.Append(start.AddDate(0, 0, i), 1e9+float64(i)*0.5e9)
	}
	batch.Series[ts.Key()] = ts
	batch.Regions[resourceID] = "zone1"
	return batch
}

func TestMonitorService_RunOnce(t *testing.T) {
	f := newMonitorFixture(t, []collector.Collector{
		&fakeCollector{name: "static", batch: risingBatch("vm-1")},
	})

	record, err := f.svc.RunOnce(context.Background(), run.TriggerManual)
	if err != nil {
		t.Fatalf("RunOnce() error = %v", err)
	}
	if record.Status != run.StatusCompleted {
		t.Errorf("Status = %q, want %q", record.Status, run.StatusCompleted)
	}
	if record.SeriesTotal != 1 || record.SeriesFailed != 0 {
		t.Errorf("SeriesTotal = %d, SeriesFailed = %d, want 1 and 0", record.SeriesTotal, record.SeriesFailed)
	}
	if record.CompletedAt.IsZero() {
		t.Error("CompletedAt not set")
	}

	stored, err := f.runs.GetByID(context.Background(), record.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if stored.Status != run.StatusCompleted {
		t.Errorf("stored Status = %q, want %q", stored.Status, run.StatusCompleted)
	}
	if len(f.trends.Results) != 1 {
		t.Errorf("persisted %d trend results, want 1", len(f.trends.Results))
	}
	if len(f.costs.Estimates) != 1 {
		t.Errorf("persisted %d cost estimates, want 1", len(f.costs.Estimates))
	}
	if record.RecommendationCount == 0 {
		t.Error("rising series produced no recommendations")
	}
	if record.RecommendationCount != len(f.recs.Recs) {
		t.Errorf("RecommendationCount = %d, persisted %d", record.RecommendationCount, len(f.recs.Recs))
	}
	if record.TotalProjectedCost <= 0 {
		t.Errorf("TotalProjectedCost = %v, want > 0", record.TotalProjectedCost)
	}
}

func TestMonitorService_RunOnce_SkipsFailingCollector(t *testing.T) {
	f := newMonitorFixture(t, []collector.Collector{
		&fakeCollector{name: "azure", err: errors.New("credential expired")},
		&fakeCollector{name: "static", batch: risingBatch("vm-2")},
	})

	record, err := f.svc.RunOnce(context.Background(), run.TriggerScheduled)
	if err != nil {
		t.Fatalf("RunOnce() error = %v", err)
	}
	if record.Status != run.StatusCompleted {
		t.Errorf("Status = %q, want %q", record.Status, run.StatusCompleted)
	}
	if record.SeriesTotal != 1 {
		t.Errorf("SeriesTotal = %d, want 1 from the surviving collector", record.SeriesTotal)
	}
}

func TestMonitorService_RunOnce_PersistFailure(t *testing.T) {
	f := newMonitorFixture(t, []collector.Collector{
		&fakeCollector{name: "static", batch: risingBatch("vm-1")},
	})
	f.trends.CreateError = errors.New("disk full")

	record, err := f.svc.RunOnce(context.Background(), run.TriggerManual)
	if err == nil {
		t.Fatal("RunOnce() expected error, got nil")
	}
	if record == nil {
		t.Fatal("RunOnce() returned nil record alongside error")
	}
	if record.Status != run.StatusFailed {
		t.Errorf("Status = %q, want %q", record.Status, run.StatusFailed)
	}
	if record.Error == "" {
		t.Error("Error not recorded on failed run")
	}
	stored, _ := f.runs.GetByID(context.Background(), record.ID)
	if stored.Status != run.StatusFailed {
		t.Errorf("stored Status = %q, want %q", stored.Status, run.StatusFailed)
	}
}

func TestMonitorService_RunOnce_EmptyBatch(t *testing.T) {
	f := newMonitorFixture(t, nil)

	record, err := f.svc.RunOnce(context.Background(), run.TriggerAPI)
	if err != nil {
		t.Fatalf("RunOnce() error = %v", err)
	}
	if record.Status != run.StatusCompleted {
		t.Errorf("Status = %q, want %q", record.Status, run.StatusCompleted)
	}
	if record.SeriesTotal != 0 || record.AnomalyCount != 0 || record.RecommendationCount != 0 {
		t.Errorf("empty batch produced results: %+v", record)
	}
}
