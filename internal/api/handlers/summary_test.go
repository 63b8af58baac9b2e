package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/egresswatch/egresswatch/internal/api/dto"
	"github.com/egresswatch/egresswatch/internal/domain/anomaly"
	"github.com/egresswatch/egresswatch/internal/domain/cost"
	"github.com/egresswatch/egresswatch/internal/domain/recommendation"
	"github.com/egresswatch/egresswatch/internal/domain/trend"
	"github.com/egresswatch/egresswatch/internal/services"
	"github.com/egresswatch/egresswatch/internal/testutil"
)

func newSummaryHandler(
	runs *testutil.MockRunRepository,
	trends *testutil.MockTrendRepository,
	costs *testutil.MockCostRepository,
	anoms *testutil.MockAnomalyRepository,
	recs *testutil.MockRecommendationRepository,
) *SummaryHandler {
	log := testLog()
	return NewSummaryHandler(
		services.NewRunService(runs, nil, log),
		services.NewTrendService(trends, log),
		services.NewCostService(costs, log),
		services.NewAnomalyService(anoms, log),
		services.NewRecommendationService(recs, log),
		log,
	)
}

func TestSummaryHandler_AggregatesLatestRun(t *testing.T) {
	ctx := context.Background()
	runs := testutil.NewMockRunRepository()
	trends := testutil.NewMockTrendRepository()
	costs := testutil.NewMockCostRepository()
	anoms := testutil.NewMockAnomalyRepository()
	recs := testutil.NewMockRecommendationRepository()

	started := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	_ = runs.Create(ctx, seededRun("run-old", started.Add(-time.Hour)))
	_ = runs.Create(ctx, seededRun("run-1", started))

	// Counts from the old run must not leak into the latest summary
	_, _ = trends.Create(ctx, &trend.Result{RunID: "run-old", ResourceID: "vm-9", Direction: trend.DirectionFalling})
	_, _ = trends.Create(ctx, &trend.Result{RunID: "run-1", ResourceID: "vm-1", Direction: trend.DirectionRising})
	_, _ = trends.Create(ctx, &trend.Result{RunID: "run-1", ResourceID: "vm-2", Direction: trend.DirectionRising})
	_, _ = anoms.Create(ctx, &anomaly.Anomaly{RunID: "run-1", ResourceID: "vm-1", Severity: anomaly.SeverityCritical})
	_ = recs.Upsert(ctx, &recommendation.Recommendation{ID: "rec-1", RunID: "run-1", Category: recommendation.CategoryCost})
	_, _ = costs.Create(ctx, &cost.Estimate{RunID: "run-1", ResourceID: "vm-1", ProjectedMonthly: 120.5})
	_, _ = costs.Create(ctx, &cost.Estimate{RunID: "run-1", ResourceID: "vm-2", ProjectedMonthly: 30})

	h := newSummaryHandler(runs, trends, costs, anoms, recs)
	rec := httptest.NewRecorder()
	h.Get(rec, httptest.NewRequest(http.MethodGet, "/api/v1/summary", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("Get status = %d, body %s", rec.Code, rec.Body.String())
	}
	env := decodeEnvelope(t, rec)
	var summary dto.SummaryDTO
	if err := json.Unmarshal(env.Data, &summary); err != nil {
		t.Fatalf("decoding summary: %v", err)
	}

	if summary.Run == nil || summary.Run.ID != "run-1" {
		t.Fatalf("Get summary run = %+v, want run-1", summary.Run)
	}
	if summary.TrendsByDirection[trend.DirectionRising] != 2 {
		t.Errorf("Get rising trends = %d, want 2", summary.TrendsByDirection[trend.DirectionRising])
	}
	if summary.TrendsByDirection[trend.DirectionFalling] != 0 {
		t.Errorf("Get counted the previous run's falling trend")
	}
	if summary.AnomaliesBySeverity[anomaly.SeverityCritical] != 1 {
		t.Errorf("Get critical anomalies = %d, want 1", summary.AnomaliesBySeverity[anomaly.SeverityCritical])
	}
	if summary.RecsByCategory[recommendation.CategoryCost] != 1 {
		t.Errorf("Get cost recommendations = %d, want 1", summary.RecsByCategory[recommendation.CategoryCost])
	}
	if summary.TotalProjectedCost != 150.5 {
		t.Errorf("Get total projected = %v, want 150.5", summary.TotalProjectedCost)
	}
}

func TestSummaryHandler_NoRuns(t *testing.T) {
	h := newSummaryHandler(
		testutil.NewMockRunRepository(),
		testutil.NewMockTrendRepository(),
		testutil.NewMockCostRepository(),
		testutil.NewMockAnomalyRepository(),
		testutil.NewMockRecommendationRepository(),
	)

	rec := httptest.NewRecorder()
	h.Get(rec, httptest.NewRequest(http.MethodGet, "/api/v1/summary", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("Get status = %d, want 200 with an empty summary", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	var summary dto.SummaryDTO
	if err := json.Unmarshal(env.Data, &summary); err != nil {
		t.Fatalf("decoding summary: %v", err)
	}
	if summary.Run != nil {
		t.Errorf("Get run = %+v, want nil before any run exists", summary.Run)
	}
	if len(summary.TrendsByDirection) != 0 {
		t.Errorf("Get trend counts = %v, want empty", summary.TrendsByDirection)
	}
}
