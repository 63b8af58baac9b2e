package services

import (
	"context"
	"testing"

	"github.com/egresswatch/egresswatch/internal/domain/recommendation"
	"github.com/egresswatch/egresswatch/internal/pkg/logger"
	"github.com/egresswatch/egresswatch/internal/testutil"
)

func TestRecommendationService_UpsertIsIdempotent(t *testing.T) {
	repo := testutil.NewMockRecommendationRepository()
	log := logger.New(logger.Config{Level: "error", Format: "json"})
	service := NewRecommendationService(repo, log)
	ctx := context.Background()

	rec := &recommendation.Recommendation{
		ID:         "rec-1",
		RunID:      "run-1",
		Category:   recommendation.CategoryCost,
		Priority:   recommendation.PriorityMedium,
		Confidence: 0.8,
		Title:      "Review egress growth for vm-1",
		Resources:  []string{"vm-1"},
	}
	if err := repo.Upsert(ctx, rec); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	updated := *rec
	updated.Confidence = 0.9
	if err := repo.Upsert(ctx, &updated); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	got, err := service.GetByID(ctx, "run-1", "rec-1")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Confidence != 0.9 {
		t.Errorf("Confidence = %v, want 0.9 after upsert", got.Confidence)
	}

	recs, total, err := service.List(ctx, recommendation.Filter{RunID: "run-1"}, 50, 0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(recs) != 1 || total != 1 {
		t.Errorf("List() = %d rows, total %d, want 1 row after repeated upsert", len(recs), total)
	}
}

func TestRecommendationService_GetSummary(t *testing.T) {
	repo := testutil.NewMockRecommendationRepository()
	log := logger.New(logger.Config{Level: "error", Format: "json"})
	service := NewRecommendationService(repo, log)
	ctx := context.Background()

	seed := []*recommendation.Recommendation{
		{ID: "a", RunID: "run-1", Category: recommendation.CategoryCost, Priority: recommendation.PriorityMedium, Title: "t1"},
		{ID: "b", RunID: "run-1", Category: recommendation.CategoryCost, Priority: recommendation.PriorityHigh, Title: "t2"},
		{ID: "c", RunID: "run-1", Category: recommendation.CategorySecurity, Priority: recommendation.PriorityCritical, Title: "t3"},
		{ID: "d", RunID: "run-2", Category: recommendation.CategoryAnomaly, Priority: recommendation.PriorityLow, Title: "t4"},
	}
	for _, r := range seed {
		if err := repo.Upsert(ctx, r); err != nil {
			t.Fatalf("Upsert() error = %v", err)
		}
	}

	summary, err := service.GetSummary(ctx, "run-1")
	if err != nil {
		t.Fatalf("GetSummary() error = %v", err)
	}
	if summary[recommendation.CategoryCost] != 2 || summary[recommendation.CategorySecurity] != 1 {
		t.Errorf("GetSummary() = %v, want 2 cost and 1 security", summary)
	}
	if _, ok := summary[recommendation.CategoryAnomaly]; ok {
		t.Error("GetSummary() leaked a category from another run")
	}
}
