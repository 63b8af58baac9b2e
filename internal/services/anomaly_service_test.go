package services

import (
	"context"
	"testing"
	"time"

	"github.com/egresswatch/egresswatch/internal/domain/anomaly"
	"github.com/egresswatch/egresswatch/internal/pkg/logger"
	"github.com/egresswatch/egresswatch/internal/testutil"
)

func seedAnomalies(t *testing.T, repo *testutil.MockAnomalyRepository) {
	t.Helper()
	ctx := context.Background()
	now := time.Now().UTC()
	rows := []*anomaly.Anomaly{
		{RunID: "run-1", ResourceID: "vm-1", MetricKey: "network_out_total", Timestamp: now, Observed: 900, Baseline: 100, Score: 8, Method: anomaly.MethodZScore, Severity: anomaly.SeverityCritical},
		{RunID: "run-1", ResourceID: "vm-2", MetricKey: "network_out_total", Timestamp: now, Observed: 420, Baseline: 100, Score: 4.2, Method: anomaly.MethodMAD, Severity: anomaly.SeverityMedium},
		{RunID: "run-2", ResourceID: "vm-1", MetricKey: "network_out_total", Timestamp: now, Observed: 380, Baseline: 100, Score: 3.8, Method: anomaly.MethodZScore, Severity: anomaly.SeverityMedium},
	}
	for _, a := range rows {
		if _, err := repo.Create(ctx, a); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}
}

func TestAnomalyService_List(t *testing.T) {
	repo := testutil.NewMockAnomalyRepository()
	log := logger.New(logger.Config{Level: "error", Format: "json"})
	service := NewAnomalyService(repo, log)
	seedAnomalies(t, repo)

	tests := []struct {
		name   string
		filter anomaly.Filter
		want   int
	}{
		{name: "by run", filter: anomaly.Filter{RunID: "run-1"}, want: 2},
		{name: "by resource", filter: anomaly.Filter{ResourceID: "vm-1"}, want: 2},
		{name: "by severity", filter: anomaly.Filter{RunID: "run-1", Severity: anomaly.SeverityCritical}, want: 1},
		{name: "by method", filter: anomaly.Filter{Method: anomaly.MethodMAD}, want: 1},
		{name: "no match", filter: anomaly.Filter{RunID: "run-9"}, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, total, err := service.List(context.Background(), tt.filter, 50, 0)
			if err != nil {
				t.Fatalf("List() error = %v", err)
			}
			if len(got) != tt.want || total != int64(tt.want) {
				t.Errorf("List() = %d rows, total %d, want %d", len(got), total, tt.want)
			}
		})
	}
}

func TestAnomalyService_GetSummary(t *testing.T) {
	repo := testutil.NewMockAnomalyRepository()
	log := logger.New(logger.Config{Level: "error", Format: "json"})
	service := NewAnomalyService(repo, log)
	seedAnomalies(t, repo)

	summary, err := service.GetSummary(context.Background(), "run-1")
	if err != nil {
		t.Fatalf("GetSummary() error = %v", err)
	}
	if summary[anomaly.SeverityCritical] != 1 || summary[anomaly.SeverityMedium] != 1 {
		t.Errorf("GetSummary() = %v, want one critical and one medium", summary)
	}
}
