package services

import (
	"context"
	"testing"
	"time"

	"github.com/egresswatch/egresswatch/internal/collector"
	"github.com/egresswatch/egresswatch/internal/domain/run"
	"github.com/egresswatch/egresswatch/internal/pkg/logger"
)

func TestRunService_Trigger(t *testing.T) {
	f := newMonitorFixture(t, []collector.Collector{
		&fakeCollector{name: "static", batch: risingBatch("vm-1")},
	})
	log := logger.New(logger.Config{Level: "error", Format: "json"})
	service := NewRunService(f.runs, f.svc, log)

	record, err := service.Trigger(context.Background(), run.TriggerAPI)
	if err != nil {
		t.Fatalf("Trigger() error = %v", err)
	}
	if record.Trigger != run.TriggerAPI {
		t.Errorf("Trigger = %q, want %q", record.Trigger, run.TriggerAPI)
	}
	if record.Status != run.StatusCompleted {
		t.Errorf("Status = %q, want %q", record.Status, run.StatusCompleted)
	}
}

func TestRunService_ListAndLatest(t *testing.T) {
	f := newMonitorFixture(t, nil)
	log := logger.New(logger.Config{Level: "error", Format: "json"})
	service := NewRunService(f.runs, f.svc, log)
	ctx := context.Background()

	latest, err := service.Latest(ctx)
	if err != nil {
		t.Fatalf("Latest() error = %v", err)
	}
	if latest != nil {
		t.Errorf("Latest() on empty store = %+v, want nil", latest)
	}

	now := time.Now().UTC()
	for i, id := range []string{"run-a", "run-b", "run-c"} {
		f.runs.Create(ctx, &run.Run{
			ID:        id,
			Trigger:   run.TriggerScheduled,
			Status:    run.StatusCompleted,
			StartedAt: now.Add(time.Duration(i) * time.Hour),
		})
	}

	runs, total, err := service.List(ctx, 2, 0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if total != 3 {
		t.Errorf("total = %d, want 3", total)
	}
	if len(runs) != 2 {
		t.Fatalf("len(runs) = %d, want 2", len(runs))
	}
	if runs[0].ID != "run-c" {
		t.Errorf("runs[0].ID = %q, want newest first", runs[0].ID)
	}

	latest, err = service.Latest(ctx)
	if err != nil {
		t.Fatalf("Latest() error = %v", err)
	}
	if latest == nil || latest.ID != "run-c" {
		t.Errorf("Latest() = %+v, want run-c", latest)
	}
}
