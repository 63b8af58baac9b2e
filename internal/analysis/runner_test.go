package analysis

import (
	"testing"
	"time"

	"github.com/egresswatch/egresswatch/internal/config"
	"github.com/egresswatch/egresswatch/internal/domain/recommendation"
	"github.com/egresswatch/egresswatch/internal/domain/timeseries"
	"github.com/egresswatch/egresswatch/internal/domain/trend"
	"github.com/egresswatch/egresswatch/internal/pkg/errors"
)

func newTestRunner(t *testing.T) *Runner {
	t.Helper()
	cfg := &config.Config{
		Analysis: testAnalysisConfig(),
		Pricing:  testPricingConfig(),
	}
	runner, err := NewRunner(cfg, DefaultPricingTable(), testLogger())
	if err != nil {
		t.Fatalf("NewRunner() error = %v", err)
	}
	return runner
}

func TestRunner_Run(t *testing.T) {
	runner := newTestRunner(t)
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	rising := makeSeries("vm-1", "network_out_total", start, 24*time.Hour,
		rampValues(30, 1e9, 0.5e9))
	steady := makeSeries("vm-2", "bytes_sent", start, 24*time.Hour,
		[]float64{2e8, 2e8, 2e8, 2e8, 2e8, 2e8, 2e8})

	input := Input{
		rising.Key(): rising,
		steady.Key(): steady,
	}
	regions := map[string]string{"vm-1": "zone2", "vm-2": "zone1"}

	result := runner.Run("run-1", input, regions)

	if len(result.Errors) != 0 {
		t.Fatalf("Run() returned errors for healthy series: %v", result.Errors)
	}
	if len(result.Trends) != 2 || len(result.Costs) != 2 {
		t.Fatalf("Run() produced %d trends and %d costs, want 2 each",
			len(result.Trends), len(result.Costs))
	}

	// Outputs are sorted by resource for deterministic persistence
	if result.Trends[0].ResourceID != "vm-1" || result.Trends[1].ResourceID != "vm-2" {
		t.Errorf("Run() trends out of order: %v, %v",
			result.Trends[0].ResourceID, result.Trends[1].ResourceID)
	}
	if result.Trends[0].Direction != trend.DirectionRising {
		t.Errorf("Run() vm-1 direction = %v, want rising", result.Trends[0].Direction)
	}
	if result.Trends[0].RunID != "run-1" {
		t.Errorf("Run() trend run_id = %v, want run-1", result.Trends[0].RunID)
	}

	if result.Report == nil {
		t.Fatal("Run() produced no report")
	}
	var foundCostRec bool
	for _, rec := range result.Report.Recommendations {
		if rec.Category == recommendation.CategoryCost && rec.Resources[0] == "vm-1" {
			foundCostRec = true
		}
	}
	if !foundCostRec {
		t.Errorf("Run() report has no cost recommendation for the rising resource: %+v",
			result.Report.Recommendations)
	}
}

func TestRunner_IsolatesMalformedSeries(t *testing.T) {
	runner := newTestRunner(t)
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	healthy := makeSeries("vm-1", "network_out_total", start, 24*time.Hour,
		rampValues(10, 1e8, 1e7))

	// Hand-built series violating timestamp ordering
	malformed := &timeseries.TimeSeries{
		ResourceID: "vm-2",
		MetricKey:  "network_out_total",
		Samples: []timeseries.MetricSample{
			{ResourceID: "vm-2", MetricKey: "network_out_total", Timestamp: start.Add(time.Hour), Value: 100},
			{ResourceID: "vm-2", MetricKey: "network_out_total", Timestamp: start, Value: 200},
		},
	}

	empty := timeseries.New("vm-3", "network_out_total", "bytes")

	input := Input{
		healthy.Key():   healthy,
		malformed.Key(): malformed,
		empty.Key():     empty,
	}

	result := runner.Run("run-1", input, nil)

	if len(result.Trends) != 1 || result.Trends[0].ResourceID != "vm-1" {
		t.Errorf("Run() healthy series missing from results: %+v", result.Trends)
	}
	if len(result.Errors) != 2 {
		t.Fatalf("Run() recorded %d errors, want 2", len(result.Errors))
	}
	for _, se := range result.Errors {
		if !errors.IsData(se.Err) {
			t.Errorf("Run() error for %v is %v, want a data error", se.Key, se.Err)
		}
	}
	// Errors are sorted by key
	if result.Errors[0].Key.ResourceID != "vm-2" || result.Errors[1].Key.ResourceID != "vm-3" {
		t.Errorf("Run() errors out of order: %v, %v", result.Errors[0].Key, result.Errors[1].Key)
	}
}

func TestRunner_EmptyBatch(t *testing.T) {
	runner := newTestRunner(t)

	result := runner.Run("run-1", Input{}, nil)
	if len(result.Trends) != 0 || len(result.Costs) != 0 || len(result.Anomalies) != 0 || len(result.Errors) != 0 {
		t.Errorf("Run() on an empty batch produced output: %+v", result)
	}
	if result.Report == nil || len(result.Report.Recommendations) != 0 {
		t.Errorf("Run() on an empty batch should yield an empty report, got %+v", result.Report)
	}
}

func TestNewRunner_RejectsInvalidPricing(t *testing.T) {
	cfg := &config.Config{
		Analysis: testAnalysisConfig(),
		Pricing:  testPricingConfig(),
	}
	bad := PricingTable{"us-east": {{RatePerByte: 0.01}}} // no default region

	if _, err := NewRunner(cfg, bad, testLogger()); err == nil {
		t.Error("NewRunner() accepted a pricing table without a default region")
	}
}
