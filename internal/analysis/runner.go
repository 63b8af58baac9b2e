package analysis

import (
	"fmt"
	"sort"
	"sync"

	"github.com/egresswatch/egresswatch/internal/config"
	"github.com/egresswatch/egresswatch/internal/domain/anomaly"
	"github.com/egresswatch/egresswatch/internal/domain/cost"
	"github.com/egresswatch/egresswatch/internal/domain/recommendation"
	"github.com/egresswatch/egresswatch/internal/domain/timeseries"
	"github.com/egresswatch/egresswatch/internal/domain/trend"
	"github.com/egresswatch/egresswatch/internal/pkg/errors"
	"github.com/egresswatch/egresswatch/internal/pkg/logger"
)

// Input is a collected batch of series keyed by (resource, metric)
type Input map[timeseries.Key]*timeseries.TimeSeries

// SeriesError is the explicit per-series failure marker. A malformed
// series never aborts the batch; it surfaces here instead.
type SeriesError struct {
	Key timeseries.Key `json:"key"`
	Err error          `json:"error"`
}

// Result bundles everything one analysis pass produced
type Result struct {
	RunID     string
	Trends    []*trend.Result
	Costs     []*cost.Estimate
	Anomalies []*anomaly.Anomaly
	Report    *recommendation.Report
	Errors    []SeriesError
}

// Runner fans the three analyzers out across independent series and
// joins on the consolidation step. Analyzers are pure functions over
// in-memory series, so per-series work needs no locking.
type Runner struct {
	trends    *TrendAnalyzer
	costs     *CostAnalyzer
	anomalies *AnomalyDetector
	engine    *Engine
	workers   int
	log       *logger.Logger
}

// NewRunner wires the full pipeline from configuration. An invalid
// pricing table fails here, before any run starts.
func NewRunner(cfg *config.Config, table PricingTable, log *logger.Logger) (*Runner, error) {
	costs, err := NewCostAnalyzer(table, cfg.Pricing, cfg.Analysis.TierSpilloverMargin, log)
	if err != nil {
		return nil, err
	}
	workers := cfg.Analysis.Workers
	if workers < 1 {
		workers = 1
	}
	return &Runner{
		trends:    NewTrendAnalyzer(cfg.Analysis, log),
		costs:     costs,
		anomalies: NewAnomalyDetector(cfg.Analysis, log),
		engine:    NewEngine(cfg.Analysis, log).WithOutlook(costs),
		workers:   workers,
		log:       log,
	}, nil
}

// Run analyzes every series in the batch. regions maps resource IDs to
// pricing regions; a missing entry falls back to the default table.
// Per-series failures are isolated: a batch of N series produces
// results for the healthy ones plus an error marker for each failure.
func (r *Runner) Run(runID string, input Input, regions map[string]string) *Result {
	keys := make([]timeseries.Key, 0, len(input))
	for k := range input {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].ResourceID != keys[j].ResourceID {
			return keys[i].ResourceID < keys[j].ResourceID
		}
		return keys[i].MetricKey < keys[j].MetricKey
	})

	result := &Result{RunID: runID}

	var mu sync.Mutex
	var wg sync.WaitGroup
	jobs := make(chan timeseries.Key)

	for i := 0; i < r.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for key := range jobs {
				r.analyzeSeries(runID, key, input[key], regions[key.ResourceID], result, &mu)
			}
		}()
	}

	for _, k := range keys {
		jobs <- k
	}
	close(jobs)
	wg.Wait()

	// Deterministic ordering before the single-threaded consolidation
	sort.Slice(result.Trends, func(i, j int) bool {
		return seriesLess(result.Trends[i].ResourceID, result.Trends[i].MetricKey,
			result.Trends[j].ResourceID, result.Trends[j].MetricKey)
	})
	sort.Slice(result.Costs, func(i, j int) bool {
		return result.Costs[i].ResourceID < result.Costs[j].ResourceID
	})
	sort.Slice(result.Anomalies, func(i, j int) bool {
		a, b := result.Anomalies[i], result.Anomalies[j]
		if a.ResourceID != b.ResourceID {
			return a.ResourceID < b.ResourceID
		}
		return a.Timestamp.Before(b.Timestamp)
	})
	sort.Slice(result.Errors, func(i, j int) bool {
		return seriesLess(result.Errors[i].Key.ResourceID, result.Errors[i].Key.MetricKey,
			result.Errors[j].Key.ResourceID, result.Errors[j].Key.MetricKey)
	})

	result.Report = r.engine.Consolidate(runID, result.Trends, result.Costs, result.Anomalies)
	return result
}

func (r *Runner) analyzeSeries(runID string, key timeseries.Key, ts *timeseries.TimeSeries, region string, result *Result, mu *sync.Mutex) {
	defer func() {
		if rec := recover(); rec != nil {
			r.log.WithFields(map[string]interface{}{
				"series": key.String(),
				"panic":  rec,
			}).Error("analysis panicked for series")
			mu.Lock()
			result.Errors = append(result.Errors, SeriesError{
				Key: key,
				Err: errors.DataError(key.ResourceID, fmt.Sprintf("analysis panic: %v", rec), nil),
			})
			mu.Unlock()
		}
	}()

	if ts == nil || ts.Len() == 0 {
		mu.Lock()
		result.Errors = append(result.Errors, SeriesError{
			Key: key,
			Err: errors.DataError(key.ResourceID, "insufficient data: empty series", nil),
		})
		mu.Unlock()
		return
	}
	if err := ts.Validate(); err != nil {
		mu.Lock()
		result.Errors = append(result.Errors, SeriesError{
			Key: key,
			Err: errors.DataError(key.ResourceID, "malformed series", err),
		})
		mu.Unlock()
		return
	}

	trendResult := r.trends.Analyze(ts)
	trendResult.RunID = runID

	estimate := r.costs.Estimate(ts, region)
	estimate.RunID = runID

	anomalies := r.anomalies.Detect(ts)
	for _, a := range anomalies {
		a.RunID = runID
	}

	mu.Lock()
	result.Trends = append(result.Trends, trendResult)
	result.Costs = append(result.Costs, estimate)
	result.Anomalies = append(result.Anomalies, anomalies...)
	mu.Unlock()
}

func seriesLess(aRes, aMetric, bRes, bMetric string) bool {
	if aRes != bRes {
		return aRes < bRes
	}
	return aMetric < bMetric
}
