package analysis

import (
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/egresswatch/egresswatch/internal/config"
	"github.com/egresswatch/egresswatch/internal/domain/timeseries"
	"github.com/egresswatch/egresswatch/internal/domain/trend"
	"github.com/egresswatch/egresswatch/internal/pkg/logger"
)

const hoursPerDay = 24

// TrendAnalyzer fits per-resource linear trends and detects recurring
// weekly and hourly usage patterns.
type TrendAnalyzer struct {
	cfg config.AnalysisConfig
	log *logger.Logger
}

// NewTrendAnalyzer creates a trend analyzer
func NewTrendAnalyzer(cfg config.AnalysisConfig, log *logger.Logger) *TrendAnalyzer {
	return &TrendAnalyzer{cfg: cfg, log: log}
}

// Analyze fits an ordinary least-squares regression of value over
// elapsed time. A series with fewer than two points yields a flat
// result with zero r-squared rather than a failure. Regression uses
// actual elapsed time, so non-uniform sampling does not bias the fit.
func (a *TrendAnalyzer) Analyze(ts *timeseries.TimeSeries) *trend.Result {
	result := &trend.Result{
		ResourceID:  ts.ResourceID,
		MetricKey:   ts.MetricKey,
		Direction:   trend.DirectionFlat,
		SampleCount: ts.Len(),
		WindowStart: ts.Start(),
		WindowEnd:   ts.End(),
		CreatedAt:   time.Now().UTC(),
	}

	if ts.Len() < 2 {
		return result
	}

	origin := ts.Samples[0].Timestamp
	xs := make([]float64, ts.Len())
	ys := ts.Values()
	for i, s := range ts.Samples {
		xs[i] = s.Timestamp.Sub(origin).Hours() / hoursPerDay
	}

	intercept, slope := stat.LinearRegression(xs, ys, nil, false)
	r2 := stat.RSquared(xs, ys, nil, intercept, slope)
	if math.IsNaN(r2) || math.IsInf(r2, 0) {
		// Degenerate fit (constant values or zero elapsed spread)
		r2 = 0
	}

	mean := stat.Mean(ys, nil)
	result.Slope = slope
	result.Intercept = intercept
	result.RSquared = r2
	result.Mean = mean

	// Slope below the flatness epsilon is reported as flat so noise is
	// not over-reported as trend.
	eps := a.cfg.FlatSlopeRatio * math.Abs(mean)
	switch {
	case math.Abs(slope) <= eps:
		result.Direction = trend.DirectionFlat
	case slope > 0:
		result.Direction = trend.DirectionRising
	default:
		result.Direction = trend.DirectionFalling
	}

	if detected, peak, low := a.weekdayPattern(ts); detected {
		result.Patterns = append(result.Patterns, trend.PatternWeekly)
		result.PeakDays = peak
		result.LowDays = low
	}
	if detected, peakHours := a.hourlyPattern(ts); detected {
		result.Patterns = append(result.Patterns, trend.PatternHourly)
		result.PeakHours = peakHours
	}

	return result
}

// AnalyzeGroup analyzes a batch of series keyed by resource ID
func (a *TrendAnalyzer) AnalyzeGroup(list []*timeseries.TimeSeries) map[string]*trend.Result {
	out := make(map[string]*trend.Result, len(list))
	for _, ts := range list {
		out[ts.ResourceID] = a.Analyze(ts)
	}
	return out
}

// weekdayPattern buckets samples by day-of-week and claims a weekly
// pattern when per-day means vary materially. Too few populated days or
// too few samples per day means insufficient data, not an error.
func (a *TrendAnalyzer) weekdayPattern(ts *timeseries.TimeSeries) (bool, []string, []string) {
	buckets := map[time.Weekday][]float64{}
	for _, s := range ts.Samples {
		d := s.Timestamp.Weekday()
		buckets[d] = append(buckets[d], s.Value)
	}

	const minDays = 3
	means, ok := bucketMeans(len(buckets), minDays, func(yield func(key int, values []float64)) {
		for d, v := range buckets {
			yield(int(d), v)
		}
	})
	if !ok || !a.variesAcrossBuckets(means) {
		return false, nil, nil
	}

	overall := meanOfMap(means)
	var peak, low []string
	for d := time.Sunday; d <= time.Saturday; d++ {
		m, present := means[int(d)]
		if !present {
			continue
		}
		if m > 1.2*overall {
			peak = append(peak, d.String())
		} else if m < 0.8*overall {
			low = append(low, d.String())
		}
	}
	return true, peak, low
}

// hourlyPattern is the weekday method bucketed by hour-of-day
func (a *TrendAnalyzer) hourlyPattern(ts *timeseries.TimeSeries) (bool, []int) {
	buckets := map[int][]float64{}
	for _, s := range ts.Samples {
		h := s.Timestamp.Hour()
		buckets[h] = append(buckets[h], s.Value)
	}

	const minHours = 6
	means, ok := bucketMeans(len(buckets), minHours, func(yield func(key int, values []float64)) {
		for h, v := range buckets {
			yield(h, v)
		}
	})
	if !ok || !a.variesAcrossBuckets(means) {
		return false, nil
	}

	overall := meanOfMap(means)
	var peak []int
	for h, m := range means {
		if m > 1.2*overall {
			peak = append(peak, h)
		}
	}
	sort.Ints(peak)
	return true, peak
}

const minSamplesPerBucket = 2

func bucketMeans(populated, minBuckets int, each func(yield func(key int, values []float64))) (map[int]float64, bool) {
	if populated < minBuckets {
		return nil, false
	}
	means := map[int]float64{}
	enough := true
	each(func(key int, values []float64) {
		if len(values) < minSamplesPerBucket {
			enough = false
			return
		}
		means[key] = stat.Mean(values, nil)
	})
	if !enough {
		return nil, false
	}
	return means, true
}

// variesAcrossBuckets applies the coefficient-of-variation threshold
func (a *TrendAnalyzer) variesAcrossBuckets(means map[int]float64) bool {
	if len(means) < 2 {
		return false
	}
	vals := make([]float64, 0, len(means))
	for _, m := range means {
		vals = append(vals, m)
	}
	mean, std := stat.MeanStdDev(vals, nil)
	if mean == 0 {
		return false
	}
	return std/math.Abs(mean) > a.cfg.PatternCVThreshold
}

func meanOfMap(means map[int]float64) float64 {
	var sum float64
	for _, m := range means {
		sum += m
	}
	return sum / float64(len(means))
}
