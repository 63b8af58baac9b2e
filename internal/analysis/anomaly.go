package analysis

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/egresswatch/egresswatch/internal/config"
	"github.com/egresswatch/egresswatch/internal/domain/anomaly"
	"github.com/egresswatch/egresswatch/internal/domain/timeseries"
	"github.com/egresswatch/egresswatch/internal/pkg/logger"
)

// madScale converts a MAD deviation into a modified z-score. Equivalent
// to dividing by 1.4826 * MAD.
const madScale = 0.6745

// candidate is a single flagged sample from one detection method
type candidate struct {
	index     int
	baseline  float64
	score     float64
	threshold float64
	method    string
}

// detectMethod produces candidate anomalies from a series. The three
// algorithms are method values behind this one shape, so new detectors
// slot in without touching the merge logic.
type detectMethod struct {
	name   string
	minLen int
	run    func(ts *timeseries.TimeSeries) []candidate
}

// AnomalyDetector runs independent statistical detectors over a series,
// classifies severity uniformly, and deduplicates overlapping hits.
type AnomalyDetector struct {
	cfg     config.AnalysisConfig
	log     *logger.Logger
	methods []detectMethod
}

// NewAnomalyDetector creates a detector with the z-score, MAD, and
// moving-average methods.
func NewAnomalyDetector(cfg config.AnalysisConfig, log *logger.Logger) *AnomalyDetector {
	d := &AnomalyDetector{cfg: cfg, log: log}
	d.methods = []detectMethod{
		{name: anomaly.MethodZScore, minLen: cfg.MinSeriesLength, run: d.zscore},
		{name: anomaly.MethodMAD, minLen: cfg.MinSeriesLength, run: d.mad},
		{name: anomaly.MethodMovingAverage, minLen: cfg.MinSeriesLength, run: d.movingAverage},
	}
	return d
}

// Detect returns anomalies in chronological order. A series shorter
// than a method's minimum silently skips that method; the remaining
// methods still contribute.
func (d *AnomalyDetector) Detect(ts *timeseries.TimeSeries) []*anomaly.Anomaly {
	var all []candidate
	for _, m := range d.methods {
		if ts.Len() < m.minLen {
			continue
		}
		all = append(all, m.run(ts)...)
	}
	return d.merge(ts, all)
}

// zscore flags points far from the global mean in stddev units. Zero
// variance yields no anomalies from this method.
func (d *AnomalyDetector) zscore(ts *timeseries.TimeSeries) []candidate {
	values := ts.Values()
	mean, std := stat.MeanStdDev(values, nil)
	if std == 0 {
		return nil
	}
	var out []candidate
	for i, v := range values {
		score := (v - mean) / std
		if math.Abs(score) > d.cfg.ZScoreThreshold {
			out = append(out, candidate{
				index:     i,
				baseline:  mean,
				score:     score,
				threshold: d.cfg.ZScoreThreshold,
				method:    anomaly.MethodZScore,
			})
		}
	}
	return out
}

// mad flags points by modified z-score over the median absolute
// deviation. Robust against the very outliers being searched for.
func (d *AnomalyDetector) mad(ts *timeseries.TimeSeries) []candidate {
	values := ts.Values()
	med := median(values)
	absDev := make([]float64, len(values))
	for i, v := range values {
		absDev[i] = math.Abs(v - med)
	}
	madValue := median(absDev)
	if madValue == 0 {
		return nil
	}
	var out []candidate
	for i, v := range values {
		score := madScale * (v - med) / madValue
		if math.Abs(score) > d.cfg.MADThreshold {
			out = append(out, candidate{
				index:     i,
				baseline:  med,
				score:     score,
				threshold: d.cfg.MADThreshold,
				method:    anomaly.MethodMAD,
			})
		}
	}
	return out
}

// movingAverage flags points deviating from the trailing-window average,
// normalized by the spread of such deviations across the series. This
// catches local spikes a gradually rising baseline would hide from the
// global statistics.
func (d *AnomalyDetector) movingAverage(ts *timeseries.TimeSeries) []candidate {
	values := ts.Values()
	window := d.cfg.MovingAvgWindow
	if window <= 0 {
		window = len(values) / 10
		if window < 3 {
			window = 3
		}
	}
	if len(values) <= window {
		return nil
	}

	type deviation struct {
		index    int
		baseline float64
		diff     float64
	}
	devs := make([]deviation, 0, len(values)-window)
	diffs := make([]float64, 0, len(values)-window)
	for i := window; i < len(values); i++ {
		avg := stat.Mean(values[i-window:i], nil)
		devs = append(devs, deviation{index: i, baseline: avg, diff: values[i] - avg})
		diffs = append(diffs, values[i]-avg)
	}

	std := stat.StdDev(diffs, nil)
	if std == 0 || math.IsNaN(std) {
		return nil
	}

	var out []candidate
	for _, dev := range devs {
		score := dev.diff / std
		if math.Abs(score) > d.cfg.ZScoreThreshold {
			out = append(out, candidate{
				index:     dev.index,
				baseline:  dev.baseline,
				score:     score,
				threshold: d.cfg.ZScoreThreshold,
				method:    anomaly.MethodMovingAverage,
			})
		}
	}
	return out
}

// merge deduplicates candidates flagged by multiple methods within the
// configured time tolerance. The kept anomaly carries the highest
// severity and records every concurring method.
func (d *AnomalyDetector) merge(ts *timeseries.TimeSeries, candidates []candidate) []*anomaly.Anomaly {
	if len(candidates) == 0 {
		return nil
	}

	sort.Slice(candidates, func(i, j int) bool {
		ti := ts.Samples[candidates[i].index].Timestamp
		tj := ts.Samples[candidates[j].index].Timestamp
		if ti.Equal(tj) {
			return candidates[i].method < candidates[j].method
		}
		return ti.Before(tj)
	})

	var out []*anomaly.Anomaly
	for start := 0; start < len(candidates); {
		end := start + 1
		for end < len(candidates) {
			gap := ts.Samples[candidates[end].index].Timestamp.
				Sub(ts.Samples[candidates[start].index].Timestamp)
			if gap > d.cfg.DedupTolerance {
				break
			}
			end++
		}

		cluster := candidates[start:end]
		best := cluster[0]
		methods := make([]string, 0, len(cluster))
		seen := map[string]bool{}
		for _, c := range cluster {
			if !seen[c.method] {
				seen[c.method] = true
				methods = append(methods, c.method)
			}
			if severityRatio(c) > severityRatio(best) {
				best = c
			}
		}
		sort.Strings(methods)

		sample := ts.Samples[best.index]
		out = append(out, &anomaly.Anomaly{
			ResourceID: ts.ResourceID,
			MetricKey:  ts.MetricKey,
			Timestamp:  sample.Timestamp,
			Observed:   sample.Value,
			Baseline:   best.baseline,
			Score:      best.score,
			Method:     best.method,
			Methods:    methods,
			Severity:   classifySeverity(best.score, best.threshold),
		})

		start = end
	}
	return out
}

func severityRatio(c candidate) float64 {
	return math.Abs(c.score) / c.threshold
}

// classifySeverity maps a deviation score to severity via fixed bands
// relative to the method threshold, so severities are comparable across
// methods. Monotonic in deviation magnitude by construction.
func classifySeverity(score, threshold float64) string {
	ratio := math.Abs(score) / threshold
	switch {
	case ratio > 3:
		return anomaly.SeverityCritical
	case ratio > 2:
		return anomaly.SeverityHigh
	case ratio > 1.2:
		return anomaly.SeverityMedium
	default:
		return anomaly.SeverityLow
	}
}

func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}
