package timeseries

import (
	"fmt"
	"time"
)

// MetricSample is a single observation of an egress metric. Samples are
// immutable once produced by a collector.
type MetricSample struct {
	ResourceID string    `json:"resource_id"`
	MetricKey  string    `json:"metric_key"`
	Timestamp  time.Time `json:"timestamp"`
	Value      float64   `json:"value"`
	Unit       string    `json:"unit"`
}

// Key identifies a series within a collection batch
type Key struct {
	ResourceID string `json:"resource_id"`
	MetricKey  string `json:"metric_key"`
}

func (k Key) String() string {
	return k.ResourceID + "/" + k.MetricKey
}

// TimeSeries is an ordered sequence of samples sharing a resource and
// metric key. Timestamps are strictly increasing; gaps are permitted and
// no fixed sampling interval is assumed.
type TimeSeries struct {
	ResourceID string         `json:"resource_id"`
	MetricKey  string         `json:"metric_key"`
	Unit       string         `json:"unit"`
	Samples    []MetricSample `json:"samples"`
}

// New creates an empty series for the given resource and metric
func New(resourceID, metricKey, unit string) *TimeSeries {
	return &TimeSeries{
		ResourceID: resourceID,
		MetricKey:  metricKey,
		Unit:       unit,
	}
}

// Key returns the series identity
func (ts *TimeSeries) Key() Key {
	return Key{ResourceID: ts.ResourceID, MetricKey: ts.MetricKey}
}

// Len returns the number of samples
func (ts *TimeSeries) Len() int {
	return len(ts.Samples)
}

// Append adds a sample, enforcing strictly increasing timestamps
func (ts *TimeSeries) Append(t time.Time, value float64) error {
	if n := len(ts.Samples); n > 0 && !ts.Samples[n-1].Timestamp.Before(t) {
		return fmt.Errorf("sample at %s is not after previous sample at %s",
			t.Format(time.RFC3339), ts.Samples[n-1].Timestamp.Format(time.RFC3339))
	}
	ts.Samples = append(ts.Samples, MetricSample{
		ResourceID: ts.ResourceID,
		MetricKey:  ts.MetricKey,
		Timestamp:  t,
		Value:      value,
		Unit:       ts.Unit,
	})
	return nil
}

// Validate checks the ordering invariant: timestamps strictly
// increasing, no duplicates. An empty series is valid; analyzers treat
// it as insufficient data, not as corruption.
func (ts *TimeSeries) Validate() error {
	for i := 1; i < len(ts.Samples); i++ {
		prev, cur := ts.Samples[i-1].Timestamp, ts.Samples[i].Timestamp
		if !prev.Before(cur) {
			return fmt.Errorf("series %s: timestamp %s at index %d does not increase over %s",
				ts.Key(), cur.Format(time.RFC3339), i, prev.Format(time.RFC3339))
		}
	}
	return nil
}

// Values returns the sample values in timestamp order
func (ts *TimeSeries) Values() []float64 {
	out := make([]float64, len(ts.Samples))
	for i, s := range ts.Samples {
		out[i] = s.Value
	}
	return out
}

// Timestamps returns the sample timestamps in order
func (ts *TimeSeries) Timestamps() []time.Time {
	out := make([]time.Time, len(ts.Samples))
	for i, s := range ts.Samples {
		out[i] = s.Timestamp
	}
	return out
}

// Span returns the elapsed time between the first and last sample
func (ts *TimeSeries) Span() time.Duration {
	if len(ts.Samples) < 2 {
		return 0
	}
	return ts.Samples[len(ts.Samples)-1].Timestamp.Sub(ts.Samples[0].Timestamp)
}

// Start returns the first sample timestamp, or the zero time if empty
func (ts *TimeSeries) Start() time.Time {
	if len(ts.Samples) == 0 {
		return time.Time{}
	}
	return ts.Samples[0].Timestamp
}

// End returns the last sample timestamp, or the zero time if empty
func (ts *TimeSeries) End() time.Time {
	if len(ts.Samples) == 0 {
		return time.Time{}
	}
	return ts.Samples[len(ts.Samples)-1].Timestamp
}

// Total returns the sum of all sample values
func (ts *TimeSeries) Total() float64 {
	var sum float64
	for _, s := range ts.Samples {
		sum += s.Value
	}
	return sum
}
