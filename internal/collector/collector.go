package collector

import (
	"context"
	"time"

	"github.com/egresswatch/egresswatch/internal/domain/timeseries"
	"github.com/egresswatch/egresswatch/internal/pkg/logger"
	"github.com/egresswatch/egresswatch/internal/pkg/metrics"
)

// Window bounds one collection pass
type Window struct {
	Start time.Time
	End   time.Time
}

// Batch is the output of one collection pass: egress series keyed by
// (resource, metric), plus the pricing region of each resource where the
// provider knows it.
type Batch struct {
	Series  map[timeseries.Key]*timeseries.TimeSeries
	Regions map[string]string
}

// NewBatch creates an empty batch
func NewBatch() *Batch {
	return &Batch{
		Series:  map[timeseries.Key]*timeseries.TimeSeries{},
		Regions: map[string]string{},
	}
}

// Merge folds another batch into this one. Key collisions across
// providers are resolved by keeping the series with more samples.
func (b *Batch) Merge(other *Batch) {
	if other == nil {
		return
	}
	for key, ts := range other.Series {
		if existing, ok := b.Series[key]; ok && existing.Len() >= ts.Len() {
			continue
		}
		b.Series[key] = ts
	}
	for resource, region := range other.Regions {
		b.Regions[resource] = region
	}
}

// Collector fetches egress metric samples from one provider
type Collector interface {
	// Name identifies the provider in logs and metrics
	Name() string

	// Collect fetches egress series for the window
	Collect(ctx context.Context, window Window) (*Batch, error)
}

// Gather runs every collector over the window and merges the results.
// A failing provider is logged and skipped; the others still contribute.
func Gather(ctx context.Context, collectors []Collector, window Window, log *logger.Logger) *Batch {
	combined := NewBatch()
	for _, c := range collectors {
		start := time.Now()
		batch, err := c.Collect(ctx, window)
		if err != nil {
			metrics.RecordCollection(c.Name(), "error", time.Since(start))
			log.WithError(err).Errorf("collection failed for provider %s", c.Name())
			continue
		}
		metrics.RecordCollection(c.Name(), "success", time.Since(start))
		log.WithFields(map[string]interface{}{
			"provider": c.Name(),
			"series":   len(batch.Series),
		}).Info("collection completed")
		combined.Merge(batch)
	}
	return combined
}
