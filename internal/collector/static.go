package collector

import (
	"context"
	"encoding/json"
	"os"
	"sort"
	"time"

	"github.com/egresswatch/egresswatch/internal/domain/timeseries"
	"github.com/egresswatch/egresswatch/internal/pkg/errors"
	"github.com/egresswatch/egresswatch/internal/pkg/logger"
	"github.com/egresswatch/egresswatch/internal/pkg/validator"
)

// StaticCollector reads samples from a JSON file. It backs demo
// environments and lets the pipeline run without cloud credentials.
type StaticCollector struct {
	path     string
	log      *logger.Logger
	validate *validator.Validator
}

// NewStaticCollector creates a file-backed collector
func NewStaticCollector(path string, log *logger.Logger) *StaticCollector {
	return &StaticCollector{path: path, log: log, validate: validator.New()}
}

func (c *StaticCollector) Name() string { return "static" }

type staticSample struct {
	ResourceID string    `json:"resource_id" validate:"required"`
	MetricKey  string    `json:"metric_key" validate:"required"`
	Timestamp  time.Time `json:"timestamp" validate:"required"`
	Value      float64   `json:"value" validate:"gte=0"`
	Unit       string    `json:"unit" validate:"required"`
}

type staticFile struct {
	Regions map[string]string `json:"regions"`
	Samples []staticSample    `json:"samples"`
}

// Collect loads the file and groups samples into series. Malformed
// samples and samples outside the window are dropped; out-of-order
// duplicates within a series are skipped with a warning rather than
// failing the whole file.
func (c *StaticCollector) Collect(ctx context.Context, window Window) (*Batch, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		return nil, errors.ConfigurationError("failed to read static sample file", err)
	}

	var file staticFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, errors.ConfigurationError("failed to parse static sample file", err)
	}

	grouped := map[timeseries.Key][]timeseries.MetricSample{}
	for i, raw := range file.Samples {
		if verrs := c.validate.Validate(raw); len(verrs) > 0 {
			c.log.WithFields(map[string]interface{}{
				"index":  i,
				"reason": verrs[0].Message,
			}).Warnf("skipping invalid sample")
			continue
		}
		s := timeseries.MetricSample{
			ResourceID: raw.ResourceID,
			MetricKey:  raw.MetricKey,
			Timestamp:  raw.Timestamp,
			Value:      raw.Value,
			Unit:       raw.Unit,
		}
		if s.Timestamp.Before(window.Start) || s.Timestamp.After(window.End) {
			continue
		}
		key := timeseries.Key{ResourceID: s.ResourceID, MetricKey: s.MetricKey}
		grouped[key] = append(grouped[key], s)
	}

	batch := NewBatch()
	for key, samples := range grouped {
		sort.Slice(samples, func(i, j int) bool {
			return samples[i].Timestamp.Before(samples[j].Timestamp)
		})
		ts := timeseries.New(key.ResourceID, key.MetricKey, samples[0].Unit)
		for _, s := range samples {
			if err := ts.Append(s.Timestamp, s.Value); err != nil {
				c.log.WithFields(map[string]interface{}{
					"series": key.String(),
				}).Warnf("skipping duplicate sample at %s", s.Timestamp)
			}
		}
		batch.Series[key] = ts
	}
	for resource, region := range file.Regions {
		batch.Regions[resource] = region
	}
	return batch, nil
}
