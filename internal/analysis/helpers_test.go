package analysis

import (
	"time"

	"github.com/egresswatch/egresswatch/internal/config"
	"github.com/egresswatch/egresswatch/internal/domain/timeseries"
	"github.com/egresswatch/egresswatch/internal/pkg/logger"
)

func testAnalysisConfig() config.AnalysisConfig {
	return config.AnalysisConfig{
		ZScoreThreshold:     3.0,
		MADThreshold:        3.5,
		MinSeriesLength:     5,
		FlatSlopeRatio:      0.01,
		PatternCVThreshold:  0.15,
		TierSpilloverMargin: 0.05,
		MaxPerCategory:      10,
		MaxRecommendations:  25,
		DedupTolerance:      2 * time.Minute,
		Workers:             4,
	}
}

func testPricingConfig() config.PricingConfig {
	return config.PricingConfig{
		DefaultRegion:  "default",
		WarningUSD:     100,
		CriticalUSD:    500,
		ProjectionDays: 30,
	}
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Level: "error", Format: "json"})
}

func makeSeries(resourceID, metricKey string, start time.Time, step time.Duration, values []float64) *timeseries.TimeSeries {
	ts := timeseries.New(resourceID, metricKey, "bytes")
	for i, v := range values {
		if err := ts.Append(start.Add(time.Duration(i)*step), v); err != nil {
			panic(err)
		}
	}
	return ts
}
