package analysis

import (
	"testing"
	"time"

	"github.com/egresswatch/egresswatch/internal/domain/timeseries"
	"github.com/egresswatch/egresswatch/internal/domain/trend"
)

func TestTrendAnalyzer_Analyze(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	analyzer := NewTrendAnalyzer(testAnalysisConfig(), testLogger())

	tests := []struct {
		name          string
		values        []float64
		step          time.Duration
		wantDirection string
		wantR2Min     float64
		wantR2Max     float64
	}{
		{
			name:          "strictly increasing daily series is rising",
			values:        rampValues(30, 100, 100), // 100, 200, ... 3000
			step:          24 * time.Hour,
			wantDirection: trend.DirectionRising,
			wantR2Min:     0.99,
			wantR2Max:     1.0,
		},
		{
			name:          "strictly decreasing series is falling",
			values:        rampValues(30, 3000, -100),
			step:          24 * time.Hour,
			wantDirection: trend.DirectionFalling,
			wantR2Min:     0.99,
			wantR2Max:     1.0,
		},
		{
			name:          "constant series is flat with zero r-squared",
			values:        []float64{500, 500, 500, 500, 500, 500},
			step:          24 * time.Hour,
			wantDirection: trend.DirectionFlat,
			wantR2Max:     0,
		},
		{
			name:          "slope below flatness epsilon is flat",
			values:        []float64{1000, 1000.5, 999.8, 1000.2, 1001, 1000.1, 1000.6},
			step:          24 * time.Hour,
			wantDirection: trend.DirectionFlat,
			wantR2Max:     1.0,
		},
		{
			name:          "single point is flat",
			values:        []float64{42},
			step:          24 * time.Hour,
			wantDirection: trend.DirectionFlat,
			wantR2Max:     0,
		},
		{
			name:          "empty series is flat",
			values:        nil,
			step:          24 * time.Hour,
			wantDirection: trend.DirectionFlat,
			wantR2Max:     0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := makeSeries("vm-1", "network_out_total", start, tt.step, tt.values)
			got := analyzer.Analyze(ts)

			if got.Direction != tt.wantDirection {
				t.Errorf("Analyze() direction = %v, want %v (slope=%v)", got.Direction, tt.wantDirection, got.Slope)
			}
			if got.RSquared < tt.wantR2Min || got.RSquared > tt.wantR2Max {
				t.Errorf("Analyze() r_squared = %v, want in [%v, %v]", got.RSquared, tt.wantR2Min, tt.wantR2Max)
			}
			if got.SampleCount != len(tt.values) {
				t.Errorf("Analyze() sample_count = %v, want %v", got.SampleCount, len(tt.values))
			}
		})
	}
}

func TestTrendAnalyzer_NonUniformSampling(t *testing.T) {
	analyzer := NewTrendAnalyzer(testAnalysisConfig(), testLogger())
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	// Value grows at exactly 100 per day but samples land at irregular
	// offsets; regression over elapsed time must recover the slope.
	ts := makeSeries("vm-1", "network_out_total", start, 0, nil)
	offsets := []float64{0, 0.5, 2, 3.25, 5, 9, 12.75, 20}
	for _, d := range offsets {
		if err := ts.Append(start.Add(time.Duration(d*24)*time.Hour), 100*d); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}

	got := analyzer.Analyze(ts)
	if got.Direction != trend.DirectionRising {
		t.Errorf("Analyze() direction = %v, want rising", got.Direction)
	}
	if got.Slope < 99 || got.Slope > 101 {
		t.Errorf("Analyze() slope = %v, want ~100 per day", got.Slope)
	}
	if got.RSquared < 0.99 {
		t.Errorf("Analyze() r_squared = %v, want ~1", got.RSquared)
	}
}

func TestTrendAnalyzer_WeeklyPattern(t *testing.T) {
	analyzer := NewTrendAnalyzer(testAnalysisConfig(), testLogger())
	start := time.Date(2026, 1, 5, 12, 0, 0, 0, time.UTC) // a Monday

	// Two weeks of daily samples: weekends carry 10x weekday traffic.
	ts := makeSeries("vm-1", "network_out_total", start, 0, nil)
	for day := 0; day < 14; day++ {
		at := start.Add(time.Duration(day) * 24 * time.Hour)
		value := 100.0
		if wd := at.Weekday(); wd == time.Saturday || wd == time.Sunday {
			value = 1000
		}
		if err := ts.Append(at, value); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}

	got := analyzer.Analyze(ts)
	if !got.HasPattern(trend.PatternWeekly) {
		t.Fatalf("Analyze() patterns = %v, want weekly", got.Patterns)
	}
	if len(got.PeakDays) != 2 {
		t.Errorf("Analyze() peak_days = %v, want the two weekend days", got.PeakDays)
	}
	if len(got.LowDays) != 5 {
		t.Errorf("Analyze() low_days = %v, want the five weekdays", got.LowDays)
	}
	// One sample per day cannot populate hour buckets
	if got.HasPattern(trend.PatternHourly) {
		t.Errorf("Analyze() unexpectedly detected hourly pattern")
	}
}

func TestTrendAnalyzer_HourlyPattern(t *testing.T) {
	analyzer := NewTrendAnalyzer(testAnalysisConfig(), testLogger())
	start := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)

	// Three days of hourly samples: business hours carry the load.
	ts := makeSeries("vm-1", "network_out_total", start, 0, nil)
	for i := 0; i < 72; i++ {
		at := start.Add(time.Duration(i) * time.Hour)
		value := 50.0
		if h := at.Hour(); h >= 9 && h < 17 {
			value = 800
		}
		if err := ts.Append(at, value); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}

	got := analyzer.Analyze(ts)
	if !got.HasPattern(trend.PatternHourly) {
		t.Fatalf("Analyze() patterns = %v, want hourly", got.Patterns)
	}
	if len(got.PeakHours) != 8 {
		t.Errorf("Analyze() peak_hours = %v, want the eight business hours", got.PeakHours)
	}
}

func TestTrendAnalyzer_InsufficientPatternData(t *testing.T) {
	analyzer := NewTrendAnalyzer(testAnalysisConfig(), testLogger())
	start := time.Date(2026, 1, 5, 12, 0, 0, 0, time.UTC)

	// Weekly-step samples populate a single weekday bucket: no pattern
	// claimed, no error
	ts := makeSeries("vm-1", "network_out_total", start, 7*24*time.Hour,
		[]float64{100, 110, 105, 95})

	got := analyzer.Analyze(ts)
	if len(got.Patterns) != 0 {
		t.Errorf("Analyze() patterns = %v, want none for sparse buckets", got.Patterns)
	}
}

func TestTrendAnalyzer_AnalyzeGroup(t *testing.T) {
	analyzer := NewTrendAnalyzer(testAnalysisConfig(), testLogger())
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	s1 := makeSeries("vm-1", "network_out_total", start, 24*time.Hour, rampValues(10, 100, 50))
	s2 := makeSeries("vm-2", "network_out_total", start, 24*time.Hour, []float64{400, 400, 400, 400, 400})

	got := analyzer.AnalyzeGroup([]*timeseries.TimeSeries{s1, s2})
	if len(got) != 2 {
		t.Fatalf("AnalyzeGroup() returned %d results, want 2", len(got))
	}
	if got["vm-1"].Direction != trend.DirectionRising {
		t.Errorf("AnalyzeGroup() vm-1 direction = %v, want rising", got["vm-1"].Direction)
	}
	if got["vm-2"].Direction != trend.DirectionFlat {
		t.Errorf("AnalyzeGroup() vm-2 direction = %v, want flat", got["vm-2"].Direction)
	}
}

func rampValues(n int, start, step float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	return out
}
