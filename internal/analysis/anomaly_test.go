package analysis

import (
	"testing"
	"time"

	"github.com/egresswatch/egresswatch/internal/domain/anomaly"
)

func TestAnomalyDetector_ZeroVariance(t *testing.T) {
	detector := NewAnomalyDetector(testAnalysisConfig(), testLogger())
	start := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	values := make([]float64, 12)
	for i := range values {
		values[i] = 42
	}
	ts := makeSeries("vm-1", "network_out_total", start, time.Hour, values)

	got := detector.Detect(ts)
	if len(got) != 0 {
		t.Errorf("Detect() returned %d anomalies for zero-variance series, want 0", len(got))
	}
}

func TestAnomalyDetector_SpikeScenario(t *testing.T) {
	detector := NewAnomalyDetector(testAnalysisConfig(), testLogger())
	start := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	ts := makeSeries("vm-1", "network_out_total", start, time.Hour,
		[]float64{100, 102, 98, 101, 5000, 99})

	got := detector.Detect(ts)
	if len(got) != 1 {
		t.Fatalf("Detect() returned %d anomalies, want exactly 1", len(got))
	}

	a := got[0]
	if !a.Timestamp.Equal(start.Add(4 * time.Hour)) {
		t.Errorf("Detect() anomaly at %v, want the spike timestamp", a.Timestamp)
	}
	if a.Observed != 5000 {
		t.Errorf("Detect() observed = %v, want 5000", a.Observed)
	}
	if a.Severity != anomaly.SeverityCritical {
		t.Errorf("Detect() severity = %v, want critical", a.Severity)
	}
}

func TestAnomalyDetector_ShortSeriesSkipsAllMethods(t *testing.T) {
	detector := NewAnomalyDetector(testAnalysisConfig(), testLogger())
	start := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	ts := makeSeries("vm-1", "network_out_total", start, time.Hour,
		[]float64{100, 100, 9000, 100})

	got := detector.Detect(ts)
	if len(got) != 0 {
		t.Errorf("Detect() returned %d anomalies for a series below the minimum length, want 0", len(got))
	}
}

func TestAnomalyDetector_SkippedMethodDoesNotBlockOthers(t *testing.T) {
	// Forcing a window larger than the series disables the
	// moving-average method; MAD must still flag the spike.
	cfg := testAnalysisConfig()
	cfg.MovingAvgWindow = 10
	detector := NewAnomalyDetector(cfg, testLogger())
	start := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	ts := makeSeries("vm-1", "network_out_total", start, time.Hour,
		[]float64{100, 102, 98, 101, 5000, 99})

	got := detector.Detect(ts)
	if len(got) != 1 {
		t.Fatalf("Detect() returned %d anomalies, want 1", len(got))
	}
	if got[0].HasMethod(anomaly.MethodMovingAverage) {
		t.Errorf("Detect() recorded moving_average on %v, but the method was disabled", got[0].Methods)
	}
	if !got[0].HasMethod(anomaly.MethodMAD) {
		t.Errorf("Detect() methods = %v, want mad to concur", got[0].Methods)
	}
}

func TestAnomalyDetector_DedupKeepsMaxSeverity(t *testing.T) {
	detector := NewAnomalyDetector(testAnalysisConfig(), testLogger())
	start := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	// A long stable series with one huge spike: z-score flags it in the
	// medium band while MAD saturates critical. The merged anomaly must
	// keep critical and record every concurring method.
	base := []float64{99, 101, 98, 102, 100}
	values := make([]float64, 20)
	for i := range values {
		values[i] = base[i%len(base)]
	}
	values[10] = 10000
	ts := makeSeries("vm-1", "network_out_total", start, time.Hour, values)

	got := detector.Detect(ts)
	if len(got) != 1 {
		t.Fatalf("Detect() returned %d anomalies, want 1 after dedup", len(got))
	}

	a := got[0]
	if a.Severity != anomaly.SeverityCritical {
		t.Errorf("Detect() severity = %v, want critical (the max across methods)", a.Severity)
	}
	if !a.HasMethod(anomaly.MethodZScore) || !a.HasMethod(anomaly.MethodMAD) {
		t.Errorf("Detect() methods = %v, want both zscore and mad recorded", a.Methods)
	}
	if a.Method != anomaly.MethodMAD {
		t.Errorf("Detect() method = %v, want mad (the strongest signal)", a.Method)
	}
}

func TestAnomalyDetector_ChronologicalOrder(t *testing.T) {
	detector := NewAnomalyDetector(testAnalysisConfig(), testLogger())
	start := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	base := []float64{99, 101, 98, 102, 100}
	values := make([]float64, 30)
	for i := range values {
		values[i] = base[i%len(base)]
	}
	values[7] = 8000
	values[21] = 9000
	ts := makeSeries("vm-1", "network_out_total", start, time.Hour, values)

	got := detector.Detect(ts)
	if len(got) != 2 {
		t.Fatalf("Detect() returned %d anomalies, want 2", len(got))
	}
	if !got[0].Timestamp.Before(got[1].Timestamp) {
		t.Errorf("Detect() anomalies out of chronological order: %v then %v",
			got[0].Timestamp, got[1].Timestamp)
	}
}

func TestClassifySeverity(t *testing.T) {
	tests := []struct {
		name      string
		score     float64
		threshold float64
		want      string
	}{
		{"just over threshold is low", 3.1, 3.0, anomaly.SeverityLow},
		{"1.5x threshold is medium", 4.5, 3.0, anomaly.SeverityMedium},
		{"2.5x threshold is high", 7.5, 3.0, anomaly.SeverityHigh},
		{"over 3x threshold is critical", 10, 3.0, anomaly.SeverityCritical},
		{"negative deviations classify by magnitude", -10, 3.0, anomaly.SeverityCritical},
		{"bands scale with the method threshold", 4, 3.5, anomaly.SeverityLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifySeverity(tt.score, tt.threshold); got != tt.want {
				t.Errorf("classifySeverity(%v, %v) = %v, want %v", tt.score, tt.threshold, got, tt.want)
			}
		})
	}
}
