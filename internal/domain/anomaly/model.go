package anomaly

import "time"

// Anomaly represents a statistically unusual egress observation
type Anomaly struct {
	ID         int64     `json:"id"`
	RunID      string    `json:"run_id"`
	ResourceID string    `json:"resource_id"`
	MetricKey  string    `json:"metric_key"`
	Timestamp  time.Time `json:"timestamp"`
	Observed   float64   `json:"observed_value"`
	Baseline   float64   `json:"baseline_value"`
	Score      float64   `json:"deviation_score"`
	Method     string    `json:"method"`
	Methods    []string  `json:"methods,omitempty"` // all concurring methods
	Severity   string    `json:"severity"`
	CreatedAt  time.Time `json:"created_at"`
}

// Detection methods
const (
	MethodZScore        = "zscore"
	MethodMAD           = "mad"
	MethodMovingAverage = "moving_average"
)

// Severity levels
const (
	SeverityCritical = "critical"
	SeverityHigh     = "high"
	SeverityMedium   = "medium"
	SeverityLow      = "low"
)

// SeverityRank orders severities for comparison; higher is worse
func SeverityRank(severity string) int {
	switch severity {
	case SeverityCritical:
		return 4
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	default:
		return 0
	}
}

// HasMethod reports whether the named method concurred on this anomaly
func (a *Anomaly) HasMethod(method string) bool {
	for _, m := range a.Methods {
		if m == method {
			return true
		}
	}
	return false
}

// Filter contains anomaly filtering options
type Filter struct {
	RunID      string
	ResourceID string
	Severity   string
	Method     string
}
