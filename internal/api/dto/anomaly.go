package dto

import "time"

// AnomalyDTO represents a detected egress anomaly in API responses
type AnomalyDTO struct {
	ID         int64     `json:"id"`
	RunID      string    `json:"runId"`
	ResourceID string    `json:"resourceId"`
	MetricKey  string    `json:"metricKey"`
	Timestamp  time.Time `json:"timestamp"`
	Observed   float64   `json:"observedValue"`
	Baseline   float64   `json:"baselineValue"`
	Score      float64   `json:"deviationScore"`
	Method     string    `json:"method"`
	Methods    []string  `json:"methods,omitempty"`
	Severity   string    `json:"severity"`
}
