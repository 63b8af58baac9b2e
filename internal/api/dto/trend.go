package dto

import "time"

// TrendDTO represents a fitted trend in API responses
type TrendDTO struct {
	ID          int64     `json:"id"`
	RunID       string    `json:"runId"`
	ResourceID  string    `json:"resourceId"`
	MetricKey   string    `json:"metricKey"`
	Slope       float64   `json:"slope"`
	Intercept   float64   `json:"intercept"`
	RSquared    float64   `json:"rSquared"`
	Direction   string    `json:"direction"`
	Patterns    []string  `json:"patterns,omitempty"`
	PeakDays    []string  `json:"peakDays,omitempty"`
	LowDays     []string  `json:"lowDays,omitempty"`
	PeakHours   []int     `json:"peakHours,omitempty"`
	Mean        float64   `json:"mean"`
	SampleCount int       `json:"sampleCount"`
	WindowStart time.Time `json:"windowStart"`
	WindowEnd   time.Time `json:"windowEnd"`
}
