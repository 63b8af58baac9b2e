package trend

import "time"

// Result is the fitted trend for one (resource, metric) series
type Result struct {
	ID          int64     `json:"id"`
	RunID       string    `json:"run_id"`
	ResourceID  string    `json:"resource_id"`
	MetricKey   string    `json:"metric_key"`
	Slope       float64   `json:"slope"` // value units per day
	Intercept   float64   `json:"intercept"`
	RSquared    float64   `json:"r_squared"`
	Direction   string    `json:"direction"`
	Patterns    []string  `json:"patterns,omitempty"`
	PeakDays    []string  `json:"peak_days,omitempty"`
	LowDays     []string  `json:"low_days,omitempty"`
	PeakHours   []int     `json:"peak_hours,omitempty"`
	Mean        float64   `json:"mean"`
	SampleCount int       `json:"sample_count"`
	WindowStart time.Time `json:"window_start"`
	WindowEnd   time.Time `json:"window_end"`
	CreatedAt   time.Time `json:"created_at"`
}

// Directions
const (
	DirectionRising  = "rising"
	DirectionFalling = "falling"
	DirectionFlat    = "flat"
)

// Recurring usage patterns
const (
	PatternWeekly = "weekly"
	PatternHourly = "hourly"
)

// HasPattern reports whether the result carries the named pattern
func (r *Result) HasPattern(p string) bool {
	for _, got := range r.Patterns {
		if got == p {
			return true
		}
	}
	return false
}

// Filter contains trend filtering options
type Filter struct {
	RunID      string
	ResourceID string
	Direction  string
}
