package run

import "time"

// Run records one collect+analyze pass over a window
type Run struct {
	ID                  string    `json:"id"`
	Trigger             string    `json:"trigger"`
	Status              string    `json:"status"`
	WindowStart         time.Time `json:"window_start"`
	WindowEnd           time.Time `json:"window_end"`
	StartedAt           time.Time `json:"started_at"`
	CompletedAt         time.Time `json:"completed_at,omitempty"`
	SeriesTotal         int       `json:"series_total"`
	SeriesFailed        int       `json:"series_failed"`
	AnomalyCount        int       `json:"anomaly_count"`
	RecommendationCount int       `json:"recommendation_count"`
	Suppressed          int       `json:"suppressed"`
	TotalProjectedCost  float64   `json:"total_projected_cost"`
	Error               string    `json:"error,omitempty"`
}

// Triggers
const (
	TriggerManual    = "manual"
	TriggerScheduled = "scheduled"
	TriggerAPI       = "api"
)

// Statuses
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)
