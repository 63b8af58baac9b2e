package dto

import "time"

// RunDTO represents an analysis run in API responses
type RunDTO struct {
	ID                  string    `json:"id"`
	Trigger             string    `json:"trigger"`
	Status              string    `json:"status"`
	WindowStart         time.Time `json:"windowStart"`
	WindowEnd           time.Time `json:"windowEnd"`
	StartedAt           time.Time `json:"startedAt"`
	CompletedAt         time.Time `json:"completedAt,omitempty"`
	SeriesTotal         int       `json:"seriesTotal"`
	SeriesFailed        int       `json:"seriesFailed"`
	AnomalyCount        int       `json:"anomalyCount"`
	RecommendationCount int       `json:"recommendationCount"`
	Suppressed          int       `json:"suppressed"`
	TotalProjectedCost  float64   `json:"totalProjectedCost"`
	Error               string    `json:"error,omitempty"`
}
