package dto

import "time"

// RecommendationDTO represents a consolidated recommendation in API responses
type RecommendationDTO struct {
	ID          string    `json:"id"`
	RunID       string    `json:"runId"`
	Category    string    `json:"category"`
	Priority    string    `json:"priority"`
	Confidence  float64   `json:"confidence"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Resources   []string  `json:"affectedResources"`
	Sources     []string  `json:"sourceInsightIds"`
	CreatedAt   time.Time `json:"createdAt"`
}
