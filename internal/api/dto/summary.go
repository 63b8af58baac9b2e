package dto

// SummaryDTO aggregates the outcome of the most recent run
type SummaryDTO struct {
	Run                 *RunDTO        `json:"run,omitempty"`
	TrendsByDirection   map[string]int `json:"trendsByDirection"`
	AnomaliesBySeverity map[string]int `json:"anomaliesBySeverity"`
	RecsByCategory      map[string]int `json:"recommendationsByCategory"`
	TotalProjectedCost  float64        `json:"totalProjectedCost"`
}
