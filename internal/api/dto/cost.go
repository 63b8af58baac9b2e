package dto

import "time"

// TierCostDTO represents one billing tier of a cost estimate
type TierCostDTO struct {
	UpperBytes  float64 `json:"upperBytes,omitempty"`
	BytesInTier float64 `json:"bytesInTier"`
	RatePerByte float64 `json:"ratePerByte"`
	Cost        float64 `json:"cost"`
}

// CostEstimateDTO represents a tiered egress cost estimate in API responses
type CostEstimateDTO struct {
	ID               int64         `json:"id"`
	RunID            string        `json:"runId"`
	ResourceID       string        `json:"resourceId"`
	Region           string        `json:"region"`
	Approximate      bool          `json:"approximate"`
	PeriodStart      time.Time     `json:"periodStart"`
	PeriodEnd        time.Time     `json:"periodEnd"`
	TotalBytes       float64       `json:"totalBytes"`
	Breakdown        []TierCostDTO `json:"tierBreakdown"`
	TotalCost        float64       `json:"totalCost"`
	Currency         string        `json:"currency"`
	ProjectedMonthly float64       `json:"projectedMonthly"`
	NearTierBoundary bool          `json:"nearTierBoundary"`
	ThresholdStatus  string        `json:"thresholdStatus"`
}
