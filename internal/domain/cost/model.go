package cost

import "time"

// TierCost is one band of a progressively billed estimate. UpperBytes
// of zero marks the unbounded final tier.
type TierCost struct {
	UpperBytes  float64 `json:"upper_bytes,omitempty"`
	BytesInTier float64 `json:"bytes_in_tier"`
	RatePerByte float64 `json:"rate_per_byte"`
	Cost        float64 `json:"cost"`
}

// Estimate is the tiered cost of one resource's egress over a period.
// ProjectedMonthly is advisory and always reported alongside the actual
// partial-period total, never in place of it.
type Estimate struct {
	ID               int64      `json:"id"`
	RunID            string     `json:"run_id"`
	ResourceID       string     `json:"resource_id"`
	Region           string     `json:"region"`
	Approximate      bool       `json:"approximate"`
	PeriodStart      time.Time  `json:"period_start"`
	PeriodEnd        time.Time  `json:"period_end"`
	TotalBytes       float64    `json:"total_bytes"`
	Breakdown        []TierCost `json:"tier_breakdown"`
	TotalCost        float64    `json:"total_cost"`
	Currency         string     `json:"currency"`
	ProjectedMonthly float64    `json:"projected_monthly"`
	NearTierBoundary bool       `json:"near_tier_boundary"`
	ThresholdStatus  string     `json:"threshold_status"`
	CreatedAt        time.Time  `json:"created_at"`
}

// Threshold status values
const (
	ThresholdOK       = "ok"
	ThresholdWarning  = "warning"
	ThresholdCritical = "critical"
)

// Filter contains cost estimate filtering options
type Filter struct {
	RunID      string
	ResourceID string
	Status     string
}
