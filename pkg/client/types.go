package client

import "time"

// ListOptions contains common pagination options
type ListOptions struct {
	Page     int
	PageSize int
}

// Page wraps a paginated API response
type Page[T any] struct {
	Data       []T   `json:"data"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalItems int64 `json:"total_items"`
	TotalPages int   `json:"total_pages"`
}

// Run represents one collect+analyze pass
type Run struct {
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

// Trend represents a fitted trend for one resource metric
type Trend struct {
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

// TierCost is one billing tier of a cost estimate
type TierCost struct {
	UpperBytes  float64 `json:"upperBytes,omitempty"`
	BytesInTier float64 `json:"bytesInTier"`
	RatePerByte float64 `json:"ratePerByte"`
	Cost        float64 `json:"cost"`
}

// CostEstimate represents a tiered egress cost estimate
type CostEstimate struct {
	ID               int64      `json:"id"`
	RunID            string     `json:"runId"`
	ResourceID       string     `json:"resourceId"`
	Region           string     `json:"region"`
	Approximate      bool       `json:"approximate"`
	PeriodStart      time.Time  `json:"periodStart"`
	PeriodEnd        time.Time  `json:"periodEnd"`
	TotalBytes       float64    `json:"totalBytes"`
	Breakdown        []TierCost `json:"tierBreakdown"`
	TotalCost        float64    `json:"totalCost"`
	Currency         string     `json:"currency"`
	ProjectedMonthly float64    `json:"projectedMonthly"`
	NearTierBoundary bool       `json:"nearTierBoundary"`
	ThresholdStatus  string     `json:"thresholdStatus"`
}

// Anomaly represents a detected egress anomaly
type Anomaly struct {
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

// Recommendation represents a consolidated recommendation
type Recommendation struct {
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

// Summary aggregates the outcome of the most recent run
type Summary struct {
	Run                 *Run           `json:"run,omitempty"`
	TrendsByDirection   map[string]int `json:"trendsByDirection"`
	AnomaliesBySeverity map[string]int `json:"anomaliesBySeverity"`
	RecsByCategory      map[string]int `json:"recommendationsByCategory"`
	TotalProjectedCost  float64        `json:"totalProjectedCost"`
}

// HealthResponse is returned by the health and readiness endpoints
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database,omitempty"`
}
