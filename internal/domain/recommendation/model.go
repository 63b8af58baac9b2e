package recommendation

import "time"

// Recommendation is one consolidated, deduplicated piece of advice. ID
// is derived deterministically from (category, sorted resources, title)
// so repeated runs over identical inputs produce identical IDs.
type Recommendation struct {
	ID          string    `json:"id"`
	RunID       string    `json:"run_id"`
	Category    string    `json:"category"`
	Priority    string    `json:"priority"`
	Confidence  float64   `json:"confidence"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Resources   []string  `json:"affected_resources"`
	Sources     []string  `json:"source_insight_ids"`
	CreatedAt   time.Time `json:"created_at"`
}

// Categories
const (
	CategoryCost         = "cost"
	CategoryAnomaly      = "anomaly"
	CategoryOptimization = "optimization"
	CategorySecurity     = "security"
)

// Priority levels
const (
	PriorityCritical = "critical"
	PriorityHigh     = "high"
	PriorityMedium   = "medium"
	PriorityLow      = "low"
)

// PriorityRank orders priorities for sorting; higher is more urgent
func PriorityRank(priority string) int {
	switch priority {
	case PriorityCritical:
		return 4
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

// Report is the final output of a consolidation pass. Suppressed counts
// recommendations dropped by the category and overall caps so
// truncation is observable, never a silent loss.
type Report struct {
	RunID           string           `json:"run_id"`
	GeneratedAt     time.Time        `json:"generated_at"`
	Recommendations []Recommendation `json:"recommendations"`
	Suppressed      int              `json:"suppressed"`
}

// Filter contains recommendation filtering options
type Filter struct {
	RunID    string
	Category string
	Priority string
}
