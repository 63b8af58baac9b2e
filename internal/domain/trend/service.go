package trend

import "context"

// Service defines the interface for trend result queries
type Service interface {
	// GetByID retrieves a trend result by ID
	GetByID(ctx context.Context, id int64) (*Result, error)

	// List retrieves trend results with filters and pagination
	List(ctx context.Context, filter Filter, limit, offset int) ([]*Result, int64, error)

	// GetSummary gets trend counts by direction for a run
	GetSummary(ctx context.Context, runID string) (map[string]int, error)
}
