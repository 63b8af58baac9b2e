package cost

import "context"

// Service defines the interface for cost estimate queries
type Service interface {
	// GetByID retrieves a cost estimate by ID
	GetByID(ctx context.Context, id int64) (*Estimate, error)

	// List retrieves cost estimates with filters and pagination
	List(ctx context.Context, filter Filter, limit, offset int) ([]*Estimate, int64, error)

	// GetTotalProjected sums projected monthly cost across a run
	GetTotalProjected(ctx context.Context, runID string) (float64, error)
}
