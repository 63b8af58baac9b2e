package cost

import "context"

// Repository defines the interface for cost estimate data access
type Repository interface {
	// Create persists a cost estimate
	Create(ctx context.Context, estimate *Estimate) (int64, error)

	// GetByID retrieves a cost estimate by ID
	GetByID(ctx context.Context, id int64) (*Estimate, error)

	// ListWithPagination retrieves cost estimates with filters and pagination
	ListWithPagination(ctx context.Context, filter Filter, limit, offset int) ([]*Estimate, int64, error)

	// TotalProjected sums projected monthly cost across a run
	TotalProjected(ctx context.Context, runID string) (float64, error)
}
