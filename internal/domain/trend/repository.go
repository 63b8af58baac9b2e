package trend

import "context"

// Repository defines the interface for trend result data access
type Repository interface {
	// Create persists a trend result
	Create(ctx context.Context, result *Result) (int64, error)

	// GetByID retrieves a trend result by ID
	GetByID(ctx context.Context, id int64) (*Result, error)

	// ListWithPagination retrieves trend results with filters and pagination
	ListWithPagination(ctx context.Context, filter Filter, limit, offset int) ([]*Result, int64, error)

	// CountByDirection counts trend results by direction for a run
	CountByDirection(ctx context.Context, runID string) (map[string]int, error)
}
