package recommendation

import "context"

// Repository defines the interface for recommendation data access
type Repository interface {
	// Upsert persists a recommendation, replacing an existing row with
	// the same deterministic ID and run
	Upsert(ctx context.Context, rec *Recommendation) error

	// GetByID retrieves a recommendation by ID within a run
	GetByID(ctx context.Context, runID, id string) (*Recommendation, error)

	// ListWithPagination retrieves recommendations with filters and pagination
	ListWithPagination(ctx context.Context, filter Filter, limit, offset int) ([]*Recommendation, int64, error)

	// CountByCategory counts recommendations by category for a run
	CountByCategory(ctx context.Context, runID string) (map[string]int, error)
}
