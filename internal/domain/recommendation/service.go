package recommendation

import "context"

// Service defines the interface for recommendation queries
type Service interface {
	// GetByID retrieves a recommendation by ID within a run
	GetByID(ctx context.Context, runID, id string) (*Recommendation, error)

	// List retrieves recommendations with filters and pagination
	List(ctx context.Context, filter Filter, limit, offset int) ([]*Recommendation, int64, error)

	// GetSummary gets recommendation counts by category for a run
	GetSummary(ctx context.Context, runID string) (map[string]int, error)
}
