package run

import "context"

// Repository defines the interface for run data access
type Repository interface {
	// Create persists a new run record
	Create(ctx context.Context, run *Run) error

	// Update updates a run record
	Update(ctx context.Context, run *Run) error

	// GetByID retrieves a run by ID
	GetByID(ctx context.Context, id string) (*Run, error)

	// ListWithPagination retrieves runs newest first
	ListWithPagination(ctx context.Context, limit, offset int) ([]*Run, int64, error)

	// Latest returns the most recently started run, or nil if none exist
	Latest(ctx context.Context) (*Run, error)
}
