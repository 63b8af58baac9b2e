package run

import "context"

// Service defines the interface for run queries and triggering
type Service interface {
	// Trigger starts a new collect+analyze run and returns its record
	Trigger(ctx context.Context, trigger string) (*Run, error)

	// GetByID retrieves a run by ID
	GetByID(ctx context.Context, id string) (*Run, error)

	// List retrieves runs newest first
	List(ctx context.Context, limit, offset int) ([]*Run, int64, error)

	// Latest returns the most recently started run
	Latest(ctx context.Context) (*Run, error)
}
