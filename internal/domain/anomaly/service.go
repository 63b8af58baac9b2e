package anomaly

import "context"

// Service defines the interface for anomaly queries
type Service interface {
	// GetByID retrieves an anomaly by ID
	GetByID(ctx context.Context, id int64) (*Anomaly, error)

	// List retrieves anomalies with filters and pagination
	List(ctx context.Context, filter Filter, limit, offset int) ([]*Anomaly, int64, error)

	// GetSummary gets anomaly counts by severity for a run
	GetSummary(ctx context.Context, runID string) (map[string]int, error)
}
