package anomaly

import "context"

// Repository defines the interface for anomaly data access
type Repository interface {
	// Create persists an anomaly record
	Create(ctx context.Context, anomaly *Anomaly) (int64, error)

	// GetByID retrieves an anomaly by ID
	GetByID(ctx context.Context, id int64) (*Anomaly, error)

	// ListWithPagination retrieves anomalies with filters and pagination
	ListWithPagination(ctx context.Context, filter Filter, limit, offset int) ([]*Anomaly, int64, error)

	// CountBySeverity counts anomalies by severity for a run
	CountBySeverity(ctx context.Context, runID string) (map[string]int, error)
}
