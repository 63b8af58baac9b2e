package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/egresswatch/egresswatch/internal/domain/cost"
	"github.com/egresswatch/egresswatch/internal/pkg/errors"
	"github.com/egresswatch/egresswatch/internal/pkg/metrics"
)

type CostRepository struct {
	db *sql.DB
}

func NewCostRepository(db *sql.DB) cost.Repository {
	return &CostRepository{db: db}
}

func (r *CostRepository) Create(ctx context.Context, estimate *cost.Estimate) (int64, error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("insert", "cost_estimates", time.Since(start)) }()

	if estimate.CreatedAt.IsZero() {
		estimate.CreatedAt = time.Now().UTC()
	}
	breakdownJSON, _ := json.Marshal(estimate.Breakdown)

	query := `
		INSERT INTO cost_estimates (run_id, resource_id, region, approximate, period_start, period_end,
			total_bytes, tier_breakdown, total_cost, currency, projected_monthly,
			near_tier_boundary, threshold_status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	res, err := r.db.ExecContext(ctx, query,
		estimate.RunID, estimate.ResourceID, estimate.Region, boolToInt(estimate.Approximate),
		estimate.PeriodStart, estimate.PeriodEnd, estimate.TotalBytes, string(breakdownJSON),
		estimate.TotalCost, estimate.Currency, estimate.ProjectedMonthly,
		boolToInt(estimate.NearTierBoundary), estimate.ThresholdStatus, estimate.CreatedAt,
	)
	if err != nil {
		return 0, errors.DatabaseError("Failed to create cost estimate", err)
	}
	return res.LastInsertId()
}

const costColumns = `id, run_id, resource_id, region, approximate, period_start, period_end,
	total_bytes, tier_breakdown, total_cost, currency, projected_monthly,
	near_tier_boundary, threshold_status, created_at`

func (r *CostRepository) GetByID(ctx context.Context, id int64) (*cost.Estimate, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+costColumns+" FROM cost_estimates WHERE id = ?", id)
	estimate, err := scanCost(row)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("Cost estimate")
	}
	if err != nil {
		return nil, errors.DatabaseError("Failed to get cost estimate", err)
	}
	return estimate, nil
}

func (r *CostRepository) ListWithPagination(ctx context.Context, filter cost.Filter, limit, offset int) ([]*cost.Estimate, int64, error) {
	where := []string{"1=1"}
	args := []interface{}{}

	if filter.RunID != "" {
		where = append(where, "run_id = ?")
		args = append(args, filter.RunID)
	}
	if filter.ResourceID != "" {
		where = append(where, "resource_id = ?")
		args = append(args, filter.ResourceID)
	}
	if filter.Status != "" {
		where = append(where, "threshold_status = ?")
		args = append(args, filter.Status)
	}

	whereClause := strings.Join(where, " AND ")

	var total int64
	err := r.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT COUNT(*) FROM cost_estimates WHERE %s", whereClause), args...).Scan(&total)
	if err != nil {
		return nil, 0, errors.DatabaseError("Failed to count cost estimates", err)
	}

	query := fmt.Sprintf(
		"SELECT %s FROM cost_estimates WHERE %s ORDER BY id DESC LIMIT ? OFFSET ?",
		costColumns, whereClause)

	args = append(args, limit, offset)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, errors.DatabaseError("Failed to list cost estimates", err)
	}
	defer rows.Close()

	var estimates []*cost.Estimate
	for rows.Next() {
		estimate, err := scanCost(rows)
		if err != nil {
			return nil, 0, errors.DatabaseError("Failed to scan cost estimate", err)
		}
		estimates = append(estimates, estimate)
	}
	return estimates, total, rows.Err()
}

func (r *CostRepository) TotalProjected(ctx context.Context, runID string) (float64, error) {
	var total float64
	err := r.db.QueryRowContext(ctx,
		"SELECT COALESCE(SUM(projected_monthly), 0) FROM cost_estimates WHERE run_id = ?", runID).Scan(&total)
	if err != nil {
		return 0, errors.DatabaseError("Failed to sum projected costs", err)
	}
	return total, nil
}

func scanCost(row rowScanner) (*cost.Estimate, error) {
	var estimate cost.Estimate
	var breakdownJSON string
	var approximate, nearBoundary int
	err := row.Scan(
		&estimate.ID, &estimate.RunID, &estimate.ResourceID, &estimate.Region, &approximate,
		&estimate.PeriodStart, &estimate.PeriodEnd, &estimate.TotalBytes, &breakdownJSON,
		&estimate.TotalCost, &estimate.Currency, &estimate.ProjectedMonthly,
		&nearBoundary, &estimate.ThresholdStatus, &estimate.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	estimate.Approximate = approximate == 1
	estimate.NearTierBoundary = nearBoundary == 1
	json.Unmarshal([]byte(breakdownJSON), &estimate.Breakdown)
	return &estimate, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
