package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/egresswatch/egresswatch/internal/domain/trend"
	"github.com/egresswatch/egresswatch/internal/pkg/errors"
	"github.com/egresswatch/egresswatch/internal/pkg/metrics"
)

type TrendRepository struct {
	db *sql.DB
}

func NewTrendRepository(db *sql.DB) trend.Repository {
	return &TrendRepository{db: db}
}

func (r *TrendRepository) Create(ctx context.Context, result *trend.Result) (int64, error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("insert", "trend_results", time.Since(start)) }()

	if result.CreatedAt.IsZero() {
		result.CreatedAt = time.Now().UTC()
	}
	patternsJSON, _ := json.Marshal(result.Patterns)
	peakDaysJSON, _ := json.Marshal(result.PeakDays)
	lowDaysJSON, _ := json.Marshal(result.LowDays)
	peakHoursJSON, _ := json.Marshal(result.PeakHours)

	query := `
		INSERT INTO trend_results (run_id, resource_id, metric_key, slope, intercept, r_squared,
			direction, patterns, peak_days, low_days, peak_hours, mean_value, sample_count,
			window_start, window_end, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	res, err := r.db.ExecContext(ctx, query,
		result.RunID, result.ResourceID, result.MetricKey, result.Slope, result.Intercept, result.RSquared,
		result.Direction, string(patternsJSON), string(peakDaysJSON), string(lowDaysJSON), string(peakHoursJSON),
		result.Mean, result.SampleCount, result.WindowStart, result.WindowEnd, result.CreatedAt,
	)
	if err != nil {
		return 0, errors.DatabaseError("Failed to create trend result", err)
	}
	return res.LastInsertId()
}

const trendColumns = `id, run_id, resource_id, metric_key, slope, intercept, r_squared,
	direction, patterns, peak_days, low_days, peak_hours, mean_value, sample_count,
	window_start, window_end, created_at`

func (r *TrendRepository) GetByID(ctx context.Context, id int64) (*trend.Result, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+trendColumns+" FROM trend_results WHERE id = ?", id)
	result, err := scanTrend(row)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("Trend result")
	}
	if err != nil {
		return nil, errors.DatabaseError("Failed to get trend result", err)
	}
	return result, nil
}

func (r *TrendRepository) ListWithPagination(ctx context.Context, filter trend.Filter, limit, offset int) ([]*trend.Result, int64, error) {
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
	if filter.Direction != "" {
		where = append(where, "direction = ?")
		args = append(args, filter.Direction)
	}

	whereClause := strings.Join(where, " AND ")

	var total int64
	err := r.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT COUNT(*) FROM trend_results WHERE %s", whereClause), args...).Scan(&total)
	if err != nil {
		return nil, 0, errors.DatabaseError("Failed to count trend results", err)
	}

	query := fmt.Sprintf(
		"SELECT %s FROM trend_results WHERE %s ORDER BY id DESC LIMIT ? OFFSET ?",
		trendColumns, whereClause)

	args = append(args, limit, offset)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, errors.DatabaseError("Failed to list trend results", err)
	}
	defer rows.Close()

	var results []*trend.Result
	for rows.Next() {
		result, err := scanTrend(rows)
		if err != nil {
			return nil, 0, errors.DatabaseError("Failed to scan trend result", err)
		}
		results = append(results, result)
	}
	return results, total, rows.Err()
}

func (r *TrendRepository) CountByDirection(ctx context.Context, runID string) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT direction, COUNT(*) FROM trend_results WHERE run_id = ? GROUP BY direction", runID)
	if err != nil {
		return nil, errors.DatabaseError("Failed to count trends by direction", err)
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var direction string
		var count int
		if err := rows.Scan(&direction, &count); err != nil {
			return nil, errors.DatabaseError("Failed to scan trend count", err)
		}
		counts[direction] = count
	}
	return counts, rows.Err()
}

func scanTrend(row rowScanner) (*trend.Result, error) {
	var result trend.Result
	var patternsJSON, peakDaysJSON, lowDaysJSON, peakHoursJSON string
	err := row.Scan(
		&result.ID, &result.RunID, &result.ResourceID, &result.MetricKey,
		&result.Slope, &result.Intercept, &result.RSquared, &result.Direction,
		&patternsJSON, &peakDaysJSON, &lowDaysJSON, &peakHoursJSON,
		&result.Mean, &result.SampleCount, &result.WindowStart, &result.WindowEnd, &result.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	json.Unmarshal([]byte(patternsJSON), &result.Patterns)
	json.Unmarshal([]byte(peakDaysJSON), &result.PeakDays)
	json.Unmarshal([]byte(lowDaysJSON), &result.LowDays)
	json.Unmarshal([]byte(peakHoursJSON), &result.PeakHours)
	return &result, nil
}
