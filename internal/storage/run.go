package storage

import (
	"context"
	"database/sql"
	"time"

	"github.com/egresswatch/egresswatch/internal/domain/run"
	"github.com/egresswatch/egresswatch/internal/pkg/errors"
	"github.com/egresswatch/egresswatch/internal/pkg/metrics"
)

type RunRepository struct {
	db *sql.DB
}

func NewRunRepository(db *sql.DB) run.Repository {
	return &RunRepository{db: db}
}

func (r *RunRepository) Create(ctx context.Context, rn *run.Run) error {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("insert", "runs", time.Since(start)) }()

	query := `
		INSERT INTO runs (id, trigger_kind, status, window_start, window_end, started_at,
			series_total, series_failed, anomaly_count, recommendation_count, suppressed,
			total_projected_cost, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		rn.ID, rn.Trigger, rn.Status, rn.WindowStart, rn.WindowEnd, rn.StartedAt,
		rn.SeriesTotal, rn.SeriesFailed, rn.AnomalyCount, rn.RecommendationCount, rn.Suppressed,
		rn.TotalProjectedCost, rn.Error,
	)
	if err != nil {
		return errors.DatabaseError("Failed to create run", err)
	}
	return nil
}

func (r *RunRepository) Update(ctx context.Context, rn *run.Run) error {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("update", "runs", time.Since(start)) }()

	query := `
		UPDATE runs SET status = ?, completed_at = ?, series_total = ?, series_failed = ?,
			anomaly_count = ?, recommendation_count = ?, suppressed = ?,
			total_projected_cost = ?, error = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		rn.Status, nullableTime(rn.CompletedAt), rn.SeriesTotal, rn.SeriesFailed,
		rn.AnomalyCount, rn.RecommendationCount, rn.Suppressed,
		rn.TotalProjectedCost, rn.Error, rn.ID,
	)
	if err != nil {
		return errors.DatabaseError("Failed to update run", err)
	}

	rows, err := result.RowsAffected()
	if err != nil || rows == 0 {
		return errors.NotFound("Run")
	}
	return nil
}

const runColumns = `id, trigger_kind, status, window_start, window_end, started_at, completed_at,
	series_total, series_failed, anomaly_count, recommendation_count, suppressed,
	total_projected_cost, error`

func (r *RunRepository) GetByID(ctx context.Context, id string) (*run.Run, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+runColumns+" FROM runs WHERE id = ?", id)
	rn, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("Run")
	}
	if err != nil {
		return nil, errors.DatabaseError("Failed to get run", err)
	}
	return rn, nil
}

func (r *RunRepository) ListWithPagination(ctx context.Context, limit, offset int) ([]*run.Run, int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM runs").Scan(&total); err != nil {
		return nil, 0, errors.DatabaseError("Failed to count runs", err)
	}

	rows, err := r.db.QueryContext(ctx,
		"SELECT "+runColumns+" FROM runs ORDER BY started_at DESC LIMIT ? OFFSET ?", limit, offset)
	if err != nil {
		return nil, 0, errors.DatabaseError("Failed to list runs", err)
	}
	defer rows.Close()

	var runs []*run.Run
	for rows.Next() {
		rn, err := scanRun(rows)
		if err != nil {
			return nil, 0, errors.DatabaseError("Failed to scan run", err)
		}
		runs = append(runs, rn)
	}
	return runs, total, rows.Err()
}

func (r *RunRepository) Latest(ctx context.Context) (*run.Run, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+runColumns+" FROM runs ORDER BY started_at DESC LIMIT 1")
	rn, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.DatabaseError("Failed to get latest run", err)
	}
	return rn, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(row rowScanner) (*run.Run, error) {
	var rn run.Run
	var completed sql.NullTime
	err := row.Scan(
		&rn.ID, &rn.Trigger, &rn.Status, &rn.WindowStart, &rn.WindowEnd, &rn.StartedAt, &completed,
		&rn.SeriesTotal, &rn.SeriesFailed, &rn.AnomalyCount, &rn.RecommendationCount, &rn.Suppressed,
		&rn.TotalProjectedCost, &rn.Error,
	)
	if err != nil {
		return nil, err
	}
	if completed.Valid {
		rn.CompletedAt = completed.Time
	}
	return &rn, nil
}

func nullableTime(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return t
}
