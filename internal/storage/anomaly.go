package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/egresswatch/egresswatch/internal/domain/anomaly"
	"github.com/egresswatch/egresswatch/internal/pkg/errors"
	"github.com/egresswatch/egresswatch/internal/pkg/metrics"
)

type AnomalyRepository struct {
	db *sql.DB
}

func NewAnomalyRepository(db *sql.DB) anomaly.Repository {
	return &AnomalyRepository{db: db}
}

func (r *AnomalyRepository) Create(ctx context.Context, a *anomaly.Anomaly) (int64, error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("insert", "anomalies", time.Since(start)) }()

	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	methodsJSON, _ := json.Marshal(a.Methods)

	query := `
		INSERT INTO anomalies (run_id, resource_id, metric_key, observed_at, observed_value,
			baseline_value, deviation_score, method, methods, severity, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	res, err := r.db.ExecContext(ctx, query,
		a.RunID, a.ResourceID, a.MetricKey, a.Timestamp, a.Observed,
		a.Baseline, a.Score, a.Method, string(methodsJSON), a.Severity, a.CreatedAt,
	)
	if err != nil {
		return 0, errors.DatabaseError("Failed to create anomaly", err)
	}
	return res.LastInsertId()
}

const anomalyColumns = `id, run_id, resource_id, metric_key, observed_at, observed_value,
	baseline_value, deviation_score, method, methods, severity, created_at`

func (r *AnomalyRepository) GetByID(ctx context.Context, id int64) (*anomaly.Anomaly, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+anomalyColumns+" FROM anomalies WHERE id = ?", id)
	a, err := scanAnomaly(row)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("Anomaly")
	}
	if err != nil {
		return nil, errors.DatabaseError("Failed to get anomaly", err)
	}
	return a, nil
}

func (r *AnomalyRepository) ListWithPagination(ctx context.Context, filter anomaly.Filter, limit, offset int) ([]*anomaly.Anomaly, int64, error) {
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
	if filter.Severity != "" {
		where = append(where, "severity = ?")
		args = append(args, filter.Severity)
	}
	if filter.Method != "" {
		where = append(where, "method = ?")
		args = append(args, filter.Method)
	}

	whereClause := strings.Join(where, " AND ")

	var total int64
	err := r.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT COUNT(*) FROM anomalies WHERE %s", whereClause), args...).Scan(&total)
	if err != nil {
		return nil, 0, errors.DatabaseError("Failed to count anomalies", err)
	}

	query := fmt.Sprintf(
		"SELECT %s FROM anomalies WHERE %s ORDER BY observed_at DESC LIMIT ? OFFSET ?",
		anomalyColumns, whereClause)

	args = append(args, limit, offset)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, errors.DatabaseError("Failed to list anomalies", err)
	}
	defer rows.Close()

	var anomalies []*anomaly.Anomaly
	for rows.Next() {
		a, err := scanAnomaly(rows)
		if err != nil {
			return nil, 0, errors.DatabaseError("Failed to scan anomaly", err)
		}
		anomalies = append(anomalies, a)
	}
	return anomalies, total, rows.Err()
}

func (r *AnomalyRepository) CountBySeverity(ctx context.Context, runID string) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT severity, COUNT(*) FROM anomalies WHERE run_id = ? GROUP BY severity", runID)
	if err != nil {
		return nil, errors.DatabaseError("Failed to count anomalies by severity", err)
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var severity string
		var count int
		if err := rows.Scan(&severity, &count); err != nil {
			return nil, errors.DatabaseError("Failed to scan anomaly count", err)
		}
		counts[severity] = count
	}
	return counts, rows.Err()
}

func scanAnomaly(row rowScanner) (*anomaly.Anomaly, error) {
	var a anomaly.Anomaly
	var methodsJSON string
	err := row.Scan(
		&a.ID, &a.RunID, &a.ResourceID, &a.MetricKey, &a.Timestamp, &a.Observed,
		&a.Baseline, &a.Score, &a.Method, &methodsJSON, &a.Severity, &a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	json.Unmarshal([]byte(methodsJSON), &a.Methods)
	return &a, nil
}
