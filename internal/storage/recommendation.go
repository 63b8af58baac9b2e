package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/egresswatch/egresswatch/internal/domain/recommendation"
	"github.com/egresswatch/egresswatch/internal/pkg/errors"
	"github.com/egresswatch/egresswatch/internal/pkg/metrics"
)

type RecommendationRepository struct {
	db *sql.DB
}

func NewRecommendationRepository(db *sql.DB) recommendation.Repository {
	return &RecommendationRepository{db: db}
}

func (r *RecommendationRepository) Upsert(ctx context.Context, rec *recommendation.Recommendation) error {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("upsert", "recommendations", time.Since(start)) }()

	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	resourcesJSON, _ := json.Marshal(rec.Resources)
	sourcesJSON, _ := json.Marshal(rec.Sources)

	query := `
		INSERT INTO recommendations (id, run_id, category, priority, confidence, title,
			description, resources, sources, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id, id) DO UPDATE SET
			priority=excluded.priority,
			confidence=excluded.confidence,
			description=excluded.description,
			resources=excluded.resources,
			sources=excluded.sources
	`

	_, err := r.db.ExecContext(ctx, query,
		rec.ID, rec.RunID, rec.Category, rec.Priority, rec.Confidence, rec.Title,
		rec.Description, string(resourcesJSON), string(sourcesJSON), rec.CreatedAt,
	)
	if err != nil {
		return errors.DatabaseError("Failed to upsert recommendation", err)
	}
	return nil
}

const recommendationColumns = `id, run_id, category, priority, confidence, title,
	description, resources, sources, created_at`

func (r *RecommendationRepository) GetByID(ctx context.Context, runID, id string) (*recommendation.Recommendation, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+recommendationColumns+" FROM recommendations WHERE run_id = ? AND id = ?", runID, id)
	rec, err := scanRecommendation(row)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("Recommendation")
	}
	if err != nil {
		return nil, errors.DatabaseError("Failed to get recommendation", err)
	}
	return rec, nil
}

func (r *RecommendationRepository) ListWithPagination(ctx context.Context, filter recommendation.Filter, limit, offset int) ([]*recommendation.Recommendation, int64, error) {
	where := []string{"1=1"}
	args := []interface{}{}

	if filter.RunID != "" {
		where = append(where, "run_id = ?")
		args = append(args, filter.RunID)
	}
	if filter.Category != "" {
		where = append(where, "category = ?")
		args = append(args, filter.Category)
	}
	if filter.Priority != "" {
		where = append(where, "priority = ?")
		args = append(args, filter.Priority)
	}

	whereClause := strings.Join(where, " AND ")

	var total int64
	err := r.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT COUNT(*) FROM recommendations WHERE %s", whereClause), args...).Scan(&total)
	if err != nil {
		return nil, 0, errors.DatabaseError("Failed to count recommendations", err)
	}

	// Priority ordering is computed in the engine; persisted rows are
	// returned newest first, then by confidence.
	query := fmt.Sprintf(
		"SELECT %s FROM recommendations WHERE %s ORDER BY created_at DESC, confidence DESC LIMIT ? OFFSET ?",
		recommendationColumns, whereClause)

	args = append(args, limit, offset)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, errors.DatabaseError("Failed to list recommendations", err)
	}
	defer rows.Close()

	var recs []*recommendation.Recommendation
	for rows.Next() {
		rec, err := scanRecommendation(rows)
		if err != nil {
			return nil, 0, errors.DatabaseError("Failed to scan recommendation", err)
		}
		recs = append(recs, rec)
	}
	return recs, total, rows.Err()
}

func (r *RecommendationRepository) CountByCategory(ctx context.Context, runID string) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT category, COUNT(*) FROM recommendations WHERE run_id = ? GROUP BY category", runID)
	if err != nil {
		return nil, errors.DatabaseError("Failed to count recommendations by category", err)
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var category string
		var count int
		if err := rows.Scan(&category, &count); err != nil {
			return nil, errors.DatabaseError("Failed to scan recommendation count", err)
		}
		counts[category] = count
	}
	return counts, rows.Err()
}

func scanRecommendation(row rowScanner) (*recommendation.Recommendation, error) {
	var rec recommendation.Recommendation
	var resourcesJSON, sourcesJSON string
	err := row.Scan(
		&rec.ID, &rec.RunID, &rec.Category, &rec.Priority, &rec.Confidence, &rec.Title,
		&rec.Description, &resourcesJSON, &sourcesJSON, &rec.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	json.Unmarshal([]byte(resourcesJSON), &rec.Resources)
	json.Unmarshal([]byte(sourcesJSON), &rec.Sources)
	return &rec, nil
}
