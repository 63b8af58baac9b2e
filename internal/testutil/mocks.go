package testutil

import (
	"context"
	"fmt"
	"sort"

	"github.com/egresswatch/egresswatch/internal/domain/anomaly"
	"github.com/egresswatch/egresswatch/internal/domain/cost"
	"github.com/egresswatch/egresswatch/internal/domain/recommendation"
	"github.com/egresswatch/egresswatch/internal/domain/run"
	"github.com/egresswatch/egresswatch/internal/domain/trend"
)

// MockRunRepository is a mock implementation of run.Repository
type MockRunRepository struct {
	Runs        map[string]*run.Run
	Order       []string
	CreateError error
	UpdateError error
	GetError    error
}

func NewMockRunRepository() *MockRunRepository {
	return &MockRunRepository{Runs: make(map[string]*run.Run)}
}

func (m *MockRunRepository) Create(ctx context.Context, r *run.Run) error {
	if m.CreateError != nil {
		return m.CreateError
	}
	m.Runs[r.ID] = r
	m.Order = append(m.Order, r.ID)
	return nil
}

func (m *MockRunRepository) Update(ctx context.Context, r *run.Run) error {
	if m.UpdateError != nil {
		return m.UpdateError
	}
	if _, ok := m.Runs[r.ID]; !ok {
		return fmt.Errorf("run not found")
	}
	m.Runs[r.ID] = r
	return nil
}

func (m *MockRunRepository) GetByID(ctx context.Context, id string) (*run.Run, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	r, ok := m.Runs[id]
	if !ok {
		return nil, fmt.Errorf("run not found")
	}
	return r, nil
}

func (m *MockRunRepository) ListWithPagination(ctx context.Context, limit, offset int) ([]*run.Run, int64, error) {
	var result []*run.Run
	for i := len(m.Order) - 1; i >= 0; i-- {
		result = append(result, m.Runs[m.Order[i]])
	}
	return paginate(result, limit, offset), int64(len(m.Order)), nil
}

func (m *MockRunRepository) Latest(ctx context.Context) (*run.Run, error) {
	if len(m.Order) == 0 {
		return nil, nil
	}
	return m.Runs[m.Order[len(m.Order)-1]], nil
}

// MockTrendRepository is a mock implementation of trend.Repository
type MockTrendRepository struct {
	Results     map[int64]*trend.Result
	NextID      int64
	CreateError error
	GetError    error
}

func NewMockTrendRepository() *MockTrendRepository {
	return &MockTrendRepository{Results: make(map[int64]*trend.Result), NextID: 1}
}

func (m *MockTrendRepository) Create(ctx context.Context, result *trend.Result) (int64, error) {
	if m.CreateError != nil {
		return 0, m.CreateError
	}
	result.ID = m.NextID
	m.NextID++
	m.Results[result.ID] = result
	return result.ID, nil
}

func (m *MockTrendRepository) GetByID(ctx context.Context, id int64) (*trend.Result, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	r, ok := m.Results[id]
	if !ok {
		return nil, fmt.Errorf("trend result not found")
	}
	return r, nil
}

func (m *MockTrendRepository) ListWithPagination(ctx context.Context, filter trend.Filter, limit, offset int) ([]*trend.Result, int64, error) {
	var result []*trend.Result
	for _, r := range m.Results {
		if filter.RunID != "" && r.RunID != filter.RunID {
			continue
		}
		if filter.ResourceID != "" && r.ResourceID != filter.ResourceID {
			continue
		}
		if filter.Direction != "" && r.Direction != filter.Direction {
			continue
		}
		result = append(result, r)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	total := int64(len(result))
	return paginate(result, limit, offset), total, nil
}

func (m *MockTrendRepository) CountByDirection(ctx context.Context, runID string) (map[string]int, error) {
	counts := make(map[string]int)
	for _, r := range m.Results {
		if r.RunID == runID {
			counts[r.Direction]++
		}
	}
	return counts, nil
}

// MockCostRepository is a mock implementation of cost.Repository
type MockCostRepository struct {
	Estimates   map[int64]*cost.Estimate
	NextID      int64
	CreateError error
	GetError    error
}

func NewMockCostRepository() *MockCostRepository {
	return &MockCostRepository{Estimates: make(map[int64]*cost.Estimate), NextID: 1}
}

func (m *MockCostRepository) Create(ctx context.Context, estimate *cost.Estimate) (int64, error) {
	if m.CreateError != nil {
		return 0, m.CreateError
	}
	estimate.ID = m.NextID
	m.NextID++
	m.Estimates[estimate.ID] = estimate
	return estimate.ID, nil
}

func (m *MockCostRepository) GetByID(ctx context.Context, id int64) (*cost.Estimate, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	e, ok := m.Estimates[id]
	if !ok {
		return nil, fmt.Errorf("cost estimate not found")
	}
	return e, nil
}

func (m *MockCostRepository) ListWithPagination(ctx context.Context, filter cost.Filter, limit, offset int) ([]*cost.Estimate, int64, error) {
	var result []*cost.Estimate
	for _, e := range m.Estimates {
		if filter.RunID != "" && e.RunID != filter.RunID {
			continue
		}
		if filter.ResourceID != "" && e.ResourceID != filter.ResourceID {
			continue
		}
		if filter.Status != "" && e.ThresholdStatus != filter.Status {
			continue
		}
		result = append(result, e)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	total := int64(len(result))
	return paginate(result, limit, offset), total, nil
}

func (m *MockCostRepository) TotalProjected(ctx context.Context, runID string) (float64, error) {
	var total float64
	for _, e := range m.Estimates {
		if e.RunID == runID {
			total += e.ProjectedMonthly
		}
	}
	return total, nil
}

// MockAnomalyRepository is a mock implementation of anomaly.Repository
type MockAnomalyRepository struct {
	Anomalies   map[int64]*anomaly.Anomaly
	NextID      int64
	CreateError error
	GetError    error
}

func NewMockAnomalyRepository() *MockAnomalyRepository {
	return &MockAnomalyRepository{Anomalies: make(map[int64]*anomaly.Anomaly), NextID: 1}
}

func (m *MockAnomalyRepository) Create(ctx context.Context, a *anomaly.Anomaly) (int64, error) {
	if m.CreateError != nil {
		return 0, m.CreateError
	}
	a.ID = m.NextID
	m.NextID++
	m.Anomalies[a.ID] = a
	return a.ID, nil
}

func (m *MockAnomalyRepository) GetByID(ctx context.Context, id int64) (*anomaly.Anomaly, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	a, ok := m.Anomalies[id]
	if !ok {
		return nil, fmt.Errorf("anomaly not found")
	}
	return a, nil
}

func (m *MockAnomalyRepository) ListWithPagination(ctx context.Context, filter anomaly.Filter, limit, offset int) ([]*anomaly.Anomaly, int64, error) {
	var result []*anomaly.Anomaly
	for _, a := range m.Anomalies {
		if filter.RunID != "" && a.RunID != filter.RunID {
			continue
		}
		if filter.ResourceID != "" && a.ResourceID != filter.ResourceID {
			continue
		}
		if filter.Severity != "" && a.Severity != filter.Severity {
			continue
		}
		if filter.Method != "" && a.Method != filter.Method {
			continue
		}
		result = append(result, a)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	total := int64(len(result))
	return paginate(result, limit, offset), total, nil
}

func (m *MockAnomalyRepository) CountBySeverity(ctx context.Context, runID string) (map[string]int, error) {
	counts := make(map[string]int)
	for _, a := range m.Anomalies {
		if a.RunID == runID {
			counts[a.Severity]++
		}
	}
	return counts, nil
}

// MockRecommendationRepository is a mock implementation of recommendation.Repository
type MockRecommendationRepository struct {
	Recs        map[string]*recommendation.Recommendation
	Order       []string
	UpsertError error
	GetError    error
}

func NewMockRecommendationRepository() *MockRecommendationRepository {
	return &MockRecommendationRepository{Recs: make(map[string]*recommendation.Recommendation)}
}

func recKey(runID, id string) string {
	return runID + "/" + id
}

func (m *MockRecommendationRepository) Upsert(ctx context.Context, rec *recommendation.Recommendation) error {
	if m.UpsertError != nil {
		return m.UpsertError
	}
	key := recKey(rec.RunID, rec.ID)
	if _, ok := m.Recs[key]; !ok {
		m.Order = append(m.Order, key)
	}
	m.Recs[key] = rec
	return nil
}

func (m *MockRecommendationRepository) GetByID(ctx context.Context, runID, id string) (*recommendation.Recommendation, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	rec, ok := m.Recs[recKey(runID, id)]
	if !ok {
		return nil, fmt.Errorf("recommendation not found")
	}
	return rec, nil
}

func (m *MockRecommendationRepository) ListWithPagination(ctx context.Context, filter recommendation.Filter, limit, offset int) ([]*recommendation.Recommendation, int64, error) {
	var result []*recommendation.Recommendation
	for _, key := range m.Order {
		rec := m.Recs[key]
		if filter.RunID != "" && rec.RunID != filter.RunID {
			continue
		}
		if filter.Category != "" && rec.Category != filter.Category {
			continue
		}
		if filter.Priority != "" && rec.Priority != filter.Priority {
			continue
		}
		result = append(result, rec)
	}
	total := int64(len(result))
	return paginate(result, limit, offset), total, nil
}

func (m *MockRecommendationRepository) CountByCategory(ctx context.Context, runID string) (map[string]int, error) {
	counts := make(map[string]int)
	for _, rec := range m.Recs {
		if rec.RunID == runID {
			counts[rec.Category]++
		}
	}
	return counts, nil
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
