package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// RecommendationService handles recommendation-related API calls
type RecommendationService struct {
	client *Client
}

// RecommendationListOptions contains options for listing recommendations
type RecommendationListOptions struct {
	ListOptions
	RunID    string // filter by run
	Category string // cost, anomaly, optimization, security
	Priority string // critical, high, medium, low
}

// List retrieves consolidated recommendations
func (s *RecommendationService) List(ctx context.Context, opts *RecommendationListOptions) (*Page[Recommendation], error) {
	query := url.Values{}
	if opts != nil {
		if opts.Page > 0 {
			query.Set("page", strconv.Itoa(opts.Page))
		}
		if opts.PageSize > 0 {
			query.Set("page_size", strconv.Itoa(opts.PageSize))
		}
		if opts.RunID != "" {
			query.Set("run_id", opts.RunID)
		}
		if opts.Category != "" {
			query.Set("category", opts.Category)
		}
		if opts.Priority != "" {
			query.Set("priority", opts.Priority)
		}
	}

	path := "/api/v1/recommendations"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}
	return doList[Recommendation](ctx, s.client, path)
}

// Get retrieves a single recommendation by run and recommendation ID
func (s *RecommendationService) Get(ctx context.Context, runID, id string) (*Recommendation, error) {
	var rec Recommendation
	path := fmt.Sprintf("/api/v1/recommendations/%s/%s", url.PathEscape(runID), url.PathEscape(id))
	if err := s.client.doRequest(ctx, http.MethodGet, path, nil, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// Summary returns per-category recommendation counts for a run
func (s *RecommendationService) Summary(ctx context.Context, runID string) (map[string]int, error) {
	query := url.Values{}
	if runID != "" {
		query.Set("run_id", runID)
	}

	path := "/api/v1/recommendations/summary"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var counts map[string]int
	if err := s.client.doRequest(ctx, http.MethodGet, path, nil, &counts); err != nil {
		return nil, err
	}
	return counts, nil
}
