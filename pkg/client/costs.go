package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// CostService handles cost estimate-related API calls
type CostService struct {
	client *Client
}

// CostListOptions contains options for listing cost estimates
type CostListOptions struct {
	ListOptions
	RunID      string // filter by run
	ResourceID string // filter by resource
	Status     string // ok, warning, critical
}

// List retrieves cost estimates
func (s *CostService) List(ctx context.Context, opts *CostListOptions) (*Page[CostEstimate], error) {
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
		if opts.ResourceID != "" {
			query.Set("resource_id", opts.ResourceID)
		}
		if opts.Status != "" {
			query.Set("status", opts.Status)
		}
	}

	path := "/api/v1/costs"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}
	return doList[CostEstimate](ctx, s.client, path)
}

// Get retrieves a single cost estimate by ID
func (s *CostService) Get(ctx context.Context, id int64) (*CostEstimate, error) {
	var est CostEstimate
	path := fmt.Sprintf("/api/v1/costs/%d", id)
	if err := s.client.doRequest(ctx, http.MethodGet, path, nil, &est); err != nil {
		return nil, err
	}
	return &est, nil
}

// TotalProjected returns the summed projected monthly cost for a run
func (s *CostService) TotalProjected(ctx context.Context, runID string) (float64, error) {
	query := url.Values{}
	if runID != "" {
		query.Set("run_id", runID)
	}

	path := "/api/v1/costs/projected"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var result map[string]float64
	if err := s.client.doRequest(ctx, http.MethodGet, path, nil, &result); err != nil {
		return 0, err
	}
	return result["totalProjectedMonthly"], nil
}
