package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// TrendService handles trend-related API calls
type TrendService struct {
	client *Client
}

// TrendListOptions contains options for listing trends
type TrendListOptions struct {
	ListOptions
	RunID      string // filter by run
	ResourceID string // filter by resource
	Direction  string // rising, falling, flat
}

// List retrieves fitted trends
func (s *TrendService) List(ctx context.Context, opts *TrendListOptions) (*Page[Trend], error) {
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
		if opts.Direction != "" {
			query.Set("direction", opts.Direction)
		}
	}

	path := "/api/v1/trends"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}
	return doList[Trend](ctx, s.client, path)
}

// Get retrieves a single trend by ID
func (s *TrendService) Get(ctx context.Context, id int64) (*Trend, error) {
	var trend Trend
	path := fmt.Sprintf("/api/v1/trends/%d", id)
	if err := s.client.doRequest(ctx, http.MethodGet, path, nil, &trend); err != nil {
		return nil, err
	}
	return &trend, nil
}

// Summary returns per-direction trend counts for a run
func (s *TrendService) Summary(ctx context.Context, runID string) (map[string]int, error) {
	query := url.Values{}
	if runID != "" {
		query.Set("run_id", runID)
	}

	path := "/api/v1/trends/summary"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var counts map[string]int
	if err := s.client.doRequest(ctx, http.MethodGet, path, nil, &counts); err != nil {
		return nil, err
	}
	return counts, nil
}
