package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// AnomalyService handles anomaly-related API calls
type AnomalyService struct {
	client *Client
}

// AnomalyListOptions contains options for listing anomalies
type AnomalyListOptions struct {
	ListOptions
	RunID      string // filter by run
	ResourceID string // filter by resource
	Severity   string // critical, high, medium, low
	Method     string // zscore, mad, moving_average
}

// List retrieves detected anomalies
func (s *AnomalyService) List(ctx context.Context, opts *AnomalyListOptions) (*Page[Anomaly], error) {
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
		if opts.Severity != "" {
			query.Set("severity", opts.Severity)
		}
		if opts.Method != "" {
			query.Set("method", opts.Method)
		}
	}

	path := "/api/v1/anomalies"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}
	return doList[Anomaly](ctx, s.client, path)
}

// Get retrieves a single anomaly by ID
func (s *AnomalyService) Get(ctx context.Context, id int64) (*Anomaly, error) {
	var anomaly Anomaly
	path := fmt.Sprintf("/api/v1/anomalies/%d", id)
	if err := s.client.doRequest(ctx, http.MethodGet, path, nil, &anomaly); err != nil {
		return nil, err
	}
	return &anomaly, nil
}

// Summary returns per-severity anomaly counts for a run
func (s *AnomalyService) Summary(ctx context.Context, runID string) (map[string]int, error) {
	query := url.Values{}
	if runID != "" {
		query.Set("run_id", runID)
	}

	path := "/api/v1/anomalies/summary"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var counts map[string]int
	if err := s.client.doRequest(ctx, http.MethodGet, path, nil, &counts); err != nil {
		return nil, err
	}
	return counts, nil
}
