package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// RunService handles run-related API calls
type RunService struct {
	client *Client
}

// List retrieves runs newest first
func (s *RunService) List(ctx context.Context, opts *ListOptions) (*Page[Run], error) {
	query := url.Values{}
	if opts != nil {
		if opts.Page > 0 {
			query.Set("page", strconv.Itoa(opts.Page))
		}
		if opts.PageSize > 0 {
			query.Set("page_size", strconv.Itoa(opts.PageSize))
		}
	}

	path := "/api/v1/runs"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}
	return doList[Run](ctx, s.client, path)
}

// Get retrieves a single run by ID
func (s *RunService) Get(ctx context.Context, id string) (*Run, error) {
	var run Run
	path := fmt.Sprintf("/api/v1/runs/%s", url.PathEscape(id))
	if err := s.client.doRequest(ctx, http.MethodGet, path, nil, &run); err != nil {
		return nil, err
	}
	return &run, nil
}

// Latest retrieves the most recently started run, or nil if none exist
func (s *RunService) Latest(ctx context.Context) (*Run, error) {
	var run Run
	if err := s.client.doRequest(ctx, http.MethodGet, "/api/v1/runs/latest", nil, &run); err != nil {
		return nil, err
	}
	if run.ID == "" {
		return nil, nil
	}
	return &run, nil
}

// Trigger starts a new collect+analyze run and waits for it to finish
func (s *RunService) Trigger(ctx context.Context) (*Run, error) {
	var run Run
	if err := s.client.doRequest(ctx, http.MethodPost, "/api/v1/runs", nil, &run); err != nil {
		return nil, err
	}
	return &run, nil
}
