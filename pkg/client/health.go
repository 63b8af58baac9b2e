package client

import (
	"context"
	"net/http"
)

// Health checks the liveness of the API
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	var health HealthResponse
	if err := c.doRequest(ctx, http.MethodGet, "/healthz", nil, &health); err != nil {
		return nil, err
	}
	return &health, nil
}

// Ready checks the readiness of the API, including its database connection
func (c *Client) Ready(ctx context.Context) (*HealthResponse, error) {
	var health HealthResponse
	if err := c.doRequest(ctx, http.MethodGet, "/readyz", nil, &health); err != nil {
		return nil, err
	}
	return &health, nil
}

// Ping is a simple connectivity test
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.Health(ctx)
	return err
}
