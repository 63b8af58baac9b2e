package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client is the EgressWatch API client
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Config holds the client configuration
type Config struct {
	BaseURL    string        // API base URL (e.g., "http://localhost:8080")
	Timeout    time.Duration // HTTP client timeout (default: 30s)
	HTTPClient *http.Client  // Optional custom HTTP client
}

// NewClient creates a new EgressWatch API client
func NewClient(cfg Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: cfg.Timeout,
		}
	}

	return &Client{
		baseURL:    cfg.BaseURL,
		httpClient: httpClient,
	}
}

// envelope mirrors the server's response wrapper
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Message string          `json:"message,omitempty"`
	Error   *APIError       `json:"error,omitempty"`
}

// doRequest performs an HTTP request and unwraps the response envelope
func (c *Client) doRequest(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	url := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	var env envelope
	if len(respBody) > 0 {
		if err := json.Unmarshal(respBody, &env); err != nil {
			if resp.StatusCode >= 400 {
				return fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(respBody))
			}
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}

	if resp.StatusCode >= 400 {
		if env.Error != nil {
			env.Error.StatusCode = resp.StatusCode
			return env.Error
		}
		return &APIError{StatusCode: resp.StatusCode, Message: string(respBody)}
	}

	if result != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, result); err != nil {
			return fmt.Errorf("failed to parse response data: %w", err)
		}
	}

	return nil
}

// doList performs a GET request against a paginated endpoint
func doList[T any](ctx context.Context, c *Client, path string) (*Page[T], error) {
	var page Page[T]
	if err := c.doRequest(ctx, http.MethodGet, path, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Runs returns the run service
func (c *Client) Runs() *RunService {
	return &RunService{client: c}
}

// Trends returns the trend service
func (c *Client) Trends() *TrendService {
	return &TrendService{client: c}
}

// Costs returns the cost estimate service
func (c *Client) Costs() *CostService {
	return &CostService{client: c}
}

// Anomalies returns the anomaly service
func (c *Client) Anomalies() *AnomalyService {
	return &AnomalyService{client: c}
}

// Recommendations returns the recommendation service
func (c *Client) Recommendations() *RecommendationService {
	return &RecommendationService{client: c}
}

// GetSummary returns the dashboard summary for the latest run
func (c *Client) GetSummary(ctx context.Context) (*Summary, error) {
	var summary Summary
	if err := c.doRequest(ctx, http.MethodGet, "/api/v1/summary", nil, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}
