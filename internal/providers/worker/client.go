// Package worker talks to the remote GPU worker that executes compiled
// generation jobs. The compiler never calls it: submission is the caller's
// concern, and a submission failure never invalidates a compilation.
package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"shotserver/internal/domain"
)

// SubmitResult is the worker's acknowledgement of an accepted job.
type SubmitResult struct {
	JobID string `json:"job_id"`
}

// Submitter hands a compiled payload to the GPU worker.
type Submitter interface {
	Submit(ctx context.Context, payload json.RawMessage) (*SubmitResult, error)
}

// Client is an HTTP Submitter. One instance is shared by the API (dry-run
// health checks) and the queue worker.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient constructs a Client for the given worker endpoint.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type submitResponse struct {
	Success bool   `json:"success"`
	JobID   string `json:"job_id"`
	Error   string `json:"error"`
}

// Submit posts the payload to the worker's /jobs endpoint. A transport
// error, a non-2xx status or success=false all map to ErrWorkerFailure so
// the queue loop can treat them uniformly.
func (c *Client) Submit(ctx context.Context, payload json.RawMessage) (*SubmitResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/jobs", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build submit request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrWorkerFailure, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read submit response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d: %s", domain.ErrWorkerFailure, resp.StatusCode, truncate(body, 256))
	}

	var parsed submitResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode submit response: %w", err)
	}
	if !parsed.Success {
		msg := parsed.Error
		if msg == "" {
			msg = "worker rejected job"
		}
		return nil, fmt.Errorf("%w: %s", domain.ErrWorkerFailure, msg)
	}
	return &SubmitResult{JobID: parsed.JobID}, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}

var _ Submitter = (*Client)(nil)
