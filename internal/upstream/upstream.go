// Package upstream implements the Upstream Transmitter (C8): a stateless,
// concurrency-safe HTTP client that posts assembled batches to the LATRA
// regulator endpoint with bounded retry.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/halidi-hamidu/latra-gateway/internal/payload"
)

const (
	maxAttempts       = 3
	attemptDelay      = 2 * time.Second
	perAttemptTimeout = 10 * time.Second
)

// Result is the outcome of a Send call.
type Result struct {
	Success bool
	Error   *UpstreamError
}

// UpstreamError is the structured error body the regulator endpoint returns
// on a non-200 response, parsed on a best-effort basis.
type UpstreamError struct {
	StatusCode int    `json:"-"`
	Message    string `json:"message"`
	Code       string `json:"code"`
}

func (e *UpstreamError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("upstream status %d: %s (%s)", e.StatusCode, e.Message, e.Code)
}

// Client posts batches to a fixed URL with a static Basic Auth credential.
type Client struct {
	url        string
	token      string
	httpClient *http.Client
}

// New builds a Client. token is the Basic Auth credential value used
// verbatim (spec.md §6: "Authorization: Basic <LATRA_API_TOKEN>") — it is
// already the base64 form the regulator expects, not a username to be
// re-encoded.
func New(url, token string) *Client {
	return &Client{
		url:   url,
		token: token,
		httpClient: &http.Client{
			Timeout: perAttemptTimeout,
		},
	}
}

// Send POSTs batch, retrying up to maxAttempts times with linear backoff
// (delay = attemptDelay * attempt_index) on failure. HTTP 200 is the only
// success status (spec.md §4.8).
func (c *Client) Send(ctx context.Context, batch payload.Batch) Result {
	body, err := json.Marshal(batch)
	if err != nil {
		return Result{Success: false, Error: &UpstreamError{Message: fmt.Sprintf("marshal batch: %v", err)}}
	}

	var lastErr *UpstreamError
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		result := c.attempt(ctx, body)
		if result.Success {
			return result
		}
		lastErr = result.Error
		if attempt < maxAttempts {
			select {
			case <-time.After(attemptDelay * time.Duration(attempt)):
			case <-ctx.Done():
				return Result{Success: false, Error: &UpstreamError{Message: ctx.Err().Error()}}
			}
		}
	}
	return Result{Success: false, Error: lastErr}
}

func (c *Client) attempt(ctx context.Context, body []byte) Result {
	reqCtx, cancel := context.WithTimeout(ctx, perAttemptTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return Result{Success: false, Error: &UpstreamError{Message: fmt.Sprintf("build request: %v", err)}}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Basic "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Result{Success: false, Error: &UpstreamError{Message: err.Error()}}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK {
		return Result{Success: true}
	}

	upstreamErr := &UpstreamError{StatusCode: resp.StatusCode}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err := json.Unmarshal(raw, upstreamErr); err != nil {
		upstreamErr.Message = string(raw)
	}
	return Result{Success: false, Error: upstreamErr}
}
