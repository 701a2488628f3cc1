// Package syncro is a thin client for the Syncro MSP REST API: Bearer
// auth, JSON envelopes, page-by-page list fetching, and a fixed pacing
// delay after every live call. No retries; a failed call surfaces
// immediately as an error.
package syncro

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/msptools/syncrosync/internal/telemetry"
)

const (
	DefaultTimeout = 30 * time.Second

	// DefaultPacing is the fixed delay inserted after every live call to
	// respect the Syncro rate limit. There is deliberately no retry or
	// backoff: a rate-limit response is surfaced as a request error.
	DefaultPacing = 500 * time.Millisecond
)

// Client talks to one Syncro tenant's REST API.
type Client struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client

	// Pacing is the delay inserted after every call. Zero disables it;
	// tests rely on that.
	Pacing time.Duration

	calls atomic.Int64
}

// NewClient creates a client for a tenant API base URL, e.g.
// "https://example.syncromsp.com/api/v1".
func NewClient(baseURL, token string) *Client {
	return &Client{
		BaseURL: baseURL,
		Token:   token,
		HTTPClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		Pacing: DefaultPacing,
	}
}

// TenantURL builds the canonical API base URL for a subdomain.
func TenantURL(subdomain string) string {
	return fmt.Sprintf("https://%s.syncromsp.com/api/v1", subdomain)
}

// CallCount reports the number of API calls this client has issued.
func (c *Client) CallCount() int64 {
	return c.calls.Load()
}

// request sends a single HTTP request. A non-2xx status or network failure
// aborts the call and is wrapped as a transport-kind error; the caller
// decides whether to abort the run or continue with partial data.
func (c *Client) request(ctx context.Context, method, path string, body interface{}) ([]byte, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.Token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	c.calls.Add(1)
	telemetry.CountAPICall(ctx, method, path)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %v", ErrTransport, method, path, err)
	}

	respBody, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()

	c.pace(ctx)

	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: reading response: %v", ErrTransport, method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{Method: method, Path: path, StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	return respBody, nil
}

// pace sleeps for the fixed per-call delay, waking early on cancellation.
func (c *Client) pace(ctx context.Context) {
	if c.Pacing <= 0 {
		return
	}
	select {
	case <-ctx.Done():
	case <-time.After(c.Pacing):
	}
}

// get issues a GET with encoded query parameters.
func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	if len(params) > 0 {
		path = path + "?" + params.Encode()
	}
	return c.request(ctx, http.MethodGet, path, nil)
}

// post issues a POST with a JSON body.
func (c *Client) post(ctx context.Context, path string, body interface{}) ([]byte, error) {
	return c.request(ctx, http.MethodPost, path, body)
}

// fetchAllPages walks a paginated collection endpoint until the service
// reports no further page or returns an empty page body; both are
// termination signals. key names the envelope field holding the records,
// e.g. "customers" for GET /customers.
func fetchAllPages[T any](ctx context.Context, c *Client, path, key string, params url.Values) ([]T, error) {
	if params == nil {
		params = url.Values{}
	}

	var all []T
	page := 1

	for {
		params.Set("page", strconv.Itoa(page))

		body, err := c.get(ctx, path, params)
		if err != nil {
			return nil, err
		}

		var envelope map[string]json.RawMessage
		if err := json.Unmarshal(body, &envelope); err != nil {
			return nil, fmt.Errorf("failed to parse %s page %d: %w", path, page, err)
		}

		var items []T
		if raw, ok := envelope[key]; ok {
			if err := json.Unmarshal(raw, &items); err != nil {
				return nil, fmt.Errorf("failed to parse %q records on page %d: %w", key, page, err)
			}
		}
		all = append(all, items...)

		if len(items) == 0 {
			break
		}

		var meta pageMeta
		if raw, ok := envelope["meta"]; ok {
			// A malformed meta block is treated the same as a missing
			// one: stop rather than loop forever.
			_ = json.Unmarshal(raw, &meta)
		}
		if !meta.hasNext() {
			break
		}

		page++
	}

	return all, nil
}
