package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sweeney/halo-lamp/internal/flicker"
)

// HTTPClient is the real coordination service client.
type HTTPClient struct {
	baseURL string
	client  *http.Client
}

// NewHTTPClient creates a client for the service at baseURL. The timeout
// bounds the whole round trip; the sync loop runs on its own task, so a slow
// service never stalls rendering either way.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// Send announces code and returns the service's current code.
func (c *HTTPClient) Send(ctx context.Context, code flicker.Code) (flicker.Code, error) {
	return c.exchange(ctx, paramCode, code.String())
}

// Fetch returns the service's current code for deviceID.
func (c *HTTPClient) Fetch(ctx context.Context, deviceID string) (flicker.Code, error) {
	return c.exchange(ctx, paramDevice, deviceID)
}

func (c *HTTPClient) exchange(ctx context.Context, key, value string) (flicker.Code, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return flicker.Code{}, fmt.Errorf("parse service url: %w", err)
	}
	q := u.Query()
	q.Set(key, value)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return flicker.Code{}, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return flicker.Code{}, fmt.Errorf("sync round trip: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return flicker.Code{}, fmt.Errorf("sync round trip: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return flicker.Code{}, fmt.Errorf("read response: %w", err)
	}
	if len(body) == 0 {
		return flicker.Code{}, fmt.Errorf("empty response body")
	}

	var r response
	if err := json.Unmarshal(body, &r); err != nil {
		return flicker.Code{}, fmt.Errorf("decode response: %w", err)
	}

	code, err := flicker.Parse(r.FC)
	if err != nil {
		return flicker.Code{}, fmt.Errorf("decode response: %w", err)
	}
	return code, nil
}
