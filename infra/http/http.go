// Package http provides the default HTTPDoer implementation, a thin wrapper
// over *http.Client modeled on the request/response handling in the
// teacher's peer-to-peer attestation exchange.
package http

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/certen/evmscan/infra"
)

// Client is the default infra.HTTPDoer, backed by stdlib net/http. It is
// safe for concurrent use, matching §5's shared-HTTP-port requirement.
type Client struct {
	httpClient *http.Client
}

var _ infra.HTTPDoer = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout owned by this port.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithUnderlying overrides the underlying *http.Client, e.g. to share
// connection pooling across Clients or inject a test transport.
func WithUnderlying(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New builds a Client with a 30 second default timeout.
func New(opts ...Option) *Client {
	c := &Client{httpClient: &http.Client{Timeout: 30 * time.Second}}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Do issues the request and surfaces transport failures distinctly from
// HTTP error statuses: a non-nil error means the request never completed.
func (c *Client) Do(ctx context.Context, method, url string, headers map[string]string, body []byte) (int, []byte, error) {
	var reqBody io.Reader
	if body != nil {
		reqBody = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return 0, nil, fmt.Errorf("infra/http: building request: %w", err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("infra/http: request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("infra/http: reading response body: %w", err)
	}

	return resp.StatusCode, respBody, nil
}
