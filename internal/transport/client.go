// Package transport is the HTTP side of a sync run: it fetches catalog pages
// as decoded JSON and materializes asset files on disk.
package transport

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/natefinch/atomic"

	"github.com/agentstation/riftsync/pkg/constants"
	"github.com/agentstation/riftsync/pkg/errors"
)

// Client fetches JSON documents and downloads files over HTTP.
type Client struct {
	http      *http.Client
	userAgent string
}

// Option configures a Client.
type Option func(*Client)

// WithUserAgent sets the identifying User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// New creates a transport client.
func New(opts ...Option) *Client {
	c := &Client{
		http:      &http.Client{Timeout: constants.DefaultHTTPTimeout},
		userAgent: constants.DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// UserAgent returns the User-Agent sent with every request.
func (c *Client) UserAgent() string {
	return c.userAgent
}

// CloseIdleConnections closes keep-alive connections held by the client.
func (c *Client) CloseIdleConnections() {
	c.http.CloseIdleConnections()
}

// FetchJSON performs a GET and decodes the body as a single JSON value.
// Objects decode to map[string]any and numbers to json.Number. Any transport
// failure, non-2xx status or non-JSON body is an error.
func (c *Client) FetchJSON(ctx context.Context, url string) (any, error) {
	resp, err := c.get(ctx, url, "application/json")
	if err != nil {
		return nil, err
	}
	return DecodeJSON(resp)
}

// Download fetches url into path. The file appears atomically: a failed or
// interrupted download never leaves a partial file at path.
func (c *Client) Download(ctx context.Context, url, path string) error {
	resp, err := c.get(ctx, url, "")
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if err := checkStatus(resp); err != nil {
		return err
	}
	if err := atomic.WriteFile(path, resp.Body); err != nil {
		return errors.WrapIO("write", path, err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, url, accept string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.WrapResource("create", "request", "GET "+url, err)
	}
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, errors.Join(errors.ErrCanceled, err)
		}
		return nil, &errors.APIError{
			Source:   sourceOf(url),
			Endpoint: url,
			Message:  "request failed",
			Err:      err,
		}
	}
	return resp, nil
}

// sourceOf names the remote host for error messages.
func sourceOf(url string) string {
	host := url
	if _, rest, ok := strings.Cut(url, "://"); ok {
		host = rest
	}
	if i := strings.IndexAny(host, "/?#"); i >= 0 {
		host = host[:i]
	}
	return host
}
