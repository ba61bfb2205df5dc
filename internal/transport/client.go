// Package transport downloads source documents over HTTP.
package transport

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/agentstation/sheetsync/pkg/constants"
	"github.com/agentstation/sheetsync/pkg/errors"
	"github.com/agentstation/sheetsync/pkg/logging"
)

// DefaultHTTPTimeout is the default timeout for HTTP requests.
var DefaultHTTPTimeout = constants.DefaultHTTPTimeout

// maxErrorBody bounds how much of a failed response is kept in the error.
const maxErrorBody = 512

// Client downloads source documents, applying authentication when a
// token is configured.
type Client struct {
	http      *http.Client
	auth      Authenticator
	token     string
	userAgent string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithToken sets the token handed to the authenticator.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// New creates a new transport client with the specified authenticator.
func New(auth Authenticator, opts ...Option) *Client {
	if auth == nil {
		auth = &NoAuth{}
	}
	c := &Client{
		http:      &http.Client{Timeout: DefaultHTTPTimeout},
		auth:      auth,
		userAgent: "sheetsync",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get performs a GET request with authentication applied.
func (c *Client) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.WrapResource("create", "request", "GET "+url, err)
	}
	if c.token != "" {
		c.auth.Apply(req, c.token)
	}
	req.Header.Set("Accept", "text/csv, text/plain;q=0.9, */*;q=0.5")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	return c.http.Do(req)
}

// Download fetches the body at url. Any status other than 200 is an
// APIError carrying the status code.
func (c *Client) Download(ctx context.Context, url string) ([]byte, error) {
	logger := logging.FromContext(ctx)

	resp, err := c.Get(ctx, url)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %w", errors.ErrCanceled, ctx.Err())
		}
		return nil, &errors.APIError{
			Service:  "download",
			Endpoint: url,
			Message:  "request failed",
			Err:      err,
		}
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			logger.Warn().Err(cerr).Str("url", url).Msg("Failed to close response body")
		}
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		message := strings.TrimSpace(string(body))
		if message == "" {
			message = http.StatusText(resp.StatusCode)
		}
		return nil, &errors.APIError{
			Service:    "download",
			StatusCode: resp.StatusCode,
			Endpoint:   url,
			Message:    message,
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.WrapIO("read", "response body", err)
	}

	logger.Debug().
		Str("url", url).
		Int("bytes", len(body)).
		Str("content_type", resp.Header.Get("Content-Type")).
		Msg("Downloaded source")
	return body, nil
}
