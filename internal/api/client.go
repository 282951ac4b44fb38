// Package api is the HTTP client for the infrastructure status backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/time/rate"

	rerrors "github.com/rileyhilliard/infradash/internal/errors"
	"github.com/rileyhilliard/infradash/internal/logger"
)

// DefaultRequestTimeout bounds every request that is not a connection probe.
const DefaultRequestTimeout = 10 * time.Second

// maxBodySize caps how much of a response is read.
const maxBodySize = 8 << 20

// Doer executes HTTP requests. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Option configures a Client.
type Option func(*Client)

// WithDoer replaces the HTTP client.
func WithDoer(d Doer) Option {
	return func(c *Client) { c.doer = d }
}

// WithLogger sets the logger used for request and response traces.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithRequestTimeout sets the per-request timeout. Zero disables it.
func WithRequestTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithRateLimit caps outgoing requests to rps per second with the given burst.
// A non-positive rps leaves requests unlimited.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// Client talks to the backend rooted at a base URL such as http://localhost:8080/api.
type Client struct {
	base    *url.URL
	doer    Doer
	log     logger.Logger
	timeout time.Duration
	limiter *rate.Limiter
}

// New creates a client for baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, rerrors.New(rerrors.ErrConfig,
			fmt.Sprintf("Invalid server URL %q", baseURL),
			"Set server.url to something like http://localhost:8080/api")
	}

	c := &Client{
		base:    u,
		log:     logger.Noop(),
		timeout: DefaultRequestTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.doer == nil {
		c.doer = &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	}
	return c, nil
}

// BaseURL returns the backend root the client was created with.
func (c *Client) BaseURL() string {
	return c.base.String()
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + path
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// request performs one call and returns the raw body of a 2xx response.
// useTimeout applies the client's request timeout on top of ctx.
func (c *Client) request(ctx context.Context, method, path string, query url.Values, body any, useTimeout bool) ([]byte, error) {
	if useTimeout && c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			if ctx.Err() != nil {
				return nil, c.contextError(ctx, method, path, err)
			}
			return nil, rerrors.WrapWithCode(err, rerrors.ErrTimeout,
				fmt.Sprintf("Request %s %s would exceed its deadline waiting for the rate limit", method, path),
				"Raise server.rate_limit or the request timeout")
		}
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, rerrors.WrapWithCode(err, rerrors.ErrTransport,
				fmt.Sprintf("Could not encode request for %s", path), "")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, query), reader)
	if err != nil {
		return nil, rerrors.WrapWithCode(err, rerrors.ErrTransport,
			fmt.Sprintf("Could not build request for %s", path), "")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.log.Debug("API Request: %s %s", method, path)

	resp, err := c.doer.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, c.contextError(ctx, method, path, err)
		}
		c.log.Debug("API Error: %s %s: %v", method, path, err)
		return nil, rerrors.WrapWithCode(err, rerrors.ErrTransport,
			fmt.Sprintf("Cannot reach the status backend at %s", c.base.Host),
			"Check that the backend is running and server.url is correct")
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		if ctx.Err() != nil {
			return nil, c.contextError(ctx, method, path, err)
		}
		return nil, rerrors.WrapWithCode(err, rerrors.ErrTransport,
			fmt.Sprintf("Failed reading response from %s", path), "")
	}

	c.log.Debug("API Response: %d %s", resp.StatusCode, path)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, rerrors.WrapWithCode(&StatusError{Code: resp.StatusCode, Body: snippet(data)},
			rerrors.ErrTransport,
			fmt.Sprintf("Backend returned %d for %s %s", resp.StatusCode, method, path),
			"")
	}
	return data, nil
}

func (c *Client) contextError(ctx context.Context, method, path string, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return rerrors.WrapWithCode(context.DeadlineExceeded, rerrors.ErrTimeout,
			fmt.Sprintf("Request %s %s timed out", method, path),
			"Increase server.request_timeout or check backend latency")
	}
	return rerrors.WrapWithCode(ctx.Err(), rerrors.ErrTransport,
		fmt.Sprintf("Request %s %s was cancelled", method, path), "")
}

// StatusError carries a non-2xx response.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("HTTP %d", e.Code)
	}
	return fmt.Sprintf("HTTP %d: %s", e.Code, e.Body)
}

func snippet(b []byte) string {
	s := strings.TrimSpace(string(b))
	if len(s) > 200 {
		s = s[:200] + "..."
	}
	return s
}

func absent(data []byte) bool {
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// fetch GETs path and decodes the body into a new T. An empty or null body
// yields nil with no error.
func fetch[T any](ctx context.Context, c *Client, path string, query url.Values, useTimeout bool) (*T, error) {
	data, err := c.request(ctx, http.MethodGet, path, query, nil, useTimeout)
	if err != nil {
		return nil, err
	}
	return decode[T](data, path)
}

func decode[T any](data []byte, path string) (*T, error) {
	if absent(data) {
		return nil, nil
	}
	out := new(T)
	if err := json.Unmarshal(data, out); err != nil {
		return nil, rerrors.WrapWithCode(err, rerrors.ErrTransport,
			fmt.Sprintf("Malformed response from %s", path),
			"The backend may be a different version than this client expects")
	}
	return out, nil
}

func delayQuery(delay time.Duration) url.Values {
	if delay <= 0 {
		return nil
	}
	return url.Values{"delay": []string{strconv.FormatInt(delay.Milliseconds(), 10)}}
}
