// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package httpcatalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/poiesic/skinshelf/core"
	"github.com/poiesic/skinshelf/metrics"
	"github.com/poiesic/skinshelf/remote"
)

const (
	defaultTimeout         = 30 * time.Second
	defaultBreakerFailures = 5
	defaultBreakerTimeout  = time.Minute
	maxErrorBody           = 4 << 10
)

// ErrBaseURLRequired is returned when no catalog URL is configured.
var ErrBaseURLRequired = errors.New("catalog base URL is required")

// Client is a remote.Catalog backed by the HTTP catalog service.
type Client struct {
	base    *url.URL
	http    *http.Client
	breaker *gobreaker.CircuitBreaker[[]*core.ItemRecord]
	logger  *slog.Logger

	breakerName     string
	breakerFailures uint32
	breakerTimeout  time.Duration
}

var _ remote.Catalog = (*Client)(nil)

// Option configures a Client.
type Option func(*Client) error

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) error {
		if hc != nil {
			c.http = hc
		}
		return nil
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) error {
		if d > 0 {
			c.http.Timeout = d
		}
		return nil
	}
}

// WithBreaker sets how many consecutive failures open the circuit and how
// long it stays open before a trial request is let through.
func WithBreaker(failures uint32, timeout time.Duration) Option {
	return func(c *Client) error {
		if failures > 0 {
			c.breakerFailures = failures
		}
		if timeout > 0 {
			c.breakerTimeout = timeout
		}
		return nil
	}
}

// WithBreakerName sets the breaker name used in logs and metrics.
func WithBreakerName(name string) Option {
	return func(c *Client) error {
		if name != "" {
			c.breakerName = name
		}
		return nil
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) error {
		if logger != nil {
			c.logger = logger
		}
		return nil
	}
}

// NewClient creates a catalog client rooted at baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, ErrBaseURLRequired
	}
	base, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid catalog base URL: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("invalid catalog base URL scheme %q", base.Scheme)
	}

	c := &Client{
		base:            base,
		http:            &http.Client{Timeout: defaultTimeout},
		logger:          slog.Default(),
		breakerName:     "remote-catalog",
		breakerFailures: defaultBreakerFailures,
		breakerTimeout:  defaultBreakerTimeout,
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	c.logger = c.logger.With("component", "httpcatalog")

	metrics.RemoteBreakerState.WithLabelValues(c.breakerName).Set(0)
	c.breaker = gobreaker.NewCircuitBreaker[[]*core.ItemRecord](gobreaker.Settings{
		Name:        c.breakerName,
		MaxRequests: 1,
		Timeout:     c.breakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= c.breakerFailures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.logger.Info("circuit breaker state change", "name", name, "from", from.String(), "to", to.String())
			metrics.RemoteBreakerState.WithLabelValues(name).Set(stateToFloat(to))
		},
	})
	return c, nil
}

// FetchAll reads the full collection.
func (c *Client) FetchAll(ctx context.Context) ([]*core.ItemRecord, error) {
	return c.execute(ctx, "all", nil)
}

// FetchWhere runs a timestamp range query.
func (c *Client) FetchWhere(ctx context.Context, q remote.Query) ([]*core.ItemRecord, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	return c.execute(ctx, "where", encodeQuery(q))
}

// BreakerState reports the current circuit breaker state.
func (c *Client) BreakerState() string {
	return c.breaker.State().String()
}

func (c *Client) execute(ctx context.Context, kind string, params map[string]string) ([]*core.ItemRecord, error) {
	items, err := c.breaker.Execute(func() ([]*core.ItemRecord, error) {
		return c.get(ctx, params)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.RemoteRequests.WithLabelValues(kind, "rejected").Inc()
			c.logger.Warn("catalog request rejected", "kind", kind, "err", err)
			return nil, fmt.Errorf("%w: %w", remote.ErrUnavailable, err)
		}
		metrics.RemoteRequests.WithLabelValues(kind, "failure").Inc()
		return nil, err
	}
	metrics.RemoteRequests.WithLabelValues(kind, "success").Inc()
	return items, nil
}

func (c *Client) get(ctx context.Context, params map[string]string) ([]*core.ItemRecord, error) {
	u := *c.base
	u.Path += itemsPath
	if len(params) > 0 {
		values := url.Values{}
		for k, v := range params {
			values.Set(k, v)
		}
		u.RawQuery = values.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", remote.ErrUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %w", remote.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		var apiErr errorResponse
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != "" {
			return nil, fmt.Errorf("%w: status %d: %s", remote.ErrUnavailable, resp.StatusCode, apiErr.Error)
		}
		return nil, fmt.Errorf("%w: status %d", remote.ErrUnavailable, resp.StatusCode)
	}

	var body itemsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %w", remote.ErrUnavailable, err)
	}
	return body.Items, nil
}

func stateToFloat(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}
