// Package worldbank fetches the life expectancy indicator from the World Bank
// v2 API and validates it against an explicit schema before anything
// downstream sees it.
package worldbank

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rshade/healthtrack/internal/dataset"
	"github.com/rshade/healthtrack/internal/httpx"
	"github.com/rshade/healthtrack/internal/logging"
)

// IndicatorCode is the only series healthtrack reads.
const IndicatorCode = "SP.DYN.LE00.IN"

// Defaults used by New.
const (
	DefaultBaseURL = "https://api.worldbank.org/v2"
	DefaultPerPage = 20000
	DefaultTimeout = 10 * time.Second
)

// Client fetches and validates the indicator series.
type Client struct {
	BaseURL string
	PerPage int
	Retry   httpx.RetryConfig
	HTTP    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithPerPage overrides the page size. Non-positive values are ignored.
func WithPerPage(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.PerPage = n
		}
	}
}

// WithTimeout bounds each Fetch. Non-positive values are ignored.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.Retry.Timeout = d
		}
	}
}

// WithRetries allows n extra attempts inside the same time bound.
func WithRetries(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.Retry = httpx.DefaultRetryConfig(c.Retry.Timeout, n+1)
		}
	}
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.HTTP = h
		}
	}
}

// New creates a client for baseURL. An empty baseURL selects DefaultBaseURL.
// WithTimeout must precede WithRetries when both are given.
func New(baseURL string, opts ...Option) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		PerPage: DefaultPerPage,
		Retry:   httpx.SingleAttempt(DefaultTimeout),
		HTTP:    &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// IndicatorURL returns the full request URL for the indicator series.
func (c *Client) IndicatorURL() string {
	q := url.Values{}
	q.Set("format", "json")
	q.Set("per_page", strconv.Itoa(c.PerPage))
	return fmt.Sprintf("%s/country/all/indicator/%s?%s", c.BaseURL, IndicatorCode, q.Encode())
}

// Fetch downloads, validates, and normalizes the indicator. Transport errors,
// non-2xx statuses, timeouts, and shape failures are all returned as errors.
func (c *Client) Fetch(ctx context.Context) (*dataset.Dataset, error) {
	log := logging.FromContext(ctx).With().
		Str("component", "worldbank").
		Str("operation", "fetch").
		Logger()

	target := c.IndicatorURL()
	start := time.Now()
	_, body, err := httpx.Do(ctx, c.HTTP, func(ctx context.Context) (*http.Request, error) {
		return httpx.NewGetRequest(ctx, target)
	}, c.Retry)
	if err != nil {
		log.Debug().Err(err).Str("url", target).Dur("duration", time.Since(start)).Msg("indicator request failed")
		return nil, fmt.Errorf("fetching %s: %w", IndicatorCode, err)
	}

	resp, err := Parse(body)
	if err != nil {
		log.Debug().Err(err).Str("url", target).Msg("indicator response rejected")
		return nil, err
	}

	ds := Normalize(resp.Records)
	log.Debug().
		Str("url", target).
		Int("records", len(resp.Records)).
		Int("rows", ds.Len()).
		Dur("duration", time.Since(start)).
		Msg("indicator fetched")
	return ds, nil
}
