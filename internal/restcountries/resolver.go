// Package restcountries resolves a country label to display metadata using
// the restcountries.com v3.1 API. Lookups are exact (fullText), bounded in
// time, never retried or cached, and any failure means "no info".
package restcountries

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rshade/healthtrack/internal/httpx"
	"github.com/rshade/healthtrack/internal/logging"
)

// Defaults used by New.
const (
	DefaultBaseURL = "https://restcountries.com/v3.1"
	DefaultTimeout = 5 * time.Second
)

// Resolver looks up country metadata by name.
type Resolver struct {
	BaseURL string
	Timeout time.Duration
	HTTP    *http.Client
}

// New returns a Resolver. Empty baseURL or non-positive timeout select the
// defaults.
func New(baseURL string, timeout time.Duration) *Resolver {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Resolver{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Timeout: timeout,
		HTTP:    &http.Client{},
	}
}

// LookupURL returns the request URL for name.
func (r *Resolver) LookupURL(name string) string {
	return fmt.Sprintf("%s/name/%s?fullText=true", r.BaseURL, url.PathEscape(name))
}

// Lookup performs the request and returns the first valid candidate, or an
// error describing why there is none. A nil result with a nil error means the
// source answered with an empty list.
func (r *Resolver) Lookup(ctx context.Context, name string) (*CountryInfo, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: empty name", ErrInvalidRecord)
	}

	target := r.LookupURL(name)
	var candidates []candidate
	err := httpx.DoJSON(ctx, r.HTTP, func(ctx context.Context) (*http.Request, error) {
		return httpx.NewGetRequest(ctx, target)
	}, &candidates, httpx.SingleAttempt(r.Timeout))
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	first := candidates[0]
	if err = first.validate(); err != nil {
		return nil, err
	}
	return first.info(), nil
}

// Resolve returns the metadata for name and true, or nil and false when the
// country is unknown or the lookup failed for any reason.
func (r *Resolver) Resolve(ctx context.Context, name string) (*CountryInfo, bool) {
	log := logging.FromContext(ctx).With().
		Str("component", "restcountries").
		Str("operation", "resolve").
		Str("country", name).
		Logger()

	start := time.Now()
	info, err := r.Lookup(ctx, name)
	if err != nil {
		log.Debug().Err(err).Dur("duration", time.Since(start)).Msg("country info unavailable")
		return nil, false
	}
	if info == nil {
		log.Debug().Dur("duration", time.Since(start)).Msg("country not found")
		return nil, false
	}
	log.Debug().Dur("duration", time.Since(start)).Msg("country info resolved")
	return info, true
}
