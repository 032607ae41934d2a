// Package loader produces the dataset for a session by walking an ordered
// fallback: the remote indicator source, then the local cache file, then an
// empty dataset. Load never fails; the outcome is reported as a Status.
package loader

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/rshade/healthtrack/internal/dataset"
	"github.com/rshade/healthtrack/internal/logging"
)

// ErrNoSource is recorded when neither the remote source nor the cache could
// provide data.
var ErrNoSource = errors.New("no data source available")

// Status tells the presentation layer where the data came from.
type Status string

// Load outcomes.
const (
	StatusLive        Status = "live"
	StatusStale       Status = "stale"
	StatusUnavailable Status = "unavailable"
)

// Source names the tier that produced a Result.
type Source string

// Fallback tiers.
const (
	SourceRemote Source = "remote"
	SourceCache  Source = "cache"
	SourceNone   Source = "none"
)

// Fetcher retrieves a validated, normalized dataset from the remote source.
type Fetcher interface {
	Fetch(ctx context.Context) (*dataset.Dataset, error)
}

// Store persists the last good dataset.
type Store interface {
	Read() (*dataset.Dataset, error)
	Write(ds *dataset.Dataset) error
}

// Result is the outcome of one Load. Dataset is never nil.
type Result struct {
	Dataset  *dataset.Dataset
	Status   Status
	Source   Source
	LoadedAt time.Time

	// Err is the failure that forced a fallback, kept for diagnostics.
	Err error
}

// Observer receives the status of every Load exactly once.
type Observer func(Result)

// Option configures a Loader.
type Option func(*Loader)

// WithObserver registers fn to be called after each Load.
func WithObserver(fn Observer) Option {
	return func(l *Loader) {
		l.observer = fn
	}
}

// Loader runs the remote -> cache -> empty fallback.
type Loader struct {
	remote   Fetcher
	store    Store
	observer Observer
	now      func() time.Time
}

// New creates a Loader. Either dependency may be nil, which disables that tier.
func New(remote Fetcher, store Store, opts ...Option) *Loader {
	l := &Loader{
		remote: remote,
		store:  store,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load returns the best dataset available right now.
func (l *Loader) Load(ctx context.Context) Result {
	log := logging.FromContext(ctx).With().
		Str("component", "loader").
		Str("operation", "load").
		Logger()

	start := l.now()
	res := l.load(ctx, log)
	res.LoadedAt = l.now()

	log.Info().
		Str("status", string(res.Status)).
		Str("source", string(res.Source)).
		Int("rows", res.Dataset.Len()).
		Dur("duration", res.LoadedAt.Sub(start)).
		Msg("dataset loaded")

	if l.observer != nil {
		l.observer(res)
	}
	return res
}

func (l *Loader) load(ctx context.Context, log zerolog.Logger) Result {
	remoteErr := fmt.Errorf("remote source: %w", ErrNoSource)
	if l.remote != nil {
		ds, err := l.remote.Fetch(ctx)
		if err == nil && ds != nil {
			if l.store != nil {
				if writeErr := l.store.Write(ds); writeErr != nil {
					log.Warn().Err(writeErr).Msg("failed to write cache file")
				}
			}
			return Result{Dataset: ds, Status: StatusLive, Source: SourceRemote}
		}
		if err == nil {
			err = errors.New("remote source returned no dataset")
		}
		remoteErr = err
		log.Warn().Err(err).Msg("remote fetch failed, falling back to cache")
	}

	if l.store != nil {
		ds, err := l.store.Read()
		if err == nil && ds != nil {
			return Result{Dataset: ds, Status: StatusStale, Source: SourceCache, Err: remoteErr}
		}
		if err != nil {
			log.Warn().Err(err).Msg("cache unavailable")
		}
	}

	return Result{
		Dataset: dataset.Empty(),
		Status:  StatusUnavailable,
		Source:  SourceNone,
		Err:     fmt.Errorf("%w: %w", ErrNoSource, remoteErr),
	}
}
