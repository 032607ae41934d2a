package loader

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/rshade/healthtrack/internal/worldbank"
)

// SessionKey identifies the memoized load. There is only one series.
const SessionKey = "indicator:" + worldbank.IndicatorCode

// refreshKey keeps forced loads from joining an in-flight Get that started
// before the refresh was requested.
const refreshKey = SessionKey + ":refresh"

// Session memoizes the first Load for the lifetime of the process. Concurrent
// Get callers share a single in-flight load, as do concurrent Refresh callers.
type Session struct {
	loader *Loader

	group singleflight.Group

	mu        sync.RWMutex
	result    *Result
	seq       uint64 // last load started
	storedSeq uint64 // seq of the load held in result
}

// NewSession wraps l.
func NewSession(l *Loader) *Session {
	return &Session{loader: l}
}

// Get returns the memoized result, loading it on first use.
func (s *Session) Get(ctx context.Context) Result {
	if res, ok := s.cached(); ok {
		return res
	}
	return s.do(ctx, SessionKey, false)
}

// Refresh discards the memoized result and loads again. It never joins a
// load that was already running when it was called.
func (s *Session) Refresh(ctx context.Context) Result {
	return s.do(ctx, refreshKey, true)
}

func (s *Session) cached() (Result, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.result == nil {
		return Result{}, false
	}
	return *s.result, true
}

func (s *Session) do(ctx context.Context, key string, force bool) Result {
	v, _, _ := s.group.Do(key, func() (any, error) {
		if !force {
			if cached, ok := s.cached(); ok {
				return cached, nil
			}
		}

		s.mu.Lock()
		s.seq++
		seq := s.seq
		s.mu.Unlock()

		res := s.loader.Load(context.WithoutCancel(ctx))

		// A slower, older load must not replace a newer result.
		s.mu.Lock()
		if seq > s.storedSeq {
			s.result = &res
			s.storedSeq = seq
		}
		s.mu.Unlock()
		return res, nil
	})
	return v.(Result)
}
