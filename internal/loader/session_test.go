package loader

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/healthtrack/internal/dataset"
)

type countingFetcher struct {
	calls atomic.Int32
	delay time.Duration
}

func (f *countingFetcher) Fetch(context.Context) (*dataset.Dataset, error) {
	n := f.calls.Add(1)
	time.Sleep(f.delay)
	return dataset.New([]dataset.Observation{{Country: "A", Year: 2000 + int(n), LifeExpectancy: 70}}), nil
}

func TestSessionKey(t *testing.T) {
	assert.Equal(t, "indicator:SP.DYN.LE00.IN", SessionKey)
}

func TestSession_Memoizes(t *testing.T) {
	f := &countingFetcher{}
	s := NewSession(New(f, nil))

	_, ok := s.cached()
	assert.False(t, ok)

	first := s.Get(context.Background())
	second := s.Get(context.Background())

	assert.Equal(t, int32(1), f.calls.Load())
	assert.Equal(t, first.Dataset.Rows(), second.Dataset.Rows())

	cached, ok := s.cached()
	require.True(t, ok)
	assert.Equal(t, StatusLive, cached.Status)
}

func TestSession_Refresh(t *testing.T) {
	f := &countingFetcher{}
	s := NewSession(New(f, nil))

	first := s.Get(context.Background())
	refreshed := s.Refresh(context.Background())
	after := s.Get(context.Background())

	assert.Equal(t, int32(2), f.calls.Load())
	assert.NotEqual(t, first.Dataset.Rows(), refreshed.Dataset.Rows())
	assert.Equal(t, refreshed.Dataset.Rows(), after.Dataset.Rows())
}

func TestSession_ConcurrentCallersShareLoad(t *testing.T) {
	f := &countingFetcher{delay: 50 * time.Millisecond}
	s := NewSession(New(f, nil))

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res := s.Get(context.Background())
			assert.Equal(t, StatusLive, res.Status)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), f.calls.Load())
}

func TestSession_CancelledCallerDoesNotAbortLoad(t *testing.T) {
	f := &countingFetcher{}
	s := NewSession(New(f, nil))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := s.Get(ctx)
	assert.Equal(t, StatusLive, res.Status)
}

// gatedFetcher fails slowly while down and succeeds at once while up.
type gatedFetcher struct {
	calls atomic.Int32
	up    atomic.Bool
	delay time.Duration
}

func (f *gatedFetcher) Fetch(context.Context) (*dataset.Dataset, error) {
	up := f.up.Load()
	f.calls.Add(1)
	if !up {
		time.Sleep(f.delay)
		return nil, errors.New("source down")
	}
	return dataset.New([]dataset.Observation{{Country: "A", Year: 2000, LifeExpectancy: 70}}), nil
}

func TestSession_RefreshDoesNotJoinInFlightGet(t *testing.T) {
	f := &gatedFetcher{delay: 200 * time.Millisecond}
	s := NewSession(New(f, nil))

	getDone := make(chan Result, 1)
	go func() { getDone <- s.Get(context.Background()) }()

	require.Eventually(t, func() bool { return f.calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	f.up.Store(true)

	refreshed := s.Refresh(context.Background())
	assert.Equal(t, StatusLive, refreshed.Status)
	assert.Equal(t, int32(2), f.calls.Load())

	stale := <-getDone
	assert.Equal(t, StatusUnavailable, stale.Status)

	// The older Get finished last but must not replace the refreshed result.
	after := s.Get(context.Background())
	assert.Equal(t, StatusLive, after.Status)
	assert.Equal(t, int32(2), f.calls.Load())
}
