package httpx

import (
	"compress/gzip"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getter(url string) func(context.Context) (*http.Request, error) {
	return func(ctx context.Context) (*http.Request, error) {
		return NewGetRequest(ctx, url)
	}
}

func TestDo_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Equal(t, AcceptEncoding, r.Header.Get("Accept-Encoding"))
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	resp, body, err := Do(context.Background(), srv.Client(), getter(srv.URL), SingleAttempt(time.Second))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"ok":true}`, string(body))
}

func TestDo_DecodesCompressedBodies(t *testing.T) {
	tests := []struct {
		name     string
		encoding string
		write    func(w http.ResponseWriter, payload string)
	}{
		{
			name:     "brotli",
			encoding: "br",
			write: func(w http.ResponseWriter, payload string) {
				bw := brotli.NewWriter(w)
				_, _ = bw.Write([]byte(payload))
				_ = bw.Close()
			},
		},
		{
			name:     "gzip",
			encoding: "gzip",
			write: func(w http.ResponseWriter, payload string) {
				gw := gzip.NewWriter(w)
				_, _ = gw.Write([]byte(payload))
				_ = gw.Close()
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Encoding", tt.encoding)
				tt.write(w, `[1,2,3]`)
			}))
			defer srv.Close()

			var out []int
			err := DoJSON(context.Background(), srv.Client(), getter(srv.URL), &out, SingleAttempt(time.Second))
			require.NoError(t, err)
			assert.Equal(t, []int{1, 2, 3}, out)
		})
	}
}

func TestDo_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"status":404,"message":"Not Found"}`))
	}))
	defer srv.Close()

	_, _, err := Do(context.Background(), srv.Client(), getter(srv.URL), SingleAttempt(time.Second))
	require.Error(t, err)

	var herr *HTTPError
	require.True(t, errors.As(err, &herr))
	assert.Equal(t, http.StatusNotFound, herr.StatusCode)
	assert.Contains(t, herr.Error(), "status=404")
	assert.Contains(t, herr.Error(), "Not Found")
}

func TestDo_RetriesWithinBound(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`"ok"`))
	}))
	defer srv.Close()

	cfg := DefaultRetryConfig(2*time.Second, 2)
	cfg.BaseDelay = time.Millisecond
	cfg.MaxDelay = 5 * time.Millisecond

	var out string
	require.NoError(t, DoJSON(context.Background(), srv.Client(), getter(srv.URL), &out, cfg))
	assert.Equal(t, "ok", out)
	assert.Equal(t, int32(2), calls.Load())
}

func TestDo_SingleAttemptDoesNotRetry(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, _, err := Do(context.Background(), srv.Client(), getter(srv.URL), SingleAttempt(time.Second))
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestDo_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	start := time.Now()
	_, _, err := Do(context.Background(), srv.Client(), getter(srv.URL), SingleAttempt(50*time.Millisecond))
	require.Error(t, err)
	assert.True(t, IsTimeout(err), "got %v", err)
	assert.Less(t, time.Since(start), time.Second)
}

func TestDo_BuildRequestError(t *testing.T) {
	build := func(context.Context) (*http.Request, error) {
		return nil, errors.New("request build error")
	}
	_, _, err := Do(context.Background(), nil, build, SingleAttempt(time.Second))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "request build error")
}

func TestDoJSON_InvalidJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"name": invalid}`))
	}))
	defer srv.Close()

	var out map[string]any
	err := DoJSON(context.Background(), srv.Client(), getter(srv.URL), &out, SingleAttempt(time.Second))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "json parse error")
}

func TestIsRetryableStatus(t *testing.T) {
	cfg := DefaultRetryConfig(time.Second, 3)

	for _, code := range []int{500, 502, 503, 599, 429, 408} {
		assert.True(t, isRetryableStatus(code, cfg), "status %d", code)
	}
	for _, code := range []int{400, 401, 403, 404, 422} {
		assert.False(t, isRetryableStatus(code, cfg), "status %d", code)
	}

	cfg.Retry5xx = false
	assert.False(t, isRetryableStatus(500, cfg))
	assert.True(t, isRetryableStatus(429, cfg))
}

func TestIsRetryableNetErr(t *testing.T) {
	assert.False(t, isRetryableNetErr(context.Canceled))
	assert.False(t, isRetryableNetErr(context.DeadlineExceeded))
	assert.True(t, isRetryableNetErr(&timeoutError{}))
	assert.True(t, isRetryableNetErr(errors.New("connection reset by peer")))
	assert.True(t, isRetryableNetErr(errors.New("unexpected EOF")))
	assert.False(t, isRetryableNetErr(errors.New("some other error")))
}

func TestParseRetryAfter(t *testing.T) {
	resp := &http.Response{Header: http.Header{}}

	resp.Header.Set("Retry-After", "30")
	assert.Equal(t, 30*time.Second, ParseRetryAfter(resp))

	resp.Header.Set("Retry-After", time.Now().Add(-time.Minute).UTC().Format(http.TimeFormat))
	assert.Equal(t, time.Duration(0), ParseRetryAfter(resp))

	resp.Header.Set("Retry-After", "invalid")
	assert.Equal(t, time.Duration(0), ParseRetryAfter(resp))

	resp.Header.Del("Retry-After")
	assert.Equal(t, time.Duration(0), ParseRetryAfter(resp))
}

func TestSnippet(t *testing.T) {
	assert.Equal(t, "short", snippet([]byte("  short  "), 10))
	assert.Equal(t, "abc...", snippet([]byte("abcdef"), 3))
}

type timeoutError struct{}

func (e *timeoutError) Error() string   { return "timeout error" }
func (e *timeoutError) Timeout() bool   { return true }
func (e *timeoutError) Temporary() bool { return true }
