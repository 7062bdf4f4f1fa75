package httputil

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/companydata/pkg/config"
	"github.com/wonny/companydata/pkg/logger"
)

func testConfig() *config.Config {
	return &config.Config{
		Env:      "test",
		LogLevel: "error",
		HTTP:     config.HTTPConfig{Timeout: 2 * time.Second},
	}
}

func TestNew(t *testing.T) {
	cfg := testConfig()
	client := New(cfg, logger.New(cfg))

	require.NotNil(t, client)
	require.NotNil(t, client.httpClient)
	assert.Nil(t, client.httpClient.Jar)
	assert.Equal(t, 2*time.Second, client.Timeout())
}

func TestNewWithTimeout(t *testing.T) {
	cfg := testConfig()
	client := NewWithTimeout(cfg, logger.New(cfg), 5*time.Second)

	assert.Equal(t, 5*time.Second, client.Timeout())
}

func TestGetWithHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "Acme ops@acme.test", r.Header.Get("User-Agent"))
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}))
	defer server.Close()

	cfg := testConfig()
	client := New(cfg, logger.New(cfg))

	header := http.Header{}
	header.Set("User-Agent", "Acme ops@acme.test")

	resp, err := client.GetWithHeaders(context.Background(), server.URL, header)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestGetDoesNotRetry(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	cfg := testConfig()
	client := New(cfg, logger.New(cfg))

	resp, err := client.Get(context.Background(), server.URL)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, int32(1), atomic.LoadInt32(&attempts))
}

func TestGetTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(time.Second):
		case <-r.Context().Done():
		}
	}))
	defer server.Close()

	cfg := testConfig()
	client := NewWithTimeout(cfg, logger.New(cfg), 50*time.Millisecond)

	_, err := client.Get(context.Background(), server.URL+"?apikey=secret")
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "secret")
}

type countingLimiter struct {
	calls int
	err   error
}

func (l *countingLimiter) Wait(ctx context.Context) error {
	l.calls++
	return l.err
}

func TestWithRateLimiter(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	cfg := testConfig()
	base := New(cfg, logger.New(cfg))
	limiter := &countingLimiter{}
	limited := base.WithRateLimiter(limiter)

	resp, err := limited.Get(context.Background(), server.URL)
	require.NoError(t, err)
	resp.Body.Close()

	resp, err = base.Get(context.Background(), server.URL)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, 1, limiter.calls, "base client must not share the limiter")
	assert.Same(t, base.httpClient, limited.httpClient)
}

func TestRateLimiterErrorAbortsRequest(t *testing.T) {
	var hit bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hit = true
	}))
	defer server.Close()

	cfg := testConfig()
	client := New(cfg, logger.New(cfg)).WithRateLimiter(&countingLimiter{err: context.Canceled})

	_, err := client.Get(context.Background(), server.URL)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.False(t, hit)
}

func TestRateLimitWaitBoundedByTimeout(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	cfg := testConfig()
	cfg.HTTP.Timeout = 200 * time.Millisecond
	client := New(cfg, logger.New(cfg)).WithRateLimiter(NewLocalLimiter(0.5))

	resp, err := client.Get(context.Background(), server.URL)
	require.NoError(t, err)
	resp.Body.Close()

	// the next token is 2s away, past the 200ms budget
	start := time.Now()
	_, err = client.Get(context.Background(), server.URL)
	require.Error(t, err)
	assert.Less(t, time.Since(start), time.Second)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestResponseBodyReadableAfterReturn(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}))
	defer server.Close()

	cfg := testConfig()
	client := New(cfg, logger.New(cfg))

	resp, err := client.Get(context.Background(), server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, `{"status":"ok"}`, buf.String())
}

func TestRedactURL(t *testing.T) {
	u, _ := url.Parse("https://www.alphavantage.co/query?function=OVERVIEW&symbol=IBM&apikey=secret")
	got := redactURL(u)

	assert.NotContains(t, got, "secret")
	assert.Contains(t, got, "apikey=REDACTED")
	assert.Contains(t, got, "symbol=IBM")

	plain, _ := url.Parse("https://data.sec.gov/submissions/CIK0000320193.json")
	assert.Equal(t, plain.String(), redactURL(plain))
}

func TestRequestLogsRedactedURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	var buf bytes.Buffer
	cfg := testConfig()
	cfg.LogLevel = "debug"
	client := New(cfg, logger.NewWithWriter(cfg, &buf))

	resp, err := client.Get(context.Background(), server.URL+"?apikey=secret")
	require.NoError(t, err)
	resp.Body.Close()

	assert.Contains(t, buf.String(), "HTTP request completed")
	assert.NotContains(t, buf.String(), "secret")
}

func TestNewLocalLimiter(t *testing.T) {
	assert.Nil(t, NewLocalLimiter(0))
	assert.Nil(t, NewLocalLimiter(-1))

	limiter := NewLocalLimiter(100)
	require.NotNil(t, limiter)
	require.NoError(t, limiter.Wait(context.Background()))
}
