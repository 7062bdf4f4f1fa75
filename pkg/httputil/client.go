package httputil

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/wonny/companydata/pkg/config"
	"github.com/wonny/companydata/pkg/logger"
)

// redactedParams are query parameters never written to logs
var redactedParams = []string{"apikey", "api_key", "token"}

// Client is an HTTP client wrapper with rate limiting and logging.
// Upstream calls are never retried; a failed attempt is reported as is.
// ⭐ SSOT: 모든 HTTP 요청은 이 클라이언트를 통해서만 수행
type Client struct {
	httpClient *http.Client
	logger     *logger.Logger
	limiter    Limiter
}

// New creates a new HTTP client from config
// ⭐ SSOT: http.Client 인스턴스는 여기서만 생성
func New(cfg *config.Config, log *logger.Logger) *Client {
	return NewWithTimeout(cfg, log, cfg.HTTP.Timeout)
}

// NewWithTimeout creates a client with custom timeout
func NewWithTimeout(cfg *config.Config, log *logger.Logger, timeout time.Duration) *Client {
	maxIdle := cfg.HTTP.MaxIdleConns
	if maxIdle <= 0 {
		maxIdle = 20
	}
	idleTimeout := cfg.HTTP.IdleConnTimeout
	if idleTimeout <= 0 {
		idleTimeout = 90 * time.Second
	}

	tr := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		TLSHandshakeTimeout:   10 * time.Second,
		MaxIdleConns:          maxIdle,
		MaxIdleConnsPerHost:   maxIdle / 2,
		IdleConnTimeout:       idleTimeout,
		ExpectContinueTimeout: 1 * time.Second,
	}

	// No cookie jar: nothing observable is shared between requests.
	return &Client{
		httpClient: &http.Client{
			Transport: tr,
			Timeout:   timeout,
		},
		logger: log,
	}
}

// WithRateLimiter returns a copy of the client that waits on limiter before
// every request. The copy shares the connection pool.
func (c *Client) WithRateLimiter(limiter Limiter) *Client {
	clone := *c
	clone.limiter = limiter
	return &clone
}

// Timeout returns the per-request timeout
func (c *Client) Timeout() time.Duration {
	return c.httpClient.Timeout
}

// Get performs a GET request
func (c *Client) Get(ctx context.Context, url string) (*http.Response, error) {
	return c.GetWithHeaders(ctx, url, nil)
}

// GetWithHeaders performs a GET request carrying the given headers
func (c *Client) GetWithHeaders(ctx context.Context, url string, header http.Header) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create GET request: %w", err)
	}

	for key, values := range header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	return c.do(req)
}

// do executes the request once, with rate limiting and logging
func (c *Client) do(req *http.Request) (*http.Response, error) {
	startTime := time.Now()
	target := redactURL(req.URL)
	method := req.Method

	// HTTP_TIMEOUT bounds the limiter wait and the round trip together
	var (
		ctx    context.Context
		cancel context.CancelFunc
	)
	if timeout := c.httpClient.Timeout; timeout > 0 {
		ctx, cancel = context.WithTimeout(req.Context(), timeout)
	} else {
		ctx, cancel = context.WithCancel(req.Context())
	}
	req = req.WithContext(ctx)

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			cancel()
			c.logger.WithFields(map[string]interface{}{
				"method": method,
				"url":    target,
				"error":  err.Error(),
			}).Warn("Rate limit wait aborted")
			return nil, fmt.Errorf("rate limit wait failed: %w", err)
		}
	}

	c.logger.WithFields(map[string]interface{}{
		"method": method,
		"url":    target,
	}).Debug("HTTP request started")

	resp, err := c.httpClient.Do(req)

	duration := time.Since(startTime)

	if err != nil {
		cancel()
		// url.Error repeats the raw URL, including credentials
		if uerr, ok := err.(*url.Error); ok {
			err = fmt.Errorf("%s %s: %w", uerr.Op, target, uerr.Err)
		}
		c.logger.WithFields(map[string]interface{}{
			"method":   method,
			"url":      target,
			"duration": duration,
			"error":    err.Error(),
		}).Error("HTTP request failed")
		return nil, err
	}

	c.logger.WithFields(map[string]interface{}{
		"method":      method,
		"url":         target,
		"status_code": resp.StatusCode,
		"duration":    duration,
	}).Debug("HTTP request completed")

	resp.Body = &cancelOnClose{ReadCloser: resp.Body, cancel: cancel}
	return resp, nil
}

// cancelOnClose releases the request context once the caller is done with
// the body
type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (b *cancelOnClose) Close() error {
	err := b.ReadCloser.Close()
	b.cancel()
	return err
}

// redactURL renders u with credential query parameters masked
func redactURL(u *url.URL) string {
	if u == nil {
		return ""
	}
	q := u.Query()
	changed := false
	for _, p := range redactedParams {
		if q.Has(p) {
			q.Set(p, "REDACTED")
			changed = true
		}
	}
	if !changed {
		return u.String()
	}
	clone := *u
	clone.RawQuery = q.Encode()
	return clone.String()
}
