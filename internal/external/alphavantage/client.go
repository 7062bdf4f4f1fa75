package alphavantage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/wonny/companydata/internal/contracts"
	"github.com/wonny/companydata/pkg/config"
	"github.com/wonny/companydata/pkg/httputil"
	"github.com/wonny/companydata/pkg/logger"
)

// Source identifies this upstream in errors and logs
const Source = "alphavantage"

// maxBodyBytes caps the overview payload (a few KB in practice)
const maxBodyBytes = 1 << 20

// Keys the provider uses instead of data when throttling or rejecting a call
var noticeKeys = []string{"Note", "Information", "Error Message"}

// Client handles communication with the Alpha Vantage API
// ⭐ SSOT: Alpha Vantage API 호출은 이 클라이언트에서만
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	apiKey     string
	baseURL    string
	function   string
}

// NewClient creates a new Alpha Vantage client
func NewClient(httpClient *httputil.Client, cfg config.AlphaVantageConfig, log *logger.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     log.WithField("source", Source),
		apiKey:     cfg.APIKey,
		baseURL:    cfg.BaseURL,
		function:   cfg.Function,
	}
}

// FetchOverview fetches the company overview for symbol.
// A 200 without the symbol echo is contracts.ErrInvalidEntity; any other
// failure is a *contracts.UpstreamError.
func (c *Client) FetchOverview(ctx context.Context, symbol string) (contracts.QuoteRecord, error) {
	if symbol == "" {
		return contracts.QuoteRecord{}, contracts.MissingField("symbol")
	}

	resp, err := c.httpClient.Get(ctx, c.overviewURL(symbol))
	if err != nil {
		return contracts.QuoteRecord{}, &contracts.UpstreamError{Source: Source, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return contracts.QuoteRecord{}, &contracts.UpstreamError{Source: Source, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return contracts.QuoteRecord{}, &contracts.UpstreamError{Source: Source, Err: fmt.Errorf("read response body: %w", err)}
	}

	record, err := contracts.ParseQuoteRecord(body)
	if err != nil {
		return contracts.QuoteRecord{}, &contracts.UpstreamError{Source: Source, Err: err}
	}

	if !record.Valid() {
		c.logNotice(symbol, record)
		return contracts.QuoteRecord{}, fmt.Errorf("symbol %q: %w", symbol, contracts.ErrInvalidEntity)
	}

	return record, nil
}

// overviewURL builds the query URL; the symbol is passed through verbatim
func (c *Client) overviewURL(symbol string) string {
	params := url.Values{}
	params.Set("function", c.function)
	params.Set("symbol", symbol)
	params.Set("apikey", c.apiKey)
	return fmt.Sprintf("%s?%s", c.baseURL, params.Encode())
}

// logNotice surfaces provider throttle/rejection messages that arrive with 200
func (c *Client) logNotice(symbol string, record contracts.QuoteRecord) {
	for _, key := range noticeKeys {
		if msg, ok := record.String(key); ok {
			c.logger.WithFields(map[string]interface{}{
				"symbol": symbol,
				"notice": key,
			}).Warnf("provider returned notice instead of data: %s", msg)
			return
		}
	}
	c.logger.WithField("symbol", symbol).Debug("No overview data for symbol")
}
