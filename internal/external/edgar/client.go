package edgar

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/wonny/companydata/internal/contracts"
	"github.com/wonny/companydata/pkg/config"
	"github.com/wonny/companydata/pkg/httputil"
	"github.com/wonny/companydata/pkg/logger"
)

// Source identifies this upstream in errors and logs
const Source = "edgar"

// CIKWidth is the zero-padded width of a Central Index Key
const CIKWidth = 10

// maxBodyBytes caps the submissions payload; large filers run to a few MB
const maxBodyBytes = 32 << 20

// Client handles communication with the SEC EDGAR submissions API
// ⭐ SSOT: EDGAR API 호출은 이 클라이언트에서만
type Client struct {
	httpClient     *httputil.Client
	logger         *logger.Logger
	baseURL        string
	archiveBaseURL string
	userAgent      string
	formType       string
}

// NewClient creates a new EDGAR client
func NewClient(httpClient *httputil.Client, cfg config.SECConfig, log *logger.Logger) *Client {
	return &Client{
		httpClient:     httpClient,
		logger:         log.WithField("source", Source),
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		archiveBaseURL: cfg.ArchiveBaseURL,
		userAgent:      cfg.UserAgent,
		formType:       cfg.FormType,
	}
}

// FormType returns the form category this client filters on
func (c *Client) FormType() string {
	return c.formType
}

// SubmissionsResponse is the subset of the submissions document we read
type SubmissionsResponse struct {
	CIK     string `json:"cik"`
	Name    string `json:"name"`
	Filings struct {
		Recent RecentFilings `json:"recent"`
	} `json:"filings"`
}

// RecentFilings holds index-aligned parallel arrays, one entry per filing
type RecentFilings struct {
	AccessionNumber []string `json:"accessionNumber"`
	FilingDate      []string `json:"filingDate"`
	ReportDate      []string `json:"reportDate"`
	Form            []string `json:"form"`
	PrimaryDocument []string `json:"primaryDocument"`
}

// FetchFilingURLs returns absolute URLs of the filings whose form contains
// the configured form type, in upstream order.
func (c *Client) FetchFilingURLs(ctx context.Context, cik string) ([]string, error) {
	filings, err := c.FetchFilings(ctx, cik)
	if err != nil {
		return nil, err
	}

	urls := make([]string, len(filings))
	for i, f := range filings {
		urls[i] = f.URL
	}
	return urls, nil
}

// FetchFilings returns the filtered filings with their metadata
func (c *Client) FetchFilings(ctx context.Context, cik string) ([]contracts.Filing, error) {
	sub, err := c.fetchSubmissions(ctx, cik)
	if err != nil {
		return nil, err
	}

	filings := FilterFilings(sub.Filings.Recent, c.formType, c.archiveBaseURL)

	c.logger.WithFields(map[string]interface{}{
		"cik":     PadCIK(cik),
		"form":    c.formType,
		"total":   len(sub.Filings.Recent.Form),
		"matched": len(filings),
	}).Debug("Filtered filings")

	return filings, nil
}

// fetchSubmissions fetches the submissions document for cik
func (c *Client) fetchSubmissions(ctx context.Context, cik string) (*SubmissionsResponse, error) {
	if strings.TrimSpace(cik) == "" {
		return nil, contracts.MissingField("cik")
	}

	header := http.Header{}
	header.Set("User-Agent", c.userAgent)
	header.Set("Accept", "application/json")

	resp, err := c.httpClient.GetWithHeaders(ctx, c.SubmissionsURL(cik), header)
	if err != nil {
		return nil, &contracts.UpstreamError{Source: Source, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &contracts.UpstreamError{Source: Source, StatusCode: resp.StatusCode}
	}

	var result SubmissionsResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&result); err != nil {
		return nil, &contracts.UpstreamError{Source: Source, Err: fmt.Errorf("decode response: %w", err)}
	}

	return &result, nil
}

// SubmissionsURL builds the per-entity submissions endpoint
func (c *Client) SubmissionsURL(cik string) string {
	return fmt.Sprintf("%s/submissions/CIK%s.json", c.baseURL, PadCIK(cik))
}
