package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/wonny/companydata/internal/contracts"
	"github.com/wonny/companydata/pkg/logger"
)

// maxRequestBytes caps request bodies; valid bodies are two short strings
const maxRequestBytes = 64 << 10

// WelcomeMessage is served on GET /
const WelcomeMessage = "Welcome to the Company Data API!"

// Error messages returned to callers
const (
	msgSymbolRequired    = "Symbol is required"
	msgCIKRequired       = "CIK (Central Index Key) is required"
	msgSymbolCIKRequired = "Symbol and CIK are required"
	msgInvalidSymbol     = "Invalid symbol or no data found"
	msgLiveDataFailed    = "Failed to fetch live data"
	msgFilingsFailed     = "Failed to fetch 10-K filings"
	msgCompanyDataFailed = "Failed to fetch data"
)

// Aggregator is the orchestration the handlers delegate to
type Aggregator interface {
	Quote(ctx context.Context, symbol string) (contracts.QuoteRecord, error)
	Filings(ctx context.Context, cik string) ([]string, error)
	CompanyAnalysis(ctx context.Context, symbol, cik string) (*contracts.CompanyAnalysis, error)
}

// CompanyHandler handles company data API endpoints
// ⭐ SSOT: 회사 데이터 API 핸들러는 이 구조체에서만
type CompanyHandler struct {
	service Aggregator
	logger  *logger.Logger
}

// NewCompanyHandler creates a new company handler
func NewCompanyHandler(service Aggregator, log *logger.Logger) *CompanyHandler {
	return &CompanyHandler{
		service: service,
		logger:  log,
	}
}

// CompanyRequest is the JSON body accepted by the POST endpoints
type CompanyRequest struct {
	Symbol string `json:"symbol"`
	CIK    string `json:"cik"`
}

// decodeRequest reads the body. Each field is judged on its own: a missing,
// null or non-string value reads as "" without discarding the other fields.
// An unreadable or non-object body decodes to the zero request.
func decodeRequest(r *http.Request) CompanyRequest {
	var req CompanyRequest
	if r.Body == nil {
		return req
	}

	var fields map[string]json.RawMessage
	if err := json.NewDecoder(io.LimitReader(r.Body, maxRequestBytes)).Decode(&fields); err != nil {
		return req
	}

	req.Symbol = stringField(fields, "symbol")
	req.CIK = stringField(fields, "cik")
	return req
}

func stringField(fields map[string]json.RawMessage, key string) string {
	var v string
	if err := json.Unmarshal(fields[key], &v); err != nil {
		return ""
	}
	return v
}

// Home returns the welcome text
// GET /
func (h *CompanyHandler) Home(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, WelcomeMessage)
}

// FetchLiveData returns the raw overview record for a symbol
// POST /fetch_live_data {"symbol": "IBM"}
func (h *CompanyHandler) FetchLiveData(w http.ResponseWriter, r *http.Request) {
	req := decodeRequest(r)
	if req.Symbol == "" {
		respondError(w, http.StatusBadRequest, msgSymbolRequired)
		return
	}

	record, err := h.service.Quote(r.Context(), req.Symbol)
	if err != nil {
		log := h.logger.WithError(err).WithField("symbol", req.Symbol)
		switch {
		case errors.Is(err, contracts.ErrBadInput):
			respondError(w, http.StatusBadRequest, msgSymbolRequired)
		case errors.Is(err, contracts.ErrInvalidEntity):
			log.Info("Symbol not found")
			respondError(w, http.StatusNotFound, msgInvalidSymbol)
		default:
			status := passThroughStatus(err)
			log.WithField("status", status).Warn("Failed to fetch live data")
			respondError(w, status, msgLiveDataFailed)
		}
		return
	}

	respondJSON(w, http.StatusOK, record)
}

// FetchFilings returns the 10-K filing URLs for a CIK
// POST /fetch_10k_filing {"cik": "320193"}
func (h *CompanyHandler) FetchFilings(w http.ResponseWriter, r *http.Request) {
	req := decodeRequest(r)
	if req.CIK == "" {
		respondError(w, http.StatusBadRequest, msgCIKRequired)
		return
	}

	urls, err := h.service.Filings(r.Context(), req.CIK)
	if err != nil {
		if errors.Is(err, contracts.ErrBadInput) {
			respondError(w, http.StatusBadRequest, msgCIKRequired)
			return
		}
		h.logger.WithError(err).WithField("cik", req.CIK).Warn("Failed to fetch filings")
		respondError(w, http.StatusBadRequest, msgFilingsFailed)
		return
	}

	respondJSON(w, http.StatusOK, contracts.FilingURLs{FilingURLs: urls})
}

// CompanyAnalysis returns financial data, filing URLs and the verdict
// POST /company_analysis {"symbol": "AAPL", "cik": "320193"}
func (h *CompanyHandler) CompanyAnalysis(w http.ResponseWriter, r *http.Request) {
	req := decodeRequest(r)
	if req.Symbol == "" || req.CIK == "" {
		respondError(w, http.StatusBadRequest, msgSymbolCIKRequired)
		return
	}

	result, err := h.service.CompanyAnalysis(r.Context(), req.Symbol, req.CIK)
	if err != nil {
		if errors.Is(err, contracts.ErrBadInput) {
			respondError(w, http.StatusBadRequest, msgSymbolCIKRequired)
			return
		}
		h.logger.WithError(err).WithFields(map[string]interface{}{
			"symbol": req.Symbol,
			"cik":    req.CIK,
		}).Warn("Failed to build company analysis")
		respondError(w, http.StatusBadRequest, msgCompanyDataFailed)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// passThroughStatus returns the upstream's error status, or 502 when there
// is none to pass on (timeout, refused connection, non-error status)
func passThroughStatus(err error) int {
	if status, ok := contracts.UpstreamStatus(err); ok && status >= 400 && status <= 599 {
		return status
	}
	return http.StatusBadGateway
}
