package aggregator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/wonny/companydata/internal/analysis"
	"github.com/wonny/companydata/internal/contracts"
	"github.com/wonny/companydata/pkg/logger"
)

// Stage is a step of the per-request pipeline
type Stage string

const (
	StageValidatingInput   Stage = "validating_input"
	StageAwaitingUpstreams Stage = "awaiting_upstreams"
	StageMerging           Stage = "merging"
	StageCompleted         Stage = "completed"
	StageRejectedBadInput  Stage = "rejected_bad_input"
	StageUpstreamError     Stage = "upstream_error"
)

// Service validates inputs, calls the upstream fetchers and merges results.
// It holds no per-request state and is safe for concurrent use.
// ⭐ SSOT: 다중 소스 집계 오케스트레이션은 이 서비스에서만
type Service struct {
	quotes  contracts.QuoteFetcher
	filings contracts.FilingFetcher
	logger  *logger.Logger
}

// NewService creates a new aggregation service
func NewService(quotes contracts.QuoteFetcher, filings contracts.FilingFetcher, log *logger.Logger) *Service {
	return &Service{
		quotes:  quotes,
		filings: filings,
		logger:  log.WithField("module", "aggregator"),
	}
}

// Quote returns the overview record for symbol
func (s *Service) Quote(ctx context.Context, symbol string) (contracts.QuoteRecord, error) {
	log := s.logger.WithFields(map[string]interface{}{"op": "quote", "symbol": symbol})

	if symbol == "" {
		s.stage(log, StageRejectedBadInput)
		return contracts.QuoteRecord{}, contracts.MissingField("symbol")
	}

	s.stage(log, StageAwaitingUpstreams)
	record, err := s.quotes.FetchOverview(ctx, symbol)
	if err != nil {
		s.stage(log.WithError(err), StageUpstreamError)
		return contracts.QuoteRecord{}, fmt.Errorf("fetch quote: %w", err)
	}

	s.stage(log, StageCompleted)
	return record, nil
}

// Filings returns the category-filtered filing URLs for cik
func (s *Service) Filings(ctx context.Context, cik string) ([]string, error) {
	log := s.logger.WithFields(map[string]interface{}{"op": "filings", "cik": cik})

	if strings.TrimSpace(cik) == "" {
		s.stage(log, StageRejectedBadInput)
		return nil, contracts.MissingField("cik")
	}

	s.stage(log, StageAwaitingUpstreams)
	urls, err := s.filings.FetchFilingURLs(ctx, cik)
	if err != nil {
		s.stage(log.WithError(err), StageUpstreamError)
		return nil, fmt.Errorf("fetch filings: %w", err)
	}

	s.stage(log, StageCompleted)
	return nonNil(urls), nil
}

// CompanyAnalysis fetches both sources concurrently and merges them with the
// verdict. The first failure cancels the other call; no partial result is
// returned.
func (s *Service) CompanyAnalysis(ctx context.Context, symbol, cik string) (*contracts.CompanyAnalysis, error) {
	log := s.logger.WithFields(map[string]interface{}{"op": "company_analysis", "symbol": symbol, "cik": cik})
	start := time.Now()

	s.stage(log, StageValidatingInput)
	if symbol == "" || strings.TrimSpace(cik) == "" {
		s.stage(log, StageRejectedBadInput)
		return nil, contracts.MissingField("symbol and cik")
	}

	s.stage(log, StageAwaitingUpstreams)

	var (
		record contracts.QuoteRecord
		urls   []string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		record, err = s.quotes.FetchOverview(gctx, symbol)
		if err != nil {
			return fmt.Errorf("fetch quote: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		urls, err = s.filings.FetchFilingURLs(gctx, cik)
		if err != nil {
			return fmt.Errorf("fetch filings: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		s.stage(log.WithError(err), StageUpstreamError)
		return nil, err
	}

	s.stage(log, StageMerging)
	result := &contracts.CompanyAnalysis{
		FinancialData: record,
		FilingURLs:    nonNil(urls),
		Analysis:      analysis.Analyze(record),
	}

	s.stage(log.WithField("duration", time.Since(start)), StageCompleted)
	return result, nil
}

func (s *Service) stage(log *logger.Logger, stage Stage) {
	log.WithField("stage", string(stage)).Debug("Aggregation stage")
}

func nonNil(urls []string) []string {
	if urls == nil {
		return []string{}
	}
	return urls
}
