package contracts

import "context"

// QuoteFetcher retrieves a company overview for a symbol
// ⭐ SSOT: 시세/개요 조회 인터페이스
type QuoteFetcher interface {
	FetchOverview(ctx context.Context, symbol string) (QuoteRecord, error)
}

// FilingFetcher retrieves category-filtered filing URLs for a registry id
// ⭐ SSOT: 공시 조회 인터페이스
type FilingFetcher interface {
	FetchFilingURLs(ctx context.Context, cik string) ([]string, error)
}
