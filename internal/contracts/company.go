package contracts

// AnalysisVerdict is the pros/cons outcome of the threshold rules
type AnalysisVerdict struct {
	Pros []string `json:"pros"`
	Cons []string `json:"cons"`
}

// NewAnalysisVerdict returns a verdict whose lists encode as [] rather than null
func NewAnalysisVerdict() AnalysisVerdict {
	return AnalysisVerdict{
		Pros: []string{},
		Cons: []string{},
	}
}

// FilingURLs is the response body of the filings lookup
type FilingURLs struct {
	FilingURLs []string `json:"filing_urls"`
}

// CompanyAnalysis merges both upstreams with the derived verdict
// ⭐ SSOT: 통합 분석 응답 구조는 여기서만
type CompanyAnalysis struct {
	FinancialData QuoteRecord     `json:"financial_data"`
	FilingURLs    []string        `json:"filing_urls"`
	Analysis      AnalysisVerdict `json:"analysis"`
}

// Filing is one registry document retained by the form filter
type Filing struct {
	Form            string `json:"form"`
	AccessionNumber string `json:"accession_number,omitempty"`
	FilingDate      string `json:"filing_date,omitempty"`
	ReportDate      string `json:"report_date,omitempty"`
	PrimaryDocument string `json:"primary_document"`
	URL             string `json:"url"`
}
