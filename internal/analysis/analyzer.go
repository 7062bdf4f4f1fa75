package analysis

import "github.com/wonny/companydata/internal/contracts"

// Quote fields read by the rules
const (
	FieldProfitMargin = "ProfitMargin"
	FieldPEGRatio     = "PEGRatio"
)

// Thresholds
const (
	HighProfitMargin = 0.2
	FairPEGRatio     = 1.0
)

// Verdict strings
const (
	ProHighProfitMargin = "High profit margin"
	ConLowProfitMargin  = "Low profit margin"
	ProUndervalued      = "Undervalued stock (based on valuation ratio)"
	ConOvervalued       = "Overvalued stock (based on valuation ratio)"
)

// rule contributes exactly one string to either pros or cons
type rule struct {
	field string
	pass  func(v float64) bool
	pro   string
	con   string
}

var rules = []rule{
	{
		field: FieldProfitMargin,
		pass:  func(v float64) bool { return v > HighProfitMargin },
		pro:   ProHighProfitMargin,
		con:   ConLowProfitMargin,
	},
	{
		field: FieldPEGRatio,
		pass:  func(v float64) bool { return v < FairPEGRatio },
		pro:   ProUndervalued,
		con:   ConOvervalued,
	},
}

// Analyze evaluates every rule against the record. Absent or non-numeric
// fields read as 0; Analyze never fails.
// ⭐ SSOT: 장단점 판정은 이 함수에서만
func Analyze(record contracts.QuoteRecord) contracts.AnalysisVerdict {
	verdict := contracts.NewAnalysisVerdict()

	for _, r := range rules {
		if r.pass(record.FloatOr(r.field, 0)) {
			verdict.Pros = append(verdict.Pros, r.pro)
		} else {
			verdict.Cons = append(verdict.Cons, r.con)
		}
	}

	return verdict
}
