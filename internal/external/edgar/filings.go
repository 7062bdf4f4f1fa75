package edgar

import (
	"strings"

	"github.com/wonny/companydata/internal/contracts"
)

// PadCIK left-pads cik with zeros to CIKWidth. Surrounding whitespace is
// dropped; longer values are returned unchanged, so padding is idempotent.
func PadCIK(cik string) string {
	cik = strings.TrimSpace(cik)
	if len(cik) >= CIKWidth {
		return cik
	}
	return strings.Repeat("0", CIKWidth-len(cik)) + cik
}

// FilterFilings zips the parallel arrays by index and keeps the entries whose
// form label contains formType (so "10-K/A" matches "10-K"). Arrays of
// unequal length are truncated to the shorter of form and primaryDocument.
// The result is never nil.
func FilterFilings(recent RecentFilings, formType, archiveBaseURL string) []contracts.Filing {
	n := len(recent.PrimaryDocument)
	if len(recent.Form) < n {
		n = len(recent.Form)
	}

	filings := make([]contracts.Filing, 0)
	for i := 0; i < n; i++ {
		form := recent.Form[i]
		if !strings.Contains(form, formType) {
			continue
		}

		path := recent.PrimaryDocument[i]
		filings = append(filings, contracts.Filing{
			Form:            form,
			AccessionNumber: at(recent.AccessionNumber, i),
			FilingDate:      at(recent.FilingDate, i),
			ReportDate:      at(recent.ReportDate, i),
			PrimaryDocument: path,
			URL:             ArchiveURL(archiveBaseURL, path),
		})
	}

	return filings
}

// ArchiveURL resolves a document path against the archive base
func ArchiveURL(archiveBaseURL, path string) string {
	return strings.TrimRight(archiveBaseURL, "/") + "/" + strings.TrimLeft(path, "/")
}

// at returns s[i], or "" for a short optional array
func at(s []string, i int) string {
	if i < len(s) {
		return s[i]
	}
	return ""
}
