package match

import (
	"golang.org/x/text/language"
	"golang.org/x/text/search"

	"github.com/MeKo-Tech/chartfile/internal/extract"
	"github.com/MeKo-Tech/chartfile/internal/forms"
)

// folder performs case-insensitive substring search with Unicode case
// folding. The pipeline is single-threaded, so sharing one matcher is fine.
var folder = search.New(language.Und, search.IgnoreCase)

// contains reports whether needle occurs in hay, ignoring case.
func contains(hay, needle string) bool {
	if needle == "" {
		return true
	}
	start, _ := folder.IndexString(hay, needle)
	return start >= 0
}

// Score evaluates every candidate row in table order against the record and
// returns the first row satisfying the form's acceptance rule. Row order is
// the tie-break: the first accepted row wins, not the best-scoring one.
func Score(rec extract.Record, rows []CandidateRow) Decision {
	for _, row := range rows {
		if accepted(rec, row) {
			return Decision{Matched: true, RowIndex: row.Row}
		}
	}
	return Decision{Matched: false, RowIndex: -1}
}

// accepted applies the per-form acceptance rule to a single candidate row.
func accepted(rec extract.Record, row CandidateRow) bool {
	dobOK := contains(row.DOB, rec.DOB)

	if rec.Form == forms.VisualField {
		firstOK := contains(row.Name, rec.FirstName)
		lastOK := contains(row.Name, rec.LastName)
		return (firstOK || lastOK) && dobOK
	}

	// Intake rule: exact corroboration on name+DOB, or partial corroboration
	// from at least two independent field groups. Tolerates OCR corruption
	// of any single field.
	nameOK := contains(row.Name, rec.FirstName) && contains(row.Name, rec.LastName)
	sexOK := contains(row.Sex, rec.Sex)
	phoneOK := contains(row.Phone, rec.Phone)
	addressOK := contains(row.Address, rec.Address)
	providerOK := contains(row.Provider, rec.Provider)

	if nameOK && dobOK {
		return true
	}
	return (nameOK || dobOK) && (sexOK || providerOK) && (phoneOK || addressOK)
}
