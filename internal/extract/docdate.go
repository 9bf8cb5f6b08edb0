package extract

import (
	"regexp"

	"github.com/MeKo-Tech/chartfile/internal/forms"
)

// documentDatePattern matches stamped footer dates, independent of form type.
var documentDatePattern = regexp.MustCompile(`\d{2}/\d{2}/\d{4}`)

// DocumentDate finds all date-shaped substrings in the footer recognition
// text and returns the last one, or the null-date sentinel if none is found.
// Footers can carry an earlier printed template date followed by the stamped
// filing date, and the later occurrence is the authoritative one.
func DocumentDate(footerText string, s forms.Sentinels) string {
	matches := documentDatePattern.FindAllString(footerText, -1)
	if len(matches) == 0 {
		return s.Date
	}
	return matches[len(matches)-1]
}
