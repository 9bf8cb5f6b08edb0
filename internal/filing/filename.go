package filing

// Package filing derives canonical document filenames and decides whether a
// page still needs to be uploaded.

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/MeKo-Tech/chartfile/internal/forms"
)

// Filename derives the canonical document name for a filing date and form
// type. Filing granularity is monthly, so the day of month is dropped. A
// null-date sentinel yields the unknown-date name, and an unresolvable month
// component degrades to "UnknownMonth" rather than failing.
func Filename(date string, form forms.FormType, s forms.Sentinels) string {
	if date == s.Date {
		return fmt.Sprintf("Unknown-Document-Date-%s.pdf", form)
	}

	parts := strings.Split(date, "/")
	if len(parts) != 3 {
		return fmt.Sprintf("Unknown-Document-Date-%s.pdf", form)
	}

	month := "UnknownMonth"
	if m, err := strconv.Atoi(parts[0]); err == nil && m >= 1 && m <= 12 {
		month = time.Month(m).String()
	}
	return fmt.Sprintf("%s-%s-%s.pdf", month, parts[2], form)
}

// NeedsUpload reports whether filename is absent from the filed names.
// Name absence is the sole deduplication mechanism: repeated runs over the
// same batch must not create duplicate filings, and two distinct documents
// sharing month, year, and form type collide so only one is retained.
func NeedsUpload(filename string, existing []string) bool {
	for _, name := range existing {
		if name == filename {
			return false
		}
	}
	return true
}
