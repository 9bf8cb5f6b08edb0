package extract

// Package extract derives structured patient records from recognized page
// text by applying per-form extraction rules.

import (
	"strconv"
	"strings"

	"github.com/MeKo-Tech/chartfile/internal/forms"
)

// Extract applies the given rule set to recognized page text and returns a
// structured record. It is a pure function of its inputs: unmatched fields
// resolve to their sentinel, matched values go through the rule's
// post-processor, and when a pattern matches multiple times the last
// occurrence wins.
func Extract(pageText string, form forms.FormType, rules []forms.Rule, s forms.Sentinels) Record {
	values := make(map[string]string, len(rules))
	for _, rule := range rules {
		values[rule.Field] = applyRule(pageText, rule, s)
	}

	rec := Record{Form: form}
	switch form {
	case forms.VisualField:
		last, first := splitFullName(values[forms.FieldFullName], s)
		rec.FirstName = first
		rec.LastName = last
		rec.DOB = fieldOr(values, forms.FieldDOB, s.Date)
		rec.ScreeningDate = fieldOr(values, forms.FieldScreeningDate, s.Date)
		rec.Sex = s.Text
		rec.Phone = s.Text
		rec.Address = s.Text
		rec.Provider = s.Text
		rec.DocumentDate = s.Date
	default:
		rec.FirstName = fieldOr(values, forms.FieldFirstName, s.Text)
		rec.LastName = fieldOr(values, forms.FieldLastName, s.Text)
		rec.DOB = fieldOr(values, forms.FieldDOB, s.Date)
		rec.Sex = fieldOr(values, forms.FieldSex, s.Text)
		rec.Phone = fieldOr(values, forms.FieldPhone, s.Phone)
		rec.Address = fieldOr(values, forms.FieldAddress, s.Text)
		rec.Provider = fieldOr(values, forms.FieldProvider, s.Text)
		rec.ScreeningDate = s.Date
		rec.DocumentDate = s.Date
	}

	return rec
}

// WithDocumentDate returns a copy of the record carrying the given footer
// date. A document date equal to the patient's date of birth is a
// misrecognized DOB, not a real filing date, and is reset to the null-date
// sentinel (intake forms only; visual field pages have no dated footer).
func (r Record) WithDocumentDate(date string, s forms.Sentinels) Record {
	if r.Form == forms.Intake && date == r.DOB {
		date = s.Date
	}
	r.DocumentDate = date
	return r
}

// applyRule matches one rule against the page text and post-processes the
// result. No match yields the rule's sentinel.
func applyRule(pageText string, rule forms.Rule, s forms.Sentinels) string {
	matches := rule.Pattern.FindAllStringSubmatch(pageText, -1)
	if len(matches) == 0 {
		return rule.SentinelFor(s)
	}
	value := matches[len(matches)-1][1]

	switch rule.Post {
	case forms.PostSex:
		return normalizeSex(value)
	case forms.PostDate:
		return normalizeDate(value, s)
	default:
		return value
	}
}

// normalizeSex corrects the single-letter sex code. OCR misreads "l" as "i"
// or "t" often enough that every occurrence is folded to "l". Idempotent.
func normalizeSex(v string) string {
	v = strings.ReplaceAll(v, "i", "l")
	return strings.ReplaceAll(v, "t", "l")
}

// normalizeDate converts dash-separated dates to the slash convention and
// treats years before 1900 as recognition failures.
func normalizeDate(v string, s forms.Sentinels) string {
	if len(v) < 4 {
		return s.Date
	}
	year, err := strconv.Atoi(v[len(v)-4:])
	if err != nil || year < 1900 {
		return s.Date
	}
	return strings.ReplaceAll(v, "-", "/")
}

// splitFullName splits a "Last, First" token into its halves. A sentinel
// input propagates to both outputs.
func splitFullName(full string, s forms.Sentinels) (last, first string) {
	if full == s.Text || !strings.Contains(full, ",") {
		return s.Text, s.Text
	}
	parts := strings.SplitN(full, ",", 2)
	return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
}

func fieldOr(values map[string]string, field, sentinel string) string {
	if v, ok := values[field]; ok {
		return v
	}
	return sentinel
}
