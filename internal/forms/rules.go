package forms

import (
	"fmt"
	"regexp"
)

// Field names shared by the extractor, the matcher, and the debug export.
const (
	FieldFirstName     = "First Name"
	FieldLastName      = "Last Name"
	FieldFullName      = "Full Name"
	FieldDOB           = "Date of Birth"
	FieldSex           = "Sex"
	FieldPhone         = "Preferred Phone"
	FieldAddress       = "Address"
	FieldProvider      = "Provider"
	FieldScreeningDate = "Screening Date"
)

// Post identifies the post-processing step applied to a matched value.
type Post string

const (
	// PostNone leaves the matched value untouched.
	PostNone Post = "none"
	// PostSex corrects single-letter sex codes: OCR frequently misreads
	// "l" as "i" or "t", so every "i" and "t" becomes "l". This is a
	// deliberate lossy normalization for this one field.
	PostSex Post = "sex"
	// PostDate normalizes date separators to "/" and rejects implausible
	// years (before 1900) as recognition failures.
	PostDate Post = "date"
	// PostSplitName splits a "Last, First" token into separate fields.
	PostSplitName Post = "split-name"
)

// Fallback identifies which sentinel an unmatched field receives.
type Fallback string

const (
	// FallbackText substitutes the textual sentinel.
	FallbackText Fallback = "text"
	// FallbackDate substitutes the null-date sentinel.
	FallbackDate Fallback = "date"
	// FallbackPhone substitutes the null-phone sentinel.
	FallbackPhone Fallback = "phone"
)

// Rule describes how one field is pulled out of recognized page text.
// Each rule is matched independently against the full text; when the
// pattern matches more than once the last occurrence wins, since OCR noise
// can echo a label and the final occurrence sits closest to the filled-in
// value.
type Rule struct {
	Field    string
	Pattern  *regexp.Regexp
	Post     Post
	Fallback Fallback
}

// SentinelFor returns the sentinel value this rule falls back to.
func (r Rule) SentinelFor(s Sentinels) string {
	switch r.Fallback {
	case FallbackDate:
		return s.Date
	case FallbackPhone:
		return s.Phone
	default:
		return s.Text
	}
}

// intakeRules matches the printed intake form layout.
var intakeRules = []Rule{
	{Field: FieldFirstName, Pattern: regexp.MustCompile(`First:\s([A-Za-z]+)`), Post: PostNone, Fallback: FallbackText},
	{Field: FieldLastName, Pattern: regexp.MustCompile(`Last:\s([A-Za-z]+)`), Post: PostNone, Fallback: FallbackText},
	{Field: FieldDOB, Pattern: regexp.MustCompile(`DOB:\s(\d{2}/\d{2}/\d{4})`), Post: PostDate, Fallback: FallbackDate},
	{Field: FieldSex, Pattern: regexp.MustCompile(`Sex:\s([A-Za-z]+)`), Post: PostSex, Fallback: FallbackText},
	{Field: FieldPhone, Pattern: regexp.MustCompile(`Preferred:\sCell:\s(\(\d{3}\)\s\d{3}-\d{4})`), Post: PostNone, Fallback: FallbackPhone},
	{Field: FieldAddress, Pattern: regexp.MustCompile(`Address:\s(.+?)\n`), Post: PostNone, Fallback: FallbackText},
	{Field: FieldProvider, Pattern: regexp.MustCompile(`Provider:\s(.+?)\n`), Post: PostNone, Fallback: FallbackText},
}

// visualFieldRules matches the visual field screening printout. Dates on
// these printouts use dashes instead of slashes.
var visualFieldRules = []Rule{
	{Field: FieldFullName, Pattern: regexp.MustCompile(`NAME:\s+(\w+\s*,\s*\w+)\s+`), Post: PostSplitName, Fallback: FallbackText},
	{Field: FieldDOB, Pattern: regexp.MustCompile(`DOB:\s*(\d{2}-\d{2}-\d{4})`), Post: PostDate, Fallback: FallbackDate},
	{Field: FieldScreeningDate, Pattern: regexp.MustCompile(`Screening DATE:\s*(\d{2}-\d{2}-\d{4})`), Post: PostDate, Fallback: FallbackDate},
}

// Rules returns the built-in ordered rule set for the given form type.
func Rules(t FormType) []Rule {
	switch t {
	case VisualField:
		return visualFieldRules
	default:
		return intakeRules
	}
}

// validatePosts is the set of recognized post-processor identifiers.
func validatePost(p Post) error {
	switch p {
	case PostNone, PostSex, PostDate, PostSplitName:
		return nil
	default:
		return fmt.Errorf("unknown post-processor %q", p)
	}
}

func validateFallback(f Fallback) error {
	switch f {
	case FallbackText, FallbackDate, FallbackPhone:
		return nil
	default:
		return fmt.Errorf("unknown fallback %q", f)
	}
}
