package pipeline

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/MeKo-Tech/chartfile/internal/extract"
	"github.com/MeKo-Tech/chartfile/internal/forms"
)

// PageOutcome is the per-page result of matching and filing.
type PageOutcome struct {
	Page      int    `json:"page"`
	Matched   bool   `json:"matched"`
	MatchedBy string `json:"matched_by,omitempty"`
	Uploaded  bool   `json:"uploaded"`
	Filename  string `json:"filename,omitempty"`
}

// Result aggregates a full pipeline run.
type Result struct {
	Batch    int              `json:"batch"`
	Form     forms.FormType   `json:"form"`
	Pages    int              `json:"pages"`
	Records  []extract.Record `json:"records"`
	Outcomes []PageOutcome    `json:"outcomes"`

	Matched   int `json:"matched"`
	Uploaded  int `json:"uploaded"`
	Skipped   int `json:"skipped"`
	Unmatched int `json:"unmatched"`

	Duration time.Duration `json:"duration_ns"`
}

// tally folds one outcome into the counters.
func (r *Result) tally(o PageOutcome) {
	switch {
	case !o.Matched:
		r.Unmatched++
	case o.Uploaded:
		r.Matched++
		r.Uploaded++
	default:
		r.Matched++
		r.Skipped++
	}
}

// Format renders the result in the given format ("text", "csv", or "json").
func (r *Result) Format(format string) (string, error) {
	switch format {
	case "json":
		bts, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			return "", err
		}
		return string(bts) + "\n", nil
	case "csv":
		return r.formatCSV()
	case "", "text":
		return r.formatText(), nil
	default:
		return "", fmt.Errorf("unknown summary format %q (expected text, csv, or json)", format)
	}
}

// formatCSV renders one row per page outcome.
func (r *Result) formatCSV() (string, error) {
	var sb strings.Builder
	w := csv.NewWriter(&sb)
	_ = w.Write([]string{"page", "matched", "matched_by", "uploaded", "filename"})
	for _, o := range r.Outcomes {
		_ = w.Write([]string{
			strconv.Itoa(o.Page),
			strconv.FormatBool(o.Matched),
			o.MatchedBy,
			strconv.FormatBool(o.Uploaded),
			o.Filename,
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func (r *Result) formatText() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Batch %d (%s): %d pages\n", r.Batch, r.Form, r.Pages)
	for _, o := range r.Outcomes {
		status := "unmatched"
		switch {
		case o.Uploaded:
			status = fmt.Sprintf("filed as %s (matched by %s)", o.Filename, o.MatchedBy)
		case o.Matched:
			status = fmt.Sprintf("already filed as %s (matched by %s)", o.Filename, o.MatchedBy)
		}
		fmt.Fprintf(&sb, "  page %d: %s\n", o.Page, status)
	}
	fmt.Fprintf(&sb, "Matched: %d  Uploaded: %d  Skipped: %d  Unmatched: %d  Duration: %v\n",
		r.Matched, r.Uploaded, r.Skipped, r.Unmatched, r.Duration.Round(time.Millisecond))
	return sb.String()
}
