package export

// Package export writes the tabular debug export of extracted patient
// records. The export is informational; nothing downstream consumes it.

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/MeKo-Tech/chartfile/internal/extract"
	"github.com/MeKo-Tech/chartfile/internal/forms"
)

// Meta describes the run the export belongs to.
type Meta struct {
	RunID       string         `json:"run_id"`
	Batch       int            `json:"batch"`
	Form        forms.FormType `json:"form"`
	GeneratedAt time.Time      `json:"generated_at"`
}

// FormatRecords renders the records in the requested format: "csv",
// "json", or "text" (the default).
func FormatRecords(records []extract.Record, meta Meta, format string) (string, error) {
	switch format {
	case "json":
		return formatJSON(records, meta)
	case "csv":
		return formatCSV(records)
	default:
		return formatText(records), nil
	}
}

// SaveRecords writes the formatted records to outputFile, or stdout when
// outputFile is empty.
func SaveRecords(records []extract.Record, meta Meta, format, outputFile string) error {
	output, err := FormatRecords(records, meta, format)
	if err != nil {
		return fmt.Errorf("failed to format records: %w", err)
	}

	if outputFile != "" {
		if err := os.WriteFile(outputFile, []byte(output), 0o600); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		return nil
	}
	_, _ = fmt.Fprint(os.Stdout, output)
	return nil
}

func formatJSON(records []extract.Record, meta Meta) (string, error) {
	doc := struct {
		Meta    Meta             `json:"meta"`
		Records []extract.Record `json:"records"`
	}{Meta: meta, Records: records}

	bts, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", err
	}
	return string(bts) + "\n", nil
}

func formatCSV(records []extract.Record) (string, error) {
	var sb strings.Builder
	w := csv.NewWriter(&sb)

	if err := w.Write(extract.Header()); err != nil {
		return "", err
	}
	for _, rec := range records {
		if err := w.Write(rec.Row()); err != nil {
			return "", err
		}
	}
	w.Flush()
	return sb.String(), w.Error()
}

func formatText(records []extract.Record) string {
	var sb strings.Builder
	for _, rec := range records {
		fmt.Fprintf(&sb, "# page %d\n", rec.PageIndex+1)
		header := extract.Header()
		row := rec.Row()
		for i := 1; i < len(header); i++ {
			fmt.Fprintf(&sb, "  %s: %s\n", header[i], row[i])
		}
	}
	return sb.String()
}
