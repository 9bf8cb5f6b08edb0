package ledger

// Package ledger keeps the append-only, deduplicated record of patients
// that could not be matched or filed. Re-running a batch never produces
// duplicate error rows.

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/MeKo-Tech/chartfile/internal/forms"
)

// Entry identifies one unmatched patient. The full tuple is the uniqueness
// key; two entries are duplicates only when every field agrees.
type Entry struct {
	Batch int
	Page  int
	First string
	Last  string
	DOB   string
}

// row renders the entry in the persisted column order.
func (e Entry) row() []string {
	return []string{strconv.Itoa(e.Batch), strconv.Itoa(e.Page), e.First, e.Last, e.DOB}
}

// entryFromRow parses a persisted CSV row. Short rows are rejected;
// malformed numeric columns keep their zero value so the tuple still
// participates in dedup.
func entryFromRow(row []string) (Entry, error) {
	if len(row) < 5 {
		return Entry{}, fmt.Errorf("ledger row has %d columns, want 5", len(row))
	}
	batch, _ := strconv.Atoi(row[0])
	page, _ := strconv.Atoi(row[1])
	return Entry{Batch: batch, Page: page, First: row[2], Last: row[3], DOB: row[4]}, nil
}

// Ledger collects unmatched-patient entries during a run.
type Ledger struct {
	entries []Entry
	seen    map[Entry]struct{}
}

// New returns an empty ledger.
func New() *Ledger {
	return &Ledger{seen: make(map[Entry]struct{})}
}

// Record adds an entry unless an identical tuple was already recorded in
// this run.
func (l *Ledger) Record(e Entry) {
	if _, ok := l.seen[e]; ok {
		return
	}
	l.seen[e] = struct{}{}
	l.entries = append(l.entries, e)
}

// Len reports how many distinct entries this run recorded.
func (l *Ledger) Len() int {
	return len(l.entries)
}

// Entries returns the recorded entries in insertion order.
func (l *Ledger) Entries() []Entry {
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Flush persists the ledger to path: previously persisted entries are
// loaded first and only entries not already present are appended, so the
// file is idempotent across repeated runs of the same batch.
func (l *Ledger) Flush(path string) error {
	existing, err := load(path)
	if err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600) //nolint:gosec // G304: ledger path comes from configuration
	if err != nil {
		return fmt.Errorf("failed to open ledger: %w", err)
	}
	defer func() { _ = f.Close() }()

	w := csv.NewWriter(f)
	for _, e := range l.entries {
		if _, ok := existing[e]; ok {
			continue
		}
		if err := w.Write(e.row()); err != nil {
			return fmt.Errorf("failed to write ledger row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush ledger: %w", err)
	}
	return nil
}

// load reads the persisted entry set. A missing file is an empty ledger.
func load(path string) (map[Entry]struct{}, error) {
	f, err := os.Open(path) //nolint:gosec // G304: ledger path comes from configuration
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[Entry]struct{}{}, nil
		}
		return nil, fmt.Errorf("failed to open ledger: %w", err)
	}
	defer func() { _ = f.Close() }()

	existing := make(map[Entry]struct{})
	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read ledger: %w", err)
		}
		e, err := entryFromRow(row)
		if err != nil {
			continue
		}
		existing[e] = struct{}{}
	}
	return existing, nil
}

// DefaultPath returns the per-form ledger file inside dir.
func DefaultPath(dir string, form forms.FormType) string {
	return filepath.Join(dir, fmt.Sprintf("error_%s.csv", form))
}
