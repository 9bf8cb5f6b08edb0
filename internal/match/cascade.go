package match

// Package match locates a patient in the external directory by cascading
// single-field searches and scoring the returned candidate rows.

import (
	"context"
	"fmt"

	"github.com/MeKo-Tech/chartfile/internal/extract"
	"github.com/MeKo-Tech/chartfile/internal/forms"
)

// Search field keys understood by the directory driver.
const (
	KeyLastName  = "lastname"
	KeyFirstName = "firstname"
	KeyDOB       = "dob"
	KeyPhone     = "phone"
	KeyAddress   = "address"
)

// Searcher submits a single-field search to the external directory and
// returns the resulting candidate table. An empty table is a valid result.
// Implementations map transient unavailability to an empty table so the
// cascade can move on.
type Searcher interface {
	Search(ctx context.Context, key, value string) ([]CandidateRow, error)
}

// Strategy is one step of the cascade: which directory field to search and
// how to read the search value off the record.
type Strategy struct {
	Key   string
	Value func(extract.Record) string
}

// Strategies returns the ordered cascade for a form type. The phone and
// address fallbacks only exist on intake forms, which are the only layout
// carrying those fields.
func Strategies(t forms.FormType) []Strategy {
	s := []Strategy{
		{Key: KeyLastName, Value: func(r extract.Record) string { return r.LastName }},
		{Key: KeyFirstName, Value: func(r extract.Record) string { return r.FirstName }},
		{Key: KeyDOB, Value: func(r extract.Record) string { return r.DOB }},
	}
	if t == forms.Intake {
		s = append(s,
			Strategy{Key: KeyPhone, Value: func(r extract.Record) string { return r.Phone }},
			Strategy{Key: KeyAddress, Value: func(r extract.Record) string { return r.Address }},
		)
	}
	return s
}

// Locate runs the cascade for the record: each strategy submits its field
// value, the returned rows are scored, and the cascade stops at the first
// confirmed match. Exhausting every strategy without a match is not an
// error; the caller records the patient as unmatched.
func Locate(ctx context.Context, rec extract.Record, strategies []Strategy, searcher Searcher) (Decision, error) {
	for _, strat := range strategies {
		rows, err := searcher.Search(ctx, strat.Key, strat.Value(rec))
		if err != nil {
			return Decision{RowIndex: -1}, fmt.Errorf("search by %s: %w", strat.Key, err)
		}
		if len(rows) == 0 {
			continue
		}
		if d := Score(rec, rows); d.Matched {
			d.Strategy = strat.Key
			return d, nil
		}
	}
	return Decision{RowIndex: -1}, nil
}
