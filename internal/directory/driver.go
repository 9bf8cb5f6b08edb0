package directory

// Package directory defines the boundary to the external patient directory.
// The remote system is driven through UI automation and is consumed as a
// black box: the pipeline only knows how to submit searches, read tables,
// open a result, and upload a file.

import (
	"context"
	"errors"

	"github.com/MeKo-Tech/chartfile/internal/forms"
	"github.com/MeKo-Tech/chartfile/internal/match"
)

// ErrNotFound is returned when a fetch exhausts its retry budget without
// the target element becoming available. Callers treat it as a failed
// search attempt, not a fatal error.
var ErrNotFound = errors.New("directory: element not found")

// Driver is the UI-automation boundary to the remote patient directory.
// All calls block; retry behavior is the implementation's concern.
type Driver interface {
	// ResetSearch clears the advanced search form.
	ResetSearch(ctx context.Context) error
	// SubmitSearch types the value into the search field identified by key
	// (one of the match.Key* constants) and submits it.
	SubmitSearch(ctx context.Context, key, value string) error
	// ResultsTable returns the current search results as candidate rows.
	ResultsTable(ctx context.Context) ([]match.CandidateRow, error)
	// OpenResult clicks the candidate row at the given index, opening the
	// patient's record.
	OpenResult(ctx context.Context, rowIndex int) error
	// OpenDocumentsFolder navigates the open patient record to the
	// documents folder for the given form type.
	OpenDocumentsFolder(ctx context.Context, form forms.FormType) error
	// DocumentsTable lists the filenames already filed in the open folder.
	DocumentsTable(ctx context.Context) ([]string, error)
	// Upload sends the local file through the folder's upload control.
	Upload(ctx context.Context, localPath string) error
}
