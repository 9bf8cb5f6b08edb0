package filing

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/MeKo-Tech/chartfile/internal/directory"
	"github.com/MeKo-Tech/chartfile/internal/forms"
)

// PageExporter materializes a single page of the batch document as a
// standalone PDF at the given path.
type PageExporter interface {
	ExportPage(ctx context.Context, src string, page int, dst string) error
}

// Uploader files a matched page as a dated document under the open patient
// record, skipping pages whose canonical name is already present.
type Uploader struct {
	drv      directory.Driver
	exporter PageExporter
	verify   directory.FetchPolicy
	logger   *slog.Logger
}

// NewUploader wires an uploader. The verify policy bounds how long the
// uploader polls the documents table for the uploaded name to appear.
func NewUploader(drv directory.Driver, exporter PageExporter, verify directory.FetchPolicy, logger *slog.Logger) *Uploader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Uploader{drv: drv, exporter: exporter, verify: verify, logger: logger}
}

// File derives the filename for the page, checks the patient's existing
// documents, and uploads when the name is absent. It reports whether an
// upload happened; a false result with nil error is the normal dedup skip.
// The patient record and its documents folder must already be open.
func (u *Uploader) File(ctx context.Context, batchPath string, pageIndex int, filingDate string, form forms.FormType, s forms.Sentinels) (bool, string, error) {
	if err := u.drv.OpenDocumentsFolder(ctx, form); err != nil {
		return false, "", fmt.Errorf("failed to open documents folder: %w", err)
	}

	existing, err := u.drv.DocumentsTable(ctx)
	if err != nil {
		return false, "", fmt.Errorf("failed to list documents: %w", err)
	}

	name := Filename(filingDate, form, s)
	if !NeedsUpload(name, existing) {
		u.logger.Debug("document already filed", "filename", name, "page", pageIndex+1)
		return false, name, nil
	}

	localPath := filepath.Join(os.TempDir(), name)
	if err := u.exporter.ExportPage(ctx, batchPath, pageIndex+1, localPath); err != nil {
		return false, name, fmt.Errorf("failed to export page %d: %w", pageIndex+1, err)
	}
	defer func() { _ = os.Remove(localPath) }()

	if err := u.drv.Upload(ctx, localPath); err != nil {
		return false, name, fmt.Errorf("failed to upload %s: %w", name, err)
	}

	if err := u.awaitFiled(ctx, name); err != nil {
		return false, name, err
	}

	u.logger.Info("document filed", "filename", name, "page", pageIndex+1)
	return true, name, nil
}

// awaitFiled polls the documents table until the uploaded name appears.
func (u *Uploader) awaitFiled(ctx context.Context, name string) error {
	return u.verify.Fetch(ctx, func(ctx context.Context) error {
		files, err := u.drv.DocumentsTable(ctx)
		if err != nil {
			return err
		}
		if NeedsUpload(name, files) {
			return fmt.Errorf("%s not yet visible in documents table", name)
		}
		return nil
	})
}
