package pipeline

// Package pipeline sequences the per-page extraction and the per-record
// matching and filing. Pages are processed strictly one at a time: a page's
// extraction completes before matching begins, and matching completes
// before filing. The only state shared across pages is the error ledger.

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/MeKo-Tech/chartfile/internal/config"
	"github.com/MeKo-Tech/chartfile/internal/directory"
	"github.com/MeKo-Tech/chartfile/internal/extract"
	"github.com/MeKo-Tech/chartfile/internal/filing"
	"github.com/MeKo-Tech/chartfile/internal/forms"
	"github.com/MeKo-Tech/chartfile/internal/ledger"
	"github.com/MeKo-Tech/chartfile/internal/match"
	"github.com/MeKo-Tech/chartfile/internal/ocr"
	"github.com/MeKo-Tech/chartfile/internal/raster"
)

// Pipeline wires the extraction stages to the external collaborators.
type Pipeline struct {
	cfg        *config.Config
	engine     ocr.Engine
	rasterizer raster.Rasterizer
	rules      []forms.Rule
	logger     *slog.Logger

	// filing collaborators; nil for extract-only pipelines
	driver   directory.Driver
	uploader *filing.Uploader
}

// New builds an extraction pipeline. The returned pipeline can extract
// records; wire a directory with WithDirectory before calling Run.
func New(cfg *config.Config, engine ocr.Engine, rasterizer raster.Rasterizer, logger *slog.Logger) (*Pipeline, error) {
	if logger == nil {
		logger = slog.Default()
	}

	ruleSets, err := forms.LoadRules(cfg.RulesFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load extraction rules: %w", err)
	}

	return &Pipeline{
		cfg:        cfg,
		engine:     engine,
		rasterizer: rasterizer,
		rules:      ruleSets[cfg.FormType()],
		logger:     logger,
	}, nil
}

// WithDirectory attaches the external directory driver and the page
// exporter used for uploads.
func (p *Pipeline) WithDirectory(drv directory.Driver, exporter raster.PageExporter) *Pipeline {
	p.driver = drv
	verify := directory.FetchPolicy{
		Attempts: p.cfg.Directory.FetchAttempts,
		Backoff:  p.cfg.Directory.FetchBackoff,
	}
	p.uploader = filing.NewUploader(drv, exporter, verify, p.logger)
	return p
}

// ExtractRecords rasterizes the batch document and derives one structured
// record per page: the field region is recognized and run through the rule
// set, and for forms with a dated footer the footer region is recognized
// separately for the document date.
func (p *Pipeline) ExtractRecords(ctx context.Context, batchPath string) ([]extract.Record, error) {
	form := p.cfg.FormType()
	sentinels := p.cfg.SentinelValues()

	pages, err := p.rasterizer.Render(ctx, batchPath)
	if err != nil {
		return nil, fmt.Errorf("failed to rasterize %s: %w", batchPath, err)
	}
	p.logger.Info("batch rasterized", "path", batchPath, "pages", len(pages))

	records := make([]extract.Record, 0, len(pages))
	for i, page := range pages {
		fieldRegion := ocr.Upscale(ocr.CropRegion(page, form.FieldRegion()), p.cfg.OCR.Upscale)
		text, err := p.engine.Recognize(ctx, fieldRegion)
		if err != nil {
			return nil, fmt.Errorf("recognition failed on page %d: %w", i+1, err)
		}

		rec := extract.Extract(text, form, p.rules, sentinels)
		rec.PageIndex = i

		if footer, ok := form.FooterRegion(); ok {
			footerRegion := ocr.Upscale(ocr.CropRegion(page, footer), p.cfg.OCR.Upscale)
			footerText, err := p.engine.Recognize(ctx, footerRegion)
			if err != nil {
				return nil, fmt.Errorf("footer recognition failed on page %d: %w", i+1, err)
			}
			rec = rec.WithDocumentDate(extract.DocumentDate(footerText, sentinels), sentinels)
		}

		p.logger.Debug("page extracted",
			"page", i+1,
			"first", rec.FirstName,
			"last", rec.LastName,
			"dob", rec.DOB,
		)
		records = append(records, rec)
	}

	return records, nil
}

// Run executes the full pipeline: extraction, then per-record matching and
// filing. Unmatched patients land in the error ledger, which is flushed
// before returning. Failures of the external directory abort the run; a
// partially filled result is returned alongside the error.
func (p *Pipeline) Run(ctx context.Context, batchPath string) (*Result, error) {
	if p.driver == nil {
		return nil, errors.New("pipeline has no directory driver")
	}

	start := time.Now()
	form := p.cfg.FormType()
	sentinels := p.cfg.SentinelValues()

	records, err := p.ExtractRecords(ctx, batchPath)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Batch:   p.cfg.BatchNumber,
		Form:    form,
		Pages:   len(records),
		Records: records,
	}

	led := ledger.New()
	searcher := &driverSearcher{drv: p.driver}
	strategies := match.Strategies(form)

	for _, rec := range records {
		outcome, err := p.processRecord(ctx, batchPath, rec, strategies, searcher, led, sentinels)
		result.Outcomes = append(result.Outcomes, outcome)
		result.tally(outcome)

		p.logger.Info("patient processed",
			"page", rec.PageIndex+1,
			"first", rec.FirstName,
			"last", rec.LastName,
			"dob", rec.DOB,
			"matched", outcome.Matched,
			"uploaded", outcome.Uploaded,
		)
		if err != nil {
			p.flushLedger(led, form)
			result.Duration = time.Since(start)
			return result, err
		}
	}

	if err := p.flushLedger(led, form); err != nil {
		result.Duration = time.Since(start)
		return result, err
	}

	result.Duration = time.Since(start)
	return result, nil
}

// processRecord runs the cascade for one record and files the page on a
// match. Cascade exhaustion is not an error; it records a ledger entry.
func (p *Pipeline) processRecord(
	ctx context.Context,
	batchPath string,
	rec extract.Record,
	strategies []match.Strategy,
	searcher match.Searcher,
	led *ledger.Ledger,
	sentinels forms.Sentinels,
) (PageOutcome, error) {
	outcome := PageOutcome{Page: rec.PageIndex + 1}

	decision, err := match.Locate(ctx, rec, strategies, searcher)
	if err != nil {
		return outcome, fmt.Errorf("matching failed on page %d: %w", rec.PageIndex+1, err)
	}

	if !decision.Matched {
		led.Record(ledger.Entry{
			Batch: p.cfg.BatchNumber,
			Page:  rec.PageIndex + 1,
			First: rec.FirstName,
			Last:  rec.LastName,
			DOB:   rec.DOB,
		})
		return outcome, nil
	}

	outcome.Matched = true
	outcome.MatchedBy = decision.Strategy

	if err := p.driver.OpenResult(ctx, decision.RowIndex); err != nil {
		return outcome, fmt.Errorf("failed to open matched patient on page %d: %w", rec.PageIndex+1, err)
	}

	uploaded, name, err := p.uploader.File(ctx, batchPath, rec.PageIndex, rec.FilingDate(), rec.Form, sentinels)
	if err != nil {
		return outcome, fmt.Errorf("filing failed on page %d: %w", rec.PageIndex+1, err)
	}
	outcome.Uploaded = uploaded
	outcome.Filename = name
	return outcome, nil
}

func (p *Pipeline) flushLedger(led *ledger.Ledger, form forms.FormType) error {
	path := ledger.DefaultPath(p.cfg.Ledger.Dir, form)
	if err := led.Flush(path); err != nil {
		return fmt.Errorf("failed to flush error ledger: %w", err)
	}
	if led.Len() > 0 {
		p.logger.Warn("unmatched patients recorded", "count", led.Len(), "ledger", path)
	}
	return nil
}

// driverSearcher adapts the directory driver to the matcher's Searcher.
// Retry exhaustion while fetching results counts as a failed attempt, not a
// fatal error, so it maps to an empty candidate table.
type driverSearcher struct {
	drv directory.Driver
}

func (s *driverSearcher) Search(ctx context.Context, key, value string) ([]match.CandidateRow, error) {
	if err := s.drv.ResetSearch(ctx); err != nil {
		return nil, err
	}
	if err := s.drv.SubmitSearch(ctx, key, value); err != nil {
		return nil, err
	}
	rows, err := s.drv.ResultsTable(ctx)
	if directory.IsNotFound(err) {
		return nil, nil
	}
	return rows, err
}
