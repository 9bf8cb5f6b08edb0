package raster

// Package raster is the boundary to the PDF rasterizer: it turns a batch
// document into its ordered page images and can materialize a single page
// as a standalone PDF for upload.

import (
	"context"
	"image"
)

// Rasterizer renders a PDF document into its page images, in page order.
type Rasterizer interface {
	Render(ctx context.Context, path string) ([]image.Image, error)
}

// PageExporter writes one page of a PDF (one-based) as a standalone PDF.
type PageExporter interface {
	ExportPage(ctx context.Context, src string, page int, dst string) error
}
