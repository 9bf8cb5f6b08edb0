package raster

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// PDFCPU extracts the scanned page images embedded in a batch PDF using
// pdfcpu. Scanned batches carry exactly one full-page image per page, so
// the first image of each page stands in for the rendered page.
type PDFCPU struct{}

// NewPDFCPU returns a pdfcpu-backed rasterizer.
func NewPDFCPU() *PDFCPU {
	return &PDFCPU{}
}

// Render returns the page images of the document in page order.
func (p *PDFCPU) Render(ctx context.Context, path string) ([]image.Image, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	tempDir, err := os.MkdirTemp("", "chartfile-pages-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp directory: %w", err)
	}
	defer func() { _ = os.RemoveAll(tempDir) }()

	if err := api.ExtractImagesFile(path, tempDir, nil, nil); err != nil {
		return nil, fmt.Errorf("failed to extract page images: %w", err)
	}

	byPage, err := collectPageImages(tempDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load page images: %w", err)
	}
	if len(byPage) == 0 {
		return nil, errors.New("no page images found in document")
	}

	pages := make([]int, 0, len(byPage))
	for page := range byPage {
		pages = append(pages, page)
	}
	sort.Ints(pages)

	images := make([]image.Image, 0, len(pages))
	for _, page := range pages {
		images = append(images, byPage[page])
	}
	return images, nil
}

// ExportPage writes the given page (one-based) of src as a standalone PDF
// at dst, the file handed to the directory's upload control.
func (p *PDFCPU) ExportPage(ctx context.Context, src string, page int, dst string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	if page < 1 {
		return fmt.Errorf("invalid page number %d", page)
	}
	if err := api.TrimFile(src, dst, []string{strconv.Itoa(page)}, nil); err != nil {
		return fmt.Errorf("failed to export page %d: %w", page, err)
	}
	return nil
}

// collectPageImages walks the extraction directory and keeps the first
// image of each page. pdfcpu names extracted files <base>_page_<num>_<res>.<ext>.
func collectPageImages(dir string) (map[int]image.Image, error) {
	result := make(map[int]image.Image)

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		page, err := parsePageFromFilename(info.Name())
		if err != nil {
			return nil // not a page image
		}
		if _, ok := result[page]; ok {
			return nil
		}

		img, err := loadImageFile(path)
		if err != nil {
			return nil // skip unreadable images
		}
		result[page] = img
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// parsePageFromFilename pulls the page number out of a pdfcpu extraction
// filename, tolerating both "page_<n>_..." and "..._page_<n>_..." shapes.
func parsePageFromFilename(filename string) (int, error) {
	parts := strings.Split(strings.TrimSuffix(filename, filepath.Ext(filename)), "_")
	for i := 0; i < len(parts)-1; i++ {
		if parts[i] == "page" {
			page, err := strconv.Atoi(parts[i+1])
			if err != nil {
				return 0, fmt.Errorf("invalid page number in %q", filename)
			}
			return page, nil
		}
	}
	return 0, fmt.Errorf("no page number in %q", filename)
}

// loadImageFile decodes an image from disk.
func loadImageFile(path string) (image.Image, error) {
	f, err := os.Open(path) //nolint:gosec // G304: reading files pdfcpu just wrote
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	img, _, err := image.Decode(f)
	return img, err
}
