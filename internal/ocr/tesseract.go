package ocr

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"strconv"

	"github.com/otiai10/gosseract/v2"
)

// Tesseract recognizes text through a local Tesseract installation via
// gosseract. Scanned forms are uniform blocks of text, so recognition runs
// in single-block page segmentation mode.
type Tesseract struct {
	languages []string
	dpi       int
}

// TesseractOption configures the engine.
type TesseractOption func(*Tesseract)

// WithLanguages sets the recognition languages (default "eng").
func WithLanguages(langs ...string) TesseractOption {
	return func(t *Tesseract) { t.languages = append([]string(nil), langs...) }
}

// WithDPI overrides the assumed source DPI. Zero leaves Tesseract's
// default in place.
func WithDPI(dpi int) TesseractOption {
	return func(t *Tesseract) { t.dpi = dpi }
}

// NewTesseract constructs a Tesseract-backed OCR engine.
func NewTesseract(opts ...TesseractOption) *Tesseract {
	t := &Tesseract{languages: []string{"eng"}}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Recognize runs one image region through Tesseract. A fresh client is used
// per call; gosseract clients are cheap and not safe to share.
func (t *Tesseract) Recognize(ctx context.Context, img image.Image) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("failed to encode region: %w", err)
	}

	client := gosseract.NewClient()
	defer func() { _ = client.Close() }()

	if err := client.SetImageFromBytes(buf.Bytes()); err != nil {
		return "", fmt.Errorf("failed to set image: %w", err)
	}
	if err := client.SetLanguage(t.languages...); err != nil {
		return "", fmt.Errorf("failed to set languages: %w", err)
	}
	if err := client.SetPageSegMode(gosseract.PSM_SINGLE_BLOCK); err != nil {
		return "", fmt.Errorf("failed to set segmentation mode: %w", err)
	}
	if t.dpi > 0 {
		if err := client.SetVariable(gosseract.SettableVariable("user_defined_dpi"), strconv.Itoa(t.dpi)); err != nil {
			return "", fmt.Errorf("failed to set dpi: %w", err)
		}
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("recognition failed: %w", err)
	}
	return text, nil
}
