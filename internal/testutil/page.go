package testutil

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

// Letter-size page at 100 DPI, the shape scanned batches arrive in.
const (
	PageWidth  = 850
	PageHeight = 1100
)

// NewPage returns a blank white page image of the standard scan size.
func NewPage() *image.RGBA {
	return NewPageSized(PageWidth, PageHeight)
}

// NewPageSized returns a blank white page image with the given dimensions.
func NewPageSized(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.White)
		}
	}
	return img
}

// SavePNG writes an image to path as PNG.
func SavePNG(t *testing.T, img image.Image, path string) {
	t.Helper()

	f, err := os.Create(path) //nolint:gosec // G304: test output path
	require.NoError(t, err, "Failed to create image file")
	defer func() { _ = f.Close() }()

	require.NoError(t, png.Encode(f, img), "Failed to encode image")
}

// LoadPNG reads a PNG image from path.
func LoadPNG(t *testing.T, path string) image.Image {
	t.Helper()

	f, err := os.Open(path) //nolint:gosec // G304: test input path
	require.NoError(t, err, "Failed to open image file")
	defer func() { _ = f.Close() }()

	img, err := png.Decode(f)
	require.NoError(t, err, "Failed to decode image")
	return img
}
