package ocr

import (
	"context"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/chartfile/internal/forms"
	"github.com/MeKo-Tech/chartfile/internal/testutil"
)

func TestCropRegionFieldBands(t *testing.T) {
	page := testutil.NewPage()

	intake := CropRegion(page, forms.Intake.FieldRegion())
	assert.Equal(t, 850, intake.Bounds().Dx())
	assert.Equal(t, 1100/3, intake.Bounds().Dy())

	vf := CropRegion(page, forms.VisualField.FieldRegion())
	assert.Equal(t, 1100/7, vf.Bounds().Dy())
}

func TestCropRegionFooter(t *testing.T) {
	page := testutil.NewPageSized(850, 1000)

	footer, ok := forms.Intake.FooterRegion()
	require.True(t, ok)

	crop := CropRegion(page, footer)
	assert.Equal(t, 100, crop.Bounds().Dy())
}

func TestUpscale(t *testing.T) {
	img := testutil.NewPageSized(100, 50)

	doubled := Upscale(img, 2)
	assert.Equal(t, 200, doubled.Bounds().Dx())
	assert.Equal(t, 100, doubled.Bounds().Dy())

	same := Upscale(img, 1)
	assert.Equal(t, img.Bounds(), same.Bounds())

	zero := Upscale(img, 0)
	assert.Equal(t, img.Bounds(), zero.Bounds())
}

func TestEngineFunc(t *testing.T) {
	var got image.Image
	engine := EngineFunc(func(_ context.Context, img image.Image) (string, error) {
		got = img
		return "recognized", nil
	})

	text, err := engine.Recognize(context.Background(), testutil.NewPageSized(10, 10))
	require.NoError(t, err)
	assert.Equal(t, "recognized", text)
	assert.NotNil(t, got)
}
