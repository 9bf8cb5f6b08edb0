package ocr

// Package ocr is the boundary to the optical character recognition engine.
// The pipeline consumes it as a black box: image region in, text out.

import (
	"context"
	"image"
)

// Engine recognizes the text content of an image region.
type Engine interface {
	Recognize(ctx context.Context, img image.Image) (string, error)
}

// EngineFunc adapts a function to the Engine interface.
type EngineFunc func(ctx context.Context, img image.Image) (string, error)

// Recognize calls f.
func (f EngineFunc) Recognize(ctx context.Context, img image.Image) (string, error) {
	return f(ctx, img)
}
