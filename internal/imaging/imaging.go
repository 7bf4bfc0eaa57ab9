// Package imaging has helpers for raster images.
package imaging

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
)

// Resize creates a copy of the given image, scaled to width x height.
func Resize(i image.Image, width, height int) *image.RGBA {
	size := image.Rect(0, 0, width, height)
	dst := image.NewRGBA(size)
	// bilinear keeps thin rules visible when scaling down
	draw.BiLinear.Scale(dst, size, i, i.Bounds(), draw.Over, nil)
	return dst
}

// Fit returns the largest size with the given aspect ratio
// (width / height) that fits into maxWidth x maxHeight.
func Fit(aspect float64, maxWidth, maxHeight int) (int, int) {
	if aspect <= 0 || maxWidth <= 0 || maxHeight <= 0 {
		return 0, 0
	}

	h := maxHeight
	w := int(math.Round(float64(h) * aspect))
	if w > maxWidth {
		w = maxWidth
		h = int(math.Round(float64(w) / aspect))
	}

	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h
}

// WithOpacity returns c with its alpha channel scaled by opacity (0.0..1.0).
func WithOpacity(c color.NRGBA, opacity float64) color.NRGBA {
	opacity = math.Max(0, math.Min(1, opacity))
	c.A = uint8(math.Round(float64(c.A) * opacity))
	return c
}
