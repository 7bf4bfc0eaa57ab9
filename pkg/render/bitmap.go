package render

import (
	"image"
	"image/png"
	"io"
	"math"

	"github.com/llgcode/draw2d/draw2dimg"

	"github.com/akeil/quill"
	"github.com/akeil/quill/internal/imaging"
)

// Image paints the page on a new image that is height pixels high.
func Image(p *quill.Page, height int) *image.RGBA {
	width := int(math.Round(float64(height) * float64(p.AspectRatio())))
	if width < 1 {
		width = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	gc := draw2dimg.NewGraphicContext(dst)
	paintPage(gc, p, float64(height))
	return dst
}

// PNG paints the page with the given height in pixels and writes it
// as a PNG image.
func PNG(p *quill.Page, height int, w io.Writer) error {
	return png.Encode(w, Image(p, height))
}

// Thumbnail paints a small image of the page that fits into
// width x height pixels.
//
// The page is painted at twice the size and scaled down, which gives
// smoother results for thin lines.
func Thumbnail(p *quill.Page, width, height int) image.Image {
	w, h := imaging.Fit(float64(p.AspectRatio()), width, height)
	if w == 0 {
		return image.NewRGBA(image.Rect(0, 0, 0, 0))
	}

	full := Image(p, 2*h)
	return imaging.Resize(full, w, h)
}
