// Package render paints pages to raster images and books to PDF.
//
// Drawing goes through a draw2d.GraphicContext, so the same code serves
// both output formats.
package render

import (
	"image/color"
	"math"

	"github.com/llgcode/draw2d"
	"github.com/llgcode/draw2d/draw2dkit"

	"github.com/akeil/quill"
	"github.com/akeil/quill/internal/imaging"
	"github.com/akeil/quill/pkg/ink"
)

var bgColor = color.White

// arrowHead is the length of an arrow head in page units.
const arrowHead = 0.02

// paintPage draws background, paper, line art and strokes.
// scale is the page height in output units.
func paintPage(gc draw2d.GraphicContext, p *quill.Page, scale float64) {
	aspect := float64(p.AspectRatio())

	gc.SetFillColor(bgColor)
	draw2dkit.Rectangle(gc, 0, 0, aspect*scale, scale)
	gc.Fill()

	gc.SetLineCap(draw2d.RoundCap)
	gc.SetLineJoin(draw2d.RoundJoin)

	paintPaper(gc, p.PaperType(), aspect, scale)

	for _, l := range p.Lines() {
		paintLine(gc, l, scale)
	}
	for _, s := range p.Strokes() {
		paintStroke(gc, s, scale)
	}
}

// paintStroke draws a stroke segment by segment so that the width can
// follow the pressure.
func paintStroke(gc draw2d.GraphicContext, s *ink.Stroke, scale float64) {
	brush := NewBrush(s.Pen)
	base := float64(s.Thickness) * scale

	if len(s.Points) == 1 {
		pt := s.Points[0]
		gc.SetFillColor(imaging.WithOpacity(s.Color.NRGBA(), brush.Opacity(float64(pt.Pressure))))
		r := brush.Width(base, float64(pt.Pressure)) / 2
		draw2dkit.Circle(gc, float64(pt.X)*scale, float64(pt.Y)*scale, r)
		gc.Fill()
		return
	}

	for i := 1; i < len(s.Points); i++ {
		start, end := s.Points[i-1], s.Points[i]
		pressure := float64(start.Pressure)

		gc.SetStrokeColor(imaging.WithOpacity(s.Color.NRGBA(), brush.Opacity(pressure)))
		gc.SetLineWidth(brush.Width(base, pressure))
		gc.BeginPath()
		gc.MoveTo(float64(start.X)*scale, float64(start.Y)*scale)
		gc.LineTo(float64(end.X)*scale, float64(end.Y)*scale)
		gc.Stroke()
	}
}

func paintLine(gc draw2d.GraphicContext, l *ink.Line, scale float64) {
	x0, y0 := float64(l.X0)*scale, float64(l.Y0)*scale
	x1, y1 := float64(l.X1)*scale, float64(l.Y1)*scale

	gc.SetStrokeColor(l.Color.NRGBA())
	gc.SetLineWidth(float64(l.Thickness) * scale)
	gc.BeginPath()
	gc.MoveTo(x0, y0)
	gc.LineTo(x1, y1)

	if l.Tool == ink.Arrow {
		angle := math.Atan2(y1-y0, x1-x0)
		size := arrowHead * scale
		for _, d := range []float64{math.Pi * 5 / 6, -math.Pi * 5 / 6} {
			gc.MoveTo(x1, y1)
			gc.LineTo(x1+size*math.Cos(angle+d), y1+size*math.Sin(angle+d))
		}
	}
	gc.Stroke()
}
