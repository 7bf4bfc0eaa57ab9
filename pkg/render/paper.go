package render

import (
	"image/color"
	"math"

	"github.com/llgcode/draw2d"

	"github.com/akeil/quill"
)

var (
	ruleColor   = color.NRGBA{170, 195, 220, 255}
	marginColor = color.NRGBA{220, 120, 120, 255}
)

// rule spacing in page units, the page height is 1
const (
	ruled        = 1.0 / 32
	collegeRuled = 1.0 / 36
	narrowRuled  = 1.0 / 44
	quad         = 1.0 / 40
	staffLine    = 1.0 / 100
	staffGroup   = 1.0 / 12
	hexRadius    = 1.0 / 50
)

// paintPaper draws the background pattern for the paper type.
// The page is aspect wide and 1 high, scale maps page units to output units.
func paintPaper(gc draw2d.GraphicContext, paper quill.PaperType, aspect, scale float64) {
	gc.SetStrokeColor(ruleColor)
	gc.SetLineWidth(math.Max(0.001*scale, 0.5))

	hline := func(y, x0, x1 float64) {
		gc.BeginPath()
		gc.MoveTo(x0*scale, y*scale)
		gc.LineTo(x1*scale, y*scale)
		gc.Stroke()
	}
	vline := func(x, y0, y1 float64) {
		gc.BeginPath()
		gc.MoveTo(x*scale, y0*scale)
		gc.LineTo(x*scale, y1*scale)
		gc.Stroke()
	}
	rules := func(spacing, top, bottom float64) {
		for y := top; y < bottom; y += spacing {
			hline(y, 0, aspect)
		}
	}

	switch paper {
	case quill.PaperRuled:
		rules(ruled, 3*ruled, 1)
	case quill.PaperCollegeRuled:
		rules(collegeRuled, 3*collegeRuled, 1)
		gc.SetStrokeColor(marginColor)
		vline(0.12*aspect, 0, 1)
	case quill.PaperNarrowRuled:
		rules(narrowRuled, 3*narrowRuled, 1)
	case quill.PaperQuad:
		rules(quad, quad, 1)
		for x := quad; x < aspect; x += quad {
			vline(x, 0, 1)
		}
	case quill.PaperCornellNotes:
		rules(ruled, 0.1, 0.8)
		hline(0.1, 0, aspect)
		hline(0.8, 0, aspect)
		vline(0.3*aspect, 0.1, 0.8)
	case quill.PaperDayPlanner:
		hline(0.08, 0, aspect)
		rules(1.0/16, 0.08+1.0/16, 1)
		vline(0.15*aspect, 0.08, 1)
	case quill.PaperMusic:
		for top := staffGroup; top+4*staffLine < 1; top += staffGroup {
			for i := 0; i < 5; i++ {
				hline(top+float64(i)*staffLine, 0.05*aspect, 0.95*aspect)
			}
		}
	case quill.PaperHex:
		paintHexGrid(gc, aspect, scale)
	}
}

// paintHexGrid draws flat topped hexagons that cover the page.
func paintHexGrid(gc draw2d.GraphicContext, aspect, scale float64) {
	r := hexRadius
	dy := math.Sqrt(3) * r
	col := 0
	for cx := 0.0; cx < aspect+r; cx += 1.5 * r {
		offset := 0.0
		if col%2 == 1 {
			offset = dy / 2
		}
		for cy := offset; cy < 1+r; cy += dy {
			gc.BeginPath()
			for k := 0; k <= 6; k++ {
				a := float64(k) * math.Pi / 3
				x := (cx + r*math.Cos(a)) * scale
				y := (cy + r*math.Sin(a)) * scale
				if k == 0 {
					gc.MoveTo(x, y)
				} else {
					gc.LineTo(x, y)
				}
			}
			gc.Stroke()
		}
		col++
	}
}
