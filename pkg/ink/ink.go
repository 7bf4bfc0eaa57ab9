package ink

import (
	"image/color"
)

// PenType is the pen a stroke was drawn with.
type PenType int32

const (
	FountainPen PenType = iota
	Pencil
)

func (p PenType) String() string {
	switch p {
	case FountainPen:
		return "fountain pen"
	case Pencil:
		return "pencil"
	default:
		return "UNKNOWN"
	}
}

// LineTool is the tool used to create a line art item.
type LineTool int32

const (
	StraightLine LineTool = iota
	Arrow
)

// Color is a packed 32 bit ARGB color value.
type Color uint32

// Some predefined colors.
const (
	Black    Color = 0xFF000000
	DarkBlue Color = 0xFF00147A
	Red      Color = 0xFFB00000
	White    Color = 0xFFFFFFFF
)

// NRGBA converts the packed value into a non-premultiplied color.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{
		R: uint8(c >> 16),
		G: uint8(c >> 8),
		B: uint8(c),
		A: uint8(c >> 24),
	}
}

// Transform maps page coordinates to screen coordinates.
//
// Page coordinates run from 0 to the aspect ratio horizontally and from 0
// to 1 vertically. Scale is the height of the page on screen.
type Transform struct {
	OffsetX float32
	OffsetY float32
	Scale   float32
}

// Identity returns the transform that leaves coordinates unchanged.
func Identity() Transform {
	return Transform{Scale: 1}
}

// Apply transforms a single point from page to screen coordinates.
func (t Transform) Apply(x, y float32) (float32, float32) {
	return t.OffsetX + x*t.Scale, t.OffsetY + y*t.Scale
}

// Inverse transforms a screen point back to page coordinates.
func (t Transform) Inverse(x, y float32) (float32, float32) {
	if t.Scale == 0 {
		return 0, 0
	}
	return (x - t.OffsetX) / t.Scale, (y - t.OffsetY) / t.Scale
}

// Item is a piece of page content that is drawn in screen space.
type Item interface {
	SetTransform(t Transform)
	Transform() Transform
	Validate() error
}

// Point is a single sample of a stroke, in page coordinates.
type Point struct {
	X        float32
	Y        float32
	Pressure float32
}

// Stroke is a freehand pen stroke.
type Stroke struct {
	Pen       PenType
	Color     Color
	Thickness float32
	Points    []Point
	transform Transform
}

// NewStroke creates an empty stroke for the given pen.
func NewStroke(pen PenType, c Color, thickness float32) *Stroke {
	return &Stroke{
		Pen:       pen,
		Color:     c,
		Thickness: thickness,
		Points:    make([]Point, 0),
		transform: Identity(),
	}
}

// Add appends a sample in page coordinates.
func (s *Stroke) Add(x, y, pressure float32) {
	s.Points = append(s.Points, Point{X: x, Y: y, Pressure: pressure})
}

// SetTransform sets the page to screen transform for this stroke.
func (s *Stroke) SetTransform(t Transform) {
	s.transform = t
}

// Transform is the current page to screen transform.
func (s *Stroke) Transform() Transform {
	return s.transform
}

// ScreenPoints returns the stroke samples in screen coordinates.
func (s *Stroke) ScreenPoints() []Point {
	pts := make([]Point, len(s.Points))
	for i, p := range s.Points {
		x, y := s.transform.Apply(p.X, p.Y)
		pts[i] = Point{X: x, Y: y, Pressure: p.Pressure}
	}
	return pts
}

// ScreenWidth is the pen width in screen pixels.
func (s *Stroke) ScreenWidth() float32 {
	return s.Thickness * s.transform.Scale
}

// Line is a straight line art item with two control points.
type Line struct {
	Tool      LineTool
	Color     Color
	Thickness float32
	X0        float32
	Y0        float32
	X1        float32
	Y1        float32
	transform Transform
}

// NewLine creates a line between two points in page coordinates.
func NewLine(tool LineTool, c Color, thickness, x0, y0, x1, y1 float32) *Line {
	return &Line{
		Tool:      tool,
		Color:     c,
		Thickness: thickness,
		X0:        x0,
		Y0:        y0,
		X1:        x1,
		Y1:        y1,
		transform: Identity(),
	}
}

// SetTransform sets the page to screen transform for this line.
func (l *Line) SetTransform(t Transform) {
	l.transform = t
}

// Transform is the current page to screen transform.
func (l *Line) Transform() Transform {
	return l.transform
}

// ScreenCoords returns both end points in screen coordinates.
func (l *Line) ScreenCoords() (x0, y0, x1, y1 float32) {
	x0, y0 = l.transform.Apply(l.X0, l.Y0)
	x1, y1 = l.transform.Apply(l.X1, l.Y1)
	return
}

// ScreenWidth is the line width in screen pixels.
func (l *Line) ScreenWidth() float32 {
	return l.Thickness * l.transform.Scale
}
