package render

import (
	"math"

	"github.com/akeil/quill/pkg/ink"
)

// Brush describes how a pen responds to pressure.
type Brush interface {
	// Width is the line width for a stroke with the given base thickness.
	Width(base, pressure float64) float64
	// Opacity is the opacity from 0.0 to 1.0.
	Opacity(pressure float64) float64
}

// NewBrush returns the brush for a pen type.
func NewBrush(p ink.PenType) Brush {
	switch p {
	case ink.Pencil:
		return &Pencil{}
	default:
		return &FountainPen{}
	}
}

// FountainPen gets wider with pressure.
type FountainPen struct{}

func (f *FountainPen) Width(base, pressure float64) float64 {
	// zero pressure means the device does not report it
	if pressure <= 0 {
		return base
	}
	return base * (0.6 + 0.8*math.Min(pressure, 1))
}

func (f *FountainPen) Opacity(pressure float64) float64 {
	return 1.0
}

// Pencil keeps its width but gets darker with pressure.
type Pencil struct{}

func (p *Pencil) Width(base, pressure float64) float64 {
	return base
}

func (p *Pencil) Opacity(pressure float64) float64 {
	if pressure <= 0 {
		return 0.8
	}
	return 0.5 + 0.4*math.Min(pressure, 1)
}
