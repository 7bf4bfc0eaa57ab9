package ink

import (
	"math"

	"github.com/akeil/quill/internal/errors"
)

// Validate checks a stroke and its points for valid data.
// Returns an error if invalid data is found, nil if everything is fine.
func (s *Stroke) Validate() error {
	switch s.Pen {
	case FountainPen, Pencil:
		// valid
	default:
		return errors.NewValidationError("invalid pen type: %v", s.Pen)
	}

	if !finite(s.Thickness) || s.Thickness <= 0 {
		return errors.NewValidationError("invalid stroke thickness: %v", s.Thickness)
	}

	for _, p := range s.Points {
		err := p.Validate()
		if err != nil {
			return err
		}
	}

	return nil
}

// Validate checks a single point.
func (p Point) Validate() error {
	if !finite(p.X) || !finite(p.Y) {
		return errors.NewValidationError("invalid coordinates: %v, %v", p.X, p.Y)
	}

	if p.Pressure < 0 || p.Pressure > 1 {
		return errors.NewValidationError("invalid pressure value: %v", p.Pressure)
	}

	return nil
}

// Validate checks a line for valid data.
func (l *Line) Validate() error {
	switch l.Tool {
	case StraightLine, Arrow:
		// valid
	default:
		return errors.NewValidationError("invalid line tool: %v", l.Tool)
	}

	if !finite(l.Thickness) || l.Thickness <= 0 {
		return errors.NewValidationError("invalid line thickness: %v", l.Thickness)
	}

	for _, f := range []float32{l.X0, l.Y0, l.X1, l.Y1} {
		if !finite(f) {
			return errors.NewValidationError("invalid line coordinate: %v", f)
		}
	}

	return nil
}

func finite(f float32) bool {
	return !math.IsNaN(float64(f)) && !math.IsInf(float64(f), 0)
}
