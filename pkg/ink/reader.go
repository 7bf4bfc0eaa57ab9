package ink

import (
	"fmt"

	"github.com/akeil/quill/internal/datastream"
)

const (
	strokeVersion = 1
	lineVersion   = 1
)

// maxPrealloc caps the capacity reserved from a stored count;
// the count itself is not trusted until the elements are read.
const maxPrealloc = 1024

// ReadStroke reads a single stroke record.
func ReadStroke(r *datastream.Reader) (*Stroke, error) {
	version, err := r.Int32()
	if err != nil {
		return nil, fmt.Errorf("failed to read stroke version")
	}
	if version != strokeVersion {
		return nil, fmt.Errorf("unsupported stroke version %d", version)
	}

	pen, err := r.Int32()
	if err != nil {
		return nil, fmt.Errorf("failed to read pen type")
	}

	c, err := r.Int32()
	if err != nil {
		return nil, fmt.Errorf("failed to read stroke color")
	}

	thickness, err := r.Float32()
	if err != nil {
		return nil, fmt.Errorf("failed to read stroke thickness")
	}

	n, err := r.Count()
	if err != nil {
		return nil, fmt.Errorf("failed to read number of points")
	}

	s := NewStroke(PenType(pen), Color(uint32(c)), thickness)
	s.Points = make([]Point, 0, min(n, maxPrealloc))
	for i := 0; i < n; i++ {
		p, err := readPoint(r)
		if err != nil {
			return nil, err
		}
		s.Points = append(s.Points, p)
	}

	return s, nil
}

func readPoint(r *datastream.Reader) (Point, error) {
	var p Point
	var err error

	p.X, err = r.Float32()
	if err != nil {
		return p, fmt.Errorf("failed to read X-coordinate")
	}

	p.Y, err = r.Float32()
	if err != nil {
		return p, fmt.Errorf("failed to read Y-coordinate")
	}

	p.Pressure, err = r.Float32()
	if err != nil {
		return p, fmt.Errorf("failed to read pressure")
	}

	return p, nil
}

// ReadLine reads a single line art record.
func ReadLine(r *datastream.Reader) (*Line, error) {
	version, err := r.Int32()
	if err != nil {
		return nil, fmt.Errorf("failed to read line version")
	}
	if version != lineVersion {
		return nil, fmt.Errorf("unsupported line version %d", version)
	}

	tool, err := r.Int32()
	if err != nil {
		return nil, fmt.Errorf("failed to read line tool")
	}

	c, err := r.Int32()
	if err != nil {
		return nil, fmt.Errorf("failed to read line color")
	}

	coords := make([]float32, 5)
	for i := range coords {
		coords[i], err = r.Float32()
		if err != nil {
			return nil, fmt.Errorf("failed to read line geometry")
		}
	}

	l := NewLine(LineTool(tool), Color(uint32(c)), coords[0], coords[1], coords[2], coords[3], coords[4])
	return l, nil
}
