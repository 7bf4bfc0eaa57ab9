package ink

import (
	"github.com/akeil/quill/internal/datastream"
)

// WriteStroke writes the record for a single stroke.
//
// Only page coordinates are written, the screen transform is not.
func WriteStroke(w *datastream.Writer, s *Stroke) error {
	err := w.WriteInt32(strokeVersion)
	if err != nil {
		return err
	}

	err = w.WriteInt32(int32(s.Pen))
	if err != nil {
		return err
	}

	err = w.WriteInt32(int32(s.Color))
	if err != nil {
		return err
	}

	err = w.WriteFloat32(s.Thickness)
	if err != nil {
		return err
	}

	err = w.WriteCount(len(s.Points))
	if err != nil {
		return err
	}

	for _, p := range s.Points {
		err = writePoint(w, p)
		if err != nil {
			return err
		}
	}

	return nil
}

func writePoint(w *datastream.Writer, p Point) error {
	err := w.WriteFloat32(p.X)
	if err != nil {
		return err
	}

	err = w.WriteFloat32(p.Y)
	if err != nil {
		return err
	}

	return w.WriteFloat32(p.Pressure)
}

// WriteLine writes the record for a single line art item.
func WriteLine(w *datastream.Writer, l *Line) error {
	err := w.WriteInt32(lineVersion)
	if err != nil {
		return err
	}

	err = w.WriteInt32(int32(l.Tool))
	if err != nil {
		return err
	}

	err = w.WriteInt32(int32(l.Color))
	if err != nil {
		return err
	}

	for _, f := range []float32{l.Thickness, l.X0, l.Y0, l.X1, l.Y1} {
		err = w.WriteFloat32(f)
		if err != nil {
			return err
		}
	}

	return nil
}
