package ink

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akeil/quill/internal/datastream"
)

func TestStrokeRecord(t *testing.T) {
	s := NewStroke(Pencil, DarkBlue, 0.004)
	s.Add(0.1, 0.2, 0.5)
	s.Add(0.3, 0.4, 1)

	buf := &bytes.Buffer{}
	require.NoError(t, WriteStroke(datastream.NewWriter(buf), s))
	// version, pen, color, thickness, count, 2 x 3 floats
	assert.Equal(t, 4*5+2*3*4, buf.Len())

	actual, err := ReadStroke(datastream.NewReader(buf))
	require.NoError(t, err)
	assert.Equal(t, Pencil, actual.Pen)
	assert.Equal(t, DarkBlue, actual.Color)
	assert.Equal(t, s.Points, actual.Points)
	assert.Equal(t, Identity(), actual.Transform())
}

func TestLineRecord(t *testing.T) {
	l := NewLine(Arrow, Red, 0.01, 0, 0.5, 0.7, 0.5)

	buf := &bytes.Buffer{}
	require.NoError(t, WriteLine(datastream.NewWriter(buf), l))

	actual, err := ReadLine(datastream.NewReader(buf))
	require.NoError(t, err)
	assert.Equal(t, l, actual)
}

func TestUnsupportedStrokeVersion(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, datastream.NewWriter(buf).WriteInt32(2))

	_, err := ReadStroke(datastream.NewReader(buf))
	assert.Error(t, err)
}

func TestTransform(t *testing.T) {
	tr := Transform{OffsetX: 10, OffsetY: 20, Scale: 100}
	x, y := tr.Apply(0.5, 1)
	assert.Equal(t, float32(60), x)
	assert.Equal(t, float32(120), y)

	px, py := tr.Inverse(x, y)
	assert.Equal(t, float32(0.5), px)
	assert.Equal(t, float32(1), py)
}

func TestScreenPoints(t *testing.T) {
	s := NewStroke(FountainPen, Black, 0.5)
	s.Add(0.5, 0.5, 1)
	s.SetTransform(Transform{OffsetX: 5, Scale: 10})

	pts := s.ScreenPoints()
	require.Len(t, pts, 1)
	assert.Equal(t, Point{X: 10, Y: 5, Pressure: 1}, pts[0])
	assert.Equal(t, float32(5), s.ScreenWidth())
	// page coordinates are untouched
	assert.Equal(t, float32(0.5), s.Points[0].X)
}

func TestValidateStroke(t *testing.T) {
	s := NewStroke(FountainPen, Black, 0.01)
	s.Add(0.1, 0.1, 0.5)
	assert.NoError(t, s.Validate())

	s.Pen = PenType(42)
	assert.Error(t, s.Validate())
	s.Pen = Pencil

	s.Points[0].Pressure = 2
	assert.Error(t, s.Validate())
	s.Points[0].Pressure = 1

	s.Points[0].X = float32(math.NaN())
	assert.Error(t, s.Validate())
}

func TestValidateLine(t *testing.T) {
	l := NewLine(StraightLine, Black, 0.01, 0, 0, 1, 1)
	assert.NoError(t, l.Validate())

	l.Thickness = 0
	assert.Error(t, l.Validate())
}

func TestColor(t *testing.T) {
	c := Color(0x80102030).NRGBA()
	assert.Equal(t, uint8(0x80), c.A)
	assert.Equal(t, uint8(0x10), c.R)
	assert.Equal(t, uint8(0x20), c.G)
	assert.Equal(t, uint8(0x30), c.B)
}

func TestReadStrokeTruncated(t *testing.T) {
	buf := &bytes.Buffer{}
	w := datastream.NewWriter(buf)
	require.NoError(t, w.WriteInt32(strokeVersion))
	require.NoError(t, w.WriteInt32(int32(Pencil)))
	require.NoError(t, w.WriteInt32(0))
	require.NoError(t, w.WriteFloat32(0.01))
	// claims far more points than the record holds
	require.NoError(t, w.WriteInt32(math.MaxInt32))
	require.NoError(t, w.WriteFloat32(0.1))
	require.NoError(t, w.WriteFloat32(0.2))
	require.NoError(t, w.WriteFloat32(0.5))

	_, err := ReadStroke(datastream.NewReader(buf))
	assert.Error(t, err)
}
