package quill

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akeil/quill/internal/datastream"
	"github.com/akeil/quill/pkg/ink"
)

// record builds binary records for tests.
type record struct {
	t   *testing.T
	buf bytes.Buffer
	w   *datastream.Writer
}

func newRecord(t *testing.T) *record {
	r := &record{t: t}
	r.w = datastream.NewWriter(&r.buf)
	return r
}

func (r *record) int32(n int32) *record {
	require.NoError(r.t, r.w.WriteInt32(n))
	return r
}

func (r *record) int64(n int64) *record {
	require.NoError(r.t, r.w.WriteInt64(n))
	return r
}

func (r *record) float32(f float32) *record {
	require.NoError(r.t, r.w.WriteFloat32(f))
	return r
}

func (r *record) bool(b bool) *record {
	require.NoError(r.t, r.w.WriteBool(b))
	return r
}

func (r *record) utf(s string) *record {
	require.NoError(r.t, r.w.WriteUTF(s))
	return r
}

func (r *record) tagSet(names ...string) *record {
	r.int32(1).int32(int32(len(names)))
	for _, n := range names {
		r.int32(1).utf(n).bool(true).int64(1600000000000).int64(0)
	}
	return r.int32(0).int32(0)
}

// trailer writes read-only flag, aspect ratio and an empty stroke list.
func (r *record) trailer(readOnly bool, aspect float32) *record {
	return r.bool(readOnly).float32(aspect).int32(0)
}

func (r *record) reader() *bytes.Reader {
	return bytes.NewReader(r.buf.Bytes())
}

func TestPageRoundTrip(t *testing.T) {
	pool := NewTagPool()
	p := NewPage(pool)
	p.SetPaperType(PaperQuad)
	p.SetAspectRatio(AspectRatios[1].Ratio)
	p.SetReadOnly(true)
	p.Tags().Add(pool.MakeOrFind("Work"))
	p.Tags().Add(pool.MakeOrFind("Ideas"))

	s1 := ink.NewStroke(ink.FountainPen, ink.Black, 0.002)
	s1.Add(0.1, 0.1, 0.5)
	s1.Add(0.2, 0.2, 0.7)
	s2 := ink.NewStroke(ink.Pencil, ink.Red, 0.004)
	s2.Add(0.5, 0.5, 1)
	p.AddStroke(s1)
	p.AddStroke(s2)
	p.AddLine(ink.NewLine(ink.Arrow, ink.DarkBlue, 0.003, 0, 0, 1, 1))

	data, err := p.MarshalBinary()
	require.NoError(t, err)

	actual, err := ReadPage(bytes.NewReader(data), pool)
	require.NoError(t, err)

	assert.Equal(t, p.ID(), actual.ID())
	assert.Equal(t, PaperQuad, actual.PaperType())
	assert.Equal(t, p.AspectRatio(), actual.AspectRatio())
	assert.True(t, actual.ReadOnly())
	assert.False(t, actual.IsModified())
	assert.Equal(t, []string{"Work", "Ideas"}, actual.Tags().Names())
	assert.Equal(t, 2, pool.FindByName("work").Count())

	require.Len(t, actual.Strokes(), 2)
	assert.Equal(t, s1.Points, actual.Strokes()[0].Points)
	assert.Equal(t, ink.Pencil, actual.Strokes()[1].Pen)
	require.Len(t, actual.Lines(), 1)
	assert.Equal(t, ink.Arrow, actual.Lines()[0].Tool)
}

func TestReadPageV1(t *testing.T) {
	pool := NewTagPool()
	r := newRecord(t).int32(1).trailer(true, 1)

	p, err := ReadPage(r.reader(), pool)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, p.ID())
	assert.Equal(t, PaperEmpty, p.PaperType())
	assert.Equal(t, 0, p.Tags().Len())
	assert.Equal(t, float32(1), p.AspectRatio())
	assert.True(t, p.ReadOnly())
	assert.False(t, p.IsModified())
	assert.True(t, p.IsEmpty())
}

func TestReadPageV2(t *testing.T) {
	r := newRecord(t).int32(2).int32(int32(PaperMusic)).int32(0).int32(0).trailer(false, 0.75)

	p, err := ReadPage(r.reader(), NewTagPool())
	require.NoError(t, err)

	assert.Equal(t, PaperMusic, p.PaperType())
	assert.Equal(t, 0, p.Tags().Len())
	assert.Equal(t, float32(0.75), p.AspectRatio())
}

func TestReadPageV3(t *testing.T) {
	pool := NewTagPool()
	r := newRecord(t).int32(3).tagSet("Foo", "Bar").
		int32(int32(PaperRuled)).int32(0).int32(0).trailer(false, 1)

	p, err := ReadPage(r.reader(), pool)
	require.NoError(t, err)

	assert.Equal(t, []string{"Foo", "Bar"}, p.Tags().Names())
	foo := pool.FindByName("foo")
	require.NotNil(t, foo)
	assert.Equal(t, 1, foo.Count())
	assert.True(t, foo.Autogenerated())
	assert.Equal(t, time.UnixMilli(1600000000000), foo.Created())
}

func TestReadPageV4(t *testing.T) {
	id := uuid.New()
	r := newRecord(t).int32(4).utf(id.String()).tagSet().
		int32(int32(PaperHex)).int32(0).int32(0).trailer(false, 1)
	// trailing bytes belong to the next record
	r.int32(99)

	rd := r.reader()
	p, err := ReadPage(rd, NewTagPool())
	require.NoError(t, err)

	assert.Equal(t, id, p.ID())
	assert.Equal(t, PaperHex, p.PaperType())
	assert.Equal(t, 4, rd.Len(), "version 4 has no line art section")
}

func TestReadPageKnownTag(t *testing.T) {
	pool := NewTagPool()
	existing := pool.MakeOrFind("foo")

	r := newRecord(t).int32(3).tagSet("FOO").
		int32(0).int32(0).int32(0).trailer(false, 1)
	p, err := ReadPage(r.reader(), pool)
	require.NoError(t, err)

	assert.Equal(t, 1, pool.Len())
	assert.True(t, p.Tags().Contains(existing))
	assert.False(t, existing.Autogenerated())
}

func TestReadPageUnknownVersion(t *testing.T) {
	for _, v := range []int32{0, 6, -1} {
		r := newRecord(t).int32(v).trailer(false, 1)
		_, err := ReadPage(r.reader(), NewTagPool())
		assert.True(t, IsVersionError(err), "version %d", v)
	}
}

func TestReadPageBadTagVersion(t *testing.T) {
	r := newRecord(t).int32(3).int32(2).int32(0)
	_, err := ReadPage(r.reader(), NewTagPool())
	assert.True(t, IsVersionError(err))
}

func TestReadPageFailureReleasesTags(t *testing.T) {
	pool := NewTagPool()
	// truncated after the tag set
	r := newRecord(t).int32(5).utf(uuid.New().String()).tagSet("Foo")

	p, err := ReadPage(r.reader(), pool)
	assert.Error(t, err)
	assert.Nil(t, p)

	foo := pool.FindByName("foo")
	require.NotNil(t, foo)
	assert.Equal(t, 0, foo.Count())
}

func TestReadPageRejectsImages(t *testing.T) {
	r := newRecord(t).int32(5).utf(uuid.New().String()).tagSet().
		int32(0).int32(0).int32(0).trailer(false, 1).
		int32(0). // lines
		int32(1). // images
		int32(0)

	_, err := ReadPage(r.reader(), NewTagPool())
	assert.Error(t, err)
}

func TestReadPageBadPaper(t *testing.T) {
	r := newRecord(t).int32(2).int32(42).int32(0).int32(0).trailer(false, 1)
	_, err := ReadPage(r.reader(), NewTagPool())
	assert.Error(t, err)
}

func TestNewPageFrom(t *testing.T) {
	pool := NewTagPool()
	tpl := NewPage(pool)
	tpl.SetPaperType(PaperCornellNotes)
	tpl.SetAspectRatio(1)
	tag := pool.MakeOrFind("Trip")
	tpl.Tags().Add(tag)
	tpl.AddStroke(ink.NewStroke(ink.FountainPen, ink.Black, 0.001))

	p := NewPageFrom(tpl)

	assert.NotEqual(t, tpl.ID(), p.ID())
	assert.Equal(t, PaperCornellNotes, p.PaperType())
	assert.Equal(t, float32(1), p.AspectRatio())
	assert.True(t, p.Tags().Contains(tag))
	assert.Equal(t, 2, tag.Count())
	assert.True(t, p.IsEmpty())
	assert.True(t, p.IsModified())

	p.Close()
	assert.Equal(t, 1, tag.Count())
}

func TestSetTransform(t *testing.T) {
	p := NewPage(NewTagPool())
	s := ink.NewStroke(ink.FountainPen, ink.Black, 0.01)
	s.Add(0.5, 0.5, 1)
	l := ink.NewLine(ink.StraightLine, ink.Black, 0.01, 0, 0, 1, 1)
	p.AddStroke(s)
	p.AddLine(l)

	tr := ink.Transform{OffsetX: 10, OffsetY: 20, Scale: 100}
	p.SetTransform(tr)

	assert.Equal(t, tr, p.Transform())
	assert.Equal(t, tr, s.Transform())
	assert.Equal(t, tr, l.Transform())
	assert.Equal(t, []ink.Point{{X: 60, Y: 70, Pressure: 1}}, s.ScreenPoints())

	// items added later pick up the transform
	s2 := ink.NewStroke(ink.Pencil, ink.Black, 0.01)
	p.AddStroke(s2)
	assert.Equal(t, tr, s2.Transform())
}

func TestSetTransformClamped(t *testing.T) {
	p := NewPage(NewTagPool())
	p.SetAspectRatio(1)

	// too far right and down
	p.SetTransformClamped(ink.Transform{OffsetX: 1000, OffsetY: 1000, Scale: 300}, 600, 900)
	assert.Equal(t, ink.Transform{OffsetX: 400, OffsetY: 600, Scale: 300}, p.Transform())

	// too far left and up
	p.SetTransformClamped(ink.Transform{OffsetX: -1000, OffsetY: -1000, Scale: 300}, 600, 900)
	assert.Equal(t, ink.Transform{OffsetX: -100, OffsetY: 0, Scale: 300}, p.Transform())

	// within bounds
	p.SetTransformClamped(ink.Transform{OffsetX: 50, OffsetY: 60, Scale: 300}, 600, 900)
	assert.Equal(t, ink.Transform{OffsetX: 50, OffsetY: 60, Scale: 300}, p.Transform())
}

func TestRemoveContent(t *testing.T) {
	p := NewPage(NewTagPool())
	s := ink.NewStroke(ink.FountainPen, ink.Black, 0.01)
	l := ink.NewLine(ink.StraightLine, ink.Black, 0.01, 0, 0, 1, 1)
	p.AddStroke(s)
	p.AddLine(l)

	assert.True(t, p.RemoveStroke(s))
	assert.False(t, p.RemoveStroke(s))
	assert.True(t, p.RemoveLine(l))
	assert.False(t, p.RemoveLine(l))
	assert.True(t, p.IsEmpty())
}

func TestPageValidate(t *testing.T) {
	p := NewPage(NewTagPool())
	assert.NoError(t, p.Validate())

	p.SetPaperType(PaperType(99))
	assert.Error(t, p.Validate())
}

// hugeStroke writes a stroke that claims more points than follow.
func (r *record) hugeStroke() *record {
	return r.int32(1).int32(int32(ink.Pencil)).int32(0).float32(0.01).
		int32(0x7FFFFFFF).float32(0.1).float32(0.2)
}

func TestReadPageTruncatedStroke(t *testing.T) {
	pool := NewTagPool()
	r := newRecord(t).int32(4).utf(uuid.NewString()).tagSet("Foo").
		int32(int32(PaperRuled)).int32(0).int32(0).
		bool(false).float32(1).int32(1).hugeStroke()

	p, err := ReadPage(r.reader(), pool)
	assert.Error(t, err)
	assert.Nil(t, p)
	assert.Equal(t, 0, pool.FindByName("foo").Count())
}

func TestReadPageTruncatedStrokeList(t *testing.T) {
	r := newRecord(t).int32(1).bool(false).float32(1).int32(0x7FFFFFFF)

	_, err := ReadPage(r.reader(), NewTagPool())
	assert.Error(t, err)
}
