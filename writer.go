package quill

import (
	"bytes"
	"io"

	"github.com/akeil/quill/internal/datastream"
	"github.com/akeil/quill/pkg/ink"
)

// Record versions written by this package.
const (
	tagVersion    = 1
	tagSetVersion = 1
	pageVersion   = 5
	bookVersion   = 1
)

// MarshalBinary returns the page record in the current format.
func (p *Page) MarshalBinary() ([]byte, error) {
	buf := &bytes.Buffer{}
	err := WritePage(buf, p)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WritePage writes the page record in the current format.
func WritePage(w io.Writer, p *Page) error {
	return writePage(datastream.NewWriter(w), p)
}

func writePage(w *datastream.Writer, p *Page) error {
	err := w.WriteInt32(pageVersion)
	if err != nil {
		return err
	}

	err = w.WriteUTF(p.id.String())
	if err != nil {
		return err
	}

	err = writeTagSet(w, p.tags)
	if err != nil {
		return err
	}

	err = w.WriteInt32(int32(p.paper))
	if err != nil {
		return err
	}

	err = writeReserved(w, 2)
	if err != nil {
		return err
	}

	err = w.WriteBool(p.readOnly)
	if err != nil {
		return err
	}

	err = w.WriteFloat32(p.aspect)
	if err != nil {
		return err
	}

	err = w.WriteCount(len(p.strokes))
	if err != nil {
		return err
	}
	for _, s := range p.strokes {
		err = ink.WriteStroke(w, s)
		if err != nil {
			return err
		}
	}

	err = w.WriteCount(len(p.lines))
	if err != nil {
		return err
	}
	for _, l := range p.lines {
		err = ink.WriteLine(w, l)
		if err != nil {
			return err
		}
	}

	// number of images and text boxes, not supported yet
	return writeReserved(w, 2)
}

func writeTagSet(w *datastream.Writer, ts *TagSet) error {
	err := w.WriteInt32(tagSetVersion)
	if err != nil {
		return err
	}

	tags := ts.Tags()
	err = w.WriteCount(len(tags))
	if err != nil {
		return err
	}

	for _, t := range tags {
		err = writeTag(w, t)
		if err != nil {
			return err
		}
	}

	return writeReserved(w, 2)
}

func writeTag(w *datastream.Writer, t *Tag) error {
	err := w.WriteInt32(tagVersion)
	if err != nil {
		return err
	}

	err = w.WriteUTF(t.name)
	if err != nil {
		return err
	}

	err = w.WriteBool(t.autogenerated)
	if err != nil {
		return err
	}

	err = w.WriteInt64(t.created.UnixMilli())
	if err != nil {
		return err
	}

	// reserved
	return w.WriteInt64(0)
}

func writeBook(w *datastream.Writer, b *Book) error {
	err := w.WriteInt32(bookVersion)
	if err != nil {
		return err
	}

	err = w.WriteUTF(b.id.String())
	if err != nil {
		return err
	}

	err = w.WriteUTF(b.title)
	if err != nil {
		return err
	}

	err = w.WriteInt64(b.created.UnixMilli())
	if err != nil {
		return err
	}

	err = w.WriteInt64(b.modified.UnixMilli())
	if err != nil {
		return err
	}

	err = w.WriteInt32(int32(b.current))
	if err != nil {
		return err
	}

	err = w.WriteCount(len(b.pages))
	if err != nil {
		return err
	}

	for _, p := range b.pages {
		err = writePage(w, p)
		if err != nil {
			return err
		}
	}

	return writeReserved(w, 1)
}

func writeReserved(w *datastream.Writer, n int) error {
	for i := 0; i < n; i++ {
		err := w.WriteInt32(0)
		if err != nil {
			return err
		}
	}
	return nil
}
