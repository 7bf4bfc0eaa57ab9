package quill

import (
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/akeil/quill/internal/datastream"
	"github.com/akeil/quill/pkg/ink"
)

// ReadPage reads a single page record in any of the supported versions.
//
// Tags stored with the page are resolved against the given pool; unknown
// tags are registered.
func ReadPage(r io.Reader, pool *TagPool) (*Page, error) {
	return readPage(datastream.NewReader(r), pool)
}

func readPage(r *datastream.Reader, pool *TagPool) (p *Page, err error) {
	version, err := r.Int32()
	if err != nil {
		return nil, fmt.Errorf("failed to read page version")
	}

	p = &Page{
		strokes:   make([]*ink.Stroke, 0),
		lines:     make([]*ink.Line, 0),
		aspect:    DefaultAspectRatio,
		transform: ink.Identity(),
	}
	// a page that fails to load must not keep references on its tags
	defer func() {
		if err == nil {
			return
		}
		if p != nil && p.tags != nil {
			p.tags.Close()
		}
		p = nil
	}()

	switch version {
	case 1:
		p.id = uuid.New()
		p.tags = pool.NewTagSet()
		p.paper = PaperEmpty
	case 2:
		p.id = uuid.New()
		p.tags = pool.NewTagSet()
		err = readPaper(r, p)
	case 3:
		p.id = uuid.New()
		p.tags, err = readTagSet(r, pool)
		if err != nil {
			return p, err
		}
		err = readPaper(r, p)
	case 4, 5:
		p.id, err = readUUID(r)
		if err != nil {
			return nil, err
		}
		p.tags, err = readTagSet(r, pool)
		if err != nil {
			return p, err
		}
		err = readPaper(r, p)
	default:
		return nil, &VersionError{Record: "page", Version: version}
	}
	if err != nil {
		return p, err
	}

	err = readContent(r, p, version)
	if err != nil {
		return p, err
	}

	p.modified = false
	return p, nil
}

func readPaper(r *datastream.Reader, p *Page) error {
	n, err := r.Int32()
	if err != nil {
		return fmt.Errorf("failed to read paper type")
	}
	paper := PaperType(n)
	err = paper.Validate()
	if err != nil {
		return err
	}
	p.paper = paper

	return readReserved(r, 2)
}

// readContent reads the fields that are common to all versions,
// followed by the line art for version 5.
func readContent(r *datastream.Reader, p *Page, version int32) error {
	var err error
	p.readOnly, err = r.Bool()
	if err != nil {
		return fmt.Errorf("failed to read read-only flag")
	}

	p.aspect, err = r.Float32()
	if err != nil {
		return fmt.Errorf("failed to read aspect ratio")
	}

	nStrokes, err := r.Count()
	if err != nil {
		return fmt.Errorf("failed to read number of strokes")
	}
	for i := 0; i < nStrokes; i++ {
		s, err := ink.ReadStroke(r)
		if err != nil {
			return err
		}
		s.SetTransform(p.transform)
		p.strokes = append(p.strokes, s)
	}

	if version < 5 {
		return nil
	}

	nLines, err := r.Count()
	if err != nil {
		return fmt.Errorf("failed to read number of lines")
	}
	for i := 0; i < nLines; i++ {
		l, err := ink.ReadLine(r)
		if err != nil {
			return err
		}
		l.SetTransform(p.transform)
		p.lines = append(p.lines, l)
	}

	// images and text boxes are reserved, their records are not defined
	nImages, err := r.Int32()
	if err != nil {
		return fmt.Errorf("failed to read number of images")
	}
	nText, err := r.Int32()
	if err != nil {
		return fmt.Errorf("failed to read number of text boxes")
	}
	// Without a record layout the content could not be skipped, so a page
	// that claims any is rejected instead of loaded without it.
	if nImages != 0 || nText != 0 {
		return fmt.Errorf("unsupported page content: %d images, %d text boxes", nImages, nText)
	}

	return nil
}

// readTagSet reads a tag set record and adds each tag to a new set.
func readTagSet(r *datastream.Reader, pool *TagPool) (ts *TagSet, err error) {
	version, err := r.Int32()
	if err != nil {
		return nil, fmt.Errorf("failed to read tag set version")
	}
	if version != tagSetVersion {
		return nil, &VersionError{Record: "tag set", Version: version}
	}

	n, err := r.Count()
	if err != nil {
		return nil, fmt.Errorf("failed to read number of tags")
	}

	ts = pool.NewTagSet()
	defer func() {
		if err != nil {
			ts.Close()
			ts = nil
		}
	}()

	for i := 0; i < n; i++ {
		t, err := readTag(r, pool)
		if err != nil {
			return ts, err
		}
		ts.Add(t)
	}

	err = readReserved(r, 2)
	return ts, err
}

// readTag reads a tag record and returns the matching tag from the pool.
func readTag(r *datastream.Reader, pool *TagPool) (*Tag, error) {
	version, err := r.Int32()
	if err != nil {
		return nil, fmt.Errorf("failed to read tag version")
	}
	if version != tagVersion {
		return nil, &VersionError{Record: "tag", Version: version}
	}

	name, err := r.UTF()
	if err != nil {
		return nil, fmt.Errorf("failed to read tag name: %w", err)
	}

	autogenerated, err := r.Bool()
	if err != nil {
		return nil, fmt.Errorf("failed to read tag flags")
	}

	ctime, err := r.Int64()
	if err != nil {
		return nil, fmt.Errorf("failed to read tag creation time")
	}

	_, err = r.Int64()
	if err != nil {
		return nil, fmt.Errorf("failed to read reserved field")
	}

	return pool.adopt(name, autogenerated, time.UnixMilli(ctime)), nil
}

// bookHeader is the metadata stored at the beginning of a book record.
type bookHeader struct {
	ID           uuid.UUID
	Title        string
	Created      time.Time
	LastModified time.Time
	CurrentPage  int
	PageCount    int
}

func readBookHeader(r *datastream.Reader) (bookHeader, error) {
	var h bookHeader

	version, err := r.Int32()
	if err != nil {
		return h, fmt.Errorf("failed to read book version")
	}
	if version != bookVersion {
		return h, &VersionError{Record: "book", Version: version}
	}

	h.ID, err = readUUID(r)
	if err != nil {
		return h, err
	}

	h.Title, err = r.UTF()
	if err != nil {
		return h, fmt.Errorf("failed to read book title: %w", err)
	}

	ctime, err := r.Int64()
	if err != nil {
		return h, fmt.Errorf("failed to read book creation time")
	}
	h.Created = time.UnixMilli(ctime)

	mtime, err := r.Int64()
	if err != nil {
		return h, fmt.Errorf("failed to read book modification time")
	}
	h.LastModified = time.UnixMilli(mtime)

	current, err := r.Int32()
	if err != nil {
		return h, fmt.Errorf("failed to read current page")
	}
	h.CurrentPage = int(current)

	h.PageCount, err = r.Count()
	if err != nil {
		return h, fmt.Errorf("failed to read number of pages")
	}

	return h, nil
}

// ReadBook reads a complete book record, e.g. from an archive file.
//
// The caller must Close the book when it is no longer used.
func ReadBook(r io.Reader, pool *TagPool) (*Book, error) {
	return readBook(datastream.NewReader(r), pool, 0)
}

// maxPagePrealloc caps the capacity reserved from the stored page count.
const maxPagePrealloc = 256

// readBook reads a book record. If limit is greater than zero, reading
// stops after that many pages.
func readBook(r *datastream.Reader, pool *TagPool, limit int) (*Book, error) {
	h, err := readBookHeader(r)
	if err != nil {
		return nil, err
	}

	n := h.PageCount
	if limit > 0 && limit < n {
		n = limit
	}

	b := &Book{
		id:        h.ID,
		title:     h.Title,
		created:   h.Created,
		modified:  h.LastModified,
		pageCount: h.PageCount,
		pool:      pool,
		pages:     make([]*Page, 0, min(n, maxPagePrealloc)),
	}

	for i := 0; i < n; i++ {
		p, err := readPage(r, pool)
		if err != nil {
			b.Close()
			return nil, Wrap(err, "page %d", i+1)
		}
		b.pages = append(b.pages, p)
	}

	if n == h.PageCount {
		err = readReserved(r, 1)
		if err != nil {
			b.Close()
			return nil, err
		}
	}

	if len(b.pages) == 0 {
		b.pages = append(b.pages, NewPage(pool))
	}
	b.current = h.CurrentPage
	if b.current < 0 || b.current >= len(b.pages) {
		b.current = 0
	}

	return b, nil
}

func readUUID(r *datastream.Reader) (uuid.UUID, error) {
	s, err := r.UTF()
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to read uuid: %w", err)
	}

	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid uuid %q: %w", s, err)
	}

	return id, nil
}

func readReserved(r *datastream.Reader, n int) error {
	for i := 0; i < n; i++ {
		_, err := r.Int32()
		if err != nil {
			return fmt.Errorf("failed to read reserved field")
		}
	}
	return nil
}
