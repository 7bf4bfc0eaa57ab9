package quill

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/akeil/quill/internal/datastream"
	"github.com/akeil/quill/internal/errors"
	"github.com/akeil/quill/internal/logging"
)

// A Book is a notebook with an ordered sequence of pages.
//
// The book owns its pages. Call Close when a book is discarded so that
// the pages release their tags.
type Book struct {
	id        uuid.UUID
	title     string
	created   time.Time
	modified  time.Time
	pages     []*Page
	pageCount int
	current   int
	dirty     bool
	pool      *TagPool
	listener  UndoListener
}

// NewBook creates a book with the given title and a single empty page.
func NewBook(pool *TagPool, title string) *Book {
	now := time.Now()
	return &Book{
		id:        uuid.New(),
		title:     title,
		created:   now,
		modified:  now,
		pages:     []*Page{NewPage(pool)},
		pageCount: 1,
		dirty:     true,
		pool:      pool,
	}
}

// LoadBook reads the complete book with the given ID from storage.
func LoadBook(s Storage, pool *TagPool, id uuid.UUID) (*Book, error) {
	return loadBook(s, pool, id, 0)
}

func loadBook(s Storage, pool *TagPool, id uuid.UUID, limit int) (*Book, error) {
	logging.Debug("Load book %v (page limit %d)", id, limit)
	r, err := s.Reader(id)
	if err != nil {
		return nil, &BookLoadError{ID: id, Err: err}
	}
	defer r.Close()

	b, err := readBook(datastream.NewReader(r), pool, limit)
	if err != nil {
		return nil, &BookLoadError{ID: id, Err: err}
	}

	if b.id != id {
		b.Close()
		return nil, &BookLoadError{ID: id, Err: fmt.Errorf("stored record belongs to book %v", b.id)}
	}

	return b, nil
}

// Save writes the book with all pages to storage and updates the
// modification time.
func (b *Book) Save(s Storage) error {
	logging.Debug("Save book %v %q", b.id, b.title)
	modified := b.modified
	b.modified = time.Now()

	err := b.write(s)
	if err != nil {
		b.modified = modified
		return &BookSaveError{ID: b.id, Err: err}
	}

	b.dirty = false
	for _, p := range b.pages {
		p.modified = false
	}
	return nil
}

func (b *Book) write(s Storage) error {
	w, err := s.Writer(b.id)
	if err != nil {
		return err
	}

	err = writeBook(datastream.NewWriter(w), b)
	if err != nil {
		w.Close()
		return err
	}

	return w.Close()
}

// ID is the unique identifier for this book.
func (b *Book) ID() uuid.UUID {
	return b.id
}

// Title is the display name.
func (b *Book) Title() string {
	return b.title
}

// SetTitle changes the display name.
func (b *Book) SetTitle(title string) {
	b.title = title
	b.dirty = true
}

// Created is the creation time.
func (b *Book) Created() time.Time {
	return b.created
}

// LastModified is the time the book was last saved.
func (b *Book) LastModified() time.Time {
	return b.modified
}

// IsModified tells if the book or any page has unsaved changes.
func (b *Book) IsModified() bool {
	if b.dirty {
		return true
	}
	for _, p := range b.pages {
		if p.IsModified() {
			return true
		}
	}
	return false
}

// Pool is the tag pool used by the pages of this book.
func (b *Book) Pool() *TagPool {
	return b.pool
}

// PageCount is the number of pages.
func (b *Book) PageCount() int {
	return len(b.pages)
}

// Pages returns all pages in order.
func (b *Book) Pages() []*Page {
	p := make([]*Page, len(b.pages))
	copy(p, b.pages)
	return p
}

// Page returns the page at the given zero-based position.
func (b *Book) Page(i int) (*Page, error) {
	if i < 0 || i >= len(b.pages) {
		return nil, errors.NewNotFound("page %d in book %v", i, b.id)
	}
	return b.pages[i], nil
}

// CurrentPage is the page that was viewed last.
func (b *Book) CurrentPage() *Page {
	return b.pages[b.current]
}

// CurrentPosition is the position of the current page.
func (b *Book) CurrentPosition() int {
	return b.current
}

// SetCurrentPosition changes the current page.
func (b *Book) SetCurrentPosition(i int) error {
	if i < 0 || i >= len(b.pages) {
		return errors.NewValidationError("invalid page position %d", i)
	}
	b.current = i
	return nil
}

// SetListener sets the receiver for page insert and remove notifications.
func (b *Book) SetListener(l UndoListener) {
	b.listener = l
}

// InsertPage creates a new page based on the current page,
// inserts it at the given position and makes it the current page.
func (b *Book) InsertPage(position int) (*Page, error) {
	if position < 0 || position > len(b.pages) {
		return nil, errors.NewValidationError("invalid page position %d", position)
	}

	p := NewPageFrom(b.CurrentPage())
	b.pages = append(b.pages, nil)
	copy(b.pages[position+1:], b.pages[position:])
	b.pages[position] = p
	b.current = position
	b.dirty = true

	if b.listener != nil {
		b.listener.PageInserted(b, p, position)
	}
	return p, nil
}

// RemovePage removes the page at the given position.
//
// The last remaining page cannot be removed. The removed page is handed
// to the UndoListener, if there is none the page is closed.
func (b *Book) RemovePage(position int) error {
	if position < 0 || position >= len(b.pages) {
		return errors.NewValidationError("invalid page position %d", position)
	}
	if len(b.pages) == 1 {
		return errors.NewValidationError("cannot remove the only page")
	}

	p := b.pages[position]
	b.pages = append(b.pages[:position], b.pages[position+1:]...)
	if b.current >= len(b.pages) {
		b.current = len(b.pages) - 1
	}
	b.dirty = true

	if b.listener != nil {
		b.listener.PageRemoved(b, p, position)
	} else {
		p.Close()
	}
	return nil
}

// Close releases the tags of all pages.
func (b *Book) Close() {
	for _, p := range b.pages {
		p.Close()
	}
}

// BookPreview is a partially loaded book for listings.
//
// Only the book metadata and the first page are read from storage.
// The first page does not hold references on its tags.
type BookPreview struct {
	id    uuid.UUID
	book  *Book
	store Storage
	pool  *TagPool
}

// NewBookPreview loads the preview for the book with the given ID.
func NewBookPreview(s Storage, pool *TagPool, id uuid.UUID) (*BookPreview, error) {
	bp := &BookPreview{
		id:    id,
		store: s,
		pool:  pool,
	}

	err := bp.Reload()
	if err != nil {
		return nil, err
	}

	return bp, nil
}

// Reload reads the preview from storage again.
func (bp *BookPreview) Reload() error {
	b, err := loadBook(bp.store, bp.pool, bp.id, 1)
	if err != nil {
		return err
	}
	// tags are registered with the pool but previews do not count as usage
	b.Close()

	bp.book = b
	return nil
}

// ID is the ID of the previewed book.
func (bp *BookPreview) ID() uuid.UUID {
	return bp.id
}

// Title is the title of the book as stored.
func (bp *BookPreview) Title() string {
	return bp.book.title
}

// Created is the creation time of the book.
func (bp *BookPreview) Created() time.Time {
	return bp.book.created
}

// LastModified is the time the book was last saved.
func (bp *BookPreview) LastModified() time.Time {
	return bp.book.modified
}

// PageCount is the number of pages in the stored book.
func (bp *BookPreview) PageCount() int {
	return bp.book.pageCount
}

// FirstPage is the first page of the book, e.g. to render a thumbnail.
func (bp *BookPreview) FirstPage() *Page {
	return bp.book.pages[0]
}

// Summary describes creation and modification time.
func (bp *BookPreview) Summary() string {
	s := "Created on " + bp.store.FormatDateTime(bp.Created()) + "\n"
	s += "Last modified on " + bp.store.FormatDateTime(bp.LastModified()) + "\n"
	return s
}

func (bp *BookPreview) deleteFromStorage() error {
	return bp.store.DeleteBook(bp.id)
}
