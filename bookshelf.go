package quill

import (
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/akeil/quill/internal/errors"
	"github.com/akeil/quill/internal/logging"
)

// ExampleTitle is the title for the book that is created when the
// bookshelf is empty.
const ExampleTitle = "Example Notebook"

const defaultLoadWorkers = 4

// Bookshelf holds a preview for every stored book and the current book.
//
// Once a current book exists, the shelf contains at least one book and the
// current book always has a preview.
type Bookshelf struct {
	mx          sync.Mutex
	store       Storage
	pool        *TagPool
	undo        UndoListener
	previews    []*BookPreview
	current     *Book
	loadWorkers int
}

// Option configures a Bookshelf.
type Option func(*Bookshelf)

// WithUndoListener sets the listener that receives page changes for the
// current book.
func WithUndoListener(l UndoListener) Option {
	return func(b *Bookshelf) {
		b.undo = l
	}
}

// WithLoadWorkers limits the number of previews that are loaded in parallel.
func WithLoadWorkers(n int) Option {
	return func(b *Bookshelf) {
		if n > 0 {
			b.loadWorkers = n
		}
	}
}

var (
	shelfMx sync.Mutex
	shelf   *Bookshelf
)

// Initialize creates the process-wide Bookshelf.
//
// If the bookshelf is already initialized, the existing instance is
// returned and the arguments are ignored.
func Initialize(s Storage, pool *TagPool, opts ...Option) (*Bookshelf, error) {
	shelfMx.Lock()
	defer shelfMx.Unlock()

	if shelf != nil {
		return shelf, nil
	}

	b, err := NewBookshelf(s, pool, opts...)
	if err != nil {
		return nil, err
	}
	shelf = b
	return shelf, nil
}

// Finalize discards the process-wide Bookshelf so that Initialize can be
// called again, e.g. with a different storage.
//
// The current book is not saved.
func Finalize() {
	shelfMx.Lock()
	defer shelfMx.Unlock()

	if shelf == nil {
		return
	}
	shelf.close()
	shelf = nil
}

// Default returns the process-wide Bookshelf or nil if it is not
// initialized.
func Default() *Bookshelf {
	shelfMx.Lock()
	defer shelfMx.Unlock()
	return shelf
}

// NewBookshelf creates a Bookshelf with previews for all books in storage
// and loads the book that was active last.
//
// Books that cannot be loaded are left out.
func NewBookshelf(s Storage, pool *TagPool, opts ...Option) (*Bookshelf, error) {
	b := &Bookshelf{
		store:       s,
		pool:        pool,
		previews:    make([]*BookPreview, 0),
		loadWorkers: defaultLoadWorkers,
	}
	for _, opt := range opts {
		opt(b)
	}

	ids, err := s.ListBooks()
	if err != nil {
		return nil, err
	}
	logging.Info("Found %d books in storage", len(ids))

	loaded := make([]*BookPreview, len(ids))
	var group errgroup.Group
	group.SetLimit(b.loadWorkers)
	for i, id := range ids {
		i, id := i, id
		group.Go(func() error {
			p, err := NewBookPreview(s, pool, id)
			if err != nil {
				logging.Error("Failed to load preview for book %v: %v", id, err)
				return nil
			}
			loaded[i] = p
			return nil
		})
	}
	group.Wait()

	for _, p := range loaded {
		if p != nil {
			b.previews = append(b.previews, p)
		}
	}

	if len(b.previews) == 0 {
		return b, nil
	}

	id, err := s.CurrentBookID()
	if err != nil {
		logging.Warning("Failed to read the current book: %v", err)
		id = uuid.Nil
	}
	p := b.find(id)
	if p == nil {
		p = b.previews[0]
	}

	err = b.activate(p)
	if err != nil {
		return nil, err
	}

	return b, nil
}

// Pool is the tag pool for all books on this shelf.
func (b *Bookshelf) Pool() *TagPool {
	return b.pool
}

// Count is the number of books.
func (b *Bookshelf) Count() int {
	b.mx.Lock()
	defer b.mx.Unlock()
	return len(b.previews)
}

// Previews returns the previews for all books in display order.
func (b *Bookshelf) Previews() []*BookPreview {
	b.mx.Lock()
	defer b.mx.Unlock()

	p := make([]*BookPreview, len(b.previews))
	copy(p, b.previews)
	return p
}

// Preview returns the preview for the book with the given ID.
func (b *Bookshelf) Preview(id uuid.UUID) (*BookPreview, error) {
	b.mx.Lock()
	defer b.mx.Unlock()

	p := b.find(id)
	if p == nil {
		return nil, errors.NewNotFound("no book with id %v", id)
	}
	return p, nil
}

// CurrentPreview returns the preview for the current book.
func (b *Bookshelf) CurrentPreview() (*BookPreview, error) {
	b.mx.Lock()
	defer b.mx.Unlock()

	book, err := b.currentBook()
	if err != nil {
		return nil, err
	}
	return b.find(book.ID()), nil
}

// CurrentBook returns the active book.
//
// If there is no current book, an example book is created and saved.
func (b *Bookshelf) CurrentBook() (*Book, error) {
	b.mx.Lock()
	defer b.mx.Unlock()
	return b.currentBook()
}

func (b *Bookshelf) currentBook() (*Book, error) {
	if b.current != nil {
		return b.current, nil
	}

	logging.Info("No current book, create %q", ExampleTitle)
	book := NewBook(b.pool, ExampleTitle)
	err := b.register(book)
	if err != nil {
		book.Close()
		return nil, err
	}

	return b.current, nil
}

// NewBook saves the current book, then creates and saves a new book with
// the given title and makes it the current book.
func (b *Bookshelf) NewBook(title string) (*Book, error) {
	b.mx.Lock()
	defer b.mx.Unlock()

	err := b.saveCurrent()
	if err != nil {
		return nil, err
	}

	book := NewBook(b.pool, title)
	err = b.register(book)
	if err != nil {
		book.Close()
		return nil, err
	}

	return book, nil
}

// register saves a new book, adds its preview and makes it current.
func (b *Bookshelf) register(book *Book) error {
	err := book.Save(b.store)
	if err != nil {
		return err
	}

	p, err := NewBookPreview(b.store, b.pool, book.ID())
	if err != nil {
		return err
	}
	b.previews = append(b.previews, p)

	b.swap(book)
	return nil
}

// SetCurrentBook makes the book for the given preview the current book.
//
// Nothing happens if the book is already current. If save is true, the
// outgoing book is saved first.
func (b *Bookshelf) SetCurrentBook(p *BookPreview, save bool) error {
	b.mx.Lock()
	defer b.mx.Unlock()
	return b.setCurrent(p, save)
}

func (b *Bookshelf) setCurrent(p *BookPreview, save bool) error {
	if b.current != nil && b.current.ID() == p.ID() {
		return nil
	}

	if save {
		err := b.saveCurrent()
		if err != nil {
			return err
		}
	}

	return b.activate(p)
}

// activate loads the full book for the preview and makes it current.
func (b *Bookshelf) activate(p *BookPreview) error {
	book, err := LoadBook(b.store, b.pool, p.ID())
	if err != nil {
		return err
	}

	b.swap(book)
	return nil
}

// swap replaces the current book and closes the outgoing one.
func (b *Bookshelf) swap(book *Book) {
	old := b.current
	b.current = book

	if b.undo != nil {
		b.undo.ClearHistory()
		book.SetListener(b.undo)
	}

	err := b.store.SetCurrentBookID(book.ID())
	if err != nil {
		logging.Warning("Failed to store the current book: %v", err)
	}

	if old != nil {
		old.SetListener(nil)
		old.Close()
	}
	logging.Debug("Current book is %v %q", book.ID(), book.Title())
}

// Save writes the current book to storage.
func (b *Bookshelf) Save() error {
	b.mx.Lock()
	defer b.mx.Unlock()
	return b.saveCurrent()
}

func (b *Bookshelf) saveCurrent() error {
	if b.current == nil {
		return nil
	}
	err := b.current.Save(b.store)
	if err != nil {
		return err
	}

	p := b.find(b.current.ID())
	if p != nil {
		err = p.Reload()
		if err != nil {
			logging.Warning("Failed to reload preview for %v: %v", p.ID(), err)
		}
	}
	return nil
}

// DeleteBook removes the book with the given ID from storage and from the
// shelf.
//
// The last remaining book is never deleted; the request is logged and
// ignored. If the current book is deleted, another book becomes current.
func (b *Bookshelf) DeleteBook(id uuid.UUID) error {
	b.mx.Lock()
	defer b.mx.Unlock()

	if len(b.previews) <= 1 {
		logging.Info("Refusing to delete the only book %v", id)
		return nil
	}

	p := b.find(id)
	if p == nil {
		return errors.NewNotFound("no book with id %v", id)
	}

	if b.current != nil && b.current.ID() == id {
		for _, other := range b.previews {
			if other.ID() == id {
				continue
			}
			err := b.setCurrent(other, false)
			if err != nil {
				return err
			}
			break
		}
	}

	err := p.deleteFromStorage()
	if err != nil {
		return err
	}
	b.remove(id)
	logging.Info("Deleted book %v", id)

	return nil
}

// ImportBook reads a book from an archive file and makes it the current
// book.
//
// The archive is first read in the current format, then in the legacy
// format. If both fail, the previous current book is restored and a
// BookLoadError is returned.
func (b *Bookshelf) ImportBook(path string) error {
	b.mx.Lock()
	defer b.mx.Unlock()

	err := b.saveCurrent()
	if err != nil {
		return err
	}
	previous := b.current
	b.current = nil

	id, err := b.store.ImportArchive(path)
	if err != nil {
		logging.Info("Import as current archive failed, try legacy format: %v", err)
		id, err = b.store.ImportLegacyArchive(path)
	}
	if err != nil {
		b.current = previous
		return &BookLoadError{Err: err}
	}

	p := b.find(id)
	if p != nil {
		err = p.Reload()
	} else {
		p, err = NewBookPreview(b.store, b.pool, id)
		if err == nil {
			b.previews = append(b.previews, p)
		}
	}
	if err != nil {
		b.current = previous
		return err
	}

	// activate always loads, so re-importing the current book replaces it
	b.current = previous
	err = b.activate(p)
	if err != nil {
		return err
	}
	logging.Info("Imported book %v %q", id, p.Title())

	return b.saveCurrent()
}

// ExportBook writes the book with the given ID to an archive file.
//
// If the book is the current book, it is saved first.
func (b *Bookshelf) ExportBook(id uuid.UUID, path string) error {
	b.mx.Lock()
	defer b.mx.Unlock()
	return b.export(id, path)
}

// ExportCurrentBook writes the current book to an archive file.
func (b *Bookshelf) ExportCurrentBook(path string) error {
	b.mx.Lock()
	defer b.mx.Unlock()

	book, err := b.currentBook()
	if err != nil {
		return err
	}
	return b.export(book.ID(), path)
}

func (b *Bookshelf) export(id uuid.UUID, path string) error {
	if b.find(id) == nil {
		return errors.NewNotFound("no book with id %v", id)
	}

	if b.current != nil && b.current.ID() == id {
		err := b.saveCurrent()
		if err != nil {
			return err
		}
	}

	err := b.store.ExportArchive(id, path)
	if err != nil {
		return &BookSaveError{ID: id, Err: err}
	}
	logging.Debug("Exported book %v to %q", id, path)
	return nil
}

// Backup exports all books to the backup directory of the storage.
// Does nothing if the storage has no backup directory.
//
// Returns the number of books that were exported.
func (b *Bookshelf) Backup() int {
	dir := b.store.BackupDir()
	if dir == "" {
		logging.Debug("Backup is disabled")
		return 0
	}
	return b.BackupTo(dir)
}

// BackupTo exports all books to the given directory, one archive per book
// named after the book ID.
//
// Failures are logged and do not stop the backup of the remaining books.
// Returns the number of books that were exported.
func (b *Bookshelf) BackupTo(dir string) int {
	b.mx.Lock()
	defer b.mx.Unlock()

	n := 0
	for _, p := range b.previews {
		path := BackupPath(dir, p.ID())
		err := b.export(p.ID(), path)
		if err != nil {
			logging.Error("Backup of book %v failed: %v", p.ID(), err)
			continue
		}
		n++
	}
	logging.Info("Backed up %d of %d books to %q", n, len(b.previews), dir)
	return n
}

// SortPreviews saves the current book and orders the previews by title.
func (b *Bookshelf) SortPreviews() error {
	b.mx.Lock()
	defer b.mx.Unlock()

	err := b.saveCurrent()
	if err != nil {
		return err
	}

	sort.SliceStable(b.previews, func(i, j int) bool {
		return strings.ToLower(b.previews[i].Title()) < strings.ToLower(b.previews[j].Title())
	})
	return nil
}

// Refresh reloads the preview for a book that was changed in storage by
// someone else. Unknown books are added to the shelf.
func (b *Bookshelf) Refresh(id uuid.UUID) error {
	b.mx.Lock()
	defer b.mx.Unlock()

	p := b.find(id)
	if p != nil {
		return p.Reload()
	}

	p, err := NewBookPreview(b.store, b.pool, id)
	if err != nil {
		return err
	}
	b.previews = append(b.previews, p)
	logging.Info("Added book %v %q", id, p.Title())
	return nil
}

func (b *Bookshelf) find(id uuid.UUID) *BookPreview {
	for _, p := range b.previews {
		if p.ID() == id {
			return p
		}
	}
	return nil
}

func (b *Bookshelf) remove(id uuid.UUID) {
	for i, p := range b.previews {
		if p.ID() == id {
			b.previews = append(b.previews[:i], b.previews[i+1:]...)
			return
		}
	}
}

func (b *Bookshelf) close() {
	b.mx.Lock()
	defer b.mx.Unlock()

	if b.current != nil {
		b.current.Close()
		b.current = nil
	}
}
