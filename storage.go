package quill

import (
	"io"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// ArchiveExt is the file extension for exported books.
const ArchiveExt = ".quill"

// BackupPath is the path of the backup archive for a book.
func BackupPath(dir string, id uuid.UUID) string {
	return filepath.Join(dir, id.String()+ArchiveExt)
}

// Storage is the interface for the storage backend that holds the books.
//
// Implementations should return a StorageError for failures of the
// underlying files or archives.
type Storage interface {
	// ListBooks returns the IDs of all stored books.
	ListBooks() ([]uuid.UUID, error)
	// CurrentBookID returns the ID of the book that was active last,
	// or uuid.Nil if none was recorded.
	CurrentBookID() (uuid.UUID, error)
	// SetCurrentBookID records the active book.
	SetCurrentBookID(id uuid.UUID) error

	// Reader opens the stored book record for the given book.
	Reader(id uuid.UUID) (io.ReadCloser, error)
	// Writer creates a writer for the book record. The new record replaces
	// the stored one when the writer is closed.
	Writer(id uuid.UUID) (io.WriteCloser, error)

	// ImportArchive stores the book from an archive file in the current
	// format and returns its ID.
	ImportArchive(path string) (uuid.UUID, error)
	// ImportLegacyArchive stores the book from an archive file in the
	// legacy format and returns its ID.
	ImportLegacyArchive(path string) (uuid.UUID, error)
	// ExportArchive writes the stored book to an archive file.
	ExportArchive(id uuid.UUID, path string) error
	// DeleteBook removes all stored data for a book.
	DeleteBook(id uuid.UUID) error

	// BackupDir is the directory for automatic backups.
	// An empty string disables backups.
	BackupDir() string
	// FormatDateTime formats a timestamp for display.
	FormatDateTime(t time.Time) string
}

// UndoListener is the interface for the undo/redo history of the current
// book.
//
// A listener that receives a removed page takes ownership of it and must
// Close the page when it is dropped from the history.
type UndoListener interface {
	// ClearHistory forgets all recorded steps, e.g. when the current book
	// is replaced.
	ClearHistory()
	// PageInserted is called after a page was inserted into a book.
	PageInserted(b *Book, p *Page, position int)
	// PageRemoved is called after a page was removed from a book.
	PageRemoved(b *Book, p *Page, position int)
}
