// Package fs implements quill.Storage on the local filesystem.
//
// Each book is kept in a directory named after the book ID:
//
//	<base>/<uuid>/book.quill_data
//
// The ID of the book that was active last is kept in <base>/state.json.
package fs

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/akeil/quill"
	ifs "github.com/akeil/quill/internal/fs"
	"github.com/akeil/quill/internal/logging"
)

const (
	// DataFile is the name of the book record inside a book directory.
	DataFile = "book.quill_data"
	// DefaultDateFormat is the layout for FormatDateTime.
	DefaultDateFormat = "2006-01-02 15:04"

	stateFile = "state.json"
)

type state struct {
	CurrentBook string `json:"currentBook"`
}

type storage struct {
	base       string
	backupDir  string
	dateFormat string
}

// NewStorage creates a storage that keeps books below the base directory.
//
// Backups go to backupDir; an empty backupDir disables backups.
// If dateFormat is empty, DefaultDateFormat is used.
func NewStorage(base, backupDir, dateFormat string) quill.Storage {
	if dateFormat == "" {
		dateFormat = DefaultDateFormat
	}
	return &storage{
		base:       base,
		backupDir:  backupDir,
		dateFormat: dateFormat,
	}
}

func (s *storage) bookDir(id uuid.UUID) string {
	return filepath.Join(s.base, id.String())
}

func (s *storage) dataPath(id uuid.UUID) string {
	return filepath.Join(s.bookDir(id), DataFile)
}

func (s *storage) ListBooks() ([]uuid.UUID, error) {
	entries, err := os.ReadDir(s.base)
	if os.IsNotExist(err) {
		return []uuid.UUID{}, nil
	} else if err != nil {
		return nil, quill.NewStorageError("list", s.base, err)
	}

	ids := make([]uuid.UUID, 0)
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		id, err := uuid.Parse(e.Name())
		if err != nil {
			logging.Debug("Skip directory %q in storage", e.Name())
			continue
		}
		_, err = os.Stat(s.dataPath(id))
		if err != nil {
			logging.Warning("Book directory %v has no data file", id)
			continue
		}
		ids = append(ids, id)
	}

	sort.Slice(ids, func(i, j int) bool {
		return ids[i].String() < ids[j].String()
	})
	return ids, nil
}

func (s *storage) CurrentBookID() (uuid.UUID, error) {
	path := filepath.Join(s.base, stateFile)
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return uuid.Nil, nil
	} else if err != nil {
		return uuid.Nil, quill.NewStorageError("read state", path, err)
	}
	defer f.Close()

	var st state
	err = json.NewDecoder(f).Decode(&st)
	if err != nil {
		return uuid.Nil, quill.NewStorageError("read state", path, err)
	}

	if st.CurrentBook == "" {
		return uuid.Nil, nil
	}
	id, err := uuid.Parse(st.CurrentBook)
	if err != nil {
		return uuid.Nil, quill.NewStorageError("read state", path, err)
	}
	return id, nil
}

func (s *storage) SetCurrentBookID(id uuid.UUID) error {
	path := filepath.Join(s.base, stateFile)
	st := state{}
	if id != uuid.Nil {
		st.CurrentBook = id.String()
	}

	data, err := json.Marshal(&st)
	if err != nil {
		return quill.NewStorageError("write state", path, err)
	}

	err = ifs.WriteFile(path, data)
	if err != nil {
		return quill.NewStorageError("write state", path, err)
	}
	return nil
}

func (s *storage) Reader(id uuid.UUID) (io.ReadCloser, error) {
	path := s.dataPath(id)
	f, err := os.Open(path)
	if err != nil {
		return nil, quill.NewStorageError("open", path, err)
	}
	return f, nil
}

func (s *storage) Writer(id uuid.UUID) (io.WriteCloser, error) {
	path := s.dataPath(id)
	a, err := ifs.Create(path)
	if err != nil {
		return nil, quill.NewStorageError("create", path, err)
	}
	return &writer{a: a, path: path}, nil
}

// writer turns errors from the atomic file into storage errors.
type writer struct {
	a    *ifs.AtomicFile
	path string
	err  error
}

func (w *writer) Write(p []byte) (int, error) {
	n, err := w.a.Write(p)
	if err != nil {
		w.err = err
		return n, quill.NewStorageError("write", w.path, err)
	}
	return n, nil
}

func (w *writer) Close() error {
	if w.err != nil {
		w.a.Abort()
		return quill.NewStorageError("write", w.path, w.err)
	}
	err := w.a.Close()
	if err != nil {
		return quill.NewStorageError("write", w.path, err)
	}
	return nil
}

func (s *storage) DeleteBook(id uuid.UUID) error {
	dir := s.bookDir(id)
	err := os.RemoveAll(dir)
	if err != nil {
		return quill.NewStorageError("delete", dir, err)
	}

	current, err := s.CurrentBookID()
	if err == nil && current == id {
		return s.SetCurrentBookID(uuid.Nil)
	}
	return nil
}

func (s *storage) BackupDir() string {
	return s.backupDir
}

func (s *storage) FormatDateTime(t time.Time) string {
	return t.Local().Format(s.dateFormat)
}
