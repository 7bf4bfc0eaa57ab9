package quill

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
)

// memStorage keeps book records in memory.
//
// Archives are simulated by maps from a path to a book record.
type memStorage struct {
	mx         sync.Mutex
	order      []uuid.UUID
	books      map[uuid.UUID][]byte
	current    uuid.UUID
	writes     int
	archives   map[string][]byte
	legacy     map[string][]byte
	backupDir  string
	failWrite  bool
	failExport map[uuid.UUID]bool
	// readsLeft limits the number of successful reads per book
	readsLeft map[uuid.UUID]int
}

func newMemStorage() *memStorage {
	return &memStorage{
		order:      make([]uuid.UUID, 0),
		books:      make(map[uuid.UUID][]byte),
		archives:   make(map[string][]byte),
		legacy:     make(map[string][]byte),
		failExport: make(map[uuid.UUID]bool),
		readsLeft:  make(map[uuid.UUID]int),
	}
}

func (m *memStorage) ListBooks() ([]uuid.UUID, error) {
	m.mx.Lock()
	defer m.mx.Unlock()
	ids := make([]uuid.UUID, len(m.order))
	copy(ids, m.order)
	return ids, nil
}

func (m *memStorage) CurrentBookID() (uuid.UUID, error) {
	m.mx.Lock()
	defer m.mx.Unlock()
	return m.current, nil
}

func (m *memStorage) SetCurrentBookID(id uuid.UUID) error {
	m.mx.Lock()
	defer m.mx.Unlock()
	m.current = id
	return nil
}

func (m *memStorage) Reader(id uuid.UUID) (io.ReadCloser, error) {
	m.mx.Lock()
	defer m.mx.Unlock()
	data, ok := m.books[id]
	if !ok {
		return nil, NewStorageError("open", id.String(), os.ErrNotExist)
	}
	if n, limited := m.readsLeft[id]; limited {
		if n <= 0 {
			return nil, NewStorageError("open", id.String(), fmt.Errorf("i/o error"))
		}
		m.readsLeft[id] = n - 1
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *memStorage) Writer(id uuid.UUID) (io.WriteCloser, error) {
	if m.failWrite {
		return nil, NewStorageError("create", id.String(), fmt.Errorf("read-only"))
	}
	return &memWriter{m: m, id: id}, nil
}

func (m *memStorage) put(id uuid.UUID, data []byte) {
	m.mx.Lock()
	defer m.mx.Unlock()
	if _, ok := m.books[id]; !ok {
		m.order = append(m.order, id)
	}
	m.books[id] = data
	m.writes++
}

func (m *memStorage) record(id uuid.UUID) []byte {
	m.mx.Lock()
	defer m.mx.Unlock()
	return m.books[id]
}

func (m *memStorage) writeCount() int {
	m.mx.Lock()
	defer m.mx.Unlock()
	return m.writes
}

type memWriter struct {
	bytes.Buffer
	m  *memStorage
	id uuid.UUID
}

func (w *memWriter) Close() error {
	w.m.put(w.id, w.Bytes())
	return nil
}

func (m *memStorage) importRecord(path string, data []byte) (uuid.UUID, error) {
	b, err := ReadBook(bytes.NewReader(data), NewTagPool())
	if err != nil {
		return uuid.Nil, NewStorageError("import", path, err)
	}
	b.Close()
	m.put(b.ID(), data)
	return b.ID(), nil
}

func (m *memStorage) ImportArchive(path string) (uuid.UUID, error) {
	data, ok := m.archives[path]
	if !ok {
		return uuid.Nil, NewStorageError("import", path, fmt.Errorf("not a zip archive"))
	}
	return m.importRecord(path, data)
}

func (m *memStorage) ImportLegacyArchive(path string) (uuid.UUID, error) {
	data, ok := m.legacy[path]
	if !ok {
		return uuid.Nil, NewStorageError("import", path, os.ErrNotExist)
	}
	return m.importRecord(path, data)
}

func (m *memStorage) ExportArchive(id uuid.UUID, path string) error {
	m.mx.Lock()
	defer m.mx.Unlock()
	if m.failExport[id] {
		return NewStorageError("export", path, fmt.Errorf("disk full"))
	}
	data, ok := m.books[id]
	if !ok {
		return NewStorageError("export", path, os.ErrNotExist)
	}
	m.archives[path] = data
	return nil
}

func (m *memStorage) DeleteBook(id uuid.UUID) error {
	m.mx.Lock()
	defer m.mx.Unlock()
	delete(m.books, id)
	for i, other := range m.order {
		if other == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *memStorage) BackupDir() string {
	return m.backupDir
}

func (m *memStorage) FormatDateTime(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04")
}

// undoRecorder records the calls from a Book and the Bookshelf.
type undoRecorder struct {
	cleared  int
	inserted []*Page
	removed  []*Page
}

func (u *undoRecorder) ClearHistory() {
	u.cleared++
}

func (u *undoRecorder) PageInserted(b *Book, p *Page, position int) {
	u.inserted = append(u.inserted, p)
}

func (u *undoRecorder) PageRemoved(b *Book, p *Page, position int) {
	u.removed = append(u.removed, p)
}
