package fs

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"

	"github.com/akeil/quill"
	ifs "github.com/akeil/quill/internal/fs"
	"github.com/akeil/quill/internal/logging"
)

// maxRecordSize limits the size of a book record read from an archive.
const maxRecordSize = 512 << 20

// ImportArchive stores the book from a zip archive with a single
// book.quill_data entry.
func (s *storage) ImportArchive(path string) (uuid.UUID, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return uuid.Nil, quill.NewStorageError("import", path, err)
	}
	defer zr.Close()

	var entry *zip.File
	for _, f := range zr.File {
		if f.Name == DataFile {
			entry = f
			break
		}
	}
	if entry == nil {
		return uuid.Nil, quill.NewStorageError("import", path, fmt.Errorf("archive has no %v entry", DataFile))
	}

	r, err := entry.Open()
	if err != nil {
		return uuid.Nil, quill.NewStorageError("import", path, err)
	}
	defer r.Close()

	data, err := readRecord(r)
	if err != nil {
		return uuid.Nil, quill.NewStorageError("import", path, err)
	}

	return s.importRecord(path, data)
}

// ImportLegacyArchive stores the book from a file that holds the bare
// book record.
func (s *storage) ImportLegacyArchive(path string) (uuid.UUID, error) {
	f, err := os.Open(path)
	if err != nil {
		return uuid.Nil, quill.NewStorageError("import", path, err)
	}
	defer f.Close()

	data, err := readRecord(f)
	if err != nil {
		return uuid.Nil, quill.NewStorageError("import", path, err)
	}

	return s.importRecord(path, data)
}

// importRecord decodes the record completely before it is stored so that
// broken archives never reach the storage.
func (s *storage) importRecord(path string, data []byte) (uuid.UUID, error) {
	b, err := quill.ReadBook(bytes.NewReader(data), quill.NewTagPool())
	if err != nil {
		return uuid.Nil, quill.NewStorageError("import", path, err)
	}
	id := b.ID()
	b.Close()

	dst := s.dataPath(id)
	err = ifs.WriteFile(dst, data)
	if err != nil {
		return uuid.Nil, quill.NewStorageError("import", dst, err)
	}

	logging.Info("Imported book %v from %q", id, path)
	return id, nil
}

func readRecord(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxRecordSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxRecordSize {
		return nil, fmt.Errorf("book record exceeds %d bytes", maxRecordSize)
	}
	return data, nil
}

// ExportArchive writes the stored book as a zip archive to path.
func (s *storage) ExportArchive(id uuid.UUID, path string) error {
	src := s.dataPath(id)
	f, err := os.Open(src)
	if err != nil {
		return quill.NewStorageError("export", src, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return quill.NewStorageError("export", src, err)
	}

	a, err := ifs.Create(path)
	if err != nil {
		return quill.NewStorageError("export", path, err)
	}

	zw := zip.NewWriter(a)
	w, err := zw.CreateHeader(&zip.FileHeader{
		Name:     DataFile,
		Method:   zip.Deflate,
		Modified: info.ModTime(),
	})
	if err != nil {
		a.Abort()
		return quill.NewStorageError("export", path, err)
	}

	_, err = io.Copy(w, f)
	if err != nil {
		a.Abort()
		return quill.NewStorageError("export", path, err)
	}

	err = zw.Close()
	if err != nil {
		a.Abort()
		return quill.NewStorageError("export", path, err)
	}

	err = a.Close()
	if err != nil {
		return quill.NewStorageError("export", path, err)
	}

	logging.Debug("Exported book %v to %q", id, path)
	return nil
}
