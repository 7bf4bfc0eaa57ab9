// Package fs has helpers for writing files so that readers never see a
// partially written file.
package fs

import (
	"io"
	"os"
	"path/filepath"

	"github.com/akeil/quill/internal/logging"
)

// Move moves a file from src to dst.
// It tries os.Rename() first and falls back on "copy and delete".
//
// If src cannot be deleted after a successful copy,
// NO error is returned and src remains as it was.
func Move(src, dst string) error {
	err := os.Rename(src, dst)
	if err == nil {
		return nil
	}

	// Rename fails when moving across file systems
	logging.Debug("Rename failed for %v -> %v, fall back on copy and delete", src, dst)
	r, err := os.Open(src)
	if err != nil {
		return err
	}
	defer r.Close()

	w, err := os.Create(dst)
	if err != nil {
		return err
	}

	_, err = io.Copy(w, r)
	if err != nil {
		w.Close()
		return err
	}
	err = w.Close()
	if err != nil {
		return err
	}

	ignoredErr := os.Remove(src)
	if ignoredErr != nil {
		logging.Error("Failed to remove file %v", src)
	}

	return nil
}

// AtomicFile is a file that is written to a temporary location and moved
// to its destination when it is closed.
type AtomicFile struct {
	f    *os.File
	dst  string
	done bool
}

// Create creates an AtomicFile for the given destination path.
// The parent directory is created if it does not exist.
func Create(dst string) (*AtomicFile, error) {
	dir := filepath.Dir(dst)
	err := os.MkdirAll(dir, 0755)
	if err != nil {
		return nil, err
	}

	f, err := os.CreateTemp(dir, ".tmp-"+filepath.Base(dst)+"-*")
	if err != nil {
		return nil, err
	}

	return &AtomicFile{f: f, dst: dst}, nil
}

func (a *AtomicFile) Write(p []byte) (int, error) {
	return a.f.Write(p)
}

// Close flushes the temporary file and moves it to the destination.
// If anything fails, the destination is left unchanged.
func (a *AtomicFile) Close() error {
	if a.done {
		return nil
	}
	a.done = true

	err := a.f.Sync()
	if err != nil {
		a.discard()
		return err
	}

	err = a.f.Close()
	if err != nil {
		os.Remove(a.f.Name())
		return err
	}

	err = Move(a.f.Name(), a.dst)
	if err != nil {
		os.Remove(a.f.Name())
		return err
	}
	return nil
}

// Abort removes the temporary file without touching the destination.
func (a *AtomicFile) Abort() {
	if a.done {
		return
	}
	a.done = true
	a.discard()
}

func (a *AtomicFile) discard() {
	a.f.Close()
	err := os.Remove(a.f.Name())
	if err != nil {
		logging.Warning("Failed to remove temporary file %v: %v", a.f.Name(), err)
	}
}

// WriteFile writes data to the destination path atomically.
func WriteFile(dst string, data []byte) error {
	a, err := Create(dst)
	if err != nil {
		return err
	}

	_, err = a.Write(data)
	if err != nil {
		a.Abort()
		return err
	}

	return a.Close()
}
