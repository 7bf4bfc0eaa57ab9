package quill

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// VersionError is returned when a record has a format version that is not
// supported. The record cannot be decoded at all.
type VersionError struct {
	Record  string
	Version int32
}

func (v *VersionError) Error() string {
	return fmt.Sprintf("unknown %v version %d", v.Record, v.Version)
}

// IsVersionError checks if err is or wraps a VersionError.
func IsVersionError(err error) bool {
	var v *VersionError
	return errors.As(err, &v)
}

// StorageError is returned by Storage implementations when reading or
// writing the underlying files fails.
type StorageError struct {
	Op   string
	Path string
	Err  error
}

// NewStorageError wraps err as a StorageError for the given operation.
func NewStorageError(op, path string, err error) error {
	return &StorageError{Op: op, Path: path, Err: err}
}

func (s *StorageError) Error() string {
	if s.Path == "" {
		return fmt.Sprintf("storage %v: %v", s.Op, s.Err)
	}
	return fmt.Sprintf("storage %v %q: %v", s.Op, s.Path, s.Err)
}

func (s *StorageError) Unwrap() error {
	return s.Err
}

// IsStorageError checks if err is or wraps a StorageError.
func IsStorageError(err error) bool {
	var s *StorageError
	return errors.As(err, &s)
}

// BookLoadError is returned when a book cannot be read or imported.
type BookLoadError struct {
	ID  uuid.UUID
	Err error
}

func (b *BookLoadError) Error() string {
	if b.ID == uuid.Nil {
		return fmt.Sprintf("cannot load book: %v", b.Err)
	}
	return fmt.Sprintf("cannot load book %v: %v", b.ID, b.Err)
}

func (b *BookLoadError) Unwrap() error {
	return b.Err
}

// BookSaveError is returned when a book cannot be saved or exported.
type BookSaveError struct {
	ID  uuid.UUID
	Err error
}

func (b *BookSaveError) Error() string {
	return fmt.Sprintf("cannot save book %v: %v", b.ID, b.Err)
}

func (b *BookSaveError) Unwrap() error {
	return b.Err
}

// Wrap wraps an error by prepending additional text.
// The text can contain formatting parameters.
func Wrap(err error, msg string, v ...interface{}) error {
	msg = fmt.Sprintf(msg, v...)
	return fmt.Errorf("%v: %w", msg, err)
}
