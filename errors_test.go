package quill

import (
	"errors"
	"os"
	"testing"

	"github.com/google/uuid"
)

func TestIsVersionError(t *testing.T) {
	err := errors.New("some error")
	if IsVersionError(err) {
		t.Log("plain error is wrongly recognized as VersionError")
		t.Fail()
	}

	err = Wrap(&VersionError{Record: "page", Version: 9}, "page %d", 3)
	if !IsVersionError(err) {
		t.Log("wrapped VersionError is not recognized")
		t.Fail()
	}
	if err.Error() != "page 3: unknown page version 9" {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestIsStorageError(t *testing.T) {
	id := uuid.New()
	err := &BookLoadError{ID: id, Err: NewStorageError("open", "book", os.ErrNotExist)}
	if !IsStorageError(err) {
		t.Log("StorageError inside BookLoadError is not recognized")
		t.Fail()
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Log("cause of StorageError is not unwrapped")
		t.Fail()
	}

	if IsStorageError(&BookSaveError{ID: id, Err: errors.New("full")}) {
		t.Log("BookSaveError is wrongly recognized as StorageError")
		t.Fail()
	}
}
