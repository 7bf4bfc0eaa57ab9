// Package quill is the document model and persistence core for handwritten
// notebooks.
//
// A Bookshelf keeps track of all notebooks (Books) in a Storage. One Book is
// fully loaded as the current book, all others are represented by a
// lightweight BookPreview. Pages carry their own set of tags, drawn from a
// shared TagPool.
package quill

import (
	"github.com/akeil/quill/internal/logging"
)

// SetLogLevel sets the level for the package loggers.
// Valid names are "debug", "info", "warning" and "error";
// any other value disables logging.
func SetLogLevel(level string) {
	logging.SetLevel(logging.ParseLevel(level))
}
