package fs

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"

	"github.com/akeil/quill/internal/logging"
)

// settle is the time to wait for more changes to a book record before
// it is reported.
const settle = 200 * time.Millisecond

// Watch reports books whose record was created or replaced in the base
// directory, e.g. by another process, until ctx is cancelled.
//
// Changes to the same book within a short time are reported once.
func Watch(ctx context.Context, base string, cb func(id uuid.UUID)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	err = w.Add(base)
	if err != nil {
		return err
	}

	entries, err := os.ReadDir(base)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if _, err := uuid.Parse(e.Name()); err != nil {
			continue
		}
		err = w.Add(filepath.Join(base, e.Name()))
		if err != nil {
			return err
		}
	}
	logging.Info("Watching %q for changes", base)

	pending := make(map[uuid.UUID]bool)
	timer := time.NewTimer(settle)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil

		case <-timer.C:
			for id := range pending {
				cb(id)
			}
			pending = make(map[uuid.UUID]bool)

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}

			id, isDir := classify(base, ev.Name)
			if id == uuid.Nil {
				continue
			}

			if isDir {
				err = w.Add(ev.Name)
				if err != nil {
					logging.Warning("Cannot watch %q: %v", ev.Name, err)
					continue
				}
				// the record may have been written before the watch was added
				_, err = os.Stat(filepath.Join(ev.Name, DataFile))
				if err != nil {
					continue
				}
			}

			pending[id] = true
			timer.Reset(settle)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logging.Error("Watch error: %v", err)
		}
	}
}

// classify returns the book ID for a book directory or a book record below
// base and tells if the path is the directory.
func classify(base, path string) (uuid.UUID, bool) {
	rel, err := filepath.Rel(base, path)
	if err != nil {
		return uuid.Nil, false
	}

	dir, name := filepath.Split(rel)
	if dir == "" {
		id, err := uuid.Parse(name)
		if err != nil {
			return uuid.Nil, false
		}
		info, err := os.Stat(path)
		if err != nil || !info.IsDir() {
			return uuid.Nil, false
		}
		return id, true
	}

	if name != DataFile {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(filepath.Clean(dir))
	if err != nil {
		return uuid.Nil, false
	}
	return id, false
}
