package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"github.com/akeil/quill/pkg/fs"
)

func doWatch(s settings) error {
	shelf, err := setupShelf(s)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("%v watching %q, press Ctrl+C to stop\n", ellipsis, s.cfg.Storage.Dir)
	return fs.Watch(ctx, s.cfg.Storage.Dir, func(id uuid.UUID) {
		err := shelf.Refresh(id)
		if err != nil {
			fmt.Printf("%v Failed to reload %v: %v\n", crossmark, id, err)
			return
		}
		p, err := shelf.Preview(id)
		if err != nil {
			return
		}
		fmt.Printf("%v %q changed, %d pages\n", checkmark, p.Title(), p.PageCount())
	})
}
