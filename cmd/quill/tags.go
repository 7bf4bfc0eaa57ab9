package main

import (
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/akeil/quill"
)

// doTags loads all books so that the tag counts reflect every page.
func doTags(s settings) error {
	shelf, err := setupShelf(s)
	if err != nil {
		return err
	}
	store, err := setupStorage(s)
	if err != nil {
		return err
	}

	current, err := shelf.CurrentBook()
	if err != nil {
		return err
	}

	pool := shelf.Pool()
	previews := shelf.Previews()
	books := make([]*quill.Book, len(previews))

	var group errgroup.Group
	for i, p := range previews {
		if p.ID() == current.ID() {
			continue
		}
		i, p := i, p
		group.Go(func() error {
			b, err := quill.LoadBook(store, pool, p.ID())
			if err != nil {
				return err
			}
			books[i] = b
			return nil
		})
	}
	err = group.Wait()
	defer func() {
		for _, b := range books {
			if b != nil {
				b.Close()
			}
		}
	}()
	if err != nil {
		return err
	}

	pool.SortByUsage()
	tags := pool.Tags()
	if len(tags) == 0 {
		fmt.Println("No tags.")
		return nil
	}

	for _, t := range tags {
		auto := ""
		if t.Autogenerated() {
			auto = " (auto)"
		}
		fmt.Printf("%5d  %v%v\n", t.Count(), t.Name(), auto)
	}
	return nil
}
