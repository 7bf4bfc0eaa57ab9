package main

import (
	"fmt"
	"image/png"
	"os"

	"github.com/akeil/quill"
	"github.com/akeil/quill/pkg/render"
)

func doThumbnail(s settings, match, path string) error {
	shelf, err := setupShelf(s)
	if err != nil {
		return err
	}

	p, err := findBook(shelf, match)
	if err != nil {
		return err
	}

	rc := s.cfg.Render
	img := render.Thumbnail(p.FirstPage(), rc.Width, rc.Height)

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	err = png.Encode(f, img)
	if err != nil {
		return err
	}

	fmt.Printf("%v Thumbnail for %q written to %q\n", checkmark, p.Title(), path)
	return nil
}

func doPdf(s settings, match, path string) error {
	shelf, err := setupShelf(s)
	if err != nil {
		return err
	}

	p, err := findBook(shelf, match)
	if err != nil {
		return err
	}

	// the current book may have unsaved changes
	err = shelf.Save()
	if err != nil {
		return err
	}

	fmt.Printf("%v render %q\n", ellipsis, p.Title())
	store, err := setupStorage(s)
	if err != nil {
		return err
	}
	b, err := quill.LoadBook(store, shelf.Pool(), p.ID())
	if err != nil {
		return err
	}
	defer b.Close()

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	err = render.PDF(b, f)
	if err != nil {
		fmt.Printf("%v Failed to render %q\n", crossmark, p.Title())
		return err
	}

	fmt.Printf("%v %d pages written to %q\n", checkmark, b.PageCount(), path)
	return nil
}
