package main

import (
	"fmt"

	"github.com/akeil/quill"
)

func doNew(s settings, title string) error {
	shelf, err := setupShelf(s)
	if err != nil {
		return err
	}

	b, err := shelf.NewBook(title)
	if err != nil {
		return err
	}

	fmt.Printf("%v Created %q (%v)\n", checkmark, b.Title(), b.ID())
	return nil
}

func doOpen(s settings, match string) error {
	shelf, err := setupShelf(s)
	if err != nil {
		return err
	}

	p, err := findBook(shelf, match)
	if err != nil {
		return err
	}

	err = shelf.SetCurrentBook(p, true)
	if err != nil {
		return err
	}

	fmt.Printf("%v Current notebook is %q\n", checkmark, p.Title())
	fmt.Print(p.Summary())
	return nil
}

func doRm(s settings, match string) error {
	shelf, err := setupShelf(s)
	if err != nil {
		return err
	}

	p, err := findBook(shelf, match)
	if err != nil {
		return err
	}

	if shelf.Count() == 1 {
		fmt.Printf("%v %q is the only notebook and cannot be deleted\n", crossmark, p.Title())
		return nil
	}

	err = shelf.DeleteBook(p.ID())
	if err != nil {
		return err
	}

	fmt.Printf("%v Deleted %q\n", checkmark, p.Title())
	return nil
}

func doImport(s settings, path string) error {
	shelf, err := setupShelf(s)
	if err != nil {
		return err
	}

	fmt.Printf("%v import %q\n", ellipsis, path)
	err = shelf.ImportBook(path)
	if err != nil {
		fmt.Printf("%v Failed to import %q\n", crossmark, path)
		return err
	}

	b, err := shelf.CurrentBook()
	if err != nil {
		return err
	}
	fmt.Printf("%v Imported %q with %d pages\n", checkmark, b.Title(), b.PageCount())
	return nil
}

func doExport(s settings, match, path string) error {
	shelf, err := setupShelf(s)
	if err != nil {
		return err
	}

	if match == "" {
		err = shelf.ExportCurrentBook(path)
	} else {
		var p *quill.BookPreview
		p, err = findBook(shelf, match)
		if err != nil {
			return err
		}
		err = shelf.ExportBook(p.ID(), path)
	}
	if err != nil {
		return err
	}

	fmt.Printf("%v Exported to %q\n", checkmark, path)
	return nil
}

func doBackup(s settings, dir string) error {
	shelf, err := setupShelf(s)
	if err != nil {
		return err
	}

	var n int
	if dir == "" {
		dir = s.cfg.Storage.BackupDir
		if dir == "" {
			return fmt.Errorf("no backup directory configured")
		}
		n = shelf.Backup()
	} else {
		n = shelf.BackupTo(dir)
	}

	total := shelf.Count()
	if n < total {
		fmt.Printf("%v Backed up %d of %d notebooks to %q\n", crossmark, n, total, dir)
		return fmt.Errorf("backup incomplete")
	}

	fmt.Printf("%v Backed up %d notebooks to %q\n", checkmark, n, dir)
	return nil
}
