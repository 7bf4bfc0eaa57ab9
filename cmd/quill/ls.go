package main

import (
	"fmt"
	"strings"
)

func doLs(s settings, match string, sorted bool) error {
	shelf, err := setupShelf(s)
	if err != nil {
		return err
	}

	current, err := shelf.CurrentPreview()
	if err != nil {
		return err
	}

	if sorted {
		err = shelf.SortPreviews()
		if err != nil {
			return err
		}
	}

	fmt.Println("Notebooks")
	fmt.Println("---------")

	needle := strings.ToLower(match)
	for _, p := range shelf.Previews() {
		if needle != "" && !strings.Contains(strings.ToLower(p.Title()), needle) {
			continue
		}

		mark := " "
		if p.ID() == current.ID() {
			mark = "*"
		}
		fmt.Printf("%v %v | %v | %3d pages | %v\n",
			mark,
			p.ID().String()[:8],
			p.LastModified().Local().Format(s.cfg.Storage.DateFormat),
			p.PageCount(),
			p.Title())
	}

	return nil
}
