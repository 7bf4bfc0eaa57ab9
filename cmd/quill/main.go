package main

import (
	"fmt"
	"os"
	"strings"

	_ "github.com/joho/godotenv/autoload"
	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/akeil/quill"
	"github.com/akeil/quill/internal/config"
	"github.com/akeil/quill/pkg/fs"
)

const (
	checkmark = "✓"
	crossmark = "✗"
	ellipsis  = "…"
)

type settings struct {
	cfg *config.Config
}

func main() {
	app := kingpin.New("quill", "Handwritten notebooks")
	app.HelpFlag.Short('h')

	var (
		configPath = app.Flag("config", "Config file").Short('c').Default(config.DefaultPath()).String()
		verbose    = app.Flag("verbose", "Show debug output").Short('v').Bool()
	)

	ls := app.Command("ls", "List notebooks").Default()
	var (
		sorted = ls.Flag("sort", "Sort by title").Short('s').Bool()
		match  = ls.Arg("match", "Title must match this").String()
	)

	newCmd := app.Command("new", "Create a notebook and make it the current notebook")
	title := newCmd.Arg("title", "Title for the notebook").Required().String()

	open := app.Command("open", "Make a notebook the current notebook")
	matchOpen := open.Arg("match", "Title or ID").Required().String()

	rm := app.Command("rm", "Delete a notebook")
	matchRm := rm.Arg("match", "Title or ID").Required().String()

	imp := app.Command("import", "Import a notebook from an archive")
	importPath := imp.Arg("file", "Archive file").Required().ExistingFile()

	export := app.Command("export", "Export a notebook to an archive")
	var (
		exportPath  = export.Arg("file", "Archive file").Required().String()
		matchExport = export.Flag("book", "Title or ID, default is the current notebook").Short('b').String()
	)

	backup := app.Command("backup", "Export all notebooks")
	backupDir := backup.Flag("dir", "Backup directory, default is taken from the config").Short('d').String()

	app.Command("tags", "List tags by usage")

	thumb := app.Command("thumbnail", "Render the first page of a notebook to PNG")
	var (
		matchThumb = thumb.Arg("match", "Title or ID").Required().String()
		thumbPath  = thumb.Arg("file", "PNG file").Required().String()
	)

	pdf := app.Command("pdf", "Render a notebook to PDF")
	var (
		matchPdf = pdf.Arg("match", "Title or ID").Required().String()
		pdfPath  = pdf.Arg("file", "PDF file").Required().String()
	)

	app.Command("watch", "Report notebooks that are changed by other programs")

	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	s, err := loadSettings(*configPath, *verbose)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	switch command {
	case "ls":
		err = doLs(s, *match, *sorted)
	case "new":
		err = doNew(s, *title)
	case "open":
		err = doOpen(s, *matchOpen)
	case "rm":
		err = doRm(s, *matchRm)
	case "import":
		err = doImport(s, *importPath)
	case "export":
		err = doExport(s, *matchExport, *exportPath)
	case "backup":
		err = doBackup(s, *backupDir)
	case "tags":
		err = doTags(s)
	case "thumbnail":
		err = doThumbnail(s, *matchThumb, *thumbPath)
	case "pdf":
		err = doPdf(s, *matchPdf, *pdfPath)
	case "watch":
		err = doWatch(s)
	default:
		err = fmt.Errorf("unknown command: %q", command)
	}
	quill.Finalize()

	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	os.Exit(0)
}

func loadSettings(path string, verbose bool) (settings, error) {
	cfg, err := config.LoadOrDefault(path)
	if err != nil {
		return settings{}, err
	}

	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}
	quill.SetLogLevel(level)

	return settings{cfg: cfg}, nil
}

func setupStorage(s settings) (quill.Storage, error) {
	sc := s.cfg.Storage
	err := os.MkdirAll(sc.Dir, 0755)
	if err != nil {
		return nil, err
	}
	return fs.NewStorage(sc.Dir, sc.BackupDir, sc.DateFormat), nil
}

func setupShelf(s settings) (*quill.Bookshelf, error) {
	store, err := setupStorage(s)
	if err != nil {
		return nil, err
	}
	return quill.Initialize(store, quill.NewTagPool())
}

// findBook returns the preview for the single book whose ID starts with
// match or whose title contains match.
func findBook(shelf *quill.Bookshelf, match string) (*quill.BookPreview, error) {
	needle := strings.ToLower(match)
	found := make([]*quill.BookPreview, 0)
	for _, p := range shelf.Previews() {
		if strings.HasPrefix(p.ID().String(), needle) {
			return p, nil
		}
		if strings.Contains(strings.ToLower(p.Title()), needle) {
			found = append(found, p)
		}
	}

	switch len(found) {
	case 0:
		return nil, fmt.Errorf("no notebook matches %q", match)
	case 1:
		return found[0], nil
	default:
		return nil, fmt.Errorf("%d notebooks match %q", len(found), match)
	}
}
