package render

import (
	"io"

	"github.com/jung-kurt/gofpdf"
	"github.com/llgcode/draw2d/draw2dpdf"

	"github.com/akeil/quill"
	"github.com/akeil/quill/internal/logging"
)

// pageHeight is the height of a PDF page in mm.
// The width follows from the page's aspect ratio.
const pageHeight = 297.0

const tsFormat = "2006-01-02 15:04"

// PDF renders all pages of a book to a PDF document and writes it to w.
func PDF(b *quill.Book, w io.Writer) error {
	logging.Debug("Render PDF for book %v with %d pages", b.ID(), b.PageCount())
	pdf := setupPDF(b)

	for _, p := range b.Pages() {
		size := gofpdf.SizeType{
			Wd: pageHeight * float64(p.AspectRatio()),
			Ht: pageHeight,
		}
		pdf.AddPageFormat("P", size)

		gc := draw2dpdf.NewGraphicContext(pdf)
		paintPage(gc, p, pageHeight)
	}

	return pdf.Output(w)
}

func setupPDF(b *quill.Book) *gofpdf.Fpdf {
	pdf := gofpdf.New("P", "mm", "A4", "")

	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AliasNbPages("{totalPages}")
	pdf.SetProducer("quill", true)

	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(b.Title(), true)
	pdf.SetCreationDate(b.Created().UTC())
	pdf.SetModificationDate(b.LastModified().UTC())

	pdf.SetFooterFunc(func() {
		pdf.SetFont("helvetica", "", 7)
		pdf.SetTextColor(127, 127, 127)
		pdf.SetY(-10)
		pdf.SetX(10)
		pdf.Cellf(0, 5, "%d / {totalPages}  |  %v (%v)",
			pdf.PageNo(),
			tr(b.Title()),
			b.LastModified().Local().Format(tsFormat))
	})

	return pdf
}
