package layout

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"golang.org/x/text/encoding/charmap"
)

// Page geometry in points
const (
	PageSize = "A4"
	Margin   = 72.0
)

// Paragraph styles
type style struct {
	family     string
	fontStyle  string
	size       float64
	leading    float64
	spaceAfter float64
}

var (
	normalStyle  = style{family: "Helvetica", size: 10, leading: 12}
	headingStyle = style{family: "Helvetica", fontStyle: "B", size: 18, leading: 22, spaceAfter: 6}
)

// Options control document metadata
type Options struct {
	Title string
	// CreatedAt is written as the PDF creation date. Callers pass a value
	// derived from the input so repeated runs produce identical bytes.
	CreatedAt time.Time
}

// Render lays out the flow on A4 pages and writes the PDF to w
func Render(flow *Flow, w io.Writer, opts Options) error {
	pdf := gofpdf.New("P", "pt", PageSize, "")
	pdf.SetMargins(Margin, Margin, Margin)
	pdf.SetAutoPageBreak(true, Margin)
	pdf.SetCatalogSort(true)
	if !opts.CreatedAt.IsZero() {
		pdf.SetCreationDate(opts.CreatedAt.UTC())
	}
	if opts.Title != "" {
		pdf.SetTitle(opts.Title, true)
	}
	pdf.AddPage()

	for _, block := range flow.Blocks {
		switch block.Kind {
		case KindParagraph:
			writeText(pdf, normalStyle, block.Text)
		case KindHeading:
			writeText(pdf, headingStyle, block.Text)
		case KindSpacer:
			pdf.Ln(block.Height)
		default:
			return fmt.Errorf("unknown block kind %d", block.Kind)
		}
		if pdf.Err() {
			return fmt.Errorf("failed to lay out %s block: %w", block.Kind, pdf.Error())
		}
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to write PDF: %w", err)
	}
	return nil
}

// WriteFile renders the flow to path, creating or truncating it
func WriteFile(flow *Flow, path string, opts Options) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	if err := Render(flow, file, opts); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close output file: %w", err)
	}
	return nil
}

func writeText(pdf *gofpdf.Fpdf, s style, text string) {
	pdf.SetFont(s.family, s.fontStyle, s.size)
	pdf.MultiCell(0, s.leading, encodeText(text), "", "L", false)
	if s.spaceAfter > 0 {
		pdf.Ln(s.spaceAfter)
	}
}

// encodeText converts UTF-8 text to the Windows-1252 code page used by the
// standard PDF fonts. Text is written literally; runes outside the code page
// become '?'.
func encodeText(text string) string {
	text = strings.ReplaceAll(text, "\t", "    ")
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if c, ok := charmap.Windows1252.EncodeRune(r); ok {
			b.WriteByte(c)
		} else {
			b.WriteByte('?')
		}
	}
	return b.String()
}
