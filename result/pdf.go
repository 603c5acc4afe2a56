package result

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"
)

// WritePDF writes an A4 report with one line per result, in the same shape as
// the Markdown report.
func WritePDF(w io.Writer, links []LinkResult) error {
	p := gofpdf.New("P", "mm", "A4", "")
	// Core fonts are cp1252; translate UTF-8 titles and link text
	tr := p.UnicodeTranslatorFromDescriptor("")

	p.AddPage()
	p.SetFont("Arial", "B", 14)
	p.Cell(40, 10, "Link report")
	p.Ln(12)

	p.SetFont("Arial", "", 10)
	for _, link := range links {
		var line string
		if link.OK() {
			line = fmt.Sprintf("[%s](%s)", link.Title, link.Link.URL)
		} else {
			line = fmt.Sprintf("[%s from %s](%s)", link.Err.Code(), link.Link.Text, link.Link.URL)
		}
		p.MultiCell(0, 6, tr(line), "", "L", false)
	}

	if err := p.Output(w); err != nil {
		return fmt.Errorf("write pdf report: %w", err)
	}
	return nil
}
