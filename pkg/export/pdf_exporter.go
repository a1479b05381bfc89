package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// ReportMeta carries the fixed text blocks surrounding a tabular report.
type ReportMeta struct {
	TitleLines  []string
	InfoLines   []string
	FooterLines []string
}

// PDFExporter renders datasets into a paginated A4 report.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Render creates a PDF document with header text, a table body and footer notes.
// Table headers repeat on every page break.
func (e *PDFExporter) Render(data Dataset, meta ReportMeta) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("pdf requires at least one header")
	}

	widths := data.Widths
	if len(widths) != len(data.Headers) {
		widths = make([]float64, len(data.Headers))
		for i := range widths {
			widths[i] = 190.0 / float64(len(data.Headers))
		}
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.AddPage()

	for i, line := range meta.TitleLines {
		if i == 0 {
			pdf.SetFont("Arial", "B", 14)
		} else {
			pdf.SetFont("Arial", "", 11)
		}
		pdf.CellFormat(0, 7, line, "", 1, "C", false, 0, "")
	}
	if len(meta.TitleLines) > 0 {
		pdf.Ln(4)
	}

	pdf.SetFont("Arial", "", 10)
	for _, line := range meta.InfoLines {
		pdf.CellFormat(0, 6, line, "", 1, "L", false, 0, "")
	}
	if len(meta.InfoLines) > 0 {
		pdf.Ln(4)
	}

	writeHeaderRow := func() {
		pdf.SetFont("Arial", "B", 9)
		for i, header := range data.Headers {
			pdf.CellFormat(widths[i], 8, header, "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Arial", "", 9)
	}
	writeHeaderRow()
	pdf.SetAcceptPageBreakFunc(func() bool { return true })

	for _, row := range data.Rows {
		if pdf.GetY() > 265 {
			pdf.AddPage()
			writeHeaderRow()
		}
		for i, header := range data.Headers {
			align := "C"
			if i == 1 {
				align = "L"
			}
			pdf.CellFormat(widths[i], 7, row[header], "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	if len(meta.FooterLines) > 0 {
		pdf.Ln(8)
		pdf.SetFont("Arial", "", 9)
		for _, line := range meta.FooterLines {
			pdf.MultiCell(190, 5, line, "", "L", false)
		}
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
