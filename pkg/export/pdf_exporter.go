package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"github.com/samber/lo"

	"github.com/limaJavier/blocker/pkg/model"
)

const (
	// Tables wider than this many columns are laid out in landscape
	landscapeColumns = 6
	lineHeight       = 5.0
	cellPadding      = 4.0
	// Longest natural width (mm) a column may claim before its cells wrap
	maxColumnWidth = 120.0
)

// PDFExporter lays a dataset out as an A4 table whose header row is repeated on every page
type PDFExporter struct{}

func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// RenderClassLists renders one row per class with its size and students
func (e *PDFExporter) RenderClassLists(input model.ModelInput, timetable model.Timetable) ([]byte, error) {
	return e.Render(ClassListDataset(input, timetable), "Class lists")
}

func (e *PDFExporter) Render(data Dataset, title string) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("cannot export a table without columns")
	}

	orientation, width := "P", 190.0
	if len(data.Headers) > landscapeColumns {
		orientation, width = "L", 277.0
	}
	pdf := gofpdf.New(orientation, "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.SetAutoPageBreak(false, 15)

	pdf.SetFont("Arial", "", 9)
	widths := columnWidths(pdf, data, width)

	pdf.SetHeaderFunc(func() {
		if pdf.PageNo() == 1 && title != "" {
			pdf.SetFont("Arial", "B", 14)
			pdf.CellFormat(0, 10, strings.ToUpper(title), "", 1, "C", false, 0, "")
			pdf.Ln(5)
		}
		pdf.SetFont("Arial", "B", 10)
		for i, header := range data.Headers {
			pdf.CellFormat(widths[i], 8, header, "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Arial", "", 9)
	})
	pdf.AddPage()

	left, _, _, bottom := pdf.GetMargins()
	_, pageHeight := pdf.GetPageSize()
	for _, row := range data.Rows {
		cells := lo.Map(data.Headers, func(header string, _ int) string { return row[header] })

		// Long cells (class lists) wrap, so the row is as tall as its longest cell
		lines := lo.Max(lo.Map(cells, func(cell string, i int) int {
			return len(pdf.SplitLines([]byte(cell), widths[i]-cellPadding/2))
		}))
		height := float64(max(lines, 1)) * lineHeight
		if pdf.GetY()+height > pageHeight-bottom {
			pdf.AddPage()
		}

		x, y := pdf.GetXY()
		for i, cell := range cells {
			pdf.Rect(x, y, widths[i], height, "D")
			pdf.SetXY(x, y)
			pdf.MultiCell(widths[i], lineHeight, cell, "", "L", false)
			x += widths[i]
		}
		pdf.SetXY(left, y+height)
	}

	var buffer bytes.Buffer
	if err := pdf.Output(&buffer); err != nil {
		return nil, fmt.Errorf("cannot render pdf: %w", err)
	}
	return buffer.Bytes(), nil
}

// columnWidths shares the table width among the columns in proportion to their widest cell
func columnWidths(pdf *gofpdf.Fpdf, data Dataset, width float64) []float64 {
	natural := lo.Map(data.Headers, func(header string, _ int) float64 {
		widest := lo.Max(append(
			lo.Map(data.Rows, func(row map[string]string, _ int) float64 { return pdf.GetStringWidth(row[header]) }),
			pdf.GetStringWidth(header),
		))
		return min(widest+cellPadding, maxColumnWidth)
	})

	total := lo.Sum(natural)
	return lo.Map(natural, func(columnWidth float64, _ int) float64 { return columnWidth * width / total })
}
