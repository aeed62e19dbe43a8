// Package pdf renders report documents into paginated PDF files.
package pdf

import (
	"bytes"
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"

	"fintrack/internal/report"
)

var _ report.Renderer = (*Renderer)(nil)

type Renderer struct{}

func New() *Renderer {
	return &Renderer{}
}

// Render lays the document out: title, labeled totals, the prepared chart
// images, then the expense line-item table.
func (r *Renderer) Render(doc report.Document, w io.Writer) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, fmt.Sprintf("Finance Report - %s", doc.Summary.Month.String()), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Arial", "", 12)
	pdf.CellFormat(0, 8, fmt.Sprintf("Total Income: %.2f", doc.Summary.TotalIncome), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 8, fmt.Sprintf("Total Expenses: %.2f", doc.Summary.TotalExpense), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 8, fmt.Sprintf("Net Savings: %.2f", doc.Summary.Net), "", 1, "L", false, 0, "")
	if doc.Summary.HasBudget {
		pdf.CellFormat(0, 8, fmt.Sprintf("Budget: %.2f", doc.Summary.Budget), "", 1, "L", false, 0, "")
	}
	pdf.Ln(6)

	for i, img := range doc.Charts {
		name := fmt.Sprintf("chart-%d", i)
		pdf.RegisterImageOptionsReader(name, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(img))
		pdf.ImageOptions(name, 15, pdf.GetY(), 180, 0, true, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")
		pdf.Ln(4)
	}

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 8, "Top expenses", "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	if len(doc.Lines) > 0 {
		pdf.SetFillColor(230, 230, 230)
		pdf.CellFormat(40, 7, "Date", "1", 0, "C", true, 0, "")
		pdf.CellFormat(70, 7, "Category", "1", 0, "C", true, 0, "")
		pdf.CellFormat(40, 7, "Amount", "1", 1, "C", true, 0, "")
		for _, e := range doc.Lines {
			category := e.Category
			if len(category) > 30 {
				category = category[:30]
			}
			pdf.CellFormat(40, 7, e.Date.String(), "1", 0, "L", false, 0, "")
			pdf.CellFormat(70, 7, category, "1", 0, "L", false, 0, "")
			pdf.CellFormat(40, 7, fmt.Sprintf("%.2f", e.Amount), "1", 1, "R", false, 0, "")
		}
	} else {
		pdf.CellFormat(0, 8, "No expenses in this month.", "", 1, "L", false, 0, "")
	}

	return pdf.Output(w)
}
