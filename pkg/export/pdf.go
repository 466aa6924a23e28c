// Package export renders finished simulations into shareable documents, a
// PDF proposal and an Excel workbook, from the same schedule the terminal
// output prints.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/Alliabson/Price/internal/simulation"
	"github.com/Alliabson/Price/pkg/constants"
	"github.com/Alliabson/Price/pkg/format"
	"github.com/Alliabson/Price/pkg/schedule"
	"github.com/jung-kurt/gofpdf"
)

const (
	pdfMarginMM    = 10.0
	pdfRowHeightMM = 6.0
)

var pdfColumnWidths = []float64{32, 24, 28, 16, 32, 32, 26}

var pdfColumnTitles = []string{
	"Item", "Tipo", "Vencimento", "Dias", "Valor", "Valor Presente", "Desconto",
}

// PdfDocument renders the simulation as an A4 proposal: a title header, the
// property and financing summary, the full schedule table with a striped
// body and a highlighted TOTAL row, and a generation timestamp.
func PdfDocument(w io.Writer, result *simulation.Result) error {
	if result == nil {
		return fmt.Errorf("cannot export a nil simulation")
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetMargins(pdfMarginMM, pdfMarginMM, pdfMarginMM)
	pdf.SetAutoPageBreak(true, pdfMarginMM+pdfRowHeightMM)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, tr("Simulação de Financiamento"), "", 1, "C", false, 0, "")
	pdf.Ln(2)

	writePdfSummary(pdf, tr, result)
	pdf.Ln(4)
	writePdfTable(pdf, tr, result.Schedule)

	pdf.Ln(6)
	pdf.SetFont("Arial", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.CellFormat(0, 5,
		tr(fmt.Sprintf("Gerado em %s", time.Now().Format("02/01/2006 15:04"))),
		"", 1, "R", false, 0, "")

	return pdf.Output(w)
}

func writePdfSummary(pdf *gofpdf.Fpdf, tr func(string) string, result *simulation.Result) {
	type line struct {
		label string
		value string
	}

	lines := []line{
		{"Quadra", result.Input.Quadra},
		{"Lote", result.Input.Lote},
		{"Metragem", result.Input.Metragem},
		{"Valor do imóvel", format.Currency(result.Input.PropertyValue)},
		{"Entrada", format.Currency(result.Input.DownPayment)},
		{"Valor financiado", format.Currency(result.Financed)},
		{"Taxa mensal", fmt.Sprintf("%.2f%% a.m.", result.Input.MonthlyRatePercent)},
		{"Modalidade", result.Input.Modality.String()},
	}
	if result.InstallmentCount > 0 {
		lines = append(lines, line{
			"Parcelas",
			fmt.Sprintf("%d x %s", result.InstallmentCount, format.Currency(result.InstallmentAmount)),
		})
	}
	if result.BalloonCount > 0 {
		lines = append(lines, line{
			"Balões",
			fmt.Sprintf("%d x %s", result.BalloonCount, format.Currency(result.BalloonAmount)),
		})
	}
	lines = append(lines,
		line{"Valor total", format.Currency(result.TotalValue)},
		line{"Valor presente", format.Currency(result.TotalPresentValue)},
	)

	pdf.SetTextColor(0, 0, 0)
	for _, l := range lines {
		if l.value == "" {
			continue
		}
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(40, pdfRowHeightMM, tr(l.label), "", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(0, pdfRowHeightMM, tr(l.value), "", 1, "L", false, 0, "")
	}
}

func writePdfTable(pdf *gofpdf.Fpdf, tr func(string) string, sched schedule.Schedule) {
	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(46, 76, 102)
	pdf.SetTextColor(255, 255, 255)
	for i, title := range pdfColumnTitles {
		pdf.CellFormat(pdfColumnWidths[i], pdfRowHeightMM+1, tr(title), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Arial", "", 9)
	for i, item := range sched.Rows() {
		if i%2 == 0 {
			pdf.SetFillColor(255, 255, 255)
		} else {
			pdf.SetFillColor(235, 240, 245)
		}
		writePdfRow(pdf, tr, item, true)
	}

	if total, ok := sched.Total(); ok {
		pdf.SetFont("Arial", "B", 9)
		pdf.SetFillColor(214, 226, 238)
		writePdfRow(pdf, tr, total, true)
	}
}

func writePdfRow(pdf *gofpdf.Fpdf, tr func(string) string, item schedule.Item, fill bool) {
	dueDate := ""
	days := ""
	if item.Kind == schedule.KindInstallment || item.Kind == schedule.KindBalloon {
		dueDate = item.DueDate.Format(constants.DueDateLayout)
		days = fmt.Sprintf("%d", item.Days)
	}

	cells := []struct {
		text  string
		align string
	}{
		{item.Label, "L"},
		{item.Type, "L"},
		{dueDate, "C"},
		{days, "R"},
		{format.Currency(item.Value), "R"},
		{format.Currency(item.PresentValue), "R"},
		{format.Currency(item.Discount), "R"},
	}
	for i, cell := range cells {
		pdf.CellFormat(pdfColumnWidths[i], pdfRowHeightMM, tr(cell.text), "1", 0, cell.align, fill, 0, "")
	}
	pdf.Ln(-1)
}
