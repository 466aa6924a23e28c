package export

import (
	"fmt"
	"io"
	"time"

	"github.com/Alliabson/Price/internal/simulation"
	"github.com/Alliabson/Price/pkg/constants"
	"github.com/Alliabson/Price/pkg/schedule"
	"github.com/xuri/excelize/v2"
)

const (
	infoSheetName     = "Informações"
	scheduleSheetName = "Cronograma"

	currencyNumFmt = "R$ #,##0.00"
)

// ExcelWorkbook renders the simulation as a two-sheet workbook: an
// "Informações" sheet with the property and financing summary and a
// "Cronograma" sheet with the full schedule table.
func ExcelWorkbook(w io.Writer, result *simulation.Result) error {
	if result == nil {
		return fmt.Errorf("cannot export a nil simulation")
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", infoSheetName); err != nil {
		return fmt.Errorf("failed to rename summary sheet: %w", err)
	}
	if _, err := f.NewSheet(scheduleSheetName); err != nil {
		return fmt.Errorf("failed to create schedule sheet: %w", err)
	}

	if err := writeInfoSheet(f, result); err != nil {
		return err
	}
	if err := writeScheduleSheet(f, result.Schedule); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeInfoSheet(f *excelize.File, result *simulation.Result) error {
	currencyStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: stringPtr(currencyNumFmt)})
	if err != nil {
		return fmt.Errorf("failed to build currency style: %w", err)
	}
	boldStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to build label style: %w", err)
	}

	type row struct {
		label    string
		value    interface{}
		currency bool
	}

	rows := []row{
		{label: "Quadra", value: result.Input.Quadra},
		{label: "Lote", value: result.Input.Lote},
		{label: "Metragem", value: result.Input.Metragem},
		{label: "Valor do imóvel", value: result.Input.PropertyValue, currency: true},
		{label: "Entrada", value: result.Input.DownPayment, currency: true},
		{label: "Valor financiado", value: result.Financed, currency: true},
		{label: "Taxa mensal (%)", value: result.Input.MonthlyRatePercent},
		{label: "Modalidade", value: result.Input.Modality.String()},
	}
	if result.InstallmentCount > 0 {
		rows = append(rows,
			row{label: "Quantidade de parcelas", value: result.InstallmentCount},
			row{label: "Valor da parcela", value: result.InstallmentAmount, currency: true},
		)
	}
	if result.BalloonCount > 0 {
		rows = append(rows,
			row{label: "Quantidade de balões", value: result.BalloonCount},
			row{label: "Valor do balão", value: result.BalloonAmount, currency: true},
		)
	}
	rows = append(rows,
		row{label: "Valor total", value: result.TotalValue, currency: true},
		row{label: "Valor presente", value: result.TotalPresentValue, currency: true},
		row{label: "Gerado em", value: time.Now().Format("02/01/2006 15:04")},
	)

	for i, r := range rows {
		labelCell := fmt.Sprintf("A%d", i+1)
		valueCell := fmt.Sprintf("B%d", i+1)
		if err := f.SetCellValue(infoSheetName, labelCell, r.label); err != nil {
			return fmt.Errorf("failed to write summary label: %w", err)
		}
		if err := f.SetCellValue(infoSheetName, valueCell, r.value); err != nil {
			return fmt.Errorf("failed to write summary value: %w", err)
		}
		if err := f.SetCellStyle(infoSheetName, labelCell, labelCell, boldStyle); err != nil {
			return fmt.Errorf("failed to style summary label: %w", err)
		}
		if r.currency {
			if err := f.SetCellStyle(infoSheetName, valueCell, valueCell, currencyStyle); err != nil {
				return fmt.Errorf("failed to style summary value: %w", err)
			}
		}
	}

	if err := f.SetColWidth(infoSheetName, "A", "A", 24); err != nil {
		return fmt.Errorf("failed to size summary columns: %w", err)
	}
	return f.SetColWidth(infoSheetName, "B", "B", 20)
}

func writeScheduleSheet(f *excelize.File, sched schedule.Schedule) error {
	currencyStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: stringPtr(currencyNumFmt)})
	if err != nil {
		return fmt.Errorf("failed to build currency style: %w", err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"2E4C66"}},
	})
	if err != nil {
		return fmt.Errorf("failed to build header style: %w", err)
	}
	totalStyle, err := f.NewStyle(&excelize.Style{
		Font:         &excelize.Font{Bold: true},
		CustomNumFmt: stringPtr(currencyNumFmt),
	})
	if err != nil {
		return fmt.Errorf("failed to build total style: %w", err)
	}

	headers := []string{"Item", "Tipo", "Vencimento", "Dias", "Valor", "Valor Presente", "Desconto"}
	for i, h := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		if err := f.SetCellValue(scheduleSheetName, cell, h); err != nil {
			return fmt.Errorf("failed to write schedule header: %w", err)
		}
	}
	if err := f.SetCellStyle(scheduleSheetName, "A1", "G1", headerStyle); err != nil {
		return fmt.Errorf("failed to style schedule header: %w", err)
	}

	for i, item := range sched.Items {
		rowIdx := i + 2
		isPayment := item.Kind == schedule.KindInstallment || item.Kind == schedule.KindBalloon

		values := []interface{}{item.Label, item.Type, "", "", item.Value, item.PresentValue, item.Discount}
		if isPayment {
			values[2] = item.DueDate.Format(constants.DueDateLayout)
			values[3] = item.Days
		}
		for col, v := range values {
			cell := fmt.Sprintf("%c%d", 'A'+col, rowIdx)
			if err := f.SetCellValue(scheduleSheetName, cell, v); err != nil {
				return fmt.Errorf("failed to write schedule row: %w", err)
			}
		}

		moneyStyle := currencyStyle
		if item.Kind == schedule.KindTotal {
			moneyStyle = totalStyle
		}
		first := fmt.Sprintf("E%d", rowIdx)
		last := fmt.Sprintf("G%d", rowIdx)
		if err := f.SetCellStyle(scheduleSheetName, first, last, moneyStyle); err != nil {
			return fmt.Errorf("failed to style schedule row: %w", err)
		}
	}

	if err := f.SetColWidth(scheduleSheetName, "A", "B", 16); err != nil {
		return fmt.Errorf("failed to size schedule columns: %w", err)
	}
	return f.SetColWidth(scheduleSheetName, "C", "G", 18)
}

func stringPtr(s string) *string {
	return &s
}
