// Package output provides utilities for formatting and displaying
// simulation results.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Alliabson/Price/internal/simulation"
	"github.com/Alliabson/Price/pkg/constants"
	"github.com/Alliabson/Price/pkg/format"
	"github.com/Alliabson/Price/pkg/schedule"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// PrettyFormat outputs a human-readable rather than machine-readable table.
func PrettyFormat(result *simulation.Result) {
	PrettyWrite(os.Stdout, result)
}

// PrettyWrite renders the human-readable table to the given writer.
func PrettyWrite(w io.Writer, result *simulation.Result) {
	p := message.NewPrinter(language.BrazilianPortuguese)

	fmt.Fprintf(w, "--- Simulação de Financiamento ---\n")
	fmt.Fprintf(w, "Valor Total:      %s\n", format.Currency(result.Input.PropertyValue))
	fmt.Fprintf(w, "Entrada:          %s\n", format.Currency(result.Input.DownPayment))
	fmt.Fprintf(w, "Valor Financiado: %s\n", format.Currency(result.Financed))
	_, _ = p.Fprintf(w, "Taxa Mensal:      %.2f%% (anual equivalente %.2f%%)\n",
		result.Input.MonthlyRatePercent, result.Rates.Annual*constants.PercentageMultiplier)
	if result.InstallmentAmount > 0 {
		fmt.Fprintf(w, "Valor da Parcela: %s\n", format.Currency(result.InstallmentAmount))
	}
	if result.BalloonAmount > 0 {
		fmt.Fprintf(w, "Valor do Balão:   %s\n", format.Currency(result.BalloonAmount))
	}
	fmt.Fprintf(w, "\n")

	fmt.Fprintf(w, "Item        | Tipo    | Vencimento | Dias | Valor           | Valor Presente  | Desconto\n")
	fmt.Fprintf(w, "____        | ____    | __________ | ____ | _____           | ______________  | ________\n")
	for _, item := range result.Schedule.Items {
		fmt.Fprintf(w, "%-11s | %-7s | %-10s | %4s | %15s | %15s | %s\n",
			item.Label,
			item.Type,
			dueDateString(item),
			daysString(item),
			format.NumericCurrency(item.Value),
			format.NumericCurrency(item.PresentValue),
			format.NumericCurrency(item.Discount),
		)
	}
}

// CsvFormat outputs in comma-separated value format.
func CsvFormat(result *simulation.Result) {
	fmt.Print(CsvString(result))
}

// CsvString renders the schedule in comma-separated value format.
func CsvString(result *simulation.Result) string {
	var builder strings.Builder

	builder.WriteString(`"item","tipo","vencimento","dias","valor","valor_presente","desconto_aplicado"` + "\n")
	for _, item := range result.Schedule.Items {
		fmt.Fprintf(&builder, `"%s","%s","%s","%s","%.2f","%.2f","%.2f"`+"\n",
			item.Label,
			item.Type,
			dueDateString(item),
			daysString(item),
			item.Value,
			item.PresentValue,
			item.Discount,
		)
	}

	return builder.String()
}

func dueDateString(item schedule.Item) string {
	if item.Kind == schedule.KindTotal || item.Kind == schedule.KindError || item.DueDate.IsZero() {
		return ""
	}
	return item.DueDate.Format(constants.DueDateLayout)
}

func daysString(item schedule.Item) string {
	if item.Kind == schedule.KindTotal || item.Kind == schedule.KindError {
		return ""
	}
	return fmt.Sprintf("%d", item.Days)
}
