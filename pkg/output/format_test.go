package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/Alliabson/Price/internal/simulation"
	"github.com/Alliabson/Price/pkg/datetime"
	"github.com/Alliabson/Price/pkg/schedule"
	"go.uber.org/zap"
)

func sampleResult(t *testing.T) *simulation.Result {
	t.Helper()

	result, err := simulation.Simulate(zap.NewNop(), simulation.Input{
		PropertyValue:      125000,
		DownPayment:        25000,
		MonthlyRatePercent: 1.5,
		InstallmentCount:   12,
		Modality:           schedule.ModalityMonthly,
		AnchorDate:         datetime.MustParseTime("2006-01-02", "2024-01-15"),
		DueDay:             15,
	})
	if err != nil {
		t.Fatalf("Simulate() error: %v", err)
	}
	return result
}

func TestCsvString(t *testing.T) {
	csv := CsvString(sampleResult(t))

	lines := strings.Split(strings.TrimSpace(csv), "\n")
	// Header + 12 rows + TOTAL.
	if len(lines) != 14 {
		t.Fatalf("csv lines = %d, expected 14", len(lines))
	}
	if !strings.HasPrefix(lines[0], `"item","tipo","vencimento"`) {
		t.Errorf("unexpected header: %s", lines[0])
	}
	if !strings.Contains(lines[1], `"Parcela 1","Parcela","15/02/2024"`) {
		t.Errorf("unexpected first row: %s", lines[1])
	}
	if !strings.Contains(lines[13], `"TOTAL"`) {
		t.Errorf("last line is not the TOTAL row: %s", lines[13])
	}
	if !strings.Contains(lines[13], `"100000.00"`) {
		t.Errorf("TOTAL row does not carry the financed amount: %s", lines[13])
	}
}

func TestPrettyWrite(t *testing.T) {
	var buf bytes.Buffer
	PrettyWrite(&buf, sampleResult(t))
	out := buf.String()

	for _, fragment := range []string{
		"Valor Financiado: R$ 100.000,00",
		"Parcela 1",
		"TOTAL",
		"15/02/2024",
	} {
		if !strings.Contains(out, fragment) {
			t.Errorf("pretty output missing %q:\n%s", fragment, out)
		}
	}
}

func TestCsvStringErrorSentinel(t *testing.T) {
	result := sampleResult(t)
	result.Schedule = schedule.Schedule{Items: []schedule.Item{{
		Label: "ERRO",
		Kind:  schedule.KindError,
		Type:  schedule.KindError.String(),
	}}}

	csv := CsvString(result)
	if !strings.Contains(csv, `"ERRO"`) {
		t.Errorf("sentinel schedule not rendered: %s", csv)
	}
	// Sentinel rows carry no date or day count.
	if strings.Contains(csv, "15/02/2024") {
		t.Errorf("sentinel csv carries a due date: %s", csv)
	}
}
