package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/Alliabson/Price/internal/simulation"
	"github.com/Alliabson/Price/pkg/schedule"
	"go.uber.org/zap"
)

func sampleResult(t *testing.T) *simulation.Result {
	t.Helper()
	result, err := simulation.Simulate(zap.NewNop(), simulation.Input{
		PropertyValue:      150000,
		DownPayment:        30000,
		MonthlyRatePercent: 0.8,
		InstallmentCount:   24,
		Modality:           schedule.ModalityMonthlyPlusBalloon,
		BalloonKind:        schedule.BalloonAnnual,
		AnchorDate:         time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC),
		DueDay:             10,
		Quadra:             "Q05",
		Lote:               "L12",
		Metragem:           "360 m²",
	})
	if err != nil {
		t.Fatalf("Simulate returned error: %v", err)
	}
	return result
}

func TestPdfDocument(t *testing.T) {
	var buf bytes.Buffer
	if err := PdfDocument(&buf, sampleResult(t)); err != nil {
		t.Fatalf("PdfDocument returned error: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "%PDF") {
		t.Errorf("output does not look like a PDF, got prefix %q", buf.String()[:8])
	}
}

func TestPdfDocumentNilResult(t *testing.T) {
	var buf bytes.Buffer
	if err := PdfDocument(&buf, nil); err == nil {
		t.Error("expected an error for a nil simulation")
	}
}

func TestExcelWorkbook(t *testing.T) {
	var buf bytes.Buffer
	if err := ExcelWorkbook(&buf, sampleResult(t)); err != nil {
		t.Fatalf("ExcelWorkbook returned error: %v", err)
	}
	// XLSX files are zip archives.
	if !bytes.HasPrefix(buf.Bytes(), []byte("PK")) {
		t.Errorf("output does not look like a workbook, got prefix %q", buf.Bytes()[:2])
	}
}

func TestExcelWorkbookNilResult(t *testing.T) {
	var buf bytes.Buffer
	if err := ExcelWorkbook(&buf, nil); err == nil {
		t.Error("expected an error for a nil simulation")
	}
}
