package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Alliabson/Price/pkg/schedule"
)

const sampleConfig = `
logging:
  level: debug
  format: console
output:
  format: csv
export:
  pdf: simulacao.pdf
simulation:
  quadra: "A"
  lote: "12"
  metragem: "450"
  propertyValue: 250000
  downPayment: 50000
  monthlyRate: 0.79
  startDate: 15/01/2024
  dueDay: 15
  installments: 120
  modality: "mensal + balão"
  balloonType: anual
  installmentAmount: 1500
  reconcilePolicy: proporcional
  discountBasis: dias
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoadConfiguration(t *testing.T) {
	conf, err := LoadConfiguration(writeConfig(t, sampleConfig))
	if err != nil {
		t.Fatalf("LoadConfiguration() error: %v", err)
	}

	if conf.Logging.Level != "debug" || conf.Logging.Format != "console" {
		t.Errorf("logging config = %+v", conf.Logging)
	}
	if conf.Output.Format != "csv" {
		t.Errorf("output format = %q, expected csv", conf.Output.Format)
	}
	if conf.Export.PDF != "simulacao.pdf" {
		t.Errorf("export pdf = %q", conf.Export.PDF)
	}
	if conf.Simulation.PropertyValue != 250000 {
		t.Errorf("property value = %v, expected 250000", conf.Simulation.PropertyValue)
	}
	if conf.Simulation.Installments != 120 {
		t.Errorf("installments = %d, expected 120", conf.Simulation.Installments)
	}
	if conf.Simulation.Quadra != "A" || conf.Simulation.Lote != "12" {
		t.Errorf("property identification = %q/%q", conf.Simulation.Quadra, conf.Simulation.Lote)
	}
}

func TestLoadConfigurationFromReader(t *testing.T) {
	conf, err := LoadConfigurationFromReader(strings.NewReader(sampleConfig))
	if err != nil {
		t.Fatalf("LoadConfigurationFromReader() error: %v", err)
	}
	if conf.Simulation.MonthlyRate != 0.79 {
		t.Errorf("monthly rate = %v, expected 0.79", conf.Simulation.MonthlyRate)
	}
}

func TestLoadConfigurationMissingFile(t *testing.T) {
	if _, err := LoadConfiguration(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("LoadConfiguration() expected an error for a missing file")
	}
}

func TestToInput(t *testing.T) {
	conf, err := LoadConfigurationFromReader(strings.NewReader(sampleConfig))
	if err != nil {
		t.Fatalf("LoadConfigurationFromReader() error: %v", err)
	}

	input, err := conf.ToInput()
	if err != nil {
		t.Fatalf("ToInput() error: %v", err)
	}

	if input.Modality != schedule.ModalityMonthlyPlusBalloon {
		t.Errorf("modality = %v, expected ModalityMonthlyPlusBalloon", input.Modality)
	}
	if input.BalloonKind != schedule.BalloonAnnual {
		t.Errorf("balloon kind = %v, expected BalloonAnnual", input.BalloonKind)
	}
	if input.Reconcile != schedule.ReconcileProportional {
		t.Errorf("reconcile = %v, expected ReconcileProportional", input.Reconcile)
	}
	if input.DiscountBasis != schedule.DiscountCalendarDays {
		t.Errorf("discount basis = %v, expected DiscountCalendarDays", input.DiscountBasis)
	}
	if input.AnchorDate.Format("02/01/2006") != "15/01/2024" {
		t.Errorf("anchor date = %v, expected 15/01/2024", input.AnchorDate)
	}
	if input.InstallmentOverride != 1500 {
		t.Errorf("installment override = %v, expected 1500", input.InstallmentOverride)
	}
}

func TestToInputDefaultsAnchorToToday(t *testing.T) {
	conf := &Configuration{
		Simulation: SimulationConfig{PropertyValue: 100000, MonthlyRate: 1, Installments: 12},
	}
	now := time.Date(2024, 5, 20, 14, 30, 0, 0, time.UTC)
	input, err := conf.ToInputWithFixedTime(now)
	if err != nil {
		t.Fatalf("ToInputWithFixedTime() error: %v", err)
	}
	if !input.AnchorDate.Equal(time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("anchor date = %v, expected midnight of the fixed time", input.AnchorDate)
	}
}

func TestToInputBalloonOnlyForcesCadence(t *testing.T) {
	conf := &Configuration{
		Simulation: SimulationConfig{Modality: "só balão semestral"},
	}
	input, err := conf.ToInput()
	if err != nil {
		t.Fatalf("ToInput() error: %v", err)
	}
	if input.BalloonKind != schedule.BalloonSemiannual {
		t.Errorf("balloon kind = %v, expected BalloonSemiannual", input.BalloonKind)
	}
}

func TestToInputErrors(t *testing.T) {
	tests := []struct {
		name string
		sim  SimulationConfig
	}{
		{name: "Bad modality", sim: SimulationConfig{Modality: "quinzenal"}},
		{name: "Bad balloon type", sim: SimulationConfig{BalloonType: "mensal"}},
		{name: "Bad reconcile policy", sim: SimulationConfig{ReconcilePolicy: "media"}},
		{name: "Bad discount basis", sim: SimulationConfig{DiscountBasis: "horas"}},
		{name: "Bad start date", sim: SimulationConfig{StartDate: "2024/99/99"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conf := &Configuration{Simulation: tt.sim}
			if _, err := conf.ToInput(); err == nil {
				t.Error("ToInput() expected an error")
			}
		})
	}
}

func TestValidateConfiguration(t *testing.T) {
	conf := &Configuration{
		Simulation: SimulationConfig{
			PropertyValue: 0,
			DownPayment:   1000,
			MonthlyRate:   0,
			Installments:  0,
			DueDay:        45,
		},
	}

	warnings := conf.ValidateConfiguration()
	if len(warnings) < 4 {
		t.Errorf("expected at least 4 warnings, got %d: %v", len(warnings), warnings)
	}

	good := &Configuration{
		Simulation: SimulationConfig{
			PropertyValue: 250000,
			DownPayment:   50000,
			MonthlyRate:   0.79,
			Installments:  120,
			DueDay:        15,
		},
	}
	if warnings := good.ValidateConfiguration(); len(warnings) != 0 {
		t.Errorf("expected no warnings for a sane config, got %v", warnings)
	}
}
