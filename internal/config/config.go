// Package config defines the data structures related to configuration and
// includes functions for loading and parsing the config.
package config

import (
	"fmt"
	"io"
	"time"

	"github.com/Alliabson/Price/internal/simulation"
	"github.com/Alliabson/Price/pkg/constants"
	"github.com/Alliabson/Price/pkg/schedule"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for the financing simulator.
type Configuration struct {
	Simulation SimulationConfig
	Logging    LoggingConfig `yaml:"logging,omitempty"`
	Output     OutputConfig  `yaml:"output,omitempty"`
	Export     ExportConfig  `yaml:"export,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, csv
}

// ExportConfig holds optional export destinations.
type ExportConfig struct {
	PDF  string `yaml:"pdf,omitempty"`  // path of the PDF to write
	XLSX string `yaml:"xlsx,omitempty"` // path of the workbook to write
}

// SimulationConfig mirrors the simulator form: property identification,
// amounts, rate, term, modality and the engine policy knobs. Zero amounts
// mean "auto-compute".
type SimulationConfig struct {
	Quadra   string
	Lote     string
	Metragem string

	PropertyValue float64
	DownPayment   float64
	MonthlyRate   float64 // percent, e.g. 0.79 means 0.79% per month
	StartDate     string  // dd/mm/yyyy; empty means today
	DueDay        int     // day of month; 0 means the start date's day
	Installments  int
	Modality      string // mensal, mensal + balão, só balão anual, só balão semestral
	BalloonType   string // anual, semestral

	InstallmentAmount float64
	BalloonAmount     float64

	ReconcilePolicy string // ultima-parcela, proporcional
	DiscountBasis   string // periodos, dias
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yml")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}

	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}

	return &configuration, nil
}

// LoadConfigurationFromReader loads a YAML configuration from an in-memory
// reader; the HTTP server uses this for request payloads.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := viper.New()
	v.SetConfigType("yml")

	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config data, %s", err)
	}

	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}

	return &configuration, nil
}

// ToInput converts the simulation section into an engine input, resolving
// the modality, balloon cadence, policies and the anchor date.
func (conf *Configuration) ToInput() (simulation.Input, error) {
	return conf.ToInputWithFixedTime(time.Now())
}

// ToInputWithFixedTime is ToInput with an injectable clock for tests.
func (conf *Configuration) ToInputWithFixedTime(now time.Time) (simulation.Input, error) {
	sim := conf.Simulation

	modality, err := schedule.ParseModality(sim.Modality)
	if err != nil {
		return simulation.Input{}, err
	}

	balloonKind, err := schedule.ParseBalloonKind(sim.BalloonType)
	if err != nil {
		return simulation.Input{}, err
	}
	// Balloon-only modalities fix their own cadence.
	switch modality {
	case schedule.ModalityBalloonOnlyAnnual:
		balloonKind = schedule.BalloonAnnual
	case schedule.ModalityBalloonOnlySemiannual:
		balloonKind = schedule.BalloonSemiannual
	}

	reconcile, err := schedule.ParseReconcilePolicy(sim.ReconcilePolicy)
	if err != nil {
		return simulation.Input{}, err
	}

	basis, err := schedule.ParseDiscountBasis(sim.DiscountBasis)
	if err != nil {
		return simulation.Input{}, err
	}

	anchor := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if sim.StartDate != "" {
		anchor, err = parseDate(sim.StartDate)
		if err != nil {
			return simulation.Input{}, err
		}
	}

	return simulation.Input{
		PropertyValue:       sim.PropertyValue,
		DownPayment:         sim.DownPayment,
		MonthlyRatePercent:  sim.MonthlyRate,
		InstallmentCount:    sim.Installments,
		Modality:            modality,
		BalloonKind:         balloonKind,
		AnchorDate:          anchor,
		DueDay:              sim.DueDay,
		InstallmentOverride: sim.InstallmentAmount,
		BalloonOverride:     sim.BalloonAmount,
		Reconcile:           reconcile,
		DiscountBasis:       basis,
		Quadra:              sim.Quadra,
		Lote:                sim.Lote,
		Metragem:            sim.Metragem,
	}, nil
}

func parseDate(value string) (time.Time, error) {
	for _, layout := range []string{constants.DueDateLayout, "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid start date %q, expected dd/mm/yyyy", value)
}

// ValidateConfiguration checks the configuration for suspicious values and
// returns a list of warnings. Warnings never block a simulation; the engine
// degrades to zeros on bad numbers.
func (conf *Configuration) ValidateConfiguration() []string {
	var warnings []string
	sim := conf.Simulation

	if sim.PropertyValue <= 0 {
		warnings = append(warnings, "property value is zero; the simulation will be rejected")
	}
	if sim.DownPayment > sim.PropertyValue {
		warnings = append(warnings, "down payment exceeds the property value")
	}
	if sim.MonthlyRate <= 0 {
		warnings = append(warnings, "monthly rate is zero; payment amounts will be zero")
	}
	if sim.MonthlyRate > 5 {
		warnings = append(warnings, fmt.Sprintf("monthly rate of %.2f%% is unusually high", sim.MonthlyRate))
	}
	if sim.Installments <= 0 {
		warnings = append(warnings, "installment count is zero; the schedule will be empty")
	}
	if sim.DueDay < 0 || sim.DueDay > 31 {
		warnings = append(warnings, fmt.Sprintf("due day %d is outside 1-31 and will fall back to day %d",
			sim.DueDay, constants.FallbackDueDay))
	}

	return warnings
}
