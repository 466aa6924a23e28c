package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Alliabson/Price/internal/config"
	"github.com/Alliabson/Price/internal/simulation"
	"github.com/Alliabson/Price/pkg/constants"
	"github.com/Alliabson/Price/pkg/export"
	"github.com/Alliabson/Price/pkg/output"
	"github.com/Alliabson/Price/pkg/validation"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// initializeLogger creates a zap logger based on configuration and CLI override
func initializeLogger(loggingConfig config.LoggingConfig, logLevelOverride string) (*zap.Logger, error) {
	// Determine log level (CLI override takes precedence)
	level := loggingConfig.Level
	if logLevelOverride != "" {
		level = logLevelOverride
	}
	if level == "" {
		level = "info"
	}

	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn", "warning":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		return nil, fmt.Errorf("invalid log level: %s", level)
	}

	format := loggingConfig.Format
	if format == "" {
		format = "json"
	}

	var zapConfig zap.Config
	switch format {
	case "console":
		zapConfig = zap.NewDevelopmentConfig()
		zapConfig.Level = zap.NewAtomicLevelAt(zapLevel)
	case "json":
		zapConfig = zap.NewProductionConfig()
		zapConfig.Level = zap.NewAtomicLevelAt(zapLevel)
	default:
		return nil, fmt.Errorf("invalid log format: %s", format)
	}

	if loggingConfig.OutputFile != "" {
		if dir := filepath.Dir(loggingConfig.OutputFile); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create log directory %s: %v", dir, err)
			}
		}

		if file, err := os.OpenFile(loggingConfig.OutputFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644); err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %v", loggingConfig.OutputFile, err)
		} else {
			_ = file.Close()
		}

		zapConfig.OutputPaths = []string{loggingConfig.OutputFile}
		zapConfig.ErrorOutputPaths = []string{loggingConfig.OutputFile}
	}

	return zapConfig.Build()
}

func main() {
	// A .env file can override defaults during development; missing is fine.
	_ = godotenv.Load()

	configLocation := flag.String("config", constants.DefaultConfigFile, "path to configuration file")
	outputFormatFlag := flag.String("output-format", "", "type of output override: pretty, csv")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	pdfPath := flag.String("pdf", "", "write a PDF proposal to this path")
	xlsxPath := flag.String("xlsx", "", "write an Excel workbook to this path")
	flag.Parse()

	conf, err := config.LoadConfiguration(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		os.Exit(1)
	}

	logger, err := initializeLogger(conf.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	// Determine output format (CLI override takes precedence over config)
	outputFormat := conf.Output.Format
	if *outputFormatFlag != "" {
		outputFormat = *outputFormatFlag
	}
	if outputFormat == "" {
		outputFormat = constants.OutputFormatPretty
	}

	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		logger.Fatal(err.Error(),
			zap.String("op", "main"),
		)
	}

	warnings := conf.ValidateConfiguration()
	for _, warning := range warnings {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	input, err := conf.ToInput()
	if err != nil {
		logger.Fatal("failed to resolve simulation input",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	result, err := simulation.Simulate(logger, input)
	if err != nil {
		logger.Fatal("failed to run simulation",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	switch outputFormat {
	case constants.OutputFormatPretty:
		output.PrettyFormat(result)
	case constants.OutputFormatCSV:
		output.CsvFormat(result)
	}

	// CLI flags take precedence over the export section of the config.
	pdfTarget := conf.Export.PDF
	if *pdfPath != "" {
		pdfTarget = *pdfPath
	}
	if pdfTarget != "" {
		if err := writeExport(pdfTarget, result, export.PdfDocument); err != nil {
			logger.Fatal("failed to write PDF export",
				zap.String("op", "main"),
				zap.String("path", pdfTarget),
				zap.Error(err),
			)
		}
		logger.Info("PDF export written",
			zap.String("op", "main"),
			zap.String("path", pdfTarget),
		)
	}

	xlsxTarget := conf.Export.XLSX
	if *xlsxPath != "" {
		xlsxTarget = *xlsxPath
	}
	if xlsxTarget != "" {
		if err := writeExport(xlsxTarget, result, export.ExcelWorkbook); err != nil {
			logger.Fatal("failed to write Excel export",
				zap.String("op", "main"),
				zap.String("path", xlsxTarget),
				zap.Error(err),
			)
		}
		logger.Info("Excel export written",
			zap.String("op", "main"),
			zap.String("path", xlsxTarget),
		)
	}
}

func writeExport(path string, result *simulation.Result, render func(w io.Writer, result *simulation.Result) error) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := render(file, result); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}
