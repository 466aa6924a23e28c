// Package constants provides shared constants for the financing simulator.
package constants

// DueDateLayout is the format used for due dates in output and exports.
const DueDateLayout = "02/01/2006"

// Financial constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// MonthsPerSemester is the number of months in a semester
	MonthsPerSemester = 6

	// MonthsPerQuarter is the number of months in a quarter
	MonthsPerQuarter = 3

	// DaysPerMonth is the commercial month length used for daily rates and
	// calendar-day discounting
	DaysPerMonth = 30

	// SemiannualDays is the day offset used when stepping semiannual due dates
	SemiannualDays = 180

	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0

	// FallbackDueDay is the day of month used when the requested due day
	// cannot be resolved in the target month
	FallbackDueDay = 28
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"
)

// Schedule row labels
const (
	// InstallmentLabelPrefix prefixes installment row labels, e.g. "Parcela 3"
	InstallmentLabelPrefix = "Parcela"

	// BalloonLabelPrefix prefixes balloon row labels, e.g. "Balão 2"
	BalloonLabelPrefix = "Balão"

	// TotalLabel is the label of the synthetic aggregate row
	TotalLabel = "TOTAL"

	// ErrorLabel is the label of the sentinel row returned when schedule
	// generation fails
	ErrorLabel = "ERRO"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"

	// DefaultMaxBodySizeBytes is the default maximum request body size (256 KB)
	DefaultMaxBodySizeBytes int64 = 256 * 1024
)
