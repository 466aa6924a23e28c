// Package validation provides common validation utilities.
package validation

import (
	"fmt"

	"github.com/Alliabson/Price/pkg/constants"
)

// ValidateOutputFormat checks if the output format is one of the supported formats.
func ValidateOutputFormat(format string) error {
	if format != constants.OutputFormatPretty && format != constants.OutputFormatCSV {
		return fmt.Errorf("expected output format of %s or %s, got %s",
			constants.OutputFormatPretty, constants.OutputFormatCSV, format)
	}
	return nil
}

// ValidateDueDay checks that a configured due day is usable as a day of
// month. Zero is allowed and means "use the anchor date's day".
func ValidateDueDay(day int) error {
	if day < 0 || day > 31 {
		return fmt.Errorf("due day must be between 1 and 31, got %d", day)
	}
	return nil
}
