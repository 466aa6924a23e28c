// Package format renders and parses monetary values in the Brazilian
// convention: dot as thousands separator, comma as decimal separator.
package format

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var nonNumeric = regexp.MustCompile(`[^\d,-]`)

// Currency returns a currency string with the R$ symbol and separators
// (e.g., "R$ 1.234,56", "R$ -1.234,56").
func Currency(amount float64) string {
	return "R$ " + NumericCurrency(amount)
}

// NumericCurrency returns a currency string without the R$ symbol but with
// separators (e.g., "-1.234,56").
func NumericCurrency(amount float64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
	}
	return sign + formatPositiveCurrency(math.Abs(amount))
}

// ParseCurrency converts a user-entered Brazilian currency string into a
// float64 ("R$ 1.234,56" -> 1234.56). Parsing goes through a decimal so
// two-decimal amounts round exactly. An empty or unusable string yields 0
// without an error, matching the form's lenient input handling.
func ParseCurrency(value string) float64 {
	cleaned := strings.TrimSpace(strings.ReplaceAll(value, "R$", ""))
	if cleaned == "" {
		return 0
	}

	cleaned = nonNumeric.ReplaceAllString(cleaned, "")
	cleaned = strings.ReplaceAll(cleaned, ",", ".")
	// Keep only the last dot as the decimal separator; earlier ones were
	// thousands separators.
	if first, last := strings.Index(cleaned, "."), strings.LastIndex(cleaned, "."); first != last {
		cleaned = strings.ReplaceAll(cleaned[:last], ".", "") + cleaned[last:]
	}

	dec, err := decimal.NewFromString(cleaned)
	if err != nil {
		return 0
	}
	result, _ := dec.Round(2).Float64()
	return result
}

func formatPositiveCurrency(value float64) string {
	formatted := fmt.Sprintf("%.2f", value)
	parts := strings.SplitN(formatted, ".", 2)
	intPart := parts[0]
	decPart := "00"
	if len(parts) == 2 {
		decPart = parts[1]
	}

	if len(intPart) > 3 {
		var builder strings.Builder
		for i, digit := range intPart {
			if i > 0 && (len(intPart)-i)%3 == 0 {
				builder.WriteByte('.')
			}
			builder.WriteRune(digit)
		}
		intPart = builder.String()
	}

	return intPart + "," + decPart
}
