// Package annuity implements the constant-payment formulas used to price
// installments and balloons: the payment of an ordinary annuity, its present
// value, and single cash flow discounting.
//
// The solvers never return an error. Degenerate inputs and numeric
// singularities collapse to a zero value carrying an explanatory status;
// the caller decides what a zero means (usually "could not determine").
package annuity

import (
	"math"

	"github.com/Alliabson/Price/pkg/mathutil"
)

// Status qualifies a solver result.
type Status int

const (
	// StatusOK indicates a normally computed value.
	StatusOK Status = iota
	// StatusDegenerate indicates the inputs were out of domain
	// (periods <= 0, rate <= 0, principal <= 0).
	StatusDegenerate
	// StatusSingular indicates the formula produced NaN or an infinity.
	StatusSingular
)

// Result is a solver outcome: a usable value plus the reason it may be zero.
type Result struct {
	Value  float64
	Status Status
}

func degenerate() Result { return Result{Value: 0, Status: StatusDegenerate} }
func singular() Result   { return Result{Value: 0, Status: StatusSingular} }

// Payment computes the constant payment that amortizes principal over the
// given number of periods at the given periodic rate:
//
//	payment = principal * rate / (1 - (1+rate)^-periods)
//
// The value is absolute and rounded to two decimals.
func Payment(principal, ratePeriod float64, periods int) Result {
	if periods <= 0 || ratePeriod <= 0 || principal <= 0 {
		return degenerate()
	}

	denominator := 1.0 - math.Pow(1.0+ratePeriod, -float64(periods))
	payment := principal * ratePeriod / denominator
	if !mathutil.IsFinite(payment) {
		return singular()
	}

	return Result{Value: mathutil.Round(math.Abs(payment)), Status: StatusOK}
}

// PresentValueOfAnnuity computes the present value of an ordinary annuity of
// the given constant amount over periods at ratePeriod:
//
//	pv = amount * (1 - (1+rate)^-periods) / rate
//
// The value is absolute and rounded to two decimals.
func PresentValueOfAnnuity(amount, ratePeriod float64, periods int) Result {
	if periods <= 0 || ratePeriod <= 0 {
		return degenerate()
	}

	factor := (1.0 - math.Pow(1.0+ratePeriod, -float64(periods))) / ratePeriod
	value := amount * factor
	if !mathutil.IsFinite(value) {
		return singular()
	}

	return Result{Value: mathutil.Round(math.Abs(value)), Status: StatusOK}
}

// Discount brings a single future cash flow back to the anchor date:
// future / (1+rate)^exponent. A non-positive rate or exponent returns the
// future value unchanged, so a zero-rate simulation degrades to nominal
// values rather than failing.
func Discount(future, rate, exponent float64) float64 {
	if exponent <= 0 || rate <= 0 {
		return future
	}

	value := future / math.Pow(1.0+rate, exponent)
	if !mathutil.IsFinite(value) {
		return future
	}
	return value
}
