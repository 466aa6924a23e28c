// Package rates converts a nominal monthly interest rate into the set of
// compound-equivalent rates used throughout the simulator.
package rates

import (
	"math"

	"github.com/Alliabson/Price/pkg/constants"
	"github.com/Alliabson/Price/pkg/mathutil"
)

// Status qualifies the outcome of a rate derivation. The derivation never
// fails; a degenerate input simply produces the zero RateSet so downstream
// payment formulas report zero instead of crashing.
type Status int

const (
	// StatusOK indicates the rates were derived normally.
	StatusOK Status = iota
	// StatusDegenerate indicates the input was unusable (negative or
	// non-finite) and the zero RateSet was returned instead.
	StatusDegenerate
)

// RateSet holds the compound-equivalent decimal rates derived from a nominal
// monthly rate. It is immutable once computed.
type RateSet struct {
	Monthly    float64
	Annual     float64
	Semiannual float64
	Quarterly  float64
	Daily      float64
}

// Zero is the neutral RateSet produced for degenerate inputs.
var Zero = RateSet{}

// Derive converts a nominal monthly rate given as a percentage (0.79 means
// 0.79% per month) into the full set of equivalent compounded rates:
//
//	annual     = (1+i)^12 - 1
//	semiannual = (1+i)^6 - 1
//	quarterly  = (1+i)^3 - 1
//	daily      = (1+i)^(1/30) - 1
//
// where i is the monthly rate as a decimal. A negative or non-finite input
// yields the zero RateSet with StatusDegenerate.
func Derive(monthlyRatePercent float64) (RateSet, Status) {
	if !mathutil.IsFinite(monthlyRatePercent) || monthlyRatePercent < 0 {
		return Zero, StatusDegenerate
	}

	monthly := monthlyRatePercent / constants.PercentageMultiplier
	base := 1.0 + monthly

	set := RateSet{
		Monthly:    monthly,
		Annual:     math.Pow(base, constants.MonthsPerYear) - 1.0,
		Semiannual: math.Pow(base, constants.MonthsPerSemester) - 1.0,
		Quarterly:  math.Pow(base, constants.MonthsPerQuarter) - 1.0,
		Daily:      math.Pow(base, 1.0/constants.DaysPerMonth) - 1.0,
	}

	// An absurdly large percentage can overflow the annual compounding.
	if !mathutil.IsFinite(set.Annual) || !mathutil.IsFinite(set.Daily) {
		return Zero, StatusDegenerate
	}

	return set, StatusOK
}

// ForBalloon returns the rate matching a balloon cadence: the annual rate
// for annual balloons, the semiannual rate otherwise.
func (r RateSet) ForBalloon(annual bool) float64 {
	if annual {
		return r.Annual
	}
	return r.Semiannual
}
