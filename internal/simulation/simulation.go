// Package simulation ties the rate converter, the payment solver and the
// schedule builder together: it resolves the financed amount and the missing
// payment amounts for the chosen modality and produces the final schedule
// plus summary totals.
package simulation

import (
	"fmt"
	"time"

	"github.com/Alliabson/Price/pkg/annuity"
	"github.com/Alliabson/Price/pkg/mathutil"
	"github.com/Alliabson/Price/pkg/rates"
	"github.com/Alliabson/Price/pkg/schedule"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Input is one simulation request. The caller owns the value; the engine
// keeps no state between calls. Override amounts of 0 mean "auto-compute".
type Input struct {
	PropertyValue       float64
	DownPayment         float64
	MonthlyRatePercent  float64
	InstallmentCount    int
	Modality            schedule.Modality
	BalloonKind         schedule.BalloonKind
	AnchorDate          time.Time
	DueDay              int
	InstallmentOverride float64
	BalloonOverride     float64
	Reconcile           schedule.ReconcilePolicy
	DiscountBasis       schedule.DiscountBasis

	// Property identification carried through to exports.
	Quadra   string
	Lote     string
	Metragem string
}

// Result bundles everything the presentation and export layers need.
type Result struct {
	ID                string
	Input             Input
	Financed          float64
	InstallmentAmount float64
	BalloonAmount     float64
	InstallmentCount  int
	BalloonCount      int
	Rates             rates.RateSet
	Schedule          schedule.Schedule
	TotalValue        float64
	TotalPresentValue float64
	TotalDiscount     float64
}

// BalloonCount derives how many balloons a plan carries. Mixed plans fit
// whole balloon intervals inside the installment count; balloon-only plans
// cover the nominal term with however many balloons it takes.
func BalloonCount(modality schedule.Modality, installments int, kind schedule.BalloonKind) int {
	if installments <= 0 {
		return 0
	}

	switch modality {
	case schedule.ModalityMonthlyPlusBalloon:
		return installments / kind.Interval()
	case schedule.ModalityBalloonOnlyAnnual:
		return ceilDiv(installments, schedule.BalloonAnnual.Interval())
	case schedule.ModalityBalloonOnlySemiannual:
		return ceilDiv(installments, schedule.BalloonSemiannual.Interval())
	}
	return 0
}

func ceilDiv(n, d int) int {
	return (n + d - 1) / d
}

// Simulate runs one financing simulation. The only errors are the
// form-blocking ones, a missing property value or a financed amount of
// zero; every numeric edge case inside the engine degrades to zeros per the
// solver contracts.
func Simulate(logger *zap.Logger, input Input) (*Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if input.PropertyValue <= 0 {
		return nil, fmt.Errorf("valor total do imóvel é obrigatório")
	}
	if input.DownPayment < 0 {
		return nil, fmt.Errorf("entrada não pode ser negativa")
	}

	financed := mathutil.Round(mathutil.Max(input.PropertyValue-input.DownPayment, 0))
	if financed <= 0 {
		return nil, fmt.Errorf("valor financiado deve ser maior que zero")
	}

	rateSet, rateStatus := rates.Derive(input.MonthlyRatePercent)
	if rateStatus == rates.StatusDegenerate {
		logger.Warn("monthly rate is unusable, proceeding with zero rates",
			zap.String("op", "simulation.Simulate"),
			zap.Float64("ratePercent", input.MonthlyRatePercent),
		)
	}

	result := &Result{
		ID:       uuid.NewString(),
		Input:    input,
		Financed: financed,
		Rates:    rateSet,
	}
	resolveAmounts(result, input, financed, rateSet)

	logger.Debug(fmt.Sprintf("simulating %s: financed %.2f, %d installments, %d balloons",
		input.Modality, financed, result.InstallmentCount, result.BalloonCount),
		zap.String("op", "simulation.Simulate"),
	)

	plan := schedule.Plan{
		Principal:         financed,
		InstallmentAmount: result.InstallmentAmount,
		BalloonAmount:     result.BalloonAmount,
		InstallmentCount:  result.InstallmentCount,
		BalloonCount:      result.BalloonCount,
		Modality:          input.Modality,
		BalloonKind:       input.BalloonKind,
		AnchorDate:        input.AnchorDate,
		DueDay:            input.DueDay,
		Rates:             rateSet,
		Reconcile:         input.Reconcile,
		Discount:          input.DiscountBasis,
	}
	result.Schedule = schedule.Build(logger, plan)

	if total, ok := result.Schedule.Total(); ok {
		result.TotalValue = total.Value
		result.TotalPresentValue = total.PresentValue
		result.TotalDiscount = total.Discount
	}

	return result, nil
}

// resolveAmounts fills in whichever payment amounts the form left at zero.
func resolveAmounts(result *Result, input Input, financed float64, rateSet rates.RateSet) {
	annual := input.BalloonKind != schedule.BalloonSemiannual
	balloonRate := rateSet.ForBalloon(annual)

	switch input.Modality {
	case schedule.ModalityMonthlyPlusBalloon:
		result.InstallmentCount = input.InstallmentCount
		result.BalloonCount = BalloonCount(input.Modality, input.InstallmentCount, input.BalloonKind)

		if input.InstallmentOverride > 0 {
			// The installment stream is fixed; whatever part of the
			// principal it does not cover is priced into the balloons.
			result.InstallmentAmount = input.InstallmentOverride
			covered := annuity.PresentValueOfAnnuity(input.InstallmentOverride, rateSet.Monthly, input.InstallmentCount)
			remainder := mathutil.Round(mathutil.Max(financed-covered.Value, 0))
			result.BalloonAmount = annuity.Payment(remainder, balloonRate, result.BalloonCount).Value
		} else {
			covered := annuity.PresentValueOfAnnuity(input.BalloonOverride, balloonRate, result.BalloonCount)
			remainder := mathutil.Round(mathutil.Max(financed-covered.Value, 0))
			result.BalloonAmount = input.BalloonOverride
			result.InstallmentAmount = annuity.Payment(remainder, rateSet.Monthly, input.InstallmentCount).Value
		}

	case schedule.ModalityBalloonOnlyAnnual:
		result.BalloonCount = BalloonCount(input.Modality, input.InstallmentCount, schedule.BalloonAnnual)
		result.BalloonAmount = annuity.Payment(financed, rateSet.Annual, result.BalloonCount).Value

	case schedule.ModalityBalloonOnlySemiannual:
		result.BalloonCount = BalloonCount(input.Modality, input.InstallmentCount, schedule.BalloonSemiannual)
		result.BalloonAmount = annuity.Payment(financed, rateSet.Semiannual, result.BalloonCount).Value

	default:
		result.InstallmentCount = input.InstallmentCount
		result.InstallmentAmount = annuity.Payment(financed, rateSet.Monthly, input.InstallmentCount).Value
	}
}
