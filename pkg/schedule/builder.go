package schedule

import (
	"fmt"
	"time"

	"github.com/Alliabson/Price/pkg/annuity"
	"github.com/Alliabson/Price/pkg/constants"
	"github.com/Alliabson/Price/pkg/datetime"
	"github.com/Alliabson/Price/pkg/mathutil"
	"go.uber.org/zap"
)

// Build produces the payment schedule for a plan. It never fails: if
// generation breaks down for any reason the returned schedule is the
// single-row ERRO sentinel, so rendering and export code always has a
// well-shaped value to work with.
//
// Build is stateless and referentially transparent; calling it twice with
// the same plan yields identical output.
func Build(logger *zap.Logger, plan Plan) Schedule {
	if logger == nil {
		logger = zap.NewNop()
	}

	sched, err := build(plan)
	if err != nil {
		logger.Error("schedule generation failed",
			zap.String("op", "schedule.Build"),
			zap.String("modality", plan.Modality.String()),
			zap.Error(err),
		)
		return errorSchedule()
	}

	logger.Debug(fmt.Sprintf("built %s schedule with %d rows", plan.Modality, len(sched.Items)-1),
		zap.String("op", "schedule.Build"),
	)
	return sched
}

func build(plan Plan) (sched Schedule, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("schedule generation panicked: %v", r)
		}
	}()

	dueDay := plan.DueDay
	if dueDay == 0 {
		dueDay = plan.AnchorDate.Day()
	}

	var items []Item
	switch plan.Modality {
	case ModalityBalloonOnlyAnnual, ModalityBalloonOnlySemiannual:
		items, err = buildBalloonOnly(plan, dueDay)
	case ModalityMonthlyPlusBalloon:
		items, err = buildMonthlyPlusBalloon(plan, dueDay)
	default:
		items, err = buildMonthly(plan, dueDay)
	}
	if err != nil {
		return Schedule{}, err
	}

	reconcile(plan, items)

	return Schedule{Items: append(items, totalRow(plan, items))}, nil
}

// buildMonthly generates the flat monthly installment rows.
func buildMonthly(plan Plan, dueDay int) ([]Item, error) {
	items := make([]Item, 0, plan.InstallmentCount+1)
	balance := plan.Principal
	payment := plan.InstallmentAmount

	for i := 1; i <= plan.InstallmentCount; i++ {
		due := datetime.NextDueDate(plan.AnchorDate, datetime.PeriodMonthly, i, dueDay)
		days := datetime.ElapsedDays(plan.AnchorDate, due)

		var row Item
		row, balance, payment = accrue(plan, balance, payment, plan.Rates.Monthly, due, days, i)
		row.Label = fmt.Sprintf("%s %d", constants.InstallmentLabelPrefix, i)
		row.Kind = KindInstallment
		row.Type = KindInstallment.String()

		if err := checkRow(row, i); err != nil {
			return nil, err
		}
		items = append(items, row)
	}

	return items, nil
}

// buildBalloonOnly generates annual or semiannual balloon rows with no
// monthly installments in between.
func buildBalloonOnly(plan Plan, dueDay int) ([]Item, error) {
	period := datetime.PeriodAnnual
	monthsPerPeriod := constants.MonthsPerYear
	rate := plan.Rates.Annual
	if plan.Modality == ModalityBalloonOnlySemiannual {
		period = datetime.PeriodSemiannual
		monthsPerPeriod = constants.MonthsPerSemester
		rate = plan.Rates.Semiannual
	}

	items := make([]Item, 0, plan.BalloonCount+1)
	balance := plan.Principal
	payment := plan.BalloonAmount

	for i := 1; i <= plan.BalloonCount; i++ {
		due := datetime.NextDueDate(plan.AnchorDate, period, i, dueDay)
		days := datetime.ElapsedDays(plan.AnchorDate, due)

		var row Item
		row, balance, payment = accrue(plan, balance, payment, rate, due, days, i*monthsPerPeriod)
		row.Label = fmt.Sprintf("%s %d", constants.BalloonLabelPrefix, i)
		row.Kind = KindBalloon
		row.Type = KindBalloon.String()

		if err := checkRow(row, i); err != nil {
			return nil, err
		}
		items = append(items, row)
	}

	return items, nil
}

// buildMonthlyPlusBalloon runs the monthly loop and inserts one balloon row
// after every interval of installments, both drawing down the same balance.
// Rows come out in chronological due-date order; a balloon shares the due
// date of the installment it follows.
func buildMonthlyPlusBalloon(plan Plan, dueDay int) ([]Item, error) {
	interval := plan.BalloonKind.Interval()
	balloonRate := plan.Rates.ForBalloon(plan.BalloonKind != BalloonSemiannual)

	items := make([]Item, 0, plan.InstallmentCount+plan.BalloonCount+1)
	balance := plan.Principal
	installment := plan.InstallmentAmount
	balloon := plan.BalloonAmount
	emitted := 0

	for i := 1; i <= plan.InstallmentCount; i++ {
		due := datetime.NextDueDate(plan.AnchorDate, datetime.PeriodMonthly, i, dueDay)
		days := datetime.ElapsedDays(plan.AnchorDate, due)

		var row Item
		row, balance, installment = accrue(plan, balance, installment, plan.Rates.Monthly, due, days, i)
		row.Label = fmt.Sprintf("%s %d", constants.InstallmentLabelPrefix, i)
		row.Kind = KindInstallment
		row.Type = KindInstallment.String()

		if err := checkRow(row, i); err != nil {
			return nil, err
		}
		items = append(items, row)

		if i%interval == 0 && emitted < plan.BalloonCount {
			emitted++

			var balloonRow Item
			balloonRow, balance, balloon = accrue(plan, balance, balloon, balloonRate, due, days, i)
			balloonRow.Label = fmt.Sprintf("%s %d", constants.BalloonLabelPrefix, emitted)
			balloonRow.Kind = KindBalloon
			balloonRow.Type = KindBalloon.String()

			if err := checkRow(balloonRow, i); err != nil {
				return nil, err
			}
			items = append(items, balloonRow)
		}
	}

	return items, nil
}

// accrue computes one row against the running balance: interest on the
// balance at the period rate, amortization as the payment remainder, with
// the amortization clamped at the balance so it can never go negative. When
// the clamp fires the payment itself is recomputed, which zeroes any rows
// past the natural payoff.
func accrue(plan Plan, balance, payment, rate float64, due time.Time, days, monthsElapsed int) (Item, float64, float64) {
	interest := balance * rate
	amortization := payment - interest
	if amortization > balance {
		amortization = balance
		payment = amortization + interest
	}
	balance -= amortization

	pv := discountRow(plan, payment, days, monthsElapsed)

	return Item{
		DueDate:      due,
		Days:         days,
		Value:        payment,
		PresentValue: pv,
		Discount:     payment - pv,
		Interest:     interest,
		Amortization: amortization,
		Balance:      balance,
	}, balance, payment
}

// discountRow brings a row's nominal value to present value on the common
// monthly-equivalent curve. The exponent follows the configured basis:
// elapsed whole months, or elapsed calendar days over 30 for legacy parity.
func discountRow(plan Plan, value float64, days, monthsElapsed int) float64 {
	exponent := float64(monthsElapsed)
	if plan.Discount == DiscountCalendarDays {
		exponent = float64(days) / constants.DaysPerMonth
	}
	return annuity.Discount(value, plan.Rates.Monthly, exponent)
}

// reconcile absorbs the drift between the discounted cash flow and the
// financed principal so the present-value total lands on it exactly.
func reconcile(plan Plan, items []Item) {
	if len(items) == 0 {
		return
	}

	sum := 0.0
	for _, item := range items {
		sum += item.PresentValue
	}
	if mathutil.WithinTolerance(sum, plan.Principal, constants.CurrencyTolerance) {
		return
	}

	switch plan.Reconcile {
	case ReconcileProportional:
		if sum == 0 {
			return
		}
		factor := plan.Principal / sum
		adjusted := 0.0
		for i := range items {
			items[i].PresentValue = mathutil.Round(items[i].PresentValue * factor)
			items[i].Discount = mathutil.Round(items[i].Value - items[i].PresentValue)
			adjusted += items[i].PresentValue
		}
		// Rounding each row can leave a residual of a few cents; the last
		// row absorbs it.
		residual := plan.Principal - adjusted
		if !mathutil.IsZero(residual) {
			last := &items[len(items)-1]
			last.PresentValue = mathutil.Round(last.PresentValue + residual)
			last.Discount = mathutil.Round(last.Value - last.PresentValue)
		}
	default:
		last := &items[len(items)-1]
		last.PresentValue = mathutil.Round(last.PresentValue + (plan.Principal - sum))
		last.Discount = mathutil.Round(last.Value - last.PresentValue)
	}
}

func totalRow(plan Plan, items []Item) Item {
	totalValue := 0.0
	for _, item := range items {
		totalValue += item.Value
	}
	totalValue = mathutil.Round(totalValue)

	return Item{
		Label:        constants.TotalLabel,
		Kind:         KindTotal,
		Type:         KindTotal.String(),
		Value:        totalValue,
		PresentValue: plan.Principal,
		Discount:     mathutil.Round(totalValue - plan.Principal),
	}
}

func checkRow(row Item, index int) error {
	if !mathutil.IsFinite(row.Value) || !mathutil.IsFinite(row.PresentValue) || !mathutil.IsFinite(row.Balance) {
		return fmt.Errorf("non-finite value at row %d", index)
	}
	return nil
}

func errorSchedule() Schedule {
	return Schedule{Items: []Item{{
		Label: constants.ErrorLabel,
		Kind:  KindError,
		Type:  KindError.String(),
	}}}
}
