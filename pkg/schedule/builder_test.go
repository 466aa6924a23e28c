package schedule

import (
	"math"
	"reflect"
	"testing"

	"github.com/Alliabson/Price/pkg/annuity"
	"github.com/Alliabson/Price/pkg/datetime"
	"github.com/Alliabson/Price/pkg/rates"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

func monthlyPlan(t *testing.T, principal, ratePercent float64, installments int) Plan {
	t.Helper()

	set, status := rates.Derive(ratePercent)
	if status != rates.StatusOK {
		t.Fatalf("Derive(%v) status = %v, expected StatusOK", ratePercent, status)
	}

	payment := annuity.Payment(principal, set.Monthly, installments)
	if payment.Status != annuity.StatusOK {
		t.Fatalf("Payment() status = %v, expected StatusOK", payment.Status)
	}

	return Plan{
		Principal:         principal,
		InstallmentAmount: payment.Value,
		InstallmentCount:  installments,
		Modality:          ModalityMonthly,
		AnchorDate:        datetime.MustParseTime(dateLayout, "2024-01-15"),
		DueDay:            15,
		Rates:             set,
	}
}

func TestBuildMonthlyEndToEnd(t *testing.T) {
	plan := monthlyPlan(t, 100000, 1.5, 36)
	sched := Build(zap.NewNop(), plan)

	if sched.IsError() {
		t.Fatal("Build() returned the error sentinel for a valid plan")
	}
	if len(sched.Items) != 37 {
		t.Fatalf("len(Items) = %d, expected 37 (36 rows + TOTAL)", len(sched.Items))
	}

	rows := sched.Rows()
	if len(rows) != 36 {
		t.Fatalf("len(Rows()) = %d, expected 36", len(rows))
	}

	for i, row := range rows {
		if row.Kind != KindInstallment {
			t.Errorf("row %d kind = %v, expected KindInstallment", i, row.Kind)
		}
		if i > 0 && row.Balance > rows[i-1].Balance+0.001 {
			t.Errorf("row %d balance %.4f exceeds previous %.4f", i, row.Balance, rows[i-1].Balance)
		}
	}

	if rows[0].Label != "Parcela 1" {
		t.Errorf("first label = %q, expected \"Parcela 1\"", rows[0].Label)
	}
	if rows[0].DueDate.Format(dateLayout) != "2024-02-15" {
		t.Errorf("first due date = %s, expected 2024-02-15", rows[0].DueDate.Format(dateLayout))
	}

	final := rows[len(rows)-1]
	if math.Abs(final.Balance) > 0.01 {
		t.Errorf("final balance = %.4f, expected 0 (±0.01)", final.Balance)
	}

	total, ok := sched.Total()
	if !ok {
		t.Fatal("Total() not found")
	}
	if math.Abs(total.PresentValue-100000) > 0.01 {
		t.Errorf("TOTAL present value = %.4f, expected 100000.00 (±0.01)", total.PresentValue)
	}

	pvSum := 0.0
	for _, row := range rows {
		pvSum += row.PresentValue
	}
	if math.Abs(pvSum-100000) > 0.01 {
		t.Errorf("sum of row present values = %.4f, expected 100000.00 (±0.01)", pvSum)
	}
}

func TestBuildMonthlyPlusBalloonPositions(t *testing.T) {
	set, _ := rates.Derive(1.0)
	payment := annuity.Payment(80000, set.Monthly, 24)

	plan := Plan{
		Principal:         100000,
		InstallmentAmount: payment.Value,
		BalloonAmount:     12000,
		InstallmentCount:  24,
		BalloonCount:      2,
		Modality:          ModalityMonthlyPlusBalloon,
		BalloonKind:       BalloonAnnual,
		AnchorDate:        datetime.MustParseTime(dateLayout, "2024-01-15"),
		DueDay:            15,
		Rates:             set,
	}

	sched := Build(zap.NewNop(), plan)
	rows := sched.Rows()
	if len(rows) != 26 {
		t.Fatalf("len(Rows()) = %d, expected 26 (24 installments + 2 balloons)", len(rows))
	}

	var balloonIndices []int
	balloons := 0
	for i, row := range rows {
		if row.Kind == KindBalloon {
			balloons++
			balloonIndices = append(balloonIndices, i)
		}
	}
	if balloons != 2 {
		t.Fatalf("balloon rows = %d, expected exactly 2", balloons)
	}

	// Balloons follow the 12th and 24th installment.
	if balloonIndices[0] != 12 || balloonIndices[1] != 25 {
		t.Errorf("balloon positions = %v, expected [12 25]", balloonIndices)
	}
	if rows[12].Label != "Balão 1" || rows[25].Label != "Balão 2" {
		t.Errorf("balloon labels = %q, %q", rows[12].Label, rows[25].Label)
	}

	// A balloon shares the due date of the installment it follows.
	if !rows[12].DueDate.Equal(rows[11].DueDate) {
		t.Errorf("balloon 1 due %v, expected installment 12 due %v", rows[12].DueDate, rows[11].DueDate)
	}
}

func TestBuildBalloonOnly(t *testing.T) {
	tests := []struct {
		name     string
		modality Modality
		balloons int
		firstDue string
	}{
		{
			name:     "Annual balloons",
			modality: ModalityBalloonOnlyAnnual,
			balloons: 3,
			firstDue: "2025-01-15",
		},
		{
			name:     "Semiannual balloons",
			modality: ModalityBalloonOnlySemiannual,
			balloons: 6,
			firstDue: "2024-07-15",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set, _ := rates.Derive(0.79)
			rate := set.Annual
			if tt.modality == ModalityBalloonOnlySemiannual {
				rate = set.Semiannual
			}
			payment := annuity.Payment(100000, rate, tt.balloons)

			plan := Plan{
				Principal:     100000,
				BalloonAmount: payment.Value,
				BalloonCount:  tt.balloons,
				Modality:      tt.modality,
				AnchorDate:    datetime.MustParseTime(dateLayout, "2024-01-15"),
				DueDay:        15,
				Rates:         set,
			}

			sched := Build(zap.NewNop(), plan)
			rows := sched.Rows()
			if len(rows) != tt.balloons {
				t.Fatalf("len(Rows()) = %d, expected %d", len(rows), tt.balloons)
			}
			for _, row := range rows {
				if row.Kind != KindBalloon {
					t.Errorf("row %q kind = %v, expected KindBalloon", row.Label, row.Kind)
				}
			}
			if rows[0].DueDate.Format(dateLayout) != tt.firstDue {
				t.Errorf("first due date = %s, expected %s", rows[0].DueDate.Format(dateLayout), tt.firstDue)
			}
			if math.Abs(rows[len(rows)-1].Balance) > 0.05 {
				t.Errorf("final balance = %.4f, expected ~0", rows[len(rows)-1].Balance)
			}

			total, ok := sched.Total()
			if !ok {
				t.Fatal("Total() not found")
			}
			if total.PresentValue != 100000 {
				t.Errorf("TOTAL present value = %v, expected exactly 100000", total.PresentValue)
			}
		})
	}
}

func TestBuildIdempotent(t *testing.T) {
	plan := monthlyPlan(t, 250000, 0.79, 48)

	first := Build(zap.NewNop(), plan)
	second := Build(zap.NewNop(), plan)

	if !reflect.DeepEqual(first, second) {
		t.Error("repeated Build() calls with identical plans produced different schedules")
	}
}

func TestBuildErrorSentinel(t *testing.T) {
	plan := monthlyPlan(t, 100000, 1.5, 12)
	plan.Principal = math.NaN()

	sched := Build(zap.NewNop(), plan)
	if !sched.IsError() {
		t.Fatal("Build() with a poisoned plan did not return the error sentinel")
	}
	row := sched.Items[0]
	if row.Label != "ERRO" {
		t.Errorf("sentinel label = %q, expected \"ERRO\"", row.Label)
	}
	if row.Value != 0 || row.PresentValue != 0 || row.Discount != 0 {
		t.Errorf("sentinel row has non-zero fields: %+v", row)
	}
}

func TestReconcileProportional(t *testing.T) {
	plan := monthlyPlan(t, 100000, 1.5, 36)
	plan.Reconcile = ReconcileProportional

	sched := Build(zap.NewNop(), plan)
	rows := sched.Rows()

	pvSum := 0.0
	for _, row := range rows {
		pvSum += row.PresentValue
	}
	if math.Abs(pvSum-100000) > 0.01 {
		t.Errorf("sum of present values = %.4f, expected 100000.00 (±0.01)", pvSum)
	}

	for _, row := range rows {
		if math.Abs(row.Discount-(row.Value-row.PresentValue)) > 0.011 {
			t.Errorf("row %q discount %.4f does not match value-PV %.4f",
				row.Label, row.Discount, row.Value-row.PresentValue)
		}
	}
}

func TestBuildDiscountBases(t *testing.T) {
	wholePlan := monthlyPlan(t, 100000, 1.5, 12)
	dayPlan := wholePlan
	dayPlan.Discount = DiscountCalendarDays

	whole := Build(zap.NewNop(), wholePlan)
	days := Build(zap.NewNop(), dayPlan)

	// Both bases reconcile onto the principal.
	for _, sched := range []Schedule{whole, days} {
		total, ok := sched.Total()
		if !ok {
			t.Fatal("Total() not found")
		}
		if total.PresentValue != 100000 {
			t.Errorf("TOTAL present value = %v, expected exactly 100000", total.PresentValue)
		}
	}

	// February is shorter than 30 days, so the calendar-day basis discounts
	// the early rows differently than whole months.
	differs := false
	for i := range whole.Rows() {
		if math.Abs(whole.Rows()[i].PresentValue-days.Rows()[i].PresentValue) > 0.001 {
			differs = true
			break
		}
	}
	if !differs {
		t.Error("calendar-day basis produced identical present values to whole-period basis")
	}
}

func TestBuildZeroRatePassesNominal(t *testing.T) {
	plan := Plan{
		Principal:         12000,
		InstallmentAmount: 1000,
		InstallmentCount:  12,
		Modality:          ModalityMonthly,
		AnchorDate:        datetime.MustParseTime(dateLayout, "2024-01-15"),
		DueDay:            15,
		Rates:             rates.Zero,
	}

	sched := Build(zap.NewNop(), plan)
	rows := sched.Rows()
	if len(rows) != 12 {
		t.Fatalf("len(Rows()) = %d, expected 12", len(rows))
	}
	// With a zero rate the discounting passes nominal values through and
	// their sum is already the principal.
	total, _ := sched.Total()
	if total.PresentValue != 12000 {
		t.Errorf("TOTAL present value = %v, expected 12000", total.PresentValue)
	}
}

func TestParseModality(t *testing.T) {
	tests := []struct {
		input    string
		expected Modality
		wantErr  bool
	}{
		{input: "mensal", expected: ModalityMonthly},
		{input: "", expected: ModalityMonthly},
		{input: "mensal + balão", expected: ModalityMonthlyPlusBalloon},
		{input: "só balão anual", expected: ModalityBalloonOnlyAnnual},
		{input: "só balão semestral", expected: ModalityBalloonOnlySemiannual},
		{input: "quinzenal", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseModality(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseModality(%q) expected error", tt.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseModality(%q) unexpected error: %v", tt.input, err)
			continue
		}
		if got != tt.expected {
			t.Errorf("ParseModality(%q) = %v, expected %v", tt.input, got, tt.expected)
		}
	}
}
