// Package schedule builds financing payment schedules: ordered installment
// and balloon rows with declining-balance accrual, present-value discounting
// and a reconciliation step that forces the discounted total back onto the
// financed principal.
package schedule

import (
	"fmt"
	"time"

	"github.com/Alliabson/Price/pkg/constants"
	"github.com/Alliabson/Price/pkg/rates"
)

// Kind identifies the type of a schedule row.
type Kind int

const (
	// KindInstallment is a regular monthly installment row.
	KindInstallment Kind = iota
	// KindBalloon is a balloon payment row.
	KindBalloon
	// KindTotal is the synthetic aggregate row appended after generation.
	KindTotal
	// KindError marks the sentinel row returned when generation fails.
	KindError
)

// String returns the row type label used in tables and exports.
func (k Kind) String() string {
	switch k {
	case KindInstallment:
		return "Parcela"
	case KindBalloon:
		return "Balão"
	case KindTotal:
		return ""
	case KindError:
		return "Erro no cálculo"
	}
	return ""
}

// Modality is the payment-structure choice of the simulation.
type Modality int

const (
	// ModalityMonthly is a flat monthly installment plan.
	ModalityMonthly Modality = iota
	// ModalityMonthlyPlusBalloon layers periodic balloons on top of the
	// monthly installments.
	ModalityMonthlyPlusBalloon
	// ModalityBalloonOnlyAnnual pays through annual balloons only.
	ModalityBalloonOnlyAnnual
	// ModalityBalloonOnlySemiannual pays through semiannual balloons only.
	ModalityBalloonOnlySemiannual
)

// String returns the user-facing modality name.
func (m Modality) String() string {
	switch m {
	case ModalityMonthly:
		return "mensal"
	case ModalityMonthlyPlusBalloon:
		return "mensal + balão"
	case ModalityBalloonOnlyAnnual:
		return "só balão anual"
	case ModalityBalloonOnlySemiannual:
		return "só balão semestral"
	}
	return "desconhecida"
}

// ParseModality resolves a user-facing modality name.
func ParseModality(name string) (Modality, error) {
	switch name {
	case "mensal", "":
		return ModalityMonthly, nil
	case "mensal + balão", "mensal+balão":
		return ModalityMonthlyPlusBalloon, nil
	case "só balão anual":
		return ModalityBalloonOnlyAnnual, nil
	case "só balão semestral":
		return ModalityBalloonOnlySemiannual, nil
	}
	return ModalityMonthly, fmt.Errorf("unknown payment modality %q", name)
}

// BalloonKind is the balloon cadence of a mixed or balloon-only plan.
type BalloonKind int

const (
	// BalloonNone means the plan has no balloons.
	BalloonNone BalloonKind = iota
	// BalloonAnnual inserts one balloon every 12 installments.
	BalloonAnnual
	// BalloonSemiannual inserts one balloon every 6 installments.
	BalloonSemiannual
)

// String returns the user-facing balloon kind name.
func (b BalloonKind) String() string {
	switch b {
	case BalloonAnnual:
		return "anual"
	case BalloonSemiannual:
		return "semestral"
	}
	return ""
}

// Interval returns the number of monthly installments between balloons.
func (b BalloonKind) Interval() int {
	if b == BalloonSemiannual {
		return constants.MonthsPerSemester
	}
	return constants.MonthsPerYear
}

// ReconcilePolicy selects how the rounding drift between the discounted cash
// flow and the financed principal is absorbed.
type ReconcilePolicy int

const (
	// ReconcileLastRow adds the full difference to the last row's present
	// value.
	ReconcileLastRow ReconcilePolicy = iota
	// ReconcileProportional scales every row's present value by
	// principal/sum.
	ReconcileProportional
)

// ParseReconcilePolicy resolves a reconciliation policy name from
// configuration.
func ParseReconcilePolicy(name string) (ReconcilePolicy, error) {
	switch name {
	case "", "ultima-parcela", "last-row":
		return ReconcileLastRow, nil
	case "proporcional", "proportional":
		return ReconcileProportional, nil
	}
	return ReconcileLastRow, fmt.Errorf("unknown reconcile policy %q", name)
}

// DiscountBasis selects the exponent of the present-value discount curve.
type DiscountBasis int

const (
	// DiscountWholePeriods discounts by the elapsed whole month count.
	DiscountWholePeriods DiscountBasis = iota
	// DiscountCalendarDays discounts by elapsed calendar days over 30,
	// matching the legacy schedules.
	DiscountCalendarDays
)

// ParseDiscountBasis resolves a discount basis name from configuration.
func ParseDiscountBasis(name string) (DiscountBasis, error) {
	switch name {
	case "", "periodos", "periods":
		return DiscountWholePeriods, nil
	case "dias", "days":
		return DiscountCalendarDays, nil
	}
	return DiscountWholePeriods, fmt.Errorf("unknown discount basis %q", name)
}

// ParseBalloonKind resolves a balloon cadence name from configuration.
func ParseBalloonKind(name string) (BalloonKind, error) {
	switch name {
	case "":
		return BalloonNone, nil
	case "anual", "Anual":
		return BalloonAnnual, nil
	case "semestral", "Semestral":
		return BalloonSemiannual, nil
	}
	return BalloonNone, fmt.Errorf("unknown balloon type %q", name)
}

// Item is one schedule row. Items are immutable once the schedule is built.
type Item struct {
	Label        string    `json:"item"`
	Kind         Kind      `json:"-"`
	Type         string    `json:"tipo"`
	DueDate      time.Time `json:"dataVencimento"`
	Days         int       `json:"dias"`
	Value        float64   `json:"valor"`
	PresentValue float64   `json:"valorPresente"`
	Discount     float64   `json:"descontoAplicado"`
	Interest     float64   `json:"juros"`
	Amortization float64   `json:"amortizacao"`
	Balance      float64   `json:"saldoDevedor"`
}

// Plan carries everything the builder needs to produce a schedule. The
// caller owns the plan; the builder holds no state between calls.
type Plan struct {
	Principal         float64
	InstallmentAmount float64
	BalloonAmount     float64
	InstallmentCount  int
	BalloonCount      int
	Modality          Modality
	BalloonKind       BalloonKind
	AnchorDate        time.Time
	DueDay            int
	Rates             rates.RateSet
	Reconcile         ReconcilePolicy
	Discount          DiscountBasis
}

// Schedule is the ordered sequence of payment rows, chronological by due
// date, followed by exactly one TOTAL row.
type Schedule struct {
	Items []Item `json:"items"`
}

// Rows returns the payment rows without the trailing TOTAL row.
func (s Schedule) Rows() []Item {
	if len(s.Items) == 0 {
		return nil
	}
	if s.Items[len(s.Items)-1].Kind == KindTotal {
		return s.Items[:len(s.Items)-1]
	}
	return s.Items
}

// Total returns the TOTAL row and whether it exists.
func (s Schedule) Total() (Item, bool) {
	if len(s.Items) == 0 {
		return Item{}, false
	}
	last := s.Items[len(s.Items)-1]
	if last.Kind != KindTotal {
		return Item{}, false
	}
	return last, true
}

// IsError reports whether the schedule is the sentinel returned when
// generation failed.
func (s Schedule) IsError() bool {
	return len(s.Items) == 1 && s.Items[0].Kind == KindError
}
